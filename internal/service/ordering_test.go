package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/da-dashboard/internal/model"
)

func names(users []model.DAUser) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Name
	}
	return out
}

func TestSortDAUsers(t *testing.T) {
	users := []model.DAUser{
		{Name: "zeleke", Status: "Inactive", TotalDataCollected: 500},
		{Name: "Bekele", Status: "Active", TotalDataCollected: 10},
		{Name: " abebe", Status: "Inactive", TotalDataCollected: 0},
		{Name: "Chala", Status: "Active", TotalDataCollected: 90},
		{Name: "almaz", Status: "Active", TotalDataCollected: 10},
		{Name: "Dawit", Status: "Pending", TotalDataCollected: 1000},
	}
	SortDAUsers(users)
	assert.Equal(t, []string{"Chala", "almaz", "Bekele", " abebe", "Dawit", "zeleke"}, names(users))
}
