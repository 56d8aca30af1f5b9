package service

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/iliyamo/da-dashboard/internal/model"
)

// SortDAUsers orders rows in place: Active rows first, Active rows by data
// volume descending, then every row by trimmed name using a locale-aware,
// case-insensitive collation.
func SortDAUsers(users []model.DAUser) {
	col := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		aActive, bActive := a.Status == model.StatusActive, b.Status == model.StatusActive
		if aActive != bActive {
			return aActive
		}
		if aActive && a.TotalDataCollected != b.TotalDataCollected {
			return a.TotalDataCollected > b.TotalDataCollected
		}
		return col.CompareString(strings.TrimSpace(a.Name), strings.TrimSpace(b.Name)) < 0
	})
}
