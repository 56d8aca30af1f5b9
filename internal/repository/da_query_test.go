package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/da-dashboard/internal/database"
	"github.com/iliyamo/da-dashboard/internal/model"
)

func whereOf(t *testing.T, query string) string {
	t.Helper()
	i := strings.Index(query, " WHERE ")
	j := strings.Index(query, " ORDER BY")
	if i < 0 || j < 0 {
		t.Fatalf("unexpected query shape: %s", query)
	}
	return query[i+len(" WHERE ") : j]
}

func TestBuildDAListQueryAdminNoFilters(t *testing.T) {
	q, args := BuildDAListQuery(database.Postgres, model.Scope{AllRows: true, CanWrite: true}, DAFilter{})
	assert.Equal(t, "1=1", whereOf(t, q))
	assert.Empty(t, args)
	assert.True(t, strings.HasPrefix(q, "SELECT "))
	assert.Contains(t, q, "FROM da_users")
}

func TestBuildDAListQueryManagerWithFilters(t *testing.T) {
	s := model.Scope{ManagerMobile: "0911000111", CanWrite: true}
	q, args := BuildDAListQuery(database.Postgres, s, DAFilter{Region: "Amhara", Zone: "North Gondar", Woreda: "Dabat"})

	assert.Equal(t, "reporting_manager_mobile = $1 AND region = $2 AND zone = $3 AND woreda = $4", whereOf(t, q))
	assert.Equal(t, []any{"0911000111", "Amhara", "North Gondar", "Dabat"}, args)
}

func TestBuildDAListQueryRegionLockedIgnoresRegionFilter(t *testing.T) {
	s := model.Scope{RegionLocked: true, Regions: []string{" amhara ", "Amhara"}}
	q, args := BuildDAListQuery(database.MySQL, s, DAFilter{Region: "Oromia", Zone: "Awi"})

	assert.Equal(t, "region IN (?, ?) AND zone = ?", whereOf(t, q))
	assert.Equal(t, []any{" amhara ", "Amhara", "Awi"}, args)
}

func TestBuildDAListQueryRegionFold(t *testing.T) {
	s := model.Scope{RegionLocked: true, RegionFold: "Amhara"}
	q, args := BuildDAListQuery(database.Postgres, s, DAFilter{})

	assert.Equal(t, "LOWER(TRIM(region)) = LOWER(TRIM($1))", whereOf(t, q))
	assert.Equal(t, []any{"Amhara"}, args)
}

func TestBuildDAListQueryEmptyScopeMatchesNothing(t *testing.T) {
	q, args := BuildDAListQuery(database.Postgres, model.Scope{}, DAFilter{})
	assert.Equal(t, "1 = 0", whereOf(t, q))
	assert.Empty(t, args)
}

func TestBuildDAListQuerySearchIsParameterized(t *testing.T) {
	evil := "x' OR '1'='1_%"
	q, args := BuildDAListQuery(database.Postgres, model.Scope{AllRows: true}, DAFilter{Search: evil, Status: "Active", Kebele: "01"})

	assert.NotContains(t, q, evil)
	assert.Equal(t, "kebele = $1 AND status = $2 AND (LOWER(name) LIKE $3 OR contact_number LIKE $4)", whereOf(t, q))
	assert.Equal(t, `%x' or '1'='1\_\%%`, args[2])
	assert.Equal(t, `%x' OR '1'='1\_\%%`, args[3])
}

func TestBuildDAListQueryOrder(t *testing.T) {
	q, _ := BuildDAListQuery(database.Postgres, model.Scope{AllRows: true}, DAFilter{})
	order := q[strings.Index(q, "ORDER BY"):]
	assert.Contains(t, order, "CASE WHEN status = 'Active' THEN 0 ELSE 1 END")
	assert.Contains(t, order, "CASE WHEN status = 'Active' THEN total_data_collected ELSE 0 END DESC")
	assert.Contains(t, order, "LOWER(TRIM(COALESCE(name, '')))")
}

func TestCascadeOptions(t *testing.T) {
	locs := []Location{
		{"Amhara", "Awi", "Dangila", "01"},
		{"Amhara", "Awi", "Dangila", "02"},
		{"Amhara", "Awi", "Banja", "05"},
		{"Amhara", "North Gondar", "Dabat", "03"},
		{"Oromia", "Jimma", "Seka", "07"},
		{"", "", "", ""},
	}

	all := CascadeOptions(locs, DAFilter{})
	assert.Equal(t, []string{"Amhara", "Oromia"}, all.Regions)
	assert.Empty(t, all.Zones)

	byRegion := CascadeOptions(locs, DAFilter{Region: "Amhara"})
	assert.Equal(t, []string{"Awi", "North Gondar"}, byRegion.Zones)
	assert.Empty(t, byRegion.Woredas)

	byWoreda := CascadeOptions(locs, DAFilter{Region: "Amhara", Zone: "Awi", Woreda: "Dangila"})
	assert.Equal(t, []string{"Banja", "Dangila"}, byWoreda.Woredas)
	assert.Equal(t, []string{"01", "02"}, byWoreda.Kebeles)

	// a zone from another region does not leak in
	mismatch := CascadeOptions(locs, DAFilter{Region: "Oromia", Zone: "Awi"})
	assert.Equal(t, []string{"Jimma"}, mismatch.Zones)
	assert.Empty(t, mismatch.Woredas)
}

func TestLockRegionMergesVariants(t *testing.T) {
	locs := []Location{
		{"Amhara", "Awi", "Dangila", "01"},
		{" amhara ", "Gojjam", "Bahir Dar", "02"},
		{"AMHARA", "Awi", "Injibara", "03"},
	}
	got := CascadeOptions(LockRegion(locs, "Amhara"), DAFilter{Region: "Amhara", Zone: "Awi"})
	assert.Equal(t, []string{"Amhara"}, got.Regions)
	assert.Equal(t, []string{"Awi", "Gojjam"}, got.Zones)
	assert.Equal(t, []string{"Dangila", "Injibara"}, got.Woredas)
	assert.Equal(t, " amhara ", locs[1].Region)
}
