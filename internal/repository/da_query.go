package repository

import (
	"strings"

	"github.com/iliyamo/da-dashboard/internal/database"
	"github.com/iliyamo/da-dashboard/internal/model"
)

// DAFilter narrows a scoped DA listing.  Empty fields are ignored.
type DAFilter struct {
	Region string
	Zone   string
	Woreda string
	Kebele string
	Status string
	Search string // name (case-insensitive) or contact number substring
}

const daColumns = `COALESCE(name, ''), COALESCE(region, ''), COALESCE(zone, ''),
	COALESCE(woreda, ''), COALESCE(kebele, ''), contact_number,
	COALESCE(reporting_manager_name, ''), COALESCE(reporting_manager_mobile, ''),
	COALESCE(language, ''), COALESCE(total_data_collected, 0), COALESCE(status, ''), last_updated`

// daOrder puts Active rows first, Active rows by data volume, and every row
// alphabetically by trimmed name.
const daOrder = `ORDER BY
	CASE WHEN status = 'Active' THEN 0 ELSE 1 END,
	CASE WHEN status = 'Active' THEN total_data_collected ELSE 0 END DESC,
	LOWER(TRIM(COALESCE(name, '')))`

// scopeConditions appends the row predicate of s.  A scope without any
// predicate and without AllRows matches nothing.
func scopeConditions(args *database.Args, s model.Scope) []string {
	switch {
	case s.AllRows:
		return nil
	case s.RegionLocked && len(s.Regions) > 0:
		ph := make([]string, 0, len(s.Regions))
		for _, r := range s.Regions {
			ph = append(ph, args.Add(r))
		}
		return []string{"region IN (" + strings.Join(ph, ", ") + ")"}
	case s.RegionLocked && s.RegionFold != "":
		return []string{"LOWER(TRIM(region)) = LOWER(TRIM(" + args.Add(s.RegionFold) + "))"}
	case s.ManagerMobile != "":
		return []string{"reporting_manager_mobile = " + args.Add(s.ManagerMobile)}
	}
	return []string{"1 = 0"}
}

func whereClause(where []string) string {
	if len(where) == 0 {
		return "1=1"
	}
	return strings.Join(where, " AND ")
}

// BuildDAListQuery composes the scoped, filtered and ordered DA listing.
// The region filter does not apply to region-locked scopes.
func BuildDAListQuery(d database.Dialect, s model.Scope, f DAFilter) (string, []any) {
	args := database.NewArgs(d)
	where := scopeConditions(args, s)

	if f.Region != "" && !s.RegionLocked {
		where = append(where, "region = "+args.Add(f.Region))
	}
	if f.Zone != "" {
		where = append(where, "zone = "+args.Add(f.Zone))
	}
	if f.Woreda != "" {
		where = append(where, "woreda = "+args.Add(f.Woreda))
	}
	if f.Kebele != "" {
		where = append(where, "kebele = "+args.Add(f.Kebele))
	}
	if f.Status != "" {
		where = append(where, "status = "+args.Add(f.Status))
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		name := args.Add("%" + escapeLike(strings.ToLower(q)) + "%")
		contact := args.Add("%" + escapeLike(q) + "%")
		where = append(where, "(LOWER(name) LIKE "+name+" OR contact_number LIKE "+contact+")")
	}

	query := "SELECT " + daColumns + " FROM da_users WHERE " + whereClause(where) + " " + daOrder
	return query, args.Values()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
