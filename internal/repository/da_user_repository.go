package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/da-dashboard/internal/database"
	"github.com/iliyamo/da-dashboard/internal/model"
)

// DAUserRepo reads and updates rows of `da_users`.
type DAUserRepo struct {
	DB      *sql.DB
	Dialect database.Dialect
}

func NewDAUserRepo(db *sql.DB, d database.Dialect) *DAUserRepo {
	return &DAUserRepo{DB: db, Dialect: d}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDAUser(s rowScanner) (model.DAUser, error) {
	var (
		u       model.DAUser
		updated sql.NullTime
	)
	err := s.Scan(&u.Name, &u.Region, &u.Zone, &u.Woreda, &u.Kebele, &u.ContactNumber,
		&u.ReportingManagerName, &u.ReportingManagerMobile, &u.Language,
		&u.TotalDataCollected, &u.Status, &updated)
	if err != nil {
		return u, err
	}
	if updated.Valid {
		t := updated.Time.UTC()
		u.LastUpdated = &t
	}
	return u, nil
}

// List returns the DAs visible in s, narrowed by f, in canonical order.
func (r *DAUserRepo) List(ctx context.Context, s model.Scope, f DAFilter) ([]model.DAUser, error) {
	query, args := BuildDAListQuery(r.Dialect, s, f)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list da users: %w", err)
	}
	defer rows.Close()

	out := make([]model.DAUser, 0)
	for rows.Next() {
		u, err := scanDAUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan da user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list da users: %w", err)
	}
	return out, nil
}

// RegionVariants returns every stored spelling of region that equals it
// after trimming and case folding, e.g. "Amhara" and " amhara ".
func (r *DAUserRepo) RegionVariants(ctx context.Context, region string) ([]string, error) {
	args := database.NewArgs(r.Dialect)
	query := "SELECT DISTINCT region FROM da_users WHERE LOWER(TRIM(region)) = LOWER(TRIM(" + args.Add(region) + "))"
	rows, err := r.DB.QueryContext(ctx, query, args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("region variants: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("region variants: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("region variants: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// IsManagedBy reports whether the DA with contactNumber reports to mobile.
func (r *DAUserRepo) IsManagedBy(ctx context.Context, contactNumber, mobile string) (bool, error) {
	args := database.NewArgs(r.Dialect)
	query := "SELECT 1 FROM da_users WHERE contact_number = " + args.Add(contactNumber) +
		" AND reporting_manager_mobile = " + args.Add(mobile) + " LIMIT 1"
	var one int
	err := r.DB.QueryRowContext(ctx, query, args.Values()...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ownership check: %w", err)
	}
	return true, nil
}

// getByContact fetches one DA, restricted to managerMobile when it is set.
func (r *DAUserRepo) getByContact(ctx context.Context, contactNumber, managerMobile string) (model.DAUser, error) {
	args := database.NewArgs(r.Dialect)
	query := "SELECT " + daColumns + " FROM da_users WHERE " + rowKey(args, contactNumber, managerMobile) + " LIMIT 1"
	u, err := scanDAUser(r.DB.QueryRowContext(ctx, query, args.Values()...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.DAUser{}, ErrNotFound
	}
	if err != nil {
		return model.DAUser{}, fmt.Errorf("get da user: %w", err)
	}
	return u, nil
}

func rowKey(args *database.Args, contactNumber, managerMobile string) string {
	key := "contact_number = " + args.Add(contactNumber)
	if managerMobile != "" {
		key += " AND reporting_manager_mobile = " + args.Add(managerMobile)
	}
	return key
}

// ApplyUpdate writes the authorized fields of upd, always stamping
// last_updated, and returns the resulting row.  When upd.ManagerMobile is
// set the same statement only touches a DA still reporting to it; a row
// reassigned in the meantime is reported as ErrNotFound.
func (r *DAUserRepo) ApplyUpdate(ctx context.Context, upd model.DAUpdate) (model.DAUser, error) {
	args := database.NewArgs(r.Dialect)
	var sets []string
	if upd.TotalDataCollected != nil {
		sets = append(sets, "total_data_collected = "+args.Add(*upd.TotalDataCollected))
	}
	if upd.Status != nil {
		sets = append(sets, "status = "+args.Add(*upd.Status))
	}
	sets = append(sets, "last_updated = CURRENT_TIMESTAMP")

	query := "UPDATE da_users SET " + strings.Join(sets, ", ") +
		" WHERE " + rowKey(args, upd.ContactNumber, upd.ManagerMobile)
	if _, err := r.DB.ExecContext(ctx, query, args.Values()...); err != nil {
		return model.DAUser{}, fmt.Errorf("update da user: %w", err)
	}
	return r.getByContact(ctx, upd.ContactNumber, upd.ManagerMobile)
}

// Totals returns the row count and data sum within s.
func (r *DAUserRepo) Totals(ctx context.Context, s model.Scope) (count, total int64, err error) {
	args := database.NewArgs(r.Dialect)
	query := "SELECT COUNT(*), COALESCE(SUM(total_data_collected), 0) FROM da_users WHERE " +
		whereClause(scopeConditions(args, s))
	if err := r.DB.QueryRowContext(ctx, query, args.Values()...).Scan(&count, &total); err != nil {
		return 0, 0, fmt.Errorf("da totals: %w", err)
	}
	return count, total, nil
}

// Location is one distinct region/zone/woreda/kebele combination.
type Location struct {
	Region, Zone, Woreda, Kebele string
}

// Locations returns the distinct administrative locations within s.
func (r *DAUserRepo) Locations(ctx context.Context, s model.Scope) ([]Location, error) {
	args := database.NewArgs(r.Dialect)
	query := `SELECT DISTINCT COALESCE(region, ''), COALESCE(zone, ''), COALESCE(woreda, ''), COALESCE(kebele, '')
		FROM da_users WHERE ` + whereClause(scopeConditions(args, s))
	rows, err := r.DB.QueryContext(ctx, query, args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("da locations: %w", err)
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.Region, &l.Zone, &l.Woreda, &l.Kebele); err != nil {
			return nil, fmt.Errorf("da locations: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// LockRegion files every location under region.  Used for region-locked
// scopes, where all stored spellings of the region are one region.
func LockRegion(locs []Location, region string) []Location {
	out := make([]Location, len(locs))
	for i, l := range locs {
		l.Region = region
		out[i] = l
	}
	return out
}

// CascadeOptions derives the cascading filter choices: zones depend on the
// selected region, woredas on region and zone, kebeles on all three.
func CascadeOptions(locs []Location, f DAFilter) model.DAFilterOptions {
	regions, zones, woredas, kebeles := newSet(), newSet(), newSet(), newSet()
	for _, l := range locs {
		regions.add(l.Region)
		if f.Region == "" || l.Region != f.Region {
			continue
		}
		zones.add(l.Zone)
		if f.Zone == "" || l.Zone != f.Zone {
			continue
		}
		woredas.add(l.Woreda)
		if f.Woreda == "" || l.Woreda != f.Woreda {
			continue
		}
		kebeles.add(l.Kebele)
	}
	return model.DAFilterOptions{
		Regions: regions.sorted(),
		Zones:   zones.sorted(),
		Woredas: woredas.sorted(),
		Kebeles: kebeles.sorted(),
	}
}

type stringSet map[string]struct{}

func newSet() stringSet { return stringSet{} }

func (s stringSet) add(v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

func (s stringSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
