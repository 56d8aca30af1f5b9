package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/da-dashboard/internal/model"
)

// StatsRepo computes the ministry-wide aggregates served publicly.  No
// query takes user input.
type StatsRepo struct{ DB *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{DB: db} }

const (
	statsTotalsSQL = `SELECT
		COUNT(*),
		COALESCE(SUM(total_data_collected), 0),
		COUNT(DISTINCT reporting_manager_mobile),
		COUNT(CASE WHEN LOWER(TRIM(status)) = 'active' THEN 1 END),
		COUNT(CASE WHEN LOWER(TRIM(status)) = 'inactive' THEN 1 END),
		COUNT(CASE WHEN LOWER(TRIM(status)) = 'pending' THEN 1 END),
		COALESCE(AVG(total_data_collected), 0)
	FROM da_users`

	statsByRegionSQL = `SELECT TRIM(region), COUNT(*), COALESCE(SUM(total_data_collected), 0)
	FROM da_users
	WHERE region IS NOT NULL AND TRIM(region) <> ''
	GROUP BY 1
	ORDER BY 3 DESC, 1`

	statsByZoneSQL = `SELECT TRIM(zone), COUNT(*), COALESCE(SUM(total_data_collected), 0)
	FROM da_users
	WHERE zone IS NOT NULL AND TRIM(zone) <> ''
	GROUP BY 1
	ORDER BY 3 DESC, 1
	LIMIT 10`

	statsByStatusSQL = `SELECT COALESCE(status, ''), COUNT(*), COALESCE(SUM(total_data_collected), 0)
	FROM da_users
	GROUP BY 1
	ORDER BY 1`

	statsTopDAsSQL = `SELECT COALESCE(name, ''), COALESCE(region, ''), COALESCE(zone, ''), COALESCE(woreda, ''),
		total_data_collected, COALESCE(status, ''), COALESCE(reporting_manager_name, '')
	FROM da_users
	WHERE total_data_collected > 0
	ORDER BY total_data_collected DESC, contact_number
	LIMIT 5`
)

// GlobalTotals returns the row count and data sum of the whole table.
func (r *StatsRepo) GlobalTotals(ctx context.Context) (count, total int64, err error) {
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(total_data_collected), 0) FROM da_users").Scan(&count, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("global totals: %w", err)
	}
	return count, total, nil
}

// PublicStats builds the full public statistics payload.  Rows with an
// empty region or zone count toward the totals but not the breakdowns.
func (r *StatsRepo) PublicStats(ctx context.Context) (model.PublicStats, error) {
	var out model.PublicStats

	t := &out.Stats
	if err := r.DB.QueryRowContext(ctx, statsTotalsSQL).Scan(
		&t.TotalDAs, &t.TotalData, &t.TotalReps,
		&t.ActiveDAs, &t.InactiveDAs, &t.PendingDAs, &t.AvgDataPerDA,
	); err != nil {
		return out, fmt.Errorf("stats totals: %w", err)
	}

	var err error
	if out.RegionData, err = queryGroups(ctx, r.DB, statsByRegionSQL, func(k string, n, sum int64) model.RegionStat {
		return model.RegionStat{Region: k, DACount: n, TotalData: sum}
	}); err != nil {
		return out, fmt.Errorf("stats by region: %w", err)
	}
	if out.ZoneData, err = queryGroups(ctx, r.DB, statsByZoneSQL, func(k string, n, sum int64) model.ZoneStat {
		return model.ZoneStat{Zone: k, DACount: n, TotalData: sum}
	}); err != nil {
		return out, fmt.Errorf("stats by zone: %w", err)
	}
	if out.StatusTrend, err = queryGroups(ctx, r.DB, statsByStatusSQL, func(k string, n, sum int64) model.StatusStat {
		return model.StatusStat{Status: k, Count: n, TotalData: sum}
	}); err != nil {
		return out, fmt.Errorf("stats by status: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, statsTopDAsSQL)
	if err != nil {
		return out, fmt.Errorf("top das: %w", err)
	}
	defer rows.Close()
	out.TopDAs = make([]model.TopDA, 0, 5)
	for rows.Next() {
		var d model.TopDA
		if err := rows.Scan(&d.Name, &d.Region, &d.Zone, &d.Woreda,
			&d.TotalDataCollected, &d.Status, &d.ReportingManagerName); err != nil {
			return out, fmt.Errorf("top das: %w", err)
		}
		out.TopDAs = append(out.TopDAs, d)
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("top das: %w", err)
	}
	return out, nil
}

// queryGroups runs a (key, count, sum) grouping query and maps each row.
func queryGroups[T any](ctx context.Context, db *sql.DB, query string, mk func(string, int64, int64) T) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var (
			key      string
			n, total int64
		)
		if err := rows.Scan(&key, &n, &total); err != nil {
			return nil, err
		}
		out = append(out, mk(key, n, total))
	}
	return out, rows.Err()
}
