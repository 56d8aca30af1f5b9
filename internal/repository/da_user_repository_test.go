package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/da-dashboard/internal/database"
	"github.com/iliyamo/da-dashboard/internal/model"
)

var daColumnNames = []string{
	"name", "region", "zone", "woreda", "kebele", "contact_number",
	"reporting_manager_name", "reporting_manager_mobile", "language",
	"total_data_collected", "status", "last_updated",
}

func setupDARepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *DAUserRepo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewDAUserRepo(db, database.Postgres)
}

func TestListScansRows(t *testing.T) {
	db, mock, repo := setupDARepo(t)
	defer db.Close()

	ts := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(daColumnNames).
		AddRow("Abebe", "Amhara", "Awi", "Dangila", "01", "0922000001", "Kebede", "0911000111", "Amharic", 40, "Active", ts).
		AddRow("Chaltu", "Amhara", "Awi", "Dangila", "02", "0922000002", "Kebede", "0911000111", "Afaan Oromo", 0, "Inactive", nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM da_users WHERE reporting_manager_mobile = $1")).
		WithArgs("0911000111").
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), model.Scope{ManagerMobile: "0911000111", CanWrite: true}, DAFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Abebe", got[0].Name)
	assert.Equal(t, int64(40), got[0].TotalDataCollected)
	require.NotNil(t, got[0].LastUpdated)
	assert.True(t, ts.Equal(*got[0].LastUpdated))
	assert.Nil(t, got[1].LastUpdated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPropagatesStoreError(t *testing.T) {
	db, mock, repo := setupDARepo(t)
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT").WillReturnError(boom)

	_, err := repo.List(context.Background(), model.Scope{AllRows: true}, DAFilter{})
	assert.ErrorIs(t, err, boom)
}

func TestRegionVariants(t *testing.T) {
	db, mock, repo := setupDARepo(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT region FROM da_users WHERE LOWER(TRIM(region)) = LOWER(TRIM($1))")).
		WithArgs("Amhara").
		WillReturnRows(sqlmock.NewRows([]string{"region"}).AddRow("Amhara").AddRow(" amhara "))

	got, err := repo.RegionVariants(context.Background(), "Amhara")
	require.NoError(t, err)
	assert.Equal(t, []string{" amhara ", "Amhara"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsManagedBy(t *testing.T) {
	db, mock, repo := setupDARepo(t)
	defer db.Close()

	q := regexp.QuoteMeta("SELECT 1 FROM da_users WHERE contact_number = $1 AND reporting_manager_mobile = $2 LIMIT 1")
	mock.ExpectQuery(q).WithArgs("0922000001", "0911000111").
		WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(1))
	mock.ExpectQuery(q).WithArgs("0922000009", "0911000111").
		WillReturnRows(sqlmock.NewRows([]string{"one"}))

	ok, err := repo.IsManagedBy(context.Background(), "0922000001", "0911000111")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsManagedBy(context.Background(), "0922000009", "0911000111")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyUpdateStampsLastUpdated(t *testing.T) {
	db, mock, repo := setupDARepo(t)
	defer db.Close()

	status := "Inactive"
	total := int64(12)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE da_users SET total_data_collected = $1, status = $2, last_updated = CURRENT_TIMESTAMP WHERE contact_number = $3")).
		WithArgs(total, status, "0922000001").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE contact_number = $1 LIMIT 1")).
		WithArgs("0922000001").
		WillReturnRows(sqlmock.NewRows(daColumnNames).
			AddRow("Abebe", "Amhara", "Awi", "Dangila", "01", "0922000001", "Kebede", "0911000111", "Amharic", 12, "Inactive", time.Now()))

	got, err := repo.ApplyUpdate(context.Background(), model.DAUpdate{ContactNumber: "0922000001", Status: &status, TotalDataCollected: &total})
	require.NoError(t, err)
	assert.Equal(t, "Inactive", got.Status)
	assert.Equal(t, int64(12), got.TotalDataCollected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyUpdateStatusOnly(t *testing.T) {
	db, mock, repo := setupDARepo(t)
	defer db.Close()

	status := "Active"
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE da_users SET status = $1, last_updated = CURRENT_TIMESTAMP WHERE contact_number = $2")).
		WithArgs(status, "0922000404").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT").WithArgs("0922000404").
		WillReturnRows(sqlmock.NewRows(daColumnNames))

	_, err := repo.ApplyUpdate(context.Background(), model.DAUpdate{ContactNumber: "0922000404", Status: &status})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyUpdateManagerScoped(t *testing.T) {
	db, mock, repo := setupDARepo(t)
	defer db.Close()

	status := "Inactive"
	upd := model.DAUpdate{ContactNumber: "0922000001", ManagerMobile: "0911000111", Status: &status}

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE da_users SET status = $1, last_updated = CURRENT_TIMESTAMP WHERE contact_number = $2 AND reporting_manager_mobile = $3")).
		WithArgs(status, "0922000001", "0911000111").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE contact_number = $1 AND reporting_manager_mobile = $2 LIMIT 1")).
		WithArgs("0922000001", "0911000111").
		WillReturnRows(sqlmock.NewRows(daColumnNames).
			AddRow("Abebe", "Amhara", "Awi", "Dangila", "01", "0922000001", "Kebede", "0911000111", "Amharic", 40, "Inactive", time.Now()))

	got, err := repo.ApplyUpdate(context.Background(), upd)
	require.NoError(t, err)
	assert.Equal(t, "Inactive", got.Status)

	// reassigned to another manager after the ownership check
	mock.ExpectExec("UPDATE da_users").
		WithArgs(status, "0922000001", "0911000111").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("AND reporting_manager_mobile = $2 LIMIT 1")).
		WithArgs("0922000001", "0911000111").
		WillReturnRows(sqlmock.NewRows(daColumnNames))

	_, err = repo.ApplyUpdate(context.Background(), upd)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyUpdateIsIdempotent(t *testing.T) {
	db, mock, repo := setupDARepo(t)
	defer db.Close()

	status := "Active"
	total := int64(25)
	upd := model.DAUpdate{ContactNumber: "0922000001", Status: &status, TotalDataCollected: &total}

	// both writes assign absolute values, so the statement and its
	// arguments are the same on every call
	for i := 0; i < 2; i++ {
		mock.ExpectExec(regexp.QuoteMeta(
			"UPDATE da_users SET total_data_collected = $1, status = $2, last_updated = CURRENT_TIMESTAMP WHERE contact_number = $3")).
			WithArgs(total, status, "0922000001").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("WHERE contact_number = $1 LIMIT 1")).WithArgs("0922000001").
			WillReturnRows(sqlmock.NewRows(daColumnNames).
				AddRow("Abebe", "Amhara", "Awi", "Dangila", "01", "0922000001", "Kebede", "0911000111", "Amharic", total, status, nil))
	}

	first, err := repo.ApplyUpdate(context.Background(), upd)
	require.NoError(t, err)
	second, err := repo.ApplyUpdate(context.Background(), upd)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(25), second.TotalDataCollected)
	assert.Equal(t, "Active", second.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalsUsesScope(t *testing.T) {
	db, mock, repo := setupDARepo(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*), COALESCE(SUM(total_data_collected), 0) FROM da_users WHERE region IN ($1)")).
		WithArgs("Amhara").
		WillReturnRows(sqlmock.NewRows([]string{"count", "total"}).AddRow(3, 90))

	n, total, err := repo.Totals(context.Background(), model.Scope{RegionLocked: true, Regions: []string{"Amhara"}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, int64(90), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocations(t *testing.T) {
	db, mock, repo := setupDARepo(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM da_users WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"region", "zone", "woreda", "kebele"}).
			AddRow("Amhara", "Awi", "Dangila", "01"))

	got, err := repo.Locations(context.Background(), model.Scope{AllRows: true})
	require.NoError(t, err)
	assert.Equal(t, []Location{{"Amhara", "Awi", "Dangila", "01"}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
