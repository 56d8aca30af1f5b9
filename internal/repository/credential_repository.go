package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/da-dashboard/internal/database"
	"github.com/iliyamo/da-dashboard/internal/model"
)

// CredentialRepo reads the woreda-level credential tables.  Both are
// provisioned offline and never written by this service.
type CredentialRepo struct {
	DB      *sql.DB
	Dialect database.Dialect
}

func NewCredentialRepo(db *sql.DB, d database.Dialect) *CredentialRepo {
	return &CredentialRepo{DB: db, Dialect: d}
}

// ManagerByPhone fetches a woreda manager credential.  A missing table
// surfaces as the wrapped driver error; test it with
// database.IsUndefinedTable.
func (r *CredentialRepo) ManagerByPhone(ctx context.Context, phone string) (model.WoredaManager, error) {
	args := database.NewArgs(r.Dialect)
	query := "SELECT phone_number, COALESCE(password, ''), COALESCE(manager_name, '') FROM woreda_managers WHERE phone_number = " +
		args.Add(phone) + " LIMIT 1"
	var m model.WoredaManager
	err := r.DB.QueryRowContext(ctx, query, args.Values()...).Scan(&m.PhoneNumber, &m.Password, &m.ManagerName)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WoredaManager{}, ErrNotFound
	}
	if err != nil {
		return model.WoredaManager{}, fmt.Errorf("woreda manager lookup: %w", err)
	}
	return m, nil
}

// RepresentativeByPhone fetches a legacy woreda representative.
func (r *CredentialRepo) RepresentativeByPhone(ctx context.Context, phone string) (model.WoredaRepresentative, error) {
	args := database.NewArgs(r.Dialect)
	query := "SELECT phone_number, COALESCE(name, '') FROM woreda_reps WHERE phone_number = " + args.Add(phone) + " LIMIT 1"
	var rep model.WoredaRepresentative
	err := r.DB.QueryRowContext(ctx, query, args.Values()...).Scan(&rep.PhoneNumber, &rep.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WoredaRepresentative{}, ErrNotFound
	}
	if err != nil {
		return model.WoredaRepresentative{}, fmt.Errorf("woreda representative lookup: %w", err)
	}
	return rep, nil
}

// ManagerTableStatus reports whether `woreda_managers` exists and how many
// rows it holds.  Password values are never read.
func (r *CredentialRepo) ManagerTableStatus(ctx context.Context) (model.CredentialTableStatus, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM woreda_managers").Scan(&n)
	switch {
	case database.IsUndefinedTable(err):
		return model.CredentialTableStatus{
			TableExists: false,
			Message:     "woreda_managers table does not exist; woreda logins use the representative fallback",
		}, nil
	case err != nil:
		return model.CredentialTableStatus{}, fmt.Errorf("woreda_managers status: %w", err)
	}
	st := model.CredentialTableStatus{TableExists: true, RecordCount: n}
	if n > 0 {
		st.Message = fmt.Sprintf("table exists with %d records", n)
	} else {
		st.Message = "table exists but is empty; run the password population job"
	}
	return st, nil
}
