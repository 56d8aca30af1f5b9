package database

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Dialect captures the few places where the supported stores disagree.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// DialectFor maps a driver name onto its Dialect.
func DialectFor(driver string) (Dialect, error) {
	switch Dialect(driver) {
	case Postgres, MySQL:
		return Dialect(driver), nil
	}
	return Postgres, fmt.Errorf("unsupported driver %q", driver)
}

// Placeholder returns the bind marker for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d == MySQL {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// Args accumulates bind arguments and hands out matching placeholders.
type Args struct {
	d    Dialect
	vals []any
}

// NewArgs starts an empty argument list for d.
func NewArgs(d Dialect) *Args { return &Args{d: d} }

// Add appends v and returns its placeholder.
func (a *Args) Add(v any) string {
	a.vals = append(a.vals, v)
	return a.d.Placeholder(len(a.vals))
}

// Values returns the accumulated arguments in bind order.
func (a *Args) Values() []any { return a.vals }

// IsUndefinedTable reports whether err says a referenced table does not
// exist (postgres 42P01, mysql 1146).
func IsUndefinedTable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "42P01"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1146
	}
	return false
}
