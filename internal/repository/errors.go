// Package repository holds the SQL data access layer.  Queries are always
// parameterized; placeholders come from the configured database.Dialect.
package repository

import "errors"

// ErrNotFound is returned when a lookup by key matches no row.  Handlers
// translate it into HTTP 404, the credential resolver into invalid
// credentials.
var ErrNotFound = errors.New("not found")
