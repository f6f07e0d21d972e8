// Package postgres implements the repository ports on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB the repositories use. It is satisfied by
// *sql.DB and by circuitbreaker.DBCircuitBreaker.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
