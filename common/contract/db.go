package contract

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// DbConn is satisfied by *pgxpool.Pool and by pgxmock pools in tests.
type DbConn interface {
	Query(ctx context.Context, sql string, optionsAndArgs ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...interface{}) pgx.Row
}
