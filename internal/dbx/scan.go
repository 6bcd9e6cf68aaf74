package dbx

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/georgysavva/scany/v2/sqlscan"
)

// Get runs the single-row query built by b and scans it into a new T.
// No row yields common.ErrorNotFound.
func Get[T any](ctx context.Context, db DBTX, b sq.Sqlizer) (*T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var out T
	if err := sqlscan.Get(ctx, db, &out, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &out, nil
}

// Select runs the query built by b and scans every row. The result is never
// nil so it encodes as an empty JSON array.
func Select[T any](ctx context.Context, db DBTX, b sq.Sqlizer) ([]*T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	out := []*T{}
	if err := sqlscan.Select(ctx, db, &out, query, args...); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Exec runs the statement built by b and returns the number of affected rows.
func Exec(ctx context.Context, db DBTX, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

// Count runs a single-column count query built by b.
func Count(ctx context.Context, db DBTX, b sq.Sqlizer) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
