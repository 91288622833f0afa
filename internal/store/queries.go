package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/crate/pkg/types"
)

// timeLayout is fixed width so text comparison orders timestamps.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries exposes the store's statements bound to one querier. Every error
// it returns is a *types.StoreError; "no row" outcomes are reported through
// found flags, never as errors.
type Queries struct {
	q   querier
	sb  sq.StatementBuilderType
	now func() time.Time
}

func (q *Queries) timestamp() string {
	return q.now().UTC().Format(timeLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// scanOne runs b and scans its single row into dest. found is false when the
// query produced no row.
func (q *Queries) scanOne(ctx context.Context, op string, b sq.Sqlizer, dest ...any) (found bool, err error) {
	query, args, err := b.ToSql()
	if err != nil {
		return false, types.NewStoreError(op, err)
	}
	err = q.q.QueryRowContext(ctx, query, args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, types.NewStoreError(op, err)
	}
	return true, nil
}

// exec runs b and returns the number of affected rows.
func (q *Queries) exec(ctx context.Context, op string, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, types.NewStoreError(op, err)
	}
	res, err := q.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, types.NewStoreError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, types.NewStoreError(op, err)
	}
	return n, nil
}

// query runs b and calls scan for each row.
func (q *Queries) query(ctx context.Context, op string, b sq.Sqlizer, scan func(*sql.Rows) error) error {
	query, args, err := b.ToSql()
	if err != nil {
		return types.NewStoreError(op, err)
	}
	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return types.NewStoreError(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return types.NewStoreError(op, err)
		}
	}
	if err := rows.Err(); err != nil {
		return types.NewStoreError(op, err)
	}
	return nil
}

// int64s collects a single integer column.
func (q *Queries) int64s(ctx context.Context, op string, b sq.Sqlizer) ([]int64, error) {
	out := []int64{}
	err := q.query(ctx, op, b, func(rows *sql.Rows) error {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// Count returns the number of rows in table. It is meant for tests and
// diagnostics; table must be one of the schema's table names.
func (q *Queries) Count(ctx context.Context, table string) (int64, error) {
	if !knownTables[table] {
		return 0, types.NewStoreError("count", fmt.Errorf("unknown table %q", table))
	}
	var n int64
	_, err := q.scanOne(ctx, "count "+table, q.sb.Select("COUNT(*)").From(table), &n)
	return n, err
}

// knownTables guards Count against arbitrary identifiers.
var knownTables = map[string]bool{
	"items": true, "artists": true, "albums": true, "tracks": true, "venues": true, "genres": true,
	"album_artists": true, "track_artists": true, "track_albums": true,
	"favorites": true, "reviews": true, "lists": true, "list_items": true, "article_tags": true,
}
