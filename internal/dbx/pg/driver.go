// Package pg implements the dbx.Driver contract on PostgreSQL through
// database/sql and the pgx stdlib driver.
package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"tracklog.org/internal/dbx"
)

// Driver wraps a PostgreSQL connection pool.
type Driver struct {
	db *sql.DB
}

var _ dbx.Driver = (*Driver)(nil)

// Open connects to PostgreSQL and tunes the pool.
func Open(dsn string) (*Driver, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Driver{db: db}, nil
}

// New wraps an existing pool, mainly for tests.
func New(db *sql.DB) *Driver { return &Driver{db: db} }

func (d *Driver) Close() error { return d.db.Close() }

// DB exposes the pool for readiness pings.
func (d *Driver) DB() *sql.DB { return d.db }

func (d *Driver) Query(ctx context.Context, query string, params []dbx.Param) ([]dbx.Row, error) {
	rows, err := d.db.QueryContext(ctx, rewritePlaceholders(query), bindArgs(params)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []dbx.Row
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(dbx.Row, len(cols))
		for i, col := range cols {
			v, err := normalize(raw[i])
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col, err)
			}
			row[col] = v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *Driver) Exec(ctx context.Context, query string, params []dbx.Param) error {
	_, err := d.db.ExecContext(ctx, rewritePlaceholders(query), bindArgs(params)...)
	return err
}

func bindArgs(params []dbx.Param) []any {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p.Value()
	}
	return args
}

// normalize maps driver values onto the closed dbx value set.
func normalize(v any) (dbx.Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case int64:
		return val, nil
	case int32:
		return int64(val), nil
	case int:
		return int64(val), nil
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case bool:
		if val {
			return int64(1), nil
		}
		return int64(0), nil
	case []byte:
		return string(val), nil
	case string:
		return val, nil
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano), nil
	default:
		return nil, fmt.Errorf("pg: unsupported column type %T", v)
	}
}

// rewritePlaceholders translates shared `?` placeholders into the $n form,
// leaving quoted literals untouched.
func rewritePlaceholders(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
