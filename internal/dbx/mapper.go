// Package dbx is the portability seam between the service and its two
// datastore backends. Query text and decode logic are shared; a Driver only
// delivers rows and binds parameters. Shared SQL uses `?` placeholders, which
// each driver translates to its native binding syntax.
package dbx

import "context"

// Driver executes shared SQL against one physical backend.
type Driver interface {
	// Query runs a statement and returns every result row.
	Query(ctx context.Context, query string, params []Param) ([]Row, error)
	// Exec runs a statement without reading rows back.
	Exec(ctx context.Context, query string, params []Param) error
	Close() error
}

// DecodeFunc turns one dynamic row into a typed record.
type DecodeFunc[T any] func(Row) (T, error)

// QueryMany runs the query and decodes every row.
func QueryMany[T any](ctx context.Context, d Driver, query string, params []Param, decode DecodeFunc[T]) ([]T, error) {
	rows, err := d.Query(ctx, query, params)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		rec, err := decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// QueryOne runs the query and decodes the first row, or returns nil when the
// result set is empty.
func QueryOne[T any](ctx context.Context, d Driver, query string, params []Param, decode DecodeFunc[T]) (*T, error) {
	rows, err := d.Query(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rec, err := decode(rows[0])
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Exec runs a statement for its side effect.
func Exec(ctx context.Context, d Driver, query string, params []Param) error {
	return d.Exec(ctx, query, params)
}
