// Package dbxtest provides an in-memory dbx.Driver for tests.
package dbxtest

import (
	"context"
	"sync"

	"tracklog.org/internal/dbx"
)

// Call records one statement the driver received.
type Call struct {
	Query  string
	Params []dbx.Param
}

// Result is one scripted query response.
type Result struct {
	Rows []dbx.Row
	Err  error
}

// Driver is a scriptable fake. Responses are served either by QueryFunc /
// ExecFunc when set, or from the queued results in FIFO order. Every
// statement is recorded in Calls.
type Driver struct {
	mu        sync.Mutex
	QueryFunc func(query string, params []dbx.Param) ([]dbx.Row, error)
	ExecFunc  func(query string, params []dbx.Param) error

	queued []Result
	calls  []Call
}

var _ dbx.Driver = (*Driver)(nil)

func New() *Driver { return &Driver{} }

// Queue appends a scripted response for a future Query call.
func (d *Driver) Queue(rows []dbx.Row, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queued = append(d.queued, Result{Rows: rows, Err: err})
}

// Calls returns a copy of the recorded statements.
func (d *Driver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Call, len(d.calls))
	copy(out, d.calls)
	return out
}

func (d *Driver) Query(_ context.Context, query string, params []dbx.Param) ([]dbx.Row, error) {
	d.mu.Lock()
	d.calls = append(d.calls, Call{Query: query, Params: params})
	fn := d.QueryFunc
	var next *Result
	if fn == nil && len(d.queued) > 0 {
		next = &d.queued[0]
		d.queued = d.queued[1:]
	}
	d.mu.Unlock()

	if fn != nil {
		return fn(query, params)
	}
	if next != nil {
		return next.Rows, next.Err
	}
	return nil, nil
}

func (d *Driver) Exec(_ context.Context, query string, params []dbx.Param) error {
	d.mu.Lock()
	d.calls = append(d.calls, Call{Query: query, Params: params})
	fn := d.ExecFunc
	d.mu.Unlock()

	if fn != nil {
		return fn(query, params)
	}
	return nil
}

func (d *Driver) Close() error { return nil }
