// Package edge implements the dbx.Driver contract over the edge datastore's
// HTTP query endpoint. The backend is dynamically typed: every row arrives as
// JSON scalars which this driver folds into the shared dbx value set.
package edge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tracklog.org/internal/dbx"
)

// Driver speaks the JSON query protocol of the edge database.
type Driver struct {
	url    string
	token  string
	client *http.Client
}

var _ dbx.Driver = (*Driver)(nil)

// New builds a driver for the given query endpoint and API token.
func New(url, token string) *Driver {
	return &Driver{
		url:   strings.TrimRight(url, "/"),
		token: token,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (d *Driver) Close() error { return nil }

type queryRequest struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

type queryResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Results []resultPage `json:"results"`
}

type resultPage struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (d *Driver) Query(ctx context.Context, query string, params []dbx.Param) ([]dbx.Row, error) {
	resp, err := d.roundTrip(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	page := resp.Results[0]
	out := make([]dbx.Row, 0, len(page.Rows))
	for _, raw := range page.Rows {
		if len(raw) != len(page.Columns) {
			return nil, fmt.Errorf("edge: row width %d does not match %d columns", len(raw), len(page.Columns))
		}
		row := make(dbx.Row, len(page.Columns))
		for i, col := range page.Columns {
			v, err := normalize(raw[i])
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col, err)
			}
			row[col] = v
		}
		out = append(out, row)
	}
	return out, nil
}

func (d *Driver) Exec(ctx context.Context, query string, params []dbx.Param) error {
	_, err := d.roundTrip(ctx, query, params)
	return err
}

func (d *Driver) roundTrip(ctx context.Context, query string, params []dbx.Param) (*queryResponse, error) {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p.Value()
	}
	body, err := json.Marshal(queryRequest{SQL: query, Params: args})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	httpResp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("edge: query request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, fmt.Errorf("edge: status %d: %s", httpResp.StatusCode, strings.TrimSpace(string(payload)))
	}

	dec := json.NewDecoder(httpResp.Body)
	dec.UseNumber()
	var resp queryResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("edge: decode response: %w", err)
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("edge: query failed: %s", msg)
	}
	return &resp, nil
}

// normalize folds a JSON value into the shared dbx value set. Numbers keep
// the integer/real split the wire format carries.
func normalize(v any) (dbx.Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case json.Number:
		if !strings.ContainsAny(val.String(), ".eE") {
			if n, err := val.Int64(); err == nil {
				return n, nil
			}
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("edge: bad number %q", val.String())
		}
		return f, nil
	case string:
		return val, nil
	case bool:
		if val {
			return int64(1), nil
		}
		return int64(0), nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("edge: unsupported value type %T", v)
	}
}
