package edge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tracklog.org/internal/dbx"
)

func TestQueryDecodesJSONRows(t *testing.T) {
	var gotAuth string
	var gotReq queryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"results": []map[string]any{{
				"columns": []string{"id", "progress_rate", "tags", "is_read", "email"},
				"rows": [][]any{
					{1, 62.5, []string{"a", "b"}, true, nil},
				},
			}},
		})
	}))
	defer srv.Close()

	d := New(srv.URL, "edge-token")
	rows, err := d.Query(context.Background(),
		"select id, progress_rate, tags, is_read, email from tasks where id = ?",
		[]dbx.Param{dbx.Int(1)})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if gotAuth != "Bearer edge-token" {
		t.Fatalf("missing bearer token, got %q", gotAuth)
	}
	if gotReq.SQL == "" || len(gotReq.Params) != 1 {
		t.Fatalf("unexpected request: %+v", gotReq)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if v, err := row.Int("id"); err != nil || v != 1 {
		t.Fatalf("id: %v, %v", v, err)
	}
	if v, err := row.Real("progress_rate"); err != nil || v != 62.5 {
		t.Fatalf("progress_rate: %v, %v", v, err)
	}
	// Native JSON arrays stay arrays.
	if tags, err := row.TextList("tags"); err != nil || len(tags) != 2 || tags[1] != "b" {
		t.Fatalf("tags: %v, %v", tags, err)
	}
	// JSON booleans arrive as 0/1 flags.
	if v, err := row.Bool("is_read"); err != nil || !v {
		t.Fatalf("is_read: %v, %v", v, err)
	}
	if v, err := row.OptionalText("email"); err != nil || v != nil {
		t.Fatalf("email: %v, %v", v, err)
	}
}

func TestQueryFailureSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "no such table: tasks"})
	}))
	defer srv.Close()

	d := New(srv.URL, "")
	if _, err := d.Query(context.Background(), "select * from tasks", nil); err == nil {
		t.Fatal("expected error for failed query")
	}
}

func TestHTTPErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	d := New(srv.URL, "bad")
	if err := d.Exec(context.Background(), "delete from tasks where id = ?", []dbx.Param{dbx.Int(1)}); err == nil {
		t.Fatal("expected error for HTTP 403")
	}
}
