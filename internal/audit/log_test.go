package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"tracklog.org/internal/dbx/dbxtest"
	"tracklog.org/internal/obs"
	"tracklog.org/internal/store"
	"tracklog.org/internal/token"
)

func TestRecord(t *testing.T) {
	logger := obs.Logger()
	original := logger.Writer()
	logger.SetFlags(0)
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	d := dbxtest.New()
	rec := NewRecorder(store.New(d).ActivityLogs)

	claims := token.Claims{UserID: 42, OrganizationID: 7, Role: "member"}
	ctx := token.ContextWithClaims(context.Background(), claims)
	ctx = WithRequestID(ctx, "req-123")

	taskID := int64(5)
	rec.Record(ctx, "task_created", "task", &taskID, Detail("Title: deploy api"))

	calls := d.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(calls))
	}
	if calls[0].Params[0].IntV != 7 || calls[0].Params[1].IntV != 42 {
		t.Fatalf("tenant attribution wrong: %+v", calls[0].Params)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("audit line not valid JSON: %v", err)
	}
	if entry["event"] != "task_created" || entry["type"] != "audit" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("request id missing: %v", entry)
	}
}

func TestRecordWithoutClaims(t *testing.T) {
	d := dbxtest.New()
	rec := NewRecorder(store.New(d).ActivityLogs)

	rec.Record(context.Background(), "task_created", "task", nil, nil)

	if len(d.Calls()) != 0 {
		t.Fatal("anonymous context must not produce an entry")
	}
}
