package httpapi

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"tracklog.org/internal/bus"
	"tracklog.org/internal/dbx"
	"tracklog.org/internal/dbx/dbxtest"
)

func TestWSDeliversOnlyOwnOrganization(t *testing.T) {
	d := dbxtest.New()
	d.QueryFunc = func(query string, params []dbx.Param) ([]dbx.Row, error) {
		if strings.Contains(query, "SELECT role FROM users") {
			return []dbx.Row{{"role": "member"}}, nil
		}
		return nil, nil
	}
	a := newTestAPI(t, d)

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tok := sessionToken(t, a, 7, 3, "member")
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + tok
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Wait for the subscription to land before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for a.bus.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// An event for another tenant, then one for ours.
	a.bus.Publish(bus.Event{OrganizationID: 99, Event: "task_created", Payload: map[string]any{"id": 1}})
	a.bus.Publish(bus.Event{OrganizationID: 3, Event: "task_updated", Payload: map[string]any{"id": 2}})

	var frame struct {
		OrganizationID int64          `json:"organization_id"`
		Event          string         `json:"event"`
		Payload        map[string]any `json:"payload"`
	}
	if err := wsjson.Read(ctx, conn, &frame); err != nil {
		t.Fatalf("read: %v", err)
	}
	if frame.Event != "task_updated" {
		t.Fatalf("got event %q, want the own-organization one", frame.Event)
	}
	if frame.OrganizationID != 3 {
		t.Fatalf("frame must carry the organization id, got %d", frame.OrganizationID)
	}
	if frame.Payload["id"] != float64(2) {
		t.Fatalf("unexpected payload %v", frame.Payload)
	}
}

func TestWSRejectsMissingCredential(t *testing.T) {
	d := dbxtest.New()
	a := newTestAPI(t, d)

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	if _, _, err := websocket.Dial(ctx, url, nil); err == nil {
		t.Fatal("dial without a credential must fail")
	}
}
