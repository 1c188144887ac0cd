package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tracklog.org/internal/auth"
	"tracklog.org/internal/dbx"
	"tracklog.org/internal/dbx/dbxtest"
)

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	d := dbxtest.New()
	d.QueryFunc = func(query string, params []dbx.Param) ([]dbx.Row, error) {
		switch {
		case strings.Contains(query, "WHERE username"):
			return []dbx.Row{{
				"id": int64(7), "organization_id": int64(3), "name": "Mika",
				"username": "mika", "email": nil, "avatar_url": nil, "role": "member",
			}}, nil
		case strings.Contains(query, "password_hash"):
			return []dbx.Row{{"password_hash": hash}}, nil
		}
		return nil, nil
	}
	a := newTestAPI(t, d)
	handler := a.Handler()

	body := `{"username":"mika","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID   int64  `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	claims, err := a.codec.Decode(resp.Token)
	if err != nil {
		t.Fatalf("issued credential does not verify: %v", err)
	}
	if claims.UserID != 7 || claims.OrganizationID != 3 {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if resp.User.ID != 7 || resp.User.Role != "member" {
		t.Fatalf("unexpected user %+v", resp.User)
	}

	// Wrong password gets the same 401 as an unknown username.
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"mika","password":"wrong"}`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", rec.Code)
	}
}

func TestCreateTaskPublishesEventAndAudits(t *testing.T) {
	d := dbxtest.New()
	d.QueryFunc = func(query string, params []dbx.Param) ([]dbx.Row, error) {
		switch {
		case strings.Contains(query, "SELECT role FROM users"):
			return []dbx.Row{{"role": "member"}}, nil
		case strings.Contains(query, "INSERT INTO tasks"):
			return []dbx.Row{{
				"id": int64(11), "organization_id": int64(3), "member_id": int64(7),
				"title": "write docs", "status": "todo", "progress_rate": int64(0),
				"tags": "docs", "created_at": "2026-08-30T10:00:00Z",
			}}, nil
		}
		return nil, nil
	}
	a := newTestAPI(t, d)
	handler := a.Handler()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := a.bus.Subscribe(ctx)

	tok := sessionToken(t, a, 7, 3, "member")
	body := `{"member_id":7,"title":"write docs","tags":["docs"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	select {
	case evt := <-events:
		if evt.Event != "task_created" || evt.OrganizationID != 3 {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}

	var audited bool
	for _, call := range d.Calls() {
		if strings.Contains(call.Query, "INSERT INTO activity_logs") {
			audited = true
		}
	}
	if !audited {
		t.Fatal("expected an activity log insert")
	}
}

func TestUpdateReportForbiddenForOtherUser(t *testing.T) {
	d := dbxtest.New()
	d.QueryFunc = func(query string, params []dbx.Param) ([]dbx.Row, error) {
		switch {
		case strings.Contains(query, "SELECT role FROM users"):
			return []dbx.Row{{"role": "member"}}, nil
		case strings.Contains(query, "FROM daily_reports"):
			return []dbx.Row{{
				"id": int64(5), "organization_id": int64(3), "user_id": int64(99),
				"report_date": "2026-08-29", "content": "done things",
				"created_at": "2026-08-29T18:00:00Z",
			}}, nil
		}
		return nil, nil
	}
	a := newTestAPI(t, d)
	handler := a.Handler()

	tok := sessionToken(t, a, 7, 3, "member")
	req := httptest.NewRequest(http.MethodPatch, "/api/reports/5", strings.NewReader(`{"content":"rewritten"}`))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTaskReportRequiresAdmin(t *testing.T) {
	d := dbxtest.New()
	d.QueryFunc = func(query string, params []dbx.Param) ([]dbx.Row, error) {
		if strings.Contains(query, "SELECT role FROM users") {
			return []dbx.Row{{"role": "member"}}, nil
		}
		return nil, nil
	}
	a := newTestAPI(t, d)
	handler := a.Handler()

	tok := sessionToken(t, a, 7, 3, "member")
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/report", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestInvitationLookupIsPublic(t *testing.T) {
	d := dbxtest.New()
	d.QueryFunc = func(query string, params []dbx.Param) ([]dbx.Row, error) {
		if strings.Contains(query, "FROM invitations") {
			return nil, nil
		}
		return nil, nil
	}
	a := newTestAPI(t, d)
	handler := a.Handler()

	// No credential at all: the route answers, and an unknown token is 404.
	req := httptest.NewRequest(http.MethodGet, "/api/invitations/nosuchtoken", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
