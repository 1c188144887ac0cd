package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tracklog.org/internal/dbx"
	"tracklog.org/internal/dbx/dbxtest"
	"tracklog.org/internal/token"
)

func TestRequireAuthRefreshesRole(t *testing.T) {
	d := dbxtest.New()
	a := newTestAPI(t, d)

	// The credential still says admin; the datastore says the user has
	// since been demoted.
	tok := sessionToken(t, a, 7, 3, "admin")
	d.Queue([]dbx.Row{{"role": "member"}}, nil)

	var seen token.Claims
	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = token.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if seen.Role != "member" {
		t.Fatalf("claims must carry the stored role, got %q", seen.Role)
	}
	if seen.UserID != 7 || seen.OrganizationID != 3 {
		t.Fatalf("unexpected identity %+v", seen)
	}

	calls := d.Calls()
	if len(calls) != 1 || !strings.Contains(calls[0].Query, "SELECT role FROM users") {
		t.Fatalf("expected a role lookup, got %+v", calls)
	}
}

func TestRequireAuthDeletedUser(t *testing.T) {
	d := dbxtest.New()
	a := newTestAPI(t, d)

	tok := sessionToken(t, a, 7, 3, "member")
	d.Queue(nil, nil) // no matching row

	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthLookupErrorFailsClosed(t *testing.T) {
	d := dbxtest.New()
	a := newTestAPI(t, d)

	tok := sessionToken(t, a, 7, 3, "member")
	d.Queue(nil, errors.New("connection refused"))

	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthQueryParamFallback(t *testing.T) {
	d := dbxtest.New()
	a := newTestAPI(t, d)

	tok := sessionToken(t, a, 7, 3, "member")
	d.Queue([]dbx.Row{{"role": "member"}}, nil)

	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+tok, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("query-param credential rejected: %d", rec.Code)
	}
}

func TestRequireAuthMissingOrGarbageToken(t *testing.T) {
	d := dbxtest.New()
	a := newTestAPI(t, d)

	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc", "Bearer not.a.token"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
	if len(d.Calls()) != 0 {
		t.Fatalf("no datastore lookup expected for unverifiable credentials")
	}
}

func TestAdminOnlyDemotedWithoutReLogin(t *testing.T) {
	d := dbxtest.New()
	a := newTestAPI(t, d)

	// Credential minted while the user was admin; the row now says member.
	tok := sessionToken(t, a, 7, 3, "admin")
	d.Queue([]dbx.Row{{"role": "member"}}, nil)

	handler := a.RequireAuth(AdminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("admin route must not run for a demoted user")
	})))

	req := httptest.NewRequest(http.MethodDelete, "/api/users/9", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAdminOnlyWithoutClaims(t *testing.T) {
	handler := AdminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
