package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPMailerSendsInvitation(t *testing.T) {
	var got message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := &HTTPMailer{
		Endpoint:    srv.URL,
		APIKey:      "key-1",
		From:        "noreply@tracklog.org",
		FrontendURL: "https://app.tracklog.org/",
	}
	if err := m.SendInvitation(context.Background(), "new@example.com", "tok-42", "Acme"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if auth != "Bearer key-1" {
		t.Fatalf("auth header: %q", auth)
	}
	if got.To != "new@example.com" || got.From != "noreply@tracklog.org" {
		t.Fatalf("addressing wrong: %+v", got)
	}
	if !strings.Contains(got.Text, "https://app.tracklog.org/join?token=tok-42") {
		t.Fatalf("join link missing: %q", got.Text)
	}
	if !strings.Contains(got.Text, "Acme") {
		t.Fatalf("org name missing: %q", got.Text)
	}
}

func TestHTTPMailerSurfacesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	m := &HTTPMailer{Endpoint: srv.URL, FrontendURL: "https://app.example.com"}
	err := m.SendPasswordReset(context.Background(), "a@example.com", "tok")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLogMailerNeverFails(t *testing.T) {
	m := &LogMailer{FrontendURL: "http://localhost:3000"}
	if err := m.SendInvitation(context.Background(), "a@example.com", "t", "Acme"); err != nil {
		t.Fatalf("invitation: %v", err)
	}
	if err := m.SendPasswordReset(context.Background(), "a@example.com", "t"); err != nil {
		t.Fatalf("reset: %v", err)
	}
}
