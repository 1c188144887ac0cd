package token

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestCodec(t *testing.T, now time.Time) *Codec {
	t.Helper()
	c, err := NewCodec("test-secret", WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func TestSessionRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := newTestCodec(t, now)

	claims := c.NewSessionClaims("alice", 7, 3, "admin")
	credential, err := c.EncodeSession(claims)
	if err != nil {
		t.Fatalf("EncodeSession: %v", err)
	}

	got, err := c.Decode(credential)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Subject != "alice" || got.UserID != 7 || got.OrganizationID != 3 || got.Role != "admin" {
		t.Fatalf("claims did not round-trip: %+v", got)
	}
	if !got.ExpiresAt.Time.Equal(now.Add(SessionTTL)) {
		t.Fatalf("unexpected expiry %v", got.ExpiresAt.Time)
	}
}

func TestDecodeRejectsExpired(t *testing.T) {
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := newTestCodec(t, issued)
	credential, err := c.EncodeSession(c.NewSessionClaims("alice", 7, 3, "member"))
	if err != nil {
		t.Fatalf("EncodeSession: %v", err)
	}

	late, err := NewCodec("test-secret", WithClock(func() time.Time {
		return issued.Add(SessionTTL + time.Minute)
	}))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	if _, err := late.Decode(credential); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired credential, got %v", err)
	}
}

func TestDecodeFailsClosed(t *testing.T) {
	now := time.Now()
	c := newTestCodec(t, now)
	credential, err := c.EncodeSession(c.NewSessionClaims("alice", 7, 3, "member"))
	if err != nil {
		t.Fatalf("EncodeSession: %v", err)
	}

	// Tampered signature, malformed structure, wrong secret: every failure is
	// the same generic error.
	bad := []string{
		"",
		"not-a-token",
		credential + "x",
		strings.Replace(credential, ".", "..", 1),
	}
	for i, cred := range bad {
		if _, err := c.Decode(cred); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("case %d: expected ErrInvalidToken, got %v", i, err)
		}
	}

	other, err := NewCodec("other-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	if _, err := other.Decode(credential); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestResetTokens(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := newTestCodec(t, now)

	credential, err := c.EncodeReset(7, 3)
	if err != nil {
		t.Fatalf("EncodeReset: %v", err)
	}
	userID, orgID, err := c.DecodeReset(credential)
	if err != nil || userID != 7 || orgID != 3 {
		t.Fatalf("DecodeReset: %d, %d, %v", userID, orgID, err)
	}

	// A session credential is not a reset credential and vice versa.
	session, err := c.EncodeSession(c.NewSessionClaims("alice", 7, 3, "member"))
	if err != nil {
		t.Fatalf("EncodeSession: %v", err)
	}
	if _, _, err := c.DecodeReset(session); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected reset decode to reject session credential, got %v", err)
	}

	// Reset credentials expire after one hour, not twenty-four.
	late := newTestCodec(t, now.Add(ResetTTL+time.Minute))
	if _, _, err := late.DecodeReset(credential); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired reset credential to fail, got %v", err)
	}
}

func TestClaimsContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := ClaimsFromContext(ctx); ok {
		t.Fatal("empty context must carry no claims")
	}
	c := newTestCodec(t, time.Now())
	ctx = ContextWithClaims(ctx, c.NewSessionClaims("bob", 2, 5, "member"))
	got, ok := ClaimsFromContext(ctx)
	if !ok || got.UserID != 2 || got.OrganizationID != 5 {
		t.Fatalf("claims not attached: %+v, %v", got, ok)
	}
}
