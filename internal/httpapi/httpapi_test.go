package httpapi

import (
	"testing"

	"tracklog.org/internal/audit"
	"tracklog.org/internal/bus"
	"tracklog.org/internal/config"
	"tracklog.org/internal/dbx/dbxtest"
	"tracklog.org/internal/mail"
	"tracklog.org/internal/store"
	"tracklog.org/internal/token"
)

const testSecret = "test-signing-secret"

func newTestAPI(t *testing.T, d *dbxtest.Driver) *API {
	t.Helper()
	codec, err := token.NewCodec(testSecret)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	cfg := &config.Config{
		JWTSecret:          testSecret,
		CORSAllowedOrigins: []string{"*"},
		RateLimitRPS:       1000,
		RateLimitBurst:     1000,
		BusCapacity:        8,
	}
	st := store.New(d)
	return New(cfg, codec, st, bus.New(cfg.BusCapacity), audit.NewRecorder(st.ActivityLogs), &mail.LogMailer{}, nil, "test")
}

// sessionToken mints a signed credential the way the login handler does.
func sessionToken(t *testing.T, a *API, userID, orgID int64, role string) string {
	t.Helper()
	tok, err := a.codec.EncodeSession(a.codec.NewSessionClaims("test-user", userID, orgID, role))
	if err != nil {
		t.Fatalf("encode session: %v", err)
	}
	return tok
}
