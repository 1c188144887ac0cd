package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"tracklog.org/internal/obs"
	"tracklog.org/internal/store"
	"tracklog.org/internal/token"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// RequireAuth verifies the bearer credential and re-resolves the caller's
// role against the datastore on every request. The credential's embedded
// role is never trusted: the claims attached downstream always carry the row
// that exists right now. Any failure along the way is a plain 401 — a
// credential that cannot be proven live is treated the same as no
// credential.
func (a *API) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearerToken(r.Header.Get(authHeader))
		if raw == "" {
			// Browsers cannot set headers on WebSocket dials.
			raw = strings.TrimSpace(r.URL.Query().Get("token"))
		}
		if raw == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := a.codec.Decode(raw)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		role, err := a.store.Users.Role(r.Context(), claims.UserID, claims.OrganizationID)
		if err != nil {
			// Fail closed: a lookup error is indistinguishable from a
			// deleted account as far as the caller is concerned.
			if !errors.Is(err, store.ErrNotFound) {
				obs.LogError("role resolution failed", err, map[string]any{
					"request_id": requestIDFrom(r.Context()),
				})
			}
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		claims.Role = role

		ctx := token.ContextWithClaims(r.Context(), *claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly gates a route on the freshened role. It runs strictly after
// RequireAuth, so the role it sees is at most one request old.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := token.ClaimsFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if claims.Role != "admin" {
			respondError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return ""
	}
	return strings.TrimSpace(header[len(bearer):])
}
