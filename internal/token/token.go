// Package token signs and verifies the bearer credentials used by the API.
// A decoded credential proves identity and carries an embedded role, but the
// role is only a hint: the authn middleware re-resolves it against the
// datastore on every request.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "tracklog"

	// SessionTTL bounds ordinary session credentials.
	SessionTTL = 24 * time.Hour
	// ResetTTL bounds single-purpose password-reset credentials.
	ResetTTL = time.Hour

	resetPurpose = "password_reset"
)

// ErrInvalidToken is returned for every decode failure. Signature mismatch,
// malformed structure and expiry all collapse into it so no detail about
// which check failed leaks to the caller.
var ErrInvalidToken = errors.New("token: invalid token")

// Claims is the identity payload of a session credential.
type Claims struct {
	UserID         int64  `json:"user_id"`
	OrganizationID int64  `json:"organization_id"`
	Role           string `json:"role"`
	jwt.RegisteredClaims
}

// resetClaims is the payload of a password-reset credential. It carries no
// role and is accepted nowhere except the reset endpoint.
type resetClaims struct {
	UserID         int64  `json:"user_id"`
	OrganizationID int64  `json:"organization_id"`
	Purpose        string `json:"purpose"`
	jwt.RegisteredClaims
}

// Codec signs and verifies credentials with a shared HS256 secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithClock overrides the time source, useful for tests.
func WithClock(fn func() time.Time) CodecOption {
	return func(c *Codec) {
		if fn != nil {
			c.now = fn
		}
	}
}

// NewCodec builds a codec from the shared signing secret.
func NewCodec(secret string, opts ...CodecOption) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token: signing secret is required")
	}
	c := &Codec{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewSessionClaims builds claims for a fresh session credential.
func (c *Codec) NewSessionClaims(subject string, userID, orgID int64, role string) Claims {
	now := c.now().UTC()
	return Claims{
		UserID:         userID,
		OrganizationID: orgID,
		Role:           role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
}

// EncodeSession signs a session credential.
func (c *Codec) EncodeSession(claims Claims) (string, error) {
	if claims.ExpiresAt == nil {
		return "", errors.New("token: claims carry no expiry")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies a session credential's signature and expiry. It does not
// assert the embedded role is current; that is the authn middleware's job.
func (c *Codec) Decode(credential string) (*Claims, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(credential, &Claims{}, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == 0 || claims.OrganizationID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// EncodeReset signs a single-purpose password-reset credential.
func (c *Codec) EncodeReset(userID, orgID int64) (string, error) {
	now := c.now().UTC()
	claims := resetClaims{
		UserID:         userID,
		OrganizationID: orgID,
		Purpose:        resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ResetTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// DecodeReset verifies a password-reset credential and returns the user and
// organization it was issued for. Session credentials are rejected.
func (c *Codec) DecodeReset(credential string) (userID, orgID int64, err error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return 0, 0, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(credential, &resetClaims{}, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, 0, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*resetClaims)
	if !ok || !parsed.Valid || claims.Purpose != resetPurpose || claims.UserID == 0 {
		return 0, 0, ErrInvalidToken
	}
	return claims.UserID, claims.OrganizationID, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	return c.secret, nil
}
