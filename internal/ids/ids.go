// Package ids generates the two identifier kinds the API hands out:
// sortable request ids for log correlation and random invitation tokens.
package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewRequestID returns a lexicographically sortable identifier; consecutive
// requests sort in arrival order in the logs.
func NewRequestID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewInvitationToken returns an unguessable token for invitation links.
func NewInvitationToken() string {
	return uuid.NewString()
}
