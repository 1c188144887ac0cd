package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"tracklog.org/internal/obs"
	"tracklog.org/internal/token"
)

const wsWriteTimeout = 5 * time.Second

// handleWS upgrades the connection and forwards this organization's bus
// events to the client as JSON frames. The stream is lossy: a client that
// cannot keep up misses events and is expected to re-fetch.
func (a *API) handleWS(w http.ResponseWriter, r *http.Request) {
	claims, ok := token.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: a.cfg.CORSAllowedOrigins,
	})
	if err != nil {
		obs.LogError("websocket accept failed", err, nil)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	obs.WSConnected()
	defer obs.WSDisconnected()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Drain incoming frames so pings and closes are processed; the
	// protocol is server-to-client only.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	events := a.bus.Subscribe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case evt, open := <-events:
			if !open {
				return
			}
			if evt.OrganizationID != claims.OrganizationID {
				continue
			}
			writeCtx, done := context.WithTimeout(ctx, wsWriteTimeout)
			err := wsjson.Write(writeCtx, conn, evt)
			done()
			if err != nil {
				return
			}
		}
	}
}
