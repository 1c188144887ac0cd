package audit

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"tracklog.org/internal/obs"
	"tracklog.org/internal/store"
	"tracklog.org/internal/token"
)

type ctxKey string

const requestIDKey ctxKey = "audit_request_id"

// WithRequestID attaches the request identifier to the context for audit logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// requestIDFromContext extracts the audit request id from context if present.
func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// Recorder persists activity-log rows and mirrors each entry as a JSON audit
// line. Recording is best effort: a datastore failure is logged, never
// propagated into the request that triggered it.
type Recorder struct {
	logs *store.ActivityLogs
}

func NewRecorder(logs *store.ActivityLogs) *Recorder {
	return &Recorder{logs: logs}
}

// Record writes one activity entry attributed to the authenticated user in
// ctx. Without claims in ctx there is no actor and nothing is recorded.
func (r *Recorder) Record(ctx context.Context, action, targetType string, targetID *int64, details *string) {
	claims, ok := token.ClaimsFromContext(ctx)
	if !ok {
		return
	}

	entry := store.NewActivityLog{
		OrganizationID: claims.OrganizationID,
		UserID:         claims.UserID,
		Action:         action,
		TargetType:     targetType,
		TargetID:       targetID,
		Details:        details,
	}
	if err := r.logs.Append(ctx, entry); err != nil {
		obs.LogError("audit append failed", err, map[string]any{"action": action})
	}

	line := map[string]any{
		"ts":              time.Now().UTC().Format(time.RFC3339Nano),
		"type":            "audit",
		"event":           action,
		"target_type":     targetType,
		"organization_id": claims.OrganizationID,
		"user_id":         claims.UserID,
	}
	if rid := requestIDFromContext(ctx); rid != "" {
		line["request_id"] = rid
	}
	if targetID != nil {
		line["target_id"] = *targetID
	}
	data, err := json.Marshal(line)
	if err != nil {
		return
	}
	obs.Logger().Println(string(data))
}

// Detail wraps a details payload for Record.
func Detail(s string) *string { return &s }
