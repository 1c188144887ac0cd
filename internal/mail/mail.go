// Package mail delivers the two transactional messages the API sends:
// organization invitations and password-reset links.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tracklog.org/internal/obs"
)

// Mailer sends transactional mail. Implementations receive the raw token and
// build the frontend link themselves.
type Mailer interface {
	SendInvitation(ctx context.Context, to, token, orgName string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

// LogMailer writes each message as a JSON log line instead of sending it.
// It is the default when no delivery endpoint is configured.
type LogMailer struct {
	FrontendURL string
}

func (m *LogMailer) SendInvitation(_ context.Context, to, token, orgName string) error {
	obs.Logger().Println(logLine("invitation_email", to, joinLink(m.FrontendURL, token), orgName))
	return nil
}

func (m *LogMailer) SendPasswordReset(_ context.Context, to, token string) error {
	obs.Logger().Println(logLine("password_reset_email", to, resetLink(m.FrontendURL, token), ""))
	return nil
}

func logLine(event, to, link, orgName string) string {
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"type":  "mail",
		"event": event,
		"to":    to,
		"link":  link,
	}
	if orgName != "" {
		entry["org_name"] = orgName
	}
	data, _ := json.Marshal(entry)
	return string(data)
}

// HTTPMailer posts messages to a transactional mail service as JSON, with a
// bearer API key.
type HTTPMailer struct {
	Endpoint    string
	APIKey      string
	From        string
	FrontendURL string
	Client      *http.Client
}

type message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func (m *HTTPMailer) SendInvitation(ctx context.Context, to, token, orgName string) error {
	text := fmt.Sprintf("You have been invited to join %s.\n\nAccept the invitation here:\n\n%s",
		orgName, joinLink(m.FrontendURL, token))
	return m.send(ctx, message{From: m.From, To: to, Subject: "You have been invited", Text: text})
}

func (m *HTTPMailer) SendPasswordReset(ctx context.Context, to, token string) error {
	text := fmt.Sprintf("Reset your password using the link below:\n\n%s", resetLink(m.FrontendURL, token))
	return m.send(ctx, message{From: m.From, To: to, Subject: "Password reset", Text: text})
}

func (m *HTTPMailer) send(ctx context.Context, msg message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := m.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("mail delivery: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail delivery: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

func joinLink(base, token string) string {
	return strings.TrimRight(base, "/") + "/join?token=" + token
}

func resetLink(base, token string) string {
	return strings.TrimRight(base, "/") + "/reset-password?token=" + token
}
