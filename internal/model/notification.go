package model

import (
	"time"

	"tracklog.org/internal/dbx"
)

// Notification is an in-app message delivered to one user.
type Notification struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	UserID         int64     `json:"user_id"`
	Title          string    `json:"title"`
	Body           *string   `json:"body"`
	Category       string    `json:"category"`
	TargetType     *string   `json:"target_type"`
	TargetID       *int64    `json:"target_id"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

func NotificationFromRow(r dbx.Row) (Notification, error) {
	var n Notification
	var err error
	if n.ID, err = r.Int("id"); err != nil {
		return Notification{}, err
	}
	if n.OrganizationID, err = r.Int("organization_id"); err != nil {
		return Notification{}, err
	}
	if n.UserID, err = r.Int("user_id"); err != nil {
		return Notification{}, err
	}
	if n.Title, err = r.Text("title"); err != nil {
		return Notification{}, err
	}
	if n.Body, err = r.OptionalText("body"); err != nil {
		return Notification{}, err
	}
	if n.Category, err = r.Text("category"); err != nil {
		return Notification{}, err
	}
	if n.TargetType, err = r.OptionalText("target_type"); err != nil {
		return Notification{}, err
	}
	if n.TargetID, err = r.OptionalInt("target_id"); err != nil {
		return Notification{}, err
	}
	if n.IsRead, err = r.Bool("is_read"); err != nil {
		return Notification{}, err
	}
	if n.CreatedAt, err = r.Time("created_at"); err != nil {
		return Notification{}, err
	}
	return n, nil
}
