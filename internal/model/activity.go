package model

import (
	"time"

	"tracklog.org/internal/dbx"
)

// ActivityLog is one auditable action, with the acting user's name joined in.
type ActivityLog struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	UserID         int64     `json:"user_id"`
	UserName       string    `json:"user_name"`
	Action         string    `json:"action"`
	TargetType     string    `json:"target_type"`
	TargetID       *int64    `json:"target_id"`
	Details        *string   `json:"details"`
	CreatedAt      time.Time `json:"created_at"`
}

func ActivityLogFromRow(r dbx.Row) (ActivityLog, error) {
	var a ActivityLog
	var err error
	if a.ID, err = r.Int("id"); err != nil {
		return ActivityLog{}, err
	}
	if a.OrganizationID, err = r.Int("organization_id"); err != nil {
		return ActivityLog{}, err
	}
	if a.UserID, err = r.Int("user_id"); err != nil {
		return ActivityLog{}, err
	}
	if a.UserName, err = r.Text("user_name"); err != nil {
		return ActivityLog{}, err
	}
	if a.Action, err = r.Text("action"); err != nil {
		return ActivityLog{}, err
	}
	if a.TargetType, err = r.Text("target_type"); err != nil {
		return ActivityLog{}, err
	}
	if a.TargetID, err = r.OptionalInt("target_id"); err != nil {
		return ActivityLog{}, err
	}
	if a.Details, err = r.OptionalText("details"); err != nil {
		return ActivityLog{}, err
	}
	if a.CreatedAt, err = r.Time("created_at"); err != nil {
		return ActivityLog{}, err
	}
	return a, nil
}
