package model

import (
	"time"

	"tracklog.org/internal/dbx"
)

// Invitation is an open offer to join an organization, addressed by token.
type Invitation struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	OrgName        *string   `json:"org_name,omitempty"`
	Token          string    `json:"token"`
	Role           string    `json:"role"`
	ExpiresAt      time.Time `json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func InvitationFromRow(r dbx.Row) (Invitation, error) {
	var inv Invitation
	var err error
	if inv.ID, err = r.Int("id"); err != nil {
		return Invitation{}, err
	}
	if inv.OrganizationID, err = r.Int("organization_id"); err != nil {
		return Invitation{}, err
	}
	if inv.OrgName, err = r.OptionalText("org_name"); err != nil {
		return Invitation{}, err
	}
	if inv.Token, err = r.Text("token"); err != nil {
		return Invitation{}, err
	}
	if inv.Role, err = r.Text("role"); err != nil {
		return Invitation{}, err
	}
	if inv.ExpiresAt, err = r.Time("expires_at"); err != nil {
		return Invitation{}, err
	}
	if inv.CreatedAt, err = r.Time("created_at"); err != nil {
		return Invitation{}, err
	}
	return inv, nil
}
