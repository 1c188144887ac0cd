package model

import (
	"time"

	"tracklog.org/internal/dbx"
)

// DisplayGroup is a user-defined grouping of members for dashboard views.
type DisplayGroup struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	MemberIDs      []int64   `json:"member_ids"`
	CreatedAt      time.Time `json:"created_at"`
}

func DisplayGroupFromRow(r dbx.Row) (DisplayGroup, error) {
	var g DisplayGroup
	var err error
	if g.ID, err = r.Int("id"); err != nil {
		return DisplayGroup{}, err
	}
	if g.OrganizationID, err = r.Int("organization_id"); err != nil {
		return DisplayGroup{}, err
	}
	if g.UserID, err = r.Int("user_id"); err != nil {
		return DisplayGroup{}, err
	}
	if g.Name, err = r.Text("name"); err != nil {
		return DisplayGroup{}, err
	}
	if g.MemberIDs, err = r.IntList("member_ids"); err != nil {
		return DisplayGroup{}, err
	}
	if g.MemberIDs == nil {
		g.MemberIDs = []int64{}
	}
	if g.CreatedAt, err = r.Time("created_at"); err != nil {
		return DisplayGroup{}, err
	}
	return g, nil
}
