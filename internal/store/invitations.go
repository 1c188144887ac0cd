package store

import (
	"context"
	"fmt"
	"time"

	"tracklog.org/internal/dbx"
	"tracklog.org/internal/model"
)

const invitationColumns = "i.id, i.organization_id, i.token, i.role, i.expires_at, i.created_at"

type Invitations struct {
	d dbx.Driver
}

// Create stores the invitation and resolves the issuing organization's name
// for the response payload.
func (i *Invitations) Create(ctx context.Context, orgID int64, token, role string, expiresAt time.Time) (model.Invitation, error) {
	inv, err := dbx.QueryOne(ctx, i.d,
		"INSERT INTO invitations (organization_id, token, role, expires_at) VALUES (?, ?, ?, ?) "+
			"RETURNING id, organization_id, token, role, expires_at, created_at",
		[]dbx.Param{dbx.Int(orgID), dbx.Text(token), dbx.Text(role), timeParam(expiresAt)},
		model.InvitationFromRow,
	)
	if err != nil {
		return model.Invitation{}, err
	}
	if inv == nil {
		return model.Invitation{}, fmt.Errorf("create invitation: no row returned")
	}

	name, err := dbx.QueryOne(ctx, i.d,
		"SELECT name FROM organizations WHERE id = ?",
		[]dbx.Param{dbx.Int(orgID)},
		func(r dbx.Row) (string, error) { return r.Text("name") },
	)
	if err != nil {
		return model.Invitation{}, err
	}
	inv.OrgName = name
	return *inv, nil
}

// FindByToken returns only live invitations; expired ones read as absent.
func (i *Invitations) FindByToken(ctx context.Context, token string) (*model.Invitation, error) {
	return dbx.QueryOne(ctx, i.d,
		"SELECT "+invitationColumns+", o.name AS org_name FROM invitations i "+
			"JOIN organizations o ON o.id = i.organization_id "+
			"WHERE i.token = ? AND i.expires_at > ?",
		[]dbx.Param{dbx.Text(token), timeParam(time.Now())},
		model.InvitationFromRow,
	)
}

func (i *Invitations) Delete(ctx context.Context, id int64) error {
	return i.d.Exec(ctx,
		"DELETE FROM invitations WHERE id = ?",
		[]dbx.Param{dbx.Int(id)},
	)
}
