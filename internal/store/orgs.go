package store

import (
	"context"
	"fmt"

	"tracklog.org/internal/dbx"
	"tracklog.org/internal/model"
)

type Organizations struct {
	d dbx.Driver
}

func (o *Organizations) Create(ctx context.Context, name string) (model.Organization, error) {
	org, err := dbx.QueryOne(ctx, o.d,
		"INSERT INTO organizations (name) VALUES (?) RETURNING id, name",
		[]dbx.Param{dbx.Text(name)},
		model.OrganizationFromRow,
	)
	if err != nil {
		return model.Organization{}, err
	}
	if org == nil {
		return model.Organization{}, fmt.Errorf("create organization: no row returned")
	}
	return *org, nil
}
