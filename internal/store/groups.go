package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tracklog.org/internal/dbx"
	"tracklog.org/internal/model"
)

const groupColumns = "id, organization_id, user_id, name, member_ids, created_at"

// Display groups are private to the user who created them; every operation
// pins both the organization and the owner.
type DisplayGroups struct {
	d dbx.Driver
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func (g *DisplayGroups) List(ctx context.Context, orgID, userID int64) ([]model.DisplayGroup, error) {
	return dbx.QueryMany(ctx, g.d,
		"SELECT "+groupColumns+" FROM display_groups WHERE organization_id = ? AND user_id = ? ORDER BY name",
		[]dbx.Param{dbx.Int(orgID), dbx.Int(userID)},
		model.DisplayGroupFromRow,
	)
}

func (g *DisplayGroups) Create(ctx context.Context, orgID, userID int64, name string, memberIDs []int64) (model.DisplayGroup, error) {
	row, err := dbx.QueryOne(ctx, g.d,
		"INSERT INTO display_groups (organization_id, user_id, name, member_ids) VALUES (?, ?, ?, ?) "+
			"RETURNING "+groupColumns,
		[]dbx.Param{dbx.Int(orgID), dbx.Int(userID), dbx.Text(name), dbx.Text(joinIDs(memberIDs))},
		model.DisplayGroupFromRow,
	)
	if err != nil {
		return model.DisplayGroup{}, err
	}
	if row == nil {
		return model.DisplayGroup{}, fmt.Errorf("create display group: no row returned")
	}
	return *row, nil
}

func (g *DisplayGroups) Update(ctx context.Context, id, orgID, userID int64, name string, memberIDs []int64) (model.DisplayGroup, error) {
	row, err := dbx.QueryOne(ctx, g.d,
		"UPDATE display_groups SET name = ?, member_ids = ? "+
			"WHERE id = ? AND organization_id = ? AND user_id = ? RETURNING "+groupColumns,
		[]dbx.Param{dbx.Text(name), dbx.Text(joinIDs(memberIDs)), dbx.Int(id), dbx.Int(orgID), dbx.Int(userID)},
		model.DisplayGroupFromRow,
	)
	if err != nil {
		return model.DisplayGroup{}, err
	}
	if row == nil {
		return model.DisplayGroup{}, ErrNotFound
	}
	return *row, nil
}

func (g *DisplayGroups) Delete(ctx context.Context, id, orgID, userID int64) error {
	existing, err := dbx.QueryOne(ctx, g.d,
		"SELECT id FROM display_groups WHERE id = ? AND organization_id = ? AND user_id = ?",
		[]dbx.Param{dbx.Int(id), dbx.Int(orgID), dbx.Int(userID)},
		func(r dbx.Row) (int64, error) { return r.Int("id") },
	)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return g.d.Exec(ctx,
		"DELETE FROM display_groups WHERE id = ? AND organization_id = ? AND user_id = ?",
		[]dbx.Param{dbx.Int(id), dbx.Int(orgID), dbx.Int(userID)},
	)
}
