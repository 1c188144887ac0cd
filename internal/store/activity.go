package store

import (
	"context"

	"tracklog.org/internal/dbx"
	"tracklog.org/internal/model"
)

type ActivityLogs struct {
	d dbx.Driver
}

type NewActivityLog struct {
	OrganizationID int64
	UserID         int64
	Action         string
	TargetType     string
	TargetID       *int64
	Details        *string
}

func (a *ActivityLogs) Append(ctx context.Context, in NewActivityLog) error {
	return a.d.Exec(ctx,
		"INSERT INTO activity_logs (organization_id, user_id, action, target_type, target_id, details) "+
			"VALUES (?, ?, ?, ?, ?, ?)",
		[]dbx.Param{
			dbx.Int(in.OrganizationID),
			dbx.Int(in.UserID),
			dbx.Text(in.Action),
			dbx.Text(in.TargetType),
			optIntParam(in.TargetID),
			optTextParam(in.Details),
		},
	)
}

type LogFilter struct {
	UserID     *int64
	StartDate  *string
	EndDate    *string
	Action     *string
	TargetType *string
}

// List pages the organization's audit trail newest-first, with the acting
// user's name joined in.
func (a *ActivityLogs) List(ctx context.Context, orgID, page, perPage int64, f LogFilter) (model.Page[model.ActivityLog], error) {
	where := " FROM activity_logs l JOIN users u ON u.id = l.user_id WHERE l.organization_id = ?"
	params := []dbx.Param{dbx.Int(orgID)}
	if f.UserID != nil {
		where += " AND l.user_id = ?"
		params = append(params, dbx.Int(*f.UserID))
	}
	if f.StartDate != nil {
		where += " AND l.created_at >= ?"
		params = append(params, dbx.Text(*f.StartDate))
	}
	if f.EndDate != nil {
		where += " AND l.created_at < ?"
		params = append(params, dbx.Text(*f.EndDate+"T23:59:59.999999999Z"))
	}
	if f.Action != nil {
		where += " AND l.action = ?"
		params = append(params, dbx.Text(*f.Action))
	}
	if f.TargetType != nil {
		where += " AND l.target_type = ?"
		params = append(params, dbx.Text(*f.TargetType))
	}

	items, err := dbx.QueryMany(ctx, a.d,
		"SELECT l.id, l.organization_id, l.user_id, u.name AS user_name, l.action, l.target_type, "+
			"l.target_id, l.details, l.created_at"+where+
			" ORDER BY l.created_at DESC LIMIT ? OFFSET ?",
		append(append([]dbx.Param{}, params...), dbx.Int(perPage), dbx.Int((page-1)*perPage)),
		model.ActivityLogFromRow,
	)
	if err != nil {
		return model.Page[model.ActivityLog]{}, err
	}

	total, err := dbx.QueryOne(ctx, a.d, "SELECT COUNT(*) AS count"+where, params, countRow)
	if err != nil {
		return model.Page[model.ActivityLog]{}, err
	}
	var count int64
	if total != nil {
		count = *total
	}
	return model.NewPage(items, count, page, perPage), nil
}
