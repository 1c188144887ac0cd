package store

import (
	"context"
	"time"

	"tracklog.org/internal/dbx"
	"tracklog.org/internal/model"
)

const notificationColumns = "id, organization_id, user_id, title, body, category, target_type, target_id, is_read, created_at"

// Unread notifications never age out of the list; read ones linger this long.
const readRetention = 30 * 24 * time.Hour

type Notifications struct {
	d dbx.Driver
}

// List pages the recipient's notifications, unread first then newest.
func (n *Notifications) List(ctx context.Context, orgID, userID, page, perPage int64) (model.Page[model.Notification], error) {
	cutoff := timeParam(time.Now().Add(-readRetention))
	where := " FROM notifications WHERE organization_id = ? AND user_id = ? AND (is_read = 0 OR created_at >= ?)"
	base := []dbx.Param{dbx.Int(orgID), dbx.Int(userID), cutoff}

	items, err := dbx.QueryMany(ctx, n.d,
		"SELECT "+notificationColumns+where+
			" ORDER BY is_read ASC, created_at DESC LIMIT ? OFFSET ?",
		append(append([]dbx.Param{}, base...), dbx.Int(perPage), dbx.Int((page-1)*perPage)),
		model.NotificationFromRow,
	)
	if err != nil {
		return model.Page[model.Notification]{}, err
	}

	total, err := dbx.QueryOne(ctx, n.d, "SELECT COUNT(*) AS count"+where, base, countRow)
	if err != nil {
		return model.Page[model.Notification]{}, err
	}
	var count int64
	if total != nil {
		count = *total
	}
	return model.NewPage(items, count, page, perPage), nil
}

type NewNotification struct {
	OrganizationID int64
	UserID         int64
	Title          string
	Body           *string
	Category       string
	TargetType     *string
	TargetID       *int64
}

func (n *Notifications) Create(ctx context.Context, in NewNotification) error {
	return n.d.Exec(ctx,
		"INSERT INTO notifications (organization_id, user_id, title, body, category, target_type, target_id, is_read) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, 0)",
		[]dbx.Param{
			dbx.Int(in.OrganizationID),
			dbx.Int(in.UserID),
			dbx.Text(in.Title),
			optTextParam(in.Body),
			dbx.Text(in.Category),
			optTextParam(in.TargetType),
			optIntParam(in.TargetID),
		},
	)
}

func (n *Notifications) MarkRead(ctx context.Context, id, orgID, userID int64) (model.Notification, error) {
	row, err := dbx.QueryOne(ctx, n.d,
		"UPDATE notifications SET is_read = 1 WHERE id = ? AND organization_id = ? AND user_id = ? "+
			"RETURNING "+notificationColumns,
		[]dbx.Param{dbx.Int(id), dbx.Int(orgID), dbx.Int(userID)},
		model.NotificationFromRow,
	)
	if err != nil {
		return model.Notification{}, err
	}
	if row == nil {
		return model.Notification{}, ErrNotFound
	}
	return *row, nil
}

func (n *Notifications) MarkAllRead(ctx context.Context, orgID, userID int64) error {
	return n.d.Exec(ctx,
		"UPDATE notifications SET is_read = 1 WHERE organization_id = ? AND user_id = ? AND is_read = 0",
		[]dbx.Param{dbx.Int(orgID), dbx.Int(userID)},
	)
}
