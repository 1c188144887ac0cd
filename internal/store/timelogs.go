package store

import (
	"context"
	"fmt"
	"time"

	"tracklog.org/internal/dbx"
	"tracklog.org/internal/model"
)

const timeLogColumns = "l.id, l.organization_id, l.user_id, l.task_id, l.start_at, l.end_at, l.duration_minutes"

type TimeLogs struct {
	d dbx.Driver
}

// ListForUserOnDate returns the user's intervals starting on the given day,
// with the owning task's fields joined in for display.
func (t *TimeLogs) ListForUserOnDate(ctx context.Context, orgID, userID int64, day time.Time) ([]model.TaskTimeLog, error) {
	start := day.UTC().Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)
	return dbx.QueryMany(ctx, t.d,
		"SELECT "+timeLogColumns+", t.title AS task_title, t.status AS task_status, "+
			"t.progress_rate AS task_progress_rate, t.tags AS task_tags, "+
			"COALESCE((SELECT SUM(x.duration_minutes) FROM task_time_logs x WHERE x.task_id = l.task_id), 0) AS total_duration_minutes "+
			"FROM task_time_logs l JOIN tasks t ON t.id = l.task_id "+
			"WHERE l.organization_id = ? AND l.user_id = ? AND l.start_at >= ? AND l.start_at < ? "+
			"ORDER BY l.start_at",
		[]dbx.Param{dbx.Int(orgID), dbx.Int(userID), timeParam(start), timeParam(end)},
		model.TaskTimeLogFromRow,
	)
}

func (t *TimeLogs) Get(ctx context.Context, id, orgID int64) (*model.TaskTimeLog, error) {
	return dbx.QueryOne(ctx, t.d,
		"SELECT "+timeLogColumns+" FROM task_time_logs l WHERE l.id = ? AND l.organization_id = ?",
		[]dbx.Param{dbx.Int(id), dbx.Int(orgID)},
		model.TaskTimeLogFromRow,
	)
}

func (t *TimeLogs) Add(ctx context.Context, orgID, userID, taskID int64, startAt, endAt time.Time) (model.TaskTimeLog, error) {
	minutes := int64(endAt.Sub(startAt) / time.Minute)
	created, err := dbx.QueryOne(ctx, t.d,
		"INSERT INTO task_time_logs (organization_id, user_id, task_id, start_at, end_at, duration_minutes) "+
			"VALUES (?, ?, ?, ?, ?, ?) RETURNING id, organization_id, user_id, task_id, start_at, end_at, duration_minutes",
		[]dbx.Param{
			dbx.Int(orgID),
			dbx.Int(userID),
			dbx.Int(taskID),
			timeParam(startAt),
			timeParam(endAt),
			dbx.Int(minutes),
		},
		model.TaskTimeLogFromRow,
	)
	if err != nil {
		return model.TaskTimeLog{}, err
	}
	if created == nil {
		return model.TaskTimeLog{}, fmt.Errorf("add time log: no row returned")
	}
	return *created, nil
}

// Update rewrites the interval bounds; a nil bound keeps the stored one. The
// duration is recomputed from the merged interval.
func (t *TimeLogs) Update(ctx context.Context, id, orgID int64, startAt, endAt *time.Time) (model.TaskTimeLog, error) {
	current, err := t.Get(ctx, id, orgID)
	if err != nil {
		return model.TaskTimeLog{}, err
	}
	if current == nil {
		return model.TaskTimeLog{}, ErrNotFound
	}

	next := *current
	if startAt != nil {
		next.StartAt = startAt.UTC()
	}
	if endAt != nil {
		next.EndAt = endAt.UTC()
	}
	next.DurationMinutes = int64(next.EndAt.Sub(next.StartAt) / time.Minute)

	err = t.d.Exec(ctx,
		"UPDATE task_time_logs SET start_at = ?, end_at = ?, duration_minutes = ? "+
			"WHERE id = ? AND organization_id = ?",
		[]dbx.Param{
			timeParam(next.StartAt),
			timeParam(next.EndAt),
			dbx.Int(next.DurationMinutes),
			dbx.Int(id),
			dbx.Int(orgID),
		},
	)
	if err != nil {
		return model.TaskTimeLog{}, err
	}
	return next, nil
}

func (t *TimeLogs) Delete(ctx context.Context, id, orgID int64) error {
	return t.d.Exec(ctx,
		"DELETE FROM task_time_logs WHERE id = ? AND organization_id = ?",
		[]dbx.Param{dbx.Int(id), dbx.Int(orgID)},
	)
}
