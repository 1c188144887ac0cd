package store

import (
	"context"
	"fmt"
	"strings"

	"tracklog.org/internal/dbx"
	"tracklog.org/internal/model"
)

// Tags live in a flattened text column; the decode layer restores the list.
const taskColumns = "t.id, t.organization_id, t.member_id, t.title, t.status, t.progress_rate, t.tags, t.created_at"

const taskDuration = "COALESCE((SELECT SUM(l.duration_minutes) FROM task_time_logs l WHERE l.task_id = t.id), 0) AS total_duration_minutes"

type Tasks struct {
	d dbx.Driver
}

type TaskFilter struct {
	MemberID *int64
	Status   *string
}

func (t *Tasks) List(ctx context.Context, orgID int64, f TaskFilter) ([]model.Task, error) {
	query := "SELECT " + taskColumns + ", " + taskDuration + " FROM tasks t WHERE t.organization_id = ?"
	params := []dbx.Param{dbx.Int(orgID)}
	if f.MemberID != nil {
		query += " AND t.member_id = ?"
		params = append(params, dbx.Int(*f.MemberID))
	}
	if f.Status != nil {
		query += " AND t.status = ?"
		params = append(params, dbx.Text(*f.Status))
	}
	query += " ORDER BY t.created_at DESC"
	return dbx.QueryMany(ctx, t.d, query, params, model.TaskFromRow)
}

func (t *Tasks) Get(ctx context.Context, id, orgID int64) (*model.Task, error) {
	return dbx.QueryOne(ctx, t.d,
		"SELECT "+taskColumns+", "+taskDuration+" FROM tasks t WHERE t.id = ? AND t.organization_id = ?",
		[]dbx.Param{dbx.Int(id), dbx.Int(orgID)},
		model.TaskFromRow,
	)
}

func (t *Tasks) Create(ctx context.Context, orgID, memberID int64, title string, tags []string) (model.Task, error) {
	created, err := dbx.QueryOne(ctx, t.d,
		"INSERT INTO tasks (organization_id, member_id, title, status, progress_rate, tags) "+
			"VALUES (?, ?, ?, 'todo', 0, ?) RETURNING id, organization_id, member_id, title, status, progress_rate, tags, created_at",
		[]dbx.Param{dbx.Int(orgID), dbx.Int(memberID), dbx.Text(title), dbx.Text(joinList(tags))},
		model.TaskFromRow,
	)
	if err != nil {
		return model.Task{}, err
	}
	if created == nil {
		return model.Task{}, fmt.Errorf("create task: no row returned")
	}
	return *created, nil
}

type TaskPatch struct {
	MemberID     *int64
	Title        *string
	Status       *string
	ProgressRate *int64
	Tags         []string
}

// Update merges the patch over the current row and writes every mutable
// column back; the merged task is returned.
func (t *Tasks) Update(ctx context.Context, id, orgID int64, patch TaskPatch) (model.Task, error) {
	current, err := t.Get(ctx, id, orgID)
	if err != nil {
		return model.Task{}, err
	}
	if current == nil {
		return model.Task{}, ErrNotFound
	}

	next := *current
	if patch.MemberID != nil {
		next.MemberID = *patch.MemberID
	}
	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.ProgressRate != nil {
		next.ProgressRate = *patch.ProgressRate
	}
	if patch.Tags != nil {
		next.Tags = patch.Tags
	}

	err = t.d.Exec(ctx,
		"UPDATE tasks SET member_id = ?, title = ?, status = ?, progress_rate = ?, tags = ? "+
			"WHERE id = ? AND organization_id = ?",
		[]dbx.Param{
			dbx.Int(next.MemberID),
			dbx.Text(next.Title),
			dbx.Text(next.Status),
			dbx.Int(next.ProgressRate),
			dbx.Text(joinList(next.Tags)),
			dbx.Int(id),
			dbx.Int(orgID),
		},
	)
	if err != nil {
		return model.Task{}, err
	}
	return next, nil
}

func (t *Tasks) Delete(ctx context.Context, id, orgID int64) error {
	return t.d.Exec(ctx,
		"DELETE FROM tasks WHERE id = ? AND organization_id = ?",
		[]dbx.Param{dbx.Int(id), dbx.Int(orgID)},
	)
}

type ReportFilter struct {
	MemberID  *int64
	StartDate *string
	EndDate   *string
	Statuses  []string
}

// Report joins each task with its member and the timing aggregates for the
// selected period.
func (t *Tasks) Report(ctx context.Context, orgID int64, f ReportFilter) ([]model.TaskReportRow, error) {
	query := "SELECT " + taskColumns + ", u.name AS user_name, " +
		"COALESCE(SUM(l.duration_minutes), 0) AS total_duration_minutes, " +
		"MIN(l.start_at) AS start_at, MAX(l.end_at) AS end_at " +
		"FROM tasks t JOIN users u ON u.id = t.member_id " +
		"LEFT JOIN task_time_logs l ON l.task_id = t.id"
	params := []dbx.Param{}
	if f.StartDate != nil {
		query += " AND l.start_at >= ?"
		params = append(params, dbx.Text(*f.StartDate))
	}
	if f.EndDate != nil {
		// End date is inclusive; the bound is lexical over RFC 3339 text.
		query += " AND l.start_at < ?"
		params = append(params, dbx.Text(*f.EndDate+"T23:59:59.999999999Z"))
	}
	query += " WHERE t.organization_id = ?"
	params = append(params, dbx.Int(orgID))
	if f.MemberID != nil {
		query += " AND t.member_id = ?"
		params = append(params, dbx.Int(*f.MemberID))
	}
	if len(f.Statuses) > 0 {
		query += " AND t.status IN (" + strings.Repeat("?, ", len(f.Statuses)-1) + "?)"
		for _, s := range f.Statuses {
			params = append(params, dbx.Text(s))
		}
	}
	query += " GROUP BY " + taskColumns + ", u.name ORDER BY u.name, t.created_at"
	return dbx.QueryMany(ctx, t.d, query, params, model.TaskReportRowFromRow)
}
