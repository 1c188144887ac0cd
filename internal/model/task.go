package model

import (
	"time"

	"tracklog.org/internal/dbx"
)

// Task is a unit of tracked work assigned to one member.
type Task struct {
	ID                   int64     `json:"id"`
	OrganizationID       int64     `json:"organization_id"`
	MemberID             int64     `json:"member_id"`
	Title                string    `json:"title"`
	Status               string    `json:"status"`
	ProgressRate         int64     `json:"progress_rate"`
	Tags                 []string  `json:"tags"`
	CreatedAt            time.Time `json:"created_at"`
	TotalDurationMinutes int64     `json:"total_duration_minutes"`
}

func TaskFromRow(r dbx.Row) (Task, error) {
	var t Task
	var err error
	if t.ID, err = r.Int("id"); err != nil {
		return Task{}, err
	}
	if t.OrganizationID, err = r.Int("organization_id"); err != nil {
		return Task{}, err
	}
	if t.MemberID, err = r.Int("member_id"); err != nil {
		return Task{}, err
	}
	if t.Title, err = r.Text("title"); err != nil {
		return Task{}, err
	}
	if t.Status, err = r.Text("status"); err != nil {
		return Task{}, err
	}
	if t.ProgressRate, err = r.Int("progress_rate"); err != nil {
		return Task{}, err
	}
	if t.Tags, err = r.TextList("tags"); err != nil {
		return Task{}, err
	}
	if t.CreatedAt, err = r.Time("created_at"); err != nil {
		return Task{}, err
	}
	// Aggregate projections omit the column for tasks without logged time.
	if r.Has("total_duration_minutes") {
		if t.TotalDurationMinutes, err = r.Int("total_duration_minutes"); err != nil {
			return Task{}, err
		}
	}
	return t, nil
}

// TaskReportRow is the report projection: a task joined with its member's
// name and the timing aggregates for the selected period.
type TaskReportRow struct {
	Task
	UserName string     `json:"user_name"`
	StartAt  *time.Time `json:"start_at"`
	EndAt    *time.Time `json:"end_at"`
}

func TaskReportRowFromRow(r dbx.Row) (TaskReportRow, error) {
	task, err := TaskFromRow(r)
	if err != nil {
		return TaskReportRow{}, err
	}
	row := TaskReportRow{Task: task}
	if row.UserName, err = r.Text("user_name"); err != nil {
		return TaskReportRow{}, err
	}
	if row.StartAt, err = r.OptionalTime("start_at"); err != nil {
		return TaskReportRow{}, err
	}
	if row.EndAt, err = r.OptionalTime("end_at"); err != nil {
		return TaskReportRow{}, err
	}
	return row, nil
}
