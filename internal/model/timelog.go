package model

import (
	"time"

	"tracklog.org/internal/dbx"
)

// TaskTimeLog is one logged work interval on a task. The task_* fields are
// denormalized joins carried only by reporting projections.
type TaskTimeLog struct {
	ID                   int64      `json:"id"`
	OrganizationID       int64      `json:"organization_id"`
	UserID               int64      `json:"user_id"`
	TaskID               int64      `json:"task_id"`
	StartAt              time.Time  `json:"start_at"`
	EndAt                time.Time  `json:"end_at"`
	DurationMinutes      int64      `json:"duration_minutes"`
	TaskTitle            *string    `json:"task_title,omitempty"`
	TaskStatus           *string    `json:"task_status,omitempty"`
	TaskProgressRate     *int64     `json:"task_progress_rate,omitempty"`
	TaskTags             []string   `json:"task_tags,omitempty"`
	TotalDurationMinutes int64      `json:"total_duration_minutes"`
}

func TaskTimeLogFromRow(r dbx.Row) (TaskTimeLog, error) {
	var l TaskTimeLog
	var err error
	if l.ID, err = r.Int("id"); err != nil {
		return TaskTimeLog{}, err
	}
	if l.OrganizationID, err = r.Int("organization_id"); err != nil {
		return TaskTimeLog{}, err
	}
	if l.UserID, err = r.Int("user_id"); err != nil {
		return TaskTimeLog{}, err
	}
	if l.TaskID, err = r.Int("task_id"); err != nil {
		return TaskTimeLog{}, err
	}
	if l.StartAt, err = r.Time("start_at"); err != nil {
		return TaskTimeLog{}, err
	}
	if l.EndAt, err = r.Time("end_at"); err != nil {
		return TaskTimeLog{}, err
	}
	if l.DurationMinutes, err = r.Int("duration_minutes"); err != nil {
		return TaskTimeLog{}, err
	}
	if l.TaskTitle, err = r.OptionalText("task_title"); err != nil {
		return TaskTimeLog{}, err
	}
	if l.TaskStatus, err = r.OptionalText("task_status"); err != nil {
		return TaskTimeLog{}, err
	}
	if l.TaskProgressRate, err = r.OptionalInt("task_progress_rate"); err != nil {
		return TaskTimeLog{}, err
	}
	if l.TaskTags, err = r.TextList("task_tags"); err != nil {
		return TaskTimeLog{}, err
	}
	if r.Has("total_duration_minutes") {
		if l.TotalDurationMinutes, err = r.Int("total_duration_minutes"); err != nil {
			return TaskTimeLog{}, err
		}
	}
	return l, nil
}
