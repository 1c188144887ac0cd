package model

import "tracklog.org/internal/dbx"

// StatusCount is a (status label, item count) aggregate tuple.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func StatusCountFromRow(r dbx.Row) (StatusCount, error) {
	var s StatusCount
	var err error
	if s.Status, err = r.Text("status"); err != nil {
		return StatusCount{}, err
	}
	if s.Count, err = r.Int("count"); err != nil {
		return StatusCount{}, err
	}
	return s, nil
}

// HeatmapDay is the activity count for one calendar day.
type HeatmapDay struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

func HeatmapDayFromRow(r dbx.Row) (HeatmapDay, error) {
	var h HeatmapDay
	var err error
	if h.Date, err = r.Date("date"); err != nil {
		return HeatmapDay{}, err
	}
	if h.Count, err = r.Int("count"); err != nil {
		return HeatmapDay{}, err
	}
	return h, nil
}

// TaskStats aggregates a user's task completions.
type TaskStats struct {
	TotalCompleted    int64         `json:"total_completed"`
	CompletedThisWeek int64         `json:"completed_this_week"`
	CompletedLastWeek int64         `json:"completed_last_week"`
	ByStatus          []StatusCount `json:"by_status"`
}

// ReportStats aggregates a user's submitted reports.
type ReportStats struct {
	TotalSubmitted int64 `json:"total_submitted"`
}

// Analytics is the per-user analytics payload.
type Analytics struct {
	UserName    string       `json:"user_name"`
	TaskStats   TaskStats    `json:"task_stats"`
	ReportStats ReportStats  `json:"report_stats"`
	Heatmap     []HeatmapDay `json:"heatmap"`
}
