package model

import (
	"time"

	"tracklog.org/internal/dbx"
)

// DailyReport is a free-form end-of-day write-up submitted by one user.
type DailyReport struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	UserID         int64     `json:"user_id"`
	ReportDate     string    `json:"report_date"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

func DailyReportFromRow(r dbx.Row) (DailyReport, error) {
	var d DailyReport
	var err error
	if d.ID, err = r.Int("id"); err != nil {
		return DailyReport{}, err
	}
	if d.OrganizationID, err = r.Int("organization_id"); err != nil {
		return DailyReport{}, err
	}
	if d.UserID, err = r.Int("user_id"); err != nil {
		return DailyReport{}, err
	}
	if d.ReportDate, err = r.Date("report_date"); err != nil {
		return DailyReport{}, err
	}
	if d.Content, err = r.Text("content"); err != nil {
		return DailyReport{}, err
	}
	if d.CreatedAt, err = r.Time("created_at"); err != nil {
		return DailyReport{}, err
	}
	return d, nil
}
