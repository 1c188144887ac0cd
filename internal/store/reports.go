package store

import (
	"context"
	"fmt"

	"tracklog.org/internal/dbx"
	"tracklog.org/internal/model"
)

const reportColumns = "id, organization_id, user_id, report_date, content, created_at"

type Reports struct {
	d dbx.Driver
}

type DailyReportFilter struct {
	Date   *string
	UserID *int64
}

func (r *Reports) List(ctx context.Context, orgID int64, f DailyReportFilter) ([]model.DailyReport, error) {
	query := "SELECT " + reportColumns + " FROM daily_reports WHERE organization_id = ?"
	params := []dbx.Param{dbx.Int(orgID)}
	if f.Date != nil {
		query += " AND report_date = ?"
		params = append(params, dbx.Text(*f.Date))
	}
	if f.UserID != nil {
		query += " AND user_id = ?"
		params = append(params, dbx.Int(*f.UserID))
	}
	query += " ORDER BY report_date DESC"
	return dbx.QueryMany(ctx, r.d, query, params, model.DailyReportFromRow)
}

func (r *Reports) Get(ctx context.Context, id, orgID int64) (*model.DailyReport, error) {
	return dbx.QueryOne(ctx, r.d,
		"SELECT "+reportColumns+" FROM daily_reports WHERE id = ? AND organization_id = ?",
		[]dbx.Param{dbx.Int(id), dbx.Int(orgID)},
		model.DailyReportFromRow,
	)
}

// Upsert keeps one report per user per day; resubmitting replaces the
// content.
func (r *Reports) Upsert(ctx context.Context, orgID, userID int64, date, content string) (model.DailyReport, error) {
	row, err := dbx.QueryOne(ctx, r.d,
		"INSERT INTO daily_reports (organization_id, user_id, report_date, content) VALUES (?, ?, ?, ?) "+
			"ON CONFLICT (user_id, report_date) DO UPDATE SET content = excluded.content "+
			"RETURNING "+reportColumns,
		[]dbx.Param{dbx.Int(orgID), dbx.Int(userID), dbx.Text(date), dbx.Text(content)},
		model.DailyReportFromRow,
	)
	if err != nil {
		return model.DailyReport{}, err
	}
	if row == nil {
		return model.DailyReport{}, fmt.Errorf("upsert report: no row returned")
	}
	return *row, nil
}

func (r *Reports) UpdateContent(ctx context.Context, id int64, content string) (model.DailyReport, error) {
	row, err := dbx.QueryOne(ctx, r.d,
		"UPDATE daily_reports SET content = ? WHERE id = ? RETURNING "+reportColumns,
		[]dbx.Param{dbx.Text(content), dbx.Int(id)},
		model.DailyReportFromRow,
	)
	if err != nil {
		return model.DailyReport{}, err
	}
	if row == nil {
		return model.DailyReport{}, ErrNotFound
	}
	return *row, nil
}
