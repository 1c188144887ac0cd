package store

import (
	"context"
	"time"

	"tracklog.org/internal/dbx"
	"tracklog.org/internal/model"
)

const heatmapDays = 30

type Analytics struct {
	d dbx.Driver
}

type completionStats struct {
	total    int64
	thisWeek int64
	lastWeek int64
}

// weekStart returns 00:00 UTC of the Monday of t's week.
func weekStart(t time.Time) time.Time {
	t = t.UTC().Truncate(24 * time.Hour)
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func (a *Analytics) taskCompletion(ctx context.Context, orgID, userID int64, now time.Time) (completionStats, error) {
	thisWeek := weekStart(now)
	lastWeek := thisWeek.AddDate(0, 0, -7)
	nextWeek := thisWeek.AddDate(0, 0, 7)

	row, err := dbx.QueryOne(ctx, a.d,
		"SELECT COUNT(*) AS total_completed, "+
			"COALESCE(SUM(CASE WHEN created_at >= ? AND created_at < ? THEN 1 ELSE 0 END), 0) AS completed_this_week, "+
			"COALESCE(SUM(CASE WHEN created_at >= ? AND created_at < ? THEN 1 ELSE 0 END), 0) AS completed_last_week "+
			"FROM tasks WHERE organization_id = ? AND member_id = ? AND status = 'done'",
		[]dbx.Param{
			timeParam(thisWeek), timeParam(nextWeek),
			timeParam(lastWeek), timeParam(thisWeek),
			dbx.Int(orgID), dbx.Int(userID),
		},
		func(r dbx.Row) (completionStats, error) {
			var s completionStats
			var err error
			if s.total, err = r.Int("total_completed"); err != nil {
				return s, err
			}
			if s.thisWeek, err = r.Int("completed_this_week"); err != nil {
				return s, err
			}
			if s.lastWeek, err = r.Int("completed_last_week"); err != nil {
				return s, err
			}
			return s, nil
		},
	)
	if err != nil {
		return completionStats{}, err
	}
	if row == nil {
		return completionStats{}, nil
	}
	return *row, nil
}

func (a *Analytics) statusCounts(ctx context.Context, orgID, userID int64) ([]model.StatusCount, error) {
	return dbx.QueryMany(ctx, a.d,
		"SELECT status, COUNT(*) AS count FROM tasks WHERE organization_id = ? AND member_id = ? "+
			"GROUP BY status ORDER BY count DESC, status ASC",
		[]dbx.Param{dbx.Int(orgID), dbx.Int(userID)},
		model.StatusCountFromRow,
	)
}

func (a *Analytics) reportCount(ctx context.Context, orgID, userID int64) (int64, error) {
	row, err := dbx.QueryOne(ctx, a.d,
		"SELECT COUNT(*) AS count FROM daily_reports WHERE organization_id = ? AND user_id = ?",
		[]dbx.Param{dbx.Int(orgID), dbx.Int(userID)},
		countRow,
	)
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, nil
	}
	return *row, nil
}

// heatmap buckets the user's activity-log timestamps into the trailing 30
// days. Day filling happens here, not in SQL, so the query stays portable.
func (a *Analytics) heatmap(ctx context.Context, orgID, userID int64, now time.Time) ([]model.HeatmapDay, error) {
	today := now.UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(heatmapDays - 1))

	times, err := dbx.QueryMany(ctx, a.d,
		"SELECT created_at FROM activity_logs WHERE organization_id = ? AND user_id = ? AND created_at >= ?",
		[]dbx.Param{dbx.Int(orgID), dbx.Int(userID), timeParam(since)},
		func(r dbx.Row) (time.Time, error) { return r.Time("created_at") },
	)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, heatmapDays)
	for _, t := range times {
		counts[t.UTC().Format("2006-01-02")]++
	}
	days := make([]model.HeatmapDay, 0, heatmapDays)
	for d := since; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		days = append(days, model.HeatmapDay{Date: key, Count: counts[key]})
	}
	return days, nil
}

// ForUser assembles the complete analytics payload for one member.
func (a *Analytics) ForUser(ctx context.Context, orgID, userID int64, userName string) (model.Analytics, error) {
	now := time.Now()

	completion, err := a.taskCompletion(ctx, orgID, userID, now)
	if err != nil {
		return model.Analytics{}, err
	}
	byStatus, err := a.statusCounts(ctx, orgID, userID)
	if err != nil {
		return model.Analytics{}, err
	}
	if byStatus == nil {
		byStatus = []model.StatusCount{}
	}
	reports, err := a.reportCount(ctx, orgID, userID)
	if err != nil {
		return model.Analytics{}, err
	}
	heatmap, err := a.heatmap(ctx, orgID, userID, now)
	if err != nil {
		return model.Analytics{}, err
	}

	return model.Analytics{
		UserName: userName,
		TaskStats: model.TaskStats{
			TotalCompleted:    completion.total,
			CompletedThisWeek: completion.thisWeek,
			CompletedLastWeek: completion.lastWeek,
			ByStatus:          byStatus,
		},
		ReportStats: model.ReportStats{TotalSubmitted: reports},
		Heatmap:     heatmap,
	}, nil
}
