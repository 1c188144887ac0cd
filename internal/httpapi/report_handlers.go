package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"tracklog.org/internal/audit"
	"tracklog.org/internal/model"
	"tracklog.org/internal/store"
	"tracklog.org/internal/token"
)

func (a *API) handleListReports(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())

	var filter store.DailyReportFilter
	q := r.URL.Query()
	if v := q.Get("date"); v != "" {
		filter.Date = &v
	}
	if v := q.Get("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "user_id must be an integer")
			return
		}
		filter.UserID = &id
	}

	reports, err := a.store.Reports.List(r.Context(), claims.OrganizationID, filter)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if reports == nil {
		reports = []model.DailyReport{}
	}
	writeJSON(w, http.StatusOK, reports)
}

type submitReportInput struct {
	ReportDate string `json:"report_date"`
	Content    string `json:"content"`
}

// handleCreateReport upserts the caller's report for the given day; one
// report per user per date.
func (a *API) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())

	var in submitReportInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Content == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}
	date := in.ReportDate
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		respondError(w, http.StatusBadRequest, "report_date must be YYYY-MM-DD")
		return
	}

	report, err := a.store.Reports.Upsert(r.Context(), claims.OrganizationID, claims.UserID, date, in.Content)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}

	a.recorder.Record(r.Context(), "report_submitted", "daily_report", &report.ID, audit.Detail("Date: "+date))
	a.publish(claims.OrganizationID, "report_submitted", report)
	writeJSON(w, http.StatusCreated, report)
}

func (a *API) handleGetReport(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	report, err := a.store.Reports.Get(r.Context(), id, claims.OrganizationID)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if report == nil {
		respondError(w, http.StatusNotFound, "report not found")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type updateReportInput struct {
	Content string `json:"content"`
}

func (a *API) handleUpdateReport(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in updateReportInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Content == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	report, err := a.store.Reports.Get(r.Context(), id, claims.OrganizationID)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if report == nil {
		respondError(w, http.StatusNotFound, "report not found")
		return
	}
	// Only the author or an admin may edit a report.
	if report.UserID != claims.UserID && claims.Role != "admin" {
		respondError(w, http.StatusForbidden, "cannot edit another user's report")
		return
	}

	updated, err := a.store.Reports.UpdateContent(r.Context(), id, in.Content)
	if err != nil {
		respondStoreError(w, err, "report not found")
		return
	}

	a.recorder.Record(r.Context(), "report_updated", "daily_report", &id, audit.Detail("Date: "+updated.ReportDate))
	a.publish(claims.OrganizationID, "report_updated", updated)
	writeJSON(w, http.StatusOK, updated)
}
