package httpapi

import (
	"net/http"
	"strconv"

	"tracklog.org/internal/store"
	"tracklog.org/internal/token"
)

func (a *API) handleListLogs(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())
	page, perPage := pageParams(r)

	var filter store.LogFilter
	q := r.URL.Query()
	if v := q.Get("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "user_id must be an integer")
			return
		}
		filter.UserID = &id
	}
	if v := q.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		filter.EndDate = &v
	}
	if v := q.Get("action"); v != "" {
		filter.Action = &v
	}
	if v := q.Get("target_type"); v != "" {
		filter.TargetType = &v
	}

	result, err := a.store.ActivityLogs.List(r.Context(), claims.OrganizationID, page, perPage, filter)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
