package httpapi

import (
	"net/http"
	"strconv"

	"tracklog.org/internal/token"
)

// pageParams reads page/per_page query parameters, clamping per_page to a
// sane range so a client cannot request unbounded result sets.
func pageParams(r *http.Request) (page, perPage int64) {
	page, perPage = 1, 20
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			perPage = n
		}
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

func (a *API) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())
	page, perPage := pageParams(r)

	result, err := a.store.Notifications.List(r.Context(), claims.OrganizationID, claims.UserID, page, perPage)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	notif, err := a.store.Notifications.MarkRead(r.Context(), id, claims.OrganizationID, claims.UserID)
	if err != nil {
		respondStoreError(w, err, "notification not found")
		return
	}
	writeJSON(w, http.StatusOK, notif)
}

func (a *API) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())

	if err := a.store.Notifications.MarkAllRead(r.Context(), claims.OrganizationID, claims.UserID); err != nil {
		respondStoreError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
