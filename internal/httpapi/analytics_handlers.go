package httpapi

import (
	"net/http"

	"tracklog.org/internal/token"
)

func (a *API) handlePersonalAnalytics(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())

	user, err := a.store.Users.Get(r.Context(), claims.UserID, claims.OrganizationID)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	stats, err := a.store.Analytics.ForUser(r.Context(), claims.OrganizationID, user.ID, user.Name)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) handleUserAnalytics(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := a.store.Users.Get(r.Context(), id, claims.OrganizationID)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	stats, err := a.store.Analytics.ForUser(r.Context(), claims.OrganizationID, user.ID, user.Name)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
