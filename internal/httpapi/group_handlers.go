package httpapi

import (
	"net/http"

	"tracklog.org/internal/model"
	"tracklog.org/internal/token"
)

func (a *API) handleListDisplayGroups(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())

	groups, err := a.store.DisplayGroups.List(r.Context(), claims.OrganizationID, claims.UserID)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if groups == nil {
		groups = []model.DisplayGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

type displayGroupInput struct {
	Name      string  `json:"name"`
	MemberIDs []int64 `json:"member_ids"`
}

func (a *API) handleCreateDisplayGroup(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())

	var in displayGroupInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	group, err := a.store.DisplayGroups.Create(r.Context(), claims.OrganizationID, claims.UserID, in.Name, in.MemberIDs)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (a *API) handleUpdateDisplayGroup(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in displayGroupInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	group, err := a.store.DisplayGroups.Update(r.Context(), id, claims.OrganizationID, claims.UserID, in.Name, in.MemberIDs)
	if err != nil {
		respondStoreError(w, err, "display group not found")
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (a *API) handleDeleteDisplayGroup(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := a.store.DisplayGroups.Delete(r.Context(), id, claims.OrganizationID, claims.UserID); err != nil {
		respondStoreError(w, err, "display group not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
