package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"tracklog.org/internal/audit"
	"tracklog.org/internal/auth"
	"tracklog.org/internal/model"
	"tracklog.org/internal/store"
	"tracklog.org/internal/token"
)

func newUserInput(orgID int64, name, username, email, hash, role string) store.NewUser {
	in := store.NewUser{
		OrganizationID: orgID,
		Name:           name,
		Username:       username,
		PasswordHash:   hash,
		Role:           role,
	}
	if email != "" {
		in.Email = &email
	}
	return in
}

// handleListUsers returns every member of the caller's organization with the
// time logs they recorded on the requested day (default today).
func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())

	day := time.Now().UTC()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	users, err := a.store.Users.List(r.Context(), claims.OrganizationID)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}

	result := make([]model.UserWithTimeLogs, 0, len(users))
	for _, u := range users {
		logs, err := a.store.TimeLogs.ListForUserOnDate(r.Context(), claims.OrganizationID, u.ID, day)
		if err != nil {
			respondStoreError(w, err, "")
			return
		}
		if logs == nil {
			logs = []model.TaskTimeLog{}
		}
		result = append(result, model.UserWithTimeLogs{User: u, TimeLogs: logs})
	}

	writeJSON(w, http.StatusOK, result)
}

type createUserInput struct {
	Name      string  `json:"name"`
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	AvatarURL *string `json:"avatar_url"`
	Role      *string `json:"role"`
}

func (a *API) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())

	var in createUserInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !auth.ValidUsername(in.Username) {
		respondError(w, http.StatusBadRequest, "username must contain only alphanumeric characters, underscores, or hyphens")
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		respondError(w, http.StatusBadRequest, "password is required")
		return
	}

	role := "member"
	if in.Role != nil {
		role = *in.Role
	}
	newUser := newUserInput(claims.OrganizationID, in.Name, in.Username, "", hash, role)
	newUser.AvatarURL = in.AvatarURL

	user, err := a.store.Users.Create(r.Context(), newUser)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}

	a.recorder.Record(r.Context(), "user_created", "user", &user.ID, audit.Detail(user.Name))
	writeJSON(w, http.StatusCreated, user)
}

func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := a.store.Users.Delete(r.Context(), id, claims.OrganizationID); err != nil {
		respondStoreError(w, err, "")
		return
	}

	a.recorder.Record(r.Context(), "user_deleted", "user", &id, nil)
	w.WriteHeader(http.StatusNoContent)
}

type updatePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (a *API) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())

	var in updatePasswordInput
	if !decodeJSON(w, r, &in) {
		return
	}

	hash, err := a.store.Users.PasswordHash(r.Context(), claims.UserID)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if err := auth.VerifyPassword(hash, in.CurrentPassword); err != nil {
		respondError(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	newHash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		respondError(w, http.StatusBadRequest, "password is required")
		return
	}
	if err := a.store.Users.UpdatePassword(r.Context(), claims.UserID, claims.OrganizationID, newHash); err != nil {
		respondStoreError(w, err, "")
		return
	}

	a.recorder.Record(r.Context(), "password_changed", "user", &claims.UserID, nil)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathID parses the {id} route parameter; false means the 400 was written.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
