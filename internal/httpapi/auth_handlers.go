package httpapi

import (
	"net/http"

	"tracklog.org/internal/auth"
	"tracklog.org/internal/model"
	"tracklog.org/internal/obs"
)

const invalidCredentials = "invalid username or password"

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := a.store.Users.FindByUsername(r.Context(), in.Username)
	if err != nil {
		respondStoreError(w, err, invalidCredentials)
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, invalidCredentials)
		return
	}

	hash, err := a.store.Users.PasswordHash(r.Context(), user.ID)
	if err != nil {
		respondStoreError(w, err, invalidCredentials)
		return
	}
	if err := auth.VerifyPassword(hash, in.Password); err != nil {
		respondError(w, http.StatusUnauthorized, invalidCredentials)
		return
	}

	a.respondWithSession(w, http.StatusOK, *user)
}

type registerInput struct {
	OrganizationName string `json:"organization_name"`
	AdminName        string `json:"admin_name"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
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

	org, err := a.store.Organizations.Create(r.Context(), in.OrganizationName)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}

	user, err := a.store.Users.Create(r.Context(), newUserInput(org.ID, in.AdminName, in.Username, in.Email, hash, "admin"))
	if err != nil {
		respondStoreError(w, err, "")
		return
	}

	a.respondWithSession(w, http.StatusCreated, user)
}

type joinInput struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleJoin(w http.ResponseWriter, r *http.Request) {
	var in joinInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !auth.ValidUsername(in.Username) {
		respondError(w, http.StatusBadRequest, "username must contain only alphanumeric characters, underscores, or hyphens")
		return
	}

	inv, err := a.store.Invitations.FindByToken(r.Context(), in.Token)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if inv == nil {
		respondError(w, http.StatusNotFound, "invalid or expired invitation token")
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		respondError(w, http.StatusBadRequest, "password is required")
		return
	}

	user, err := a.store.Users.Create(r.Context(), newUserInput(inv.OrganizationID, in.Name, in.Username, in.Email, hash, inv.Role))
	if err != nil {
		respondStoreError(w, err, "")
		return
	}

	// Single use: the invitation is gone once consumed.
	if err := a.store.Invitations.Delete(r.Context(), inv.ID); err != nil {
		obs.LogError("invitation cleanup failed", err, map[string]any{"invitation_id": inv.ID})
	}

	a.respondWithSession(w, http.StatusCreated, user)
}

type forgotPasswordInput struct {
	Username string `json:"username"`
}

func (a *API) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in forgotPasswordInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := a.store.Users.FindByUsername(r.Context(), in.Username)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	reset, err := a.codec.EncodeReset(user.ID, user.OrganizationID)
	if err != nil {
		obs.LogError("reset token encode failed", err, nil)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if user.Email != nil {
		if err := a.mailer.SendPasswordReset(r.Context(), *user.Email, reset); err != nil {
			obs.LogError("reset mail failed", err, nil)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

type resetPasswordInput struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (a *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var in resetPasswordInput
	if !decodeJSON(w, r, &in) {
		return
	}

	userID, _, err := a.codec.DecodeReset(in.Token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid or expired reset token")
		return
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		respondError(w, http.StatusBadRequest, "password is required")
		return
	}
	if err := a.store.Users.UpdatePasswordByID(r.Context(), userID, hash); err != nil {
		respondStoreError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) respondWithSession(w http.ResponseWriter, code int, user model.User) {
	subject := ""
	if user.Username != nil {
		subject = *user.Username
	}
	claims := a.codec.NewSessionClaims(subject, user.ID, user.OrganizationID, user.Role)
	signed, err := a.codec.EncodeSession(claims)
	if err != nil {
		obs.LogError("session encode failed", err, nil)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, code, loginResponse{Token: signed, User: user})
}
