package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tracklog.org/internal/audit"
	"tracklog.org/internal/ids"
	"tracklog.org/internal/obs"
	"tracklog.org/internal/token"
)

const invitationTTL = 7 * 24 * time.Hour

type createInvitationInput struct {
	Role  string `json:"role"`
	Email string `json:"email"`
}

func (a *API) handleCreateInvitation(w http.ResponseWriter, r *http.Request) {
	claims, _ := token.ClaimsFromContext(r.Context())

	var in createInvitationInput
	if !decodeJSON(w, r, &in) {
		return
	}
	role := in.Role
	if role == "" {
		role = "member"
	}
	if role != "member" && role != "admin" {
		respondError(w, http.StatusBadRequest, "role must be member or admin")
		return
	}

	inv, err := a.store.Invitations.Create(r.Context(), claims.OrganizationID,
		ids.NewInvitationToken(), role, time.Now().UTC().Add(invitationTTL))
	if err != nil {
		respondStoreError(w, err, "")
		return
	}

	if in.Email != "" {
		orgName := ""
		if inv.OrgName != nil {
			orgName = *inv.OrgName
		}
		if err := a.mailer.SendInvitation(r.Context(), in.Email, inv.Token, orgName); err != nil {
			// The invitation is already created; the token can still be
			// shared out of band.
			obs.LogError("invitation_mail_failed", err, map[string]any{"invitation_id": inv.ID})
		}
	}

	a.recorder.Record(r.Context(), "invitation_created", "invitation", &inv.ID, audit.Detail("Role: "+role))
	writeJSON(w, http.StatusCreated, inv)
}

// handleGetInvitation is unauthenticated: invitees look up the token they
// received before they have an account.
func (a *API) handleGetInvitation(w http.ResponseWriter, r *http.Request) {
	tok := chi.URLParam(r, "token")
	if tok == "" {
		respondError(w, http.StatusBadRequest, "token is required")
		return
	}

	inv, err := a.store.Invitations.FindByToken(r.Context(), tok)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if inv == nil {
		respondError(w, http.StatusNotFound, "invalid or expired invitation token")
		return
	}
	writeJSON(w, http.StatusOK, inv)
}
