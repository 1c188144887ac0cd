package store

import (
	"context"
	"fmt"

	"tracklog.org/internal/dbx"
	"tracklog.org/internal/model"
)

// userColumns never includes password_hash; the hash only travels through
// the dedicated credential lookups.
const userColumns = "id, organization_id, name, username, email, avatar_url, role"

type Users struct {
	d dbx.Driver
}

// Role re-resolves the user's current role inside their organization. It is
// the per-request authorization source of truth; a missing row means the
// credential no longer maps to a live account.
func (u *Users) Role(ctx context.Context, userID, orgID int64) (string, error) {
	row, err := dbx.QueryOne(ctx, u.d,
		"SELECT role FROM users WHERE id = ? AND organization_id = ?",
		[]dbx.Param{dbx.Int(userID), dbx.Int(orgID)},
		func(r dbx.Row) (string, error) { return r.Text("role") },
	)
	if err != nil {
		return "", fmt.Errorf("resolve role: %w", err)
	}
	if row == nil {
		return "", ErrNotFound
	}
	return *row, nil
}

func (u *Users) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return dbx.QueryOne(ctx, u.d,
		"SELECT "+userColumns+" FROM users WHERE username = ?",
		[]dbx.Param{dbx.Text(username)},
		model.UserFromRow,
	)
}

func (u *Users) Get(ctx context.Context, id, orgID int64) (*model.User, error) {
	return dbx.QueryOne(ctx, u.d,
		"SELECT "+userColumns+" FROM users WHERE id = ? AND organization_id = ?",
		[]dbx.Param{dbx.Int(id), dbx.Int(orgID)},
		model.UserFromRow,
	)
}

func (u *Users) List(ctx context.Context, orgID int64) ([]model.User, error) {
	return dbx.QueryMany(ctx, u.d,
		"SELECT "+userColumns+" FROM users WHERE organization_id = ? ORDER BY id",
		[]dbx.Param{dbx.Int(orgID)},
		model.UserFromRow,
	)
}

// PasswordHash returns the stored credential hash for login verification.
func (u *Users) PasswordHash(ctx context.Context, userID int64) (string, error) {
	hash, err := dbx.QueryOne(ctx, u.d,
		"SELECT password_hash FROM users WHERE id = ?",
		[]dbx.Param{dbx.Int(userID)},
		func(r dbx.Row) (string, error) { return r.Text("password_hash") },
	)
	if err != nil {
		return "", err
	}
	if hash == nil {
		return "", ErrNotFound
	}
	return *hash, nil
}

type NewUser struct {
	OrganizationID int64
	Name           string
	Username       string
	Email          *string
	AvatarURL      *string
	PasswordHash   string
	Role           string
}

func (u *Users) Create(ctx context.Context, in NewUser) (model.User, error) {
	created, err := dbx.QueryOne(ctx, u.d,
		"INSERT INTO users (organization_id, name, username, email, avatar_url, password_hash, role) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING "+userColumns,
		[]dbx.Param{
			dbx.Int(in.OrganizationID),
			dbx.Text(in.Name),
			dbx.Text(in.Username),
			optTextParam(in.Email),
			optTextParam(in.AvatarURL),
			dbx.Text(in.PasswordHash),
			dbx.Text(in.Role),
		},
		model.UserFromRow,
	)
	if err != nil {
		return model.User{}, err
	}
	if created == nil {
		return model.User{}, fmt.Errorf("create user: no row returned")
	}
	return *created, nil
}

func (u *Users) Delete(ctx context.Context, id, orgID int64) error {
	return u.d.Exec(ctx,
		"DELETE FROM users WHERE id = ? AND organization_id = ?",
		[]dbx.Param{dbx.Int(id), dbx.Int(orgID)},
	)
}

// UpdatePassword rewrites the hash inside the caller's organization.
func (u *Users) UpdatePassword(ctx context.Context, userID, orgID int64, hash string) error {
	return u.d.Exec(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ? AND organization_id = ?",
		[]dbx.Param{dbx.Text(hash), dbx.Int(userID), dbx.Int(orgID)},
	)
}

// UpdatePasswordByID is the reset-token path; the reset credential pins the
// user id directly.
func (u *Users) UpdatePasswordByID(ctx context.Context, userID int64, hash string) error {
	return u.d.Exec(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?",
		[]dbx.Param{dbx.Text(hash), dbx.Int(userID)},
	)
}
