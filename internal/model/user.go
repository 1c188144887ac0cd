// Package model holds the domain records and their row decoders. Every
// record is produced from a dbx.Row by a FromRow function, so the same
// decoding path covers both datastore backends.
package model

import "tracklog.org/internal/dbx"

// User is an account inside one organization.
type User struct {
	ID             int64   `json:"id"`
	OrganizationID int64   `json:"organization_id"`
	Name           string  `json:"name"`
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	AvatarURL      *string `json:"avatar_url"`
	Role           string  `json:"role"`
}

func UserFromRow(r dbx.Row) (User, error) {
	var u User
	var err error
	if u.ID, err = r.Int("id"); err != nil {
		return User{}, err
	}
	if u.OrganizationID, err = r.Int("organization_id"); err != nil {
		return User{}, err
	}
	if u.Name, err = r.Text("name"); err != nil {
		return User{}, err
	}
	if u.Username, err = r.OptionalText("username"); err != nil {
		return User{}, err
	}
	if u.Email, err = r.OptionalText("email"); err != nil {
		return User{}, err
	}
	if u.AvatarURL, err = r.OptionalText("avatar_url"); err != nil {
		return User{}, err
	}
	if u.Role, err = r.Text("role"); err != nil {
		return User{}, err
	}
	return u, nil
}

// UserWithTimeLogs is the /api/users projection: the user plus the time logs
// attached for the requested day.
type UserWithTimeLogs struct {
	User
	TimeLogs []TaskTimeLog `json:"time_logs"`
}

// Organization is a tenant.
type Organization struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func OrganizationFromRow(r dbx.Row) (Organization, error) {
	var o Organization
	var err error
	if o.ID, err = r.Int("id"); err != nil {
		return Organization{}, err
	}
	if o.Name, err = r.Text("name"); err != nil {
		return Organization{}, err
	}
	return o, nil
}
