// Package store holds the repositories. All SQL is written once with ?
// placeholders and runs unchanged on both datastore drivers; rows come back
// through the dbx decode layer.
package store

import (
	"errors"
	"strings"
	"time"

	"tracklog.org/internal/dbx"
)

var ErrNotFound = errors.New("store: not found")

// Store bundles one repository per aggregate, all sharing a driver.
type Store struct {
	Users         *Users
	Tasks         *Tasks
	TimeLogs      *TimeLogs
	Reports       *Reports
	Notifications *Notifications
	Invitations   *Invitations
	ActivityLogs  *ActivityLogs
	Organizations *Organizations
	DisplayGroups *DisplayGroups
	Analytics     *Analytics
}

func New(d dbx.Driver) *Store {
	return &Store{
		Users:         &Users{d: d},
		Tasks:         &Tasks{d: d},
		TimeLogs:      &TimeLogs{d: d},
		Reports:       &Reports{d: d},
		Notifications: &Notifications{d: d},
		Invitations:   &Invitations{d: d},
		ActivityLogs:  &ActivityLogs{d: d},
		Organizations: &Organizations{d: d},
		DisplayGroups: &DisplayGroups{d: d},
		Analytics:     &Analytics{d: d},
	}
}

// timeParam encodes a timestamp the way both backends store it.
func timeParam(t time.Time) dbx.Param {
	return dbx.Text(t.UTC().Format(time.RFC3339Nano))
}

func optTextParam(s *string) dbx.Param {
	if s == nil {
		return dbx.Null()
	}
	return dbx.Text(*s)
}

func optIntParam(n *int64) dbx.Param {
	if n == nil {
		return dbx.Null()
	}
	return dbx.Int(*n)
}

// joinList flattens a scalar list into the stored comma-separated encoding.
func joinList(items []string) string {
	return strings.Join(items, ",")
}

func countRow(r dbx.Row) (int64, error) {
	return r.Int("count")
}
