package pg

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"tracklog.org/internal/dbx"
)

func TestRewritePlaceholders(t *testing.T) {
	cases := []struct{ in, want string }{
		{"select role from users where id = ? and organization_id = ?",
			"select role from users where id = $1 and organization_id = $2"},
		{"select 1", "select 1"},
		{"select * from tasks where status = 'open?' and id = ?",
			"select * from tasks where status = 'open?' and id = $1"},
	}
	for _, c := range cases {
		if got := rewritePlaceholders(c.in); got != c.want {
			t.Fatalf("rewrite %q:\n got %q\nwant %q", c.in, got, c.want)
		}
	}
}

func TestQueryNormalizesValues(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("select id, title, is_read, tags, created_at from notifications").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "is_read", "tags", "created_at"}).
			AddRow(int64(7), []byte("deploy"), true, "a,b,c", created))

	d := New(db)
	rows, err := d.Query(context.Background(),
		"select id, title, is_read, tags, created_at from notifications where user_id = ?",
		[]dbx.Param{dbx.Int(42)})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if v, err := row.Int("id"); err != nil || v != 7 {
		t.Fatalf("id: %v, %v", v, err)
	}
	// []byte columns arrive as text.
	if v, err := row.Text("title"); err != nil || v != "deploy" {
		t.Fatalf("title: %v, %v", v, err)
	}
	// bool columns arrive as 0/1 flags.
	if v, err := row.Bool("is_read"); err != nil || !v {
		t.Fatalf("is_read: %v, %v", v, err)
	}
	if tags, err := row.TextList("tags"); err != nil || len(tags) != 3 || tags[0] != "a" {
		t.Fatalf("tags: %v, %v", tags, err)
	}
	// timestamps arrive as RFC 3339 text.
	if v, err := row.Time("created_at"); err != nil || !v.Equal(created) {
		t.Fatalf("created_at: %v, %v", v, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExecBindsParams(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("update users set role = \\$1 where id = \\$2").
		WithArgs("member", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	d := New(db)
	err = d.Exec(context.Background(), "update users set role = ? where id = ?",
		[]dbx.Param{dbx.Text("member"), dbx.Int(3)})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
