package migrate

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSplitStatementsRespectsLiterals(t *testing.T) {
	script := "insert into t(name) values ('a;b'); create index i on t(name);"
	stmts := splitStatements(script)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
	}
	if !strings.Contains(stmts[0], "'a;b'") {
		t.Fatalf("literal split apart: %q", stmts[0])
	}
}

func TestCollectOrdersUpMigrations(t *testing.T) {
	r := NewRunner(nil)
	names, err := r.collect(".up.sql")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("no embedded migrations found")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("migrations out of order: %q before %q", names[i-1], names[i])
		}
	}
	for _, name := range names {
		if !strings.HasSuffix(name, ".up.sql") {
			t.Fatalf("unexpected file %q", name)
		}
	}
}

func TestStatusListsAppliedInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("create table if not exists schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select name from schema_migrations order by applied_at").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).
			AddRow("0001_init.up.sql").
			AddRow("0002_next.up.sql"))

	r := NewRunner(db)
	names, err := r.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(names) != 2 || names[0] != "0001_init.up.sql" {
		t.Fatalf("unexpected history %v", names)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
