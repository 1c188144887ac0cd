package dbx_test

import (
	"context"
	"errors"
	"testing"

	"tracklog.org/internal/dbx"
	"tracklog.org/internal/dbx/dbxtest"
)

type record struct {
	ID   int64
	Name string
}

func decodeRecord(r dbx.Row) (record, error) {
	var rec record
	var err error
	if rec.ID, err = r.Int("id"); err != nil {
		return record{}, err
	}
	if rec.Name, err = r.Text("name"); err != nil {
		return record{}, err
	}
	return rec, nil
}

func TestQueryMany(t *testing.T) {
	d := dbxtest.New()
	d.Queue([]dbx.Row{
		{"id": int64(1), "name": "alice"},
		{"id": int64(2), "name": "bob"},
	}, nil)

	got, err := dbx.QueryMany(context.Background(), d, "select id, name from users", nil, decodeRecord)
	if err != nil {
		t.Fatalf("QueryMany: %v", err)
	}
	if len(got) != 2 || got[0].Name != "alice" || got[1].ID != 2 {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestQueryManyStopsOnDecodeError(t *testing.T) {
	d := dbxtest.New()
	d.Queue([]dbx.Row{
		{"id": int64(1), "name": "alice"},
		{"id": int64(2)},
	}, nil)

	_, err := dbx.QueryMany(context.Background(), d, "select id, name from users", nil, decodeRecord)
	var missing *dbx.MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "name" {
		t.Fatalf("expected MissingField(name), got %v", err)
	}
}

func TestQueryOne(t *testing.T) {
	d := dbxtest.New()
	d.Queue([]dbx.Row{{"id": int64(9), "name": "carol"}}, nil)
	d.Queue(nil, nil)

	got, err := dbx.QueryOne(context.Background(), d, "select id, name from users where id = ?", []dbx.Param{dbx.Int(9)}, decodeRecord)
	if err != nil || got == nil || got.ID != 9 {
		t.Fatalf("QueryOne: got %+v, %v", got, err)
	}

	none, err := dbx.QueryOne(context.Background(), d, "select id, name from users where id = ?", []dbx.Param{dbx.Int(10)}, decodeRecord)
	if err != nil {
		t.Fatalf("QueryOne empty: %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil for empty result, got %+v", none)
	}
}

func TestQueryErrorPropagates(t *testing.T) {
	d := dbxtest.New()
	want := errors.New("connection reset")
	d.Queue(nil, want)

	if _, err := dbx.QueryOne(context.Background(), d, "select 1", nil, decodeRecord); !errors.Is(err, want) {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func TestParams(t *testing.T) {
	if v := dbx.Null().Value(); v != nil {
		t.Fatalf("Null binds %v", v)
	}
	if v := dbx.Int(5).Value(); v != int64(5) {
		t.Fatalf("Int binds %v", v)
	}
	if v := dbx.Real(1.5).Value(); v != 1.5 {
		t.Fatalf("Real binds %v", v)
	}
	if v := dbx.Text("x").Value(); v != "x" {
		t.Fatalf("Text binds %v", v)
	}
	s := "y"
	if v := dbx.NullableText(&s).Value(); v != "y" {
		t.Fatalf("NullableText binds %v", v)
	}
	if v := dbx.NullableText(nil).Value(); v != nil {
		t.Fatalf("NullableText(nil) binds %v", v)
	}
}
