package repository

import (
	"context"
	"errors"
	"testing"
)

func openTestSQL(t *testing.T) *SQLRepository {
	t.Helper()
	repo, err := OpenSQLRepository(context.Background(), DialectSQLite, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	if _, err := b.Get(ctx, "fondant_cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing: expected ErrNotFound, got %v", err)
	}
	if err := b.Set(ctx, "fondant_cart", `[]`); err != nil {
		t.Fatal(err)
	}
	if err := b.Set(ctx, "fondant_cart", `[{"productId":"p1"}]`); err != nil {
		t.Fatal(err)
	}
	v, err := b.Get(ctx, "fondant_cart")
	if err != nil {
		t.Fatal(err)
	}
	if v != `[{"productId":"p1"}]` {
		t.Fatalf("last write should win, got %q", v)
	}
	if err := b.Del(ctx, "fondant_cart"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Get(ctx, "fondant_cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: expected ErrNotFound, got %v", err)
	}
	if err := b.Del(ctx, "fondant_cart"); err != nil {
		t.Fatalf("deleting a missing key should succeed: %v", err)
	}
}

func TestSQLRepository_SQLite(t *testing.T) {
	exerciseBackend(t, openTestSQL(t))
}

func TestMemoryRepository(t *testing.T) {
	exerciseBackend(t, NewMemoryRepository())
}

func TestMemoryRepository_FailWrites(t *testing.T) {
	m := NewMemoryRepository()
	boom := errors.New("quota exceeded")
	m.FailWrites(boom)
	if err := m.Set(context.Background(), "k", "v"); !errors.Is(err, boom) {
		t.Fatalf("expected quota error, got %v", err)
	}
	m.FailWrites(nil)
	if err := m.Set(context.Background(), "k", "v"); err != nil {
		t.Fatal(err)
	}
}

func TestMemoryRepository_Signal(t *testing.T) {
	m := NewMemoryRepository()
	var got []Change
	cancel, err := m.Subscribe(context.Background(), func(c Change) { got = append(got, c) })
	if err != nil {
		t.Fatal(err)
	}
	m.Publish(context.Background(), Change{Key: "fondant_cart", Origin: "tab-1"})
	cancel()
	m.Publish(context.Background(), Change{Key: "fondant_cart", Origin: "tab-2"})

	if len(got) != 1 || got[0].Origin != "tab-1" {
		t.Fatalf("unexpected changes: %+v", got)
	}
}

func TestSQLRepository_Rebind(t *testing.T) {
	s := &SQLRepository{dialect: DialectPostgres}
	got := s.rebind(`SELECT value FROM t WHERE a = ? AND b = ?`)
	if got != `SELECT value FROM t WHERE a = $1 AND b = $2` {
		t.Fatalf("rebind = %q", got)
	}
	s.dialect = DialectSQLite
	if s.rebind("?") != "?" {
		t.Fatal("sqlite queries should be left untouched")
	}
}
