package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/example/fondantshop/pkg/repository"
	"github.com/example/fondantshop/pkg/store"
	"go.uber.org/zap/zaptest"
)

func newTestManager(t *testing.T) (*Manager, *repository.MemoryRepository) {
	t.Helper()
	mem := repository.NewMemoryRepository()
	return NewManager(store.New(mem, mem, zaptest.NewLogger(t)), zaptest.NewLogger(t)), mem
}

func TestAddItem_Scenario(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	lines, err := m.AddItem(ctx, "p1", "Cake", 25.00, "/img.png", 2)
	if err != nil {
		t.Fatal(err)
	}
	if lines != 1 {
		t.Fatalf("lines = %d, want 1", lines)
	}
	if m.Count(ctx) != 2 || m.Total(ctx) != 50 {
		t.Fatalf("count/total = %d/%v, want 2/50", m.Count(ctx), m.Total(ctx))
	}

	if _, err := m.AddItem(ctx, "p1", "Cake", 25.00, "/img.png", 1); err != nil {
		t.Fatal(err)
	}
	c := m.Cart(ctx)
	if len(c) != 1 || c[0].Quantity != 3 {
		t.Fatalf("expected one line with quantity 3, got %+v", c)
	}
	if m.Total(ctx) != 75 {
		t.Fatalf("total = %v, want 75", m.Total(ctx))
	}
}

func TestAddItem_SumOfQuantities(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	want := 0
	for _, q := range []int{1, 4, 2, 7} {
		want += q
		if _, err := m.AddItem(ctx, "p9", "Box", 3, "", q); err != nil {
			t.Fatal(err)
		}
	}
	c := m.Cart(ctx)
	if len(c) != 1 || c[0].Quantity != want {
		t.Fatalf("expected single line with %d, got %+v", want, c)
	}
}

func TestRemoveItem(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	m.AddItem(ctx, "p1", "Cake", 10, "", 2)
	m.AddItem(ctx, "p2", "Box", 1, "", 5)

	if _, err := m.RemoveItem(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	if m.Count(ctx) != 5 || m.Cart(ctx).Find("p1") >= 0 {
		t.Fatalf("p1 should be gone, cart=%+v", m.Cart(ctx))
	}
	if _, err := m.RemoveItem(ctx, "nope"); err != nil {
		t.Fatalf("removing an absent id should succeed, got %v", err)
	}
}

func TestUpdateQuantity(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	m.AddItem(ctx, "p1", "Cake", 10, "", 2)

	if lines, err := m.UpdateQuantity(ctx, "p1", 5); err != nil || lines != 1 {
		t.Fatalf("lines=%d err=%v", lines, err)
	}
	if m.Count(ctx) != 5 {
		t.Fatalf("update should be exact, count=%d", m.Count(ctx))
	}
	if lines, err := m.UpdateQuantity(ctx, "p1", 0); err != nil || lines != 0 {
		t.Fatalf("lines=%d err=%v", lines, err)
	}
	if len(m.Cart(ctx)) != 0 {
		t.Fatalf("quantity 0 should remove, cart=%+v", m.Cart(ctx))
	}
	if _, err := m.UpdateQuantity(ctx, "p1", 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClearCart(t *testing.T) {
	m, mem := newTestManager(t)
	ctx := context.Background()
	m.AddItem(ctx, "p1", "Cake", 10, "", 2)

	if err := m.ClearCart(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := mem.Get(ctx, store.CartKey); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("cart document should be deleted, got %v", err)
	}
}

func TestMalformedCartReadsEmpty(t *testing.T) {
	m, mem := newTestManager(t)
	ctx := context.Background()
	mem.Set(ctx, store.CartKey, "<<definitely not json>>")

	if c := m.Cart(ctx); len(c) != 0 {
		t.Fatalf("expected empty cart, got %+v", c)
	}
	// The cart recovers on the next write.
	if _, err := m.AddItem(ctx, "p1", "Cake", 1, "", 1); err != nil {
		t.Fatal(err)
	}
	if m.Count(ctx) != 1 {
		t.Fatalf("count = %d, want 1", m.Count(ctx))
	}
}

func TestAddItem_StoreFailureLeavesCart(t *testing.T) {
	m, mem := newTestManager(t)
	ctx := context.Background()
	m.AddItem(ctx, "p1", "Cake", 10, "", 1)

	mem.FailWrites(errors.New("quota exceeded"))
	if _, err := m.AddItem(ctx, "p2", "Box", 1, "", 1); !errors.Is(err, store.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(m.Cart(ctx)) != 1 {
		t.Fatalf("cart should be unchanged, got %+v", m.Cart(ctx))
	}
}

func TestAddItem_NonPositiveQuantity(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.AddItem(ctx, "p1", "Cake", 10, "", 0); err != nil {
		t.Fatal(err)
	}
	if m.Count(ctx) != 1 {
		t.Fatalf("a new line holds at least one unit, count=%d", m.Count(ctx))
	}

	m.AddItem(ctx, "p1", "Cake", 10, "", 2)
	m.AddItem(ctx, "p1", "Cake", 10, "", 0)
	m.AddItem(ctx, "p1", "Cake", 10, "", -4)
	if c := m.Cart(ctx); len(c) != 1 || c[0].Quantity != 3 {
		t.Fatalf("merging zero or less must not change the line, got %+v", c)
	}
}

func TestMutators_ReadFailureLeavesDocument(t *testing.T) {
	m, mem := newTestManager(t)
	ctx := context.Background()
	m.AddItem(ctx, "p1", "Cake", 10, "", 2)
	m.AddItem(ctx, "p2", "Box", 1, "", 1)
	before, err := mem.Get(ctx, store.CartKey)
	if err != nil {
		t.Fatal(err)
	}

	mem.FailReads(errors.New("connection reset"))
	if _, err := m.AddItem(ctx, "p3", "Tin", 4, "", 1); !errors.Is(err, store.ErrStore) {
		t.Fatalf("add: expected store error, got %v", err)
	}
	if _, err := m.RemoveItem(ctx, "p1"); !errors.Is(err, store.ErrStore) {
		t.Fatalf("remove: expected store error, got %v", err)
	}
	if _, err := m.UpdateQuantity(ctx, "p2", 9); !errors.Is(err, store.ErrStore) {
		t.Fatalf("update: expected store error, got %v", err)
	}
	if m.Count(ctx) != 0 {
		t.Fatalf("an unreadable cart reads as empty, count=%d", m.Count(ctx))
	}

	mem.FailReads(nil)
	after, err := mem.Get(ctx, store.CartKey)
	if err != nil || after != before {
		t.Fatalf("cart document changed:\nbefore %s\nafter  %s (err=%v)", before, after, err)
	}
	if m.Count(ctx) != 3 {
		t.Fatalf("count = %d, want 3", m.Count(ctx))
	}
}
