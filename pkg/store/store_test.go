package store

import (
	"context"
	"errors"
	"testing"

	"github.com/example/fondantshop/pkg/models"
	"github.com/example/fondantshop/pkg/repository"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRead_MissingAndMalformed(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	mem := repository.NewMemoryRepository()
	s := New(mem, nil, zap.New(core))
	ctx := context.Background()

	var cart models.Cart
	if found, err := s.Read(ctx, CartKey, &cart); found || err != nil {
		t.Fatalf("missing document: found=%v err=%v", found, err)
	}
	if len(cart) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}

	mem.Set(ctx, CartKey, "not json {")
	cart = models.Cart{{ProductID: "stale"}}
	if found, err := s.Read(ctx, CartKey, &cart); found || err != nil {
		t.Fatalf("malformed document should read as empty: found=%v err=%v", found, err)
	}
	if cart != nil {
		t.Fatalf("expected cart reset to empty, got %+v", cart)
	}
	if logs.FilterMessage("Ignoring malformed document").Len() != 1 {
		t.Fatalf("expected malformed warning, got %v", logs.All())
	}

	// Valid JSON of the wrong shape is malformed too.
	mem.Set(ctx, OrdersKey, `["not","a","map"]`)
	var ledger models.Ledger
	if found, _ := s.Read(ctx, OrdersKey, &ledger); found || len(ledger) != 0 {
		t.Fatalf("expected empty ledger, got %+v", ledger)
	}
}

func TestWrite_StoreError(t *testing.T) {
	mem := repository.NewMemoryRepository()
	s := New(mem, nil, zap.NewNop())
	ctx := context.Background()

	if err := s.Write(ctx, CartKey, models.Cart{{ProductID: "p1", Quantity: 1}}); err != nil {
		t.Fatal(err)
	}

	mem.FailWrites(errors.New("quota exceeded"))
	err := s.Write(ctx, CartKey, models.Cart{})
	if !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
	var se *StoreError
	if !errors.As(err, &se) || se.Key != CartKey || se.Op != "write" {
		t.Fatalf("unexpected store error: %#v", err)
	}
	if err := s.Remove(ctx, CartKey); !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrStore from remove, got %v", err)
	}

	// Previous state is left unchanged.
	var cart models.Cart
	if found, err := s.Read(ctx, CartKey, &cart); !found || err != nil || len(cart) != 1 {
		t.Fatalf("state should be unchanged, got %+v", cart)
	}
}

func TestRead_BackendFailure(t *testing.T) {
	mem := repository.NewMemoryRepository()
	s := New(mem, nil, zap.NewNop())
	ctx := context.Background()
	if err := s.Write(ctx, CartKey, models.Cart{{ProductID: "p1", Quantity: 1}}); err != nil {
		t.Fatal(err)
	}

	mem.FailReads(errors.New("connection reset"))
	cart := models.Cart{{ProductID: "stale"}}
	found, err := s.Read(ctx, CartKey, &cart)
	if found || !errors.Is(err, ErrStore) {
		t.Fatalf("found=%v err=%v, want store error", found, err)
	}
	var se *StoreError
	if !errors.As(err, &se) || se.Op != "read" || se.Key != CartKey {
		t.Fatalf("unexpected store error: %#v", err)
	}
	if cart != nil {
		t.Fatalf("dest should be reset, got %+v", cart)
	}

	mem.FailReads(nil)
	if found, err := s.Read(ctx, CartKey, &cart); !found || err != nil || len(cart) != 1 {
		t.Fatalf("document should be intact: found=%v err=%v cart=%+v", found, err, cart)
	}
}

func TestWatch_OnlyOtherTabs(t *testing.T) {
	mem := repository.NewMemoryRepository()
	tabA := New(mem, mem, zap.NewNop())
	tabB := New(mem, mem, zap.NewNop())
	ctx := context.Background()

	var seenA, seenB int
	subA, err := tabA.Watch(ctx, CartKey, func() { seenA++ })
	if err != nil {
		t.Fatal(err)
	}
	defer subA.Unsubscribe()
	subB, err := tabB.Watch(ctx, CartKey, func() { seenB++ })
	if err != nil {
		t.Fatal(err)
	}

	tabA.Write(ctx, CartKey, models.Cart{})
	if seenA != 0 || seenB != 1 {
		t.Fatalf("writer must not see its own change: A=%d B=%d", seenA, seenB)
	}

	tabA.Write(ctx, OrdersKey, models.Ledger{})
	if seenB != 1 {
		t.Fatalf("changes to other keys must be filtered, B=%d", seenB)
	}

	subB.Unsubscribe()
	subB.Unsubscribe()
	tabA.Remove(ctx, CartKey)
	if seenB != 1 {
		t.Fatalf("unsubscribed watcher was called, B=%d", seenB)
	}
}
