package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCart_AddMergesQuantity(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var c Cart
	c = c.Add("p1", "Cake", 25, "/img.png", 2, now)
	c = c.Add("p2", "Topper", 4.5, "/t.png", 1, now)
	c = c.Add("p1", "Renamed", 99, "/other.png", 3, now.Add(time.Hour))

	if len(c) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(c))
	}
	first := c[0]
	if first.ProductID != "p1" || first.Quantity != 5 {
		t.Fatalf("unexpected first line: %+v", first)
	}
	if first.Name != "Cake" || first.UnitPrice != 25 || first.Image != "/img.png" || !first.AddedAt.Equal(now) {
		t.Fatalf("descriptive fields should be first-write-wins: %+v", first)
	}
	if c.Count() != 6 {
		t.Fatalf("count = %d, want 6", c.Count())
	}
	if got := c.Total(); got != 129.5 {
		t.Fatalf("total = %v, want 129.5", got)
	}
}

func TestCart_AddDoesNotMutateReceiver(t *testing.T) {
	base := Cart{}.Add("p1", "Cake", 10, "", 1, time.Now())
	_ = base.Add("p1", "Cake", 10, "", 4, time.Now())
	if base[0].Quantity != 1 {
		t.Fatalf("receiver mutated: %+v", base[0])
	}
}

func TestCart_RemoveAndSetQuantity(t *testing.T) {
	now := time.Now()
	c := Cart{}.Add("p1", "Cake", 10, "", 2, now).Add("p2", "Box", 3, "", 1, now)

	if got := c.Remove("missing"); len(got) != 2 {
		t.Fatalf("removing an absent id changed the cart: %+v", got)
	}

	next, ok := c.SetQuantity("p1", 7)
	if !ok || next[0].Quantity != 7 {
		t.Fatalf("set quantity should be exact, got %+v ok=%v", next, ok)
	}

	next, ok = next.SetQuantity("p1", 0)
	if !ok || len(next) != 1 || next[0].ProductID != "p2" {
		t.Fatalf("quantity 0 should remove the line, got %+v", next)
	}

	if _, ok := next.SetQuantity("p1", 1); ok {
		t.Fatal("expected not-found for removed product")
	}
}

func TestPrice_DecodesNumberAndString(t *testing.T) {
	var items []CartItem
	body := `[{"productId":"a","productPrice":"25.00","quantity":2},{"productId":"b","productPrice":1.5,"quantity":2}]`
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		t.Fatal(err)
	}
	if Cart(items).Total() != 53 {
		t.Fatalf("total = %v, want 53", Cart(items).Total())
	}
	if items[0].UnitPrice.String() != "25.00" {
		t.Fatalf("price string = %q", items[0].UnitPrice.String())
	}

	var p Price
	if err := json.Unmarshal([]byte(`"cheap"`), &p); err == nil {
		t.Fatal("expected error for non-numeric price")
	}
}

func TestIdentity_Name(t *testing.T) {
	u := &Identity{Email: "a@example.com"}
	if u.Name() != "a@example.com" {
		t.Fatalf("name = %q", u.Name())
	}
	u.DisplayName = "Ann"
	if u.Name() != "Ann" {
		t.Fatalf("name = %q", u.Name())
	}
}
