package view

import (
	"strings"
	"testing"
	"time"

	"github.com/example/fondantshop/pkg/dom"
	"github.com/example/fondantshop/pkg/models"
	"github.com/example/fondantshop/pkg/orders"
)

func parse(t *testing.T, s string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(s)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestCartBadge_CreatesOnce(t *testing.T) {
	doc := parse(t, `<body><div class="nav-links"><a href="/cart">Cart</a></div></body>`)

	CartBadge(doc, 0)
	if doc.ByID(CartBadgeID) != nil {
		t.Fatal("no badge for an empty cart")
	}

	CartBadge(doc, 2)
	CartBadge(doc, 3)
	badges := doc.QueryAll("#" + CartBadgeID)
	if len(badges) != 1 {
		t.Fatalf("badges = %d, want 1", len(badges))
	}
	if badges[0].Text() != "3" {
		t.Fatalf("badge text = %q", badges[0].Text())
	}
	if doc.Query(`a[href*="cart"]`).Style("position") != "relative" {
		t.Fatal("cart link should be positioned")
	}

	CartBadge(doc, 0)
	if !doc.ByID(CartBadgeID).Hidden() {
		t.Fatal("badge should hide at zero")
	}
	CartBadge(doc, 1)
	if doc.ByID(CartBadgeID).Hidden() {
		t.Fatal("badge should show again")
	}
}

func TestCartBadge_NoLink(t *testing.T) {
	doc := parse(t, `<body><p>no nav</p></body>`)
	CartBadge(doc, 4)
	if doc.ByID(CartBadgeID) != nil {
		t.Fatal("badge needs an anchor")
	}
}

func TestOrderHistory(t *testing.T) {
	doc := parse(t, `<body><div id="order-history-container"></div></body>`)

	ok, err := OrderHistory(doc, OrderHistoryID, orders.History(nil))
	if !ok || err != nil {
		t.Fatalf("render empty: %v %v", ok, err)
	}
	if !strings.Contains(doc.ByID(OrderHistoryID).Text(), "No Orders Yet") {
		t.Fatalf("missing empty state: %s", doc.String())
	}

	history := orders.History([]models.Order{{
		ID:            "ORD-1",
		Date:          time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Items:         []models.OrderItem{{Name: "<b>Cake</b>", Price: 12.5, Quantity: 2, Image: "/cake.png"}},
		Total:         25,
		CustomerEmail: "alice@example.com",
	}})
	if _, err := OrderHistory(doc, OrderHistoryID, history); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(doc.ByID(OrderHistoryID).Text(), "No Orders Yet") {
		t.Fatal("empty state should be replaced")
	}
	if got := doc.Query("#order-ORD-1 .item-subtotal").Text(); got != "$25.00" {
		t.Fatalf("subtotal = %q", got)
	}
	if got := doc.Query("#order-ORD-1 .item-name").Text(); got != "<b>Cake</b>" {
		t.Fatalf("item names must be escaped text, got %q", got)
	}
	if got := doc.Query("#order-ORD-1 .order-date").Text(); got != "February 1, 2026" {
		t.Fatalf("date = %q", got)
	}

	ok, _ = OrderHistory(doc, "missing", history)
	if ok {
		t.Fatal("missing container should report false")
	}
}

func TestAccountInfo(t *testing.T) {
	doc := parse(t, `<body><span id="user-name"></span><span id="user-email"></span>
<span id="user-member-since"></span><div id="email-verified-status"></div></body>`)

	AccountInfo(doc, &models.Identity{
		Email:     "bob@example.com",
		CreatedAt: time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC),
	})
	if doc.ByID("user-name").Text() != "User" {
		t.Fatalf("name = %q", doc.ByID("user-name").Text())
	}
	if doc.ByID("user-member-since").Text() != "July 4, 2025" {
		t.Fatalf("member since = %q", doc.ByID("user-member-since").Text())
	}
	if !strings.Contains(doc.ByID("email-verified-status").Text(), "Email Not Verified") {
		t.Fatal("expected unverified badge")
	}
}
