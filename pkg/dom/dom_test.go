package dom

import (
	"context"
	"strings"
	"testing"
)

const page = `<!DOCTYPE html><html><head></head><body>
<nav class="navbar"><div class="nav-links">
  <a href="/products">Products</a>
  <a href="/cart">Cart</a>
  <a href="/account" style="display: none; color: red">Account</a>
  <a href="/login">Login</a>
</div></nav>
<div id="order-history-container"></div>
</body></html>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestQuery(t *testing.T) {
	doc := mustParse(t)
	nav := doc.Query(".nav-links")
	if nav == nil {
		t.Fatal("nav not found")
	}
	if a := nav.Query(`a[href*="account"]`); a == nil || a.Text() != "Account" {
		t.Fatalf("account link lookup failed: %v", a)
	}
	if nav.Query(`.logout-btn, a[href*="logout"]`) != nil {
		t.Fatal("no logout control expected")
	}
	if doc.Query("[[[") != nil {
		t.Fatal("invalid selector should match nothing")
	}
	if got := len(doc.QueryAll(".nav-links a")); got != 4 {
		t.Fatalf("links = %d, want 4", got)
	}
	if doc.ByID("order-history-container") == nil {
		t.Fatal("container not found by id")
	}
}

func TestStyle(t *testing.T) {
	doc := mustParse(t)
	a := doc.Query(`a[href*="account"]`)
	if !a.Hidden() {
		t.Fatal("account link starts hidden")
	}
	a.Show("inline-block")
	if a.Style("display") != "inline-block" || a.Style("color") != "red" {
		t.Fatalf("style = %q", mustAttr(a, "style"))
	}
	a.SetStyle("color", "")
	if mustAttr(a, "style") != "display: inline-block" {
		t.Fatalf("style = %q", mustAttr(a, "style"))
	}
}

func mustAttr(e *Element, name string) string {
	v, _ := e.Attr(name)
	return v
}

func TestCreateAppendRemove(t *testing.T) {
	doc := mustParse(t)
	badge := doc.CreateElement("span")
	badge.SetAttr("id", "cart-count")
	badge.AddClass("cart-badge")
	badge.SetText("3")
	if badge.Attached() {
		t.Fatal("new element should be detached")
	}

	doc.Query(`a[href*="cart"]`).AppendChild(badge)
	if got := doc.ByID("cart-count"); got == nil || got.Text() != "3" {
		t.Fatal("badge not attached")
	}
	if !strings.Contains(doc.String(), `<span id="cart-count" class="cart-badge">3</span>`) {
		t.Fatalf("unexpected render: %s", doc.String())
	}

	badge.Remove()
	if doc.ByID("cart-count") != nil || badge.Attached() {
		t.Fatal("badge should be removed")
	}
}

func TestClasses(t *testing.T) {
	doc := mustParse(t)
	el := doc.CreateElement("div")
	el.AddClass("alert")
	el.AddClass("show")
	el.AddClass("show")
	if mustAttr(el, "class") != "alert show" {
		t.Fatalf("class = %q", mustAttr(el, "class"))
	}
	el.RemoveClass("show")
	if el.HasClass("show") || !el.HasClass("alert") {
		t.Fatalf("class = %q", mustAttr(el, "class"))
	}
}

func TestClickHandlers(t *testing.T) {
	doc := mustParse(t)
	login := doc.Query(`a[href*="login"]`)
	if doc.Click(context.Background(), login) {
		t.Fatal("no handler bound yet")
	}

	calls := 0
	login.OnClick(func(context.Context) { calls++ })
	// Rebinding replaces rather than stacks.
	login.OnClick(func(context.Context) { calls += 10 })

	// A fresh lookup reaches the same handler.
	if !doc.Click(context.Background(), doc.Query(`a[href*="login"]`)) {
		t.Fatal("handler not found")
	}
	if calls != 10 {
		t.Fatalf("calls = %d, want 10", calls)
	}
}

func TestSetInnerHTML_Sanitizes(t *testing.T) {
	doc := mustParse(t)
	c := doc.ByID("order-history-container")
	err := c.SetInnerHTML(`<div class="order-card"><h5>Order 1</h5><script>alert(1)</script><img src="/a.png" onerror="x()"></div>`)
	if err != nil {
		t.Fatal(err)
	}
	out := c.InnerHTML()
	if strings.Contains(out, "script") || strings.Contains(out, "onerror") {
		t.Fatalf("unsafe markup kept: %s", out)
	}
	if doc.Query("#order-history-container .order-card h5").Text() != "Order 1" {
		t.Fatalf("content lost: %s", out)
	}
}
