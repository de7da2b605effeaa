// Package view renders state into the page document. Renderers are
// idempotent: they look elements up on every call and only create what is
// missing.
package view

import (
	"strconv"

	"github.com/example/fondantshop/pkg/dom"
)

const (
	CartBadgeID  = "cart-count"
	cartLinkSel  = `a[href*="cart"]`
	badgeDisplay = "inline-block"
)

// CartBadge writes count into the cart badge. The badge is created inside
// the cart link the first time there is something to show; without a cart
// link nothing happens.
func CartBadge(doc *dom.Document, count int) {
	if badge := doc.ByID(CartBadgeID); badge != nil {
		badge.SetText(strconv.Itoa(count))
		if count > 0 {
			badge.Show(badgeDisplay)
		} else {
			badge.Hide()
		}
		return
	}

	link := doc.Query(cartLinkSel)
	if link == nil || count <= 0 {
		return
	}
	badge := doc.CreateElement("span")
	badge.SetAttr("id", CartBadgeID)
	badge.SetAttr("class", "cart-badge")
	badge.SetText(strconv.Itoa(count))
	if link.Style("position") != "relative" {
		link.SetStyle("position", "relative")
	}
	link.AppendChild(badge)
}
