package page

import (
	"github.com/example/fondantshop/pkg/checkout"
	"github.com/example/fondantshop/pkg/models"
)

// Requests. Each one is answered with the reply type noted beside it.
type (
	// AddToCart adds a product for the active identity. Reply: *CartResult.
	AddToCart struct {
		ProductID string
		Name      string
		Price     models.Price
		Image     string
		Quantity  int
	}

	// RemoveFromCart reply: *CartResult.
	RemoveFromCart struct {
		ProductID string
	}

	// UpdateQuantity reply: *CartResult.
	UpdateQuantity struct {
		ProductID string
		Quantity  int
	}

	// ClearCart reply: *CartResult.
	ClearCart struct{}

	// Checkout starts a checkout session. The outcome is reported as a
	// notification. Reply: *Ack.
	Checkout struct {
		Request checkout.Request
	}

	// CompleteOrder records a paid order and empties the cart.
	// Reply: *OrderResult.
	CompleteOrder struct {
		Draft models.OrderDraft
	}

	// ShowOrders renders the active identity's order history.
	// Reply: *RenderResult.
	ShowOrders struct{}

	// Click dispatches a click on the first element matching Selector.
	// Reply: *ClickResult.
	Click struct {
		Selector string
	}

	// Snapshot reply: *State.
	Snapshot struct{}
)

// Replies.
type (
	Ack struct{}

	CartResult struct {
		Lines int
		Count int
		Err   error
	}

	OrderResult struct {
		Order models.Order
		Err   error
	}

	RenderResult struct {
		Rendered bool
		Err      error
	}

	ClickResult struct {
		Handled bool
	}

	// State is a point-in-time view of the page.
	State struct {
		HTML      string
		Location  string
		CartCount int
		User      *models.Identity
	}
)

// Internal events posted by the page to itself.
type (
	sessionChanged struct {
		user *models.Identity
	}

	storageChanged struct {
		key string
	}

	runTask struct {
		fn func()
	}
)
