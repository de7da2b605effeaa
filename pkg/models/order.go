package models

import (
	"time"
)

const OrderStatusCompleted = "completed"

type Order struct {
	ID            string      `json:"id"`
	SessionID     *string     `json:"sessionId"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	Status        string      `json:"status"`
	Date          time.Time   `json:"date"`
	CustomerEmail string      `json:"customerEmail"`
	CustomerName  string      `json:"customerName"`
}

type OrderItem struct {
	Name     string `json:"name"`
	Price    Price  `json:"price"`
	Quantity int    `json:"quantity"`
	Image    string `json:"image,omitempty"`
	Variant  string `json:"variant,omitempty"`
}

// Subtotal is price times quantity for one line.
func (i OrderItem) Subtotal() float64 {
	return i.Price.Float() * float64(i.Quantity)
}

// OrderDraft is what checkout completion hands to the ledger. ID is
// optional; the ledger assigns one when empty.
type OrderDraft struct {
	ID        string
	SessionID *string
	Items     []OrderItem
	Total     float64
}

// Ledger maps an identity uid to its orders, newest first.
type Ledger map[string][]Order

// ItemsFromCart converts cart lines into order lines.
func ItemsFromCart(c Cart) []OrderItem {
	items := make([]OrderItem, 0, len(c))
	for _, line := range c {
		items = append(items, OrderItem{
			Name:     line.Name,
			Price:    line.UnitPrice,
			Quantity: line.Quantity,
			Image:    line.Image,
		})
	}
	return items
}
