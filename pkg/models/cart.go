package models

import "time"

// CartItem is one line of the cart document. The JSON names match the
// layout already persisted under the cart key.
type CartItem struct {
	ProductID string    `json:"productId"`
	Name      string    `json:"productName"`
	UnitPrice Price     `json:"productPrice"`
	Image     string    `json:"productImage"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// Cart is the ordered list of line items, first added first. Methods never
// mutate the receiver; they return the next cart value.
type Cart []CartItem

// Find returns the index of productID, or -1.
func (c Cart) Find(productID string) int {
	for i := range c {
		if c[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add merges quantity into an existing line or appends a new one. The
// descriptive fields of an existing line are kept as first written.
func (c Cart) Add(productID, name string, unitPrice Price, image string, quantity int, now time.Time) Cart {
	next := c.clone()
	if idx := next.Find(productID); idx >= 0 {
		next[idx].Quantity += quantity
		return next
	}
	return append(next, CartItem{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Image:     image,
		Quantity:  quantity,
		AddedAt:   now,
	})
}

// Remove drops productID. Removing an absent id returns an equal cart.
func (c Cart) Remove(productID string) Cart {
	next := make(Cart, 0, len(c))
	for _, item := range c {
		if item.ProductID != productID {
			next = append(next, item)
		}
	}
	return next
}

// SetQuantity sets the exact quantity of productID; quantity <= 0 removes
// it. ok is false when productID is not in the cart.
func (c Cart) SetQuantity(productID string, quantity int) (next Cart, ok bool) {
	idx := c.Find(productID)
	if idx < 0 {
		return c, false
	}
	if quantity <= 0 {
		return c.Remove(productID), true
	}
	next = c.clone()
	next[idx].Quantity = quantity
	return next, true
}

// Count is the sum of quantities.
func (c Cart) Count() int {
	n := 0
	for _, item := range c {
		n += item.Quantity
	}
	return n
}

// Total is the undiscounted sum of unit price times quantity.
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c {
		total += item.UnitPrice.Float() * float64(item.Quantity)
	}
	return total
}

func (c Cart) clone() Cart {
	next := make(Cart, len(c), len(c)+1)
	copy(next, c)
	return next
}
