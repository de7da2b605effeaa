package cart

import (
	"context"
	"errors"
	"time"

	"github.com/example/fondantshop/pkg/models"
	"github.com/example/fondantshop/pkg/store"
	"go.uber.org/zap"
)

// ErrNotFound is returned when an operation targets a product that is not
// in the cart.
var ErrNotFound = errors.New("cart: item not found")

// Manager owns the cart document. It is not scoped to an identity: the same
// cart survives logins and logouts.
type Manager struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewManager(s *store.Store, logger *zap.Logger) *Manager {
	return &Manager{
		store:  s,
		logger: logger.Named("cart"),
		now:    time.Now,
	}
}

// Cart returns the stored cart, empty when missing or unreadable.
func (m *Manager) Cart(ctx context.Context) models.Cart {
	c, _ := m.load(ctx)
	return c
}

func (m *Manager) load(ctx context.Context) (models.Cart, error) {
	var c models.Cart
	if _, err := m.store.Read(ctx, store.CartKey, &c); err != nil {
		return nil, err
	}
	return c, nil
}

func (m *Manager) save(ctx context.Context, c models.Cart) error {
	return m.store.Write(ctx, store.CartKey, c)
}

// AddItem adds quantity of a product, merging with an existing line. It
// returns the number of distinct lines in the cart. A new line holds at
// least one unit; a merge never lowers the existing quantity.
func (m *Manager) AddItem(ctx context.Context, productID, name string, unitPrice models.Price, image string, quantity int) (int, error) {
	current, err := m.load(ctx)
	if err != nil {
		return 0, err
	}
	if current.Find(productID) >= 0 {
		if quantity < 0 {
			quantity = 0
		}
	} else if quantity < 1 {
		quantity = 1
	}
	next := current.Add(productID, name, unitPrice, image, quantity, m.now())
	if err := m.save(ctx, next); err != nil {
		return 0, err
	}

	m.logger.Debug("Item added",
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Int("lines", len(next)))
	return len(next), nil
}

// RemoveItem drops a product. Removing an absent product succeeds.
func (m *Manager) RemoveItem(ctx context.Context, productID string) (int, error) {
	current, err := m.load(ctx)
	if err != nil {
		return 0, err
	}
	next := current.Remove(productID)
	if err := m.save(ctx, next); err != nil {
		return 0, err
	}
	return len(next), nil
}

// UpdateQuantity sets an exact quantity; quantity <= 0 removes the line.
// It returns the number of distinct lines left in the cart.
func (m *Manager) UpdateQuantity(ctx context.Context, productID string, quantity int) (int, error) {
	current, err := m.load(ctx)
	if err != nil {
		return 0, err
	}
	next, ok := current.SetQuantity(productID, quantity)
	if !ok {
		return 0, ErrNotFound
	}
	if err := m.save(ctx, next); err != nil {
		return 0, err
	}
	return len(next), nil
}

// ClearCart deletes the cart document.
func (m *Manager) ClearCart(ctx context.Context) error {
	return m.store.Remove(ctx, store.CartKey)
}

func (m *Manager) Count(ctx context.Context) int {
	return m.Cart(ctx).Count()
}

func (m *Manager) Total(ctx context.Context) float64 {
	return m.Cart(ctx).Total()
}
