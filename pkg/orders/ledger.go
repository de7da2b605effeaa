package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/fondantshop/pkg/models"
	"github.com/example/fondantshop/pkg/store"
	"go.uber.org/zap"
)

var (
	// ErrUnauthenticated is returned when a write is attempted without an
	// active identity.
	ErrUnauthenticated = errors.New("orders: no user logged in")
	ErrNotFound        = errors.New("orders: order not found")
)

// Sessions yields the identity active at the moment of the call.
type Sessions interface {
	CurrentIdentity() *models.Identity
}

// AuditSink is told about every saved order.
type AuditSink interface {
	RecordOrder(ctx context.Context, uid string, order models.Order) error
}

// Ledger is the per-identity, append-only order history. Orders of
// different identities live in one document under disjoint keys and are
// only visible while their identity is active.
type Ledger struct {
	store    *store.Store
	sessions Sessions
	audit    AuditSink
	logger   *zap.Logger
	now      func() time.Time
}

func NewLedger(s *store.Store, sessions Sessions, logger *zap.Logger) *Ledger {
	return &Ledger{
		store:    s,
		sessions: sessions,
		logger:   logger.Named("orders"),
		now:      time.Now,
	}
}

// WithAudit attaches an audit sink.
func (l *Ledger) WithAudit(sink AuditSink) *Ledger {
	l.audit = sink
	return l
}

func (l *Ledger) load(ctx context.Context) (models.Ledger, error) {
	var all models.Ledger
	if _, err := l.store.Read(ctx, store.OrdersKey, &all); err != nil {
		return nil, err
	}
	if all == nil {
		all = models.Ledger{}
	}
	return all, nil
}

// SaveOrder finalizes draft for the active identity and prepends it to
// that identity's history.
func (l *Ledger) SaveOrder(ctx context.Context, draft models.OrderDraft) (models.Order, error) {
	user := l.sessions.CurrentIdentity()
	if user == nil {
		l.logger.Warn("No user logged in, cannot save order")
		return models.Order{}, ErrUnauthenticated
	}

	now := l.now()
	id := draft.ID
	if id == "" {
		id = fmt.Sprintf("ORD-%d", now.UnixNano())
	}

	order := models.Order{
		ID:            id,
		SessionID:     draft.SessionID,
		Items:         draft.Items,
		Total:         draft.Total,
		Status:        models.OrderStatusCompleted,
		Date:          now,
		CustomerEmail: user.Email,
		CustomerName:  user.Name(),
	}
	if order.Items == nil {
		order.Items = []models.OrderItem{}
	}

	all, err := l.load(ctx)
	if err != nil {
		return models.Order{}, err
	}
	all[user.UID] = append([]models.Order{order}, all[user.UID]...)
	if err := l.store.Write(ctx, store.OrdersKey, all); err != nil {
		return models.Order{}, err
	}

	l.logger.Info("Order saved successfully",
		zap.String("order_id", order.ID),
		zap.String("user_id", user.UID),
		zap.Float64("total", order.Total))

	if l.audit != nil {
		if err := l.audit.RecordOrder(ctx, user.UID, order); err != nil {
			l.logger.Warn("Failed to record order audit", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	return order, nil
}

// Orders returns the active identity's orders, newest first. It is empty
// when nobody is logged in.
func (l *Ledger) Orders(ctx context.Context) []models.Order {
	user := l.sessions.CurrentIdentity()
	if user == nil {
		return []models.Order{}
	}
	all, _ := l.load(ctx)
	orders := all[user.UID]
	if orders == nil {
		return []models.Order{}
	}
	return orders
}

func (l *Ledger) OrderByID(ctx context.Context, id string) (models.Order, error) {
	for _, o := range l.Orders(ctx) {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, ErrNotFound
}

func (l *Ledger) Count(ctx context.Context) int {
	return len(l.Orders(ctx))
}

// ClearOrders deletes the active identity's history and nothing else. It
// reports false when nobody is logged in or the store fails.
func (l *Ledger) ClearOrders(ctx context.Context) bool {
	user := l.sessions.CurrentIdentity()
	if user == nil {
		return false
	}
	all, err := l.load(ctx)
	if err != nil {
		l.logger.Error("Error clearing orders", zap.String("user_id", user.UID), zap.Error(err))
		return false
	}
	delete(all, user.UID)
	if err := l.store.Write(ctx, store.OrdersKey, all); err != nil {
		l.logger.Error("Error clearing orders", zap.String("user_id", user.UID), zap.Error(err))
		return false
	}
	return true
}
