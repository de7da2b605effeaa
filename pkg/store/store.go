// Package store is the durability primitive under the cart and the order
// ledger: JSON documents under string keys on a shared Backend.
//
// A missing or corrupt document reads as the empty value of the destination
// type. Backend failures on reads and writes are reported as *StoreError.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/example/fondantshop/pkg/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Document keys.
const (
	CartKey   = "fondant_cart"
	OrdersKey = "fondant_orders"
)

// ErrStore matches every *StoreError.
var ErrStore = errors.New("store unavailable")

// StoreError is a failed backend call: quota exceeded, backend unreachable,
// or a document that could not be encoded.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

// Subscription is a cancellable change listener.
type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	once   sync.Once
	cancel func()
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

// Store is one page's (tab's) view of the shared backend. Every Store gets
// its own origin id so that it can tell its own writes from other tabs'.
type Store struct {
	backend repository.Backend
	signal  repository.Signal
	origin  string
	logger  *zap.Logger
}

// New builds a Store. signal may be nil, in which case no cross-tab
// notifications are sent or received.
func New(backend repository.Backend, signal repository.Signal, logger *zap.Logger) *Store {
	return &Store{
		backend: backend,
		signal:  signal,
		origin:  uuid.NewString(),
		logger:  logger.Named("store"),
	}
}

// Read decodes the document under key into dest and reports whether one was
// found. On a miss or on corrupt data dest holds the empty value of its type
// and err is nil. Any other backend failure is a *StoreError, and callers
// that rewrite the document must not proceed with the empty value.
func (s *Store) Read(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		resetValue(dest)
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		s.logger.Error("Failed to read document", zap.String("key", key), zap.Error(err))
		return false, &StoreError{Op: "read", Key: key, Err: err}
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.Warn("Ignoring malformed document", zap.String("key", key), zap.Error(err))
		resetValue(dest)
		return false, nil
	}
	return true, nil
}

// Write replaces the document under key.
func (s *Store) Write(ctx context.Context, key string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return &StoreError{Op: "encode", Key: key, Err: err}
	}
	if err := s.backend.Set(ctx, key, string(data)); err != nil {
		s.logger.Error("Failed to write document", zap.String("key", key), zap.Error(err))
		return &StoreError{Op: "write", Key: key, Err: err}
	}
	s.announce(ctx, key)
	return nil
}

// Remove deletes the document under key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.backend.Del(ctx, key); err != nil {
		s.logger.Error("Failed to remove document", zap.String("key", key), zap.Error(err))
		return &StoreError{Op: "remove", Key: key, Err: err}
	}
	s.announce(ctx, key)
	return nil
}

func (s *Store) announce(ctx context.Context, key string) {
	if s.signal == nil {
		return
	}
	// The write already succeeded; a lost signal only delays other tabs.
	if err := s.signal.Publish(ctx, repository.Change{Key: key, Origin: s.origin}); err != nil {
		s.logger.Warn("Failed to publish storage change", zap.String("key", key), zap.Error(err))
	}
}

// Watch calls fn whenever another store instance changes key. Changes made
// through this Store are not delivered; callers re-render after their own
// writes.
func (s *Store) Watch(ctx context.Context, key string, fn func()) (Subscription, error) {
	if s.signal == nil {
		return &subscription{cancel: func() {}}, nil
	}
	cancel, err := s.signal.Subscribe(ctx, func(c repository.Change) {
		if c.Key != key || c.Origin == s.origin {
			return
		}
		fn()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", key, err)
	}
	return &subscription{cancel: cancel}, nil
}
