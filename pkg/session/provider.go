package session

import (
	"context"
	"sync"

	"github.com/example/fondantshop/pkg/models"
)

// Provider is the external identity service. OnAuthStateChanged reports
// the current state once on subscription and again on every change.
type Provider interface {
	OnAuthStateChanged(fn func(*models.Identity)) (unsubscribe func())
	CurrentUser() *models.Identity
	SignOut(ctx context.Context) error
}

// broadcaster holds the provider-side session state and its listeners.
type broadcaster struct {
	mu        sync.RWMutex
	current   *models.Identity
	nextID    int
	listeners map[int]func(*models.Identity)
}

func (b *broadcaster) OnAuthStateChanged(fn func(*models.Identity)) func() {
	b.mu.Lock()
	if b.listeners == nil {
		b.listeners = make(map[int]func(*models.Identity))
	}
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	current := b.current
	b.mu.Unlock()

	fn(current)

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

func (b *broadcaster) CurrentUser() *models.Identity {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

func (b *broadcaster) set(user *models.Identity) {
	b.mu.Lock()
	b.current = user
	fns := make([]func(*models.Identity), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(user)
	}
}

// MemoryProvider is a Provider whose state is pushed by hand. It backs
// tests and local runs without an identity service.
type MemoryProvider struct {
	broadcaster
	signOutErr error
}

func NewMemoryProvider(initial *models.Identity) *MemoryProvider {
	p := &MemoryProvider{}
	p.current = initial
	return p
}

// Set changes the session and notifies listeners. nil means anonymous.
func (p *MemoryProvider) Set(user *models.Identity) {
	p.set(user)
}

// Restore changes the current user without notifying, as a provider does
// while it is still restoring a persisted session.
func (p *MemoryProvider) Restore(user *models.Identity) {
	p.mu.Lock()
	p.current = user
	p.mu.Unlock()
}

// FailSignOut makes SignOut return err.
func (p *MemoryProvider) FailSignOut(err error) {
	p.mu.Lock()
	p.signOutErr = err
	p.mu.Unlock()
}

func (p *MemoryProvider) SignOut(ctx context.Context) error {
	p.mu.RLock()
	err := p.signOutErr
	p.mu.RUnlock()
	if err != nil {
		return err
	}
	p.set(nil)
	return nil
}
