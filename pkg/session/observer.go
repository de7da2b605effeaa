// Package session fans out identity-provider state changes and gives the
// cart and the order ledger a live view of the active identity.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/example/fondantshop/pkg/models"
	"github.com/example/fondantshop/pkg/schedule"
	"go.uber.org/zap"
)

// Subscription is returned by Subscribe and GuardAnonymous.
type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	once sync.Once
	fn   func()
}

func (s *subscription) Unsubscribe() { s.once.Do(s.fn) }

// Observer wraps a Provider. It never caches the session: CurrentIdentity
// asks the provider every time.
type Observer struct {
	provider  Provider
	scheduler schedule.Scheduler
	grace     time.Duration
	logger    *zap.Logger

	mu        sync.Mutex
	nextID    int
	listeners map[int]func(*models.Identity)
	stop      func()
}

func NewObserver(provider Provider, scheduler schedule.Scheduler, grace time.Duration, logger *zap.Logger) *Observer {
	return &Observer{
		provider:  provider,
		scheduler: scheduler,
		grace:     grace,
		logger:    logger.Named("session"),
		listeners: make(map[int]func(*models.Identity)),
	}
}

// Start subscribes to the provider. Listeners registered before or after
// Start receive every state reported from then on.
func (o *Observer) Start() {
	o.mu.Lock()
	if o.stop != nil {
		o.mu.Unlock()
		return
	}
	// Mark as started before subscribing: the provider reports the current
	// state synchronously.
	o.stop = func() {}
	o.mu.Unlock()

	unsubscribe := o.provider.OnAuthStateChanged(o.dispatch)

	o.mu.Lock()
	o.stop = unsubscribe
	o.mu.Unlock()
}

// Stop cancels the provider subscription.
func (o *Observer) Stop() {
	o.mu.Lock()
	stop := o.stop
	o.stop = nil
	o.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (o *Observer) dispatch(user *models.Identity) {
	if user != nil {
		o.logger.Debug("Session changed", zap.String("uid", user.UID))
	} else {
		o.logger.Debug("Session changed", zap.String("uid", ""))
	}

	o.mu.Lock()
	fns := make([]func(*models.Identity), 0, len(o.listeners))
	for i := 0; i < o.nextID; i++ {
		if fn, ok := o.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(user)
	}
}

// Subscribe registers fn for every session change, in registration order.
func (o *Observer) Subscribe(fn func(*models.Identity)) Subscription {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	o.mu.Unlock()

	return &subscription{fn: func() {
		o.mu.Lock()
		delete(o.listeners, id)
		o.mu.Unlock()
	}}
}

// CurrentIdentity is the active identity at the moment of the call, nil when
// anonymous.
func (o *Observer) CurrentIdentity() *models.Identity {
	return o.provider.CurrentUser()
}

func (o *Observer) SignOut(ctx context.Context) error {
	return o.provider.SignOut(ctx)
}

// GuardAnonymous calls onAnonymous when the session is anonymous and stays
// so for the restore grace period. Providers briefly report anonymous on
// first load while they restore a persisted session; an authenticated
// report or a positive re-check within the grace period cancels the call.
func (o *Observer) GuardAnonymous(onAnonymous func()) Subscription {
	var (
		mu      sync.Mutex
		pending schedule.Timer
	)
	disarm := func() {
		if pending != nil {
			pending.Stop()
			pending = nil
		}
	}

	sub := o.Subscribe(func(user *models.Identity) {
		mu.Lock()
		defer mu.Unlock()
		disarm()
		if user != nil {
			return
		}
		pending = o.scheduler.AfterFunc(o.grace, func() {
			if o.provider.CurrentUser() != nil {
				o.logger.Debug("Session restored within grace period")
				return
			}
			onAnonymous()
		})
	})

	return &subscription{fn: func() {
		sub.Unsubscribe()
		mu.Lock()
		disarm()
		mu.Unlock()
	}}
}
