// Package page runs a storefront page as a protoactor actor. The actor is
// the page's only thread: every document mutation, timer callback and async
// completion is executed inside Receive.
package page

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/fondantshop/pkg/cart"
	"github.com/example/fondantshop/pkg/checkout"
	"github.com/example/fondantshop/pkg/dom"
	"github.com/example/fondantshop/pkg/models"
	"github.com/example/fondantshop/pkg/nav"
	"github.com/example/fondantshop/pkg/notify"
	"github.com/example/fondantshop/pkg/orders"
	"github.com/example/fondantshop/pkg/schedule"
	"github.com/example/fondantshop/pkg/session"
	"github.com/example/fondantshop/pkg/store"
	"github.com/example/fondantshop/pkg/view"
	"go.uber.org/zap"
)

// ErrLoginRequired is reported when an anonymous visitor adds to the cart.
var ErrLoginRequired = errors.New("login required")

const (
	loginPrompt       = "Please log in to add items to your cart.\n\nClick OK to go to login page."
	accountPathPrefix = "/account"
)

// Prompter asks the visitor a yes/no question. It may block.
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

type CheckoutClient interface {
	CreateSession(ctx context.Context, req checkout.Request) (string, error)
}

type Config struct {
	// Path is the page's location, e.g. "/products" or "/account".
	Path     string
	Document *dom.Document
	Store    *store.Store
	Provider session.Provider
	Checkout CheckoutClient
	Prompter Prompter
	Audit    orders.AuditSink
	// Navigate is told about every location change.
	Navigate func(path string)
	// Clock drives timers. Callbacks are always run on the page.
	Clock schedule.Scheduler
	// Async overrides how blocking work is run. By default it runs on its
	// own goroutine and completes on the page.
	Async schedule.Async

	RestoreGrace   time.Duration
	LogoutRedirect time.Duration
	NotifyDismiss  time.Duration
	NotifyFade     time.Duration

	Logger *zap.Logger
}

func (c *Config) validate() error {
	switch {
	case c.Document == nil:
		return errors.New("page: document is required")
	case c.Store == nil:
		return errors.New("page: store is required")
	case c.Provider == nil:
		return errors.New("page: session provider is required")
	case c.Logger == nil:
		return errors.New("page: logger is required")
	}
	if c.Clock == nil {
		c.Clock = schedule.Real{}
	}
	if c.Path == "" {
		c.Path = "/"
	}
	return nil
}

// Page is the actor behind a Handle.
type Page struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	location string
	user     *models.Identity

	sched    schedule.Scheduler
	async    schedule.Async
	observer *session.Observer
	cart     *cart.Manager
	ledger   *orders.Ledger
	notifier *notify.Emitter
	nav      *nav.Synchronizer

	subs []interface{ Unsubscribe() }
}

func newPage(cfg Config) *Page {
	ctx, cancel := context.WithCancel(context.Background())
	return &Page{
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		logger:   cfg.Logger.Named("page").With(zap.String("path", cfg.Path)),
		location: cfg.Path,
	}
}

func (p *Page) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.start(ctx)
		p.logger.Info("Page started")

	case *runTask:
		msg.fn()

	case *sessionChanged:
		p.onSession(msg.user)

	case *storageChanged:
		p.onStorage(msg.key)

	case *AddToCart:
		ctx.Respond(p.addToCart(msg))

	case *RemoveFromCart:
		lines, err := p.cart.RemoveItem(p.ctx, msg.ProductID)
		ctx.Respond(p.cartResult(lines, err))

	case *UpdateQuantity:
		lines, err := p.cart.UpdateQuantity(p.ctx, msg.ProductID, msg.Quantity)
		ctx.Respond(p.cartResult(lines, err))

	case *ClearCart:
		err := p.cart.ClearCart(p.ctx)
		ctx.Respond(p.cartResult(0, err))

	case *Checkout:
		p.checkout(msg.Request)
		ctx.Respond(&Ack{})

	case *CompleteOrder:
		ctx.Respond(p.completeOrder(msg.Draft))

	case *ShowOrders:
		ok, err := p.renderOrders()
		ctx.Respond(&RenderResult{Rendered: ok, Err: err})

	case *Click:
		handled := false
		if el := p.cfg.Document.Query(msg.Selector); el != nil {
			handled = p.cfg.Document.Click(p.ctx, el)
		}
		ctx.Respond(&ClickResult{Handled: handled})

	case *Snapshot:
		ctx.Respond(&State{
			HTML:      p.cfg.Document.String(),
			Location:  p.location,
			CartCount: p.cart.Count(p.ctx),
			User:      p.user,
		})

	case *actor.Stopping:
		p.logger.Info("Page stopping")
		p.stop()

	case *actor.Stopped:
		p.logger.Info("Page stopped")
	}
}

func (p *Page) start(ctx actor.Context) {
	self := ctx.Self()
	root := ctx.ActorSystem().Root
	send := func(msg interface{}) { root.Send(self, msg) }

	l := &loop{clock: p.cfg.Clock, post: func(fn func()) { send(&runTask{fn: fn}) }}
	p.sched = l
	p.async = l
	if p.cfg.Async != nil {
		p.async = p.cfg.Async
	}

	p.observer = session.NewObserver(p.cfg.Provider, p.sched, p.cfg.RestoreGrace, p.cfg.Logger)
	p.cart = cart.NewManager(p.cfg.Store, p.cfg.Logger)
	p.ledger = orders.NewLedger(p.cfg.Store, p.observer, p.cfg.Logger)
	if p.cfg.Audit != nil {
		p.ledger.WithAudit(p.cfg.Audit)
	}
	p.notifier = notify.NewEmitter(p.cfg.Document, p.sched, p.cfg.NotifyDismiss, p.cfg.NotifyFade, p.cfg.Logger)
	p.nav = nav.NewSynchronizer(nav.Options{
		Document:      p.cfg.Document,
		Session:       p.observer,
		Notifier:      p.notifier,
		Scheduler:     p.sched,
		Async:         p.async,
		Navigate:      p.navigate,
		CartCount:     func() int { return p.cart.Count(p.ctx) },
		RedirectDelay: p.cfg.LogoutRedirect,
		Logger:        p.cfg.Logger,
	})

	p.subs = append(p.subs, p.observer.Subscribe(func(user *models.Identity) {
		send(&sessionChanged{user: user})
	}))
	if p.isAccountPage() {
		p.subs = append(p.subs, p.observer.GuardAnonymous(func() {
			p.logger.Info("No active session, leaving account page")
			p.navigate("/")
		}))
	}

	for _, key := range []string{store.CartKey, store.OrdersKey} {
		sub, err := p.cfg.Store.Watch(p.ctx, key, func() {
			send(&storageChanged{key: key})
		})
		if err != nil {
			p.logger.Warn("Cross-tab updates unavailable", zap.String("key", key), zap.Error(err))
			continue
		}
		p.subs = append(p.subs, sub)
	}

	p.observer.Start()
	p.renderBadge()
}

func (p *Page) stop() {
	for _, sub := range p.subs {
		sub.Unsubscribe()
	}
	p.subs = nil
	if p.observer != nil {
		p.observer.Stop()
	}
	p.cancel()
}

func (p *Page) isAccountPage() bool {
	return strings.HasPrefix(p.cfg.Path, accountPathPrefix)
}

func (p *Page) navigate(path string) {
	p.logger.Info("Navigating", zap.String("to", path))
	p.location = path
	if p.cfg.Navigate != nil {
		p.cfg.Navigate(path)
	}
}

func (p *Page) onSession(user *models.Identity) {
	p.user = user
	p.nav.Render(user)
	if user == nil || !p.isAccountPage() {
		return
	}
	view.AccountInfo(p.cfg.Document, user)
	if _, err := p.renderOrders(); err != nil {
		p.logger.Error("Failed to render order history", zap.Error(err))
	}
}

func (p *Page) onStorage(key string) {
	switch key {
	case store.CartKey:
		p.renderBadge()
	case store.OrdersKey:
		if p.isAccountPage() && p.user != nil {
			if _, err := p.renderOrders(); err != nil {
				p.logger.Error("Failed to render order history", zap.Error(err))
			}
		}
	}
}

func (p *Page) renderBadge() {
	view.CartBadge(p.cfg.Document, p.cart.Count(p.ctx))
}

func (p *Page) renderOrders() (bool, error) {
	history := orders.History(p.ledger.Orders(p.ctx))
	return view.OrderHistory(p.cfg.Document, view.OrderHistoryID, history)
}

func (p *Page) cartResult(lines int, err error) *CartResult {
	if err != nil {
		p.logger.Error("Cart update failed", zap.Error(err))
		return &CartResult{Err: err}
	}
	p.renderBadge()
	return &CartResult{Lines: lines, Count: p.cart.Count(p.ctx)}
}

func (p *Page) addToCart(msg *AddToCart) *CartResult {
	if p.observer.CurrentIdentity() == nil {
		p.promptLogin()
		return &CartResult{Err: ErrLoginRequired}
	}

	lines, err := p.cart.AddItem(p.ctx, msg.ProductID, msg.Name, msg.Price, msg.Image, msg.Quantity)
	if err != nil {
		p.notifier.Show("Failed to add item to cart", notify.Error)
		return p.cartResult(0, err)
	}
	p.notifier.Show(fmt.Sprintf("%s added to cart!", msg.Name), notify.Success)
	return p.cartResult(lines, nil)
}

func (p *Page) promptLogin() {
	if p.cfg.Prompter == nil {
		return
	}
	var accepted bool
	p.async.Go(func() error {
		ok, err := p.cfg.Prompter.Confirm(p.ctx, loginPrompt)
		accepted = ok
		return err
	}, func(err error) {
		if err != nil {
			p.logger.Warn("Login prompt failed", zap.Error(err))
			return
		}
		if accepted {
			p.navigate("/login?redirect=" + url.QueryEscape(p.cfg.Path))
		}
	})
}

func (p *Page) checkout(req checkout.Request) {
	if p.cfg.Checkout == nil {
		p.notifier.Show("An error occurred. Please try again.", notify.Error)
		return
	}
	var sessionID string
	p.async.Go(func() error {
		id, err := p.cfg.Checkout.CreateSession(p.ctx, req)
		sessionID = id
		return err
	}, func(err error) {
		var endpointErr *checkout.Error
		switch {
		case err == nil:
			p.logger.Info("Checkout session created", zap.String("session_id", sessionID))
			p.notifier.Show("Redirecting to checkout...", notify.Success)
		case errors.As(err, &endpointErr):
			p.logger.Warn("Checkout session refused", zap.Error(err))
			p.notifier.Show("Error creating checkout session", notify.Error)
		default:
			p.logger.Error("Checkout error", zap.Error(err))
			p.notifier.Show("An error occurred. Please try again.", notify.Error)
		}
	})
}

func (p *Page) completeOrder(draft models.OrderDraft) *OrderResult {
	order, err := p.ledger.SaveOrder(p.ctx, draft)
	if err != nil {
		p.logger.Error("Failed to save order", zap.Error(err))
		return &OrderResult{Err: err}
	}
	if err := p.cart.ClearCart(p.ctx); err != nil {
		p.logger.Error("Failed to clear cart after order", zap.String("order_id", order.ID), zap.Error(err))
	}
	p.renderBadge()
	if p.isAccountPage() {
		if _, err := p.renderOrders(); err != nil {
			p.logger.Error("Failed to render order history", zap.Error(err))
		}
	}
	return &OrderResult{Order: order}
}
