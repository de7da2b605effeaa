// Package nav keeps the navigation bar in line with the session.
package nav

import (
	"context"
	"time"

	"github.com/example/fondantshop/pkg/dom"
	"github.com/example/fondantshop/pkg/models"
	"github.com/example/fondantshop/pkg/notify"
	"github.com/example/fondantshop/pkg/schedule"
	"github.com/example/fondantshop/pkg/view"
	"go.uber.org/zap"
)

const (
	navLinksSel = ".nav-links"
	accountSel  = `a[href*="account"]`
	logoutSel   = `.logout-btn, a[href*="logout"]`
	loginSel    = `a[href*="login"]`
	registerSel = `a[href*="register"]`

	// logoutBoundAttr marks a logout control whose handler is installed.
	logoutBoundAttr = "data-logout-handler"
	linkDisplay     = "inline-block"
)

type SignOuter interface {
	SignOut(ctx context.Context) error
}

type Notifier interface {
	Show(message string, kind notify.Kind) *dom.Element
}

type Options struct {
	Document  *dom.Document
	Session   SignOuter
	Notifier  Notifier
	Scheduler schedule.Scheduler
	Async     schedule.Async
	// Navigate moves the page to path.
	Navigate func(path string)
	// CartCount feeds the cart badge on authenticated renders.
	CartCount func() int
	// RedirectDelay is the pause between a successful logout and the
	// redirect home.
	RedirectDelay time.Duration
	Logger        *zap.Logger
}

type Synchronizer struct {
	opts   Options
	logger *zap.Logger
}

func NewSynchronizer(opts Options) *Synchronizer {
	if opts.Async == nil {
		opts.Async = schedule.Inline{}
	}
	return &Synchronizer{opts: opts, logger: opts.Logger.Named("nav")}
}

// Render re-derives the navigation state from user. Safe to call any
// number of times.
func (s *Synchronizer) Render(user *models.Identity) {
	doc := s.opts.Document
	links := doc.Query(navLinksSel)
	if links == nil {
		return
	}

	account := links.Query(accountSel)
	login := links.Query(loginSel)
	register := links.Query(registerSel)
	logout := links.Query(logoutSel)

	if user == nil {
		hide(account, logout)
		show(login, register)
		return
	}

	if account != nil {
		name := user.DisplayName
		if name == "" {
			name = "Account"
		}
		account.SetInnerHTML(`<i class="fas fa-user"></i> `)
		label := doc.CreateElement("span")
		label.SetText(name)
		account.AppendChild(label)
	}
	if logout == nil {
		logout = doc.CreateElement("a")
		logout.SetAttr("href", "/logout")
		logout.SetAttr("class", "logout-btn")
		logout.SetText("Logout")
		links.AppendChild(logout)
	}
	show(account, logout)
	hide(login, register)

	if !logout.HasAttr(logoutBoundAttr) {
		logout.SetAttr(logoutBoundAttr, "true")
		logout.OnClick(s.logout)
	}

	if s.opts.CartCount != nil {
		view.CartBadge(doc, s.opts.CartCount())
	}
}

func (s *Synchronizer) logout(ctx context.Context) {
	s.opts.Async.Go(func() error {
		return s.opts.Session.SignOut(ctx)
	}, func(err error) {
		if err != nil {
			s.logger.Error("Logout error", zap.Error(err))
			s.opts.Notifier.Show("Logout failed. Please try again.", notify.Error)
			return
		}
		s.opts.Notifier.Show("Logged out successfully!", notify.Success)
		s.opts.Scheduler.AfterFunc(s.opts.RedirectDelay, func() {
			s.opts.Navigate("/")
		})
	})
}

func show(els ...*dom.Element) {
	for _, el := range els {
		if el != nil {
			el.Show(linkDisplay)
		}
	}
}

func hide(els ...*dom.Element) {
	for _, el := range els {
		if el != nil {
			el.Hide()
		}
	}
}
