package notify

import (
	"time"

	"github.com/example/fondantshop/pkg/dom"
	"github.com/example/fondantshop/pkg/schedule"
	"go.uber.org/zap"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

const (
	DefaultDismiss = 3 * time.Second
	DefaultFade    = 300 * time.Millisecond
)

// Emitter shows short-lived alerts at the end of the document body. Every
// alert owns its timers; concurrent alerts stack.
type Emitter struct {
	doc       *dom.Document
	scheduler schedule.Scheduler
	dismiss   time.Duration
	fade      time.Duration
	logger    *zap.Logger
}

func NewEmitter(doc *dom.Document, scheduler schedule.Scheduler, dismiss, fade time.Duration, logger *zap.Logger) *Emitter {
	if dismiss <= 0 {
		dismiss = DefaultDismiss
	}
	if fade <= 0 {
		fade = DefaultFade
	}
	return &Emitter{
		doc:       doc,
		scheduler: scheduler,
		dismiss:   dismiss,
		fade:      fade,
		logger:    logger.Named("notify"),
	}
}

// Show appends an alert and schedules its dismissal. It returns nil when
// the document has no body.
func (e *Emitter) Show(message string, kind Kind) *dom.Element {
	body := e.doc.Body()
	if body == nil {
		e.logger.Warn("No body to attach notification to", zap.String("message", message))
		return nil
	}

	alert, icon := "danger", "fa-exclamation-circle"
	if kind == Success {
		alert, icon = "success", "fa-check-circle"
	}

	el := e.doc.CreateElement("div")
	el.SetAttr("class", "alert alert-"+alert+" alert-dismissible fade show")
	el.SetAttr("role", "alert")

	i := e.doc.CreateElement("i")
	i.SetAttr("class", "fas "+icon)
	text := e.doc.CreateElement("span")
	text.SetText(" " + message)
	el.AppendChild(i)
	el.AppendChild(text)
	body.AppendChild(el)

	e.logger.Debug("Notification shown", zap.String("kind", string(kind)), zap.String("message", message))

	e.scheduler.AfterFunc(e.dismiss, func() {
		el.RemoveClass("show")
		e.scheduler.AfterFunc(e.fade, el.Remove)
	})
	return el
}
