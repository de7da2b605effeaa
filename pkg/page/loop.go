package page

import (
	"sync/atomic"
	"time"

	"github.com/example/fondantshop/pkg/schedule"
)

// loop routes timer callbacks and async completions onto the page actor so
// that they never touch the document concurrently with a message.
type loop struct {
	clock schedule.Scheduler
	post  func(fn func())
}

type loopTimer struct {
	clock     schedule.Timer
	cancelled atomic.Bool
}

func (t *loopTimer) Stop() bool {
	pending := t.clock.Stop()
	t.cancelled.Store(true)
	return pending
}

func (l *loop) AfterFunc(d time.Duration, fn func()) schedule.Timer {
	t := &loopTimer{}
	t.clock = l.clock.AfterFunc(d, func() {
		l.post(func() {
			if !t.cancelled.Load() {
				fn()
			}
		})
	})
	return t
}

func (l *loop) Go(work func() error, done func(error)) {
	go func() {
		err := work()
		l.post(func() { done(err) })
	}()
}
