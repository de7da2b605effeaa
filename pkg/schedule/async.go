package schedule

// Async runs work off the caller's loop and hands its result to done back
// on the loop.
type Async interface {
	Go(work func() error, done func(error))
}

// Inline runs work and done immediately on the calling goroutine.
type Inline struct{}

func (Inline) Go(work func() error, done func(error)) {
	done(work())
}
