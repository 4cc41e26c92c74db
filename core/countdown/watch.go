package countdown

import (
	"context"
	"time"
)

// Source reports the current countdown target. ok is false when there is nothing to count down to.
type Source func() (target time.Time, ok bool)

// Fixed is a Source that always reports t.
func Fixed(t time.Time) Source {
	return func() (time.Time, bool) { return t, true }
}

// TickerFunc starts a ticker and returns its channel and a stop function.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

type watcher struct {
	interval  time.Duration
	now       func() time.Time
	newTicker TickerFunc
}

type Option func(*watcher)

// WithInterval sets the recompute cadence. Defaults to one second.
func WithInterval(d time.Duration) Option {
	return func(w *watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *watcher) { w.now = now }
}

// WithTicker replaces the time.Ticker driving recomputes.
func WithTicker(fn TickerFunc) Option {
	return func(w *watcher) { w.newTicker = fn }
}

// Watch recomputes the countdown to the source's target on every tick and sends it when it changed.
// The returned channel is closed when ctx is done, when the source has no target,
// or right after the terminal "Exam Started!" countdown was delivered.
func Watch(ctx context.Context, src Source, opts ...Option) <-chan Countdown {
	w := &watcher{
		interval:  time.Second,
		now:       time.Now,
		newTicker: realTicker,
	}
	for _, opt := range opts {
		opt(w)
	}

	out := make(chan Countdown)
	go w.run(ctx, src, out)
	return out
}

func (w *watcher) run(ctx context.Context, src Source, out chan<- Countdown) {
	defer close(out)

	ticks, stop := w.newTicker(w.interval)
	defer stop()

	var (
		last Countdown
		sent bool
	)
	for {
		target, ok := src()
		if !ok {
			return
		}

		cd := Remaining(target, w.now())
		if !sent || cd != last {
			select {
			case out <- cd:
			case <-ctx.Done():
				return
			}
			last, sent = cd, true
		}
		if cd.IsNow {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticks:
		}
	}
}
