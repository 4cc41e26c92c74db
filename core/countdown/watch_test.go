package countdown

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// manualTicker returns a TickerFunc fed by ticks and records whether it was stopped.
func manualTicker(ticks chan time.Time, stopped chan struct{}) TickerFunc {
	return func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() { close(stopped) }
	}
}

func recv(t *testing.T, ch <-chan Countdown) (Countdown, bool) {
	t.Helper()
	select {
	case cd, ok := <-ch:
		return cd, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for countdown")
		return Countdown{}, false
	}
}

func TestWatch(t *testing.T) {
	start := time.Date(2030, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("emits on change and stops after start", func(t *testing.T) {
		clock := &fakeClock{now: start}
		ticks := make(chan time.Time)
		stopped := make(chan struct{})
		ch := Watch(context.Background(), Fixed(start.Add(2*time.Second)),
			WithClock(clock.Now), WithTicker(manualTicker(ticks, stopped)))

		cd, ok := recv(t, ch)
		require.True(t, ok)
		assert.Equal(t, "0m 2s", cd.Display)

		clock.Advance(time.Second)
		ticks <- clock.Now()
		cd, ok = recv(t, ch)
		require.True(t, ok)
		assert.Equal(t, "0m 1s", cd.Display)

		clock.Advance(time.Second)
		ticks <- clock.Now()
		cd, ok = recv(t, ch)
		require.True(t, ok)
		assert.True(t, cd.IsNow)
		assert.Equal(t, StartedDisplay, cd.Display)

		_, ok = recv(t, ch)
		assert.False(t, ok, "channel should be closed after the exam started")
		<-stopped
	})

	t.Run("unchanged values are not re-sent", func(t *testing.T) {
		clock := &fakeClock{now: start}
		ticks := make(chan time.Time)
		stopped := make(chan struct{})
		ctx, cancel := context.WithCancel(context.Background())
		// half a second left over, so a 300ms step stays in the same whole second
		ch := Watch(ctx, Fixed(start.Add(time.Hour+500*time.Millisecond)),
			WithClock(clock.Now), WithTicker(manualTicker(ticks, stopped)))

		first, _ := recv(t, ch)
		assert.Equal(t, "1h 0m 0s", first.Display)

		clock.Advance(300 * time.Millisecond)
		ticks <- clock.Now()
		select {
		case cd := <-ch:
			t.Fatalf("unexpected countdown %q", cd.Display)
		case <-time.After(50 * time.Millisecond):
		}

		clock.Advance(700 * time.Millisecond)
		ticks <- clock.Now()

		next, _ := recv(t, ch)
		assert.Equal(t, "59m 59s", next.Display)

		cancel()
		_, ok := recv(t, ch)
		assert.False(t, ok)
		<-stopped
	})

	t.Run("cancel stops the ticker", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		ch := Watch(ctx, Fixed(time.Now().Add(24*time.Hour)), WithInterval(5*time.Millisecond))

		_, ok := recv(t, ch)
		require.True(t, ok)
		cancel()
		for range ch {
			// drain until closed
		}
	})

	t.Run("no target closes immediately", func(t *testing.T) {
		none := func() (time.Time, bool) { return time.Time{}, false }
		ch := Watch(context.Background(), none)
		_, ok := recv(t, ch)
		assert.False(t, ok)
	})

	t.Run("follows a changing target", func(t *testing.T) {
		clock := &fakeClock{now: start}
		ticks := make(chan time.Time)
		stopped := make(chan struct{})

		var mu sync.Mutex
		target := start.Add(10 * time.Minute)
		src := func() (time.Time, bool) {
			mu.Lock()
			defer mu.Unlock()
			return target, true
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ch := Watch(ctx, src, WithClock(clock.Now), WithTicker(manualTicker(ticks, stopped)))

		cd, _ := recv(t, ch)
		assert.Equal(t, "10m 0s", cd.Display)

		mu.Lock()
		target = start.Add(5 * time.Minute)
		mu.Unlock()
		ticks <- clock.Now()

		cd, _ = recv(t, ch)
		assert.Equal(t, "5m 0s", cd.Display)

		cancel()
		for range ch {
		}
		<-stopped
	})
}
