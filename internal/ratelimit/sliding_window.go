package ratelimit

import (
	"context"
	"sync"
	"time"

	"mlb-games-service/internal/metrics"
)

const defaultPollInterval = time.Second

// SlidingWindow admits at most limit calls within any trailing window.
//
// Wait blocks cooperatively until a slot opens rather than failing the call,
// so callers over the limit are delayed, never rejected. Cancellation of the
// context is the only way a waiting caller gets an error.
type SlidingWindow struct {
	mu    sync.Mutex
	calls []time.Time

	limit   int
	window  time.Duration
	poll    time.Duration
	metrics *metrics.Recorder

	// Swapped out by tests to drive a fake clock.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Config carries the limiter's construction options.
type Config struct {
	Limit   int
	Window  time.Duration
	Poll    time.Duration
	Metrics *metrics.Recorder
}

// NewSlidingWindow constructs a limiter. A non-positive limit or window
// disables limiting entirely.
func NewSlidingWindow(cfg Config) *SlidingWindow {
	poll := cfg.Poll
	if poll <= 0 {
		poll = defaultPollInterval
	}
	return &SlidingWindow{
		limit:   cfg.Limit,
		window:  cfg.Window,
		poll:    poll,
		metrics: cfg.Metrics,
		now:     time.Now,
		sleep:   sleepContext,
	}
}

// Wait blocks until the caller may proceed, then records its slot. It returns
// the context error if cancelled while waiting.
func (w *SlidingWindow) Wait(ctx context.Context) error {
	if w == nil || w.limit <= 0 || w.window <= 0 {
		return ctx.Err()
	}

	start := w.now()
	for {
		if w.tryAcquire() {
			if waited := w.now().Sub(start); waited > 0 {
				w.metrics.RecordRateLimitWait(waited)
			}
			return nil
		}
		if err := w.sleep(ctx, w.poll); err != nil {
			return err
		}
	}
}

func (w *SlidingWindow) tryAcquire() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	cutoff := now.Add(-w.window)
	live := w.calls[:0]
	for _, t := range w.calls {
		if t.After(cutoff) {
			live = append(live, t)
		}
	}
	w.calls = live

	if len(w.calls) >= w.limit {
		return false
	}
	w.calls = append(w.calls, now)
	return true
}

// InFlight reports how many slots the trailing window currently holds.
func (w *SlidingWindow) InFlight() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := w.now().Add(-w.window)
	n := 0
	for _, t := range w.calls {
		if t.After(cutoff) {
			n++
		}
	}
	return n
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
