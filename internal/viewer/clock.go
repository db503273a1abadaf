package viewer

import (
	"context"
	"time"
)

// TickerClock paces frames at a fixed rate. Missed ticks are dropped, never queued.
type TickerClock struct {
	ticker *time.Ticker
}

// NewTickerClock returns a clock ticking fps times per second.
func NewTickerClock(fps int) *TickerClock {
	if fps <= 0 {
		fps = 60
	}
	return &TickerClock{ticker: time.NewTicker(time.Second / time.Duration(fps))}
}

// Wait blocks until the next tick or until ctx is done.
func (c *TickerClock) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ticker.C:
		return nil
	}
}

// Stop releases the ticker.
func (c *TickerClock) Stop() {
	c.ticker.Stop()
}

// ClockFunc adapts a function to Clock.
type ClockFunc func(ctx context.Context) error

// Wait calls f.
func (f ClockFunc) Wait(ctx context.Context) error {
	return f(ctx)
}
