package app

import (
	"context"

	"github.com/Faultbox/holocard/internal/engine/input"
	"github.com/Faultbox/holocard/internal/viewer"
)

type presenter interface {
	SwapBuffers()
}

type poller interface {
	Poll() []input.Action
}

// displayClock paces the loop on the display: each Wait presents the frame
// rendered since the previous Wait, then drains window events. With vsync on,
// presenting blocks until the next refresh.
type displayClock struct {
	presenter presenter
	events    poller
	capture   func()
	quit      context.CancelFunc
	limiter   viewer.Clock

	rendered   bool
	screenshot bool
}

func newDisplayClock(p presenter, events poller, capture func(), quit context.CancelFunc) *displayClock {
	return &displayClock{
		presenter: p,
		events:    events,
		capture:   capture,
		quit:      quit,
	}
}

func (c *displayClock) Wait(ctx context.Context) error {
	if c.rendered {
		// The back buffer still holds the frame just drawn.
		if c.screenshot {
			c.capture()
			c.screenshot = false
		}
		c.presenter.SwapBuffers()
	}
	c.rendered = true

	for _, action := range c.events.Poll() {
		switch action {
		case input.ActionQuit:
			c.quit()
		case input.ActionScreenshot:
			c.screenshot = true
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if c.limiter != nil {
		return c.limiter.Wait(ctx)
	}
	return nil
}
