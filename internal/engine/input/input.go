// Package input translates SDL2 events into viewer actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Action is something the viewer should do in response to input.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionScreenshot
)

// Orbiter receives pointer drags and wheel zoom.
type Orbiter interface {
	HandleDrag(dx, dy float64)
	HandleZoom(delta float64) bool
}

// Resizer receives window size changes.
type Resizer interface {
	RequestResize(width, height int, pixelRatio float32)
}

// Input routes events to the orbit controls and the viewport.
type Input struct {
	orbiter    Orbiter
	resizer    Resizer
	pixelRatio func() float32

	dragging bool
	actions  []Action
}

// New creates an input router. pixelRatio is queried on every resize.
func New(orbiter Orbiter, resizer Resizer, pixelRatio func() float32) *Input {
	return &Input{
		orbiter:    orbiter,
		resizer:    resizer,
		pixelRatio: pixelRatio,
		actions:    make([]Action, 0, 4),
	}
}

// Poll drains the SDL event queue and returns the actions it produced.
// The returned slice is reused by the next call.
func (i *Input) Poll() []Action {
	i.actions = i.actions[:0]
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.Handle(event)
	}
	return i.actions
}

// Handle processes a single event.
func (i *Input) Handle(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.actions = append(i.actions, ActionQuit)

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			pr := float32(1)
			if i.pixelRatio != nil {
				pr = i.pixelRatio()
			}
			i.resizer.RequestResize(int(e.Data1), int(e.Data2), pr)
		}

	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
			return
		}
		switch e.Keysym.Scancode {
		case sdl.SCANCODE_ESCAPE:
			i.actions = append(i.actions, ActionQuit)
		case sdl.SCANCODE_F12:
			i.actions = append(i.actions, ActionScreenshot)
		}

	case *sdl.MouseButtonEvent:
		if e.Button != sdl.BUTTON_LEFT {
			return
		}
		i.dragging = e.Type == sdl.MOUSEBUTTONDOWN

	case *sdl.MouseMotionEvent:
		if i.dragging {
			i.orbiter.HandleDrag(float64(e.XRel), float64(e.YRel))
		}

	case *sdl.MouseWheelEvent:
		i.orbiter.HandleZoom(float64(e.Y))
	}
}
