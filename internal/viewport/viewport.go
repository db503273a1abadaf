// Package viewport owns the camera, the orbit controls and the render surface size.
package viewport

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/holocard/internal/engine/camera"
	"github.com/Faultbox/holocard/internal/logger"
)

// Surface is the render target that follows the window size.
type Surface interface {
	SetSize(width, height int, pixelRatio float32)
}

// Size is the logical size of the render surface plus its device pixel ratio.
type Size struct {
	Width      int
	Height     int
	PixelRatio float32
}

// Aspect returns width / height.
func (s Size) Aspect() float32 {
	return float32(s.Width) / float32(s.Height)
}

func (s Size) valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Controller keeps camera aspect, orbit input scale and surface resolution in sync.
//
// RequestResize may be called from any goroutine; requests are coalesced and
// the latest one is applied by the next Update, before that frame renders.
type Controller struct {
	camera   *camera.Perspective
	controls *camera.OrbitControls
	surface  Surface
	size     Size

	mu      sync.Mutex
	pending *Size
}

// New creates a controller and applies the initial size.
func New(cam *camera.Perspective, controls *camera.OrbitControls, surface Surface, initial Size) *Controller {
	c := &Controller{
		camera:   cam,
		controls: controls,
		surface:  surface,
	}
	if initial.PixelRatio <= 0 {
		initial.PixelRatio = 1
	}
	c.apply(initial)
	return c
}

// Camera returns the camera driven by this controller.
func (c *Controller) Camera() *camera.Perspective {
	return c.camera
}

// Controls returns the orbit controls.
func (c *Controller) Controls() *camera.OrbitControls {
	return c.controls
}

// Size returns the size currently in effect.
func (c *Controller) Size() Size {
	return c.size
}

// Resize applies a new logical size immediately, keeping the pixel ratio.
func (c *Controller) Resize(width, height int) {
	c.apply(Size{Width: width, Height: height, PixelRatio: c.size.PixelRatio})
}

// RequestResize queues a resize for the next Update. Only the latest
// request survives. A non-positive pixelRatio keeps the current one.
func (c *Controller) RequestResize(width, height int, pixelRatio float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = &Size{Width: width, Height: height, PixelRatio: pixelRatio}
}

// Update applies any pending resize, then advances the orbit controls.
// Call once per frame before CurrentOrbitAngle.
func (c *Controller) Update() {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	if pending != nil {
		if pending.PixelRatio <= 0 {
			pending.PixelRatio = c.size.PixelRatio
		}
		c.apply(*pending)
	}
	c.controls.Update()
}

// CurrentOrbitAngle returns the azimuth reported by the orbit controls.
func (c *Controller) CurrentOrbitAngle() float64 {
	return c.controls.AzimuthalAngle()
}

func (c *Controller) apply(s Size) {
	if !s.valid() {
		// Minimized windows report zero sizes; keep the last usable one.
		logger.Debug("ignoring empty viewport size", zap.Int("width", s.Width), zap.Int("height", s.Height))
		return
	}
	if s == c.size {
		return
	}

	c.size = s
	c.camera.SetAspect(s.Aspect())
	c.controls.SetViewportHeight(s.Height)
	if c.surface != nil {
		c.surface.SetSize(s.Width, s.Height, s.PixelRatio)
	}

	logger.Debug("viewport resized",
		zap.Int("width", s.Width),
		zap.Int("height", s.Height),
		zap.Float32("pixel_ratio", s.PixelRatio),
	)
}
