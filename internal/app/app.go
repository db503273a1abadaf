// Package app assembles the window, renderer and scene loop into the viewer.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/holocard/internal/assets"
	"github.com/Faultbox/holocard/internal/card"
	"github.com/Faultbox/holocard/internal/config"
	"github.com/Faultbox/holocard/internal/engine/camera"
	"github.com/Faultbox/holocard/internal/engine/debug"
	"github.com/Faultbox/holocard/internal/engine/input"
	"github.com/Faultbox/holocard/internal/engine/lighting"
	"github.com/Faultbox/holocard/internal/engine/renderer"
	"github.com/Faultbox/holocard/internal/engine/texture"
	"github.com/Faultbox/holocard/internal/engine/window"
	"github.com/Faultbox/holocard/internal/logger"
	"github.com/Faultbox/holocard/internal/viewer"
	"github.com/Faultbox/holocard/internal/viewport"
)

const windowTitle = "Holocard"

// App is the running viewer.
type App struct {
	cfg *config.Config

	window   *window.Window
	renderer *renderer.Renderer
	assets   *assets.Manager
	viewport *viewport.Controller
	input    *input.Input
	loop     *viewer.Loop
	shots    *debug.ScreenshotCapture
}

// New creates the window and GL resources. Must run on the main OS thread.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Strings("textures", cfg.Card.Textures),
	)

	a := &App{cfg: cfg}

	var err error
	a.window, err = window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		HighDPI:    cfg.Graphics.HighDPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	rcfg, err := rendererConfig(cfg)
	if err != nil {
		a.window.Close()
		return nil, err
	}
	a.renderer, err = renderer.New(rcfg)
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.assets, err = newAssetManager(cfg.Assets.Dirs)
	if err != nil {
		a.Close()
		return nil, err
	}

	cam := camera.NewPerspective(cfg.Camera.FOV, 1, cfg.Camera.Near, cfg.Camera.Far,
		mgl32.Vec3{0, 0, cfg.Camera.Distance})
	controls := camera.NewOrbitControls(cam)
	controls.EnableDamping = cfg.Controls.Damping
	controls.DampingFactor = cfg.Controls.DampingFactor
	controls.EnableZoom = !cfg.Controls.ZoomLocked
	controls.RotateSpeed = cfg.Controls.RotateSpeed

	w, h := a.window.Size()
	a.viewport = viewport.New(cam, controls, a.renderer, viewport.Size{
		Width: w, Height: h, PixelRatio: a.window.PixelRatio(),
	})
	a.input = input.New(controls, a.viewport, a.window.PixelRatio)
	a.shots = debug.NewScreenshotCapture(cfg.Screenshots.Dir, cfg.Screenshots.Prefix)

	a.loop = viewer.New(viewer.Config{
		Textures:       cfg.Card.Textures,
		OrbitRange:     cfg.Card.OrbitRange,
		CardWidth:      cfg.Card.Width,
		FrameThickness: cfg.Card.FrameThickness,
	}, a.assets, &stage{renderer: a.renderer, camera: cam}, a.viewport)

	logger.Info("viewer initialized")
	return a, nil
}

// Run loads the scene and renders until ctx is cancelled, the window is
// closed or Escape is pressed.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.loop.Load(ctx); err != nil {
		if cancelled(ctx, err) {
			logger.Info("loading cancelled")
			return nil
		}
		return err
	}
	a.window.SetTitle(fmt.Sprintf("%s (%d images)", windowTitle, a.loop.Scene().Textures.Len()))

	clock := newDisplayClock(a.window, a.input, a.capture, cancel)
	if limit := a.cfg.Graphics.FPSLimit; limit > 0 {
		ticker := viewer.NewTickerClock(limit)
		defer ticker.Stop()
		clock.limiter = ticker
	}
	return a.loop.Run(ctx, clock)
}

// Close releases every resource in reverse creation order.
func (a *App) Close() {
	logger.Info("closing viewer")
	if a.assets != nil {
		a.assets.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// cancelled reports whether err is only the result of ctx being cancelled.
func cancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil && errors.Is(err, ctx.Err())
}

func (a *App) capture() {
	pixels, w, h := a.renderer.ReadPixels()
	if _, err := a.shots.CaptureFromPixels(pixels, w, h); err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
	}
}

func rendererConfig(cfg *config.Config) (renderer.Config, error) {
	bg, err := config.ParseColor(cfg.Graphics.Background)
	if err != nil {
		return renderer.Config{}, fmt.Errorf("graphics.background: %w", err)
	}
	frame, err := config.ParseColor(cfg.Card.FrameColor)
	if err != nil {
		return renderer.Config{}, fmt.Errorf("card.frame_color: %w", err)
	}
	return renderer.Config{
		Background:     bg,
		FrameColor:     frame,
		FrameMetalness: cfg.Card.FrameMetalness,
		FrameRoughness: cfg.Card.FrameRoughness,
		Lights:         lighting.DefaultRig(),
	}, nil
}

func newAssetManager(dirs []string) (*assets.Manager, error) {
	m := assets.NewManager()
	for _, dir := range dirs {
		if err := m.AddDir(dir); err != nil {
			return nil, fmt.Errorf("asset directory: %w", err)
		}
	}
	return m, nil
}

// stage adapts the renderer to the scene loop.
type stage struct {
	renderer *renderer.Renderer
	camera   *camera.Perspective
}

func (s *stage) Build(set *texture.Set, layout card.Layout) (card.Bindings, error) {
	m, err := s.renderer.Build(set, layout)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *stage) Render(_ *viewer.SceneContext) error {
	return s.renderer.Draw(s.camera)
}
