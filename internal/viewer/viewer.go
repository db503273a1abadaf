// Package viewer runs the holographic card scene: one-time texture loading
// followed by a cancellable per-frame loop.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/holocard/internal/blend"
	"github.com/Faultbox/holocard/internal/card"
	"github.com/Faultbox/holocard/internal/engine/texture"
	"github.com/Faultbox/holocard/internal/fault"
	"github.com/Faultbox/holocard/internal/logger"
)

// Phase is the lifecycle state of a Loop.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseReady
	PhaseRendering
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseRendering:
		return "rendering"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrWrongPhase is returned when an operation is called out of order.
var ErrWrongPhase = errors.New("operation not valid in this phase")

// Loader fetches and decodes the configured textures, all or nothing.
type Loader interface {
	LoadTextures(ctx context.Context, paths []string) (*texture.Set, error)
}

// Stage owns the GPU side of the scene.
type Stage interface {
	// Build creates the card and frame meshes and returns the card's material.
	Build(set *texture.Set, layout card.Layout) (card.Bindings, error)
	// Render draws one frame.
	Render(sc *SceneContext) error
}

// Viewport supplies the orbit angle for each frame.
type Viewport interface {
	Update()
	CurrentOrbitAngle() float64
}

// Clock paces the loop. Wait blocks until the next frame may start.
type Clock interface {
	Wait(ctx context.Context) error
}

// SceneContext is the per-loop scene state handed to the stage every frame.
type SceneContext struct {
	Textures *texture.Set
	Layout   card.Layout
	Card     *card.Surface
	Blend    blend.Result
	Angle    float64
	Frame    uint64
}

// Config holds the scene settings the loop needs.
type Config struct {
	Textures       []string
	OrbitRange     float64
	CardWidth      float32
	FrameThickness float32
}

// Loop drives the scene. It is not safe for concurrent use; all methods run
// on the render thread.
type Loop struct {
	cfg      Config
	loader   Loader
	stage    Stage
	viewport Viewport

	phase Phase
	scene *SceneContext
	err   error

	now func() time.Time
}

// New creates a loop in PhaseUninitialized.
func New(cfg Config, loader Loader, stage Stage, viewport Viewport) *Loop {
	if cfg.OrbitRange == 0 {
		cfg.OrbitRange = blend.DefaultOrbitRange
	}
	return &Loop{
		cfg:      cfg,
		loader:   loader,
		stage:    stage,
		viewport: viewport,
		now:      time.Now,
	}
}

// Phase returns the current lifecycle phase.
func (l *Loop) Phase() Phase {
	return l.phase
}

// Err returns the error that moved the loop to PhaseFailed.
func (l *Loop) Err() error {
	return l.err
}

// Scene returns the scene context, or nil before Load succeeds.
func (l *Loop) Scene() *SceneContext {
	return l.scene
}

// Load fetches every texture concurrently, then builds the card and frame.
// Any failure moves the loop to PhaseFailed, except cancellation of ctx,
// which returns the loop to PhaseUninitialized and an error wrapping ctx.Err().
func (l *Loop) Load(ctx context.Context) error {
	if l.phase != PhaseUninitialized {
		return fmt.Errorf("load in %s: %w", l.phase, ErrWrongPhase)
	}
	if r := l.cfg.OrbitRange; !(r > 0) || math.IsInf(r, 0) {
		return l.fail(fault.Configf("orbit range %v must be positive and finite", r))
	}
	l.setPhase(PhaseLoading)

	set, err := l.loader.LoadTextures(ctx, l.cfg.Textures)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			// Shutdown during loading is not a scene failure.
			l.setPhase(PhaseUninitialized)
			logger.Info("texture loading cancelled")
			return fmt.Errorf("load textures: %w", ctx.Err())
		}
		return l.fail(fmt.Errorf("load textures: %w", err))
	}

	layout, err := card.NewLayout(l.cfg.CardWidth, set.Aspect(), l.cfg.FrameThickness)
	if err != nil {
		return l.fail(err)
	}

	bindings, err := l.stage.Build(set, layout)
	if err != nil {
		return l.fail(fmt.Errorf("build scene: %w", err))
	}

	l.scene = &SceneContext{
		Textures: set,
		Layout:   layout,
		Card:     card.NewSurface(bindings),
	}
	logger.Info("scene ready",
		zap.Int("textures", set.Len()),
		zap.Float32("card_width", layout.Width),
		zap.Float32("card_height", layout.Height),
	)
	l.setPhase(PhaseReady)
	return nil
}

// Step renders one frame: viewport update, orbit angle, blend, card update,
// render. Errors are fatal and move the loop to PhaseFailed.
func (l *Loop) Step() error {
	if l.phase != PhaseReady && l.phase != PhaseRendering {
		return fmt.Errorf("step in %s: %w", l.phase, ErrWrongPhase)
	}
	if l.phase == PhaseReady {
		l.setPhase(PhaseRendering)
	}

	l.viewport.Update()
	angle := l.viewport.CurrentOrbitAngle()

	r, err := blend.Compute(angle, l.scene.Textures.Len(), l.cfg.OrbitRange)
	if err != nil {
		return l.fail(fmt.Errorf("blend: %w", err))
	}
	if err := l.scene.Card.Update(r, l.scene.Textures); err != nil {
		return l.fail(fmt.Errorf("card update: %w", err))
	}

	l.scene.Angle = angle
	l.scene.Blend = r
	if err := l.stage.Render(l.scene); err != nil {
		return l.fail(fmt.Errorf("render: %w", err))
	}
	l.scene.Frame++
	return nil
}

// Run steps once per clock tick until ctx is cancelled, which is a clean
// exit. Any other error stops the loop and is returned.
func (l *Loop) Run(ctx context.Context, clock Clock) error {
	if l.phase != PhaseReady && l.phase != PhaseRendering {
		return fmt.Errorf("run in %s: %w", l.phase, ErrWrongPhase)
	}
	logger.Info("starting render loop")

	stats := newFrameStats(l.now())
	for {
		if ctx.Err() != nil {
			break
		}
		if err := clock.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			return l.fail(fmt.Errorf("frame clock: %w", err))
		}
		if err := l.Step(); err != nil {
			return err
		}
		if fps, ok := stats.tick(l.now()); ok {
			logger.Debug("fps", zap.Int("count", fps), zap.Uint64("frame", l.scene.Frame))
		}
	}

	logger.Info("render loop stopped", zap.Uint64("frames", l.scene.Frame))
	return nil
}

func (l *Loop) setPhase(p Phase) {
	logger.Debug("scene phase", zap.Stringer("from", l.phase), zap.Stringer("to", p))
	l.phase = p
}

func (l *Loop) fail(err error) error {
	l.err = err
	l.setPhase(PhaseFailed)
	logger.Error("scene failed", zap.Error(err))
	return err
}

// frameStats counts frames per wall-clock second.
type frameStats struct {
	start  time.Time
	frames int
}

func newFrameStats(now time.Time) *frameStats {
	return &frameStats{start: now}
}

// tick records a frame and returns the count once a second has elapsed.
func (s *frameStats) tick(now time.Time) (int, bool) {
	s.frames++
	if now.Sub(s.start) < time.Second {
		return 0, false
	}
	n := s.frames
	s.frames = 0
	s.start = now
	return n, true
}
