package viewer

import (
	"context"
	"errors"
	"image"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/holocard/internal/card"
	"github.com/Faultbox/holocard/internal/engine/camera"
	"github.com/Faultbox/holocard/internal/engine/texture"
	"github.com/Faultbox/holocard/internal/fault"
	"github.com/Faultbox/holocard/internal/viewport"
)

type fakeLoader struct {
	count int
	err   error
	paths []string
}

func (f *fakeLoader) LoadTextures(_ context.Context, paths []string) (*texture.Set, error) {
	f.paths = paths
	if f.err != nil {
		return nil, f.err
	}
	textures := make([]*texture.Texture, f.count)
	for i := range textures {
		textures[i] = &texture.Texture{
			Name:   paths[i],
			Width:  600,
			Height: 800,
			Pixels: image.NewRGBA(image.Rect(0, 0, 1, 1)),
		}
	}
	return texture.NewSet(textures)
}

type fakeBindings struct {
	textures map[string]*texture.Texture
	floats   map[string]float32
}

func (f *fakeBindings) SetTexture(name string, _ int, tex *texture.Texture) {
	f.textures[name] = tex
}

func (f *fakeBindings) SetFloat(name string, v float32) {
	f.floats[name] = v
}

type fakeStage struct {
	bindings  *fakeBindings
	layout    card.Layout
	buildErr  error
	renderErr error
	renders   []SceneContext
	onRender  func()
}

func (s *fakeStage) Build(_ *texture.Set, layout card.Layout) (card.Bindings, error) {
	if s.buildErr != nil {
		return nil, s.buildErr
	}
	s.layout = layout
	s.bindings = &fakeBindings{
		textures: make(map[string]*texture.Texture),
		floats:   make(map[string]float32),
	}
	return s.bindings, nil
}

func (s *fakeStage) Render(sc *SceneContext) error {
	if s.renderErr != nil {
		return s.renderErr
	}
	s.renders = append(s.renders, *sc)
	if s.onRender != nil {
		s.onRender()
	}
	return nil
}

type fixedViewport struct {
	angle   float64
	updates int
}

func (v *fixedViewport) Update() { v.updates++ }

func (v *fixedViewport) CurrentOrbitAngle() float64 { return v.angle }

var testConfig = Config{
	Textures:       []string{"1.png", "2.png", "3.png"},
	CardWidth:      3,
	FrameThickness: 0.1,
}

func readyLoop(t *testing.T, vp Viewport) (*Loop, *fakeStage) {
	t.Helper()
	stage := &fakeStage{}
	l := New(testConfig, &fakeLoader{count: 3}, stage, vp)
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return l, stage
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		PhaseUninitialized: "uninitialized",
		PhaseLoading:       "loading",
		PhaseReady:         "ready",
		PhaseRendering:     "rendering",
		PhaseFailed:        "failed",
		Phase(42):          "phase(42)",
	}
	for p, want := range tests {
		if p.String() != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), p.String(), want)
		}
	}
}

func TestLoadBuildsScene(t *testing.T) {
	loader := &fakeLoader{count: 3}
	stage := &fakeStage{}
	l := New(testConfig, loader, stage, &fixedViewport{})

	if l.Phase() != PhaseUninitialized {
		t.Fatalf("new loop in %s", l.Phase())
	}
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.Phase() != PhaseReady {
		t.Errorf("phase after load = %s", l.Phase())
	}
	if len(loader.paths) != 3 || loader.paths[2] != "3.png" {
		t.Errorf("loader got paths %v", loader.paths)
	}
	if stage.layout.Width != 3 || stage.layout.Height != 4 {
		t.Errorf("card layout %vx%v, want 3x4", stage.layout.Width, stage.layout.Height)
	}
	if l.Scene() == nil || l.Scene().Textures.Len() != 3 {
		t.Fatal("scene not populated")
	}

	if err := l.Load(context.Background()); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("second Load = %v, want ErrWrongPhase", err)
	}
}

func TestLoadFailures(t *testing.T) {
	loadErr := &fault.AssetLoadError{Index: 1, Path: "2.png", Err: errors.New("corrupt")}

	tests := []struct {
		name   string
		loader *fakeLoader
		stage  *fakeStage
		check  func(error) bool
	}{
		{
			name:   "asset",
			loader: &fakeLoader{err: loadErr},
			stage:  &fakeStage{},
			check: func(err error) bool {
				var ale *fault.AssetLoadError
				return errors.As(err, &ale) && ale.Index == 1
			},
		},
		{
			name:   "build",
			loader: &fakeLoader{count: 3},
			stage:  &fakeStage{buildErr: errors.New("no gl")},
			check:  func(err error) bool { return err != nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(testConfig, tt.loader, tt.stage, &fixedViewport{})
			err := l.Load(context.Background())
			if !tt.check(err) {
				t.Errorf("unexpected error %v", err)
			}
			if l.Phase() != PhaseFailed {
				t.Errorf("phase = %s, want failed", l.Phase())
			}
			if l.Err() == nil {
				t.Error("Err() should keep the failure")
			}
			if err := l.Step(); !errors.Is(err, ErrWrongPhase) {
				t.Errorf("Step after failure = %v", err)
			}
		})
	}
}

func TestLoadDegenerateCard(t *testing.T) {
	cfg := testConfig
	cfg.CardWidth = 0
	l := New(cfg, &fakeLoader{count: 3}, &fakeStage{}, &fixedViewport{})
	if err := l.Load(context.Background()); !errors.Is(err, fault.ErrConfiguration) {
		t.Errorf("Load = %v, want ErrConfiguration", err)
	}
}

func TestStepBeforeLoad(t *testing.T) {
	l := New(testConfig, &fakeLoader{count: 3}, &fakeStage{}, &fixedViewport{})
	if err := l.Step(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Step = %v, want ErrWrongPhase", err)
	}
	if err := l.Run(context.Background(), ClockFunc(func(context.Context) error { return nil })); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Run = %v, want ErrWrongPhase", err)
	}
}

func TestStepAppliesBlend(t *testing.T) {
	vp := &fixedViewport{angle: 0}
	l, stage := readyLoop(t, vp)

	if err := l.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if l.Phase() != PhaseRendering {
		t.Errorf("phase = %s", l.Phase())
	}
	if vp.updates != 1 {
		t.Errorf("viewport updated %d times", vp.updates)
	}
	if len(stage.renders) != 1 {
		t.Fatalf("rendered %d frames", len(stage.renders))
	}
	r := stage.renders[0].Blend
	if r.LowerIndex != 1 || r.UpperIndex != 2 || r.MixFactor != 1.5 {
		t.Errorf("blend at angle 0 = %+v", r)
	}
	if stage.bindings.textures[card.UniformLower].Name != "2.png" {
		t.Errorf("lower texture %s", stage.bindings.textures[card.UniformLower].Name)
	}
	if l.Scene().Frame != 1 {
		t.Errorf("frame counter %d", l.Scene().Frame)
	}

	vp.angle = math.Pi / 2
	if err := l.Step(); err != nil {
		t.Fatal(err)
	}
	if got := stage.bindings.textures[card.UniformUpper].Name; got != "3.png" {
		t.Errorf("upper at far positive = %s", got)
	}
}

func TestStepInvalidAngleFails(t *testing.T) {
	l, _ := readyLoop(t, &fixedViewport{angle: math.NaN()})
	if err := l.Step(); err == nil {
		t.Fatal("expected error for NaN angle")
	}
	if l.Phase() != PhaseFailed {
		t.Errorf("phase = %s", l.Phase())
	}
}

func TestStepRenderErrorFails(t *testing.T) {
	l, stage := readyLoop(t, &fixedViewport{})
	renderErr := errors.New("context lost")
	stage.renderErr = renderErr

	if err := l.Step(); !errors.Is(err, renderErr) {
		t.Errorf("Step = %v", err)
	}
	if l.Phase() != PhaseFailed {
		t.Errorf("phase = %s", l.Phase())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	l, stage := readyLoop(t, &fixedViewport{})
	ctx, cancel := context.WithCancel(context.Background())

	stage.onRender = func() {
		if len(stage.renders) == 5 {
			cancel()
		}
	}
	clock := ClockFunc(func(context.Context) error { return nil })

	if err := l.Run(ctx, clock); err != nil {
		t.Fatalf("Run after cancel = %v, want nil", err)
	}
	if len(stage.renders) != 5 {
		t.Errorf("rendered %d frames, want 5", len(stage.renders))
	}
}

func TestRunClockError(t *testing.T) {
	l, _ := readyLoop(t, &fixedViewport{})
	clockErr := errors.New("swap failed")

	err := l.Run(context.Background(), ClockFunc(func(context.Context) error { return clockErr }))
	if !errors.Is(err, clockErr) {
		t.Errorf("Run = %v", err)
	}
	if l.Phase() != PhaseFailed {
		t.Errorf("phase = %s", l.Phase())
	}
}

func TestRunWithTickerClock(t *testing.T) {
	l, stage := readyLoop(t, &fixedViewport{})
	clock := NewTickerClock(1000)
	defer clock.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := l.Run(ctx, clock); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if len(stage.renders) == 0 {
		t.Error("ticker clock produced no frames")
	}
}

// The viewer is resized from 800x600 to 400x300 between frames; the next
// frame renders with the new aspect and resolution.
func TestResizeBetweenFrames(t *testing.T) {
	cam := camera.NewPerspective(75, 1, 0.1, 100, mgl32.Vec3{0, 0, 5})
	controls := camera.NewOrbitControls(cam)
	controls.EnableDamping = true
	controls.EnableZoom = false
	surface := &recordingSurface{}
	vc := viewport.New(cam, controls, surface, viewport.Size{Width: 800, Height: 600, PixelRatio: 1})

	l, stage := readyLoop(t, vc)
	var aspects []float32
	stage.onRender = func() { aspects = append(aspects, cam.Aspect) }

	if err := l.Step(); err != nil {
		t.Fatal(err)
	}
	vc.RequestResize(400, 300, 1)
	if err := l.Step(); err != nil {
		t.Fatal(err)
	}

	if aspects[0] != float32(800)/600 || aspects[1] != float32(400)/300 {
		t.Errorf("aspects per frame = %v", aspects)
	}
	if last := surface.sizes[len(surface.sizes)-1]; last != [2]int{400, 300} {
		t.Errorf("surface resolution %v, want 400x300", last)
	}
	if got := stage.renders[1].Blend; got.LowerIndex != 1 || got.UpperIndex != 2 {
		t.Errorf("blend after resize = %+v", got)
	}
}

type recordingSurface struct {
	sizes [][2]int
}

func (s *recordingSurface) SetSize(w, h int, _ float32) {
	s.sizes = append(s.sizes, [2]int{w, h})
}

func TestFrameStats(t *testing.T) {
	start := time.Unix(0, 0)
	s := newFrameStats(start)

	for i := 1; i < 30; i++ {
		if _, ok := s.tick(start.Add(time.Duration(i) * 10 * time.Millisecond)); ok {
			t.Fatalf("reported before a second elapsed at frame %d", i)
		}
	}
	n, ok := s.tick(start.Add(time.Second))
	if !ok || n != 30 {
		t.Errorf("tick = %d, %v; want 30, true", n, ok)
	}
}

type cancellingLoader struct{}

func (cancellingLoader) LoadTextures(ctx context.Context, paths []string) (*texture.Set, error) {
	<-ctx.Done()
	return nil, &fault.AssetLoadError{Index: len(paths) - 1, Path: paths[len(paths)-1], Err: ctx.Err()}
}

func TestLoadCancelledIsNotFailure(t *testing.T) {
	stage := &fakeStage{}
	l := New(testConfig, cancellingLoader{}, stage, &fixedViewport{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Load(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Load = %v, want context.Canceled", err)
	}
	var ale *fault.AssetLoadError
	if errors.As(err, &ale) {
		t.Errorf("cancellation reported as asset failure: %v", err)
	}
	if l.Phase() != PhaseUninitialized {
		t.Errorf("phase = %s, want uninitialized", l.Phase())
	}
	if l.Err() != nil {
		t.Errorf("Err() = %v, want nil", l.Err())
	}
	if stage.bindings != nil {
		t.Error("scene built after cancellation")
	}
}

func TestLoadRejectsOrbitRange(t *testing.T) {
	for _, r := range []float64{-1, math.NaN(), math.Inf(1)} {
		cfg := testConfig
		cfg.OrbitRange = r
		loader := &fakeLoader{count: 3}
		l := New(cfg, loader, &fakeStage{}, &fixedViewport{})

		if err := l.Load(context.Background()); !errors.Is(err, fault.ErrConfiguration) {
			t.Errorf("range %v: Load = %v, want ErrConfiguration", r, err)
		}
		if l.Phase() != PhaseFailed {
			t.Errorf("range %v: phase = %s", r, l.Phase())
		}
		if loader.paths != nil {
			t.Errorf("range %v: textures loaded before the range was checked", r)
		}
	}
}
