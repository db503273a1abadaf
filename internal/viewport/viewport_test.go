package viewport

import (
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/holocard/internal/engine/camera"
)

type recordingSurface struct {
	calls []Size
}

func (s *recordingSurface) SetSize(width, height int, pixelRatio float32) {
	s.calls = append(s.calls, Size{Width: width, Height: height, PixelRatio: pixelRatio})
}

func newController(t *testing.T, initial Size) (*Controller, *recordingSurface) {
	t.Helper()
	cam := camera.NewPerspective(75, 1, 0.1, 100, mgl32.Vec3{0, 0, 5})
	surface := &recordingSurface{}
	return New(cam, camera.NewOrbitControls(cam), surface, initial), surface
}

func TestNewAppliesInitialSize(t *testing.T) {
	c, surface := newController(t, Size{Width: 800, Height: 600})

	if len(surface.calls) != 1 {
		t.Fatalf("expected one surface resize, got %d", len(surface.calls))
	}
	if surface.calls[0].PixelRatio != 1 {
		t.Errorf("missing pixel ratio should default to 1, got %f", surface.calls[0].PixelRatio)
	}
	if c.Camera().Aspect != float32(800)/600 {
		t.Errorf("expected aspect 4:3, got %f", c.Camera().Aspect)
	}
}

func TestResizeImmediate(t *testing.T) {
	c, surface := newController(t, Size{Width: 800, Height: 600, PixelRatio: 2})

	c.Resize(1000, 500)
	if c.Camera().Aspect != 2 {
		t.Errorf("expected aspect 2, got %f", c.Camera().Aspect)
	}
	last := surface.calls[len(surface.calls)-1]
	if last != (Size{Width: 1000, Height: 500, PixelRatio: 2}) {
		t.Errorf("surface got %+v", last)
	}

	// Same size again is a no-op.
	c.Resize(1000, 500)
	if len(surface.calls) != 2 {
		t.Errorf("expected 2 surface calls, got %d", len(surface.calls))
	}
}

func TestRequestResizeAppliedOnUpdate(t *testing.T) {
	c, surface := newController(t, Size{Width: 800, Height: 600})

	c.RequestResize(400, 300, 0)
	if c.Camera().Aspect != float32(800)/600 {
		t.Fatal("request must not apply before Update")
	}

	c.Update()
	if got, want := c.Camera().Aspect, float32(400)/300; got != want {
		t.Errorf("expected aspect %f, got %f", want, got)
	}
	if c.Size() != (Size{Width: 400, Height: 300, PixelRatio: 1}) {
		t.Errorf("unexpected size %+v", c.Size())
	}
	if len(surface.calls) != 2 {
		t.Errorf("expected 2 surface calls, got %d", len(surface.calls))
	}
}

func TestRequestResizeCoalesces(t *testing.T) {
	c, surface := newController(t, Size{Width: 800, Height: 600})

	c.RequestResize(700, 500, 1)
	c.RequestResize(650, 480, 1)
	c.RequestResize(640, 480, 2)
	c.Update()

	if len(surface.calls) != 2 {
		t.Fatalf("burst should produce one resize, got %d surface calls", len(surface.calls)-1)
	}
	if surface.calls[1] != (Size{Width: 640, Height: 480, PixelRatio: 2}) {
		t.Errorf("expected the latest request, got %+v", surface.calls[1])
	}

	c.Update()
	if len(surface.calls) != 2 {
		t.Error("no resize expected without new requests")
	}
}

func TestRequestResizeConcurrent(t *testing.T) {
	c, _ := newController(t, Size{Width: 800, Height: 600})

	var wg sync.WaitGroup
	for i := 1; i <= 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RequestResize(100*i, 100, 1)
		}()
	}
	wg.Wait()
	c.Update()

	if c.Size().Height != 100 || c.Size().Width%100 != 0 {
		t.Errorf("unexpected size after concurrent requests %+v", c.Size())
	}
}

func TestZeroSizeIgnored(t *testing.T) {
	c, surface := newController(t, Size{Width: 800, Height: 600})

	c.RequestResize(0, 0, 1)
	c.Update()
	if c.Size().Width != 800 || len(surface.calls) != 1 {
		t.Errorf("minimized window must keep last size, got %+v", c.Size())
	}
}

func TestResizeScalesDragInput(t *testing.T) {
	c, _ := newController(t, Size{Width: 800, Height: 600})
	c.Resize(800, 300)

	// A drag of a quarter of the new height is a quarter turn.
	c.Controls().HandleDrag(-75, 0)
	c.Update()
	if math.Abs(c.CurrentOrbitAngle()-math.Pi/2) > 1e-4 {
		t.Errorf("expected pi/2, got %f", c.CurrentOrbitAngle())
	}
}
