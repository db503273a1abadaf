package card

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/holocard/internal/fault"
)

// Layout sizes the card face and its frame in world units.
type Layout struct {
	Width          float32
	Height         float32
	FrameThickness float32
	FrameOffsetZ   float32
}

// NewLayout derives the card height from the first image's aspect ratio.
// The frame sits just behind the face so the two never z-fight.
func NewLayout(width float32, aspect float64, thickness float32) (Layout, error) {
	if !(width > 0) || math.IsInf(float64(width), 0) {
		return Layout{}, fault.Configf("card width %v must be positive", width)
	}
	if thickness < 0 || math.IsNaN(float64(thickness)) || math.IsInf(float64(thickness), 0) {
		return Layout{}, fault.Configf("frame thickness %v must not be negative", thickness)
	}
	height := float64(width) / aspect
	if !(height > 0) || math.IsInf(height, 0) {
		return Layout{}, fault.Configf("card height %v from aspect %v is degenerate", height, aspect)
	}

	return Layout{
		Width:          width,
		Height:         float32(height),
		FrameThickness: thickness,
		FrameOffsetZ:   -thickness/2 - thickness/20,
	}, nil
}

// FaceModel returns the card face's model matrix.
func (l Layout) FaceModel() mgl32.Mat4 {
	return mgl32.Ident4()
}

// FrameModel returns the frame box's model matrix: pushed back on Z and
// turned half a revolution about Y.
func (l Layout) FrameModel() mgl32.Mat4 {
	return mgl32.Translate3D(0, 0, l.FrameOffsetZ).Mul4(mgl32.HomogRotate3DY(math.Pi))
}
