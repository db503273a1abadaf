// Package blend maps the viewer's orbit angle onto a pair of textures and a mix factor.
//
// A full cycle through the texture set spans one orbit range (a quarter turn by
// default), centered on angle zero. Each adjacent pair is cross-faded inside a
// smoothing window [LowerBound, UpperBound] so the transition is centered on the
// integer crossing of the raw mix value rather than switching abruptly.
package blend

import (
	"errors"
	"math"

	"github.com/Faultbox/holocard/internal/fault"
)

// DefaultOrbitRange is the orbit angle (radians) mapped onto one full blend cycle.
const DefaultOrbitRange = math.Pi / 2

// ErrInvalidAngle is returned for NaN or infinite orbit angles.
var ErrInvalidAngle = errors.New("orbit angle is not finite")

// Result describes which two textures to show and how far to blend between them.
type Result struct {
	LowerIndex int
	UpperIndex int
	MixFactor  float64
	LowerBound float64
	UpperBound float64
}

// Compute returns the blend state for the given orbit angle and texture count.
// orbitRange is the angle covered by one full cycle; pass DefaultOrbitRange for
// the quarter-turn mapping.
func Compute(angle float64, count int, orbitRange float64) (Result, error) {
	if count < 1 {
		return Result{}, fault.Configf("texture count %d, need at least 1", count)
	}
	if !(orbitRange > 0) || math.IsInf(orbitRange, 0) {
		return Result{}, fault.Configf("orbit range %v must be positive and finite", orbitRange)
	}
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return Result{}, ErrInvalidAngle
	}

	scaled := angle / orbitRange
	rawMix := (scaled*0.5 + 0.5) * float64(count)
	index := math.Floor(rawMix)

	lower := clampIndex(index, count)
	upper := clampIndex(index+1, count)
	if rawMix <= 0 {
		// At or before the start of the cycle only the first texture is visible.
		upper = lower
	}

	return Result{
		LowerIndex: lower,
		UpperIndex: upper,
		MixFactor:  rawMix,
		LowerBound: index + 0.5,
		UpperBound: index + 1.5,
	}, nil
}

// clampIndex clamps in float space first so huge angles never overflow int.
func clampIndex(v float64, count int) int {
	hi := float64(count - 1)
	if v < 0 {
		return 0
	}
	if v > hi {
		return count - 1
	}
	return int(v)
}

// Blended reports whether the result shows two different textures.
func (r Result) Blended() bool {
	return r.LowerIndex != r.UpperIndex
}

// Weight returns the upper texture's contribution, as the card shader computes it.
func (r Result) Weight() float64 {
	return Smoothstep(r.LowerBound, r.UpperBound, r.MixFactor)
}

// Smoothstep is the GLSL smoothstep: Hermite interpolation of x between edge0 and edge1.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	t = math.Max(0, math.Min(1, t))
	return t * t * (3 - 2*t)
}
