// Package card drives the holographic card's material from blend results.
package card

import (
	"fmt"

	"github.com/Faultbox/holocard/internal/blend"
	"github.com/Faultbox/holocard/internal/engine/texture"
)

// Uniform names understood by the card shader.
const (
	UniformLower     = "uTexture1"
	UniformUpper     = "uTexture2"
	UniformMixFactor = "uMixFactor"
	UniformStep1     = "uStep1"
	UniformStep2     = "uStep2"
)

// Texture units for the two card samplers.
const (
	unitLower = 0
	unitUpper = 1
)

// Bindings receives named material parameters.
type Bindings interface {
	SetTexture(name string, unit int, tex *texture.Texture)
	SetFloat(name string, v float32)
}

// Surface is the card face: two textures cross-faded by a smoothstep between
// two bounds.
type Surface struct {
	bindings Bindings

	lower, upper           *texture.Texture
	mixFactor              float64
	lowerBound, upperBound float64
}

// NewSurface creates a surface writing to b.
func NewSurface(b Bindings) *Surface {
	return &Surface{bindings: b}
}

// Update rebinds both textures and rewrites mix factor and bounds from r.
// Indices outside set fail with fault.ErrIndexOutOfRange and leave the
// surface unchanged.
func (s *Surface) Update(r blend.Result, set *texture.Set) error {
	lower, err := set.At(r.LowerIndex)
	if err != nil {
		return fmt.Errorf("lower texture: %w", err)
	}
	upper, err := set.At(r.UpperIndex)
	if err != nil {
		return fmt.Errorf("upper texture: %w", err)
	}

	s.lower, s.upper = lower, upper
	s.mixFactor = r.MixFactor
	s.lowerBound, s.upperBound = r.LowerBound, r.UpperBound

	s.bindings.SetTexture(UniformLower, unitLower, lower)
	s.bindings.SetTexture(UniformUpper, unitUpper, upper)
	s.bindings.SetFloat(UniformMixFactor, float32(r.MixFactor))
	s.bindings.SetFloat(UniformStep1, float32(r.LowerBound))
	s.bindings.SetFloat(UniformStep2, float32(r.UpperBound))
	return nil
}

// Lower returns the texture bound to the first slot.
func (s *Surface) Lower() *texture.Texture { return s.lower }

// Upper returns the texture bound to the second slot.
func (s *Surface) Upper() *texture.Texture { return s.upper }

// MixFactor returns the raw mix factor last applied.
func (s *Surface) MixFactor() float64 { return s.mixFactor }

// Bounds returns the smoothstep edges last applied.
func (s *Surface) Bounds() (lower, upper float64) {
	return s.lowerBound, s.upperBound
}
