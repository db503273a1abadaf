package texture

import (
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/holocard/internal/fault"
	"github.com/Faultbox/holocard/internal/logger"
)

// aspectTolerance is the relative aspect difference tolerated before a warning.
const aspectTolerance = 0.01

// Set is the ordered collection of card images. Index i is always the i-th
// configured image; the order never changes after construction.
type Set struct {
	textures []*Texture
}

// NewSet validates the textures and wraps them in a Set. Images whose aspect
// differs from the first one are accepted but logged, since the card is sized
// from the first image only.
func NewSet(textures []*Texture) (*Set, error) {
	if len(textures) == 0 {
		return nil, fault.Configf("texture set is empty")
	}
	for i, t := range textures {
		if t == nil {
			return nil, fault.Configf("texture %d is missing", i)
		}
		if t.Width <= 0 || t.Height <= 0 {
			return nil, fault.Configf("texture %d (%s) has degenerate size %dx%d", i, t.Name, t.Width, t.Height)
		}
	}

	base := textures[0].Aspect()
	for i, t := range textures[1:] {
		if math.Abs(t.Aspect()-base)/base > aspectTolerance {
			logger.Warn("texture aspect differs from first image",
				zap.Int("index", i+1),
				zap.String("name", t.Name),
				zap.Float64("aspect", t.Aspect()),
				zap.Float64("expected", base),
			)
		}
	}

	if len(textures) == 1 {
		logger.Info("single texture configured, card will not blend")
	}

	owned := make([]*Texture, len(textures))
	copy(owned, textures)
	return &Set{textures: owned}, nil
}

// Len returns the number of textures.
func (s *Set) Len() int {
	return len(s.textures)
}

// At returns texture i, or an ErrIndexOutOfRange fault.
func (s *Set) At(i int) (*Texture, error) {
	if i < 0 || i >= len(s.textures) {
		return nil, fault.IndexErrorf("texture %d requested, set holds %d", i, len(s.textures))
	}
	return s.textures[i], nil
}

// Aspect returns the aspect ratio the card is built with.
func (s *Set) Aspect() float64 {
	return s.textures[0].Aspect()
}

// Each calls fn for every texture in order.
func (s *Set) Each(fn func(i int, t *Texture)) {
	for i, t := range s.textures {
		fn(i, t)
	}
}
