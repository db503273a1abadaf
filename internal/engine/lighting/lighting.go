// Package lighting describes the fixed light rig around the card.
package lighting

import "math"

// MaxDirectional is the number of directional lights the frame shader accepts.
const MaxDirectional = 4

// Directional is a light infinitely far away along Direction (pointing towards the light).
type Directional struct {
	Direction [3]float32
	Color     [3]float32
	Intensity float32
}

// Rig is the complete scene lighting.
type Rig struct {
	AmbientColor     [3]float32
	AmbientIntensity float32
	Lights           []Directional
}

// DefaultRig returns soft white ambient light plus a key light above-right and
// a fill light to the left, both aimed at the origin.
func DefaultRig() Rig {
	white := [3]float32{1, 1, 1}
	return Rig{
		AmbientColor:     white,
		AmbientIntensity: 0.5,
		Lights: []Directional{
			{Direction: FromPosition(5, 10, 7.5), Color: white, Intensity: 1},
			{Direction: FromPosition(-5, 0, 7.5), Color: white, Intensity: 1},
		},
	}
}

// FromPosition returns the normalized direction from the origin towards (x, y, z).
func FromPosition(x, y, z float32) [3]float32 {
	l := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if l == 0 {
		return [3]float32{0, 0, 1}
	}
	return [3]float32{x / l, y / l, z / l}
}

// Ambient returns the premultiplied ambient term.
func (r Rig) Ambient() [3]float32 {
	return [3]float32{
		r.AmbientColor[0] * r.AmbientIntensity,
		r.AmbientColor[1] * r.AmbientIntensity,
		r.AmbientColor[2] * r.AmbientIntensity,
	}
}

// Packed flattens up to MaxDirectional lights into uniform arrays:
// directions, premultiplied colors, and the count actually used.
func (r Rig) Packed() (dirs, colors []float32, count int32) {
	n := len(r.Lights)
	if n > MaxDirectional {
		n = MaxDirectional
	}
	dirs = make([]float32, 0, n*3)
	colors = make([]float32, 0, n*3)
	for _, l := range r.Lights[:n] {
		dirs = append(dirs, l.Direction[:]...)
		colors = append(colors, l.Color[0]*l.Intensity, l.Color[1]*l.Intensity, l.Color[2]*l.Intensity)
	}
	return dirs, colors, int32(n)
}
