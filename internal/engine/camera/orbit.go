package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// polarEpsilon keeps the camera off the poles where the view matrix degenerates.
const polarEpsilon = 1e-6

// OrbitControls rotates a camera around its target from mouse drags.
//
// Input handlers only accumulate deltas; Update applies them once per frame.
// With damping enabled each Update applies DampingFactor of the outstanding
// delta and keeps the rest, so motion eases out after the drag ends.
type OrbitControls struct {
	camera *Perspective

	EnableDamping bool
	DampingFactor float64
	EnableZoom    bool
	RotateSpeed   float64
	ZoomSpeed     float64

	MinDistance float64
	MaxDistance float64
	MinPolar    float64
	MaxPolar    float64

	viewportHeight float64

	deltaTheta float64
	deltaPhi   float64
	scale      float64

	azimuth float64
	polar   float64
}

// NewOrbitControls attaches controls to cam with three.js-like defaults.
func NewOrbitControls(cam *Perspective) *OrbitControls {
	c := &OrbitControls{
		camera:         cam,
		DampingFactor:  0.05,
		EnableZoom:     true,
		RotateSpeed:    1,
		ZoomSpeed:      1,
		MinDistance:    0,
		MaxDistance:    math.Inf(1),
		MinPolar:       0,
		MaxPolar:       math.Pi,
		viewportHeight: 1,
		scale:          1,
	}
	c.azimuth, c.polar, _ = c.spherical()
	return c
}

// SetViewportHeight sets the height in pixels a full-height drag is measured against.
func (c *OrbitControls) SetViewportHeight(h int) {
	if h > 0 {
		c.viewportHeight = float64(h)
	}
}

// HandleDrag queues a rotation for a pointer move of (dx, dy) pixels.
// Dragging right orbits the camera to the left, as if grabbing the scene.
func (c *OrbitControls) HandleDrag(dx, dy float64) {
	c.deltaTheta -= 2 * math.Pi * dx / c.viewportHeight * c.RotateSpeed
	c.deltaPhi -= 2 * math.Pi * dy / c.viewportHeight * c.RotateSpeed
}

// HandleZoom queues a dolly for wheel delta. Returns false when zoom is locked.
func (c *OrbitControls) HandleZoom(delta float64) bool {
	if !c.EnableZoom || delta == 0 {
		return false
	}
	c.scale *= math.Pow(0.95, delta*c.ZoomSpeed)
	return true
}

// Update applies queued input to the camera. Call once per frame before
// reading AzimuthalAngle.
func (c *OrbitControls) Update() {
	theta, phi, radius := c.spherical()

	if c.EnableDamping {
		theta += c.deltaTheta * c.DampingFactor
		phi += c.deltaPhi * c.DampingFactor
	} else {
		theta += c.deltaTheta
		phi += c.deltaPhi
	}

	phi = clamp(phi, c.MinPolar, c.MaxPolar)
	phi = clamp(phi, polarEpsilon, math.Pi-polarEpsilon)

	radius = clamp(radius*c.scale, c.MinDistance, c.MaxDistance)

	sinPhi := math.Sin(phi)
	offset := mgl32.Vec3{
		float32(radius * sinPhi * math.Sin(theta)),
		float32(radius * math.Cos(phi)),
		float32(radius * sinPhi * math.Cos(theta)),
	}
	c.camera.Position = c.camera.Target.Add(offset)
	c.azimuth, c.polar, _ = c.spherical()

	if c.EnableDamping {
		c.deltaTheta *= 1 - c.DampingFactor
		c.deltaPhi *= 1 - c.DampingFactor
	} else {
		c.deltaTheta = 0
		c.deltaPhi = 0
	}
	c.scale = 1
}

// AzimuthalAngle returns the horizontal orbit angle in radians, in (-pi, pi].
// Zero is the camera on the +Z side of the target.
func (c *OrbitControls) AzimuthalAngle() float64 {
	return c.azimuth
}

// PolarAngle returns the angle from the +Y axis in radians.
func (c *OrbitControls) PolarAngle() float64 {
	return c.polar
}

// Distance returns the camera's distance to its target.
func (c *OrbitControls) Distance() float64 {
	_, _, r := c.spherical()
	return r
}

// spherical converts the camera offset into (azimuth, polar, radius).
func (c *OrbitControls) spherical() (theta, phi, radius float64) {
	off := c.camera.Position.Sub(c.camera.Target)
	x, y, z := float64(off[0]), float64(off[1]), float64(off[2])
	radius = math.Sqrt(x*x + y*y + z*z)
	if radius == 0 {
		return 0, math.Pi / 2, 0
	}
	theta = math.Atan2(x, z)
	phi = math.Acos(clamp(y/radius, -1, 1))
	return theta, phi, radius
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
