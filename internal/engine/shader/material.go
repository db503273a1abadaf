package shader

import (
	"sort"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/holocard/internal/engine/texture"
)

// TextureBinding is a texture bound to a sampler uniform on a fixed unit.
type TextureBinding struct {
	Unit    int
	Texture *texture.Texture
}

// Material holds named parameter values for a program. Setters only record
// values, so a material can be updated without a GL context; Apply uploads
// them to the current program.
type Material struct {
	textures map[string]TextureBinding
	floats   map[string]float32
	vec3s    map[string]mgl32.Vec3
}

// NewMaterial returns an empty material.
func NewMaterial() *Material {
	return &Material{
		textures: make(map[string]TextureBinding),
		floats:   make(map[string]float32),
		vec3s:    make(map[string]mgl32.Vec3),
	}
}

// SetTexture binds tex to sampler name on texture unit unit.
func (m *Material) SetTexture(name string, unit int, tex *texture.Texture) {
	m.textures[name] = TextureBinding{Unit: unit, Texture: tex}
}

// SetFloat sets a scalar parameter.
func (m *Material) SetFloat(name string, v float32) {
	m.floats[name] = v
}

// SetVec3 sets a vector parameter.
func (m *Material) SetVec3(name string, v mgl32.Vec3) {
	m.vec3s[name] = v
}

// Texture returns the binding recorded for name.
func (m *Material) Texture(name string) (TextureBinding, bool) {
	b, ok := m.textures[name]
	return b, ok
}

// Float returns the scalar recorded for name.
func (m *Material) Float(name string) (float32, bool) {
	v, ok := m.floats[name]
	return v, ok
}

// Vec3 returns the vector recorded for name.
func (m *Material) Vec3(name string) (mgl32.Vec3, bool) {
	v, ok := m.vec3s[name]
	return v, ok
}

// Names returns every parameter name, sorted.
func (m *Material) Names() []string {
	names := make([]string, 0, len(m.textures)+len(m.floats)+len(m.vec3s))
	for n := range m.textures {
		names = append(names, n)
	}
	for n := range m.floats {
		names = append(names, n)
	}
	for n := range m.vec3s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Apply uploads all parameters to p. p must be in use.
func (m *Material) Apply(p *Program) {
	for name, b := range m.textures {
		loc := p.Uniform(name)
		if loc < 0 || b.Texture == nil {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(b.Unit))
		gl.BindTexture(gl.TEXTURE_2D, b.Texture.ID)
		gl.Uniform1i(loc, int32(b.Unit))
	}
	for name, v := range m.floats {
		if loc := p.Uniform(name); loc >= 0 {
			gl.Uniform1f(loc, v)
		}
	}
	for name, v := range m.vec3s {
		if loc := p.Uniform(name); loc >= 0 {
			gl.Uniform3f(loc, v[0], v[1], v[2])
		}
	}
	gl.ActiveTexture(gl.TEXTURE0)
}
