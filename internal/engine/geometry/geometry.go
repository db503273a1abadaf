// Package geometry builds the static meshes of the card scene.
package geometry

// FloatsPerVertex is the interleaved vertex layout: position(3) normal(3) uv(2).
const FloatsPerVertex = 8

// Stride is the vertex size in bytes.
const Stride = FloatsPerVertex * 4

// Attribute offsets in bytes.
const (
	OffsetPosition = 0
	OffsetNormal   = 3 * 4
	OffsetUV       = 6 * 4
)

// Mesh is CPU-side indexed triangle geometry.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / FloatsPerVertex
}

// Bounds returns the axis-aligned min and max corners.
func (m *Mesh) Bounds() (min, max [3]float32) {
	for i := 0; i < len(m.Vertices); i += FloatsPerVertex {
		for a := 0; a < 3; a++ {
			v := m.Vertices[i+a]
			if i == 0 || v < min[a] {
				min[a] = v
			}
			if i == 0 || v > max[a] {
				max[a] = v
			}
		}
	}
	return min, max
}

type builder struct {
	mesh Mesh
}

func (b *builder) vertex(pos, normal [3]float32, u, v float32) {
	b.mesh.Vertices = append(b.mesh.Vertices,
		pos[0], pos[1], pos[2],
		normal[0], normal[1], normal[2],
		u, v,
	)
}

// quad appends four corners (counter-clockwise seen from the normal side).
func (b *builder) quad(corners [4][3]float32, normal [3]float32) {
	base := uint32(b.mesh.VertexCount())
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i, c := range corners {
		b.vertex(c, normal, uvs[i][0], uvs[i][1])
	}
	b.mesh.Indices = append(b.mesh.Indices, base, base+1, base+2, base, base+2, base+3)
}

// Plane returns a width x height quad in the XY plane facing +Z.
// UV (0,0) is the bottom-left corner.
func Plane(width, height float32) *Mesh {
	hw, hh := width/2, height/2
	var b builder
	b.quad([4][3]float32{
		{-hw, -hh, 0},
		{hw, -hh, 0},
		{hw, hh, 0},
		{-hw, hh, 0},
	}, [3]float32{0, 0, 1})
	return &b.mesh
}

// Box returns a centered box with per-face normals.
func Box(width, height, depth float32) *Mesh {
	x, y, z := width/2, height/2, depth/2
	var b builder

	// +Z, -Z
	b.quad([4][3]float32{{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z}}, [3]float32{0, 0, 1})
	b.quad([4][3]float32{{x, -y, -z}, {-x, -y, -z}, {-x, y, -z}, {x, y, -z}}, [3]float32{0, 0, -1})
	// +X, -X
	b.quad([4][3]float32{{x, -y, z}, {x, -y, -z}, {x, y, -z}, {x, y, z}}, [3]float32{1, 0, 0})
	b.quad([4][3]float32{{-x, -y, -z}, {-x, -y, z}, {-x, y, z}, {-x, y, -z}}, [3]float32{-1, 0, 0})
	// +Y, -Y
	b.quad([4][3]float32{{-x, y, z}, {x, y, z}, {x, y, -z}, {-x, y, -z}}, [3]float32{0, 1, 0})
	b.quad([4][3]float32{{-x, -y, -z}, {x, -y, -z}, {x, -y, z}, {-x, -y, z}}, [3]float32{0, -1, 0})

	return &b.mesh
}
