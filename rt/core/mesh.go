package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle list. Normals and Colors are either empty or parallel to Positions.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Colors    []mgl32.Vec4
	Indices   []uint32
}

func NewMesh() *Mesh {
	return &Mesh{}
}

func (m *Mesh) AddVertex(p mgl32.Vec3) uint32 {
	m.Positions = append(m.Positions, p)
	return uint32(len(m.Positions) - 1)
}

func (m *Mesh) AddColoredVertex(p mgl32.Vec3, c mgl32.Vec4) uint32 {
	m.Colors = append(m.Colors, c)
	return m.AddVertex(p)
}

func (m *Mesh) AddFace(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

func (m *Mesh) VertexCount() int   { return len(m.Positions) }
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// ComputeNormals rebuilds smooth vertex normals, weighting each face by its area.
func (m *Mesh) ComputeNormals() {
	normals := make([]mgl32.Vec3, len(m.Positions))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		n := m.Positions[b].Sub(m.Positions[a]).Cross(m.Positions[c].Sub(m.Positions[a]))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for i, n := range normals {
		if n.Len() > Epsilon {
			normals[i] = n.Normalize()
		}
	}
	m.Normals = normals
}

// Centroid is the mean vertex position.
func (m *Mesh) Centroid() mgl32.Vec3 {
	if len(m.Positions) == 0 {
		return mgl32.Vec3{}
	}
	var sum mgl32.Vec3
	for _, p := range m.Positions {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float32(len(m.Positions)))
}

// BoundingSphere returns a sphere around the centroid that contains every vertex.
func (m *Mesh) BoundingSphere() (mgl32.Vec3, float32) {
	c := m.Centroid()
	var r float32
	for _, p := range m.Positions {
		if d := p.Sub(c).Len(); d > r {
			r = d
		}
	}
	return c, r
}

// NewCube builds an axis-aligned cube with flat-shaded faces.
func NewCube(size float32) *Mesh {
	h := size / 2
	m := NewMesh()
	faces := []struct {
		n    mgl32.Vec3
		u, v mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	for _, f := range faces {
		center := f.n.Mul(h)
		corners := [4]mgl32.Vec3{
			center.Sub(f.u.Mul(h)).Sub(f.v.Mul(h)),
			center.Add(f.u.Mul(h)).Sub(f.v.Mul(h)),
			center.Add(f.u.Mul(h)).Add(f.v.Mul(h)),
			center.Sub(f.u.Mul(h)).Add(f.v.Mul(h)),
		}
		base := uint32(len(m.Positions))
		for _, p := range corners {
			m.AddVertex(p)
			m.Normals = append(m.Normals, f.n)
		}
		m.AddFace(base, base+1, base+2)
		m.AddFace(base, base+2, base+3)
	}
	return m
}

// NewUVSphere builds a latitude/longitude sphere.
func NewUVSphere(radius float32, stacks, slices int) *Mesh {
	m := NewMesh()
	for i := 0; i <= stacks; i++ {
		phi := math.Pi * float64(i) / float64(stacks)
		for j := 0; j <= slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			n := mgl32.Vec3{
				float32(math.Sin(phi) * math.Cos(theta)),
				float32(math.Cos(phi)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			m.AddVertex(n.Mul(radius))
			m.Normals = append(m.Normals, n)
		}
	}
	row := uint32(slices + 1)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := uint32(i)*row + uint32(j)
			b := a + row
			m.AddFace(a, a+1, b)
			m.AddFace(a+1, b+1, b)
		}
	}
	return m
}

// NewCheckerboard builds a rows x cols grid of cell-sized quads on the XZ plane,
// centered at the origin, alternating between light and dark vertex colors.
func NewCheckerboard(rows, cols int, cell float32, light, dark mgl32.Vec4) *Mesh {
	m := NewMesh()
	x0 := -float32(cols) * cell / 2
	z0 := -float32(rows) * cell / 2
	up := mgl32.Vec3{0, 1, 0}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			color := light
			if (r+c)%2 == 1 {
				color = dark
			}
			x, z := x0+float32(c)*cell, z0+float32(r)*cell
			a := m.AddColoredVertex(mgl32.Vec3{x, 0, z}, color)
			b := m.AddColoredVertex(mgl32.Vec3{x, 0, z + cell}, color)
			cc := m.AddColoredVertex(mgl32.Vec3{x + cell, 0, z + cell}, color)
			d := m.AddColoredVertex(mgl32.Vec3{x + cell, 0, z}, color)
			m.Normals = append(m.Normals, up, up, up, up)
			m.AddFace(a, b, cc)
			m.AddFace(a, cc, d)
		}
	}
	return m
}
