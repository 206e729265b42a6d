package soft

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is geometry copied into the device.
type Mesh struct {
	dev       *Device
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	colors    []mgl32.Vec4
	indices   []uint32
}

func (m *Mesh) Release() {
	m.positions, m.normals, m.colors, m.indices = nil, nil, nil, nil
}

// Draw rasterizes the mesh with the bound program into the bound target.
func (m *Mesh) Draw() {
	prog := m.dev.current
	target := m.dev.bound
	if prog == nil || target == nil || target.color == nil {
		return
	}
	m.dev.draws++

	clip := make([]mgl32.Vec4, len(m.positions))
	for i, p := range m.positions {
		clip[i] = prog.mvp.Mul4x1(p.Vec4(1))
	}
	for i := 0; i+2 < len(m.indices); i += 3 {
		a, b, c := m.indices[i], m.indices[i+1], m.indices[i+2]
		m.triangle(prog, target, clip, [3]uint32{a, b, c})
	}
}

type screenVertex struct {
	x, y, z float32
}

func (m *Mesh) triangle(prog *Program, t *Target, clip []mgl32.Vec4, idx [3]uint32) {
	var v [3]screenVertex
	for k, i := range idx {
		c := clip[i]
		// Triangles crossing the eye plane are dropped rather than clipped.
		if c.W() <= 1e-6 {
			return
		}
		ndc := c.Vec3().Mul(1 / c.W())
		v[k] = screenVertex{
			x: (ndc.X() + 1) / 2 * float32(t.width),
			y: (ndc.Y() + 1) / 2 * float32(t.height),
			z: (ndc.Z() + 1) / 2,
		}
	}

	area := edge(v[0], v[1], v[2].x, v[2].y)
	if float32(math.Abs(float64(area))) < 1e-12 {
		return
	}

	minX := clampInt(int(math.Floor(float64(min3(v[0].x, v[1].x, v[2].x)))), 0, t.width-1)
	maxX := clampInt(int(math.Ceil(float64(max3(v[0].x, v[1].x, v[2].x)))), 0, t.width-1)
	minY := clampInt(int(math.Floor(float64(min3(v[0].y, v[1].y, v[2].y)))), 0, t.height-1)
	maxY := clampInt(int(math.Ceil(float64(max3(v[0].y, v[1].y, v[2].y)))), 0, t.height-1)

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			sx, sy := float32(px)+0.5, float32(py)+0.5
			w0 := edge(v[1], v[2], sx, sy) / area
			w1 := edge(v[2], v[0], sx, sy) / area
			w2 := edge(v[0], v[1], sx, sy) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*v[0].z + w1*v[1].z + w2*v[2].z
			if z < 0 || z > 1 {
				continue
			}
			o := py*t.width + px
			if z >= t.depth[o] {
				continue
			}
			t.depth[o] = z
			t.color[o] = prog.shade(m.normalAt(idx, w0, w1, w2), m.colorAt(idx, w0, w1, w2))
		}
	}
}

func (m *Mesh) normalAt(idx [3]uint32, w0, w1, w2 float32) mgl32.Vec3 {
	if m.normals == nil {
		return mgl32.Vec3{}
	}
	return m.normals[idx[0]].Mul(w0).Add(m.normals[idx[1]].Mul(w1)).Add(m.normals[idx[2]].Mul(w2))
}

func (m *Mesh) colorAt(idx [3]uint32, w0, w1, w2 float32) mgl32.Vec4 {
	if m.colors == nil {
		return mgl32.Vec4{1, 1, 1, 1}
	}
	return m.colors[idx[0]].Mul(w0).Add(m.colors[idx[1]].Mul(w1)).Add(m.colors[idx[2]].Mul(w2))
}

// edge is twice the signed area of (a, b, p).
func edge(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func min3(a, b, c float32) float32 {
	return float32(math.Min(float64(a), math.Min(float64(b), float64(c))))
}

func max3(a, b, c float32) float32 {
	return float32(math.Max(float64(a), math.Max(float64(b), float64(c))))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
