package gizmo

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/deepimage/rt/core"
)

const (
	segments = 30

	arrowInnerRadius = 0.1
	arrowOuterRadius = 0.15
	arrowShaftLength = 0.7

	torusSegments    = 30
	torusMajorRadius = 1.0
	torusMinorRadius = 0.05
)

// NewArrowMesh builds a unit arrow along +X: a shaft to x=0.7 flaring into a cone
// whose tip sits at x=1.
func NewArrowMesh() *core.Mesh {
	m := core.NewMesh()
	base := m.AddVertex(mgl32.Vec3{0, 0, 0})
	tip := m.AddVertex(mgl32.Vec3{1, 0, 0})

	// Three rings per segment: shaft start, shaft end, cone base.
	ring := func(i int) (uint32, uint32, uint32) {
		k := uint32(2 + 3*(i%segments))
		return k, k + 1, k + 2
	}
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		y, z := float32(math.Cos(a)), float32(math.Sin(a))
		m.AddVertex(mgl32.Vec3{0, arrowInnerRadius * y, arrowInnerRadius * z})
		m.AddVertex(mgl32.Vec3{arrowShaftLength, arrowInnerRadius * y, arrowInnerRadius * z})
		m.AddVertex(mgl32.Vec3{arrowShaftLength, arrowOuterRadius * y, arrowOuterRadius * z})
	}
	for i := 0; i < segments; i++ {
		s0, e0, o0 := ring(i)
		s1, e1, o1 := ring(i + 1)
		m.AddFace(base, s1, s0)
		m.AddFace(s0, s1, e1)
		m.AddFace(s0, e1, e0)
		m.AddFace(e0, e1, o1)
		m.AddFace(e0, o1, o0)
		m.AddFace(o0, o1, tip)
	}
	m.ComputeNormals()
	return m
}

// NewTorusMesh builds a ring of radius 1 around the X axis.
func NewTorusMesh() *core.Mesh {
	m := core.NewMesh()
	for i := 0; i < torusSegments; i++ {
		major := mgl32.QuatRotate(float32(2*math.Pi*float64(i)/torusSegments), mgl32.Vec3{1, 0, 0})
		for j := 0; j < torusSegments; j++ {
			minor := 2 * math.Pi * float64(j) / torusSegments
			// Small circle in the XY plane, lifted onto the major radius.
			p := mgl32.Vec3{
				torusMinorRadius * float32(math.Cos(minor)),
				torusMinorRadius*float32(math.Sin(minor)) + torusMajorRadius,
				0,
			}
			m.AddVertex(major.Rotate(p))
		}
	}
	idx := func(i, j int) uint32 {
		return uint32((i%torusSegments)*torusSegments + j%torusSegments)
	}
	for i := 0; i < torusSegments; i++ {
		for j := 0; j < torusSegments; j++ {
			a, b := idx(i, j), idx(i+1, j)
			c, d := idx(i+1, j+1), idx(i, j+1)
			m.AddFace(a, b, c)
			m.AddFace(a, c, d)
		}
	}
	m.ComputeNormals()
	return m
}
