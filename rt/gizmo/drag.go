package gizmo

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/deepimage/rt/core"
)

// Radians per horizontal pixel when the rotation plane is seen edge-on.
const edgeOnRadiansPerPixel = 0.01

// Drag turns a cursor move from prev to cur into constrained frame motion. It only acts
// while Dragging and reports whether anything moved.
func (g *Gizmo) Drag(prev, cur mgl32.Vec2, cam core.Camera, res FollowerResolver) bool {
	if g.state != Dragging || prev == cur {
		return false
	}
	c := g.frame.Constraint()
	pivot := g.frame.Position
	r0 := cam.Unproject(prev.X(), prev.Y())
	r1 := cam.Unproject(cur.X(), cur.Y())

	switch g.variant {
	case Translate:
		if c.Kind != ConstraintTranslate {
			return false
		}
		axis := g.frame.constraintAxis()
		s0, ok0 := r0.ClosestOnLine(pivot, axis)
		s1, ok1 := r1.ClosestOnLine(pivot, axis)
		if !ok0 || !ok1 {
			return false
		}
		g.frame.ApplyTranslation(axis.Mul(s1-s0), res)
		return true

	case Rotate:
		if c.Kind != ConstraintRotate {
			return false
		}
		axis := g.frame.constraintAxis()
		var angle float32
		h0, _, ok0 := r0.IntersectPlane(pivot, axis)
		h1, _, ok1 := r1.IntersectPlane(pivot, axis)
		if ok0 && ok1 {
			v0, v1 := h0.Sub(pivot), h1.Sub(pivot)
			angle = float32(math.Atan2(float64(v0.Cross(v1).Dot(axis)), float64(v0.Dot(v1))))
		} else {
			angle = (cur.X() - prev.X()) * edgeOnRadiansPerPixel
		}
		_, applied := g.frame.ApplyRotation(axis, pivot, angle, res)
		return applied != 0
	}
	return false
}
