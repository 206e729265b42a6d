package gizmo

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/deepimage/rt/core"
)

// HitTest returns the first handle under the cursor, testing X, Y then Z.
func (g *Gizmo) HitTest(cursor mgl32.Vec2, cam core.Camera) Axis {
	switch g.variant {
	case Translate:
		return g.hitTranslate(cursor, cam)
	case Rotate:
		return g.hitRotate(cursor, cam)
	}
	return AxisNone
}

// hitTranslate measures the cursor against the screen image of each arrow.
func (g *Gizmo) hitTranslate(cursor mgl32.Vec2, cam core.Camera) Axis {
	sf := g.screenFactor
	for _, a := range axes {
		dir := a.Vector()
		p0 := cam.Project(g.frame.InverseCoordinatesOf(dir.Mul(sf))).Vec2()
		p1 := cam.Project(g.frame.InverseCoordinatesOf(dir.Mul(2 * sf))).Vec2()
		if segmentDistance(cursor, p0, p1) < HoverDistance {
			return a
		}
	}
	return AxisNone
}

// hitRotate casts the cursor into the frame and measures it against each ring.
func (g *Gizmo) hitRotate(cursor mgl32.Vec2, cam core.Camera) Axis {
	ray := cam.Unproject(cursor.X(), cursor.Y()).Transformed(&g.frame.Transform)
	for _, a := range axes {
		hit, _, ok := ray.IntersectPlane(mgl32.Vec3{}, a.Vector())
		if !ok || hit.Len() < core.Epsilon {
			continue
		}
		onRing := hit.Normalize().Mul(g.screenFactor)
		s := cam.Project(g.frame.InverseCoordinatesOf(onRing)).Vec2()
		if cursor.Sub(s).Len() < HoverDistance {
			return a
		}
	}
	return AxisNone
}

// segmentDistance is the distance from p to segment ab, or to a when the segment is degenerate.
func segmentDistance(p, a, b mgl32.Vec2) float32 {
	seg := b.Sub(a)
	length := seg.Len()
	if length < core.Epsilon {
		return p.Sub(a).Len()
	}
	dir := seg.Mul(1 / length)
	t := p.Sub(a).Dot(dir)
	if t < 0 {
		t = 0
	}
	if t > length {
		t = length
	}
	return p.Sub(a.Add(dir.Mul(t))).Len()
}
