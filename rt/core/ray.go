package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the tolerance used for parallel and degenerate tests.
const Epsilon = 1e-6

type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectPlane intersects the ray with the plane through point with the given normal.
// It fails when the ray is parallel to the plane or the hit lies behind the origin.
func (r Ray) IntersectPlane(point, normal mgl32.Vec3) (mgl32.Vec3, float32, bool) {
	denom := normal.Dot(r.Direction)
	if float32(math.Abs(float64(denom))) <= Epsilon {
		return mgl32.Vec3{}, 0, false
	}
	t := point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return mgl32.Vec3{}, 0, false
	}
	return r.At(t), t, true
}

// ClosestOnLine returns the parameter s of the point on the line p + s*dir that is
// closest to the ray. dir must be unit length. ok is false when the two are parallel.
func (r Ray) ClosestOnLine(p, dir mgl32.Vec3) (s float32, ok bool) {
	w0 := p.Sub(r.Origin)
	a := dir.Dot(dir)
	b := dir.Dot(r.Direction)
	c := r.Direction.Dot(r.Direction)
	d := dir.Dot(w0)
	e := r.Direction.Dot(w0)
	denom := a*c - b*b
	if float32(math.Abs(float64(denom))) < Epsilon {
		return 0, false
	}
	return (b*e - c*d) / denom, true
}

// Transformed maps the ray into a frame's local coordinates.
func (r Ray) Transformed(frame *Transform) Ray {
	return Ray{
		Origin:    frame.CoordinatesOf(r.Origin),
		Direction: frame.TransformOf(r.Direction),
	}
}

// IntersectSphere returns the nearest non-negative hit distance against a sphere.
func (r Ray) IntersectSphere(center mgl32.Vec3, radius float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
