package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places an object or a manipulation frame in world space.
// The coordinate conversion helpers treat the transform as a rigid frame and ignore Scale.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Dirty    bool
}

func NewTransform() *Transform {
	return &Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Dirty:    true,
	}
}

func (t *Transform) ObjectToWorld() mgl32.Mat4 {
	// M = T * R * S
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translate.Mul4(rotate).Mul4(scale)
}

// RigidMatrix is ObjectToWorld without the scale term.
func (t *Transform) RigidMatrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	return translate.Mul4(t.Rotation.Mat4())
}

func (t *Transform) WorldToObject() mgl32.Mat4 {
	// inv(M) = inv(S) * inv(R) * inv(T)
	invScale := mgl32.Scale3D(1.0/t.Scale.X(), 1.0/t.Scale.Y(), 1.0/t.Scale.Z())
	invRotate := t.Rotation.Conjugate().Mat4()
	invTranslate := mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z())

	return invScale.Mul4(invRotate).Mul4(invTranslate)
}

// CoordinatesOf converts a world point into this frame's local coordinates.
func (t *Transform) CoordinatesOf(world mgl32.Vec3) mgl32.Vec3 {
	return t.Rotation.Conjugate().Rotate(world.Sub(t.Position))
}

// InverseCoordinatesOf converts a local point into world coordinates.
func (t *Transform) InverseCoordinatesOf(local mgl32.Vec3) mgl32.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(local))
}

// TransformOf converts a world direction into this frame's local coordinates.
func (t *Transform) TransformOf(world mgl32.Vec3) mgl32.Vec3 {
	return t.Rotation.Conjugate().Rotate(world)
}

// InverseTransformOf converts a local direction into world coordinates.
func (t *Transform) InverseTransformOf(local mgl32.Vec3) mgl32.Vec3 {
	return t.Rotation.Rotate(local)
}

func (t *Transform) Translate(delta mgl32.Vec3) {
	t.Position = t.Position.Add(delta)
	t.Dirty = true
}

// RotateLocal composes q, expressed in the frame's own coordinates, onto the orientation.
func (t *Transform) RotateLocal(q mgl32.Quat) {
	t.Rotation = t.Rotation.Mul(q).Normalize()
	t.Dirty = true
}

// RotateAround orbits the position about a world-space pivot by the world rotation q.
func (t *Transform) RotateAround(q mgl32.Quat, pivot mgl32.Vec3) {
	t.Position = pivot.Add(q.Rotate(t.Position.Sub(pivot)))
	t.Dirty = true
}
