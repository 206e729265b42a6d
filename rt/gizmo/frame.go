package gizmo

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/deepimage/rt/core"
)

type ConstraintKind int

const (
	ConstraintNone ConstraintKind = iota
	ConstraintTranslate
	ConstraintRotate
)

type Reference int

const (
	ReferenceWorld Reference = iota
	ReferenceLocal
)

// Constraint restricts frame motion to a single axis.
type Constraint struct {
	Kind      ConstraintKind
	Axis      mgl32.Vec3
	Reference Reference
}

// FollowerResolver turns follower handles into the transforms they name.
type FollowerResolver interface {
	Follower(id uuid.UUID) (*core.Transform, bool)
}

// Frame is the gizmo's pivot. Motion applied to it is mirrored onto its followers.
type Frame struct {
	core.Transform

	constraint Constraint
	followers  []uuid.UUID
}

func NewFrame() *Frame {
	return &Frame{Transform: *core.NewTransform()}
}

func (f *Frame) SetPosition(p mgl32.Vec3) {
	f.Position = p
	f.Dirty = true
}

func (f *Frame) SetConstraint(kind ConstraintKind, axis mgl32.Vec3, ref Reference) {
	f.constraint = Constraint{Kind: kind, Axis: axis.Normalize(), Reference: ref}
}

func (f *Frame) ClearConstraint() {
	f.constraint = Constraint{}
}

func (f *Frame) Constraint() Constraint { return f.constraint }

func (f *Frame) AddFollower(id uuid.UUID) {
	for _, existing := range f.followers {
		if existing == id {
			return
		}
	}
	f.followers = append(f.followers, id)
}

func (f *Frame) RemoveFollower(id uuid.UUID) {
	for i, existing := range f.followers {
		if existing == id {
			f.followers = append(f.followers[:i], f.followers[i+1:]...)
			return
		}
	}
}

func (f *Frame) ClearFollowers() {
	f.followers = f.followers[:0]
}

func (f *Frame) Followers() []uuid.UUID {
	return append([]uuid.UUID(nil), f.followers...)
}

// constraintAxis returns the constrained axis in world coordinates.
func (f *Frame) constraintAxis() mgl32.Vec3 {
	if f.constraint.Reference == ReferenceLocal {
		return f.InverseTransformOf(f.constraint.Axis)
	}
	return f.constraint.Axis
}

// ApplyTranslation moves the frame by delta, projected onto the translation axis when one
// is set, and moves every follower by the same world delta.
func (f *Frame) ApplyTranslation(delta mgl32.Vec3, res FollowerResolver) mgl32.Vec3 {
	if f.constraint.Kind == ConstraintTranslate {
		axis := f.constraintAxis()
		delta = axis.Mul(delta.Dot(axis))
	}
	f.Translate(delta)

	for _, id := range f.followers {
		tr, ok := res.Follower(id)
		if !ok {
			continue
		}
		tr.Translate(delta)
	}
	return delta
}

// ApplyRotation turns the frame by angle about a world axis through pivot. Followers
// rotate about their own copy of the axis and orbit the pivot, so a selection moves
// as one rigid body.
func (f *Frame) ApplyRotation(axis, pivot mgl32.Vec3, angle float32, res FollowerResolver) (mgl32.Vec3, float32) {
	if axis.Len() < core.Epsilon || angle == 0 {
		return axis, 0
	}
	axis = axis.Normalize()
	if f.constraint.Kind == ConstraintRotate {
		c := f.constraintAxis()
		d := axis.Dot(c)
		if abs32(d) < core.Epsilon {
			return c, 0
		}
		if d < 0 {
			angle = -angle
		}
		axis = c
	}

	world := mgl32.QuatRotate(angle, axis)
	f.RotateLocal(mgl32.QuatRotate(angle, f.TransformOf(axis)))
	f.RotateAround(world, pivot)

	for _, id := range f.followers {
		tr, ok := res.Follower(id)
		if !ok {
			continue
		}
		tr.RotateLocal(mgl32.QuatRotate(angle, tr.TransformOf(axis)))
		tr.RotateAround(world, pivot)
	}
	return axis, angle
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
