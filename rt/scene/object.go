package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/deepimage/rt/core"
	"github.com/gekko3d/deepimage/rt/gfx"
)

// Object is a renderable mesh placed in the world.
type Object struct {
	ID        uuid.UUID
	Name      string
	Mesh      *core.Mesh
	Transform *core.Transform
	Color     mgl32.Vec4

	handle gfx.Mesh
}

func NewObject(name string, mesh *core.Mesh) *Object {
	return &Object{
		ID:        uuid.New(),
		Name:      name,
		Mesh:      mesh,
		Transform: core.NewTransform(),
		Color:     mgl32.Vec4{0, 0, 0, 1},
	}
}

// Upload sends the mesh to the device. It must run while dev is the current context.
func (o *Object) Upload(dev gfx.Device) error {
	if o.handle != nil {
		return nil
	}
	h, err := dev.UploadMesh(o.Mesh)
	if err != nil {
		return fmt.Errorf("upload %q: %w", o.Name, err)
	}
	o.handle = h
	return nil
}

func (o *Object) Uploaded() bool { return o.handle != nil }

func (o *Object) SetFlatColor(c mgl32.Vec4) {
	o.Color = c
}

func (o *Object) WorldTransform() mgl32.Mat4 {
	return o.Transform.ObjectToWorld()
}

// WorldBounds returns a bounding sphere in world space.
func (o *Object) WorldBounds() (mgl32.Vec3, float32) {
	c, r := o.Mesh.BoundingSphere()
	s := o.Transform.Scale
	maxScale := s.X()
	if s.Y() > maxScale {
		maxScale = s.Y()
	}
	if s.Z() > maxScale {
		maxScale = s.Z()
	}
	return o.WorldTransform().Mul4x1(c.Vec4(1)).Vec3(), r * maxScale
}

// Draw renders with prog, which must already be bound. The object's Color goes to u_Color.
func (o *Object) Draw(prog gfx.Program, view, proj mgl32.Mat4) {
	o.DrawColored(prog, view, proj, o.Color)
}

// DrawColored is Draw with an explicit u_Color, leaving Color untouched.
func (o *Object) DrawColored(prog gfx.Program, view, proj mgl32.Mat4, color mgl32.Vec4) {
	if o.handle == nil {
		return
	}
	model := o.WorldTransform()
	prog.SetUniformMatrix4(gfx.UniformModel, model)
	prog.SetUniformMatrix4(gfx.UniformMVP, proj.Mul4(view).Mul4(model))
	prog.SetUniformVec4(gfx.UniformColor, color)
	o.handle.Draw()
}

func (o *Object) Release() {
	if o.handle != nil {
		o.handle.Release()
		o.handle = nil
	}
}
