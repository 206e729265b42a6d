package gizmo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/deepimage/rt/core"
	"github.com/gekko3d/deepimage/rt/gfx"
)

// orthoCamera looks down -Z from z=eye with a fixed pixel scale; depth never reaches the screen.
type orthoCamera struct {
	scale, cx, cy float32
	eye           float32
	dir           float32
}

func newOrthoCamera() *orthoCamera {
	return &orthoCamera{scale: 100, cx: 400, cy: 300, eye: 10, dir: -1}
}

func (c *orthoCamera) ViewMatrix() mgl32.Mat4       { return mgl32.Ident4() }
func (c *orthoCamera) ProjectionMatrix() mgl32.Mat4 { return mgl32.Ident4() }

func (c *orthoCamera) Project(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{c.cx + p.X()*c.scale, c.cy - p.Y()*c.scale, 0}
}

func (c *orthoCamera) Unproject(x, y float32) core.Ray {
	return core.Ray{
		Origin:    mgl32.Vec3{(x - c.cx) / c.scale, (c.cy - y) / c.scale, c.eye},
		Direction: mgl32.Vec3{0, 0, c.dir},
	}
}

func (c *orthoCamera) DistanceAlongViewAxis(p mgl32.Vec3) float32 {
	return p.Z() - c.eye
}

type mapResolver map[uuid.UUID]*core.Transform

func (m mapResolver) Follower(id uuid.UUID) (*core.Transform, bool) {
	tr, ok := m[id]
	return tr, ok
}

func (m mapResolver) add(p mgl32.Vec3) uuid.UUID {
	id := uuid.New()
	tr := core.NewTransform()
	tr.Position = p
	m[id] = tr
	return id
}

// recDevice records the calls a gizmo makes against the graphics context.
type recDevice struct {
	calls   []string
	color   mgl32.Vec4
	uploads int
}

type recProgram struct{ dev *recDevice }
type recMesh struct{ dev *recDevice }

func (p *recProgram) Bind()                                       { p.dev.calls = append(p.dev.calls, "bind") }
func (p *recProgram) SetUniformMatrix4(name string, m mgl32.Mat4) {}
func (p *recProgram) SetUniformVec4(name string, v mgl32.Vec4) {
	if name == gfx.UniformColor {
		p.dev.color = v
	}
}

func (m *recMesh) Draw() {
	m.dev.calls = append(m.dev.calls, fmt.Sprintf("draw %v", m.dev.color))
}
func (m *recMesh) Release() {}

func (d *recDevice) UploadMesh(*core.Mesh) (gfx.Mesh, error) {
	d.uploads++
	return &recMesh{dev: d}, nil
}
func (d *recDevice) Program(gfx.ProgramKind) gfx.Program { return &recProgram{dev: d} }
func (d *recDevice) NewTarget(int, int) (gfx.Target, error) {
	return nil, errors.New("not supported")
}
func (d *recDevice) BindTarget(gfx.Target) {}
func (d *recDevice) Clear(mgl32.Vec4)      {}
func (d *recDevice) ClearDepth()           { d.calls = append(d.calls, "clear-depth") }
func (d *recDevice) Resize(int, int) error { return nil }
func (d *recDevice) BeginFrame() error     { return nil }
func (d *recDevice) EndFrame() error       { return nil }

// assertVec3Near compares component-wise with an absolute tolerance.
func assertVec3Near(t *testing.T, want, got mgl32.Vec3, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta, msgAndArgs...)
}

func assertQuatNear(t *testing.T, want, got mgl32.Quat, delta float64) {
	t.Helper()
	assert.InDelta(t, want.W, got.W, delta)
	assertVec3Near(t, want.V, got.V, delta)
}
