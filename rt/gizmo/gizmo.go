// Package gizmo implements the on-screen translate and rotate handles.
//
// A Gizmo is a tagged variant: one struct, one Variant field, and a switch
// wherever the two kinds behave differently. Each gizmo owns a Frame placed at
// the selection pivot; selected objects are attached to that frame as followers.
package gizmo

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/deepimage/rt/core"
	"github.com/gekko3d/deepimage/rt/gfx"
)

// HoverDistance is the pick radius in pixels. A handle is hovered when the cursor is strictly closer.
const HoverDistance = 15

var ErrNotInitialized = errors.New("gizmo: geometry not uploaded")

type Variant int

const (
	Translate Variant = iota
	Rotate
)

func (v Variant) String() string {
	switch v {
	case Translate:
		return "translate"
	case Rotate:
		return "rotate"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

func ParseVariant(s string) (Variant, error) {
	switch s {
	case "translate", "t":
		return Translate, nil
	case "rotate", "r":
		return Rotate, nil
	}
	return Translate, fmt.Errorf("gizmo: unknown variant %q", s)
}

type Axis int

const (
	AxisNone Axis = iota - 1
	AxisX
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "none"
}

// Vector is the unit direction of the axis.
func (a Axis) Vector() mgl32.Vec3 {
	switch a {
	case AxisX:
		return mgl32.Vec3{1, 0, 0}
	case AxisY:
		return mgl32.Vec3{0, 1, 0}
	case AxisZ:
		return mgl32.Vec3{0, 0, 1}
	}
	return mgl32.Vec3{}
}

var axes = [3]Axis{AxisX, AxisY, AxisZ}

var (
	axisColors = [3]mgl32.Vec4{
		{1, 0, 0, 1},
		{0, 1, 0, 1},
		{0, 0, 1, 1},
	}
	hoverColor = mgl32.Vec4{1, 1, 1, 1}
)

// Handle geometry is modeled along +X; these turn it onto each axis.
var axisRotations = [3]mgl32.Mat4{
	mgl32.Ident4(),
	mgl32.HomogRotate3DZ(math.Pi / 2),
	mgl32.HomogRotate3DY(-math.Pi / 2),
}

type State int

const (
	Idle State = iota
	Dragging
)

type Gizmo struct {
	variant Variant
	frame   *Frame
	mesh    *core.Mesh

	dev    gfx.Device
	handle gfx.Mesh

	screenFactor float32
	hovered      Axis
	state        State
}

// New builds the handle geometry for v. Nothing touches the device until Init.
func New(v Variant) *Gizmo {
	g := &Gizmo{
		variant:      v,
		frame:        NewFrame(),
		screenFactor: 1,
		hovered:      AxisNone,
	}
	switch v {
	case Translate:
		g.mesh = NewArrowMesh()
	case Rotate:
		g.mesh = NewTorusMesh()
	default:
		panic(fmt.Sprintf("gizmo: unknown variant %d", int(v)))
	}
	return g
}

// Init uploads the handle mesh once. dev must be the current graphics context.
func (g *Gizmo) Init(dev gfx.Device) error {
	if g.handle != nil {
		return nil
	}
	h, err := dev.UploadMesh(g.mesh)
	if err != nil {
		return fmt.Errorf("gizmo %s: %w", g.variant, err)
	}
	g.dev = dev
	g.handle = h
	return nil
}

func (g *Gizmo) Release() {
	if g.handle != nil {
		g.handle.Release()
		g.handle = nil
	}
}

func (g *Gizmo) Variant() Variant         { return g.variant }
func (g *Gizmo) Frame() *Frame            { return g.frame }
func (g *Gizmo) Mesh() *core.Mesh         { return g.mesh }
func (g *Gizmo) Hovered() Axis            { return g.hovered }
func (g *Gizmo) IsHover() bool            { return g.hovered != AxisNone }
func (g *Gizmo) State() State             { return g.state }
func (g *Gizmo) Dragging() bool           { return g.state == Dragging }
func (g *Gizmo) ScreenFactor() float32    { return g.screenFactor }
func (g *Gizmo) SetPosition(p mgl32.Vec3) { g.frame.SetPosition(p) }

func (g *Gizmo) Follow(id uuid.UUID)   { g.frame.AddFollower(id) }
func (g *Gizmo) Unfollow(id uuid.UUID) { g.frame.RemoveFollower(id) }
func (g *Gizmo) ClearFollowers()       { g.frame.ClearFollowers() }

func (g *Gizmo) scaleConstant() float32 {
	switch g.variant {
	case Rotate:
		return 0.2
	default:
		return 0.1
	}
}

// AdjustScale keeps the handles a constant size on screen.
func (g *Gizmo) AdjustScale(cam core.Camera) {
	g.screenFactor = -cam.DistanceAlongViewAxis(g.frame.Position) * g.scaleConstant()
}

// AxisModel is the model matrix for one handle.
func (g *Gizmo) AxisModel(a Axis) mgl32.Mat4 {
	sf := g.screenFactor
	m := g.frame.RigidMatrix().Mul4(axisRotations[a]).Mul4(mgl32.Scale3D(sf, sf, sf))
	if g.variant == Translate {
		m = m.Mul4(mgl32.Translate3D(1, 0, 0))
	}
	return m
}

func (g *Gizmo) axisColor(a Axis) mgl32.Vec4 {
	if a == g.hovered {
		return hoverColor
	}
	return axisColors[a]
}

// Draw renders the three handles over the scene. prog should be the solid program.
func (g *Gizmo) Draw(view, proj mgl32.Mat4, prog gfx.Program) error {
	if g.handle == nil {
		return ErrNotInitialized
	}
	g.dev.ClearDepth()
	prog.Bind()
	vp := proj.Mul4(view)
	for _, a := range axes {
		model := g.AxisModel(a)
		prog.SetUniformMatrix4(gfx.UniformModel, model)
		prog.SetUniformMatrix4(gfx.UniformMVP, vp.Mul4(model))
		prog.SetUniformVec4(gfx.UniformColor, g.axisColor(a))
		g.handle.Draw()
	}
	return nil
}

// MousePressed starts a drag on the hovered handle.
func (g *Gizmo) MousePressed(cursor mgl32.Vec2, cam core.Camera) {
	if g.hovered == AxisNone {
		return
	}
	switch g.variant {
	case Translate:
		g.frame.SetConstraint(ConstraintTranslate, g.hovered.Vector(), ReferenceWorld)
	case Rotate:
		g.frame.SetConstraint(ConstraintRotate, g.hovered.Vector(), ReferenceLocal)
	}
	g.state = Dragging
}

// MouseMoved refreshes the hovered handle while idle.
func (g *Gizmo) MouseMoved(cursor mgl32.Vec2, cam core.Camera) {
	if g.state == Dragging {
		return
	}
	g.frame.ClearConstraint()
	g.hovered = g.HitTest(cursor, cam)
}

// ClearHover drops the hovered handle of an idle gizmo.
func (g *Gizmo) ClearHover() {
	if g.state == Dragging {
		return
	}
	g.frame.ClearConstraint()
	g.hovered = AxisNone
}

func (g *Gizmo) MouseReleased(cursor mgl32.Vec2, cam core.Camera) {
	if g.hovered == AxisNone {
		return
	}
	g.state = Idle
}

