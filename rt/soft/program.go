package soft

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/deepimage/rt/gfx"
)

// Headlight direction in view-independent world space, toward the light.
var lightDir = mgl32.Vec3{0.3, 0.5, 1}.Normalize()

const ambient = 0.3

type Program struct {
	dev  *Device
	kind gfx.ProgramKind

	mvp   mgl32.Mat4
	model mgl32.Mat4
	color mgl32.Vec4
}

func newProgram(d *Device, kind gfx.ProgramKind) *Program {
	return &Program{
		dev:   d,
		kind:  kind,
		mvp:   mgl32.Ident4(),
		model: mgl32.Ident4(),
		color: mgl32.Vec4{1, 1, 1, 1},
	}
}

func (p *Program) Bind() { p.dev.current = p }

func (p *Program) SetUniformMatrix4(name string, m mgl32.Mat4) {
	switch name {
	case gfx.UniformMVP:
		p.mvp = m
	case gfx.UniformModel:
		p.model = m
	}
}

func (p *Program) SetUniformVec4(name string, v mgl32.Vec4) {
	if name == gfx.UniformColor {
		p.color = v
	}
}

// shade returns the fragment color for interpolated vertex attributes.
func (p *Program) shade(normal mgl32.Vec3, vertexColor mgl32.Vec4) mgl32.Vec4 {
	switch p.kind {
	case gfx.ProgramSolid:
		return p.color
	case gfx.ProgramVertexColor:
		return vertexColor
	}
	n := p.model.Mul4x1(normal.Vec4(0)).Vec3()
	diffuse := float32(0)
	if n.Len() > 0 {
		diffuse = n.Normalize().Dot(lightDir)
		if diffuse < 0 {
			diffuse = -diffuse
		}
	}
	k := ambient + (1-ambient)*diffuse
	return mgl32.Vec4{p.color.X() * k, p.color.Y() * k, p.color.Z() * k, p.color.W()}
}
