package gpu

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/deepimage/rt/gfx"
)

// Headlight toward the viewer, w is the ambient term. Matches the soft backend.
var light = mgl32.Vec4{0.3, 0.5, 1, 0.3}

// Program holds uniform values on the CPU; each draw copies them into a uniform slot.
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

func (p *Program) block() drawBlock {
	return drawBlock{MVP: p.mvp, Model: p.model, Color: p.color, Light: light}
}
