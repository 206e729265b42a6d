// Package gfx is the contract between the editor and a graphics context.
//
// All calls are made from the thread that owns the device. Uploading meshes
// and reading pixels back are only valid while the device is alive; backends
// do not synchronize across threads.
package gfx

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/deepimage/rt/core"
)

// Uniform names understood by every program.
const (
	UniformMVP   = "u_MVP"
	UniformModel = "u_Model"
	UniformColor = "u_Color"
)

var ErrOutOfBounds = errors.New("gfx: pixel outside target")

type ProgramKind int

const (
	// ProgramPhong shades u_Color with a headlight.
	ProgramPhong ProgramKind = iota
	// ProgramSolid writes u_Color unchanged. Picking relies on it.
	ProgramSolid
	// ProgramVertexColor uses per-vertex colors.
	ProgramVertexColor
)

func (k ProgramKind) String() string {
	switch k {
	case ProgramPhong:
		return "phong"
	case ProgramSolid:
		return "solid"
	case ProgramVertexColor:
		return "vertex-color"
	}
	return "unknown"
}

// Program is a bound shader with named uniforms. Uniform values persist until overwritten.
type Program interface {
	Bind()
	SetUniformMatrix4(name string, m mgl32.Mat4)
	SetUniformVec4(name string, v mgl32.Vec4)
}

// Mesh is geometry resident on the device. Draw uses the currently bound program and target.
type Mesh interface {
	Draw()
	Release()
}

// Target is an offscreen color buffer with its own depth buffer.
type Target interface {
	Size() (width, height int)
	// ReadPixel samples one pixel as RGB in [0, 1]. x, y use a bottom-left origin.
	ReadPixel(x, y int) ([3]float32, error)
	Release()
}

type Device interface {
	UploadMesh(m *core.Mesh) (Mesh, error)
	Program(kind ProgramKind) Program
	NewTarget(width, height int) (Target, error)
	// BindTarget directs subsequent clears and draws to t, or to the screen when t is nil.
	BindTarget(t Target)
	// Clear fills the bound target with color and resets its depth.
	Clear(color mgl32.Vec4)
	ClearDepth()
	Resize(width, height int) error
	BeginFrame() error
	EndFrame() error
}
