// Package soft is a headless graphics context that rasterizes on the CPU.
//
// It follows the same contract as the GPU backend so the editor can run, and be
// tested, without a window: depth test less, no culling, no blending, and pixel
// reads with a bottom-left origin.
package soft

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/deepimage/rt/core"
	"github.com/gekko3d/deepimage/rt/gfx"
)

// Device implements gfx.Device.
type Device struct {
	screen   *Target
	bound    *Target
	programs map[gfx.ProgramKind]*Program
	current  *Program

	inFrame bool
	frames  int
	draws   int
}

func NewDevice(width, height int) (*Device, error) {
	screen, err := newTarget(width, height)
	if err != nil {
		return nil, err
	}
	d := &Device{
		screen:   screen,
		programs: make(map[gfx.ProgramKind]*Program),
	}
	d.bound = screen
	for _, k := range []gfx.ProgramKind{gfx.ProgramPhong, gfx.ProgramSolid, gfx.ProgramVertexColor} {
		d.programs[k] = newProgram(d, k)
	}
	return d, nil
}

// Screen is the visible target.
func (d *Device) Screen() *Target { return d.screen }

// Frames counts completed BeginFrame/EndFrame pairs.
func (d *Device) Frames() int { return d.frames }

// Draws counts mesh draws since the device was created.
func (d *Device) Draws() int { return d.draws }

func (d *Device) UploadMesh(m *core.Mesh) (gfx.Mesh, error) {
	if m == nil {
		return nil, fmt.Errorf("soft: nil mesh")
	}
	if len(m.Indices)%3 != 0 {
		return nil, fmt.Errorf("soft: index count %d is not a multiple of 3", len(m.Indices))
	}
	for _, i := range m.Indices {
		if int(i) >= len(m.Positions) {
			return nil, fmt.Errorf("soft: index %d out of range (%d vertices)", i, len(m.Positions))
		}
	}
	mesh := &Mesh{
		dev:       d,
		positions: append([]mgl32.Vec3(nil), m.Positions...),
		indices:   append([]uint32(nil), m.Indices...),
	}
	if len(m.Normals) == len(m.Positions) {
		mesh.normals = append([]mgl32.Vec3(nil), m.Normals...)
	}
	if len(m.Colors) == len(m.Positions) {
		mesh.colors = append([]mgl32.Vec4(nil), m.Colors...)
	}
	return mesh, nil
}

func (d *Device) Program(kind gfx.ProgramKind) gfx.Program {
	p, ok := d.programs[kind]
	if !ok {
		panic(fmt.Sprintf("soft: unknown program %v", kind))
	}
	return p
}

func (d *Device) NewTarget(width, height int) (gfx.Target, error) {
	return newTarget(width, height)
}

func (d *Device) BindTarget(t gfx.Target) {
	if t == nil {
		d.bound = d.screen
		return
	}
	st, ok := t.(*Target)
	if !ok {
		panic(fmt.Sprintf("soft: foreign target %T", t))
	}
	d.bound = st
}

func (d *Device) Clear(color mgl32.Vec4) {
	d.bound.clear(color)
}

func (d *Device) ClearDepth() {
	d.bound.clearDepth()
}

func (d *Device) Resize(width, height int) error {
	screen, err := newTarget(width, height)
	if err != nil {
		return err
	}
	rebind := d.bound == d.screen
	d.screen = screen
	if rebind {
		d.bound = screen
	}
	return nil
}

func (d *Device) BeginFrame() error {
	if d.inFrame {
		return fmt.Errorf("soft: frame already begun")
	}
	d.inFrame = true
	d.bound = d.screen
	return nil
}

func (d *Device) EndFrame() error {
	if !d.inFrame {
		return fmt.Errorf("soft: no frame in progress")
	}
	d.inFrame = false
	d.frames++
	return nil
}
