// Package render draws the editor scene and resolves pixels to objects.
package render

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/deepimage/rt/gfx"
	"github.com/gekko3d/deepimage/rt/scene"
)

// ErrStale means the picking buffer has not been drawn since it was last resized.
var ErrStale = errors.New("render: picking buffer is stale")

var pickBackground = mgl32.Vec4{0, 0, 0, 1}

// Picker owns the offscreen buffer in which object i is drawn flat in its color code.
type Picker struct {
	dev    gfx.Device
	target gfx.Target
	width  int
	height int
	stale  bool
}

// NewPicker allocates the buffer. dev must be the current graphics context.
func NewPicker(dev gfx.Device, width, height int) (*Picker, error) {
	p := &Picker{dev: dev}
	if err := p.Resize(width, height); err != nil {
		return nil, err
	}
	return p, nil
}

// Resize replaces the buffer, discarding its contents.
func (p *Picker) Resize(width, height int) error {
	t, err := p.dev.NewTarget(width, height)
	if err != nil {
		return fmt.Errorf("picking target %dx%d: %w", width, height, err)
	}
	if p.target != nil {
		p.target.Release()
	}
	p.target = t
	p.width, p.height = width, height
	p.stale = true
	return nil
}

func (p *Picker) Stale() bool { return p.stale }

func (p *Picker) Size() (int, int) { return p.width, p.height }

// Render draws every object in its color code, without culling, then rebinds the screen.
func (p *Picker) Render(reg *scene.Registry, view, proj mgl32.Mat4) {
	p.dev.BindTarget(p.target)
	p.dev.Clear(pickBackground)

	prog := p.dev.Program(gfx.ProgramSolid)
	prog.Bind()
	for i, obj := range reg.Objects() {
		obj.DrawColored(prog, view, proj, reg.ColorForIndex(i).Vec4())
	}

	p.dev.BindTarget(nil)
	p.stale = false
}

// Pick returns the object index under a screen pixel (top-left origin), or scene.NoObject.
// It reads from the graphics context, which must be current.
func (p *Picker) Pick(reg *scene.Registry, x, y int) (int, error) {
	if p.stale {
		return scene.NoObject, ErrStale
	}
	rgb, err := p.target.ReadPixel(x, p.height-1-y)
	if err != nil {
		return scene.NoObject, fmt.Errorf("pick (%d,%d): %w", x, y, err)
	}
	return reg.IndexForColor(scene.ColorCodeFromFloat(rgb)), nil
}

func (p *Picker) Release() {
	if p.target != nil {
		p.target.Release()
		p.target = nil
	}
}
