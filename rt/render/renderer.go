package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/deepimage/rt/core"
	"github.com/gekko3d/deepimage/rt/gfx"
	"github.com/gekko3d/deepimage/rt/gizmo"
	"github.com/gekko3d/deepimage/rt/scene"
)

type Style struct {
	Background mgl32.Vec4
	Selected   mgl32.Vec4
	Unselected mgl32.Vec4
}

func DefaultStyle() Style {
	return Style{
		Background: mgl32.Vec4{0.7, 0.7, 0.7, 1},
		Selected:   mgl32.Vec4{0, 1, 0, 1},
		Unselected: mgl32.Vec4{0, 0, 0, 1},
	}
}

// Stats describes the last visible pass.
type Stats struct {
	Drawn  int
	Culled int
}

// Renderer draws the visible pass: background, grid, objects, then the gizmo on top.
type Renderer struct {
	dev   gfx.Device
	grid  gfx.Mesh
	Style Style
	Cull  bool
	stats Stats
}

// NewRenderer uploads the grid. grid may be nil for a scene without one.
func NewRenderer(dev gfx.Device, grid *core.Mesh, style Style) (*Renderer, error) {
	r := &Renderer{dev: dev, Style: style, Cull: true}
	if grid != nil {
		h, err := dev.UploadMesh(grid)
		if err != nil {
			return nil, fmt.Errorf("grid: %w", err)
		}
		r.grid = h
	}
	return r, nil
}

func (r *Renderer) Stats() Stats { return r.stats }

// DrawScene renders to the screen. The gizmo is drawn only while something is selected.
func (r *Renderer) DrawScene(reg *scene.Registry, view, proj mgl32.Mat4, g *gizmo.Gizmo) error {
	r.dev.BindTarget(nil)
	r.dev.Clear(r.Style.Background)
	r.stats = Stats{}

	vp := proj.Mul4(view)
	if r.grid != nil {
		prog := r.dev.Program(gfx.ProgramVertexColor)
		prog.Bind()
		prog.SetUniformMatrix4(gfx.UniformModel, mgl32.Ident4())
		prog.SetUniformMatrix4(gfx.UniformMVP, vp)
		r.grid.Draw()
	}

	planes := core.ExtractFrustum(vp)
	prog := r.dev.Program(gfx.ProgramPhong)
	prog.Bind()
	for i, obj := range reg.Objects() {
		if r.Cull {
			c, radius := obj.WorldBounds()
			if !core.SphereInFrustum(planes, c, radius) {
				r.stats.Culled++
				continue
			}
		}
		if reg.IsSelected(i) {
			obj.SetFlatColor(r.Style.Selected)
		} else {
			obj.SetFlatColor(r.Style.Unselected)
		}
		obj.Draw(prog, view, proj)
		r.stats.Drawn++
	}

	if g != nil && reg.HasSelection() {
		if err := g.Draw(view, proj, r.dev.Program(gfx.ProgramSolid)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) Release() {
	if r.grid != nil {
		r.grid.Release()
		r.grid = nil
	}
}
