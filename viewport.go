// Package deepimage is an interactive scene editor core: objects are picked
// through an offscreen color-coded pass and moved with translate and rotate gizmos.
//
// A Viewport owns the camera, the object registry, both gizmos and the graphics
// context it was created with. Every method must run on the thread that owns
// that context.
package deepimage

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/deepimage/rt/core"
	"github.com/gekko3d/deepimage/rt/gfx"
	"github.com/gekko3d/deepimage/rt/gizmo"
	"github.com/gekko3d/deepimage/rt/render"
	"github.com/gekko3d/deepimage/rt/scene"
)

type Viewport struct {
	cfg Config
	log Logger
	dev gfx.Device

	camera   *core.OrbitCamera
	registry *scene.Registry
	gizmos   [2]*gizmo.Gizmo
	active   gizmo.Variant

	renderer *render.Renderer
	picker   *render.Picker
	input    *Interaction

	width, height int
}

// NewViewport builds the editor on dev, which must be the current graphics context,
// and loads the objects listed in cfg.Scene.
func NewViewport(dev gfx.Device, cfg Config, log Logger) (*Viewport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = NewNopLogger()
	}
	v := &Viewport{
		cfg:      cfg,
		log:      log,
		dev:      dev,
		camera:   newCamera(cfg),
		registry: scene.NewRegistry(),
		active:   cfg.GizmoVariant(),
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
	}

	for _, variant := range []gizmo.Variant{gizmo.Translate, gizmo.Rotate} {
		g := gizmo.New(variant)
		if err := g.Init(dev); err != nil {
			return nil, err
		}
		g.AdjustScale(v.camera)
		v.gizmos[variant] = g
	}

	var grid *core.Mesh
	if cfg.Grid.Rows > 0 && cfg.Grid.Cols > 0 {
		grid = core.NewCheckerboard(cfg.Grid.Rows, cfg.Grid.Cols, cfg.Grid.Cell, vec4(cfg.Grid.Light), vec4(cfg.Grid.Dark))
	}
	style := render.DefaultStyle()
	style.Background = vec4(cfg.Background)
	style.Selected = vec4(cfg.Selected)
	renderer, err := render.NewRenderer(dev, grid, style)
	if err != nil {
		return nil, err
	}
	renderer.Cull = cfg.Cull
	v.renderer = renderer

	picker, err := render.NewPicker(dev, v.width, v.height)
	if err != nil {
		return nil, err
	}
	v.picker = picker

	v.input = &Interaction{
		Registry: v.registry,
		Camera:   v.camera,
		Picker:   v.picker,
		Log:      log,
	}
	v.input.RefreshPicking = v.renderPicking

	for _, def := range cfg.Scene.Objects {
		obj, err := def.Build()
		if err != nil {
			return nil, err
		}
		if _, err := v.AddObject(obj); err != nil {
			return nil, err
		}
	}
	log.Infof("viewport %dx%d with %d objects, %s gizmo", v.width, v.height, v.registry.Len(), v.active)
	return v, nil
}

func newCamera(cfg Config) *core.OrbitCamera {
	cam := core.NewOrbitCamera(cfg.Window.Width, cfg.Window.Height)
	c := cfg.Camera
	cam.FovY = mgl32.DegToRad(c.Fov)
	cam.Near, cam.Far = c.Near, c.Far
	cam.Distance = c.Distance
	cam.Yaw = mgl32.DegToRad(c.Yaw)
	cam.Pitch = mgl32.DegToRad(c.Pitch)
	if c.OrbitSensitivity > 0 {
		cam.OrbitSensitivity = c.OrbitSensitivity
	}
	if c.PanSensitivity > 0 {
		cam.PanSensitivity = c.PanSensitivity
	}
	if c.ZoomFactor > 0 && c.ZoomFactor < 1 {
		cam.ZoomFactor = c.ZoomFactor
	}
	return cam
}

// AddObject uploads obj and appends it to the registry.
func (v *Viewport) AddObject(obj *scene.Object) (int, error) {
	if obj == nil {
		return scene.NoObject, scene.ErrNilObject
	}
	if err := obj.Upload(v.dev); err != nil {
		return scene.NoObject, err
	}
	idx, err := v.registry.AddObject(obj)
	if err != nil {
		obj.Release()
		return scene.NoObject, err
	}
	v.input.Invalidate()
	return idx, nil
}

func (v *Viewport) Camera() *core.OrbitCamera  { return v.camera }
func (v *Viewport) Registry() *scene.Registry  { return v.registry }
func (v *Viewport) Picker() *render.Picker     { return v.picker }
func (v *Viewport) Renderer() *render.Renderer { return v.renderer }
func (v *Viewport) Variant() gizmo.Variant     { return v.active }

func (v *Viewport) Gizmo(variant gizmo.Variant) *gizmo.Gizmo { return v.gizmos[variant] }
func (v *Viewport) ActiveGizmo() *gizmo.Gizmo                { return v.gizmos[v.active] }

// SetActiveGizmoVariant switches gizmos and attaches the new one to the selection.
func (v *Viewport) SetActiveGizmoVariant(variant gizmo.Variant) {
	if variant != gizmo.Translate && variant != gizmo.Rotate {
		v.log.Warnf("ignoring unknown gizmo variant %d", int(variant))
		return
	}
	v.active = variant
	v.input.Rebind(v.gizmos[variant])
	v.log.Debugf("active gizmo: %s", variant)
}

func (v *Viewport) OnMousePressed(ev PointerEvent)  { v.input.Press(v.ActiveGizmo(), ev) }
func (v *Viewport) OnMouseMoved(ev PointerEvent)    { v.input.Move(v.ActiveGizmo(), ev) }
func (v *Viewport) OnMouseReleased(ev PointerEvent) { v.input.Release(v.ActiveGizmo(), ev) }
func (v *Viewport) OnWheel(ev WheelEvent)           { v.input.Wheel(v.ActiveGizmo(), ev) }

// Render draws the visible pass and then the picking pass.
func (v *Viewport) Render(view, proj mgl32.Mat4) error {
	if err := v.renderer.DrawScene(v.registry, view, proj, v.ActiveGizmo()); err != nil {
		return fmt.Errorf("scene pass: %w", err)
	}
	v.picker.Render(v.registry, view, proj)
	v.input.PickingRendered()
	return nil
}

// RenderFrame renders one frame from the viewport camera.
func (v *Viewport) RenderFrame() error {
	if err := v.dev.BeginFrame(); err != nil {
		return err
	}
	if err := v.Render(v.camera.ViewMatrix(), v.camera.ProjectionMatrix()); err != nil {
		_ = v.dev.EndFrame()
		return err
	}
	return v.dev.EndFrame()
}

func (v *Viewport) renderPicking() {
	v.picker.Render(v.registry, v.camera.ViewMatrix(), v.camera.ProjectionMatrix())
}

// Resize follows a framebuffer size change. The picking buffer is recreated empty.
func (v *Viewport) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		// Minimized windows report a zero framebuffer.
		return nil
	}
	if err := v.dev.Resize(width, height); err != nil {
		return fmt.Errorf("resize device: %w", err)
	}
	if err := v.picker.Resize(width, height); err != nil {
		return err
	}
	v.width, v.height = width, height
	v.camera.SetViewport(width, height)
	for _, g := range v.gizmos {
		g.AdjustScale(v.camera)
	}
	v.log.Infof("viewport resized to %dx%d", width, height)
	return nil
}

func (v *Viewport) Size() (int, int) { return v.width, v.height }

// FrameScene points the camera at the bounding sphere of every object.
func (v *Viewport) FrameScene() {
	objs := v.registry.Objects()
	if len(objs) == 0 {
		return
	}
	var center mgl32.Vec3
	for _, o := range objs {
		c, _ := o.WorldBounds()
		center = center.Add(c)
	}
	center = center.Mul(1 / float32(len(objs)))
	var radius float32
	for _, o := range objs {
		c, r := o.WorldBounds()
		radius = float32(math.Max(float64(radius), float64(c.Sub(center).Len()+r)))
	}
	v.camera.ShowEntireScene(center, radius)
	for _, g := range v.gizmos {
		g.AdjustScale(v.camera)
	}
}

// Status describes the editor state in short lines for an overlay.
func (v *Viewport) Status() []string {
	names := make([]string, 0)
	for _, o := range v.registry.Selected() {
		names = append(names, o.Name)
	}
	sel := "none"
	if len(names) > 0 {
		sel = strings.Join(names, ", ")
	}
	g := v.ActiveGizmo()
	return []string{
		fmt.Sprintf("gizmo: %s (hover %s)", v.active, g.Hovered()),
		fmt.Sprintf("selected: %s", sel),
	}
}

func (v *Viewport) Release() {
	for _, o := range v.registry.Objects() {
		o.Release()
	}
	for _, g := range v.gizmos {
		g.Release()
	}
	v.renderer.Release()
	v.picker.Release()
}
