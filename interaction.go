package deepimage

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/deepimage/rt/core"
	"github.com/gekko3d/deepimage/rt/gizmo"
	"github.com/gekko3d/deepimage/rt/scene"
)

// Navigator is a camera the user can steer.
type Navigator interface {
	core.Camera
	Orbit(dx, dy float32)
	Pan(dx, dy float32)
	Zoom(steps float32)
}

// PixelPicker resolves a screen pixel to an object index.
type PixelPicker interface {
	Stale() bool
	Pick(reg *scene.Registry, x, y int) (int, error)
}

// Interaction routes pointer input to a gizmo first and to picking and camera
// navigation otherwise. The gizmo to drive is passed to every call, so the caller
// decides which variant is active.
type Interaction struct {
	Registry *scene.Registry
	Camera   Navigator
	Picker   PixelPicker
	Log      Logger

	// RefreshPicking redraws the picking buffer. It runs before a pick whenever the
	// buffer is stale or the view or scene changed since it was last drawn.
	RefreshPicking func()

	last    mgl32.Vec2
	button  MouseButton
	changed bool
}

func (in *Interaction) logger() Logger {
	if in.Log == nil {
		return NewNopLogger()
	}
	return in.Log
}

// Press gives a visible gizmo the first chance at the event; otherwise a left
// click toggles the object under the cursor and any button starts camera navigation.
func (in *Interaction) Press(g *gizmo.Gizmo, ev PointerEvent) {
	cursor := ev.Cursor()
	in.last = cursor
	if in.Registry.HasSelection() {
		g.MousePressed(cursor, in.Camera)
		if g.IsHover() {
			return
		}
	}
	in.button = ev.Button
	if ev.Button == ButtonLeft {
		in.pick(g, ev)
	}
}

func (in *Interaction) pick(g *gizmo.Gizmo, ev PointerEvent) {
	if in.RefreshPicking != nil && (in.changed || in.Picker.Stale()) {
		in.RefreshPicking()
		in.changed = false
	}
	idx, err := in.Picker.Pick(in.Registry, ev.X, ev.Y)
	if err != nil {
		in.logger().Errorf("pick at (%d,%d): %v", ev.X, ev.Y, err)
		return
	}
	if idx < 0 {
		return
	}

	selected := in.Registry.ToggleSelection(idx)
	obj := in.Registry.Object(idx)
	if selected {
		g.Follow(obj.ID)
	} else {
		g.Unfollow(obj.ID)
	}
	in.placeGizmo(g)
	in.logger().Debugf("object %d %q selected=%v (%d selected)", idx, obj.Name, selected, len(in.Registry.SelectedIDs()))
}

// Move updates hover, then either drags the gizmo or steers the camera.
func (in *Interaction) Move(g *gizmo.Gizmo, ev PointerEvent) {
	cursor := ev.Cursor()
	prev := in.last
	in.last = cursor

	// The gizmo is only drawn, and so only hoverable, while something is selected.
	if in.Registry.HasSelection() {
		g.MouseMoved(cursor, in.Camera)
	} else {
		g.ClearHover()
	}
	if g.Dragging() {
		if g.Drag(prev, cursor, in.Camera, in.Registry) {
			in.changed = true
		}
		return
	}

	d := cursor.Sub(prev)
	switch in.button {
	case ButtonLeft:
		in.Camera.Orbit(d.X(), d.Y())
	case ButtonRight, ButtonMiddle:
		in.Camera.Pan(d.X(), d.Y())
	default:
		return
	}
	in.changed = true
	g.AdjustScale(in.Camera)
}

func (in *Interaction) Release(g *gizmo.Gizmo, ev PointerEvent) {
	cursor := ev.Cursor()
	in.last = cursor
	g.MouseReleased(cursor, in.Camera)
	in.button = ButtonNone
}

func (in *Interaction) Wheel(g *gizmo.Gizmo, ev WheelEvent) {
	in.Camera.Zoom(ev.Delta)
	in.changed = true
	g.AdjustScale(in.Camera)
}

// Rebind attaches g to the current selection.
func (in *Interaction) Rebind(g *gizmo.Gizmo) {
	g.ClearFollowers()
	for _, id := range in.Registry.SelectedIDs() {
		g.Follow(id)
	}
	in.placeGizmo(g)
}

// Invalidate forces a picking redraw before the next pick.
func (in *Interaction) Invalidate() {
	in.changed = true
}

// PickingRendered records that the picking buffer matches the current view.
func (in *Interaction) PickingRendered() {
	in.changed = false
}

func (in *Interaction) placeGizmo(g *gizmo.Gizmo) {
	if !in.Registry.HasSelection() {
		g.ClearHover()
		return
	}
	c, err := in.Registry.SelectionCentroid()
	if err != nil {
		return
	}
	g.SetPosition(c)
	g.AdjustScale(in.Camera)
}
