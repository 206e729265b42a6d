package deepimage

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/deepimage/rt/core"
	"github.com/gekko3d/deepimage/rt/gizmo"
	"github.com/gekko3d/deepimage/rt/scene"
	"github.com/gekko3d/deepimage/rt/soft"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Window.Width, cfg.Window.Height = 200, 150
	cfg.Camera.Yaw, cfg.Camera.Pitch, cfg.Camera.Distance = 0, 0, 10
	cfg.Grid.Rows, cfg.Grid.Cols = 0, 0
	cfg.Scene = SceneDef{Objects: []ObjectDef{
		{Name: "left", Shape: "cube", Size: 1, Position: [3]float32{-2.5, 0, 0}},
		{Name: "middle", Shape: "cube", Size: 1, Position: [3]float32{0, 0, 0}},
		{Name: "right", Shape: "cube", Size: 1, Position: [3]float32{2.5, 0, 0}},
	}}
	return cfg
}

func newTestViewport(t *testing.T) (*Viewport, *soft.Device) {
	t.Helper()
	cfg := testConfig()
	dev, err := soft.NewDevice(cfg.Window.Width, cfg.Window.Height)
	require.NoError(t, err)
	v, err := NewViewport(dev, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(v.Release)
	return v, dev
}

func (v *Viewport) screenOf(p mgl32.Vec3) PointerEvent {
	s := v.Camera().Project(p)
	return PointerEvent{X: int(s.X()), Y: int(s.Y()), Button: ButtonLeft}
}

func (v *Viewport) clickAt(ev PointerEvent) {
	v.OnMousePressed(ev)
	v.OnMouseReleased(ev)
}

func TestNewViewportRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Gizmo = "scale"
	dev, err := soft.NewDevice(10, 10)
	require.NoError(t, err)

	_, err = NewViewport(dev, cfg, nil)
	assert.Error(t, err)
}

func TestViewportLoadsScene(t *testing.T) {
	v, _ := newTestViewport(t)

	require.Equal(t, 3, v.Registry().Len())
	assert.Equal(t, "middle", v.Registry().Object(1).Name)
	assert.Equal(t, gizmo.Translate, v.Variant())
	assert.Same(t, v.Gizmo(gizmo.Translate), v.ActiveGizmo())
	assert.True(t, v.Picker().Stale())
	w, h := v.Size()
	assert.Equal(t, [2]int{200, 150}, [2]int{w, h})
}

func TestClickSelectsAndDeselects(t *testing.T) {
	v, _ := newTestViewport(t)
	left := v.Registry().Object(0)

	v.clickAt(v.screenOf(mgl32.Vec3{-2.5, 0, 0.5}))

	require.True(t, v.Registry().IsSelected(0))
	g := v.ActiveGizmo()
	assert.Equal(t, left.Transform.Position, g.Frame().Position)
	assert.Equal(t, v.Registry().SelectedIDs(), g.Frame().Followers())
	assert.False(t, v.Picker().Stale())
	assert.Equal(t, "selected: left", v.Status()[1])

	v.clickAt(v.screenOf(mgl32.Vec3{-2.5, 0, 0.5}))
	assert.False(t, v.Registry().HasSelection())
	assert.Empty(t, g.Frame().Followers())
	assert.Equal(t, "selected: none", v.Status()[1])
}

func TestClickBackgroundKeepsSelection(t *testing.T) {
	v, _ := newTestViewport(t)
	v.clickAt(v.screenOf(mgl32.Vec3{2.5, 0, 0.5}))
	require.True(t, v.Registry().IsSelected(2))

	v.clickAt(PointerEvent{X: 3, Y: 3, Button: ButtonLeft})

	assert.Equal(t, []int{2}, selectedIndices(v))
}

func TestHiddenGizmoDoesNotBlockPicking(t *testing.T) {
	v, _ := newTestViewport(t)
	g := v.ActiveGizmo()
	ev := v.screenOf(mgl32.Vec3{0, 0, 0.5})

	v.OnMouseMoved(ev)
	assert.Equal(t, gizmo.AxisNone, g.Hovered())
	v.clickAt(ev)
	assert.Equal(t, []int{1}, selectedIndices(v))
	assert.False(t, g.Dragging())

	v.clickAt(ev)
	require.False(t, v.Registry().HasSelection())
	v.OnMouseMoved(ev)
	assert.Equal(t, gizmo.AxisNone, g.Hovered(), "the old pivot stays inert")
	v.clickAt(ev)
	assert.Equal(t, []int{1}, selectedIndices(v))
}

func TestAddedObjectIsPickableBeforeNextRender(t *testing.T) {
	v, _ := newTestViewport(t)
	v.clickAt(PointerEvent{X: 3, Y: 3, Button: ButtonLeft})
	require.False(t, v.Picker().Stale())

	obj := scene.NewObject("top", core.NewCube(1))
	obj.Transform.Position = mgl32.Vec3{0, 2, 0}
	idx, err := v.AddObject(obj)
	require.NoError(t, err)

	v.clickAt(v.screenOf(mgl32.Vec3{0, 2, 0.5}))
	assert.Equal(t, []int{idx}, selectedIndices(v))
}

func selectedIndices(v *Viewport) []int {
	var out []int
	for i := 0; i < v.Registry().Len(); i++ {
		if v.Registry().IsSelected(i) {
			out = append(out, i)
		}
	}
	return out
}

func TestResizeRefreshesPickingBeforeNextPick(t *testing.T) {
	v, _ := newTestViewport(t)
	v.clickAt(v.screenOf(mgl32.Vec3{2.5, 0, 0.5}))
	require.False(t, v.Picker().Stale())

	require.NoError(t, v.Resize(160, 120))
	assert.True(t, v.Picker().Stale())
	pw, ph := v.Picker().Size()
	assert.Equal(t, [2]int{160, 120}, [2]int{pw, ph})

	v.clickAt(v.screenOf(mgl32.Vec3{-2.5, 0, 0.5}))
	assert.Equal(t, []int{0, 2}, selectedIndices(v))
	assert.False(t, v.Picker().Stale())

	require.NoError(t, v.Resize(0, 0))
	w, h := v.Size()
	assert.Equal(t, [2]int{160, 120}, [2]int{w, h}, "zero size is ignored")
}

func TestDragTranslatesSelection(t *testing.T) {
	v, _ := newTestViewport(t)
	v.clickAt(v.screenOf(mgl32.Vec3{-2.5, 0, 0.5}))
	g := v.ActiveGizmo()
	require.InDelta(t, 1, g.ScreenFactor(), 1e-4)

	handle := v.screenOf(mgl32.Vec3{-2.5 + 1.5*g.ScreenFactor(), 0, 0})
	v.OnMouseMoved(handle)
	require.Equal(t, gizmo.AxisX, g.Hovered())
	assert.Contains(t, v.Status()[0], "hover X")

	v.OnMousePressed(handle)
	require.True(t, g.Dragging())
	moved := handle
	moved.X += 20
	moved.Y += 7
	v.OnMouseMoved(moved)
	v.OnMouseReleased(moved)

	left := v.Registry().Object(0).Transform.Position
	assert.Greater(t, left.X(), float32(-2.5))
	assert.InDelta(t, 0, left.Y(), 1e-4)
	assert.InDelta(t, 0, left.Z(), 1e-4)
	assert.InDelta(t, left.X(), g.Frame().Position.X(), 1e-4)
	assert.False(t, g.Dragging())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, v.Registry().Object(1).Transform.Position)
}

func TestSwitchVariantRebindsSelection(t *testing.T) {
	v, _ := newTestViewport(t)
	v.clickAt(v.screenOf(mgl32.Vec3{-2.5, 0, 0.5}))

	v.SetActiveGizmoVariant(gizmo.Rotate)

	g := v.ActiveGizmo()
	assert.Equal(t, gizmo.Rotate, g.Variant())
	assert.Equal(t, v.Registry().SelectedIDs(), g.Frame().Followers())
	assert.Equal(t, mgl32.Vec3{-2.5, 0, 0}, g.Frame().Position)
	assert.InDelta(t, 2, g.ScreenFactor(), 1e-4)

	v.SetActiveGizmoVariant(gizmo.Variant(7))
	assert.Equal(t, gizmo.Rotate, v.Variant())
}

func TestWheelZoomsCamera(t *testing.T) {
	v, _ := newTestViewport(t)

	v.OnWheel(WheelEvent{Delta: 1})

	assert.InDelta(t, 9, v.Camera().Distance, 1e-4)
	assert.InDelta(t, 0.9, v.ActiveGizmo().ScreenFactor(), 1e-4)
}

func TestDragBackgroundOrbits(t *testing.T) {
	v, _ := newTestViewport(t)
	yaw := v.Camera().Yaw

	v.OnMousePressed(PointerEvent{X: 3, Y: 3, Button: ButtonLeft})
	v.OnMouseMoved(PointerEvent{X: 30, Y: 3, Button: ButtonLeft})
	v.OnMouseReleased(PointerEvent{X: 30, Y: 3})

	assert.NotEqual(t, yaw, v.Camera().Yaw)
	assert.False(t, v.Registry().HasSelection())
}

func TestRenderFrame(t *testing.T) {
	v, dev := newTestViewport(t)

	require.NoError(t, v.RenderFrame())

	assert.Equal(t, 1, dev.Frames())
	assert.False(t, v.Picker().Stale())
	bg, err := dev.Screen().ReadPixel(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, bg[0], 1e-3)
	assert.Equal(t, 3, v.Renderer().Stats().Drawn)
}

func TestFrameScene(t *testing.T) {
	v, _ := newTestViewport(t)

	v.FrameScene()

	cam := v.Camera()
	assert.InDelta(t, 0, cam.Target.Len(), 1e-4)
	for _, o := range v.Registry().Objects() {
		c, r := o.WorldBounds()
		assert.Greater(t, cam.Distance, c.Sub(cam.Target).Len()+r)
	}
}
