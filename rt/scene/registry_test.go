package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/deepimage/rt/core"
)

func newRegistryWith(t *testing.T, positions ...mgl32.Vec3) *Registry {
	t.Helper()
	reg := NewRegistry()
	for _, p := range positions {
		obj := NewObject("cube", core.NewCube(1))
		obj.Transform.Position = p
		_, err := reg.AddObject(obj)
		require.NoError(t, err)
	}
	return reg
}

func TestAddObjectAssignsInsertionIndex(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 3; i++ {
		idx, err := reg.AddObject(NewObject("obj", core.NewCube(1)))
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
	assert.Equal(t, 3, reg.Len())

	_, err := reg.AddObject(nil)
	assert.ErrorIs(t, err, ErrNilObject)

	dup := reg.Object(0)
	_, err = reg.AddObject(dup)
	assert.Error(t, err)
}

func TestObjectsReturnsCopy(t *testing.T) {
	reg := newRegistryWith(t, mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})
	first := reg.Object(0)

	objs := reg.Objects()
	objs[0] = reg.Object(1)

	assert.Same(t, first, reg.Object(0))
	assert.Equal(t, 0, reg.IndexForColor(EncodeColor(0)))
}

func TestAddObjectEnforcesCapacity(t *testing.T) {
	reg := NewRegistry()
	mesh := core.NewCube(1)
	for i := 0; i < MaxObjects; i++ {
		if _, err := reg.AddObject(NewObject("obj", mesh)); err != nil {
			t.Fatalf("object %d: %v", i, err)
		}
	}
	_, err := reg.AddObject(NewObject("overflow", mesh))
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestIndexForColor(t *testing.T) {
	reg := newRegistryWith(t, mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{})

	for i := 0; i < reg.Len(); i++ {
		assert.Equal(t, i, reg.IndexForColor(reg.ColorForIndex(i)))
	}
	assert.Equal(t, NoObject, reg.IndexForColor(ColorCode{0, 0, 0}))
	assert.Equal(t, NoObject, reg.IndexForColor(EncodeColor(3)), "code past the last object")
}

func TestToggleSelectionPairs(t *testing.T) {
	reg := newRegistryWith(t, mgl32.Vec3{}, mgl32.Vec3{})

	first := reg.ToggleSelection(1)
	second := reg.ToggleSelection(1)

	assert.True(t, first)
	assert.Equal(t, !first, second)
	assert.False(t, reg.IsSelected(1))
	assert.False(t, reg.HasSelection())
}

func TestSelectionCentroid(t *testing.T) {
	reg := newRegistryWith(t,
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{2, 0, 0},
		mgl32.Vec3{4, 0, 0},
	)

	_, err := reg.SelectionCentroid()
	assert.ErrorIs(t, err, ErrEmptySelection)

	for i := 0; i < 3; i++ {
		reg.ToggleSelection(i)
	}
	c, err := reg.SelectionCentroid()
	require.NoError(t, err)
	assertVec3Near(t, mgl32.Vec3{2, 0, 0}, c, 1e-6)

	reg.ToggleSelection(0)
	c, err = reg.SelectionCentroid()
	require.NoError(t, err)
	assertVec3Near(t, mgl32.Vec3{3, 0, 0}, c, 1e-6)
}

func TestSelectedPreservesOrderAndResolvesHandles(t *testing.T) {
	reg := newRegistryWith(t, mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{2, 0, 0})

	reg.ToggleSelection(2)
	reg.ToggleSelection(0)

	sel := reg.Selected()
	require.Len(t, sel, 2)
	assert.Same(t, reg.Object(2), sel[0])
	assert.Same(t, reg.Object(0), sel[1])

	tr, ok := reg.Follower(sel[0].ID)
	require.True(t, ok)
	assert.Same(t, reg.Object(2).Transform, tr)

	reg.ClearSelection()
	assert.False(t, reg.HasSelection())
}

func TestOutOfRangeIndexPanics(t *testing.T) {
	reg := newRegistryWith(t, mgl32.Vec3{})

	assert.Panics(t, func() { reg.ToggleSelection(1) })
	assert.Panics(t, func() { reg.ColorForIndex(-1) })
}

func TestWorldBounds(t *testing.T) {
	obj := NewObject("cube", core.NewCube(2))
	obj.Transform.Position = mgl32.Vec3{5, 0, 0}
	obj.Transform.Scale = mgl32.Vec3{1, 3, 1}

	c, r := obj.WorldBounds()
	assertVec3Near(t, mgl32.Vec3{5, 0, 0}, c, 1e-5)
	assert.InDelta(t, 3*1.7320508, r, 1e-4)
}

// assertVec3Near compares component-wise with an absolute tolerance.
func assertVec3Near(t *testing.T, want, got mgl32.Vec3, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta, msgAndArgs...)
}
