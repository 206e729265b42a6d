package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/deepimage/rt/core"
)

var (
	ErrEmptySelection = errors.New("scene: selection is empty")
	ErrCapacity       = errors.New("scene: object capacity reached")
	ErrNilObject      = errors.New("scene: nil object")
)

// Registry owns the scene objects. An object's index is its insertion position and
// doubles as its picking identity.
type Registry struct {
	objects  []*Object
	byID     map[uuid.UUID]int
	selected []uuid.UUID
}

func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[uuid.UUID]int),
	}
}

// AddObject appends obj and returns its index.
func (r *Registry) AddObject(obj *Object) (int, error) {
	if obj == nil {
		return NoObject, ErrNilObject
	}
	if len(r.objects) >= MaxObjects {
		return NoObject, fmt.Errorf("add %q: %w (%d)", obj.Name, ErrCapacity, MaxObjects)
	}
	if _, dup := r.byID[obj.ID]; dup {
		return NoObject, fmt.Errorf("add %q: duplicate id %s", obj.Name, obj.ID)
	}
	idx := len(r.objects)
	r.objects = append(r.objects, obj)
	r.byID[obj.ID] = idx
	return idx, nil
}

func (r *Registry) Len() int { return len(r.objects) }

// Objects returns a copy of the object list in index order.
func (r *Registry) Objects() []*Object {
	return append([]*Object(nil), r.objects...)
}

func (r *Registry) Object(i int) *Object {
	r.mustIndex(i)
	return r.objects[i]
}

// Lookup resolves a stable handle.
func (r *Registry) Lookup(id uuid.UUID) (*Object, bool) {
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.objects[i], true
}

// Follower resolves a handle to the transform a gizmo frame drives.
func (r *Registry) Follower(id uuid.UUID) (*core.Transform, bool) {
	obj, ok := r.Lookup(id)
	if !ok {
		return nil, false
	}
	return obj.Transform, true
}

func (r *Registry) ColorForIndex(i int) ColorCode {
	r.mustIndex(i)
	return EncodeColor(i)
}

// IndexForColor returns the object index for a picking color, or NoObject.
func (r *Registry) IndexForColor(c ColorCode) int {
	i := DecodeColor(c)
	if i >= len(r.objects) {
		return NoObject
	}
	return i
}

// ToggleSelection adds or removes object i and reports whether it is now selected.
func (r *Registry) ToggleSelection(i int) bool {
	r.mustIndex(i)
	id := r.objects[i].ID
	for k, s := range r.selected {
		if s == id {
			r.selected = append(r.selected[:k], r.selected[k+1:]...)
			return false
		}
	}
	r.selected = append(r.selected, id)
	return true
}

func (r *Registry) IsSelected(i int) bool {
	r.mustIndex(i)
	id := r.objects[i].ID
	for _, s := range r.selected {
		if s == id {
			return true
		}
	}
	return false
}

func (r *Registry) HasSelection() bool { return len(r.selected) > 0 }

// Selected returns the selected objects in selection order.
func (r *Registry) Selected() []*Object {
	out := make([]*Object, 0, len(r.selected))
	for _, id := range r.selected {
		if obj, ok := r.Lookup(id); ok {
			out = append(out, obj)
		}
	}
	return out
}

func (r *Registry) SelectedIDs() []uuid.UUID {
	return append([]uuid.UUID(nil), r.selected...)
}

func (r *Registry) ClearSelection() {
	r.selected = r.selected[:0]
}

// SelectionCentroid is the mean world position of the selection.
func (r *Registry) SelectionCentroid() (mgl32.Vec3, error) {
	sel := r.Selected()
	if len(sel) == 0 {
		return mgl32.Vec3{}, ErrEmptySelection
	}
	var sum mgl32.Vec3
	for _, obj := range sel {
		sum = sum.Add(obj.Transform.Position)
	}
	return sum.Mul(1 / float32(len(sel))), nil
}

func (r *Registry) mustIndex(i int) {
	if i < 0 || i >= len(r.objects) {
		panic(fmt.Sprintf("scene: object index %d out of range [0,%d)", i, len(r.objects)))
	}
}
