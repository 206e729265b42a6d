package deepimage

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/deepimage/rt/core"
	"github.com/gekko3d/deepimage/rt/scene"
)

// SceneDef defines the initial objects of the editor scene.
type SceneDef struct {
	Objects []ObjectDef `yaml:"objects"`
}

// ObjectDef defines a procedural object. Rotation is XYZ Euler angles in degrees.
type ObjectDef struct {
	Name     string     `yaml:"name"`
	Shape    string     `yaml:"shape"` // "cube", "sphere"
	Size     float32    `yaml:"size"`
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"`
	Scale    [3]float32 `yaml:"scale,omitempty"`
}

func DefaultScene() SceneDef {
	return SceneDef{Objects: []ObjectDef{
		{Name: "cube", Shape: "cube", Size: 1, Position: [3]float32{-2, 0.5, 0}},
		{Name: "sphere", Shape: "sphere", Size: 0.6, Position: [3]float32{0, 0.6, 0}},
		{Name: "crate", Shape: "cube", Size: 1.2, Position: [3]float32{2, 0.6, -1}, Rotation: [3]float32{0, 30, 0}},
	}}
}

func (s SceneDef) Validate() error {
	for i, o := range s.Objects {
		if _, err := o.mesh(); err != nil {
			return fmt.Errorf("scene object %d (%q): %w", i, o.Name, err)
		}
	}
	return nil
}

func (o ObjectDef) mesh() (*core.Mesh, error) {
	if o.Size <= 0 {
		return nil, fmt.Errorf("size %v must be positive", o.Size)
	}
	switch o.Shape {
	case "cube":
		return core.NewCube(o.Size), nil
	case "sphere":
		return core.NewUVSphere(o.Size, 16, 24), nil
	}
	return nil, fmt.Errorf("unknown shape %q", o.Shape)
}

// Build creates the object described by o.
func (o ObjectDef) Build() (*scene.Object, error) {
	m, err := o.mesh()
	if err != nil {
		return nil, err
	}
	name := o.Name
	if name == "" {
		name = o.Shape
	}
	obj := scene.NewObject(name, m)
	obj.Transform.Position = mgl32.Vec3(o.Position)
	obj.Transform.Rotation = mgl32.AnglesToQuat(
		mgl32.DegToRad(o.Rotation[0]),
		mgl32.DegToRad(o.Rotation[1]),
		mgl32.DegToRad(o.Rotation[2]),
		mgl32.XYZ,
	)
	if o.Scale != ([3]float32{}) {
		obj.Transform.Scale = mgl32.Vec3(o.Scale)
	}
	return obj, nil
}
