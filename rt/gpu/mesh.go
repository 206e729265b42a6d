package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/deepimage/rt/core"
)

// Mesh is an indexed triangle list in device memory.
type Mesh struct {
	dev      *Device
	vertices *wgpu.Buffer
	indices  *wgpu.Buffer
	count    uint32
}

// packVertices interleaves m. Missing normals or colors are zero and white.
func packVertices(m *core.Mesh) []vertex {
	out := make([]vertex, len(m.Positions))
	hasNormals := len(m.Normals) == len(m.Positions)
	hasColors := len(m.Colors) == len(m.Positions)
	for i, p := range m.Positions {
		v := vertex{Position: p, Color: [4]float32{1, 1, 1, 1}}
		if hasNormals {
			v.Normal = m.Normals[i]
		}
		if hasColors {
			v.Color = m.Colors[i]
		}
		out[i] = v
	}
	return out
}

func validateMesh(m *core.Mesh) error {
	if m == nil {
		return fmt.Errorf("gpu: nil mesh")
	}
	if len(m.Positions) == 0 || len(m.Indices) == 0 {
		return fmt.Errorf("gpu: empty mesh")
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("gpu: index count %d is not a multiple of 3", len(m.Indices))
	}
	for _, i := range m.Indices {
		if int(i) >= len(m.Positions) {
			return fmt.Errorf("gpu: index %d out of range (%d vertices)", i, len(m.Positions))
		}
	}
	return nil
}

func newMesh(d *Device, m *core.Mesh) (*Mesh, error) {
	if err := validateMesh(m); err != nil {
		return nil, err
	}
	vb, err := d.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Mesh Vertex Buffer",
		Contents: wgpu.ToBytes(packVertices(m)),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: vertex buffer: %w", err)
	}
	ib, err := d.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Mesh Index Buffer",
		Contents: wgpu.ToBytes(m.Indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("gpu: index buffer: %w", err)
	}
	return &Mesh{dev: d, vertices: vb, indices: ib, count: uint32(len(m.Indices))}, nil
}

func (m *Mesh) Draw() {
	if m.vertices != nil {
		m.dev.draw(m)
	}
}

func (m *Mesh) Release() {
	if m.vertices != nil {
		m.vertices.Release()
		m.indices.Release()
		m.vertices, m.indices = nil, nil
	}
}
