package gpu

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/deepimage/rt/core"
	"github.com/gekko3d/deepimage/rt/gfx"
	"github.com/gekko3d/deepimage/rt/shaders"
)

func TestVertexBufferLayout(t *testing.T) {
	layout := vertexBufferLayout(vertex{})

	assert.Equal(t, uint64(40), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	require.Len(t, layout.Attributes, 3)
	assert.Equal(t, wgpu.VertexAttribute{ShaderLocation: 0, Offset: 0, Format: wgpu.VertexFormatFloat32x3}, layout.Attributes[0])
	assert.Equal(t, wgpu.VertexAttribute{ShaderLocation: 1, Offset: 12, Format: wgpu.VertexFormatFloat32x3}, layout.Attributes[1])
	assert.Equal(t, wgpu.VertexAttribute{ShaderLocation: 2, Offset: 24, Format: wgpu.VertexFormatFloat32x4}, layout.Attributes[2])
}

func TestVertexBufferLayoutRejectsBadInput(t *testing.T) {
	assert.Panics(t, func() { vertexBufferLayout(42) })
	assert.Panics(t, func() { parseFormat("float16x3") })
}

func TestDrawBlockFitsSlot(t *testing.T) {
	assert.Equal(t, 160, blockSize())
	assert.LessOrEqual(t, blockSize(), uniformAlign)
	assert.Equal(t, uint32(0), slotOffset(0))
	assert.Equal(t, uint32(512), slotOffset(2))
}

func TestUniformRingFull(t *testing.T) {
	r := &uniformRing{next: uniformSlots - 1}
	assert.False(t, r.full())
	r.next++
	assert.True(t, r.full())
	_, err := r.push(nil, drawBlock{})
	assert.Error(t, err)
	r.reset()
	assert.False(t, r.full())
}

func TestPackVertices(t *testing.T) {
	m := core.NewCube(2)
	vs := packVertices(m)
	require.Len(t, vs, m.VertexCount())
	assert.Equal(t, [3]float32(m.Positions[5]), vs[5].Position)
	assert.Equal(t, [3]float32(m.Normals[5]), vs[5].Normal)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, vs[5].Color, "no vertex colors defaults to white")

	grid := core.NewCheckerboard(2, 2, 1, mgl32.Vec4{1, 0, 0, 1}, mgl32.Vec4{0, 0, 1, 1})
	gv := packVertices(grid)
	assert.Equal(t, [4]float32(grid.Colors[0]), gv[0].Color)
}

func TestValidateMesh(t *testing.T) {
	assert.NoError(t, validateMesh(core.NewCube(1)))
	assert.Error(t, validateMesh(nil))
	assert.Error(t, validateMesh(&core.Mesh{}))

	bad := core.NewCube(1)
	bad.Indices = append(bad.Indices, 0)
	assert.Error(t, validateMesh(bad))

	bad = core.NewCube(1)
	bad.Indices[0] = 999
	assert.Error(t, validateMesh(bad))
}

func TestFragmentEntries(t *testing.T) {
	assert.Equal(t, shaders.SolidEntry, fragmentEntry(gfx.ProgramSolid))
	assert.Equal(t, shaders.PhongEntry, fragmentEntry(gfx.ProgramPhong))
	assert.Equal(t, shaders.VertexColorEntry, fragmentEntry(gfx.ProgramVertexColor))
	for _, entry := range []string{shaders.VertexEntry, shaders.SolidEntry, shaders.PhongEntry, shaders.VertexColorEntry} {
		assert.Contains(t, shaders.SceneWGSL, "fn "+entry+"(")
	}
}

func TestReadbackHelpers(t *testing.T) {
	assert.Equal(t, 149, textureRow(0, 150))
	assert.Equal(t, 0, textureRow(149, 150))
	assert.Equal(t, [3]float32{1, 0, 100.0 / 255}, unpackRGBA8([]byte{255, 0, 100, 255}))
}

func TestProgramBlock(t *testing.T) {
	p := newProgram(nil, gfx.ProgramSolid)
	p.SetUniformMatrix4(gfx.UniformMVP, mgl32.Scale3D(2, 2, 2))
	p.SetUniformVec4(gfx.UniformColor, mgl32.Vec4{0, 0, 100.0 / 255, 1})
	p.SetUniformVec4("u_Unknown", mgl32.Vec4{9, 9, 9, 9})

	b := p.block()
	assert.Equal(t, mgl32.Scale3D(2, 2, 2), b.MVP)
	assert.Equal(t, mgl32.Ident4(), b.Model)
	assert.Equal(t, mgl32.Vec4{0, 0, 100.0 / 255, 1}, b.Color)
	assert.Equal(t, light, b.Light)
}

func TestRecordingFailureIsReportedOnce(t *testing.T) {
	d := &Device{}
	assert.NoError(t, d.takeErr())

	first := errors.New("pipeline")
	d.fail(first)
	d.fail(errors.New("uniforms"))

	assert.ErrorIs(t, d.takeErr(), first)
	assert.NoError(t, d.takeErr())
}
