package gpu

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/deepimage/rt/gfx"
	"github.com/gekko3d/deepimage/rt/shaders"
)

const (
	depthFormat    = wgpu.TextureFormatDepth24Plus
	offscreenColor = wgpu.TextureFormatRGBA8Unorm

	// Dynamic uniform offsets must be multiples of this.
	uniformAlign = 256
	uniformSlots = 4096
)

// vertex is the interleaved layout consumed by vs_main.
type vertex struct {
	Position [3]float32 `gpu:"layout" location:"0" format:"float32x3"`
	Normal   [3]float32 `gpu:"layout" location:"1" format:"float32x3"`
	Color    [4]float32 `gpu:"layout" location:"2" format:"float32x4"`
}

// drawBlock mirrors DrawUniforms in scene.wgsl.
type drawBlock struct {
	MVP   mgl32.Mat4
	Model mgl32.Mat4
	Color mgl32.Vec4
	Light mgl32.Vec4
}

func parseFormat(s string) wgpu.VertexFormat {
	switch s {
	case "float32":
		return wgpu.VertexFormatFloat32
	case "float32x2":
		return wgpu.VertexFormatFloat32x2
	case "float32x3":
		return wgpu.VertexFormatFloat32x3
	case "float32x4":
		return wgpu.VertexFormatFloat32x4
	case "uint32":
		return wgpu.VertexFormatUint32
	}
	panic(fmt.Sprintf("gpu: unsupported vertex format %q", s))
}

// vertexBufferLayout reads attribute locations and formats from struct tags.
func vertexBufferLayout(vertexType any) wgpu.VertexBufferLayout {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		panic("gpu: vertex must be a struct")
	}

	var attributes []wgpu.VertexAttribute
	var offset uint64
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("gpu") == "layout" {
			location, err := strconv.Atoi(field.Tag.Get("location"))
			if err != nil {
				panic(err)
			}
			attributes = append(attributes, wgpu.VertexAttribute{
				ShaderLocation: uint32(location),
				Offset:         offset,
				Format:         parseFormat(field.Tag.Get("format")),
			})
		}
		offset += uint64(field.Type.Size())
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}
}

func fragmentEntry(kind gfx.ProgramKind) string {
	switch kind {
	case gfx.ProgramSolid:
		return shaders.SolidEntry
	case gfx.ProgramVertexColor:
		return shaders.VertexColorEntry
	}
	return shaders.PhongEntry
}

type pipelineKey struct {
	kind   gfx.ProgramKind
	format wgpu.TextureFormat
}

// pipelineCache builds one render pipeline per program and color format.
type pipelineCache struct {
	device    *wgpu.Device
	module    *wgpu.ShaderModule
	layout    *wgpu.PipelineLayout
	pipelines map[pipelineKey]*wgpu.RenderPipeline
}

func newPipelineCache(device *wgpu.Device, bgl *wgpu.BindGroupLayout) (*pipelineCache, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "SceneShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.SceneWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: scene shader: %w", err)
	}
	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "SceneLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		module.Release()
		return nil, fmt.Errorf("gpu: pipeline layout: %w", err)
	}
	return &pipelineCache{
		device:    device,
		module:    module,
		layout:    layout,
		pipelines: make(map[pipelineKey]*wgpu.RenderPipeline),
	}, nil
}

func (c *pipelineCache) get(kind gfx.ProgramKind, format wgpu.TextureFormat) (*wgpu.RenderPipeline, error) {
	key := pipelineKey{kind: kind, format: format}
	if p, ok := c.pipelines[key]; ok {
		return p, nil
	}
	p, err := c.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Scene " + kind.String(),
		Layout: c.layout,
		Vertex: wgpu.VertexState{
			Module:     c.module,
			EntryPoint: shaders.VertexEntry,
			Buffers:    []wgpu.VertexBufferLayout{vertexBufferLayout(vertex{})},
		},
		Fragment: &wgpu.FragmentState{
			Module:     c.module,
			EntryPoint: fragmentEntry(kind),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: %s pipeline: %w", kind, err)
	}
	c.pipelines[key] = p
	return p, nil
}

func (c *pipelineCache) release() {
	for k, p := range c.pipelines {
		p.Release()
		delete(c.pipelines, k)
	}
	c.layout.Release()
	c.module.Release()
}

// uniformRing hands out 256-byte slots of one uniform buffer, bound with a
// dynamic offset. Slots are reused after the recorded work is submitted.
type uniformRing struct {
	buffer *wgpu.Buffer
	layout *wgpu.BindGroupLayout
	group  *wgpu.BindGroup
	next   uint32
}

func newUniformRing(device *wgpu.Device) (*uniformRing, error) {
	size := uint64(blockSize())
	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "DrawUniformsBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   size,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: uniform layout: %w", err)
	}
	buffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "DrawUniforms",
		Size:  uniformAlign * uniformSlots,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		layout.Release()
		return nil, fmt.Errorf("gpu: uniform buffer: %w", err)
	}
	group, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "DrawUniformsBG",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buffer, Size: size},
		},
	})
	if err != nil {
		buffer.Release()
		layout.Release()
		return nil, fmt.Errorf("gpu: uniform bind group: %w", err)
	}
	return &uniformRing{buffer: buffer, layout: layout, group: group}, nil
}

func blockSize() int { return int(reflect.TypeOf(drawBlock{}).Size()) }

func slotOffset(slot uint32) uint32 { return slot * uniformAlign }

func (r *uniformRing) full() bool { return r.next >= uniformSlots }

// push writes b into the next slot and returns its dynamic offset.
func (r *uniformRing) push(queue *wgpu.Queue, b drawBlock) (uint32, error) {
	if r.full() {
		return 0, fmt.Errorf("gpu: uniform ring exhausted")
	}
	offset := slotOffset(r.next)
	if err := queue.WriteBuffer(r.buffer, uint64(offset), wgpu.ToBytes([]drawBlock{b})); err != nil {
		return 0, err
	}
	r.next++
	return offset, nil
}

func (r *uniformRing) reset() { r.next = 0 }

func (r *uniformRing) release() {
	r.group.Release()
	r.buffer.Release()
	r.layout.Release()
}
