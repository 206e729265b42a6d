// Package gpu is the windowed graphics context, built on WebGPU.
//
// Draws are recorded into one command encoder per frame. Reading a pixel back
// submits the recorded work and waits for the copy, so picks see every draw that
// preceded them.
package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/deepimage/rt/core"
	"github.com/gekko3d/deepimage/rt/gfx"
)

// Device implements gfx.Device on a window surface.
type Device struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	config   *wgpu.SurfaceConfiguration

	pipelines *pipelineCache
	uniforms  *uniformRing
	programs  map[gfx.ProgramKind]*Program
	current   *Program

	screen  *Target
	bound   *Target
	frame   *wgpu.Texture
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder

	// err is the first recording failure since it was last reported.
	err error
}

// NewDevice creates a device presenting to the surface described by desc.
func NewDevice(desc *wgpu.SurfaceDescriptor, width, height int) (*Device, error) {
	d := &Device{instance: wgpu.CreateInstance(nil)}
	d.surface = d.instance.CreateSurface(desc)

	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: d.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}
	d.adapter = adapter

	d.device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "DeepImage Device"})
	if err != nil {
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}
	d.queue = d.device.GetQueue()

	caps := d.surface.GetCapabilities(adapter)
	d.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	d.surface.Configure(adapter, d.device, d.config)

	if d.uniforms, err = newUniformRing(d.device); err != nil {
		return nil, err
	}
	if d.pipelines, err = newPipelineCache(d.device, d.uniforms.layout); err != nil {
		return nil, err
	}
	d.programs = make(map[gfx.ProgramKind]*Program)
	for _, k := range []gfx.ProgramKind{gfx.ProgramPhong, gfx.ProgramSolid, gfx.ProgramVertexColor} {
		d.programs[k] = newProgram(d, k)
	}

	if d.screen, err = d.newScreenTarget(width, height); err != nil {
		return nil, err
	}
	d.bound = d.screen
	return d, nil
}

// Format is the surface texture format.
func (d *Device) Format() wgpu.TextureFormat { return d.config.Format }

func (d *Device) UploadMesh(m *core.Mesh) (gfx.Mesh, error) {
	return newMesh(d, m)
}

func (d *Device) Program(kind gfx.ProgramKind) gfx.Program {
	p, ok := d.programs[kind]
	if !ok {
		panic(fmt.Sprintf("gpu: unknown program %v", kind))
	}
	return p
}

func (d *Device) NewTarget(width, height int) (gfx.Target, error) {
	return d.newOffscreenTarget(width, height)
}

func (d *Device) BindTarget(t gfx.Target) {
	next := d.screen
	if t != nil {
		gt, ok := t.(*Target)
		if !ok {
			panic(fmt.Sprintf("gpu: foreign target %T", t))
		}
		next = gt
	}
	if next != d.bound {
		d.endPass()
		d.bound = next
	}
}

func (d *Device) Clear(color mgl32.Vec4) {
	d.beginPass(&color, false)
}

func (d *Device) ClearDepth() {
	d.beginPass(nil, true)
}

func (d *Device) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("gpu: invalid size %dx%d", width, height)
	}
	d.endPass()
	d.config.Width = uint32(width)
	d.config.Height = uint32(height)
	d.surface.Configure(d.adapter, d.device, d.config)

	screen, err := d.newScreenTarget(width, height)
	if err != nil {
		return err
	}
	rebind := d.bound == d.screen
	d.screen.Release()
	d.screen = screen
	if rebind {
		d.bound = screen
	}
	return nil
}

func (d *Device) BeginFrame() error {
	if d.frame != nil {
		return fmt.Errorf("gpu: frame already begun")
	}
	tex, err := d.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("gpu: acquire surface texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("gpu: surface view: %w", err)
	}
	d.frame = tex
	d.screen.colorView = view
	d.BindTarget(nil)
	return nil
}

func (d *Device) EndFrame() error {
	if d.frame == nil {
		return fmt.Errorf("gpu: no frame in progress")
	}
	err := errors.Join(d.flush(), d.takeErr())
	d.surface.Present()

	d.screen.colorView.Release()
	d.screen.colorView = nil
	d.frame.Release()
	d.frame = nil
	return err
}

func (d *Device) commandEncoder() (*wgpu.CommandEncoder, error) {
	if d.encoder == nil {
		enc, err := d.device.CreateCommandEncoder(nil)
		if err != nil {
			return nil, fmt.Errorf("gpu: command encoder: %w", err)
		}
		d.encoder = enc
	}
	return d.encoder, nil
}

// beginPass ends the open pass and starts a new one on the bound target. A nil
// color keeps the current contents; clearDepth resets depth to 1.
func (d *Device) beginPass(color *mgl32.Vec4, clearDepth bool) bool {
	d.endPass()
	t := d.bound
	if t.colorView == nil {
		return false
	}
	enc, err := d.commandEncoder()
	if err != nil {
		d.fail(err)
		return false
	}

	ca := wgpu.RenderPassColorAttachment{
		View:    t.colorView,
		LoadOp:  wgpu.LoadOpLoad,
		StoreOp: wgpu.StoreOpStore,
	}
	if color != nil {
		ca.LoadOp = wgpu.LoadOpClear
		ca.ClearValue = wgpu.Color{R: float64(color.X()), G: float64(color.Y()), B: float64(color.Z()), A: float64(color.W())}
	}
	depthLoad := wgpu.LoadOpLoad
	if clearDepth || color != nil {
		depthLoad = wgpu.LoadOpClear
	}
	d.pass = enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{ca},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            t.depthView,
			DepthLoadOp:     depthLoad,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	return true
}

func (d *Device) endPass() {
	if d.pass == nil {
		return
	}
	_ = d.pass.End()
	d.pass.Release()
	d.pass = nil
}

// flush submits everything recorded so far.
func (d *Device) flush() error {
	d.endPass()
	if d.encoder == nil {
		return nil
	}
	cmd, err := d.encoder.Finish(nil)
	d.encoder.Release()
	d.encoder = nil
	if err != nil {
		return fmt.Errorf("gpu: finish encoder: %w", err)
	}
	d.queue.Submit(cmd)
	cmd.Release()
	d.uniforms.reset()
	return nil
}

// draw records one indexed draw of m with the bound program.
func (d *Device) draw(m *Mesh) {
	prog := d.current
	if prog == nil || d.bound.colorView == nil {
		return
	}
	if d.uniforms.full() {
		if err := d.flush(); err != nil {
			d.fail(err)
			return
		}
	}
	if d.pass == nil && !d.beginPass(nil, false) {
		return
	}
	pipeline, err := d.pipelines.get(prog.kind, d.bound.format)
	if err != nil {
		d.fail(fmt.Errorf("gpu: draw %v: %w", prog.kind, err))
		return
	}
	offset, err := d.uniforms.push(d.queue, prog.block())
	if err != nil {
		d.fail(fmt.Errorf("gpu: draw %v: %w", prog.kind, err))
		return
	}
	d.pass.SetPipeline(pipeline)
	d.pass.SetBindGroup(0, d.uniforms.group, []uint32{offset})
	d.pass.SetVertexBuffer(0, m.vertices, 0, wgpu.WholeSize)
	d.pass.SetIndexBuffer(m.indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	d.pass.DrawIndexed(m.count, 1, 0, 0, 0)
}

// fail records err unless an earlier failure is still pending. Draws have no
// error return, so failures surface from EndFrame or the next pixel read.
func (d *Device) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *Device) takeErr() error {
	err := d.err
	d.err = nil
	return err
}

func (d *Device) Release() {
	d.endPass()
	if d.encoder != nil {
		d.encoder.Release()
		d.encoder = nil
	}
	d.screen.Release()
	d.pipelines.release()
	d.uniforms.release()
	d.queue.Release()
	d.device.Release()
	d.adapter.Release()
	d.surface.Release()
	d.instance.Release()
}
