package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/deepimage/rt/gfx"
)

// Copies into buffers need rows aligned to this many bytes.
const copyRowAlign = 256

// Target is a color attachment with its own depth buffer. The screen target
// borrows the surface texture for the duration of a frame.
type Target struct {
	dev           *Device
	width, height int
	format        wgpu.TextureFormat

	color     *wgpu.Texture
	colorView *wgpu.TextureView
	depth     *wgpu.Texture
	depthView *wgpu.TextureView
	readback  *wgpu.Buffer
}

func (d *Device) newScreenTarget(width, height int) (*Target, error) {
	t := &Target{dev: d, width: width, height: height, format: d.config.Format}
	if err := t.createDepth(); err != nil {
		return nil, err
	}
	return t, nil
}

func (d *Device) newOffscreenTarget(width, height int) (*Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gpu: invalid target size %dx%d", width, height)
	}
	t := &Target{dev: d, width: width, height: height, format: offscreenColor}
	var err error
	t.color, err = d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Offscreen Color",
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        offscreenColor,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: offscreen color: %w", err)
	}
	if t.colorView, err = t.color.CreateView(nil); err != nil {
		t.Release()
		return nil, fmt.Errorf("gpu: offscreen view: %w", err)
	}
	if err := t.createDepth(); err != nil {
		t.Release()
		return nil, err
	}
	t.readback, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Pixel Readback",
		Size:  copyRowAlign,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("gpu: readback buffer: %w", err)
	}
	return t, nil
}

func (t *Target) createDepth() error {
	var err error
	t.depth, err = t.dev.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth",
		Size:          wgpu.Extent3D{Width: uint32(t.width), Height: uint32(t.height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("gpu: depth texture: %w", err)
	}
	if t.depthView, err = t.depth.CreateView(nil); err != nil {
		return fmt.Errorf("gpu: depth view: %w", err)
	}
	return nil
}

func (t *Target) Size() (int, int) { return t.width, t.height }

// textureRow converts a bottom-left row to the texture's top-left row.
func textureRow(y, height int) int { return height - 1 - y }

// ReadPixel submits pending draws, copies one texel into the readback buffer and
// waits for it. Only offscreen targets can be read.
func (t *Target) ReadPixel(x, y int) ([3]float32, error) {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return [3]float32{}, fmt.Errorf("read (%d,%d) of %dx%d: %w", x, y, t.width, t.height, gfx.ErrOutOfBounds)
	}
	if t.readback == nil {
		return [3]float32{}, fmt.Errorf("gpu: target is not readable")
	}
	d := t.dev
	if err := errors.Join(d.flush(), d.takeErr()); err != nil {
		return [3]float32{}, err
	}

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return [3]float32{}, fmt.Errorf("gpu: command encoder: %w", err)
	}
	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  t.color,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: uint32(x), Y: uint32(textureRow(y, t.height)), Z: 0},
		},
		&wgpu.ImageCopyBuffer{
			Buffer: t.readback,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  copyRowAlign,
				RowsPerImage: 1,
			},
		},
		&wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	)
	cmd, err := encoder.Finish(nil)
	encoder.Release()
	if err != nil {
		return [3]float32{}, fmt.Errorf("gpu: finish readback: %w", err)
	}
	d.queue.Submit(cmd)
	cmd.Release()

	done := make(chan error, 1)
	err = t.readback.MapAsync(wgpu.MapModeRead, 0, copyRowAlign, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			done <- fmt.Errorf("gpu: map readback: %v", status)
			return
		}
		done <- nil
	})
	if err != nil {
		return [3]float32{}, err
	}
	d.device.Poll(true, nil)
	if err := <-done; err != nil {
		return [3]float32{}, err
	}

	texel := t.readback.GetMappedRange(0, 4)
	rgb := unpackRGBA8(texel)
	t.readback.Unmap()
	return rgb, nil
}

func unpackRGBA8(b []byte) [3]float32 {
	return [3]float32{float32(b[0]) / 255, float32(b[1]) / 255, float32(b[2]) / 255}
}

func (t *Target) Release() {
	if t.readback != nil {
		t.readback.Release()
		t.readback = nil
	}
	if t.depthView != nil {
		t.depthView.Release()
		t.depthView = nil
	}
	if t.depth != nil {
		t.depth.Release()
		t.depth = nil
	}
	// The screen view belongs to the frame.
	if t.color != nil {
		if t.colorView != nil {
			t.colorView.Release()
			t.colorView = nil
		}
		t.color.Release()
		t.color = nil
	}
}
