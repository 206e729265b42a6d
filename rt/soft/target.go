package soft

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/deepimage/rt/gfx"
)

// Target is a color and depth buffer. Row 0 is the bottom of the image.
type Target struct {
	width, height int
	color         []mgl32.Vec4
	depth         []float32
}

func newTarget(width, height int) (*Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("soft: invalid target size %dx%d", width, height)
	}
	t := &Target{
		width:  width,
		height: height,
		color:  make([]mgl32.Vec4, width*height),
		depth:  make([]float32, width*height),
	}
	t.clearDepth()
	return t, nil
}

func (t *Target) Size() (int, int) { return t.width, t.height }

func (t *Target) ReadPixel(x, y int) ([3]float32, error) {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return [3]float32{}, fmt.Errorf("read (%d,%d) of %dx%d: %w", x, y, t.width, t.height, gfx.ErrOutOfBounds)
	}
	c := t.color[y*t.width+x]
	return [3]float32{c.X(), c.Y(), c.Z()}, nil
}

func (t *Target) Release() {
	t.color = nil
	t.depth = nil
}

func (t *Target) clear(c mgl32.Vec4) {
	for i := range t.color {
		t.color[i] = c
	}
	t.clearDepth()
}

func (t *Target) clearDepth() {
	for i := range t.depth {
		t.depth[i] = 1
	}
}

// Image converts the buffer to an 8-bit image with a top-left origin.
func (t *Target) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	for y := 0; y < t.height; y++ {
		row := t.height - 1 - y
		for x := 0; x < t.width; x++ {
			c := t.color[row*t.width+x]
			img.SetRGBA(x, y, color.RGBA{
				R: to8(c.X()),
				G: to8(c.Y()),
				B: to8(c.Z()),
				A: 255,
			})
		}
	}
	return img
}

func to8(v float32) uint8 {
	return uint8(math.Round(float64(mgl32.Clamp(v, 0, 1)) * 255))
}
