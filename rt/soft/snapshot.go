package soft

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	captionMargin = 6
	captionLine   = 15
)

// Annotated renders the target with caption lines drawn over its top-left corner.
func (t *Target) Annotated(lines []string) *image.RGBA {
	img := t.Image()
	if len(lines) == 0 {
		return img
	}

	face := basicfont.Face7x13
	width := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > width {
			width = w
		}
	}
	panel := image.Rect(0, 0, width+2*captionMargin, len(lines)*captionLine+captionMargin)
	draw.Draw(img, panel.Intersect(img.Bounds()), image.NewUniform(color.RGBA{255, 255, 255, 200}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0, 0, 0, 255}),
		Face: face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(captionMargin, (i+1)*captionLine)
		d.DrawString(l)
	}
	return img
}

// WritePNG encodes the target, with optional caption lines, as PNG.
func (t *Target) WritePNG(w io.Writer, lines ...string) error {
	if err := png.Encode(w, t.Annotated(lines)); err != nil {
		return fmt.Errorf("soft: encode png: %w", err)
	}
	return nil
}
