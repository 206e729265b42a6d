package scene

import "github.com/go-gl/mathgl/mgl32"

const (
	// ColorOffset reserves the lowest codes for the background.
	ColorOffset = 100
	// MaxObjects is the number of objects the registry will hand out codes for.
	MaxObjects = 65536 - ColorOffset
	// NoObject is returned when a color does not name an object.
	NoObject = -1

	maxCode = 1<<24 - 1
)

// ColorCode is an 8-bit RGB triple naming one object in the picking buffer.
type ColorCode [3]uint8

// EncodeColor maps an index to its picking color: index+ColorOffset written as a
// three digit big-endian base-256 number. Indices beyond the 24-bit range wrap.
func EncodeColor(i int) ColorCode {
	num := (i + ColorOffset) & maxCode
	return ColorCode{
		uint8(num / 65536),
		uint8((num % 65536) / 256),
		uint8(num % 256),
	}
}

// DecodeColor inverts EncodeColor, returning NoObject for reserved codes.
func DecodeColor(c ColorCode) int {
	num := int(c[0])*65536 + int(c[1])*256 + int(c[2])
	if num < ColorOffset {
		return NoObject
	}
	return num - ColorOffset
}

func (c ColorCode) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, 1}
}

// ColorCodeFromFloat converts a normalized readback sample. Channels are scaled and
// truncated; the small bias keeps k/255 from landing just under k.
func ColorCodeFromFloat(rgb [3]float32) ColorCode {
	var c ColorCode
	for i, f := range rgb {
		v := int(f*255 + 1e-3)
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		c[i] = uint8(v)
	}
	return c
}
