package deepimage

import "github.com/go-gl/mathgl/mgl32"

type MouseButton int

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

func (m Modifier) Has(mod Modifier) bool { return m&mod != 0 }

// PointerEvent is a cursor event in framebuffer pixels with a top-left origin.
type PointerEvent struct {
	X, Y   int
	Button MouseButton
	Mods   Modifier
}

func (e PointerEvent) Cursor() mgl32.Vec2 {
	return mgl32.Vec2{float32(e.X), float32(e.Y)}
}

// WheelEvent carries scroll steps; positive values scroll away from the user.
type WheelEvent struct {
	Delta float32
}
