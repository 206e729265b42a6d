package app

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/deepimage"
)

// Action is a keyboard command handled by the shell.
type Action int

const (
	ActionNone Action = iota
	ActionTranslate
	ActionRotate
	ActionFrameScene
	ActionQuit
)

var keyBindings = map[glfw.Key]Action{
	glfw.KeyT:      ActionTranslate,
	glfw.KeyR:      ActionRotate,
	glfw.KeyF:      ActionFrameScene,
	glfw.KeyEscape: ActionQuit,
}

func actionForKey(key glfw.Key, action glfw.Action) Action {
	if action != glfw.Press {
		return ActionNone
	}
	return keyBindings[key]
}

func mouseButton(b glfw.MouseButton) deepimage.MouseButton {
	switch b {
	case glfw.MouseButtonLeft:
		return deepimage.ButtonLeft
	case glfw.MouseButtonRight:
		return deepimage.ButtonRight
	case glfw.MouseButtonMiddle:
		return deepimage.ButtonMiddle
	}
	return deepimage.ButtonNone
}

func modifiers(m glfw.ModifierKey) deepimage.Modifier {
	var out deepimage.Modifier
	if m&glfw.ModShift != 0 {
		out |= deepimage.ModShift
	}
	if m&glfw.ModControl != 0 {
		out |= deepimage.ModControl
	}
	if m&glfw.ModAlt != 0 {
		out |= deepimage.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		out |= deepimage.ModSuper
	}
	return out
}

// framebufferPos converts a cursor position in window coordinates to framebuffer
// pixels. They differ on high-DPI displays.
func framebufferPos(x, y float64, winW, winH, fbW, fbH int) (int, int) {
	sx, sy := 1.0, 1.0
	if winW > 0 && winH > 0 {
		sx = float64(fbW) / float64(winW)
		sy = float64(fbH) / float64(winH)
	}
	return int(math.Floor(x * sx)), int(math.Floor(y * sy))
}
