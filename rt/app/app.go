// Package app hosts a Viewport in a glfw window presented through WebGPU.
package app

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/deepimage"
	"github.com/gekko3d/deepimage/rt/gizmo"
	"github.com/gekko3d/deepimage/rt/gpu"
)

type App struct {
	Window   *glfw.Window
	Device   *gpu.Device
	Viewport *deepimage.Viewport

	log    deepimage.Logger
	button deepimage.MouseButton
	mods   deepimage.Modifier
}

// New opens a window and builds the viewport on it. It must be called from the
// main goroutine; the thread stays locked until Close.
func New(cfg deepimage.Config, log deepimage.Logger) (*App, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	win, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	fbW, fbH := win.GetFramebufferSize()
	dev, err := gpu.NewDevice(wgpuglfw.GetSurfaceDescriptor(win), fbW, fbH)
	if err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, err
	}
	log.Infof("surface %dx%d format %v", fbW, fbH, dev.Format())

	// The viewport works in framebuffer pixels.
	cfg.Window.Width, cfg.Window.Height = fbW, fbH
	view, err := deepimage.NewViewport(dev, cfg, log)
	if err != nil {
		dev.Release()
		win.Destroy()
		glfw.Terminate()
		return nil, err
	}

	a := &App{Window: win, Device: dev, Viewport: view, log: log}
	a.installCallbacks()
	return a, nil
}

func (a *App) installCallbacks() {
	a.Window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		if err := a.Viewport.Resize(width, height); err != nil {
			a.log.Errorf("resize: %v", err)
		}
	})

	a.Window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		a.Viewport.OnMouseMoved(a.pointer(xpos, ypos, a.button))
	})

	a.Window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		a.mods = modifiers(mods)
		x, y := w.GetCursorPos()
		b := mouseButton(button)
		switch action {
		case glfw.Press:
			a.button = b
			a.Viewport.OnMousePressed(a.pointer(x, y, b))
		case glfw.Release:
			a.button = deepimage.ButtonNone
			a.Viewport.OnMouseReleased(a.pointer(x, y, b))
		}
	})

	a.Window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		a.Viewport.OnWheel(deepimage.WheelEvent{Delta: float32(yoff)})
	})

	a.Window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		a.handleAction(actionForKey(key, action))
	})
}

func (a *App) pointer(x, y float64, b deepimage.MouseButton) deepimage.PointerEvent {
	winW, winH := a.Window.GetSize()
	fbW, fbH := a.Window.GetFramebufferSize()
	px, py := framebufferPos(x, y, winW, winH, fbW, fbH)
	return deepimage.PointerEvent{X: px, Y: py, Button: b, Mods: a.mods}
}

func (a *App) handleAction(act Action) {
	switch act {
	case ActionTranslate:
		a.Viewport.SetActiveGizmoVariant(gizmo.Translate)
	case ActionRotate:
		a.Viewport.SetActiveGizmoVariant(gizmo.Rotate)
	case ActionFrameScene:
		a.Viewport.FrameScene()
	case ActionQuit:
		a.Window.SetShouldClose(true)
	}
}

// Run polls events and renders until the window is closed.
func (a *App) Run() {
	for !a.Window.ShouldClose() {
		glfw.PollEvents()
		if w, h := a.Window.GetFramebufferSize(); w == 0 || h == 0 {
			// Minimized.
			glfw.WaitEvents()
			continue
		}
		if err := a.Viewport.RenderFrame(); err != nil {
			a.log.Errorf("frame: %v", err)
		}
	}
}

func (a *App) Close() {
	a.Viewport.Release()
	a.Device.Release()
	a.Window.Destroy()
	glfw.Terminate()
	runtime.UnlockOSThread()
}
