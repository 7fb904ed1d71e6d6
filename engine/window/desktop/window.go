// Package desktop implements engine windows on GLFW. A Platform owns the GLFW
// library, every window it creates, and the queue of platform events the runner
// polls.
package desktop

import (
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/Carmen-Shannon/oxy-frame/engine/window"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// desktopWindow is the GLFW implementation of window.Window.
type desktopWindow struct {
	// id is assigned by the Platform when the native window is created.
	id window.ID

	// title is the window title displayed in the title bar.
	title string

	// width and height are the requested client size in screen coordinates.
	width  int
	height int

	// minWidth, minHeight, maxWidth and maxHeight bound interactive resizing. Zero leaves a bound unset.
	minWidth  int
	minHeight int
	maxWidth  int
	maxHeight int

	// position places the window on screen; nil lets the window manager decide.
	position *common.Position

	resizable  bool
	fullscreen bool

	// redraw is set by RequestRedraw and cleared when the RedrawRequested event is queued.
	redraw bool

	platform *Platform
	handle   *glfw.Window
}

var _ window.Window = &desktopWindow{}

func (w *desktopWindow) ID() window.ID {
	return w.id
}

func (w *desktopWindow) Title() string {
	return w.title
}

func (w *desktopWindow) Size() (int, int) {
	if w.handle == nil {
		return 0, 0
	}
	return w.handle.GetSize()
}

func (w *desktopWindow) ScaleFactor() float64 {
	if w.handle == nil {
		return 1
	}
	x, _ := w.handle.GetContentScale()
	if x <= 0 {
		return 1
	}
	return float64(x)
}

func (w *desktopWindow) RequestRedraw() {
	w.redraw = true
}

func (w *desktopWindow) FramebufferSize() (int, int) {
	if w.handle == nil {
		return 0, 0
	}
	return w.handle.GetFramebufferSize()
}

// SurfaceTarget returns a platform-appropriate *wgpu.SurfaceDescriptor (HWND, Xlib,
// Wayland or Metal layer) built by the wgpuglfw bridge.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func (w *desktopWindow) SurfaceTarget() gpu.SurfaceTarget {
	if w.handle == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.handle)
}

func (w *desktopWindow) Close() error {
	if w.handle == nil {
		return nil
	}
	w.handle.SetShouldClose(true)
	w.handle.Destroy()
	w.handle = nil
	w.platform.forget(w.id)
	return nil
}
