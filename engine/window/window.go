// Package window defines the backend-neutral window the engine renders into and
// the platform event model the runner is driven by. Concrete windows live in
// sub-packages (see engine/window/desktop).
package window

import (
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/gogpu/gpucontext"
)

// ID identifies a window in the events addressed to it. Zero is never a valid window.
type ID uint32

// Window is one native window with exactly one presentation surface.
type Window interface {
	gpucontext.WindowProvider

	// ID returns the identifier carried by events for this window.
	//
	// Returns:
	//   - ID: the window identifier, never zero
	ID() ID

	// Title returns the window title.
	Title() string

	// FramebufferSize returns the client area in physical pixels.
	// Surfaces are configured with this size, not the logical Size.
	//
	// Returns:
	//   - width, height: framebuffer dimensions, zero while minimized
	FramebufferSize() (width, height int)

	// SurfaceTarget returns the backend-specific handle a gpu.Surface is created from.
	//
	// Returns:
	//   - gpu.SurfaceTarget: the native surface descriptor, or nil once the window is closed
	SurfaceTarget() gpu.SurfaceTarget

	// Close destroys the native window. Closing twice is a no-op.
	//
	// Returns:
	//   - error: error if the platform fails to destroy the window
	Close() error
}

// Poller pumps the platform event queue.
type Poller interface {
	// PollEvents delivers pending platform events to handle in order. It blocks
	// until at least one event is available unless a redraw is pending.
	//
	// Parameters:
	//   - handle: called once per event on the polling goroutine
	//
	// Returns:
	//   - bool: false once no open windows remain
	PollEvents(handle func(Event)) bool
}
