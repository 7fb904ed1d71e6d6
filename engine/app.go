package engine

import (
	"github.com/Carmen-Shannon/oxy-frame/engine/device"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/resource"
	"github.com/Carmen-Shannon/oxy-frame/engine/window"
)

// App is the application driven by a Runner.
type App interface {
	// Create is called once, after the first start event has resumed every
	// surface and the shared mesh cache exists.
	//
	// Parameters:
	//   - dc: the device context shared by every window
	//   - cache: the shared mesh cache
	//
	// Returns:
	//   - error: a non-nil error stops the runner with ErrInitialization
	Create(dc device.DeviceContext, cache *resource.Cache) error

	// Render records one frame of window w. It runs on the event loop goroutine
	// inside a single render pass; ctx is invalid once Render returns.
	//
	// Parameters:
	//   - ctx: the per-frame drawing handle
	//   - w: the window being drawn
	Render(ctx *renderer.RenderContext, w window.Window)
}

// AppFunc adapts a plain render function to an App with an empty Create.
type AppFunc func(ctx *renderer.RenderContext, w window.Window)

func (f AppFunc) Create(device.DeviceContext, *resource.Cache) error { return nil }

func (f AppFunc) Render(ctx *renderer.RenderContext, w window.Window) { f(ctx, w) }
