package engine

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/device"
	"github.com/Carmen-Shannon/oxy-frame/engine/resource"
	"github.com/Carmen-Shannon/oxy-frame/engine/surface"
	"github.com/Carmen-Shannon/oxy-frame/engine/window"
)

// RunnerBuilderOption is a functional option for configuring a Runner.
// Use the With* functions to create options that are applied directly to the runner instance.
type RunnerBuilderOption func(*runner)

// WithLogger installs l as the logger of every engine package.
//
// Parameters:
//   - l: the logger; nil restores the silent default
//
// Returns:
//   - RunnerBuilderOption: option function to apply
func WithLogger(l *slog.Logger) RunnerBuilderOption {
	return func(r *runner) {
		common.SetLogger(l)
	}
}

// WithProfiling enables or disables periodic frame statistics per window.
//
// Parameters:
//   - enabled: if true, each window logs FPS and memory stats once a second
//
// Returns:
//   - RunnerBuilderOption: option function to apply
func WithProfiling(enabled bool) RunnerBuilderOption {
	return func(r *runner) {
		r.profiling = enabled
	}
}

// WithBackground sets the initial clear color of every window.
func WithBackground(c common.Color) RunnerBuilderOption {
	return func(r *runner) {
		r.background = &c
	}
}

// WithWindow adds a window and the surface presenting to it. Windows are
// resumed and drawn in the order they were added.
//
// Parameters:
//   - w: the window
//   - s: its surface, built with surface.New(w, ...)
//
// Returns:
//   - RunnerBuilderOption: option function to apply
func WithWindow(w window.Window, s surface.Surface) RunnerBuilderOption {
	return func(r *runner) {
		v := &view{window: w, surface: s}
		r.views = append(r.views, v)
		r.byID[w.ID()] = v
	}
}

// WithPoller sets the platform event source Run pumps.
func WithPoller(p window.Poller) RunnerBuilderOption {
	return func(r *runner) {
		r.poller = p
	}
}

// WithDeviceContext sets the device context shared by every window. It is required.
// The runner takes ownership and releases it on shutdown.
func WithDeviceContext(dc device.DeviceContext) RunnerBuilderOption {
	return func(r *runner) {
		r.dc = dc
	}
}

// WithPlatform overrides the platform profile that decides the start event.
func WithPlatform(p surface.Platform) RunnerBuilderOption {
	return func(r *runner) {
		r.platform = p
	}
}

// WithCacheOptions configures the shared mesh cache created on the first start.
func WithCacheOptions(options ...resource.CacheBuilderOption) RunnerBuilderOption {
	return func(r *runner) {
		r.cacheOptions = append(r.cacheOptions, options...)
	}
}
