package config

import "github.com/Carmen-Shannon/oxy-frame/common"

// AppConfigBuilderOption is a functional option for building an AppConfig.
type AppConfigBuilderOption func(c *AppConfig)

// WindowConfigBuilderOption is a functional option for building a WindowConfig.
type WindowConfigBuilderOption func(w *WindowConfig)

// NewAppConfig builds an AppConfig starting from DefaultAppConfig.
//
// Parameters:
//   - options: variadic list of AppConfigBuilderOption to apply
//
// Returns:
//   - AppConfig: the built config
func NewAppConfig(options ...AppConfigBuilderOption) AppConfig {
	c := DefaultAppConfig()
	for _, opt := range options {
		opt(&c)
	}
	return c
}

// WithBackend selects the gpu backend by registry name.
func WithBackend(name string) AppConfigBuilderOption {
	return func(c *AppConfig) {
		c.Backend = name
	}
}

// WithDevice replaces the device config.
//
// Parameters:
//   - d: the device config, e.g. HighPerformance()
//
// Returns:
//   - AppConfigBuilderOption: option function to apply
func WithDevice(d DeviceConfig) AppConfigBuilderOption {
	return func(c *AppConfig) {
		c.Device = d
	}
}

// WithWindow appends a window. Windows are created in the order they are added.
//
// Parameters:
//   - w: the window config, usually from NewWindowConfig
//
// Returns:
//   - AppConfigBuilderOption: option function to apply
func WithWindow(w WindowConfig) AppConfigBuilderOption {
	return func(c *AppConfig) {
		c.Windows = append(c.Windows, w)
	}
}

// WithAppDepthFormat sets the depth format used by windows that do not set one.
func WithAppDepthFormat(format string) AppConfigBuilderOption {
	return func(c *AppConfig) {
		c.DepthFormat = format
	}
}

// NewWindowConfig builds a WindowConfig starting from DefaultWindowConfig.
//
// Parameters:
//   - options: variadic list of WindowConfigBuilderOption to apply
//
// Returns:
//   - WindowConfig: the built config
func NewWindowConfig(options ...WindowConfigBuilderOption) WindowConfig {
	w := DefaultWindowConfig()
	for _, opt := range options {
		opt(&w)
	}
	return w
}

// WithTitle sets the window title.
func WithTitle(title string) WindowConfigBuilderOption {
	return func(w *WindowConfig) {
		w.Title = title
	}
}

// WithSize sets the initial window size in pixels.
//
// Parameters:
//   - width: initial width
//   - height: initial height
//
// Returns:
//   - WindowConfigBuilderOption: option function to apply
func WithSize(width, height uint32) WindowConfigBuilderOption {
	return func(w *WindowConfig) {
		w.Size = common.Size{Width: width, Height: height}
	}
}

// WithPosition sets the initial window position.
func WithPosition(x, y int) WindowConfigBuilderOption {
	return func(w *WindowConfig) {
		w.Position = &common.Position{X: x, Y: y}
	}
}

// WithMinSize sets the smallest size the window can be resized to.
func WithMinSize(width, height uint32) WindowConfigBuilderOption {
	return func(w *WindowConfig) {
		w.MinSize = &common.Size{Width: width, Height: height}
	}
}

// WithMaxSize sets the largest size the window can be resized to.
func WithMaxSize(width, height uint32) WindowConfigBuilderOption {
	return func(w *WindowConfig) {
		w.MaxSize = &common.Size{Width: width, Height: height}
	}
}

// WithPresentMode sets the present mode name ("fifo", "mailbox", "immediate", "fifo-relaxed").
func WithPresentMode(mode string) WindowConfigBuilderOption {
	return func(w *WindowConfig) {
		w.PresentMode = mode
	}
}

// WithAlphaMode sets the composite alpha mode name.
func WithAlphaMode(mode string) WindowConfigBuilderOption {
	return func(w *WindowConfig) {
		w.AlphaMode = mode
	}
}

// WithSurfaceFormat sets the preferred surface format name.
func WithSurfaceFormat(format string) WindowConfigBuilderOption {
	return func(w *WindowConfig) {
		w.SurfaceFormat = format
	}
}

// WithDepthFormat enables a depth attachment of the named format.
//
// Parameters:
//   - format: a depth format name such as "depth24plus", or "" for none
//
// Returns:
//   - WindowConfigBuilderOption: option function to apply
func WithDepthFormat(format string) WindowConfigBuilderOption {
	return func(w *WindowConfig) {
		w.DepthFormat = format
	}
}

// WithBlendMode sets the blend mode name used by the default pipeline.
func WithBlendMode(mode string) WindowConfigBuilderOption {
	return func(w *WindowConfig) {
		w.BlendMode = mode
	}
}

// WithPreferSRGB makes the surface expose an sRGB view format.
func WithPreferSRGB(prefer bool) WindowConfigBuilderOption {
	return func(w *WindowConfig) {
		w.PreferSRGB = prefer
	}
}

// WithFrameLatency sets the desired maximum number of frames in flight.
func WithFrameLatency(frames uint32) WindowConfigBuilderOption {
	return func(w *WindowConfig) {
		w.DesiredMaximumFrameLatency = frames
	}
}

// WithResizable toggles user resizing.
func WithResizable(resizable bool) WindowConfigBuilderOption {
	return func(w *WindowConfig) {
		w.Resizable = resizable
	}
}

// WithFullscreen opens the window fullscreen on the primary monitor.
func WithFullscreen(fullscreen bool) WindowConfigBuilderOption {
	return func(w *WindowConfig) {
		w.Fullscreen = fullscreen
	}
}

// WithSampleCount sets the multisample count of the window's color and depth targets.
// WebGPU guarantees 1 and 4.
func WithSampleCount(count uint32) WindowConfigBuilderOption {
	return func(w *WindowConfig) {
		w.SampleCount = count
	}
}
