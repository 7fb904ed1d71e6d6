package desktop

import (
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/config"
)

// WindowBuilderOption is a functional option for configuring a desktop window.
// Use the With* functions to create options.
type WindowBuilderOption func(w *desktopWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *desktopWindow) {
		w.title = title
	}
}

// WithSize sets the initial client size.
//
// Parameters:
//   - width: width in screen coordinates
//   - height: height in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *desktopWindow) {
		w.width = width
		w.height = height
	}
}

// WithMinSize sets the minimum size allowed during interactive resizing.
//
// Parameters:
//   - width: minimum width, or 0 for no bound
//   - height: minimum height, or 0 for no bound
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *desktopWindow) {
		w.minWidth = width
		w.minHeight = height
	}
}

// WithMaxSize sets the maximum size allowed during interactive resizing.
//
// Parameters:
//   - width: maximum width, or 0 for no bound
//   - height: maximum height, or 0 for no bound
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *desktopWindow) {
		w.maxWidth = width
		w.maxHeight = height
	}
}

// WithPosition places the window's top-left corner on screen.
func WithPosition(x, y int) WindowBuilderOption {
	return func(w *desktopWindow) {
		w.position = &common.Position{X: x, Y: y}
	}
}

// WithResizable controls whether the user can resize the window.
func WithResizable(resizable bool) WindowBuilderOption {
	return func(w *desktopWindow) {
		w.resizable = resizable
	}
}

// WithFullscreen opens the window fullscreen on the primary monitor at its current video mode.
func WithFullscreen(fullscreen bool) WindowBuilderOption {
	return func(w *desktopWindow) {
		w.fullscreen = fullscreen
	}
}

// WithWindowConfig applies the windowing fields of a config.WindowConfig.
// Surface fields (formats, present mode) are consumed by the surface, not the window.
//
// Parameters:
//   - cfg: one entry of config.AppConfig.Windows
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWindowConfig(cfg config.WindowConfig) WindowBuilderOption {
	return func(w *desktopWindow) {
		if cfg.Title != "" {
			w.title = cfg.Title
		}
		if cfg.Size.Width > 0 && cfg.Size.Height > 0 {
			w.width = int(cfg.Size.Width)
			w.height = int(cfg.Size.Height)
		}
		if cfg.MinSize != nil {
			w.minWidth = int(cfg.MinSize.Width)
			w.minHeight = int(cfg.MinSize.Height)
		}
		if cfg.MaxSize != nil {
			w.maxWidth = int(cfg.MaxSize.Width)
			w.maxHeight = int(cfg.MaxSize.Height)
		}
		if cfg.Position != nil {
			p := *cfg.Position
			w.position = &p
		}
		w.resizable = cfg.Resizable
		w.fullscreen = cfg.Fullscreen
	}
}
