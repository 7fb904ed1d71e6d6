package surface

import (
	"time"

	"github.com/Carmen-Shannon/oxy-frame/engine/config"
)

// SurfaceBuilderOption is a functional option for configuring a surface.
// Use the With* functions to create options.
type SurfaceBuilderOption func(s *surface)

// WithPlatform overrides the platform profile derived from the build target.
//
// Parameters:
//   - p: the platform whose lifecycle rules the surface follows
//
// Returns:
//   - SurfaceBuilderOption: option function to apply
func WithPlatform(p Platform) SurfaceBuilderOption {
	return func(s *surface) {
		s.platform = p
	}
}

// WithSettings sets the formats, present mode and depth attachment the surface negotiates for.
//
// Parameters:
//   - settings: parsed window settings, see config.WindowConfig.Settings
//
// Returns:
//   - SurfaceBuilderOption: option function to apply
func WithSettings(settings config.SurfaceSettings) SurfaceBuilderOption {
	return func(s *surface) {
		s.settings = settings
	}
}

// WithLabel sets the name the surface logs under.
func WithLabel(label string) SurfaceBuilderOption {
	return func(s *surface) {
		s.label = label
	}
}

// WithClock sets the clock the frame counter measures with.
func WithClock(now func() time.Time) SurfaceBuilderOption {
	return func(s *surface) {
		s.counter = NewFrameCounter(now)
	}
}
