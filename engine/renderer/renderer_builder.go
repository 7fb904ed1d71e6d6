package renderer

import (
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/config"
	"github.com/gogpu/gputypes"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via New.
type RendererBuilderOption func(*renderer)

// WithColorFormat sets the color attachment format the pipelines target.
// It must match the configured surface format.
//
// Parameters:
//   - format: the color format
//
// Returns:
//   - RendererBuilderOption: a function that applies the color format option to a renderer
func WithColorFormat(format gputypes.TextureFormat) RendererBuilderOption {
	return func(r *renderer) {
		r.colorFormat = format
	}
}

// WithDepthFormat enables depth testing against an attachment of the given format.
func WithDepthFormat(format gputypes.TextureFormat) RendererBuilderOption {
	return func(r *renderer) {
		r.depthFormat = format
	}
}

// WithSampleCount sets the multisample count of the pipelines.
func WithSampleCount(count uint32) RendererBuilderOption {
	return func(r *renderer) {
		r.sampleCount = common.AtLeast(count, 1)
	}
}

// WithBlend sets the color blend state of the pipelines.
func WithBlend(blend gputypes.BlendState) RendererBuilderOption {
	return func(r *renderer) {
		r.blend = blend
	}
}

// WithBackground sets the initial clear color.
func WithBackground(c common.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.background = c
	}
}

// WithSurfaceSettings copies the depth format, sample count and blend state of a window's
// surface settings. The color format is not copied because the configured surface format
// may differ from the requested one.
//
// Parameters:
//   - s: the window's surface settings
//
// Returns:
//   - RendererBuilderOption: a function that applies the settings to a renderer
func WithSurfaceSettings(s config.SurfaceSettings) RendererBuilderOption {
	return func(r *renderer) {
		r.depthFormat = s.DepthFormat
		r.sampleCount = common.AtLeast(s.SampleCount, 1)
		r.blend = s.Blend
	}
}

// WithUniformAlignment overrides the dynamic offset alignment read from the device limits.
func WithUniformAlignment(alignment uint64) RendererBuilderOption {
	return func(r *renderer) {
		r.uniformAlignment = alignment
	}
}

// WithLabel sets the debug label prefix of the encoder and pass.
func WithLabel(label string) RendererBuilderOption {
	return func(r *renderer) {
		r.label = label
	}
}
