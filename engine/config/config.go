// Package config holds the application, device and window configuration, with
// TOML and YAML loading. Enum-valued fields are kept as WebGPU-style strings so
// files stay readable; the Settings/Request helpers parse them into gputypes values.
package config

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/gogpu/gputypes"
)

var (
	// ErrUnsupportedFormat is returned by Load and Save for unknown file extensions.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")
	// ErrInvalidValue is returned when an enum string or numeric field cannot be used.
	ErrInvalidValue = errors.New("config: invalid value")
)

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// Backend selects a registered gpu backend by name. Empty picks the best available.
	Backend string `toml:"backend" yaml:"backend"`
	// ColorFormat, DepthFormat and SampleCount are fallbacks for windows that leave theirs unset.
	ColorFormat string         `toml:"color_format" yaml:"color_format"`
	DepthFormat string         `toml:"depth_format" yaml:"depth_format"`
	SampleCount uint32         `toml:"sample_count" yaml:"sample_count"`
	Device      DeviceConfig   `toml:"device" yaml:"device"`
	Windows     []WindowConfig `toml:"windows" yaml:"windows"`
}

// DeviceConfig describes the adapter and device request.
type DeviceConfig struct {
	Label                string       `toml:"label" yaml:"label"`
	PowerPreference      string       `toml:"power_preference" yaml:"power_preference"`
	ForceFallbackAdapter bool         `toml:"force_fallback_adapter" yaml:"force_fallback_adapter"`
	Features             []string     `toml:"features" yaml:"features"`
	Limits               LimitsConfig `toml:"limits" yaml:"limits"`
}

// LimitsConfig overrides selected device limits. Zero fields keep the WebGPU default.
type LimitsConfig struct {
	MaxTextureDimension2D           uint32 `toml:"max_texture_dimension_2d" yaml:"max_texture_dimension_2d"`
	MaxBindGroups                   uint32 `toml:"max_bind_groups" yaml:"max_bind_groups"`
	MaxUniformBufferBindingSize     uint64 `toml:"max_uniform_buffer_binding_size" yaml:"max_uniform_buffer_binding_size"`
	MinUniformBufferOffsetAlignment uint32 `toml:"min_uniform_buffer_offset_alignment" yaml:"min_uniform_buffer_offset_alignment"`
	MaxBufferSize                   uint64 `toml:"max_buffer_size" yaml:"max_buffer_size"`
	MaxPushConstantSize             uint32 `toml:"max_push_constant_size" yaml:"max_push_constant_size"`
}

// WindowConfig describes one window and its presentation surface.
type WindowConfig struct {
	Title                      string           `toml:"title" yaml:"title"`
	Position                   *common.Position `toml:"position,omitempty" yaml:"position,omitempty"`
	Size                       common.Size      `toml:"size" yaml:"size"`
	MinSize                    *common.Size     `toml:"min_size,omitempty" yaml:"min_size,omitempty"`
	MaxSize                    *common.Size     `toml:"max_size,omitempty" yaml:"max_size,omitempty"`
	PresentMode                string           `toml:"present_mode" yaml:"present_mode"`
	AlphaMode                  string           `toml:"alpha_mode" yaml:"alpha_mode"`
	SurfaceFormat              string           `toml:"surface_format" yaml:"surface_format"`
	DepthFormat                string           `toml:"depth_format" yaml:"depth_format"`
	BlendMode                  string           `toml:"blend_mode" yaml:"blend_mode"`
	PreferSRGB                 bool             `toml:"prefer_srgb" yaml:"prefer_srgb"`
	DesiredMaximumFrameLatency uint32           `toml:"desired_maximum_frame_latency" yaml:"desired_maximum_frame_latency"`
	Resizable                  bool             `toml:"resizable" yaml:"resizable"`
	Fullscreen                 bool             `toml:"fullscreen" yaml:"fullscreen"`
	SampleCount                uint32           `toml:"sample_count" yaml:"sample_count"`
}

// SurfaceSettings is a WindowConfig with its enum strings parsed.
type SurfaceSettings struct {
	Size                       common.Size
	PresentMode                gputypes.PresentMode
	AlphaMode                  gputypes.CompositeAlphaMode
	Format                     gputypes.TextureFormat
	DepthFormat                gputypes.TextureFormat // TextureFormatUndefined means no depth attachment
	Blend                      gputypes.BlendState
	PreferSRGB                 bool
	DesiredMaximumFrameLatency uint32
	SampleCount                uint32
}

// DeviceRequest is a DeviceConfig with its enum strings parsed.
type DeviceRequest struct {
	Label                string
	PowerPreference      gputypes.PowerPreference
	ForceFallbackAdapter bool
	Features             gputypes.Features
	Limits               gputypes.Limits
}

// DefaultWindowConfig returns an 800x600 resizable window presenting BGRA8UnormSrgb with Fifo.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Title:                      "Window",
		Size:                       common.Size{Width: 800, Height: 600},
		PresentMode:                "fifo",
		AlphaMode:                  "auto",
		SurfaceFormat:              "bgra8unorm-srgb",
		BlendMode:                  "alpha",
		DesiredMaximumFrameLatency: 2,
		Resizable:                  true,
		SampleCount:                1,
	}
}

// DefaultDeviceConfig returns WebGPU default limits with a 256 byte push constant limit.
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		PowerPreference: "none",
		Limits: LimitsConfig{
			MaxPushConstantSize: 256,
		},
	}
}

// HighPerformance returns DefaultDeviceConfig preferring the discrete adapter.
func HighPerformance() DeviceConfig {
	c := DefaultDeviceConfig()
	c.PowerPreference = "high-performance"
	return c
}

// DefaultAppConfig returns a config with no windows and the default device.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		ColorFormat: "bgra8unorm-srgb",
		SampleCount: 1,
		Device:      DefaultDeviceConfig(),
	}
}

// Limits overlays the non-zero overrides onto gputypes.DefaultLimits.
// MaxPushConstantSize is taken verbatim, since zero is a meaningful request.
func (l LimitsConfig) Limits() gputypes.Limits {
	out := gputypes.DefaultLimits()
	out.MaxTextureDimension2D = common.Coalesce(l.MaxTextureDimension2D, out.MaxTextureDimension2D)
	out.MaxBindGroups = common.Coalesce(l.MaxBindGroups, out.MaxBindGroups)
	out.MaxUniformBufferBindingSize = common.Coalesce(l.MaxUniformBufferBindingSize, out.MaxUniformBufferBindingSize)
	out.MinUniformBufferOffsetAlignment = common.Coalesce(l.MinUniformBufferOffsetAlignment, out.MinUniformBufferOffsetAlignment)
	out.MaxBufferSize = common.Coalesce(l.MaxBufferSize, out.MaxBufferSize)
	out.MaxPushConstantSize = l.MaxPushConstantSize
	return out
}

// Request parses the device config.
//
// Returns:
//   - DeviceRequest: the parsed request
//   - error: ErrInvalidValue if a power preference or feature name is unknown
func (d DeviceConfig) Request() (DeviceRequest, error) {
	power, err := ParsePowerPreference(d.PowerPreference)
	if err != nil {
		return DeviceRequest{}, err
	}
	feats, err := ParseFeatures(d.Features)
	if err != nil {
		return DeviceRequest{}, err
	}
	return DeviceRequest{
		Label:                d.Label,
		PowerPreference:      power,
		ForceFallbackAdapter: d.ForceFallbackAdapter,
		Features:             feats,
		Limits:               d.Limits.Limits(),
	}, nil
}

// Settings parses the window config into surface settings.
//
// Returns:
//   - SurfaceSettings: the parsed settings
//   - error: ErrInvalidValue naming the first bad field
func (w WindowConfig) Settings() (SurfaceSettings, error) {
	present, err := ParsePresentMode(common.Coalesce(w.PresentMode, "fifo"))
	if err != nil {
		return SurfaceSettings{}, err
	}
	alpha, err := ParseAlphaMode(common.Coalesce(w.AlphaMode, "auto"))
	if err != nil {
		return SurfaceSettings{}, err
	}
	format, err := ParseTextureFormat(w.SurfaceFormat)
	if err != nil {
		return SurfaceSettings{}, err
	}
	if format.HasDepth() {
		return SurfaceSettings{}, fmt.Errorf("%w: surface format %q is a depth format", ErrInvalidValue, w.SurfaceFormat)
	}
	depth, err := ParseTextureFormat(w.DepthFormat)
	if err != nil {
		return SurfaceSettings{}, err
	}
	if depth != gputypes.TextureFormatUndefined && !depth.HasDepth() {
		return SurfaceSettings{}, fmt.Errorf("%w: depth format %q has no depth aspect", ErrInvalidValue, w.DepthFormat)
	}
	blend, err := ParseBlendMode(w.BlendMode)
	if err != nil {
		return SurfaceSettings{}, err
	}
	samples := common.Coalesce(w.SampleCount, 1)
	if samples != 1 && samples != 4 {
		return SurfaceSettings{}, fmt.Errorf("%w: sample count %d, want 1 or 4", ErrInvalidValue, samples)
	}
	return SurfaceSettings{
		Size:                       w.Size.Clamped(),
		PresentMode:                present,
		AlphaMode:                  alpha,
		Format:                     format,
		DepthFormat:                depth,
		Blend:                      blend,
		PreferSRGB:                 w.PreferSRGB,
		DesiredMaximumFrameLatency: common.Coalesce(w.DesiredMaximumFrameLatency, 2),
		SampleCount:                samples,
	}, nil
}

// Window returns the i-th window config with the app-wide color format, depth format
// and sample count filled in where the window leaves them empty.
func (a AppConfig) Window(i int) WindowConfig {
	w := a.Windows[i]
	w.SurfaceFormat = common.Coalesce(w.SurfaceFormat, a.ColorFormat)
	w.DepthFormat = common.Coalesce(w.DepthFormat, a.DepthFormat)
	w.SampleCount = common.Coalesce(w.SampleCount, a.SampleCount)
	return w
}

// Validate parses every enum field of the config without keeping the results.
func (a AppConfig) Validate() error {
	if _, err := a.Device.Request(); err != nil {
		return fmt.Errorf("device: %w", err)
	}
	for i := range a.Windows {
		if _, err := a.Window(i).Settings(); err != nil {
			return fmt.Errorf("window %d: %w", i, err)
		}
	}
	return nil
}
