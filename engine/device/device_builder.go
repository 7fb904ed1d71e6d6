package device

import (
	"github.com/Carmen-Shannon/oxy-frame/engine/config"
	"github.com/gogpu/gputypes"
)

// DeviceContextBuilderOption is a functional option for configuring the device request.
// Use the With* functions to create options.
type DeviceContextBuilderOption func(d *deviceContext)

// WithPowerPreference sets the adapter power preference.
//
// Parameters:
//   - p: LowPower, HighPerformance, or None for the system default
//
// Returns:
//   - DeviceContextBuilderOption: option function to apply
func WithPowerPreference(p gputypes.PowerPreference) DeviceContextBuilderOption {
	return func(d *deviceContext) {
		d.powerPreference = p
	}
}

// WithFeatures sets the features to request. Features the adapter lacks are dropped with a warning.
//
// Parameters:
//   - features: the requested feature set
//
// Returns:
//   - DeviceContextBuilderOption: option function to apply
func WithFeatures(features gputypes.Features) DeviceContextBuilderOption {
	return func(d *deviceContext) {
		d.wantFeatures = features
	}
}

// WithLimits sets the limits to request. They are resolved against the adapter before the device request.
//
// Parameters:
//   - limits: the requested limits
//
// Returns:
//   - DeviceContextBuilderOption: option function to apply
func WithLimits(limits gputypes.Limits) DeviceContextBuilderOption {
	return func(d *deviceContext) {
		d.wantLimits = limits
	}
}

// WithForceFallbackAdapter requests the software fallback adapter.
func WithForceFallbackAdapter(force bool) DeviceContextBuilderOption {
	return func(d *deviceContext) {
		d.forceFallback = force
	}
}

// WithLabel sets the debug label of the device.
func WithLabel(label string) DeviceContextBuilderOption {
	return func(d *deviceContext) {
		d.label = label
	}
}

// WithDeviceConfig applies a config.DeviceConfig in one option. A config that
// fails to parse makes New return the parse error before any adapter is requested.
//
// Parameters:
//   - cfg: the device section of the application config
//
// Returns:
//   - DeviceContextBuilderOption: option function to apply
func WithDeviceConfig(cfg config.DeviceConfig) DeviceContextBuilderOption {
	return func(d *deviceContext) {
		req, err := cfg.Request()
		if err != nil {
			d.optionErr = err
			return
		}
		if req.Label != "" {
			d.label = req.Label
		}
		d.powerPreference = req.PowerPreference
		d.forceFallback = req.ForceFallbackAdapter
		d.wantFeatures = req.Features
		d.wantLimits = req.Limits
	}
}
