// Package surface manages one presentation surface per window: its lifecycle
// across platform suspend/resume, its swap chain configuration and depth
// attachment, and the per-frame acquisition protocol.
package surface

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/config"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/gogpu/gputypes"
)

var (
	// ErrSurfaceCreation is returned when the backend cannot create a surface for the window.
	ErrSurfaceCreation = errors.New("surface: creation failed")
	// ErrNotActive is returned by operations that need a configured surface.
	ErrNotActive = errors.New("surface: not active")
	// ErrInvalidTransition is returned when a lifecycle method is called from a state that does not allow it.
	ErrInvalidTransition = errors.New("surface: invalid transition")
	// ErrAcquisitionFailed is returned when no frame could be acquired within the retry policy.
	ErrAcquisitionFailed = errors.New("surface: acquisition failed")
	// ErrFrameOutstanding is returned by lifecycle methods while an acquired frame has not been presented or dropped.
	ErrFrameOutstanding = errors.New("surface: frame outstanding")
)

// Target is the native window a surface presents to.
type Target interface {
	// SurfaceTarget returns the backend-specific handle the surface is created from.
	SurfaceTarget() gpu.SurfaceTarget

	// FramebufferSize returns the drawable size in physical pixels.
	FramebufferSize() (width, height int)
}

// Surface is the presentation surface of one window.
// All methods must be called from the event loop goroutine.
type Surface interface {
	// State returns the current lifecycle state.
	State() State

	// Platform returns the platform profile the surface follows.
	Platform() Platform

	// PreAdapter creates the native surface before adapter selection on platforms that need it.
	// Elsewhere it does nothing and the surface stays Unbound.
	//
	// Parameters:
	//   - instance: the backend instance
	//
	// Returns:
	//   - error: ErrSurfaceCreation, or ErrInvalidTransition when not Unbound
	PreAdapter(instance gpu.Instance) error

	// Resume creates the native surface if needed, configures it for the target's
	// current size and (re)creates the depth attachment.
	//
	// Parameters:
	//   - instance: the backend instance
	//   - adapter: the adapter the device was created from
	//   - device: the shared device
	//   - preferSRGB: add the sRGB view format instead of forcing a linear format
	//
	// Returns:
	//   - error: ErrSurfaceCreation, a configure error, ErrFrameOutstanding, or ErrInvalidTransition when Destroyed
	Resume(instance gpu.Instance, adapter gpu.Adapter, device gpu.Device, preferSRGB bool) error

	// Suspend stops frame acquisition. On platforms that invalidate surfaces the
	// native surface and its configuration are released.
	//
	// Returns:
	//   - error: ErrInvalidTransition when not Active, or ErrFrameOutstanding
	Suspend() error

	// Resize reconfigures the surface and its attachments. Each dimension is clamped to at least 1.
	// A Suspended surface is left untouched; Resume picks up the window size.
	// On a configure error the previous configuration stays in place.
	//
	// Parameters:
	//   - device: the shared device
	//   - width: new width in physical pixels
	//   - height: new height in physical pixels
	//
	// Returns:
	//   - error: ErrNotActive if the surface was never activated, ErrFrameOutstanding, or a configure error
	Resize(device gpu.Device, width, height int) error

	// Destroy releases the depth attachment, configuration and native surface.
	//
	// Returns:
	//   - error: ErrFrameOutstanding while a frame is acquired
	Destroy() error

	// Config returns the current swap chain configuration.
	//
	// Returns:
	//   - gputypes.SurfaceConfiguration: the configuration
	//   - bool: false when the surface is not configured
	Config() (gputypes.SurfaceConfiguration, bool)

	// ViewFormat returns the format frames are viewed and rendered in: the first
	// configured view format, or the surface format when none is set.
	// It is TextureFormatUndefined while the surface is not configured.
	ViewFormat() gputypes.TextureFormat

	// Settings returns the window settings the surface was built with.
	Settings() config.SurfaceSettings

	// Handle returns the native surface, or nil while none exists. A pre-staged
	// handle is the compatible-surface candidate for adapter selection.
	Handle() gpu.Surface

	// DepthView returns the depth attachment view, or nil when no depth format is configured.
	DepthView() gpu.TextureView

	// MultisampleView returns the multisampled color target that resolves into
	// the acquired frame, or nil when the sample count is 1.
	MultisampleView() gpu.TextureView

	// Acquire returns the next presentable frame, retrying transient failures once.
	// It panics if the previous frame has not been presented or dropped.
	//
	// Returns:
	//   - *Frame: the acquired frame
	//   - error: ErrNotActive or ErrAcquisitionFailed
	Acquire() (*Frame, error)

	// FrameCounter returns the counter ticked by every successful acquisition.
	FrameCounter() *FrameCounter
}

type surface struct {
	target   Target
	platform Platform
	settings config.SurfaceSettings
	label    string
	log      *slog.Logger

	state   State
	handle  gpu.Surface
	config  *gputypes.SurfaceConfiguration
	adapter gpu.Adapter
	device  gpu.Device

	depth       attachment
	multisample attachment

	frame   *Frame
	counter *FrameCounter
}

var _ Surface = &surface{}

// New creates an Unbound surface for target.
// Applies default values first, then each option in order.
//
// Parameters:
//   - target: the window the surface presents to
//   - options: variadic list of SurfaceBuilderOption
//
// Returns:
//   - Surface: the surface, with no native handle yet
func New(target Target, options ...SurfaceBuilderOption) Surface {
	defaults, _ := config.DefaultWindowConfig().Settings()
	s := &surface{
		target:   target,
		platform: CurrentPlatform(),
		settings: defaults,
		label:    "surface",
	}
	for _, opt := range options {
		opt(s)
	}
	if s.counter == nil {
		s.counter = NewFrameCounter(nil)
	}
	s.log = common.Logger().With("surface", s.label, "platform", s.platform.String())
	return s
}

func (s *surface) State() State {
	return s.state
}

func (s *surface) Platform() Platform {
	return s.platform
}

func (s *surface) Settings() config.SurfaceSettings {
	return s.settings
}

func (s *surface) Handle() gpu.Surface {
	return s.handle
}

func (s *surface) FrameCounter() *FrameCounter {
	return s.counter
}

func (s *surface) DepthView() gpu.TextureView {
	return s.depth.view
}

func (s *surface) MultisampleView() gpu.TextureView {
	return s.multisample.view
}

func (s *surface) Config() (gputypes.SurfaceConfiguration, bool) {
	if s.config == nil {
		return gputypes.SurfaceConfiguration{}, false
	}
	cfg := *s.config
	cfg.ViewFormats = slices.Clone(cfg.ViewFormats)
	return cfg, true
}

func (s *surface) ViewFormat() gputypes.TextureFormat {
	if s.config == nil {
		return gputypes.TextureFormatUndefined
	}
	if len(s.config.ViewFormats) > 0 {
		return s.config.ViewFormats[0]
	}
	return s.config.Format
}

func (s *surface) PreAdapter(instance gpu.Instance) error {
	if s.state != StateUnbound {
		return transitionError("PreAdapter", s.state)
	}
	if !s.platform.SurfaceBeforeAdapter() {
		return nil
	}
	if err := s.create(instance); err != nil {
		return err
	}
	s.state = StatePreStaged
	s.log.Debug("surface pre-staged")
	return nil
}

func (s *surface) Resume(instance gpu.Instance, adapter gpu.Adapter, device gpu.Device, preferSRGB bool) error {
	if s.state == StateDestroyed {
		return transitionError("Resume", s.state)
	}
	if s.frame != nil {
		return ErrFrameOutstanding
	}

	created := false
	if s.handle == nil {
		if err := s.create(instance); err != nil {
			return err
		}
		created = true
	}
	s.adapter = adapter
	s.device = device

	size := common.ClampedSize(s.target.FramebufferSize())
	cfg := s.defaultConfig(size, preferSRGB)
	if err := s.handle.Configure(adapter, device, cfg); err != nil {
		if created {
			s.handle.Release()
			s.handle = nil
		}
		return fmt.Errorf("surface: configure: %w", err)
	}
	s.config = &cfg

	if err := s.recreateAttachments(); err != nil {
		return err
	}

	s.state = StateActive
	s.log.Info("surface resumed",
		"width", cfg.Width,
		"height", cfg.Height,
		"format", cfg.Format.String(),
		"present_mode", cfg.PresentMode,
	)
	return nil
}

func (s *surface) Suspend() error {
	if s.state != StateActive {
		return transitionError("Suspend", s.state)
	}
	if s.frame != nil {
		return ErrFrameOutstanding
	}
	if s.platform.SuspendInvalidatesSurface() {
		s.config = nil
		if s.handle != nil {
			s.handle.Release()
			s.handle = nil
		}
	}
	s.state = StateSuspended
	s.log.Info("surface suspended", "released", s.platform.SuspendInvalidatesSurface())
	return nil
}

func (s *surface) Resize(device gpu.Device, width, height int) error {
	switch s.state {
	case StateUnbound, StatePreStaged, StateDestroyed:
		return ErrNotActive
	case StateSuspended:
		// Resume reads the window size
		return nil
	}
	if s.frame != nil {
		return ErrFrameOutstanding
	}

	size := common.ClampedSize(width, height)
	cfg := *s.config
	cfg.Width = size.Width
	cfg.Height = size.Height
	if err := s.handle.Configure(s.adapter, device, cfg); err != nil {
		return fmt.Errorf("surface: configure: %w", err)
	}
	s.device = device
	s.config = &cfg
	if err := s.recreateAttachments(); err != nil {
		return err
	}
	s.log.Debug("surface resized", "width", size.Width, "height", size.Height)
	return nil
}

func (s *surface) Destroy() error {
	if s.state == StateDestroyed {
		return nil
	}
	if s.frame != nil {
		return ErrFrameOutstanding
	}
	s.releaseAttachments()
	s.config = nil
	if s.handle != nil {
		s.handle.Release()
		s.handle = nil
	}
	s.adapter = nil
	s.device = nil
	s.state = StateDestroyed
	s.log.Info("surface destroyed")
	return nil
}

func (s *surface) create(instance gpu.Instance) error {
	target := s.target.SurfaceTarget()
	if target == nil {
		return fmt.Errorf("%w: window has no native handle", ErrSurfaceCreation)
	}
	handle, err := instance.CreateSurface(target)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSurfaceCreation, err)
	}
	s.handle = handle
	return nil
}

// defaultConfig negotiates the window settings against the surface capabilities.
func (s *surface) defaultConfig(size common.Size, preferSRGB bool) gputypes.SurfaceConfiguration {
	caps := s.handle.Capabilities(s.adapter)

	format := s.settings.Format
	if !slices.Contains(caps.Formats, format) && len(caps.Formats) > 0 {
		s.log.Warn("surface format unsupported, using first supported format",
			"wanted", format.String(), "using", caps.Formats[0].String())
		format = caps.Formats[0]
	}

	present := s.settings.PresentMode
	if !slices.Contains(caps.PresentModes, present) {
		s.log.Warn("present mode unsupported, using fifo", "wanted", present)
		present = gputypes.PresentModeFifo
	}

	alpha := s.settings.AlphaMode
	if !slices.Contains(caps.AlphaModes, alpha) && len(caps.AlphaModes) > 0 {
		alpha = caps.AlphaModes[0]
	}

	cfg := gputypes.SurfaceConfiguration{
		Usage:                      gputypes.TextureUsageRenderAttachment,
		Format:                     format,
		Width:                      size.Width,
		Height:                     size.Height,
		PresentMode:                present,
		DesiredMaximumFrameLatency: s.settings.DesiredMaximumFrameLatency,
		AlphaMode:                  alpha,
	}
	if preferSRGB {
		cfg.ViewFormats = append(cfg.ViewFormats, AddSRGBSuffix(cfg.Format))
	} else {
		cfg.Format = RemoveSRGBSuffix(cfg.Format)
		cfg.ViewFormats = append(cfg.ViewFormats, cfg.Format)
	}
	return cfg
}
