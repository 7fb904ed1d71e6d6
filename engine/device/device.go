// Package device owns the GPU instance, adapter, device and queue shared by every surface.
package device

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

var (
	// ErrAdapterUnavailable is returned when no adapter satisfies the request.
	ErrAdapterUnavailable = errors.New("device: no suitable adapter")
	// ErrDeviceRequestFailed is returned when the adapter refuses the device request.
	ErrDeviceRequestFailed = errors.New("device: device request failed")
)

// DeviceContext is the single graphics context of a running application.
// The device and queue are shared by every surface and frame; the instance and
// adapter are owned here and outlive all surfaces.
type DeviceContext interface {
	gpucontext.DeviceProvider

	// Instance returns the backend instance surfaces are created from.
	Instance() gpu.Instance

	// GPUAdapter returns the selected adapter.
	GPUAdapter() gpu.Adapter

	// GPUDevice returns the logical device.
	GPUDevice() gpu.Device

	// GPUQueue returns the device queue.
	GPUQueue() gpu.Queue

	// Limits returns the limits the device was created with, after resolution against the adapter.
	//
	// Returns:
	//   - gputypes.Limits: the granted limits
	Limits() gputypes.Limits

	// Features returns the features the device was created with.
	//
	// Returns:
	//   - gputypes.Features: the granted features
	Features() gputypes.Features

	// Info returns the adapter identity reported by the backend.
	Info() gputypes.AdapterInfo

	// SetSurfaceFormat records the color format of the primary surface, which
	// SurfaceFormat reports to gpucontext consumers.
	//
	// Parameters:
	//   - format: the configured surface format
	SetSurfaceFormat(format gputypes.TextureFormat)

	// Release destroys the device, adapter and instance, in that order.
	Release()
}

type deviceContext struct {
	instance gpu.Instance
	adapter  gpu.Adapter
	device   gpu.Device
	queue    gpu.Queue

	info          gputypes.AdapterInfo
	limits        gputypes.Limits
	features      gputypes.Features
	surfaceFormat gputypes.TextureFormat

	// request parameters, set by options
	label           string
	powerPreference gputypes.PowerPreference
	forceFallback   bool
	wantFeatures    gputypes.Features
	wantLimits      gputypes.Limits
	optionErr       error
}

var _ DeviceContext = &deviceContext{}

// New selects an adapter and creates the device. It does not retry.
//
// Parameters:
//   - instance: the backend instance; ownership passes to the context
//   - candidate: a surface the adapter must be able to present to, or nil
//   - options: variadic list of DeviceContextBuilderOption
//
// Returns:
//   - DeviceContext: the ready context
//   - error: ErrAdapterUnavailable or ErrDeviceRequestFailed wrapping the backend error, or a config parse error
func New(instance gpu.Instance, candidate gpu.Surface, options ...DeviceContextBuilderOption) (DeviceContext, error) {
	dc := &deviceContext{
		instance:   instance,
		label:      "Main Device",
		wantLimits: gputypes.DefaultLimits(),
	}
	for _, opt := range options {
		opt(dc)
	}
	if dc.optionErr != nil {
		return nil, dc.optionErr
	}

	adapter, err := instance.RequestAdapter(gpu.AdapterOptions{
		PowerPreference:      dc.powerPreference,
		ForceFallbackAdapter: dc.forceFallback,
		CompatibleSurface:    candidate,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAdapterUnavailable, err)
	}
	if adapter == nil {
		return nil, ErrAdapterUnavailable
	}
	dc.adapter = adapter
	dc.info = adapter.Info()

	log := common.Logger()
	log.Info("adapter selected",
		"name", dc.info.Name,
		"backend", dc.info.Backend.String(),
		"type", dc.info.DeviceType.String(),
	)

	granted, dropped := ResolveFeatures(dc.wantFeatures, adapter.Features())
	if !dropped.IsEmpty() {
		log.Warn("requested features not supported by adapter", "dropped", featureList(dropped))
	}
	limits := ResolveLimits(dc.wantLimits, adapter.Limits())

	device, err := adapter.RequestDevice(gputypes.DeviceDescriptor{
		Label:            dc.label,
		RequiredFeatures: featureList(granted),
		RequiredLimits:   limits,
		MemoryHints:      gputypes.MemoryHintsPerformance,
	})
	if err != nil {
		adapter.Release()
		return nil, fmt.Errorf("%w: %w", ErrDeviceRequestFailed, err)
	}
	dc.device = device
	dc.queue = device.Queue()
	dc.features = granted
	dc.limits = limits

	log.Info("device created",
		"max_texture_dimension_2d", limits.MaxTextureDimension2D,
		"max_bind_groups", limits.MaxBindGroups,
		"min_uniform_buffer_offset_alignment", limits.MinUniformBufferOffsetAlignment,
		"max_push_constant_size", limits.MaxPushConstantSize,
	)

	return dc, nil
}

func (d *deviceContext) Instance() gpu.Instance      { return d.instance }
func (d *deviceContext) GPUAdapter() gpu.Adapter     { return d.adapter }
func (d *deviceContext) GPUDevice() gpu.Device       { return d.device }
func (d *deviceContext) GPUQueue() gpu.Queue         { return d.queue }
func (d *deviceContext) Limits() gputypes.Limits     { return d.limits }
func (d *deviceContext) Features() gputypes.Features { return d.features }
func (d *deviceContext) Info() gputypes.AdapterInfo  { return d.info }

func (d *deviceContext) SetSurfaceFormat(format gputypes.TextureFormat) {
	d.surfaceFormat = format
}

func (d *deviceContext) Device() gpucontext.Device   { return d.device }
func (d *deviceContext) Queue() gpucontext.Queue     { return d.queue }
func (d *deviceContext) Adapter() gpucontext.Adapter { return d.adapter }

func (d *deviceContext) SurfaceFormat() gputypes.TextureFormat {
	return d.surfaceFormat
}

func (d *deviceContext) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{
		Name: d.info.Name,
		Type: adapterType(d.info.DeviceType),
	}
}

func (d *deviceContext) Release() {
	if d.device != nil {
		d.device.Release()
		d.device = nil
		d.queue = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}
