// Package webgpu implements the gpu interfaces on top of wgpu-native through
// github.com/cogentcore/webgpu. Importing it registers the "webgpu" backend.
package webgpu

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"
)

// ErrUnsupportedTarget is returned when CreateSurface receives something other than a *wgpu.SurfaceDescriptor.
var ErrUnsupportedTarget = errors.New("webgpu: unsupported surface target")

func init() {
	gpu.RegisterBackend("webgpu", func() gpu.Instance { return NewInstance() })
}

type instance struct {
	instance *wgpu.Instance
}

var _ gpu.Instance = &instance{}

// NewInstance creates a wgpu-native instance. The calling goroutine is locked to its
// OS thread, since surfaces and swap chains must stay on the thread that created them.
func NewInstance() gpu.Instance {
	runtime.LockOSThread()
	return &instance{instance: wgpu.CreateInstance(nil)}
}

func (i *instance) CreateSurface(target gpu.SurfaceTarget) (gpu.Surface, error) {
	desc, ok := target.(*wgpu.SurfaceDescriptor)
	if !ok || desc == nil {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
	}
	s := i.instance.CreateSurface(desc)
	if s == nil {
		return nil, errors.New("webgpu: CreateSurface returned nil")
	}
	return &surface{surface: s}, nil
}

func (i *instance) RequestAdapter(options gpu.AdapterOptions) (gpu.Adapter, error) {
	opts := &wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: options.ForceFallbackAdapter,
		PowerPreference:      toPowerPreference(options.PowerPreference),
	}
	if s, ok := options.CompatibleSurface.(*surface); ok && s != nil {
		opts.CompatibleSurface = s.surface
	}
	a, err := i.instance.RequestAdapter(opts)
	if err != nil {
		return nil, err
	}
	return &adapter{adapter: a}, nil
}

func (i *instance) Release() {
	i.instance.Release()
}

type adapter struct {
	adapter *wgpu.Adapter
}

var _ gpu.Adapter = &adapter{}

func (a *adapter) Info() gputypes.AdapterInfo {
	info := a.adapter.GetInfo()
	return gputypes.AdapterInfo{
		Name:       info.Name,
		DeviceType: fromAdapterType(info.AdapterType),
		Backend:    fromBackendType(info.BackendType),
	}
}

func (a *adapter) Limits() gputypes.Limits {
	return fromLimits(a.adapter.GetLimits().Limits)
}

func (a *adapter) Features() gputypes.Features {
	return fromFeatureNames(a.adapter.EnumerateFeatures())
}

func (a *adapter) RequestDevice(desc gputypes.DeviceDescriptor) (gpu.Device, error) {
	d, err := a.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            desc.Label,
		RequiredFeatures: toFeatureNames(desc.RequiredFeatures),
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: toLimits(desc.RequiredLimits),
		},
	})
	if err != nil {
		return nil, err
	}
	return &device{device: d, queue: &queue{queue: d.GetQueue()}, limits: desc.RequiredLimits}, nil
}

func (a *adapter) Release() {
	a.adapter.Release()
}
