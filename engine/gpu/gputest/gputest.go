// Package gputest provides an in-memory gpu backend that records every call.
// It never touches a real device, so lifecycle and frame tests run headless.
package gputest

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/gogpu/gputypes"
)

// Instance is a fake gpu.Instance.
type Instance struct {
	Adapter        *Adapter
	AdapterErr     error
	SurfaceErr     error
	Surfaces       []*Surface
	AdapterOptions []gpu.AdapterOptions
	Released       bool

	// NewSurface customizes surfaces returned by CreateSurface.
	NewSurface func() *Surface
}

var _ gpu.Instance = &Instance{}

// NewInstance returns an instance exposing one default adapter.
func NewInstance() *Instance {
	return &Instance{Adapter: NewAdapter()}
}

func (i *Instance) CreateSurface(target gpu.SurfaceTarget) (gpu.Surface, error) {
	if i.SurfaceErr != nil {
		return nil, i.SurfaceErr
	}
	var s *Surface
	if i.NewSurface != nil {
		s = i.NewSurface()
	} else {
		s = NewSurface()
	}
	s.Target = target
	i.Surfaces = append(i.Surfaces, s)
	return s, nil
}

func (i *Instance) RequestAdapter(options gpu.AdapterOptions) (gpu.Adapter, error) {
	i.AdapterOptions = append(i.AdapterOptions, options)
	if i.AdapterErr != nil {
		return nil, i.AdapterErr
	}
	if i.Adapter == nil {
		return nil, errors.New("gputest: no adapter")
	}
	return i.Adapter, nil
}

func (i *Instance) Release() { i.Released = true }

// Adapter is a fake gpu.Adapter.
type Adapter struct {
	AdapterInfo     gputypes.AdapterInfo
	AdapterLimits   gputypes.Limits
	AdapterFeatures gputypes.Features
	DeviceErr       error
	Requests        []gputypes.DeviceDescriptor
	Device          *Device
	Released        bool
}

var _ gpu.Adapter = &Adapter{}

// NewAdapter returns an adapter with WebGPU default limits and a discrete GPU identity.
func NewAdapter() *Adapter {
	return &Adapter{
		AdapterInfo: gputypes.AdapterInfo{
			Name:       "gputest adapter",
			DeviceType: gputypes.DeviceTypeDiscreteGPU,
			Backend:    gputypes.BackendVulkan,
		},
		AdapterLimits: gputypes.DefaultLimits(),
	}
}

func (a *Adapter) Info() gputypes.AdapterInfo  { return a.AdapterInfo }
func (a *Adapter) Limits() gputypes.Limits     { return a.AdapterLimits }
func (a *Adapter) Features() gputypes.Features { return a.AdapterFeatures }
func (a *Adapter) Release()                    { a.Released = true }

func (a *Adapter) RequestDevice(desc gputypes.DeviceDescriptor) (gpu.Device, error) {
	a.Requests = append(a.Requests, desc)
	if a.DeviceErr != nil {
		return nil, a.DeviceErr
	}
	a.Device = NewDevice(desc.RequiredLimits)
	return a.Device, nil
}

// Device is a fake gpu.Device.
type Device struct {
	DeviceLimits gputypes.Limits
	FakeQueue    *Queue
	Textures     []*Texture
	Buffers      []*Buffer
	Encoders     []*CommandEncoder
	Pipelines    []gpu.RenderPipelineDescriptor
	BindGroups   int
	Released     bool
}

var _ gpu.Device = &Device{}

// NewDevice returns a device with the given limits.
func NewDevice(limits gputypes.Limits) *Device {
	return &Device{DeviceLimits: limits, FakeQueue: &Queue{}}
}

func (d *Device) Queue() gpu.Queue        { return d.FakeQueue }
func (d *Device) Limits() gputypes.Limits { return d.DeviceLimits }
func (d *Device) Release()                { d.Released = true }

func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	t := &Texture{Desc: desc}
	d.Textures = append(d.Textures, t)
	return t, nil
}

func (d *Device) CreateBuffer(desc gputypes.BufferDescriptor) (gpu.Buffer, error) {
	b := &Buffer{Desc: desc}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) CreateCommandEncoder(label string) (gpu.CommandEncoder, error) {
	e := &CommandEncoder{Label: label}
	d.Encoders = append(d.Encoders, e)
	return e, nil
}

func (d *Device) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	d.Pipelines = append(d.Pipelines, desc)
	return &RenderPipeline{Desc: desc}, nil
}

func (d *Device) CreateUniformBindGroup(_ gpu.RenderPipeline, buf gpu.Buffer, size uint64) (gpu.BindGroup, error) {
	d.BindGroups++
	return &BindGroup{Buffer: buf, Size: size}, nil
}

// Queue is a fake gpu.Queue.
type Queue struct {
	Submits []gpu.CommandBuffer
	Writes  []Write
}

// Write records one WriteBuffer call.
type Write struct {
	Buffer gpu.Buffer
	Offset uint64
	Size   int
}

var _ gpu.Queue = &Queue{}

func (q *Queue) Submit(cmd gpu.CommandBuffer) { q.Submits = append(q.Submits, cmd) }

func (q *Queue) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) error {
	q.Writes = append(q.Writes, Write{Buffer: buf, Offset: offset, Size: len(data)})
	return nil
}

// Surface is a fake gpu.Surface with scriptable acquisition failures.
type Surface struct {
	Target     gpu.SurfaceTarget
	Caps       gputypes.SurfaceCapabilities
	Configs    []gputypes.SurfaceConfiguration
	ConfigErr  error
	Acquires   int
	Presents   int
	Released   bool

	// AcquireErrs is consumed front to back, one entry per CurrentTexture call.
	// A nil entry (or an exhausted slice) means success.
	AcquireErrs []error
}

var _ gpu.Surface = &Surface{}

// NewSurface returns a surface supporting BGRA8UnormSrgb/BGRA8Unorm with Fifo and Mailbox.
func NewSurface() *Surface {
	return &Surface{
		Caps: gputypes.SurfaceCapabilities{
			Formats:      []gputypes.TextureFormat{gputypes.TextureFormatBGRA8UnormSrgb, gputypes.TextureFormatBGRA8Unorm},
			PresentModes: []gputypes.PresentMode{gputypes.PresentModeFifo, gputypes.PresentModeMailbox},
			AlphaModes:   []gputypes.CompositeAlphaMode{gputypes.CompositeAlphaModeOpaque},
			Usages:       gputypes.TextureUsageRenderAttachment,
		},
	}
}

// Fail queues acquisition failures of the given kinds.
func (s *Surface) Fail(kinds ...gpu.SurfaceErrorKind) {
	for _, k := range kinds {
		s.AcquireErrs = append(s.AcquireErrs, gpu.NewSurfaceError(k, errors.New("injected")))
	}
}

// LastConfig returns the most recent configuration, or the zero value.
func (s *Surface) LastConfig() gputypes.SurfaceConfiguration {
	if len(s.Configs) == 0 {
		return gputypes.SurfaceConfiguration{}
	}
	return s.Configs[len(s.Configs)-1]
}

func (s *Surface) Capabilities(gpu.Adapter) gputypes.SurfaceCapabilities { return s.Caps }

func (s *Surface) Configure(_ gpu.Adapter, _ gpu.Device, config gputypes.SurfaceConfiguration) error {
	if s.ConfigErr != nil {
		return s.ConfigErr
	}
	config.ViewFormats = append([]gputypes.TextureFormat(nil), config.ViewFormats...)
	s.Configs = append(s.Configs, config)
	return nil
}

func (s *Surface) CurrentTexture() (gpu.Texture, error) {
	s.Acquires++
	if len(s.AcquireErrs) > 0 {
		err := s.AcquireErrs[0]
		s.AcquireErrs = s.AcquireErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	cfg := s.LastConfig()
	return &Texture{Desc: gpu.TextureDescriptor{
		Label:  "surface",
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: cfg.Format,
		Usage:  cfg.Usage,
	}}, nil
}

func (s *Surface) Present() error {
	s.Presents++
	return nil
}

func (s *Surface) Release() { s.Released = true }

// Texture is a fake gpu.Texture.
type Texture struct {
	Desc     gpu.TextureDescriptor
	Views    int
	Released bool
}

var _ gpu.Texture = &Texture{}

func (t *Texture) CreateView(format gputypes.TextureFormat) (gpu.TextureView, error) {
	t.Views++
	if format == gputypes.TextureFormatUndefined {
		format = t.Desc.Format
	}
	return &TextureView{Texture: t, ViewFormat: format}, nil
}

func (t *Texture) Width() uint32                  { return t.Desc.Width }
func (t *Texture) Height() uint32                 { return t.Desc.Height }
func (t *Texture) Format() gputypes.TextureFormat { return t.Desc.Format }
func (t *Texture) Usage() gputypes.TextureUsage   { return t.Desc.Usage }
func (t *Texture) Release()                       { t.Released = true }

// TextureView is a fake gpu.TextureView.
type TextureView struct {
	Texture    *Texture
	ViewFormat gputypes.TextureFormat
	Released   bool
}

func (v *TextureView) Format() gputypes.TextureFormat { return v.ViewFormat }
func (v *TextureView) Release()                       { v.Released = true }

// Buffer is a fake gpu.Buffer.
type Buffer struct {
	Desc     gputypes.BufferDescriptor
	Released bool
}

func (b *Buffer) Size() uint64 { return b.Desc.Size }
func (b *Buffer) Release()     { b.Released = true }

// BindGroup is a fake gpu.BindGroup.
type BindGroup struct {
	Buffer   gpu.Buffer
	Size     uint64
	Released bool
}

func (g *BindGroup) Release() { g.Released = true }

// RenderPipeline is a fake gpu.RenderPipeline.
type RenderPipeline struct {
	Desc     gpu.RenderPipelineDescriptor
	Released bool
}

func (p *RenderPipeline) Release() { p.Released = true }

// CommandBuffer is a fake gpu.CommandBuffer.
type CommandBuffer struct {
	Encoder  *CommandEncoder
	Released bool
}

func (c *CommandBuffer) Release() { c.Released = true }

// CommandEncoder is a fake gpu.CommandEncoder.
type CommandEncoder struct {
	Label    string
	Passes   []*RenderPass
	Finished bool
	Released bool
}

var _ gpu.CommandEncoder = &CommandEncoder{}

func (e *CommandEncoder) BeginRenderPass(desc gpu.RenderPassDescriptor) (gpu.RenderPass, error) {
	p := &RenderPass{Desc: desc}
	e.Passes = append(e.Passes, p)
	return p, nil
}

func (e *CommandEncoder) Finish() (gpu.CommandBuffer, error) {
	e.Finished = true
	return &CommandBuffer{Encoder: e}, nil
}

func (e *CommandEncoder) Release() { e.Released = true }

// Draw records one DrawIndexed call with the state bound at the time.
type Draw struct {
	Pipeline       gpu.RenderPipeline
	BindGroup      gpu.BindGroup
	DynamicOffsets []uint32
	VertexBuffer   gpu.Buffer
	IndexBuffer    gpu.Buffer
	IndexCount     uint32
	InstanceCount  uint32
}

// RenderPass is a fake gpu.RenderPass.
type RenderPass struct {
	Desc     gpu.RenderPassDescriptor
	Draws    []Draw
	Ended    bool
	Released bool

	pipeline gpu.RenderPipeline
	group    gpu.BindGroup
	offsets  []uint32
	vertex   gpu.Buffer
	index    gpu.Buffer
}

var _ gpu.RenderPass = &RenderPass{}

func (p *RenderPass) SetPipeline(pipeline gpu.RenderPipeline) { p.pipeline = pipeline }

func (p *RenderPass) SetBindGroup(_ uint32, group gpu.BindGroup, dynamicOffsets []uint32) {
	p.group = group
	p.offsets = append([]uint32(nil), dynamicOffsets...)
}

func (p *RenderPass) SetVertexBuffer(_ uint32, buf gpu.Buffer)              { p.vertex = buf }
func (p *RenderPass) SetIndexBuffer(buf gpu.Buffer, _ gputypes.IndexFormat) { p.index = buf }

func (p *RenderPass) DrawIndexed(indexCount, instanceCount uint32) {
	p.Draws = append(p.Draws, Draw{
		Pipeline:       p.pipeline,
		BindGroup:      p.group,
		DynamicOffsets: p.offsets,
		VertexBuffer:   p.vertex,
		IndexBuffer:    p.index,
		IndexCount:     indexCount,
		InstanceCount:  instanceCount,
	})
}

func (p *RenderPass) End() error {
	p.Ended = true
	return nil
}

func (p *RenderPass) Release() { p.Released = true }
