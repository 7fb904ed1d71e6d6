// Package gpu defines the backend-neutral GPU surface the engine is written against.
// Concrete backends (see engine/gpu/webgpu) implement these interfaces; enums and plain
// descriptor values come from gputypes so every backend speaks the same vocabulary.
package gpu

import "github.com/gogpu/gputypes"

// Releaser is implemented by every GPU object that owns backend memory.
type Releaser interface {
	// Release frees the backend object. Calling Release more than once is a no-op.
	Release()
}

// Instance is the process-wide entry point to a graphics backend.
type Instance interface {
	Releaser

	// CreateSurface creates a presentation surface for a platform window.
	//
	// Parameters:
	//   - target: the platform-specific surface target supplied by the windowing layer
	//
	// Returns:
	//   - Surface: the created surface
	//   - error: error if the platform rejects surface creation
	CreateSurface(target SurfaceTarget) (Surface, error)

	// RequestAdapter selects a physical adapter.
	//
	// Parameters:
	//   - options: power preference, fallback flag and optional compatible surface
	//
	// Returns:
	//   - Adapter: the selected adapter
	//   - error: error if no adapter satisfies the options
	RequestAdapter(options AdapterOptions) (Adapter, error)
}

// SurfaceTarget is an opaque, backend-specific handle describing where a surface presents
// (for example a native window descriptor). Backends type-assert it.
type SurfaceTarget any

// AdapterOptions controls adapter selection.
type AdapterOptions struct {
	PowerPreference      gputypes.PowerPreference
	ForceFallbackAdapter bool
	// CompatibleSurface, when non-nil, restricts selection to adapters able to present to it.
	CompatibleSurface Surface
}

// Adapter is one physical GPU/driver combination offered by the backend.
type Adapter interface {
	Releaser

	// Info returns descriptive metadata (name, backend, device type).
	Info() gputypes.AdapterInfo

	// Limits returns the adapter's supported limits.
	Limits() gputypes.Limits

	// Features returns the set of features the adapter advertises.
	Features() gputypes.Features

	// RequestDevice opens a logical device.
	//
	// Parameters:
	//   - desc: label, required features and required limits
	//
	// Returns:
	//   - Device: the logical device
	//   - error: error if the backend rejects the request
	RequestDevice(desc gputypes.DeviceDescriptor) (Device, error)
}

// Device is a logical connection to an adapter.
type Device interface {
	Releaser

	// Queue returns the device's submission queue.
	Queue() Queue

	// Limits returns the limits the device was created with.
	Limits() gputypes.Limits

	CreateTexture(desc TextureDescriptor) (Texture, error)
	CreateBuffer(desc gputypes.BufferDescriptor) (Buffer, error)
	CreateCommandEncoder(label string) (CommandEncoder, error)

	// CreateRenderPipeline builds a pipeline whose group 0 holds a single dynamic-offset
	// uniform buffer binding visible to the vertex and fragment stages.
	CreateRenderPipeline(desc RenderPipelineDescriptor) (RenderPipeline, error)

	// CreateUniformBindGroup binds size bytes of buf at binding 0 of the pipeline's group 0.
	CreateUniformBindGroup(pipeline RenderPipeline, buf Buffer, size uint64) (BindGroup, error)
}

// Queue submits recorded work to the device.
type Queue interface {
	Submit(cmd CommandBuffer)
	WriteBuffer(buf Buffer, offset uint64, data []byte) error
}

// Surface is a platform presentation target.
type Surface interface {
	Releaser

	// Capabilities reports the formats, present modes and alpha modes the adapter supports for this surface.
	Capabilities(adapter Adapter) gputypes.SurfaceCapabilities

	// Configure (re)configures the swap chain.
	Configure(adapter Adapter, device Device, config gputypes.SurfaceConfiguration) error

	// CurrentTexture acquires the next presentable texture. Failures are always *SurfaceError.
	CurrentTexture() (Texture, error)

	// Present shows the most recently acquired texture.
	Present() error
}

// Texture is a GPU image.
type Texture interface {
	Releaser

	// CreateView creates a 2D view of the texture.
	//
	// Parameters:
	//   - format: the view format; TextureFormatUndefined uses the texture's own format.
	//     Any other value must be the texture format or one of its allowed view formats.
	//
	// Returns:
	//   - TextureView: the view
	//   - error: error if the backend rejects the view
	CreateView(format gputypes.TextureFormat) (TextureView, error)
	Width() uint32
	Height() uint32
	Format() gputypes.TextureFormat
	Usage() gputypes.TextureUsage
}

// TextureView is a view over a texture usable as a render attachment.
type TextureView interface {
	Releaser
	Format() gputypes.TextureFormat
}

// Buffer is a linear GPU allocation.
type Buffer interface {
	Releaser
	Size() uint64
}

// BindGroup is a set of bound resources.
type BindGroup interface {
	Releaser
}

// RenderPipeline is a compiled render pipeline.
type RenderPipeline interface {
	Releaser
}

// CommandBuffer is recorded, immutable GPU work.
type CommandBuffer interface {
	Releaser
}

// CommandEncoder records a command buffer.
type CommandEncoder interface {
	Releaser
	BeginRenderPass(desc RenderPassDescriptor) (RenderPass, error)
	Finish() (CommandBuffer, error)
}

// RenderPass records draw commands against a fixed attachment set.
type RenderPass interface {
	Releaser
	SetPipeline(pipeline RenderPipeline)
	SetBindGroup(index uint32, group BindGroup, dynamicOffsets []uint32)
	SetVertexBuffer(slot uint32, buf Buffer)
	SetIndexBuffer(buf Buffer, format gputypes.IndexFormat)
	DrawIndexed(indexCount, instanceCount uint32)
	End() error
}
