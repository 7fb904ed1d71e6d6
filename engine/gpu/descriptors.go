package gpu

import "github.com/gogpu/gputypes"

// TextureDescriptor describes a 2D texture.
type TextureDescriptor struct {
	Label       string
	Width       uint32
	Height      uint32
	Format      gputypes.TextureFormat
	Usage       gputypes.TextureUsage
	SampleCount uint32
}

// ColorAttachment is one color target of a render pass.
type ColorAttachment struct {
	View          TextureView
	ResolveTarget TextureView // nil unless View is multisampled
	LoadOp        gputypes.LoadOp
	StoreOp       gputypes.StoreOp
	ClearValue    gputypes.Color
}

// DepthAttachment is the depth target of a render pass.
type DepthAttachment struct {
	View            TextureView
	DepthLoadOp     gputypes.LoadOp
	DepthStoreOp    gputypes.StoreOp
	DepthClearValue float32
}

// RenderPassDescriptor describes the attachments of a render pass.
type RenderPassDescriptor struct {
	Label            string
	ColorAttachments []ColorAttachment
	// DepthStencil is nil when the pass has no depth attachment.
	DepthStencil *DepthAttachment
}

// RenderPipelineDescriptor describes a render pipeline built from a single WGSL module.
type RenderPipelineDescriptor struct {
	Label         string
	ShaderSource  string
	VertexEntry   string
	FragmentEntry string
	VertexBuffers []gputypes.VertexBufferLayout
	ColorFormats  []gputypes.TextureFormat
	Blend         *gputypes.BlendState
	Topology      gputypes.PrimitiveTopology
	DepthFormat   gputypes.TextureFormat // TextureFormatUndefined disables depth testing
	SampleCount   uint32
	UniformSize   uint64 // binding size of the dynamic uniform at group 0, binding 0
}
