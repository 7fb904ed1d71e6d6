package webgpu

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"
)

type device struct {
	device *wgpu.Device
	queue  *queue
	limits gputypes.Limits
}

var _ gpu.Device = &device{}

func (d *device) Queue() gpu.Queue        { return d.queue }
func (d *device) Limits() gputypes.Limits { return d.limits }

func (d *device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	t, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   max(desc.SampleCount, 1),
		Dimension:     wgpu.TextureDimension2D,
		Format:        toTextureFormat(desc.Format),
		Usage:         toTextureUsage(desc.Usage),
	})
	if err != nil {
		return nil, err
	}
	return &texture{texture: t, desc: desc}, nil
}

func (d *device) CreateBuffer(desc gputypes.BufferDescriptor) (gpu.Buffer, error) {
	b, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            desc.Label,
		Size:             desc.Size,
		Usage:            toBufferUsage(desc.Usage),
		MappedAtCreation: desc.MappedAtCreation,
	})
	if err != nil {
		return nil, err
	}
	return &buffer{buffer: b, size: desc.Size}, nil
}

func (d *device) CreateCommandEncoder(label string) (gpu.CommandEncoder, error) {
	e, err := d.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, err
	}
	return &commandEncoder{encoder: e}, nil
}

func (d *device) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: desc.ShaderSource,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("shader module %q: %w", desc.Label, err)
	}
	defer module.Release()

	layout, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: desc.Label + " Uniforms",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   desc.UniformSize,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("bind group layout %q: %w", desc.Label, err)
	}

	pipelineLayout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		layout.Release()
		return nil, fmt.Errorf("pipeline layout %q: %w", desc.Label, err)
	}
	defer pipelineLayout.Release()

	targets := make([]wgpu.ColorTargetState, 0, len(desc.ColorFormats))
	for _, f := range desc.ColorFormats {
		state := wgpu.ColorTargetState{
			Format:    toTextureFormat(f),
			WriteMask: wgpu.ColorWriteMaskAll,
		}
		if desc.Blend != nil {
			state.Blend = &wgpu.BlendState{
				Color: toBlendComponent(desc.Blend.Color),
				Alpha: toBlendComponent(desc.Blend.Alpha),
			}
		}
		targets = append(targets, state)
	}

	var depthStencil *wgpu.DepthStencilState
	if desc.DepthFormat != gputypes.TextureFormatUndefined {
		depthStencil = &wgpu.DepthStencilState{
			Format:            toTextureFormat(desc.DepthFormat),
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	created, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: desc.VertexEntry,
			Buffers:    toVertexLayouts(desc.VertexBuffers),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: desc.FragmentEntry,
			Targets:    targets,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  toTopology(desc.Topology),
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: max(desc.SampleCount, 1),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: depthStencil,
	})
	if err != nil {
		layout.Release()
		return nil, fmt.Errorf("render pipeline %q: %w", desc.Label, err)
	}
	return &renderPipeline{pipeline: created, layout: layout}, nil
}

func (d *device) CreateUniformBindGroup(pipeline gpu.RenderPipeline, buf gpu.Buffer, size uint64) (gpu.BindGroup, error) {
	p, ok := pipeline.(*renderPipeline)
	if !ok {
		return nil, fmt.Errorf("webgpu: foreign pipeline %T", pipeline)
	}
	b, ok := buf.(*buffer)
	if !ok {
		return nil, fmt.Errorf("webgpu: foreign buffer %T", buf)
	}
	bg, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Uniform Bind Group",
		Layout: p.layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.buffer,
				Offset:  0,
				Size:    size,
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return &bindGroup{group: bg}, nil
}

func (d *device) Release() {
	d.device.Release()
}

type queue struct {
	queue *wgpu.Queue
}

var _ gpu.Queue = &queue{}

func (q *queue) Submit(cmd gpu.CommandBuffer) {
	if c, ok := cmd.(*commandBuffer); ok {
		q.queue.Submit(c.buffer)
	}
}

func (q *queue) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) error {
	b, ok := buf.(*buffer)
	if !ok {
		return fmt.Errorf("webgpu: foreign buffer %T", buf)
	}
	return q.queue.WriteBuffer(b.buffer, offset, data)
}

type buffer struct {
	buffer *wgpu.Buffer
	size   uint64
}

func (b *buffer) Size() uint64 { return b.size }
func (b *buffer) Release()     { b.buffer.Release() }

type texture struct {
	texture *wgpu.Texture
	desc    gpu.TextureDescriptor
}

var _ gpu.Texture = &texture{}

func (t *texture) CreateView(format gputypes.TextureFormat) (gpu.TextureView, error) {
	if format == gputypes.TextureFormatUndefined || format == t.desc.Format {
		v, err := t.texture.CreateView(nil)
		if err != nil {
			return nil, err
		}
		return &textureView{view: v, format: t.desc.Format}, nil
	}
	v, err := t.texture.CreateView(&wgpu.TextureViewDescriptor{
		Label:           t.desc.Label + " View",
		Format:          toTextureFormat(format),
		Dimension:       wgpu.TextureViewDimension2D,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		return nil, err
	}
	return &textureView{view: v, format: format}, nil
}

func (t *texture) Width() uint32                  { return t.desc.Width }
func (t *texture) Height() uint32                 { return t.desc.Height }
func (t *texture) Format() gputypes.TextureFormat { return t.desc.Format }
func (t *texture) Usage() gputypes.TextureUsage   { return t.desc.Usage }
func (t *texture) Release()                       { t.texture.Release() }

type textureView struct {
	view   *wgpu.TextureView
	format gputypes.TextureFormat
}

func (v *textureView) Format() gputypes.TextureFormat { return v.format }
func (v *textureView) Release()                       { v.view.Release() }

type renderPipeline struct {
	pipeline *wgpu.RenderPipeline
	layout   *wgpu.BindGroupLayout
}

func (p *renderPipeline) Release() {
	p.pipeline.Release()
	p.layout.Release()
}

type bindGroup struct {
	group *wgpu.BindGroup
}

func (g *bindGroup) Release() { g.group.Release() }
