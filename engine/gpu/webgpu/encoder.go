package webgpu

import (
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"
)

type commandEncoder struct {
	encoder *wgpu.CommandEncoder
}

var _ gpu.CommandEncoder = &commandEncoder{}

func (e *commandEncoder) BeginRenderPass(desc gpu.RenderPassDescriptor) (gpu.RenderPass, error) {
	colors := make([]wgpu.RenderPassColorAttachment, 0, len(desc.ColorAttachments))
	for _, c := range desc.ColorAttachments {
		colors = append(colors, wgpu.RenderPassColorAttachment{
			View:          viewOf(c.View),
			ResolveTarget: viewOf(c.ResolveTarget),
			LoadOp:        toLoadOp(c.LoadOp),
			StoreOp:       toStoreOp(c.StoreOp),
			ClearValue:    toColor(c.ClearValue),
		})
	}

	rp := &wgpu.RenderPassDescriptor{
		Label:            desc.Label,
		ColorAttachments: colors,
	}
	if desc.DepthStencil != nil {
		rp.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            viewOf(desc.DepthStencil.View),
			DepthLoadOp:     toLoadOp(desc.DepthStencil.DepthLoadOp),
			DepthStoreOp:    toStoreOp(desc.DepthStencil.DepthStoreOp),
			DepthClearValue: desc.DepthStencil.DepthClearValue,
		}
	}

	return &renderPass{pass: e.encoder.BeginRenderPass(rp)}, nil
}

func (e *commandEncoder) Finish() (gpu.CommandBuffer, error) {
	cb, err := e.encoder.Finish(nil)
	if err != nil {
		return nil, err
	}
	return &commandBuffer{buffer: cb}, nil
}

func (e *commandEncoder) Release() {
	e.encoder.Release()
}

func viewOf(v gpu.TextureView) *wgpu.TextureView {
	if tv, ok := v.(*textureView); ok && tv != nil {
		return tv.view
	}
	return nil
}

type commandBuffer struct {
	buffer *wgpu.CommandBuffer
}

func (c *commandBuffer) Release() { c.buffer.Release() }

type renderPass struct {
	pass *wgpu.RenderPassEncoder
}

var _ gpu.RenderPass = &renderPass{}

func (p *renderPass) SetPipeline(pipeline gpu.RenderPipeline) {
	if rp, ok := pipeline.(*renderPipeline); ok {
		p.pass.SetPipeline(rp.pipeline)
	}
}

func (p *renderPass) SetBindGroup(index uint32, group gpu.BindGroup, dynamicOffsets []uint32) {
	if bg, ok := group.(*bindGroup); ok {
		p.pass.SetBindGroup(index, bg.group, dynamicOffsets)
	}
}

func (p *renderPass) SetVertexBuffer(slot uint32, buf gpu.Buffer) {
	if b, ok := buf.(*buffer); ok {
		p.pass.SetVertexBuffer(slot, b.buffer, 0, wgpu.WholeSize)
	}
}

func (p *renderPass) SetIndexBuffer(buf gpu.Buffer, format gputypes.IndexFormat) {
	if b, ok := buf.(*buffer); ok {
		p.pass.SetIndexBuffer(b.buffer, toIndexFormat(format), 0, wgpu.WholeSize)
	}
}

func (p *renderPass) DrawIndexed(indexCount, instanceCount uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, 0, 0, 0)
}

func (p *renderPass) End() error {
	p.pass.End()
	return nil
}

func (p *renderPass) Release() {
	p.pass.Release()
}
