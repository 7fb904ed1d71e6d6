// Package renderer records a frame's draws into a single render pass.
//
// A Renderer owns the default pipelines and the dynamic uniform ring of one
// color format. Draw hands the application a RenderContext, a per-frame handle
// carrying the projection, the matrix stack and the current color.
package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/Carmen-Shannon/oxy-frame/engine/resource"
	"github.com/gogpu/gputypes"
)

var (
	// ErrEncoder is returned when the command encoder or render pass cannot be created or finished.
	ErrEncoder = errors.New("renderer: command encoding failed")
	// ErrSubmit is returned when per-draw data cannot be written to the queue.
	ErrSubmit = errors.New("renderer: queue write failed")
)

// Renderer is the interface that wraps frame recording.
type Renderer interface {
	// Draw records one frame. It creates one command encoder and begins one
	// render pass clearing every color view to the background color, sets the
	// default pipeline, calls fn, and submits exactly once, even when fn draws
	// nothing. The uniform ring is reset afterwards.
	//
	// Parameters:
	//   - colorViews: the color attachments, usually the acquired frame's view
	//   - depthView: the depth attachment, or nil for none
	//   - fn: the draw callback, run synchronously
	//
	// Returns:
	//   - error: ErrEncoder or ErrSubmit wrapped with the backend error
	Draw(colorViews []gpu.TextureView, depthView gpu.TextureView, fn func(ctx *RenderContext)) error

	// DrawResolved records one frame like Draw into a multisampled color target
	// that is resolved into resolveView at the end of the pass. The multisampled
	// contents are discarded.
	//
	// Parameters:
	//   - multisampleView: the multisampled color target, matching the renderer's sample count
	//   - resolveView: the single-sampled view the pass resolves into
	//   - depthView: the depth attachment, or nil for none
	//   - fn: the draw callback, run synchronously
	//
	// Returns:
	//   - error: ErrEncoder or ErrSubmit wrapped with the backend error
	DrawResolved(multisampleView, resolveView, depthView gpu.TextureView, fn func(ctx *RenderContext)) error

	// SampleCount returns the multisample count the pipelines were built for.
	SampleCount() uint32

	// Background returns the clear color used by the next frame.
	Background() common.Color

	// SetBackground sets the clear color used from the next frame on.
	SetBackground(c common.Color)

	// ColorFormat returns the color attachment format the pipelines were built for.
	ColorFormat() gputypes.TextureFormat

	// UniformSlots returns the number of uniform slots currently allocated.
	UniformSlots() int

	// Release frees the pipelines and uniform buffers.
	Release()
}

type renderer struct {
	device gpu.Device
	queue  gpu.Queue
	cache  *resource.Cache
	label  string

	colorFormat      gputypes.TextureFormat
	depthFormat      gputypes.TextureFormat
	sampleCount      uint32
	blend            gputypes.BlendState
	uniformAlignment uint64

	pipelines  map[gputypes.PrimitiveTopology]gpu.RenderPipeline
	ring       *uniformRing
	background common.Color
}

var _ Renderer = &renderer{}

// New builds the default pipelines and the uniform ring.
// Applies default values first, then each option in order.
//
// Parameters:
//   - device: the shared device
//   - queue: the shared queue
//   - cache: the mesh cache the shape draws read from
//   - options: variadic list of RendererBuilderOption
//
// Returns:
//   - Renderer: the renderer
//   - error: error if a pipeline or the first uniform chunk cannot be created
func New(device gpu.Device, queue gpu.Queue, cache *resource.Cache, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		device:           device,
		queue:            queue,
		cache:            cache,
		label:            "renderer",
		colorFormat:      gputypes.TextureFormatBGRA8UnormSrgb,
		sampleCount:      1,
		blend:            gputypes.BlendStateAlpha(),
		uniformAlignment: uint64(device.Limits().MinUniformBufferOffsetAlignment),
		pipelines:        make(map[gputypes.PrimitiveTopology]gpu.RenderPipeline),
		background:       common.Black,
	}
	for _, opt := range options {
		opt(r)
	}

	if err := r.createPipelines(); err != nil {
		r.Release()
		return nil, err
	}
	r.ring = newUniformRing(device, queue, r.pipelines[gputypes.PrimitiveTopologyTriangleList], r.uniformAlignment)
	if err := r.ring.grow(); err != nil {
		r.Release()
		return nil, err
	}
	common.Logger().Info("renderer ready",
		"label", r.label,
		"format", r.colorFormat,
		"depth", r.depthFormat,
		"slotSize", r.ring.slotSize)
	return r, nil
}

func (r *renderer) Draw(colorViews []gpu.TextureView, depthView gpu.TextureView, fn func(ctx *RenderContext)) error {
	colors := make([]gpu.ColorAttachment, 0, len(colorViews))
	for _, view := range colorViews {
		colors = append(colors, r.clearAttachment(view, gputypes.StoreOpStore))
	}
	return r.record(r.passDescriptor(colors, depthView), fn)
}

func (r *renderer) DrawResolved(multisampleView, resolveView, depthView gpu.TextureView, fn func(ctx *RenderContext)) error {
	color := r.clearAttachment(multisampleView, gputypes.StoreOpDiscard)
	color.ResolveTarget = resolveView
	return r.record(r.passDescriptor([]gpu.ColorAttachment{color}, depthView), fn)
}

// record runs fn inside one render pass of one encoder and submits it.
func (r *renderer) record(desc gpu.RenderPassDescriptor, fn func(ctx *RenderContext)) error {
	defer r.ring.reset()

	encoder, err := r.device.CreateCommandEncoder(r.label + " Encoder")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncoder, err)
	}
	defer encoder.Release()

	pass, err := encoder.BeginRenderPass(desc)
	if err != nil {
		return fmt.Errorf("%w: begin pass: %w", ErrEncoder, err)
	}
	defer pass.Release()

	ctx := newRenderContext(r, pass)
	pass.SetPipeline(r.pipelines[gputypes.PrimitiveTopologyTriangleList])
	if fn != nil {
		fn(ctx)
	}

	if err := pass.End(); err != nil {
		return fmt.Errorf("%w: end pass: %w", ErrEncoder, err)
	}
	cmd, err := encoder.Finish()
	if err != nil {
		return fmt.Errorf("%w: finish: %w", ErrEncoder, err)
	}
	r.queue.Submit(cmd)
	cmd.Release()

	common.Logger().Debug("frame submitted", "label", r.label, "draws", ctx.draws)
	return ctx.err
}

func (r *renderer) clearAttachment(view gpu.TextureView, store gputypes.StoreOp) gpu.ColorAttachment {
	return gpu.ColorAttachment{
		View:       view,
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    store,
		ClearValue: r.background.GPU(),
	}
}

func (r *renderer) passDescriptor(colors []gpu.ColorAttachment, depthView gpu.TextureView) gpu.RenderPassDescriptor {
	desc := gpu.RenderPassDescriptor{
		Label:            r.label + " Pass",
		ColorAttachments: colors,
	}
	if depthView != nil {
		desc.DepthStencil = &gpu.DepthAttachment{
			View:            depthView,
			DepthLoadOp:     gputypes.LoadOpClear,
			DepthStoreOp:    gputypes.StoreOpStore,
			DepthClearValue: 1.0,
		}
	}
	return desc
}

func (r *renderer) Background() common.Color {
	return r.background
}

func (r *renderer) SetBackground(c common.Color) {
	r.background = c
}

func (r *renderer) ColorFormat() gputypes.TextureFormat {
	return r.colorFormat
}

func (r *renderer) SampleCount() uint32 {
	return r.sampleCount
}

func (r *renderer) UniformSlots() int {
	return r.ring.capacity()
}

func (r *renderer) Release() {
	if r.ring != nil {
		r.ring.release()
		r.ring = nil
	}
	for topology, p := range r.pipelines {
		p.Release()
		delete(r.pipelines, topology)
	}
}
