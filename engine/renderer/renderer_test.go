package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-frame/engine/resource"
	"github.com/gogpu/gputypes"
)

type fixture struct {
	dev      *gputest.Device
	cache    *resource.Cache
	renderer Renderer
	view     gpu.TextureView
}

func newFixture(t *testing.T, options ...RendererBuilderOption) *fixture {
	t.Helper()
	dev := gputest.NewDevice(gputypes.DefaultLimits())
	cache, err := resource.NewCache(dev, dev.FakeQueue, resource.WithWorkers(2))
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	r, err := New(dev, dev.FakeQueue, cache, options...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		r.Release()
		cache.Release()
	})
	return &fixture{dev: dev, cache: cache, renderer: r, view: &gputest.TextureView{}}
}

// frame draws one frame and returns its render pass.
func (f *fixture) frame(t *testing.T, fn func(ctx *RenderContext)) *gputest.RenderPass {
	t.Helper()
	encoders := len(f.dev.Encoders)
	if err := f.renderer.Draw([]gpu.TextureView{f.view}, nil, fn); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if got := len(f.dev.Encoders) - encoders; got != 1 {
		t.Fatalf("encoders created = %d, want 1", got)
	}
	enc := f.dev.Encoders[len(f.dev.Encoders)-1]
	if len(enc.Passes) != 1 {
		t.Fatalf("passes = %d, want 1", len(enc.Passes))
	}
	return enc.Passes[0]
}

func TestNewBuildsPipelinePerTopology(t *testing.T) {
	f := newFixture(t, WithColorFormat(gputypes.TextureFormatRGBA8Unorm))
	if len(f.dev.Pipelines) != len(topologies) {
		t.Fatalf("pipelines = %d, want %d", len(f.dev.Pipelines), len(topologies))
	}
	for i, desc := range f.dev.Pipelines {
		if desc.Topology != topologies[i] {
			t.Errorf("pipeline %d topology = %v, want %v", i, desc.Topology, topologies[i])
		}
		if len(desc.ColorFormats) != 1 || desc.ColorFormats[0] != gputypes.TextureFormatRGBA8Unorm {
			t.Errorf("pipeline %d color formats = %v", i, desc.ColorFormats)
		}
		if desc.UniformSize != UniformsSize {
			t.Errorf("pipeline %d UniformSize = %d, want %d", i, desc.UniformSize, UniformsSize)
		}
		if desc.DepthFormat != gputypes.TextureFormatUndefined {
			t.Errorf("pipeline %d DepthFormat = %v, want undefined", i, desc.DepthFormat)
		}
		if desc.Blend == nil || *desc.Blend != gputypes.BlendStateAlpha() {
			t.Errorf("pipeline %d blend = %v, want alpha blending", i, desc.Blend)
		}
	}
	if f.renderer.UniformSlots() != slotsPerChunk {
		t.Errorf("UniformSlots() = %d, want %d", f.renderer.UniformSlots(), slotsPerChunk)
	}
}

func TestDrawEmptyFrame(t *testing.T) {
	f := newFixture(t)
	pass := f.frame(t, func(*RenderContext) {})

	if got := len(f.dev.FakeQueue.Submits); got != 1 {
		t.Errorf("submits = %d, want 1", got)
	}
	if len(pass.Draws) != 0 {
		t.Errorf("draws = %d, want 0", len(pass.Draws))
	}
	if !pass.Ended {
		t.Errorf("pass not ended")
	}
	if len(pass.Desc.ColorAttachments) != 1 {
		t.Fatalf("color attachments = %d, want 1", len(pass.Desc.ColorAttachments))
	}
	att := pass.Desc.ColorAttachments[0]
	if att.LoadOp != gputypes.LoadOpClear || att.StoreOp != gputypes.StoreOpStore {
		t.Errorf("load/store = %v/%v, want clear/store", att.LoadOp, att.StoreOp)
	}
	if att.ClearValue != common.Black.GPU() {
		t.Errorf("ClearValue = %v, want opaque black", att.ClearValue)
	}
	if pass.Desc.DepthStencil != nil {
		t.Errorf("DepthStencil = %v, want nil without a depth view", pass.Desc.DepthStencil)
	}
}

func TestDrawNilCallbackStillSubmits(t *testing.T) {
	f := newFixture(t)
	f.frame(t, nil)
	if got := len(f.dev.FakeQueue.Submits); got != 1 {
		t.Errorf("submits = %d, want 1", got)
	}
}

func TestDrawDepthAttachment(t *testing.T) {
	f := newFixture(t, WithDepthFormat(gputypes.TextureFormatDepth24Plus))
	depth := &gputest.TextureView{}
	if err := f.renderer.Draw([]gpu.TextureView{f.view}, depth, nil); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	ds := f.dev.Encoders[0].Passes[0].Desc.DepthStencil
	if ds == nil {
		t.Fatal("DepthStencil = nil, want depth attachment")
	}
	if ds.View != depth || ds.DepthClearValue != 1 || ds.DepthLoadOp != gputypes.LoadOpClear || ds.DepthStoreOp != gputypes.StoreOpStore {
		t.Errorf("DepthStencil = %+v, want clear to 1.0 and store", *ds)
	}
	if f.dev.Pipelines[0].DepthFormat != gputypes.TextureFormatDepth24Plus {
		t.Errorf("pipeline DepthFormat = %v, want Depth24Plus", f.dev.Pipelines[0].DepthFormat)
	}
}

func TestDrawResolved(t *testing.T) {
	f := newFixture(t, WithSampleCount(4))
	msaa, resolve := &gputest.TextureView{}, &gputest.TextureView{}
	if err := f.renderer.DrawResolved(msaa, resolve, nil, nil); err != nil {
		t.Fatalf("DrawResolved() error = %v", err)
	}
	atts := f.dev.Encoders[0].Passes[0].Desc.ColorAttachments
	if len(atts) != 1 {
		t.Fatalf("color attachments = %d, want 1", len(atts))
	}
	if atts[0].View != msaa || atts[0].ResolveTarget != resolve {
		t.Errorf("attachment does not resolve the multisample view into the frame")
	}
	if atts[0].StoreOp != gputypes.StoreOpDiscard || atts[0].LoadOp != gputypes.LoadOpClear {
		t.Errorf("load/store = %v/%v, want clear/discard", atts[0].LoadOp, atts[0].StoreOp)
	}
	if f.dev.Pipelines[0].SampleCount != 4 || f.renderer.SampleCount() != 4 {
		t.Errorf("pipeline SampleCount = %d, want 4", f.dev.Pipelines[0].SampleCount)
	}
}

func TestBackgroundPersists(t *testing.T) {
	f := newFixture(t)
	first := f.frame(t, func(ctx *RenderContext) {
		ctx.Background(0.2, 0.3, 0.4, 1)
	})
	if first.Desc.ColorAttachments[0].ClearValue != common.Black.GPU() {
		t.Errorf("first frame cleared to %v, want black", first.Desc.ColorAttachments[0].ClearValue)
	}
	want := common.RGBA(0.2, 0.3, 0.4, 1)
	for range 2 {
		pass := f.frame(t, nil)
		if got := pass.Desc.ColorAttachments[0].ClearValue; got != want.GPU() {
			t.Errorf("ClearValue = %v, want %v", got, want.GPU())
		}
	}
	if f.renderer.Background() != want {
		t.Errorf("Background() = %v, want %v", f.renderer.Background(), want)
	}
}

func TestDrawOffsetsStepBySlot(t *testing.T) {
	f := newFixture(t)
	var count int
	pass := f.frame(t, func(ctx *RenderContext) {
		ctx.Ortho(0, 800, 0, 600, -1, 1)
		ctx.Color(common.RGBA(1, 0, 0, 1)).Translate(100, 100, 0).DrawCircle(50)
		ctx.DrawRectangle(10, 20)
		ctx.DrawMesh(f.cache.Circle())
		count = ctx.DrawCount()
	})
	if count != 3 || len(pass.Draws) != 3 {
		t.Fatalf("DrawCount() = %d, draws = %d, want 3", count, len(pass.Draws))
	}
	for i, d := range pass.Draws {
		want := uint32(i * 256)
		if len(d.DynamicOffsets) != 1 || d.DynamicOffsets[0] != want {
			t.Errorf("draw %d offsets = %v, want [%d]", i, d.DynamicOffsets, want)
		}
		if d.InstanceCount != 1 {
			t.Errorf("draw %d InstanceCount = %d, want 1", i, d.InstanceCount)
		}
	}
	if pass.Draws[0].VertexBuffer != f.cache.Circle().Vertex || pass.Draws[0].IndexCount != f.cache.Circle().IndexCount {
		t.Errorf("draw 0 did not bind the circle mesh")
	}
	if pass.Draws[1].IndexBuffer != f.cache.Rectangle().Index {
		t.Errorf("draw 1 did not bind the rectangle mesh")
	}

	var uniforms []gputest.Write
	for _, w := range f.dev.FakeQueue.Writes {
		if w.Size == UniformsSize {
			uniforms = append(uniforms, w)
		}
	}
	if len(uniforms) != 3 {
		t.Errorf("uniform writes = %d, want 3", len(uniforms))
	}
}

func TestUniformAlignment(t *testing.T) {
	f := newFixture(t, WithUniformAlignment(64))
	pass := f.frame(t, func(ctx *RenderContext) {
		ctx.DrawCircle(1).DrawCircle(2)
	})
	if got := pass.Draws[1].DynamicOffsets[0]; got != 192 {
		t.Errorf("second offset = %d, want 192", got)
	}
}

func TestUniformRingGrows(t *testing.T) {
	f := newFixture(t)
	const n = slotsPerChunk + 10
	pass := f.frame(t, func(ctx *RenderContext) {
		for range n {
			ctx.DrawCircle(1)
		}
	})
	if len(pass.Draws) != n {
		t.Fatalf("draws = %d, want %d", len(pass.Draws), n)
	}
	if got := f.renderer.UniformSlots(); got != 2*slotsPerChunk {
		t.Errorf("UniformSlots() = %d, want %d", got, 2*slotsPerChunk)
	}
	last, overflow := pass.Draws[slotsPerChunk-1], pass.Draws[slotsPerChunk]
	if last.BindGroup == overflow.BindGroup {
		t.Errorf("draw %d reused the first chunk's bind group", slotsPerChunk)
	}
	if overflow.DynamicOffsets[0] != 0 {
		t.Errorf("first offset in new chunk = %d, want 0", overflow.DynamicOffsets[0])
	}

	// no two draws of the frame share a slot
	seen := make(map[gpu.BindGroup]map[uint32]bool)
	for i, d := range pass.Draws {
		if seen[d.BindGroup] == nil {
			seen[d.BindGroup] = make(map[uint32]bool)
		}
		if seen[d.BindGroup][d.DynamicOffsets[0]] {
			t.Fatalf("draw %d reuses a slot", i)
		}
		seen[d.BindGroup][d.DynamicOffsets[0]] = true
	}
}

func TestUniformRingResetsAfterSubmit(t *testing.T) {
	f := newFixture(t)
	f.frame(t, func(ctx *RenderContext) {
		for range slotsPerChunk + 1 {
			ctx.DrawCircle(1)
		}
	})
	pass := f.frame(t, func(ctx *RenderContext) {
		ctx.DrawCircle(1)
	})
	if got := pass.Draws[0].DynamicOffsets[0]; got != 0 {
		t.Errorf("first offset of next frame = %d, want 0", got)
	}
	if got := f.renderer.UniformSlots(); got != 2*slotsPerChunk {
		t.Errorf("UniformSlots() = %d, want chunks kept at %d", got, 2*slotsPerChunk)
	}
}

func TestWireDrawsSwitchPipeline(t *testing.T) {
	f := newFixture(t)
	pass := f.frame(t, func(ctx *RenderContext) {
		ctx.DrawCircle(1)
		ctx.DrawWireCircle(1)
		ctx.DrawWireCuboid(1, 1, 1)
		ctx.DrawRectangle(1, 1)
	})
	want := []gputypes.PrimitiveTopology{
		gputypes.PrimitiveTopologyTriangleList,
		gputypes.PrimitiveTopologyLineStrip,
		gputypes.PrimitiveTopologyLineList,
		gputypes.PrimitiveTopologyTriangleList,
	}
	for i, d := range pass.Draws {
		p, ok := d.Pipeline.(*gputest.RenderPipeline)
		if !ok {
			t.Fatalf("draw %d pipeline = %T", i, d.Pipeline)
		}
		if p.Desc.Topology != want[i] {
			t.Errorf("draw %d topology = %v, want %v", i, p.Desc.Topology, want[i])
		}
	}
}

func TestShapeDrawsRestoreTransform(t *testing.T) {
	f := newFixture(t)
	f.frame(t, func(ctx *RenderContext) {
		ctx.Translate(5, 5, 0)
		before := ctx.Transform()
		ctx.DrawCircle(10).DrawWireRectangle(3, 4).DrawSphere(2).DrawCuboid(1, 2, 3)
		if ctx.Transform() != before {
			t.Errorf("shape draws changed the transform")
		}
	})
}

func TestPopMatrixUnderflowPanics(t *testing.T) {
	f := newFixture(t)
	defer func() {
		if recover() == nil {
			t.Errorf("PopMatrix() without PushMatrix did not panic")
		}
	}()
	_ = f.renderer.Draw([]gpu.TextureView{f.view}, nil, func(ctx *RenderContext) {
		ctx.PushMatrix().PopMatrix().PopMatrix()
	})
}

type failingQueue struct{ gputest.Queue }

func (q *failingQueue) WriteBuffer(gpu.Buffer, uint64, []byte) error {
	return errors.New("device lost")
}

func TestDrawWriteFailure(t *testing.T) {
	dev := gputest.NewDevice(gputypes.DefaultLimits())
	cache, err := resource.NewCache(dev, dev.FakeQueue)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	defer cache.Release()
	queue := &failingQueue{}
	r, err := New(dev, queue, cache)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Release()

	var draws int
	err = r.Draw([]gpu.TextureView{&gputest.TextureView{}}, nil, func(ctx *RenderContext) {
		ctx.DrawCircle(1).DrawCircle(1)
		draws = ctx.DrawCount()
	})
	if !errors.Is(err, ErrSubmit) {
		t.Errorf("Draw() err = %v, want ErrSubmit", err)
	}
	if draws != 0 {
		t.Errorf("DrawCount() = %d, want 0", draws)
	}
	if len(queue.Submits) != 1 {
		t.Errorf("submits = %d, want 1", len(queue.Submits))
	}
}

func TestRelease(t *testing.T) {
	dev := gputest.NewDevice(gputypes.DefaultLimits())
	cache, err := resource.NewCache(dev, dev.FakeQueue)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	defer cache.Release()
	buffers := len(dev.Buffers)
	r, err := New(dev, dev.FakeQueue, cache)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	r.Release()
	for _, b := range dev.Buffers[buffers:] {
		if !b.Released {
			t.Errorf("uniform buffer %q not released", b.Desc.Label)
		}
	}
}
