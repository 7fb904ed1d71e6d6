package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/gogpu/gputypes"
)

// slotsPerChunk is the number of uniform slots in one chunk buffer.
const slotsPerChunk = 256

// Uniforms is the per-draw data of the default pipeline, laid out as the WGSL struct.
type Uniforms struct {
	Ortho     common.Mat4
	Transform common.Mat4
	Color     common.Color
}

// UniformsSize is the byte size of Uniforms and the binding size of its dynamic uniform.
const UniformsSize = 2*64 + 16

type uniformChunk struct {
	buffer gpu.Buffer
	group  gpu.BindGroup
}

// uniformRing hands out aligned dynamic uniform slots for the draws of one frame.
// Slots are never reused within a frame; when every chunk is full a new one is
// allocated. Chunks persist and the cursor returns to zero after each submit.
type uniformRing struct {
	device   gpu.Device
	queue    gpu.Queue
	pipeline gpu.RenderPipeline
	slotSize uint64
	chunks   []uniformChunk
	cursor   int
}

func newUniformRing(device gpu.Device, queue gpu.Queue, pipeline gpu.RenderPipeline, alignment uint64) *uniformRing {
	return &uniformRing{
		device:   device,
		queue:    queue,
		pipeline: pipeline,
		slotSize: common.AlignUp(UniformsSize, common.AtLeast(alignment, 1)),
	}
}

// write stores u in the next free slot and returns the bind group and dynamic offset addressing it.
func (u *uniformRing) write(v *Uniforms) (gpu.BindGroup, uint32, error) {
	if u.cursor == u.capacity() {
		if err := u.grow(); err != nil {
			return nil, 0, err
		}
	}
	chunk := u.chunks[u.cursor/slotsPerChunk]
	offset := uint64(u.cursor%slotsPerChunk) * u.slotSize
	if err := u.queue.WriteBuffer(chunk.buffer, offset, common.StructToBytes(v)); err != nil {
		return nil, 0, fmt.Errorf("%w: uniform slot %d: %w", ErrSubmit, u.cursor, err)
	}
	u.cursor++
	return chunk.group, uint32(offset), nil
}

func (u *uniformRing) grow() error {
	label := fmt.Sprintf("Uniform Chunk %d", len(u.chunks))
	buf, err := u.device.CreateBuffer(gputypes.BufferDescriptor{
		Label: label,
		Size:  u.slotSize * slotsPerChunk,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrSubmit, label, err)
	}
	group, err := u.device.CreateUniformBindGroup(u.pipeline, buf, UniformsSize)
	if err != nil {
		buf.Release()
		return fmt.Errorf("%w: bind %s: %w", ErrSubmit, label, err)
	}
	u.chunks = append(u.chunks, uniformChunk{buffer: buf, group: group})
	common.Logger().Debug("uniform ring grown", "chunks", len(u.chunks), "slots", u.capacity())
	return nil
}

func (u *uniformRing) reset() {
	u.cursor = 0
}

func (u *uniformRing) capacity() int {
	return len(u.chunks) * slotsPerChunk
}

func (u *uniformRing) release() {
	for _, c := range u.chunks {
		c.group.Release()
		c.buffer.Release()
	}
	u.chunks = nil
	u.cursor = 0
}
