package resource

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu/gputest"
	"github.com/gogpu/gputypes"
)

func TestMeshShapes(t *testing.T) {
	tests := []struct {
		name         string
		data         MeshData
		wantVertices int
		wantIndices  int
		wantTopology gputypes.PrimitiveTopology
	}{
		{"circle", CircleMesh(32, false), 32, 90, gputypes.PrimitiveTopologyTriangleList},
		{"wire circle", CircleMesh(32, true), 32, 33, gputypes.PrimitiveTopologyLineStrip},
		{"circle min resolution", CircleMesh(1, false), 3, 3, gputypes.PrimitiveTopologyTriangleList},
		{"rectangle", RectangleMesh(1, 1, false), 4, 6, gputypes.PrimitiveTopologyTriangleList},
		{"wire rectangle", RectangleMesh(1, 1, true), 4, 5, gputypes.PrimitiveTopologyLineStrip},
		{"cuboid", CuboidMesh(1, 1, 1, false), 24, 36, gputypes.PrimitiveTopologyTriangleList},
		{"wire cuboid", CuboidMesh(1, 1, 1, true), 24, 48, gputypes.PrimitiveTopologyLineList},
		{"sphere", SphereMesh(1, 8, 4, false), 45, 6 * 8 * 3, gputypes.PrimitiveTopologyTriangleList},
		{"wire sphere", SphereMesh(1, 8, 4, true), 45, 8*4*2 + 8*3*2, gputypes.PrimitiveTopologyLineList},
	}
	for _, tt := range tests {
		if got := tt.data.VertexCount(); got != tt.wantVertices {
			t.Errorf("%s: VertexCount() = %d, want %d", tt.name, got, tt.wantVertices)
		}
		if got := len(tt.data.Indices); got != tt.wantIndices {
			t.Errorf("%s: len(Indices) = %d, want %d", tt.name, got, tt.wantIndices)
		}
		if tt.data.Topology != tt.wantTopology {
			t.Errorf("%s: Topology = %v, want %v", tt.name, tt.data.Topology, tt.wantTopology)
		}
		for _, idx := range tt.data.Indices {
			if int(idx) >= tt.data.VertexCount() {
				t.Errorf("%s: index %d out of range", tt.name, idx)
				break
			}
		}
	}
}

func TestCircleStartsAtTop(t *testing.T) {
	m := CircleMesh(4, false)
	x, y := m.Positions[0], m.Positions[1]
	if x > 1e-6 || x < -1e-6 || y < 0.999999 {
		t.Errorf("first vertex = (%v, %v), want (0, 1)", x, y)
	}
}

func TestUploadPadsToCopyAlignment(t *testing.T) {
	dev := gputest.NewDevice(gputypes.DefaultLimits())
	m, err := Upload(dev, dev.FakeQueue, "wire", RectangleMesh(1, 1, true))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if m.IndexCount != 5 {
		t.Errorf("IndexCount = %d, want 5", m.IndexCount)
	}
	if got := m.Index.Size(); got != 12 {
		t.Errorf("index buffer size = %d, want 12 (10 bytes padded to 4)", got)
	}
	for _, w := range dev.FakeQueue.Writes {
		if w.Size%4 != 0 {
			t.Errorf("write of %d bytes is not 4-byte aligned", w.Size)
		}
	}
	vb := dev.Buffers[0].Desc
	if vb.Usage != gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst {
		t.Errorf("vertex buffer usage = %v", vb.Usage)
	}
}

func TestUploadEmpty(t *testing.T) {
	dev := gputest.NewDevice(gputypes.DefaultLimits())
	if _, err := Upload(dev, dev.FakeQueue, "empty", MeshData{}); err == nil {
		t.Errorf("Upload(empty) succeeded, want error")
	}
}

func TestNewCache(t *testing.T) {
	dev := gputest.NewDevice(gputypes.DefaultLimits())
	c, err := NewCache(dev, dev.FakeQueue, WithWorkers(2), WithCircleResolution(16))
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	defer c.Release()

	want := []string{
		MeshCircle, MeshCuboid, MeshRectangle, MeshSphere,
		MeshWireCircle, MeshWireCuboid, MeshWireRectangle, MeshWireSphere,
	}
	got := c.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if c.Circle().IndexCount != 14*3 {
		t.Errorf("circle IndexCount = %d, want %d", c.Circle().IndexCount, 14*3)
	}
	if c.WireRectangle().Topology != gputypes.PrimitiveTopologyLineStrip {
		t.Errorf("wire rectangle topology = %v, want LineStrip", c.WireRectangle().Topology)
	}
	if c.WireCuboid().Topology != gputypes.PrimitiveTopologyLineList {
		t.Errorf("wire cuboid topology = %v, want LineList", c.WireCuboid().Topology)
	}
	for _, m := range []*Mesh{c.WireCircle(), c.Rectangle(), c.Sphere(), c.WireSphere(), c.Cuboid()} {
		if m == nil {
			t.Errorf("primitive mesh missing")
		}
	}
	if len(dev.Buffers) != 16 {
		t.Errorf("buffers = %d, want 16", len(dev.Buffers))
	}
}

func TestCacheAddReplaces(t *testing.T) {
	dev := gputest.NewDevice(gputypes.DefaultLimits())
	c, err := NewCache(dev, dev.FakeQueue)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	old := c.Rectangle()
	if _, err := c.Add(MeshRectangle, RectangleMesh(2, 2, false)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if c.Rectangle() == old {
		t.Errorf("Add() did not replace the mesh")
	}
	if old.Vertex != nil {
		t.Errorf("replaced mesh not released")
	}

	buffers := dev.Buffers
	c.Release()
	for _, b := range buffers[len(buffers)-2:] {
		if !b.Released {
			t.Errorf("Release() left a buffer alive")
		}
	}
	if c.Mesh(MeshCircle) != nil {
		t.Errorf("Mesh() after Release = non-nil")
	}
}

type failingQueue struct{ gputest.Queue }

func (q *failingQueue) WriteBuffer(gpu.Buffer, uint64, []byte) error {
	return errors.New("device lost")
}

func TestNewCacheUploadFailure(t *testing.T) {
	dev := gputest.NewDevice(gputypes.DefaultLimits())
	if _, err := NewCache(dev, &failingQueue{}); err == nil {
		t.Errorf("NewCache() succeeded with a failing queue")
	}
	for _, b := range dev.Buffers {
		if !b.Released {
			t.Errorf("buffer %q leaked after failed upload", b.Desc.Label)
		}
	}
}
