// Package resource holds GPU meshes shared by every frame: the primitive shapes
// the render context draws and any meshes the application adds. Mesh geometry is
// generated on a worker pool; uploads always happen on the calling goroutine.
package resource

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/gogpu/gputypes"
)

// MeshData is CPU-side geometry: packed xyz positions and 16-bit indices.
type MeshData struct {
	Positions []float32
	Indices   []uint16
	Topology  gputypes.PrimitiveTopology
}

// VertexCount returns the number of xyz positions.
func (m MeshData) VertexCount() int {
	return len(m.Positions) / 3
}

// MeshBuilder generates mesh data. Builders run on worker goroutines and must not touch the GPU.
type MeshBuilder func() MeshData

// CircleMesh builds a unit circle in the XY plane with a vertex at the top.
// The filled variant is a triangle list fanning from vertex 0; the wire variant
// is a closed line strip.
//
// Parameters:
//   - resolution: number of rim vertices, at least 3
//   - wireframe: build the outline instead of the filled disc
//
// Returns:
//   - MeshData: the generated geometry
func CircleMesh(resolution int, wireframe bool) MeshData {
	resolution = common.AtLeast(resolution, 3)
	positions := make([]float32, 0, resolution*3)
	step := 2 * math.Pi / float64(resolution)
	for i := range resolution {
		theta := math.Pi/2 + float64(i)*step
		sin, cos := math.Sincos(theta)
		positions = append(positions, float32(cos), float32(sin), 0)
	}

	if wireframe {
		indices := make([]uint16, 0, resolution+1)
		for i := range resolution {
			indices = append(indices, uint16(i))
		}
		indices = append(indices, 0)
		return MeshData{Positions: positions, Indices: indices, Topology: gputypes.PrimitiveTopologyLineStrip}
	}

	indices := make([]uint16, 0, (resolution-2)*3)
	for i := 1; i < resolution-1; i++ {
		indices = append(indices, 0, uint16(i), uint16(i+1))
	}
	return MeshData{Positions: positions, Indices: indices, Topology: gputypes.PrimitiveTopologyTriangleList}
}

// RectangleMesh builds a width x height rectangle with its lower-left corner at the origin.
func RectangleMesh(width, height float32, wireframe bool) MeshData {
	positions := []float32{
		0, 0, 0,
		width, 0, 0,
		width, height, 0,
		0, height, 0,
	}
	if wireframe {
		return MeshData{Positions: positions, Indices: []uint16{0, 1, 2, 3, 0}, Topology: gputypes.PrimitiveTopologyLineStrip}
	}
	return MeshData{Positions: positions, Indices: []uint16{0, 1, 2, 2, 3, 0}, Topology: gputypes.PrimitiveTopologyTriangleList}
}

// CuboidMesh builds an axis-aligned box centered at the origin with four vertices per face.
// The wire variant is a line list of the face outlines.
func CuboidMesh(halfX, halfY, halfZ float32, wireframe bool) MeshData {
	minX, minY, minZ := -halfX, -halfY, -halfZ
	maxX, maxY, maxZ := halfX, halfY, halfZ
	positions := []float32{
		// front
		minX, minY, maxZ, maxX, minY, maxZ, maxX, maxY, maxZ, minX, maxY, maxZ,
		// back
		minX, maxY, minZ, maxX, maxY, minZ, maxX, minY, minZ, minX, minY, minZ,
		// right
		maxX, minY, minZ, maxX, maxY, minZ, maxX, maxY, maxZ, maxX, minY, maxZ,
		// left
		minX, minY, maxZ, minX, maxY, maxZ, minX, maxY, minZ, minX, minY, minZ,
		// top
		maxX, maxY, minZ, minX, maxY, minZ, minX, maxY, maxZ, maxX, maxY, maxZ,
		// bottom
		maxX, minY, maxZ, minX, minY, maxZ, minX, minY, minZ, maxX, minY, minZ,
	}

	indices := make([]uint16, 0, 48)
	for face := range uint16(6) {
		b := face * 4
		if wireframe {
			indices = append(indices, b, b+1, b+1, b+2, b+2, b+3, b+3, b)
		} else {
			indices = append(indices, b, b+1, b+2, b+2, b+3, b)
		}
	}
	topology := gputypes.PrimitiveTopologyTriangleList
	if wireframe {
		topology = gputypes.PrimitiveTopologyLineList
	}
	return MeshData{Positions: positions, Indices: indices, Topology: topology}
}

// SphereMesh builds a UV sphere centered at the origin.
// The wire variant is a line list of the latitude and longitude lines.
//
// Parameters:
//   - radius: sphere radius
//   - sectors: longitude subdivisions, at least 3
//   - stacks: latitude subdivisions, at least 2
//   - wireframe: build the line grid instead of the filled surface
//
// Returns:
//   - MeshData: the generated geometry
func SphereMesh(radius float32, sectors, stacks int, wireframe bool) MeshData {
	sectors = common.AtLeast(sectors, 3)
	stacks = common.AtLeast(stacks, 2)

	positions := make([]float32, 0, (stacks+1)*(sectors+1)*3)
	for i := 0; i <= stacks; i++ {
		phi := math.Pi/2 - float64(i)*math.Pi/float64(stacks)
		ring, y := math.Cos(phi), math.Sin(phi)
		for j := 0; j <= sectors; j++ {
			theta := float64(j) * 2 * math.Pi / float64(sectors)
			x, z := ring*math.Cos(theta), ring*math.Sin(theta)
			positions = append(positions, radius*float32(x), radius*float32(y), radius*float32(z))
		}
	}

	var indices []uint16
	row := sectors + 1
	for i := range stacks {
		k1, k2 := i*row, (i+1)*row
		for j := range sectors {
			a, b := uint16(k1+j), uint16(k2+j)
			if wireframe {
				// longitude segment, then latitude segment (skipping the degenerate pole rings)
				indices = append(indices, a, b)
				if i != 0 {
					indices = append(indices, a, a+1)
				}
				continue
			}
			if i != 0 {
				indices = append(indices, a, b, a+1)
			}
			if i != stacks-1 {
				indices = append(indices, a+1, b, b+1)
			}
		}
	}

	topology := gputypes.PrimitiveTopologyTriangleList
	if wireframe {
		topology = gputypes.PrimitiveTopologyLineList
	}
	return MeshData{Positions: positions, Indices: indices, Topology: topology}
}

// Mesh is geometry resident on the GPU.
type Mesh struct {
	Name       string
	Vertex     gpu.Buffer
	Index      gpu.Buffer
	IndexCount uint32
	Topology   gputypes.PrimitiveTopology
}

// Upload copies data into new vertex and index buffers.
//
// Parameters:
//   - device: the device to allocate buffers on
//   - queue: the queue used to write them
//   - name: debug label prefix
//   - data: the geometry to upload
//
// Returns:
//   - *Mesh: the uploaded mesh
//   - error: error if allocation or the write fails, or the mesh is empty
func Upload(device gpu.Device, queue gpu.Queue, name string, data MeshData) (*Mesh, error) {
	if len(data.Positions) == 0 || len(data.Indices) == 0 {
		return nil, fmt.Errorf("resource: mesh %q is empty", name)
	}
	if data.VertexCount() > math.MaxUint16+1 {
		return nil, fmt.Errorf("resource: mesh %q has %d vertices, more than 16-bit indices address", name, data.VertexCount())
	}

	vertex, err := uploadBuffer(device, queue, name+" Vertex Buffer", gputypes.BufferUsageVertex, common.SliceToBytes(data.Positions))
	if err != nil {
		return nil, err
	}
	index, err := uploadBuffer(device, queue, name+" Index Buffer", gputypes.BufferUsageIndex, common.SliceToBytes(data.Indices))
	if err != nil {
		vertex.Release()
		return nil, err
	}
	return &Mesh{
		Name:       name,
		Vertex:     vertex,
		Index:      index,
		IndexCount: uint32(len(data.Indices)),
		Topology:   data.Topology,
	}, nil
}

// uploadBuffer pads data to the 4-byte copy alignment queue writes require.
func uploadBuffer(device gpu.Device, queue gpu.Queue, label string, usage gputypes.BufferUsage, data []byte) (gpu.Buffer, error) {
	size := common.AlignUp(uint64(len(data)), 4)
	if pad := int(size) - len(data); pad > 0 {
		data = append(data[:len(data):len(data)], make([]byte, pad)...)
	}
	buf, err := device.CreateBuffer(gputypes.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("resource: create %s: %w", label, err)
	}
	if err := queue.WriteBuffer(buf, 0, data); err != nil {
		buf.Release()
		return nil, fmt.Errorf("resource: write %s: %w", label, err)
	}
	return buf, nil
}

// Release frees the mesh buffers.
func (m *Mesh) Release() {
	if m.Vertex != nil {
		m.Vertex.Release()
		m.Vertex = nil
	}
	if m.Index != nil {
		m.Index.Release()
		m.Index = nil
	}
}
