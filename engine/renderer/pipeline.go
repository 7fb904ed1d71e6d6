package renderer

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/gogpu/gputypes"
)

//go:embed default.wgsl
var defaultShader string

// topologies are the primitive topologies the default pipeline is built for.
// Filled meshes are triangle lists; wire meshes are line strips or line lists.
var topologies = []gputypes.PrimitiveTopology{
	gputypes.PrimitiveTopologyTriangleList,
	gputypes.PrimitiveTopologyLineStrip,
	gputypes.PrimitiveTopologyLineList,
}

// positionLayout is the single vertex buffer of the default pipeline: tightly packed xyz.
var positionLayout = gputypes.VertexBufferLayout{
	ArrayStride: 12,
	StepMode:    gputypes.VertexStepModeVertex,
	Attributes: []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
	},
}

func (r *renderer) pipelineDescriptor(topology gputypes.PrimitiveTopology) gpu.RenderPipelineDescriptor {
	blend := r.blend
	return gpu.RenderPipelineDescriptor{
		Label:         fmt.Sprintf("Default Pipeline (%s)", topology),
		ShaderSource:  defaultShader,
		VertexEntry:   "vs_main",
		FragmentEntry: "fs_main",
		VertexBuffers: []gputypes.VertexBufferLayout{positionLayout},
		ColorFormats:  []gputypes.TextureFormat{r.colorFormat},
		Blend:         &blend,
		Topology:      topology,
		DepthFormat:   r.depthFormat,
		SampleCount:   r.sampleCount,
		UniformSize:   UniformsSize,
	}
}

// createPipelines builds the default pipeline once per topology.
func (r *renderer) createPipelines() error {
	for _, topology := range topologies {
		p, err := r.device.CreateRenderPipeline(r.pipelineDescriptor(topology))
		if err != nil {
			return fmt.Errorf("renderer: create %s pipeline: %w", topology, err)
		}
		r.pipelines[topology] = p
	}
	return nil
}
