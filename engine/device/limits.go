package device

import "github.com/gogpu/gputypes"

// ResolveLimits clamps requested limits against what the adapter supports.
//
// Maximum-style limits are capped at the adapter value. Alignment limits
// ("min...OffsetAlignment") are raised to the adapter value, since a smaller
// alignment than the hardware offers is not satisfiable either. A zero requested
// field means "no preference" and resolves to the adapter value.
//
// Parameters:
//   - requested: the limits the application asked for
//   - adapter: the limits the adapter reports
//
// Returns:
//   - gputypes.Limits: limits that never exceed adapter capability
func ResolveLimits(requested, adapter gputypes.Limits) gputypes.Limits {
	r := requested
	a := adapter

	return gputypes.Limits{
		MaxTextureDimension1D:                     capU32(r.MaxTextureDimension1D, a.MaxTextureDimension1D),
		MaxTextureDimension2D:                     capU32(r.MaxTextureDimension2D, a.MaxTextureDimension2D),
		MaxTextureDimension3D:                     capU32(r.MaxTextureDimension3D, a.MaxTextureDimension3D),
		MaxTextureArrayLayers:                     capU32(r.MaxTextureArrayLayers, a.MaxTextureArrayLayers),
		MaxBindGroups:                             capU32(r.MaxBindGroups, a.MaxBindGroups),
		MaxBindGroupsPlusVertexBuffers:            capU32(r.MaxBindGroupsPlusVertexBuffers, a.MaxBindGroupsPlusVertexBuffers),
		MaxBindingsPerBindGroup:                   capU32(r.MaxBindingsPerBindGroup, a.MaxBindingsPerBindGroup),
		MaxDynamicUniformBuffersPerPipelineLayout: capU32(r.MaxDynamicUniformBuffersPerPipelineLayout, a.MaxDynamicUniformBuffersPerPipelineLayout),
		MaxDynamicStorageBuffersPerPipelineLayout: capU32(r.MaxDynamicStorageBuffersPerPipelineLayout, a.MaxDynamicStorageBuffersPerPipelineLayout),
		MaxSampledTexturesPerShaderStage:          capU32(r.MaxSampledTexturesPerShaderStage, a.MaxSampledTexturesPerShaderStage),
		MaxSamplersPerShaderStage:                 capU32(r.MaxSamplersPerShaderStage, a.MaxSamplersPerShaderStage),
		MaxStorageBuffersPerShaderStage:           capU32(r.MaxStorageBuffersPerShaderStage, a.MaxStorageBuffersPerShaderStage),
		MaxStorageTexturesPerShaderStage:          capU32(r.MaxStorageTexturesPerShaderStage, a.MaxStorageTexturesPerShaderStage),
		MaxUniformBuffersPerShaderStage:           capU32(r.MaxUniformBuffersPerShaderStage, a.MaxUniformBuffersPerShaderStage),
		MaxUniformBufferBindingSize:               capU64(r.MaxUniformBufferBindingSize, a.MaxUniformBufferBindingSize),
		MaxStorageBufferBindingSize:               capU64(r.MaxStorageBufferBindingSize, a.MaxStorageBufferBindingSize),
		MinUniformBufferOffsetAlignment:           floorU32(r.MinUniformBufferOffsetAlignment, a.MinUniformBufferOffsetAlignment),
		MinStorageBufferOffsetAlignment:           floorU32(r.MinStorageBufferOffsetAlignment, a.MinStorageBufferOffsetAlignment),
		MaxVertexBuffers:                          capU32(r.MaxVertexBuffers, a.MaxVertexBuffers),
		MaxBufferSize:                             capU64(r.MaxBufferSize, a.MaxBufferSize),
		MaxVertexAttributes:                       capU32(r.MaxVertexAttributes, a.MaxVertexAttributes),
		MaxVertexBufferArrayStride:                capU32(r.MaxVertexBufferArrayStride, a.MaxVertexBufferArrayStride),
		MaxInterStageShaderVariables:              capU32(r.MaxInterStageShaderVariables, a.MaxInterStageShaderVariables),
		MaxColorAttachments:                       capU32(r.MaxColorAttachments, a.MaxColorAttachments),
		MaxColorAttachmentBytesPerSample:          capU32(r.MaxColorAttachmentBytesPerSample, a.MaxColorAttachmentBytesPerSample),
		MaxComputeWorkgroupStorageSize:            capU32(r.MaxComputeWorkgroupStorageSize, a.MaxComputeWorkgroupStorageSize),
		MaxComputeInvocationsPerWorkgroup:         capU32(r.MaxComputeInvocationsPerWorkgroup, a.MaxComputeInvocationsPerWorkgroup),
		MaxComputeWorkgroupSizeX:                  capU32(r.MaxComputeWorkgroupSizeX, a.MaxComputeWorkgroupSizeX),
		MaxComputeWorkgroupSizeY:                  capU32(r.MaxComputeWorkgroupSizeY, a.MaxComputeWorkgroupSizeY),
		MaxComputeWorkgroupSizeZ:                  capU32(r.MaxComputeWorkgroupSizeZ, a.MaxComputeWorkgroupSizeZ),
		MaxComputeWorkgroupsPerDimension:          capU32(r.MaxComputeWorkgroupsPerDimension, a.MaxComputeWorkgroupsPerDimension),
		// Push constants are an extension: an adapter reporting zero simply lacks them.
		MaxPushConstantSize:   min(r.MaxPushConstantSize, a.MaxPushConstantSize),
		MaxNonSamplerBindings: capU32(r.MaxNonSamplerBindings, a.MaxNonSamplerBindings),
	}
}

func capU32(req, hw uint32) uint32 {
	if req == 0 {
		return hw
	}
	return min(req, hw)
}

func capU64(req, hw uint64) uint64 {
	if req == 0 {
		return hw
	}
	return min(req, hw)
}

func floorU32(req, hw uint32) uint32 {
	if req == 0 {
		return hw
	}
	return max(req, hw)
}

// ResolveFeatures returns the requested features the adapter actually advertises,
// along with the requested features that were dropped.
//
// Parameters:
//   - requested: features the application asked for
//   - adapter: features the adapter advertises
//
// Returns:
//   - gputypes.Features: the granted set
//   - gputypes.Features: the dropped set
func ResolveFeatures(requested, adapter gputypes.Features) (granted, dropped gputypes.Features) {
	granted = requested.Intersect(adapter)
	dropped = requested &^ granted
	return granted, dropped
}

// featureList expands a feature set into the slice form DeviceDescriptor expects.
func featureList(set gputypes.Features) []gputypes.Feature {
	var out []gputypes.Feature
	for bit := gputypes.Feature(1); bit != 0; bit <<= 1 {
		if set.Contains(bit) {
			out = append(out, bit)
		}
	}
	return out
}
