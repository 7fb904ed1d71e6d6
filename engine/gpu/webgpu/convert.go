package webgpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"
)

var textureFormats = map[gputypes.TextureFormat]wgpu.TextureFormat{
	gputypes.TextureFormatUndefined:           wgpu.TextureFormatUndefined,
	gputypes.TextureFormatRGBA8Unorm:          wgpu.TextureFormatRGBA8Unorm,
	gputypes.TextureFormatRGBA8UnormSrgb:      wgpu.TextureFormatRGBA8UnormSrgb,
	gputypes.TextureFormatBGRA8Unorm:          wgpu.TextureFormatBGRA8Unorm,
	gputypes.TextureFormatBGRA8UnormSrgb:      wgpu.TextureFormatBGRA8UnormSrgb,
	gputypes.TextureFormatRGB10A2Unorm:        wgpu.TextureFormatRGB10A2Unorm,
	gputypes.TextureFormatRGBA16Float:         wgpu.TextureFormatRGBA16Float,
	gputypes.TextureFormatDepth16Unorm:        wgpu.TextureFormatDepth16Unorm,
	gputypes.TextureFormatDepth24Plus:         wgpu.TextureFormatDepth24Plus,
	gputypes.TextureFormatDepth24PlusStencil8: wgpu.TextureFormatDepth24PlusStencil8,
	gputypes.TextureFormatDepth32Float:        wgpu.TextureFormatDepth32Float,
}

func toTextureFormat(f gputypes.TextureFormat) wgpu.TextureFormat {
	return textureFormats[f]
}

func fromTextureFormat(f wgpu.TextureFormat) gputypes.TextureFormat {
	for k, v := range textureFormats {
		if v == f {
			return k
		}
	}
	return gputypes.TextureFormatUndefined
}

func toTextureFormats(in []gputypes.TextureFormat) []wgpu.TextureFormat {
	if len(in) == 0 {
		return nil
	}
	out := make([]wgpu.TextureFormat, 0, len(in))
	for _, f := range in {
		out = append(out, toTextureFormat(f))
	}
	return out
}

func toPresentMode(m gputypes.PresentMode) wgpu.PresentMode {
	switch m {
	case gputypes.PresentModeImmediate:
		return wgpu.PresentModeImmediate
	case gputypes.PresentModeMailbox:
		return wgpu.PresentModeMailbox
	case gputypes.PresentModeFifoRelaxed:
		return wgpu.PresentModeFifoRelaxed
	default:
		return wgpu.PresentModeFifo
	}
}

func fromPresentMode(m wgpu.PresentMode) gputypes.PresentMode {
	switch m {
	case wgpu.PresentModeImmediate:
		return gputypes.PresentModeImmediate
	case wgpu.PresentModeMailbox:
		return gputypes.PresentModeMailbox
	case wgpu.PresentModeFifoRelaxed:
		return gputypes.PresentModeFifoRelaxed
	default:
		return gputypes.PresentModeFifo
	}
}

func toAlphaMode(m gputypes.CompositeAlphaMode) wgpu.CompositeAlphaMode {
	switch m {
	case gputypes.CompositeAlphaModeOpaque:
		return wgpu.CompositeAlphaModeOpaque
	case gputypes.CompositeAlphaModePremultiplied:
		return wgpu.CompositeAlphaModePremultiplied
	case gputypes.CompositeAlphaModeUnpremultiplied:
		return wgpu.CompositeAlphaModeUnpremultiplied
	case gputypes.CompositeAlphaModeInherit:
		return wgpu.CompositeAlphaModeInherit
	default:
		return wgpu.CompositeAlphaModeAuto
	}
}

func fromAlphaMode(m wgpu.CompositeAlphaMode) gputypes.CompositeAlphaMode {
	switch m {
	case wgpu.CompositeAlphaModeOpaque:
		return gputypes.CompositeAlphaModeOpaque
	case wgpu.CompositeAlphaModePremultiplied:
		return gputypes.CompositeAlphaModePremultiplied
	case wgpu.CompositeAlphaModeUnpremultiplied:
		return gputypes.CompositeAlphaModeUnpremultiplied
	case wgpu.CompositeAlphaModeInherit:
		return gputypes.CompositeAlphaModeInherit
	default:
		return gputypes.CompositeAlphaModeAuto
	}
}

func toTextureUsage(u gputypes.TextureUsage) wgpu.TextureUsage {
	var out wgpu.TextureUsage
	if u&gputypes.TextureUsageCopySrc != 0 {
		out |= wgpu.TextureUsageCopySrc
	}
	if u&gputypes.TextureUsageCopyDst != 0 {
		out |= wgpu.TextureUsageCopyDst
	}
	if u&gputypes.TextureUsageTextureBinding != 0 {
		out |= wgpu.TextureUsageTextureBinding
	}
	if u&gputypes.TextureUsageStorageBinding != 0 {
		out |= wgpu.TextureUsageStorageBinding
	}
	if u&gputypes.TextureUsageRenderAttachment != 0 {
		out |= wgpu.TextureUsageRenderAttachment
	}
	return out
}

func toBufferUsage(u gputypes.BufferUsage) wgpu.BufferUsage {
	pairs := []struct {
		from gputypes.BufferUsage
		to   wgpu.BufferUsage
	}{
		{gputypes.BufferUsageMapRead, wgpu.BufferUsageMapRead},
		{gputypes.BufferUsageMapWrite, wgpu.BufferUsageMapWrite},
		{gputypes.BufferUsageCopySrc, wgpu.BufferUsageCopySrc},
		{gputypes.BufferUsageCopyDst, wgpu.BufferUsageCopyDst},
		{gputypes.BufferUsageIndex, wgpu.BufferUsageIndex},
		{gputypes.BufferUsageVertex, wgpu.BufferUsageVertex},
		{gputypes.BufferUsageUniform, wgpu.BufferUsageUniform},
		{gputypes.BufferUsageStorage, wgpu.BufferUsageStorage},
		{gputypes.BufferUsageIndirect, wgpu.BufferUsageIndirect},
	}
	var out wgpu.BufferUsage
	for _, p := range pairs {
		if u&p.from != 0 {
			out |= p.to
		}
	}
	return out
}

func toPowerPreference(p gputypes.PowerPreference) wgpu.PowerPreference {
	switch p {
	case gputypes.PowerPreferenceLowPower:
		return wgpu.PowerPreferenceLowPower
	case gputypes.PowerPreferenceHighPerformance:
		return wgpu.PowerPreferenceHighPerformance
	default:
		return wgpu.PowerPreferenceUndefined
	}
}

var featureNames = map[gputypes.Feature]wgpu.FeatureName{
	gputypes.FeatureDepthClipControl:        wgpu.FeatureNameDepthClipControl,
	gputypes.FeatureDepth32FloatStencil8:    wgpu.FeatureNameDepth32FloatStencil8,
	gputypes.FeatureTextureCompressionBC:    wgpu.FeatureNameTextureCompressionBC,
	gputypes.FeatureTextureCompressionETC2:  wgpu.FeatureNameTextureCompressionETC2,
	gputypes.FeatureTextureCompressionASTC:  wgpu.FeatureNameTextureCompressionASTC,
	gputypes.FeatureIndirectFirstInstance:   wgpu.FeatureNameIndirectFirstInstance,
	gputypes.FeatureShaderF16:               wgpu.FeatureNameShaderF16,
	gputypes.FeatureRG11B10UfloatRenderable: wgpu.FeatureNameRG11B10UfloatRenderable,
	gputypes.FeatureBGRA8UnormStorage:       wgpu.FeatureNameBGRA8UnormStorage,
	gputypes.FeatureFloat32Filterable:       wgpu.FeatureNameFloat32Filterable,
	gputypes.FeatureTimestampQuery:          wgpu.FeatureNameTimestampQuery,
}

func fromFeatureNames(names []wgpu.FeatureName) gputypes.Features {
	var out gputypes.Features
	for _, n := range names {
		for k, v := range featureNames {
			if v == n {
				out.Insert(k)
			}
		}
	}
	return out
}

func toFeatureNames(in []gputypes.Feature) []wgpu.FeatureName {
	out := make([]wgpu.FeatureName, 0, len(in))
	for _, f := range in {
		if n, ok := featureNames[f]; ok {
			out = append(out, n)
		}
	}
	return out
}

func fromLimits(l wgpu.Limits) gputypes.Limits {
	out := gputypes.DefaultLimits()
	out.MaxTextureDimension1D = l.MaxTextureDimension1D
	out.MaxTextureDimension2D = l.MaxTextureDimension2D
	out.MaxTextureDimension3D = l.MaxTextureDimension3D
	out.MaxTextureArrayLayers = l.MaxTextureArrayLayers
	out.MaxBindGroups = l.MaxBindGroups
	out.MaxBindingsPerBindGroup = l.MaxBindingsPerBindGroup
	out.MaxDynamicUniformBuffersPerPipelineLayout = l.MaxDynamicUniformBuffersPerPipelineLayout
	out.MaxUniformBuffersPerShaderStage = l.MaxUniformBuffersPerShaderStage
	out.MaxUniformBufferBindingSize = l.MaxUniformBufferBindingSize
	out.MaxStorageBufferBindingSize = l.MaxStorageBufferBindingSize
	out.MinUniformBufferOffsetAlignment = l.MinUniformBufferOffsetAlignment
	out.MinStorageBufferOffsetAlignment = l.MinStorageBufferOffsetAlignment
	out.MaxVertexBuffers = l.MaxVertexBuffers
	out.MaxBufferSize = l.MaxBufferSize
	out.MaxVertexAttributes = l.MaxVertexAttributes
	out.MaxVertexBufferArrayStride = l.MaxVertexBufferArrayStride
	out.MaxColorAttachments = l.MaxColorAttachments
	// wgpu-native reports push constants through native extras, which this binding does not surface.
	out.MaxPushConstantSize = 0
	return out
}

func toLimits(l gputypes.Limits) wgpu.Limits {
	out := wgpu.DefaultLimits()
	out.MaxTextureDimension1D = l.MaxTextureDimension1D
	out.MaxTextureDimension2D = l.MaxTextureDimension2D
	out.MaxTextureDimension3D = l.MaxTextureDimension3D
	out.MaxTextureArrayLayers = l.MaxTextureArrayLayers
	out.MaxBindGroups = l.MaxBindGroups
	out.MaxBindingsPerBindGroup = l.MaxBindingsPerBindGroup
	out.MaxDynamicUniformBuffersPerPipelineLayout = l.MaxDynamicUniformBuffersPerPipelineLayout
	out.MaxUniformBuffersPerShaderStage = l.MaxUniformBuffersPerShaderStage
	out.MaxUniformBufferBindingSize = l.MaxUniformBufferBindingSize
	out.MaxStorageBufferBindingSize = l.MaxStorageBufferBindingSize
	out.MinUniformBufferOffsetAlignment = l.MinUniformBufferOffsetAlignment
	out.MinStorageBufferOffsetAlignment = l.MinStorageBufferOffsetAlignment
	out.MaxVertexBuffers = l.MaxVertexBuffers
	out.MaxBufferSize = l.MaxBufferSize
	out.MaxVertexAttributes = l.MaxVertexAttributes
	out.MaxVertexBufferArrayStride = l.MaxVertexBufferArrayStride
	out.MaxColorAttachments = l.MaxColorAttachments
	return out
}

func fromAdapterType(t wgpu.AdapterType) gputypes.DeviceType {
	switch t {
	case wgpu.AdapterTypeDiscreteGPU:
		return gputypes.DeviceTypeDiscreteGPU
	case wgpu.AdapterTypeIntegratedGPU:
		return gputypes.DeviceTypeIntegratedGPU
	case wgpu.AdapterTypeCPU:
		return gputypes.DeviceTypeCPU
	default:
		return gputypes.DeviceTypeOther
	}
}

func fromBackendType(t wgpu.BackendType) gputypes.Backend {
	switch t {
	case wgpu.BackendTypeVulkan:
		return gputypes.BackendVulkan
	case wgpu.BackendTypeMetal:
		return gputypes.BackendMetal
	case wgpu.BackendTypeD3D12:
		return gputypes.BackendDX12
	case wgpu.BackendTypeOpenGL, wgpu.BackendTypeOpenGLES:
		return gputypes.BackendGL
	case wgpu.BackendTypeWebGPU:
		return gputypes.BackendBrowserWebGPU
	default:
		return gputypes.BackendEmpty
	}
}

func toBlendComponent(c gputypes.BlendComponent) wgpu.BlendComponent {
	return wgpu.BlendComponent{
		SrcFactor: toBlendFactor(c.SrcFactor),
		DstFactor: toBlendFactor(c.DstFactor),
		Operation: toBlendOperation(c.Operation),
	}
}

func toBlendFactor(f gputypes.BlendFactor) wgpu.BlendFactor {
	switch f {
	case gputypes.BlendFactorZero:
		return wgpu.BlendFactorZero
	case gputypes.BlendFactorSrc:
		return wgpu.BlendFactorSrc
	case gputypes.BlendFactorOneMinusSrc:
		return wgpu.BlendFactorOneMinusSrc
	case gputypes.BlendFactorSrcAlpha:
		return wgpu.BlendFactorSrcAlpha
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return wgpu.BlendFactorOneMinusSrcAlpha
	case gputypes.BlendFactorDst:
		return wgpu.BlendFactorDst
	case gputypes.BlendFactorOneMinusDst:
		return wgpu.BlendFactorOneMinusDst
	case gputypes.BlendFactorDstAlpha:
		return wgpu.BlendFactorDstAlpha
	case gputypes.BlendFactorOneMinusDstAlpha:
		return wgpu.BlendFactorOneMinusDstAlpha
	default:
		return wgpu.BlendFactorOne
	}
}

func toBlendOperation(o gputypes.BlendOperation) wgpu.BlendOperation {
	switch o {
	case gputypes.BlendOperationSubtract:
		return wgpu.BlendOperationSubtract
	case gputypes.BlendOperationReverseSubtract:
		return wgpu.BlendOperationReverseSubtract
	case gputypes.BlendOperationMin:
		return wgpu.BlendOperationMin
	case gputypes.BlendOperationMax:
		return wgpu.BlendOperationMax
	default:
		return wgpu.BlendOperationAdd
	}
}

func toTopology(t gputypes.PrimitiveTopology) wgpu.PrimitiveTopology {
	switch t {
	case gputypes.PrimitiveTopologyPointList:
		return wgpu.PrimitiveTopologyPointList
	case gputypes.PrimitiveTopologyLineList:
		return wgpu.PrimitiveTopologyLineList
	case gputypes.PrimitiveTopologyLineStrip:
		return wgpu.PrimitiveTopologyLineStrip
	case gputypes.PrimitiveTopologyTriangleStrip:
		return wgpu.PrimitiveTopologyTriangleStrip
	default:
		return wgpu.PrimitiveTopologyTriangleList
	}
}

func toVertexFormat(f gputypes.VertexFormat) wgpu.VertexFormat {
	switch f {
	case gputypes.VertexFormatFloat32:
		return wgpu.VertexFormatFloat32
	case gputypes.VertexFormatFloat32x2:
		return wgpu.VertexFormatFloat32x2
	case gputypes.VertexFormatFloat32x4:
		return wgpu.VertexFormatFloat32x4
	default:
		return wgpu.VertexFormatFloat32x3
	}
}

func toVertexLayouts(in []gputypes.VertexBufferLayout) []wgpu.VertexBufferLayout {
	out := make([]wgpu.VertexBufferLayout, 0, len(in))
	for _, l := range in {
		attrs := make([]wgpu.VertexAttribute, 0, len(l.Attributes))
		for _, a := range l.Attributes {
			attrs = append(attrs, wgpu.VertexAttribute{
				Format:         toVertexFormat(a.Format),
				Offset:         a.Offset,
				ShaderLocation: a.ShaderLocation,
			})
		}
		step := wgpu.VertexStepModeVertex
		if l.StepMode == gputypes.VertexStepModeInstance {
			step = wgpu.VertexStepModeInstance
		}
		out = append(out, wgpu.VertexBufferLayout{
			ArrayStride: l.ArrayStride,
			StepMode:    step,
			Attributes:  attrs,
		})
	}
	return out
}

func toIndexFormat(f gputypes.IndexFormat) wgpu.IndexFormat {
	if f == gputypes.IndexFormatUint16 {
		return wgpu.IndexFormatUint16
	}
	return wgpu.IndexFormatUint32
}

func toLoadOp(op gputypes.LoadOp) wgpu.LoadOp {
	if op == gputypes.LoadOpLoad {
		return wgpu.LoadOpLoad
	}
	return wgpu.LoadOpClear
}

func toStoreOp(op gputypes.StoreOp) wgpu.StoreOp {
	if op == gputypes.StoreOpDiscard {
		return wgpu.StoreOpDiscard
	}
	return wgpu.StoreOpStore
}

func toColor(c gputypes.Color) wgpu.Color {
	return wgpu.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
