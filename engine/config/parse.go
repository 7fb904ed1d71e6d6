package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/gputypes"
)

var presentModes = map[string]gputypes.PresentMode{
	"fifo":         gputypes.PresentModeFifo,
	"fifo-relaxed": gputypes.PresentModeFifoRelaxed,
	"immediate":    gputypes.PresentModeImmediate,
	"mailbox":      gputypes.PresentModeMailbox,
}

var alphaModes = map[string]gputypes.CompositeAlphaMode{
	"auto":            gputypes.CompositeAlphaModeAuto,
	"opaque":          gputypes.CompositeAlphaModeOpaque,
	"premultiplied":   gputypes.CompositeAlphaModePremultiplied,
	"unpremultiplied": gputypes.CompositeAlphaModeUnpremultiplied,
	"inherit":         gputypes.CompositeAlphaModeInherit,
}

var textureFormats = map[string]gputypes.TextureFormat{
	"bgra8unorm":           gputypes.TextureFormatBGRA8Unorm,
	"bgra8unorm-srgb":      gputypes.TextureFormatBGRA8UnormSrgb,
	"rgba8unorm":           gputypes.TextureFormatRGBA8Unorm,
	"rgba8unorm-srgb":      gputypes.TextureFormatRGBA8UnormSrgb,
	"rgb10a2unorm":         gputypes.TextureFormatRGB10A2Unorm,
	"rgba16float":          gputypes.TextureFormatRGBA16Float,
	"depth16unorm":         gputypes.TextureFormatDepth16Unorm,
	"depth24plus":          gputypes.TextureFormatDepth24Plus,
	"depth24plus-stencil8": gputypes.TextureFormatDepth24PlusStencil8,
	"depth32float":         gputypes.TextureFormatDepth32Float,
}

var powerPreferences = map[string]gputypes.PowerPreference{
	"none":             gputypes.PowerPreferenceNone,
	"low-power":        gputypes.PowerPreferenceLowPower,
	"high-performance": gputypes.PowerPreferenceHighPerformance,
}

var features = map[string]gputypes.Feature{
	"depth-clip-control":      gputypes.FeatureDepthClipControl,
	"depth32float-stencil8":   gputypes.FeatureDepth32FloatStencil8,
	"texture-compression-bc":  gputypes.FeatureTextureCompressionBC,
	"indirect-first-instance": gputypes.FeatureIndirectFirstInstance,
	"shader-f16":              gputypes.FeatureShaderF16,
	"float32-filterable":      gputypes.FeatureFloat32Filterable,
	"timestamp-query":         gputypes.FeatureTimestampQuery,
	"push-constants":          gputypes.FeaturePushConstants,
}

var blendModes = map[string]func() gputypes.BlendState{
	"alpha":         gputypes.BlendStateAlpha,
	"premultiplied": gputypes.BlendStatePremultiplied,
	"replace":       gputypes.BlendStateReplace,
}

func lookup[T any](table map[string]T, kind, value string) (T, error) {
	if v, ok := table[strings.ToLower(strings.TrimSpace(value))]; ok {
		return v, nil
	}
	var zero T
	names := make([]string, 0, len(table))
	for k := range table {
		names = append(names, k)
	}
	sort.Strings(names)
	return zero, fmt.Errorf("%w: %s %q (want one of %s)", ErrInvalidValue, kind, value, strings.Join(names, ", "))
}

func nameOf[T comparable](table map[string]T, value T) string {
	for k, v := range table {
		if v == value {
			return k
		}
	}
	return ""
}

// ParsePresentMode parses a present mode name such as "fifo" or "mailbox".
func ParsePresentMode(s string) (gputypes.PresentMode, error) {
	return lookup(presentModes, "present mode", s)
}

// ParseAlphaMode parses a composite alpha mode name such as "auto" or "opaque".
func ParseAlphaMode(s string) (gputypes.CompositeAlphaMode, error) {
	return lookup(alphaModes, "alpha mode", s)
}

// ParseTextureFormat parses a WebGPU texture format name such as "bgra8unorm-srgb".
// The empty string parses to TextureFormatUndefined, which disables optional attachments.
func ParseTextureFormat(s string) (gputypes.TextureFormat, error) {
	if strings.TrimSpace(s) == "" {
		return gputypes.TextureFormatUndefined, nil
	}
	return lookup(textureFormats, "texture format", s)
}

// FormatName is the inverse of ParseTextureFormat.
func FormatName(f gputypes.TextureFormat) string {
	return nameOf(textureFormats, f)
}

// ParsePowerPreference parses "none", "low-power" or "high-performance". The empty string is "none".
func ParsePowerPreference(s string) (gputypes.PowerPreference, error) {
	if strings.TrimSpace(s) == "" {
		return gputypes.PowerPreferenceNone, nil
	}
	return lookup(powerPreferences, "power preference", s)
}

// ParseFeatures parses a list of feature names into a feature set.
//
// Parameters:
//   - names: feature names such as "timestamp-query"
//
// Returns:
//   - gputypes.Features: the parsed set
//   - error: ErrInvalidValue naming the first unknown feature
func ParseFeatures(names []string) (gputypes.Features, error) {
	var set gputypes.Features
	for _, n := range names {
		f, err := lookup(features, "feature", n)
		if err != nil {
			return 0, err
		}
		set.Insert(f)
	}
	return set, nil
}

// ParseBlendMode parses "alpha", "premultiplied" or "replace". The empty string is "alpha".
func ParseBlendMode(s string) (gputypes.BlendState, error) {
	if strings.TrimSpace(s) == "" {
		return gputypes.BlendStateAlpha(), nil
	}
	build, err := lookup(blendModes, "blend mode", s)
	if err != nil {
		return gputypes.BlendState{}, err
	}
	return build(), nil
}
