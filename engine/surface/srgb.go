package surface

import "github.com/gogpu/gputypes"

var srgbVariants = map[gputypes.TextureFormat]gputypes.TextureFormat{
	gputypes.TextureFormatRGBA8Unorm:      gputypes.TextureFormatRGBA8UnormSrgb,
	gputypes.TextureFormatBGRA8Unorm:      gputypes.TextureFormatBGRA8UnormSrgb,
	gputypes.TextureFormatBC1RGBAUnorm:    gputypes.TextureFormatBC1RGBAUnormSrgb,
	gputypes.TextureFormatBC2RGBAUnorm:    gputypes.TextureFormatBC2RGBAUnormSrgb,
	gputypes.TextureFormatBC3RGBAUnorm:    gputypes.TextureFormatBC3RGBAUnormSrgb,
	gputypes.TextureFormatBC7RGBAUnorm:    gputypes.TextureFormatBC7RGBAUnormSrgb,
	gputypes.TextureFormatETC2RGB8Unorm:   gputypes.TextureFormatETC2RGB8UnormSrgb,
	gputypes.TextureFormatETC2RGB8A1Unorm: gputypes.TextureFormatETC2RGB8A1UnormSrgb,
	gputypes.TextureFormatETC2RGBA8Unorm:  gputypes.TextureFormatETC2RGBA8UnormSrgb,
	gputypes.TextureFormatASTC4x4Unorm:    gputypes.TextureFormatASTC4x4UnormSrgb,
}

var linearVariants = func() map[gputypes.TextureFormat]gputypes.TextureFormat {
	m := make(map[gputypes.TextureFormat]gputypes.TextureFormat, len(srgbVariants))
	for linear, srgb := range srgbVariants {
		m[srgb] = linear
	}
	return m
}()

// AddSRGBSuffix returns the sRGB variant of f, or f itself when it has none.
func AddSRGBSuffix(f gputypes.TextureFormat) gputypes.TextureFormat {
	if s, ok := srgbVariants[f]; ok {
		return s
	}
	return f
}

// RemoveSRGBSuffix returns the linear variant of f, or f itself when it is not sRGB.
func RemoveSRGBSuffix(f gputypes.TextureFormat) gputypes.TextureFormat {
	if l, ok := linearVariants[f]; ok {
		return l
	}
	return f
}
