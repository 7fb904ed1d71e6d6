package webgpu

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"
)

type surface struct {
	surface *wgpu.Surface
	config  gputypes.SurfaceConfiguration
}

var _ gpu.Surface = &surface{}

func (s *surface) Capabilities(a gpu.Adapter) gputypes.SurfaceCapabilities {
	ad, ok := a.(*adapter)
	if !ok {
		return gputypes.SurfaceCapabilities{}
	}
	caps := s.surface.GetCapabilities(ad.adapter)

	out := gputypes.SurfaceCapabilities{Usages: gputypes.TextureUsageRenderAttachment}
	for _, f := range caps.Formats {
		if g := fromTextureFormat(f); g != gputypes.TextureFormatUndefined {
			out.Formats = append(out.Formats, g)
		}
	}
	for _, m := range caps.PresentModes {
		out.PresentModes = append(out.PresentModes, fromPresentMode(m))
	}
	for _, m := range caps.AlphaModes {
		out.AlphaModes = append(out.AlphaModes, fromAlphaMode(m))
	}
	return out
}

func (s *surface) Configure(a gpu.Adapter, d gpu.Device, config gputypes.SurfaceConfiguration) error {
	ad, ok := a.(*adapter)
	if !ok {
		return errors.New("webgpu: foreign adapter")
	}
	dev, ok := d.(*device)
	if !ok {
		return errors.New("webgpu: foreign device")
	}
	s.surface.Configure(ad.adapter, dev.device, &wgpu.SurfaceConfiguration{
		Usage:       toTextureUsage(config.Usage),
		Format:      toTextureFormat(config.Format),
		Width:       config.Width,
		Height:      config.Height,
		PresentMode: toPresentMode(config.PresentMode),
		AlphaMode:   toAlphaMode(config.AlphaMode),
		ViewFormats: toTextureFormats(config.ViewFormats),
	})
	s.config = config
	return nil
}

func (s *surface) CurrentTexture() (gpu.Texture, error) {
	t, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, classifySurfaceError(err)
	}
	if t == nil {
		return nil, gpu.NewSurfaceError(gpu.SurfaceErrorFatal, errors.New("webgpu: nil surface texture"))
	}
	return &texture{texture: t, desc: gpu.TextureDescriptor{
		Label:  "Surface Texture",
		Width:  s.config.Width,
		Height: s.config.Height,
		Format: s.config.Format,
		Usage:  s.config.Usage,
	}}, nil
}

func (s *surface) Present() error {
	s.surface.Present()
	return nil
}

func (s *surface) Release() {
	s.surface.Release()
}

// classifySurfaceError is the single place wgpu-native acquisition errors enter the taxonomy.
// The binding reports the surface status only inside the error text.
func classifySurfaceError(err error) *gpu.SurfaceError {
	return gpu.NewSurfaceError(gpu.ClassifyMessage(err.Error()), err)
}
