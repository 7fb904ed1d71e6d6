package surface

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/gogpu/gputypes"
)

// attachment is a texture sized to the surface configuration plus its view.
type attachment struct {
	texture gpu.Texture
	view    gpu.TextureView
}

func (a *attachment) create(device gpu.Device, desc gpu.TextureDescriptor) error {
	a.release()
	tex, err := device.CreateTexture(desc)
	if err != nil {
		return fmt.Errorf("surface: create %s: %w", desc.Label, err)
	}
	view, err := tex.CreateView(gputypes.TextureFormatUndefined)
	if err != nil {
		tex.Release()
		return fmt.Errorf("surface: create %s view: %w", desc.Label, err)
	}
	a.texture = tex
	a.view = view
	return nil
}

func (a *attachment) release() {
	if a.view != nil {
		a.view.Release()
		a.view = nil
	}
	if a.texture != nil {
		a.texture.Release()
		a.texture = nil
	}
}

// recreateAttachments replaces the depth and multisample attachments so they match the configured extent.
func (s *surface) recreateAttachments() error {
	if s.config == nil {
		return nil
	}
	samples := common.AtLeast(s.settings.SampleCount, 1)

	if s.settings.DepthFormat != gputypes.TextureFormatUndefined {
		err := s.depth.create(s.device, gpu.TextureDescriptor{
			Label:       "Depth Texture",
			Width:       s.config.Width,
			Height:      s.config.Height,
			Format:      s.settings.DepthFormat,
			Usage:       gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
			SampleCount: samples,
		})
		if err != nil {
			return err
		}
	}

	if samples > 1 {
		err := s.multisample.create(s.device, gpu.TextureDescriptor{
			Label:       "Multisample Texture",
			Width:       s.config.Width,
			Height:      s.config.Height,
			Format:      s.ViewFormat(),
			Usage:       gputypes.TextureUsageRenderAttachment,
			SampleCount: samples,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *surface) releaseAttachments() {
	s.depth.release()
	s.multisample.release()
}
