package surface

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
)

// Frame is one acquired presentable texture. It must be presented or dropped
// before the surface can acquire again.
type Frame struct {
	surface *surface
	texture gpu.Texture
	view    gpu.TextureView
	done    bool
}

// View returns the color attachment view of the frame.
func (f *Frame) View() gpu.TextureView {
	return f.view
}

// Texture returns the underlying surface texture.
func (f *Frame) Texture() gpu.Texture {
	return f.texture
}

// Present queues the frame for display and releases it. Calling Present or Drop
// again is a no-op.
//
// Returns:
//   - error: the backend present error, if any
func (f *Frame) Present() error {
	if f.done {
		return nil
	}
	handle := f.surface.handle
	if handle == nil {
		f.release()
		return fmt.Errorf("surface: present: %w", ErrNotActive)
	}
	err := handle.Present()
	f.release()
	if err != nil {
		return fmt.Errorf("surface: present: %w", err)
	}
	return nil
}

// Drop releases the frame without presenting it.
func (f *Frame) Drop() {
	if f.done {
		return
	}
	f.release()
}

func (f *Frame) release() {
	f.done = true
	f.view.Release()
	f.texture.Release()
	if f.surface.frame == f {
		f.surface.frame = nil
	}
}

func (s *surface) Acquire() (*Frame, error) {
	if s.state != StateActive || s.handle == nil {
		return nil, ErrNotActive
	}
	if s.frame != nil {
		panic("surface: Acquire called while a frame is outstanding")
	}

	tex, err := s.currentTexture()
	if err != nil {
		s.log.Debug("frame acquisition failed", "err", err)
		return nil, err
	}
	view, err := tex.CreateView(s.ViewFormat())
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("%w: create view: %w", ErrAcquisitionFailed, err)
	}

	s.counter.Update()
	s.frame = &Frame{surface: s, texture: tex, view: view}
	return s.frame, nil
}

// currentTexture applies the retry policy: one retry after a timeout, one
// reconfigure and retry after an outdated or lost swap chain, none after a fatal error.
func (s *surface) currentTexture() (gpu.Texture, error) {
	tex, err := s.handle.CurrentTexture()
	if err == nil {
		return tex, nil
	}

	switch gpu.KindOf(err) {
	case gpu.SurfaceErrorTimeout:
		s.log.Warn("surface texture timed out, retrying", "err", err)
	case gpu.SurfaceErrorOutdatedOrLost:
		s.log.Warn("surface outdated or lost, reconfiguring", "err", err)
		if cerr := s.handle.Configure(s.adapter, s.device, *s.config); cerr != nil {
			return nil, fmt.Errorf("%w: reconfigure: %w", ErrAcquisitionFailed, cerr)
		}
	default:
		return nil, fmt.Errorf("%w: %w", ErrAcquisitionFailed, err)
	}

	tex, err = s.handle.CurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("%w: after retry: %w", ErrAcquisitionFailed, err)
	}
	return tex, nil
}
