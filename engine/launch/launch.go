// Package launch starts an engine.App on desktop GLFW windows with the
// registered WebGPU backend. It is kept apart from package engine so the
// runner builds and tests without cgo window headers.
package launch

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine"
	"github.com/Carmen-Shannon/oxy-frame/engine/config"
	"github.com/Carmen-Shannon/oxy-frame/engine/device"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	_ "github.com/Carmen-Shannon/oxy-frame/engine/gpu/webgpu"
	"github.com/Carmen-Shannon/oxy-frame/engine/surface"
	"github.com/Carmen-Shannon/oxy-frame/engine/window"
	"github.com/Carmen-Shannon/oxy-frame/engine/window/desktop"
)

// Start opens the configured desktop windows, creates the device context and
// runs app until every window is closed. It must be called from the main goroutine.
// A config without windows opens one default window.
//
// Parameters:
//   - app: the application to run
//   - cfg: the application config
//   - options: extra runner options, applied after the windows and device context
//
// Returns:
//   - error: nil on a normal exit, otherwise one of the engine error kinds
func Start(app engine.App, cfg config.AppConfig, options ...engine.RunnerBuilderOption) error {
	if len(cfg.Windows) == 0 {
		cfg.Windows = []config.WindowConfig{config.DefaultWindowConfig()}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", engine.ErrInitialization, err)
	}

	platform, err := desktop.NewPlatform()
	if err != nil {
		return fmt.Errorf("%w: %w", engine.ErrWindowCreation, err)
	}
	defer platform.Terminate()

	windows := make([]window.Window, 0, len(cfg.Windows))
	closeAll := func() {
		for _, w := range windows {
			_ = w.Close()
		}
	}
	for i := range cfg.Windows {
		w, err := platform.NewWindow(desktop.WithWindowConfig(cfg.Window(i)))
		if err != nil {
			closeAll()
			return fmt.Errorf("%w: window %d: %w", engine.ErrWindowCreation, i, err)
		}
		windows = append(windows, w)
	}

	instance, err := gpu.NewInstance(cfg.Backend)
	if err != nil {
		closeAll()
		return fmt.Errorf("%w: %w", engine.ErrGPUInitialization, err)
	}

	surfaces := make([]surface.Surface, len(windows))
	for i, w := range windows {
		settings, _ := cfg.Window(i).Settings()
		s := surface.New(w, surface.WithSettings(settings), surface.WithLabel(w.Title()))
		if err := s.PreAdapter(instance); err != nil {
			closeAll()
			instance.Release()
			return fmt.Errorf("%w: window %q: %w", engine.ErrSurfaceCreation, w.Title(), err)
		}
		surfaces[i] = s
	}

	dc, err := device.New(instance, surfaces[0].Handle(), device.WithDeviceConfig(cfg.Device))
	if err != nil {
		for _, s := range surfaces {
			_ = s.Destroy()
		}
		closeAll()
		instance.Release()
		return fmt.Errorf("%w: %w", engine.ErrGPUInitialization, err)
	}
	common.Logger().Info("starting", "windows", len(windows), "platform", surfaces[0].Platform())

	runnerOptions := []engine.RunnerBuilderOption{engine.WithPoller(platform), engine.WithDeviceContext(dc)}
	for i, w := range windows {
		runnerOptions = append(runnerOptions, engine.WithWindow(w, surfaces[i]))
	}
	r, err := engine.NewRunner(app, append(runnerOptions, options...)...)
	if err != nil {
		closeAll()
		dc.Release()
		return err
	}
	return r.Run()
}
