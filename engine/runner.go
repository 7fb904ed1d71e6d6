// Package engine drives an App from platform events.
//
// The Runner is single-threaded: every lifecycle transition, acquisition and
// draw happens on the goroutine that called Run, which is locked to its OS
// thread for the platform's sake.
package engine

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/device"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/Carmen-Shannon/oxy-frame/engine/profiler"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/resource"
	"github.com/Carmen-Shannon/oxy-frame/engine/surface"
	"github.com/Carmen-Shannon/oxy-frame/engine/window"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Runner pumps platform events into an App.
type Runner interface {
	// Run locks the calling goroutine to its OS thread and handles events until
	// the app exits or a frame fails. Resources are released before it returns.
	//
	// Returns:
	//   - error: nil on a normal exit, otherwise one of the engine error kinds
	Run() error

	// HandleEvent applies one platform event. Run calls it for every polled event.
	//
	// Parameters:
	//   - ev: the event to apply
	HandleEvent(ev window.Event)

	// Exiting reports whether an exit was requested or a fatal error occurred.
	Exiting() bool

	// Err returns the fatal error that stopped the runner, if any.
	Err() error

	// Shutdown destroys every surface and releases the renderers, the mesh cache
	// and the device context. Run calls it on return.
	Shutdown()
}

// view is one window with its surface and the per-window frame machinery.
type view struct {
	window   window.Window
	surface  surface.Surface
	renderer renderer.Renderer
	profiler *profiler.Profiler
}

type runner struct {
	app      App
	poller   window.Poller
	dc       device.DeviceContext
	platform surface.Platform

	views []*view
	byID  map[window.ID]*view

	cache        *resource.Cache
	cacheOptions []resource.CacheBuilderOption
	background   *common.Color
	profiling    bool

	created  bool
	exiting  bool
	shutdown bool
	err      error
}

var _ Runner = &runner{}

// NewRunner creates a runner for app.
// Applies default values first, then each option in order.
//
// Parameters:
//   - app: the application to drive
//   - options: variadic list of RunnerBuilderOption
//
// Returns:
//   - Runner: the runner
//   - error: ErrInitialization if no device context was given
func NewRunner(app App, options ...RunnerBuilderOption) (Runner, error) {
	r := &runner{
		app:      app,
		platform: surface.CurrentPlatform(),
		byID:     make(map[window.ID]*view),
	}
	for _, opt := range options {
		opt(r)
	}
	if r.dc == nil {
		return nil, fmt.Errorf("%w: no device context", ErrInitialization)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: no app", ErrInitialization)
	}
	return r, nil
}

func (r *runner) Run() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer r.Shutdown()

	if r.poller == nil {
		return fmt.Errorf("%w: no event source", ErrInitialization)
	}
	for !r.exiting {
		if !r.poller.PollEvents(r.HandleEvent) {
			r.exit()
		}
	}
	return r.err
}

func (r *runner) HandleEvent(ev window.Event) {
	if r.exiting {
		return
	}
	log := common.Logger()
	log.Debug("event", "event", ev.String())

	switch ev.Kind {
	case r.platform.StartEvent(), window.EventResumed:
		r.start()
	case window.EventSuspended:
		r.suspend()
	case window.EventResized:
		r.resize(ev)
	case window.EventRedrawRequested:
		r.redraw(ev.Window)
	case window.EventCloseRequested:
		log.Info("close requested", "window", ev.Window)
		r.exit()
	case window.EventKeyPressed:
		if ev.Key == gpucontext.KeyEscape {
			r.exit()
		}
	}
}

// start resumes every surface, then builds the shared resources and creates the app once.
func (r *runner) start() {
	dev := r.dc.GPUDevice()
	for _, v := range r.views {
		if v.surface.State() == surface.StateActive {
			continue
		}
		err := v.surface.Resume(r.dc.Instance(), r.dc.GPUAdapter(), dev, v.surface.Settings().PreferSRGB)
		if err != nil {
			r.fail(fmt.Errorf("%w: window %q: %w", ErrSurfaceCreation, v.window.Title(), err))
			return
		}
		v.window.RequestRedraw()
	}
	if r.created {
		return
	}

	if r.cache == nil {
		cache, err := resource.NewCache(dev, r.dc.GPUQueue(), r.cacheOptions...)
		if err != nil {
			r.fail(fmt.Errorf("%w: %w", ErrGPUInitialization, err))
			return
		}
		r.cache = cache
	}
	for i, v := range r.views {
		if err := r.attach(v); err != nil {
			r.fail(fmt.Errorf("%w: window %q: %w", ErrGPUInitialization, v.window.Title(), err))
			return
		}
		if i == 0 {
			r.dc.SetSurfaceFormat(v.surface.ViewFormat())
		}
	}

	if err := r.app.Create(r.dc, r.cache); err != nil {
		r.fail(fmt.Errorf("%w: %w", ErrInitialization, err))
		return
	}
	r.created = true
	common.Logger().Info("app created", "windows", len(r.views))
}

// attach builds the renderer of v for the format its frames are viewed in.
func (r *runner) attach(v *view) error {
	if v.renderer != nil {
		return nil
	}
	format := v.surface.ViewFormat()
	if format == gputypes.TextureFormatUndefined {
		return surface.ErrNotActive
	}
	options := []renderer.RendererBuilderOption{
		renderer.WithColorFormat(format),
		renderer.WithSurfaceSettings(v.surface.Settings()),
		renderer.WithLabel(v.window.Title()),
	}
	if r.background != nil {
		options = append(options, renderer.WithBackground(*r.background))
	}
	rd, err := renderer.New(r.dc.GPUDevice(), r.dc.GPUQueue(), r.cache, options...)
	if err != nil {
		return err
	}
	v.renderer = rd
	if r.profiling {
		v.profiler = profiler.NewProfiler(profiler.WithLabel(v.window.Title()))
	}
	return nil
}

func (r *runner) suspend() {
	for _, v := range r.views {
		if v.surface.State() != surface.StateActive {
			continue
		}
		if err := v.surface.Suspend(); err != nil {
			common.Logger().Warn("suspend failed", "window", v.window.Title(), "error", err)
		}
	}
}

func (r *runner) resize(ev window.Event) {
	v, ok := r.byID[ev.Window]
	if !ok {
		return
	}
	err := v.surface.Resize(r.dc.GPUDevice(), ev.Width, ev.Height)
	switch {
	case errors.Is(err, surface.ErrNotActive):
		common.Logger().Debug("resize before start", "window", v.window.Title())
	case err != nil:
		common.Logger().Warn("resize failed", "window", v.window.Title(), "error", err)
	}
	v.window.RequestRedraw()
}

func (r *runner) redraw(id window.ID) {
	v, ok := r.byID[id]
	if !ok || !r.created || v.renderer == nil || v.surface.State() != surface.StateActive {
		return
	}

	frame, err := v.surface.Acquire()
	if err != nil {
		common.Logger().Error("frame acquisition failed", "window", v.window.Title(), "error", err)
		r.fail(fmt.Errorf("%w: %w", ErrEventLoop, err))
		return
	}

	render := func(ctx *renderer.RenderContext) {
		r.app.Render(ctx, v.window)
	}
	if msaa := v.surface.MultisampleView(); msaa != nil {
		err = v.renderer.DrawResolved(msaa, frame.View(), v.surface.DepthView(), render)
	} else {
		err = v.renderer.Draw([]gpu.TextureView{frame.View()}, v.surface.DepthView(), render)
	}
	if err != nil {
		frame.Drop()
		common.Logger().Error("frame draw failed", "window", v.window.Title(), "error", err)
		r.fail(fmt.Errorf("%w: %w", ErrEventLoop, err))
		return
	}
	if err := frame.Present(); err != nil {
		common.Logger().Error("frame present failed", "window", v.window.Title(), "error", err)
		r.fail(fmt.Errorf("%w: %w", ErrEventLoop, err))
		return
	}

	v.window.RequestRedraw()
	if v.profiler != nil {
		v.profiler.Tick()
	}
}

func (r *runner) fail(err error) {
	if r.err == nil {
		r.err = err
	}
	r.exit()
}

// exit stops the loop and destroys every surface.
func (r *runner) exit() {
	if r.exiting {
		return
	}
	r.exiting = true
	for _, v := range r.views {
		if err := v.surface.Destroy(); err != nil {
			common.Logger().Warn("surface destroy failed", "window", v.window.Title(), "error", err)
		}
	}
}

func (r *runner) Exiting() bool {
	return r.exiting
}

func (r *runner) Err() error {
	return r.err
}

func (r *runner) Shutdown() {
	if r.shutdown {
		return
	}
	r.shutdown = true
	r.exit()
	for _, v := range r.views {
		if v.renderer != nil {
			v.renderer.Release()
			v.renderer = nil
		}
		if err := v.window.Close(); err != nil {
			common.Logger().Warn("window close failed", "window", v.window.Title(), "error", err)
		}
	}
	if r.cache != nil {
		r.cache.Release()
		r.cache = nil
	}
	r.dc.Release()
	common.Logger().Info("runner stopped")
}
