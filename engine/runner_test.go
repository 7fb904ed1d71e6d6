package engine

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/config"
	"github.com/Carmen-Shannon/oxy-frame/engine/device"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/resource"
	"github.com/Carmen-Shannon/oxy-frame/engine/surface"
	"github.com/Carmen-Shannon/oxy-frame/engine/window"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

type fakeWindow struct {
	id            window.ID
	title         string
	width, height int
	redraws       int
	closed        bool
}

func (w *fakeWindow) Size() (int, int)                 { return w.width, w.height }
func (w *fakeWindow) ScaleFactor() float64             { return 1 }
func (w *fakeWindow) RequestRedraw()                   { w.redraws++ }
func (w *fakeWindow) ID() window.ID                    { return w.id }
func (w *fakeWindow) Title() string                    { return w.title }
func (w *fakeWindow) FramebufferSize() (int, int)      { return w.width, w.height }
func (w *fakeWindow) SurfaceTarget() gpu.SurfaceTarget { return w.title }

func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

type recordingApp struct {
	creates   int
	renders   int
	createErr error
	draw      func(ctx *renderer.RenderContext)
	cache     *resource.Cache
	rendered  []window.Window
}

func (a *recordingApp) Create(_ device.DeviceContext, cache *resource.Cache) error {
	a.creates++
	a.cache = cache
	return a.createErr
}

func (a *recordingApp) Render(ctx *renderer.RenderContext, w window.Window) {
	a.renders++
	a.rendered = append(a.rendered, w)
	if a.draw != nil {
		a.draw(ctx)
	}
}

type fixture struct {
	inst    *gputest.Instance
	win     *fakeWindow
	surface surface.Surface
	app     *recordingApp
	runner  Runner
}

func newFixture(t *testing.T, options ...RunnerBuilderOption) *fixture {
	t.Helper()
	inst := gputest.NewInstance()
	dc, err := device.New(inst, nil)
	if err != nil {
		t.Fatalf("device.New() error = %v", err)
	}
	win := &fakeWindow{id: 1, title: "main", width: 800, height: 600}
	surf := surface.New(win, surface.WithPlatform(surface.PlatformDesktop))
	app := &recordingApp{}
	base := []RunnerBuilderOption{
		WithDeviceContext(dc),
		WithWindow(win, surf),
		WithPlatform(surface.PlatformDesktop),
		WithCacheOptions(resource.WithWorkers(2)),
	}
	r, err := NewRunner(app, append(base, options...)...)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	return &fixture{inst: inst, win: win, surface: surf, app: app, runner: r}
}

func (f *fixture) device() *gputest.Device {
	return f.inst.Adapter.Device
}

func (f *fixture) native(t *testing.T) *gputest.Surface {
	t.Helper()
	if len(f.inst.Surfaces) == 0 {
		t.Fatal("no native surface created")
	}
	return f.inst.Surfaces[len(f.inst.Surfaces)-1]
}

func TestEndToEndEmptyFrame(t *testing.T) {
	bg := common.RGBA(0.1, 0.2, 0.3, 1)
	f := newFixture(t, WithBackground(bg))

	f.runner.HandleEvent(window.Event{Kind: window.EventInit})
	submits := len(f.device().FakeQueue.Submits)
	f.runner.HandleEvent(window.RedrawRequested(f.win.id))

	if err := f.runner.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	dev := f.device()
	if got := len(dev.FakeQueue.Submits) - submits; got != 1 {
		t.Errorf("submits = %d, want 1", got)
	}
	native := f.native(t)
	if native.Presents != 1 {
		t.Errorf("presents = %d, want 1", native.Presents)
	}
	cfg := native.LastConfig()
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("configured %dx%d, want 800x600", cfg.Width, cfg.Height)
	}
	enc := dev.Encoders[len(dev.Encoders)-1]
	if len(enc.Passes) != 1 {
		t.Fatalf("passes = %d, want 1", len(enc.Passes))
	}
	pass := enc.Passes[0]
	if len(pass.Draws) != 0 {
		t.Errorf("draws = %d, want 0", len(pass.Draws))
	}
	if got := pass.Desc.ColorAttachments[0].ClearValue; got != bg.GPU() {
		t.Errorf("ClearValue = %v, want %v", got, bg.GPU())
	}
	if f.app.renders != 1 || f.app.rendered[0] != window.Window(f.win) {
		t.Errorf("Render calls = %d, want 1 for the main window", f.app.renders)
	}
}

func TestStartCreatesAppOnce(t *testing.T) {
	f := newFixture(t)
	f.runner.HandleEvent(window.Event{Kind: window.EventInit})
	f.runner.HandleEvent(window.Event{Kind: window.EventInit})

	if f.app.creates != 1 {
		t.Errorf("Create calls = %d, want 1", f.app.creates)
	}
	if f.app.cache == nil || f.app.cache.Circle() == nil {
		t.Errorf("Create did not receive a populated cache")
	}
	if f.surface.State() != surface.StateActive {
		t.Errorf("State() = %v, want Active", f.surface.State())
	}
	if len(f.inst.Surfaces) != 1 {
		t.Errorf("native surfaces = %d, want 1", len(f.inst.Surfaces))
	}
	if f.win.redraws == 0 {
		t.Errorf("start did not request a redraw")
	}
}

func TestRedrawBeforeStartIsSkipped(t *testing.T) {
	f := newFixture(t)
	f.runner.HandleEvent(window.RedrawRequested(f.win.id))
	if f.app.renders != 0 || len(f.inst.Surfaces) != 0 {
		t.Errorf("redraw before start rendered %d frames", f.app.renders)
	}
	if f.runner.Exiting() {
		t.Errorf("redraw before start stopped the runner")
	}
}

func TestResizeReconfigures(t *testing.T) {
	f := newFixture(t)
	f.runner.HandleEvent(window.Resized(f.win.id, 1024, 768))
	if f.runner.Exiting() {
		t.Fatalf("resize before start stopped the runner: %v", f.runner.Err())
	}

	f.runner.HandleEvent(window.Event{Kind: window.EventInit})
	redraws := f.win.redraws
	f.runner.HandleEvent(window.Resized(f.win.id, 1024, 0))

	cfg, ok := f.surface.Config()
	if !ok || cfg.Width != 1024 || cfg.Height != 1 {
		t.Errorf("Config() = %dx%d (%v), want 1024x1", cfg.Width, cfg.Height, ok)
	}
	if f.win.redraws != redraws+1 {
		t.Errorf("resize did not request a redraw")
	}
}

func TestSuspendResume(t *testing.T) {
	f := newFixture(t)
	f.runner.HandleEvent(window.Event{Kind: window.EventInit})
	f.runner.HandleEvent(window.Event{Kind: window.EventSuspended})
	if f.surface.State() != surface.StateSuspended {
		t.Fatalf("State() = %v, want Suspended", f.surface.State())
	}

	f.runner.HandleEvent(window.RedrawRequested(f.win.id))
	if f.app.renders != 0 {
		t.Errorf("suspended surface rendered a frame")
	}

	f.runner.HandleEvent(window.Event{Kind: window.EventResumed})
	if f.surface.State() != surface.StateActive {
		t.Errorf("State() = %v, want Active", f.surface.State())
	}
	if f.app.creates != 1 {
		t.Errorf("Create calls = %d, want 1", f.app.creates)
	}
	f.runner.HandleEvent(window.RedrawRequested(f.win.id))
	if f.app.renders != 1 {
		t.Errorf("renders after resume = %d, want 1", f.app.renders)
	}
}

func TestMobileStartsOnResumed(t *testing.T) {
	f := newFixture(t, WithPlatform(surface.PlatformMobile))
	f.runner.HandleEvent(window.Event{Kind: window.EventInit})
	if f.app.creates != 0 {
		t.Errorf("Init started a mobile app")
	}
	f.runner.HandleEvent(window.Event{Kind: window.EventResumed})
	if f.app.creates != 1 {
		t.Errorf("Create calls = %d, want 1", f.app.creates)
	}
}

func TestRenderDraws(t *testing.T) {
	f := newFixture(t)
	f.app.draw = func(ctx *renderer.RenderContext) {
		ctx.Ortho(0, 800, 0, 600, -1, 1).DrawCircle(10).DrawWireRectangle(5, 5)
	}
	f.runner.HandleEvent(window.Event{Kind: window.EventInit})
	f.runner.HandleEvent(window.RedrawRequested(f.win.id))

	dev := f.device()
	pass := dev.Encoders[len(dev.Encoders)-1].Passes[0]
	if len(pass.Draws) != 2 {
		t.Errorf("draws = %d, want 2", len(pass.Draws))
	}
	if f.win.redraws < 2 {
		t.Errorf("presented frame did not request the next redraw")
	}
}

func TestMultisampledFrameResolves(t *testing.T) {
	inst := gputest.NewInstance()
	dc, err := device.New(inst, nil)
	if err != nil {
		t.Fatalf("device.New() error = %v", err)
	}
	settings, err := config.NewWindowConfig(config.WithDepthFormat("depth24plus"), config.WithSampleCount(4)).Settings()
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	win := &fakeWindow{id: 1, title: "msaa", width: 640, height: 480}
	surf := surface.New(win, surface.WithPlatform(surface.PlatformDesktop), surface.WithSettings(settings))
	r, err := NewRunner(&recordingApp{}, WithDeviceContext(dc), WithWindow(win, surf), WithPlatform(surface.PlatformDesktop))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	r.HandleEvent(window.Event{Kind: window.EventInit})
	r.HandleEvent(window.RedrawRequested(win.id))
	if err := r.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	dev := inst.Adapter.Device
	pass := dev.Encoders[len(dev.Encoders)-1].Passes[0]
	att := pass.Desc.ColorAttachments[0]
	if att.View != surf.MultisampleView() || att.ResolveTarget == nil {
		t.Errorf("frame was not drawn into the multisample target")
	}
	if pass.Desc.DepthStencil == nil || pass.Desc.DepthStencil.View != surf.DepthView() {
		t.Errorf("frame has no depth attachment")
	}
	for _, p := range dev.Pipelines {
		if p.SampleCount != 4 {
			t.Errorf("pipeline %q SampleCount = %d, want 4", p.Label, p.SampleCount)
		}
	}
}

func TestSRGBViewFormatReachesRenderer(t *testing.T) {
	inst := gputest.NewInstance()
	inst.NewSurface = func() *gputest.Surface {
		s := gputest.NewSurface()
		s.Caps.Formats = []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm}
		return s
	}
	dc, err := device.New(inst, nil)
	if err != nil {
		t.Fatalf("device.New() error = %v", err)
	}
	settings, err := config.NewWindowConfig(config.WithPreferSRGB(true)).Settings()
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	win := &fakeWindow{id: 1, title: "srgb", width: 640, height: 480}
	surf := surface.New(win, surface.WithPlatform(surface.PlatformDesktop), surface.WithSettings(settings))
	r, err := NewRunner(&recordingApp{}, WithDeviceContext(dc), WithWindow(win, surf), WithPlatform(surface.PlatformDesktop))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	r.HandleEvent(window.Event{Kind: window.EventInit})
	r.HandleEvent(window.RedrawRequested(win.id))
	if err := r.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	want := gputypes.TextureFormatBGRA8UnormSrgb
	if got := dc.SurfaceFormat(); got != want {
		t.Errorf("SurfaceFormat() = %v, want %v", got, want)
	}
	dev := inst.Adapter.Device
	for _, p := range dev.Pipelines {
		if len(p.ColorFormats) != 1 || p.ColorFormats[0] != want {
			t.Errorf("pipeline %q ColorFormats = %v, want [%v]", p.Label, p.ColorFormats, want)
		}
	}
	view := dev.Encoders[len(dev.Encoders)-1].Passes[0].Desc.ColorAttachments[0].View
	if got := view.Format(); got != want {
		t.Errorf("frame view format = %v, want %v", got, want)
	}
}

func TestAcquisitionFailureStopsLoop(t *testing.T) {
	f := newFixture(t)
	f.runner.HandleEvent(window.Event{Kind: window.EventInit})
	f.native(t).Fail(gpu.SurfaceErrorFatal)
	f.runner.HandleEvent(window.RedrawRequested(f.win.id))

	if !f.runner.Exiting() {
		t.Errorf("Exiting() = false after a failed acquisition")
	}
	if err := f.runner.Err(); !errors.Is(err, ErrEventLoop) || !errors.Is(err, surface.ErrAcquisitionFailed) {
		t.Errorf("Err() = %v, want ErrEventLoop wrapping ErrAcquisitionFailed", err)
	}
	if f.surface.State() != surface.StateDestroyed {
		t.Errorf("State() = %v, want Destroyed", f.surface.State())
	}
}

func TestCreateErrorStopsLoop(t *testing.T) {
	f := newFixture(t)
	f.app.createErr = errors.New("missing asset")
	f.runner.HandleEvent(window.Event{Kind: window.EventInit})
	if !errors.Is(f.runner.Err(), ErrInitialization) {
		t.Errorf("Err() = %v, want ErrInitialization", f.runner.Err())
	}
}

func TestSurfaceCreationFailure(t *testing.T) {
	f := newFixture(t)
	f.inst.SurfaceErr = errors.New("no native window")
	f.runner.HandleEvent(window.Event{Kind: window.EventInit})
	if !errors.Is(f.runner.Err(), ErrSurfaceCreation) {
		t.Errorf("Err() = %v, want ErrSurfaceCreation", f.runner.Err())
	}
	if f.app.creates != 0 {
		t.Errorf("Create called after surface failure")
	}
}

func TestExitEvents(t *testing.T) {
	tests := []struct {
		name string
		ev   window.Event
		exit bool
	}{
		{"close", window.CloseRequested(1), true},
		{"escape", window.KeyPressed(1, gpucontext.KeyEscape, 0), true},
		{"other key", window.KeyPressed(1, gpucontext.KeyA, 0), false},
	}
	for _, tt := range tests {
		f := newFixture(t)
		f.runner.HandleEvent(window.Event{Kind: window.EventInit})
		f.runner.HandleEvent(tt.ev)
		if f.runner.Exiting() != tt.exit {
			t.Errorf("%s: Exiting() = %v, want %v", tt.name, f.runner.Exiting(), tt.exit)
		}
		if tt.exit && f.surface.State() != surface.StateDestroyed {
			t.Errorf("%s: State() = %v, want Destroyed", tt.name, f.surface.State())
		}
		if tt.exit && f.runner.Err() != nil {
			t.Errorf("%s: Err() = %v, want nil", tt.name, f.runner.Err())
		}
	}
}

type scriptedPoller struct {
	batches [][]window.Event
	polls   int
}

func (p *scriptedPoller) PollEvents(handle func(window.Event)) bool {
	p.polls++
	if len(p.batches) == 0 {
		return false
	}
	batch := p.batches[0]
	p.batches = p.batches[1:]
	for _, ev := range batch {
		handle(ev)
	}
	return true
}

func TestRun(t *testing.T) {
	poller := &scriptedPoller{batches: [][]window.Event{
		{{Kind: window.EventInit}},
		{window.RedrawRequested(1), window.RedrawRequested(1)},
		{window.CloseRequested(1), window.RedrawRequested(1)},
	}}
	f := newFixture(t, WithPoller(poller))

	if err := f.runner.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if f.app.renders != 2 {
		t.Errorf("renders = %d, want 2", f.app.renders)
	}
	if poller.polls != 3 {
		t.Errorf("polls = %d, want 3", poller.polls)
	}
	if !f.win.closed {
		t.Errorf("window not closed")
	}
	if !f.inst.Released || !f.device().Released {
		t.Errorf("device context not released")
	}
	for _, b := range f.device().Buffers {
		if !b.Released {
			t.Errorf("buffer %q leaked", b.Desc.Label)
		}
	}
}

func TestRunStopsWhenWindowsGone(t *testing.T) {
	poller := &scriptedPoller{batches: [][]window.Event{{{Kind: window.EventInit}}}}
	f := newFixture(t, WithPoller(poller))
	if err := f.runner.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if poller.polls != 2 {
		t.Errorf("polls = %d, want 2", poller.polls)
	}
}

func TestRunWithoutPoller(t *testing.T) {
	f := newFixture(t)
	if err := f.runner.Run(); !errors.Is(err, ErrInitialization) {
		t.Errorf("Run() err = %v, want ErrInitialization", err)
	}
}

func TestNewRunnerRequiresDeviceContext(t *testing.T) {
	if _, err := NewRunner(&recordingApp{}); !errors.Is(err, ErrInitialization) {
		t.Errorf("NewRunner() err = %v, want ErrInitialization", err)
	}
}
