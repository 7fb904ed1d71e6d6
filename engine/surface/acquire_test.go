package surface

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/config"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu/gputest"
	"github.com/gogpu/gputypes"
)

func TestAcquireBeforeActive(t *testing.T) {
	f := newFixture(t)
	if _, err := f.surface.Acquire(); !errors.Is(err, ErrNotActive) {
		t.Errorf("Acquire() on Unbound err = %v, want ErrNotActive", err)
	}

	f.resume(t)
	if err := f.surface.Suspend(); err != nil {
		t.Fatalf("Suspend() error = %v", err)
	}
	if _, err := f.surface.Acquire(); !errors.Is(err, ErrNotActive) {
		t.Errorf("Acquire() on Suspended err = %v, want ErrNotActive", err)
	}
}

func TestAcquireReconfiguresOnOutdated(t *testing.T) {
	f := newFixture(t)
	f.resume(t)
	native := f.native(t)
	native.Fail(gpu.SurfaceErrorOutdatedOrLost)
	configs := len(native.Configs)

	frame, err := f.surface.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if got := len(native.Configs) - configs; got != 1 {
		t.Errorf("reconfigures = %d, want 1", got)
	}
	if native.Acquires != 2 {
		t.Errorf("acquire calls = %d, want 2", native.Acquires)
	}
	if frame.View() == nil || frame.Texture() == nil {
		t.Errorf("frame has no view or texture")
	}
	if err := frame.Present(); err != nil {
		t.Errorf("Present() error = %v", err)
	}
}

func TestAcquireRetryPolicy(t *testing.T) {
	tests := []struct {
		name         string
		fail         []gpu.SurfaceErrorKind
		wantErr      bool
		wantAcquires int
		wantConfigs  int
	}{
		{"timeout once", []gpu.SurfaceErrorKind{gpu.SurfaceErrorTimeout}, false, 2, 0},
		{"timeout twice", []gpu.SurfaceErrorKind{gpu.SurfaceErrorTimeout, gpu.SurfaceErrorTimeout}, true, 2, 0},
		{"outdated twice", []gpu.SurfaceErrorKind{gpu.SurfaceErrorOutdatedOrLost, gpu.SurfaceErrorOutdatedOrLost}, true, 2, 1},
		{"fatal", []gpu.SurfaceErrorKind{gpu.SurfaceErrorFatal}, true, 1, 0},
	}
	for _, tt := range tests {
		f := newFixture(t)
		f.resume(t)
		native := f.native(t)
		native.Fail(tt.fail...)
		configs := len(native.Configs)

		frame, err := f.surface.Acquire()
		if tt.wantErr {
			if !errors.Is(err, ErrAcquisitionFailed) {
				t.Errorf("%s: Acquire() err = %v, want ErrAcquisitionFailed", tt.name, err)
			}
		} else if err != nil {
			t.Errorf("%s: Acquire() error = %v", tt.name, err)
		} else {
			frame.Drop()
		}
		if native.Acquires != tt.wantAcquires {
			t.Errorf("%s: acquire calls = %d, want %d", tt.name, native.Acquires, tt.wantAcquires)
		}
		if got := len(native.Configs) - configs; got != tt.wantConfigs {
			t.Errorf("%s: reconfigures = %d, want %d", tt.name, got, tt.wantConfigs)
		}
	}
}

func TestFailedAcquireLeavesNoOutstandingFrame(t *testing.T) {
	f := newFixture(t)
	f.resume(t)
	f.native(t).Fail(gpu.SurfaceErrorFatal)
	if _, err := f.surface.Acquire(); err == nil {
		t.Fatal("Acquire() succeeded, want fatal error")
	}
	frame, err := f.surface.Acquire()
	if err != nil {
		t.Fatalf("Acquire() after failure error = %v", err)
	}
	frame.Drop()
}

func TestAcquireTwicePanics(t *testing.T) {
	f := newFixture(t)
	f.resume(t)
	if _, err := f.surface.Acquire(); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Errorf("second Acquire() did not panic")
		}
	}()
	_, _ = f.surface.Acquire()
}

func TestPresentOnce(t *testing.T) {
	f := newFixture(t)
	f.resume(t)
	native := f.native(t)

	frame, err := f.surface.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := frame.Present(); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if err := frame.Present(); err != nil {
		t.Errorf("second Present() error = %v", err)
	}
	frame.Drop()
	if native.Presents != 1 {
		t.Errorf("presents = %d, want 1", native.Presents)
	}

	next, err := f.surface.Acquire()
	if err != nil {
		t.Fatalf("Acquire() after Present error = %v", err)
	}
	next.Drop()
	next.Drop()
	if native.Presents != 1 {
		t.Errorf("Drop presented: presents = %d, want 1", native.Presents)
	}
}

func TestAcquireTicksFrameCounter(t *testing.T) {
	f := newFixture(t)
	f.resume(t)
	for range 3 {
		frame, err := f.surface.Acquire()
		if err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		frame.Drop()
	}
	if got := f.surface.FrameCounter().FrameCount(); got != 3 {
		t.Errorf("FrameCount() = %d, want 3", got)
	}
}

func TestFrameCounter(t *testing.T) {
	now := time.Unix(100, 0)
	clock := func() time.Time { return now }
	c := NewFrameCounter(clock)

	if c.FPS() != 0 {
		t.Errorf("FPS() before time passes = %v, want 0", c.FPS())
	}
	for range 120 {
		c.Update()
	}
	now = now.Add(2 * time.Second)

	if c.FrameCount() != 120 {
		t.Errorf("FrameCount() = %d, want 120", c.FrameCount())
	}
	if c.ElapsedSecs() != 2 {
		t.Errorf("ElapsedSecs() = %v, want 2", c.ElapsedSecs())
	}
	if c.FPS() != 60 {
		t.Errorf("FPS() = %v, want 60", c.FPS())
	}

	c.Reset()
	if c.FrameCount() != 0 || c.ElapsedSecs() != 0 {
		t.Errorf("after Reset: FrameCount() = %d, ElapsedSecs() = %v", c.FrameCount(), c.ElapsedSecs())
	}
}

func linearOnlySurface() *gputest.Surface {
	s := gputest.NewSurface()
	s.Caps.Formats = []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm}
	return s
}

func TestFrameViewFormat(t *testing.T) {
	tests := []struct {
		name       string
		preferSRGB bool
		want       gputypes.TextureFormat
	}{
		{"srgb view of linear surface", true, gputypes.TextureFormatBGRA8UnormSrgb},
		{"linear", false, gputypes.TextureFormatBGRA8Unorm},
	}
	for _, tt := range tests {
		settings, _ := config.DefaultWindowConfig().Settings()
		settings.SampleCount = 4
		f := newFixture(t, WithSettings(settings))
		f.inst.NewSurface = linearOnlySurface
		if err := f.surface.Resume(f.inst, f.inst.Adapter, f.device, tt.preferSRGB); err != nil {
			t.Fatalf("%s: Resume() error = %v", tt.name, err)
		}
		cfg, _ := f.surface.Config()
		if cfg.Format != gputypes.TextureFormatBGRA8Unorm {
			t.Errorf("%s: Format = %v, want BGRA8Unorm", tt.name, cfg.Format)
		}
		if got := f.surface.ViewFormat(); got != tt.want {
			t.Errorf("%s: ViewFormat() = %v, want %v", tt.name, got, tt.want)
		}
		if got := f.device.Textures[0].Desc.Format; got != tt.want {
			t.Errorf("%s: multisample format = %v, want %v", tt.name, got, tt.want)
		}

		frame, err := f.surface.Acquire()
		if err != nil {
			t.Fatalf("%s: Acquire() error = %v", tt.name, err)
		}
		if got := frame.View().Format(); got != tt.want {
			t.Errorf("%s: frame view format = %v, want %v", tt.name, got, tt.want)
		}
		frame.Drop()
	}
}

func TestViewFormatUnconfigured(t *testing.T) {
	f := newFixture(t)
	if got := f.surface.ViewFormat(); got != gputypes.TextureFormatUndefined {
		t.Errorf("ViewFormat() before Resume = %v, want Undefined", got)
	}
}

func TestLifecycleWaitsForOutstandingFrame(t *testing.T) {
	f := newFixture(t, WithPlatform(PlatformMobile))
	f.resume(t)
	native := f.native(t)
	configs := len(native.Configs)

	frame, err := f.surface.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := f.surface.Suspend(); !errors.Is(err, ErrFrameOutstanding) {
		t.Errorf("Suspend() err = %v, want ErrFrameOutstanding", err)
	}
	if err := f.surface.Resize(f.device, 640, 480); !errors.Is(err, ErrFrameOutstanding) {
		t.Errorf("Resize() err = %v, want ErrFrameOutstanding", err)
	}
	if err := f.surface.Resume(f.inst, f.inst.Adapter, f.device, false); !errors.Is(err, ErrFrameOutstanding) {
		t.Errorf("Resume() err = %v, want ErrFrameOutstanding", err)
	}
	if f.surface.State() != StateActive || native.Released {
		t.Errorf("surface changed under an outstanding frame: state %v, released %v", f.surface.State(), native.Released)
	}
	if got := len(native.Configs) - configs; got != 0 {
		t.Errorf("reconfigures = %d, want 0", got)
	}

	if err := frame.Present(); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if native.Presents != 1 {
		t.Errorf("presents = %d, want 1", native.Presents)
	}
	if err := f.surface.Suspend(); err != nil {
		t.Errorf("Suspend() after Present error = %v", err)
	}
}

func TestPresentWithoutHandle(t *testing.T) {
	f := newFixture(t)
	f.resume(t)
	frame, err := f.surface.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	s := f.surface.(*surface)
	s.handle = nil

	if err := frame.Present(); !errors.Is(err, ErrNotActive) {
		t.Errorf("Present() err = %v, want ErrNotActive", err)
	}
	if s.frame != nil {
		t.Errorf("frame still outstanding after failed Present")
	}
	if f.native(t).Presents != 0 {
		t.Errorf("presents = %d, want 0", f.native(t).Presents)
	}
}

type levelRecorder struct {
	levels []slog.Level
}

func (h *levelRecorder) Enabled(context.Context, slog.Level) bool { return true }
func (h *levelRecorder) WithAttrs([]slog.Attr) slog.Handler       { return h }
func (h *levelRecorder) WithGroup(string) slog.Handler            { return h }

func (h *levelRecorder) Handle(_ context.Context, r slog.Record) error {
	h.levels = append(h.levels, r.Level)
	return nil
}

func TestAcquireFailureLeavesErrorLogToCaller(t *testing.T) {
	rec := &levelRecorder{}
	common.SetLogger(slog.New(rec))
	t.Cleanup(func() { common.SetLogger(nil) })

	f := newFixture(t)
	f.resume(t)
	f.native(t).Fail(gpu.SurfaceErrorFatal)
	if _, err := f.surface.Acquire(); err == nil {
		t.Fatal("Acquire() succeeded, want fatal error")
	}
	for _, l := range rec.levels {
		if l >= slog.LevelError {
			t.Errorf("Acquire() logged at %v, want nothing above Warn", l)
		}
	}
}
