// Package profiler periodically logs frame rate and Go runtime memory statistics.
package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/common"
)

// Stats is one reporting interval's measurements.
type Stats struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64 // MB allocated per second over the interval
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64 // longest GC pause since the previous report
	SysMB       float64
}

// LogValue reports the stats as a structured group.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("fps", s.FPS),
		slog.Float64("heapMB", s.HeapMB),
		slog.Float64("allocRateMB", s.AllocRateMB),
		slog.Uint64("gc", uint64(s.GCCount)),
		slog.Uint64("lastPauseUs", s.LastPauseUs),
		slog.Uint64("maxPauseUs", s.MaxPauseUs),
		slog.Float64("sysMB", s.SysMB),
	)
}

// Profiler counts frames and reports Stats once per interval.
type Profiler struct {
	now      func() time.Time
	interval time.Duration
	label    string

	frames         int
	lastTime       time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a profiler reporting every second.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: variadic list of ProfilerBuilderOption
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		now:      time.Now,
		interval: time.Second,
		label:    "profiler",
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick records one frame. When the interval has elapsed it samples the runtime,
// logs the stats at Info and starts a new interval.
//
// Returns:
//   - bool: true if stats were reported this tick
func (p *Profiler) Tick() bool {
	p.frames++
	current := p.now()
	elapsed := current.Sub(p.lastTime)
	if elapsed < p.interval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	secs := elapsed.Seconds()
	stats := Stats{
		FPS:         float64(p.frames) / secs,
		HeapMB:      toMB(p.memStats.Alloc),
		AllocRateMB: toMB(p.memStats.TotalAlloc-p.lastTotalAlloc) / secs,
		GCCount:     p.memStats.NumGC,
		SysMB:       toMB(p.memStats.Sys),
	}
	stats.LastPauseUs, stats.MaxPauseUs = pauses(&p.memStats, p.lastGCCount)

	common.Logger().Info("frame stats", "source", p.label, "stats", stats)

	p.last = stats
	p.frames = 0
	p.lastTime = current
	p.lastGCCount = stats.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recently reported stats.
func (p *Profiler) Last() Stats {
	return p.last
}

// pauses returns the latest GC pause and the longest pause since GC number since.
// PauseNs is a circular buffer of the last 256 pauses.
func pauses(m *runtime.MemStats, since uint32) (last, longest uint64) {
	n := m.NumGC
	if n == 0 {
		return 0, 0
	}
	last = m.PauseNs[(n-1)%256] / 1000
	start := since
	if n-start > 256 {
		start = n - 256
	}
	for i := start; i < n; i++ {
		longest = max(longest, m.PauseNs[i%256]/1000)
	}
	return last, longest
}

func toMB(b uint64) float64 {
	return float64(b) / 1024 / 1024
}
