package surface

import "time"

// FrameCounter counts acquired frames since it was created or last reset.
type FrameCounter struct {
	now    func() time.Time
	start  time.Time
	frames uint32
}

// NewFrameCounter starts a counter on the given clock, or time.Now when nil.
func NewFrameCounter(now func() time.Time) *FrameCounter {
	if now == nil {
		now = time.Now
	}
	return &FrameCounter{now: now, start: now()}
}

// Update records one frame.
func (c *FrameCounter) Update() {
	c.frames++
}

// FrameCount returns the frames recorded since the last reset.
func (c *FrameCounter) FrameCount() uint32 {
	return c.frames
}

// Elapsed returns the time since the last reset.
func (c *FrameCounter) Elapsed() time.Duration {
	return c.now().Sub(c.start)
}

// ElapsedSecs returns Elapsed in seconds.
func (c *FrameCounter) ElapsedSecs() float64 {
	return c.Elapsed().Seconds()
}

// FPS returns the average frame rate since the last reset, or 0 before any time has passed.
func (c *FrameCounter) FPS() float64 {
	secs := c.ElapsedSecs()
	if secs <= 0 {
		return 0
	}
	return float64(c.frames) / secs
}

// Reset restarts the count and the clock.
func (c *FrameCounter) Reset() {
	c.frames = 0
	c.start = c.now()
}
