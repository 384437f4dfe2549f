package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock provides pausable simulation time. While paused, Tick reports a zero
// step so every time-driven component freezes exactly; on resume the first
// step measures from the resume instant, never spanning the pause.
type Clock struct {
	mu sync.Mutex

	isPaused atomic.Bool

	lastTick        time.Time
	pauseStart      time.Time
	totalPausedTime time.Duration
}

// NewClock creates a running clock.
func NewClock() *Clock {
	return &Clock{lastTick: time.Now()}
}

// Tick returns the simulation seconds elapsed since the previous Tick,
// excluding paused intervals. Returns 0 while paused.
func (c *Clock) Tick() float64 {
	if c.isPaused.Load() {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	dt := now.Sub(c.lastTick)
	c.lastTick = now
	if dt < 0 {
		return 0
	}
	return dt.Seconds()
}

// Pause stops simulation time advancement.
func (c *Clock) Pause() {
	if c.isPaused.CompareAndSwap(false, true) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.pauseStart = time.Now()
	}
}

// Resume continues simulation time. The tick origin moves to the resume
// instant so the pause interval never appears as a giant step.
func (c *Clock) Resume() {
	if c.isPaused.CompareAndSwap(true, false) {
		c.mu.Lock()
		defer c.mu.Unlock()

		now := time.Now()
		if !c.pauseStart.IsZero() {
			c.totalPausedTime += now.Sub(c.pauseStart)
			c.pauseStart = time.Time{}
		}
		c.lastTick = now
	}
}

// IsPaused returns current pause state.
func (c *Clock) IsPaused() bool {
	return c.isPaused.Load()
}

// TotalPausedTime returns cumulative pause duration, including the current
// pause when active.
func (c *Clock) TotalPausedTime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.totalPausedTime
	if c.isPaused.Load() && !c.pauseStart.IsZero() {
		total += time.Now().Sub(c.pauseStart)
	}
	return total
}
