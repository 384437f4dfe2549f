package engine

import (
	"testing"
	"time"
)

func TestClockTickAdvances(t *testing.T) {
	c := NewClock()
	time.Sleep(10 * time.Millisecond)

	dt := c.Tick()
	if dt <= 0 {
		t.Errorf("Expected positive dt, got %f", dt)
	}
	if dt > 1 {
		t.Errorf("Unreasonably large dt: %f", dt)
	}
}

func TestClockPausedTickIsZero(t *testing.T) {
	c := NewClock()
	c.Pause()
	time.Sleep(5 * time.Millisecond)

	if dt := c.Tick(); dt != 0 {
		t.Errorf("Expected zero dt while paused, got %f", dt)
	}
	if !c.IsPaused() {
		t.Error("Expected IsPaused true")
	}
}

func TestClockResumeDoesNotSpanPause(t *testing.T) {
	c := NewClock()
	c.Tick()

	c.Pause()
	time.Sleep(30 * time.Millisecond)
	c.Resume()

	// First tick after resume must measure from the resume instant, not
	// across the pause interval.
	if dt := c.Tick(); dt > 0.02 {
		t.Errorf("Tick after resume spans pause: %f", dt)
	}

	if c.TotalPausedTime() < 20*time.Millisecond {
		t.Errorf("Expected pause accounting >= 20ms, got %v", c.TotalPausedTime())
	}
}

func TestClockDoublePauseResume(t *testing.T) {
	c := NewClock()
	c.Pause()
	c.Pause()
	c.Resume()
	if c.IsPaused() {
		t.Error("Expected running after resume")
	}
	c.Resume()
	if c.IsPaused() {
		t.Error("Redundant resume must not re-pause")
	}
}
