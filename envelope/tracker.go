// Package envelope shapes raw spectral features into the attack/decay pulse
// signal and the smoothed loudness signal that drive beat-reactive visuals.
package envelope

import (
	"math"

	"github.com/lixenwraith/kaleido/parameter"
	"github.com/lixenwraith/kaleido/spectral"
	"github.com/lixenwraith/kaleido/vmath"
)

// PulseState is the per-tick output. Level is the beat-driven pulse in
// [0, 1]; Amplitude is the continuous loudness EMA for effects that track
// volume rather than discrete beats.
type PulseState struct {
	Level     float64
	Amplitude float64
}

// Config holds the envelope timing. AttackSec is the time for Level to
// reach 95% of peak after a beat; DecaySec the time to fall to 5%.
type Config struct {
	AttackSec    float64
	DecaySec     float64
	AmplitudeSec float64
}

// DefaultConfig returns the stock envelope timing.
func DefaultConfig() Config {
	return Config{
		AttackSec:    parameter.PulseAttackSec,
		DecaySec:     parameter.PulseDecaySec,
		AmplitudeSec: parameter.AmplitudeSmoothingSec,
	}
}

// Tracker integrates beats into a decaying pulse level. Deterministic for
// a given sequence of features and dt values.
type Tracker struct {
	cfg Config

	level  float64
	amp    float64
	rising bool
}

// New creates a tracker; non-positive times fall back to defaults.
func New(cfg Config) *Tracker {
	def := DefaultConfig()
	if cfg.AttackSec <= 0 {
		cfg.AttackSec = def.AttackSec
	}
	if cfg.DecaySec <= 0 {
		cfg.DecaySec = def.DecaySec
	}
	if cfg.AmplitudeSec <= 0 {
		cfg.AmplitudeSec = def.AmplitudeSec
	}
	return &Tracker{cfg: cfg}
}

// Config returns the active timing.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Update advances the envelope by dt seconds. dt=0 holds all state exactly,
// which is the pause contract: repeated paused ticks change nothing.
func (t *Tracker) Update(f spectral.Features, dt float64) PulseState {
	if dt < 0 {
		dt = 0
	}

	if dt > 0 {
		if f.Beat {
			t.rising = true
		}
		if t.rising {
			// Three time constants reach ~95% of peak within AttackSec
			t.level += (1 - t.level) * (1 - math.Exp(-3*dt/t.cfg.AttackSec))
			if t.level >= 0.99 {
				t.rising = false
			}
		} else {
			t.level *= math.Exp(-3 * dt / t.cfg.DecaySec)
		}

		t.amp += (vmath.Clamp01(vmath.Sanitize(f.Overall)) - t.amp) *
			(1 - math.Exp(-dt/t.cfg.AmplitudeSec))
	}

	t.level = vmath.Clamp01(vmath.Sanitize(t.level))
	t.amp = vmath.Clamp01(vmath.Sanitize(t.amp))

	return PulseState{Level: t.level, Amplitude: t.amp}
}

// Reset clears all envelope state.
func (t *Tracker) Reset() {
	t.level = 0
	t.amp = 0
	t.rising = false
}
