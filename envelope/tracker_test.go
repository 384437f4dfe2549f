package envelope

import (
	"testing"

	"github.com/lixenwraith/kaleido/spectral"
)

func TestPulseAttackReachesPeak(t *testing.T) {
	cfg := Config{AttackSec: 0.05, DecaySec: 0.4}
	tr := New(cfg)

	const dt = 1.0 / 240 // fine stepping relative to attack time

	st := tr.Update(spectral.Features{Beat: true}, dt)
	elapsed := dt
	for elapsed < cfg.AttackSec {
		st = tr.Update(spectral.Features{}, dt)
		elapsed += dt
	}

	if st.Level < 0.95 {
		t.Errorf("Expected level >= 0.95 within attack time, got %.4f", st.Level)
	}
}

func TestPulseDecayReachesFloor(t *testing.T) {
	cfg := Config{AttackSec: 0.05, DecaySec: 0.4}
	tr := New(cfg)
	const dt = 1.0 / 240

	// Drive the envelope to peak
	tr.Update(spectral.Features{Beat: true}, dt)
	var peak float64
	for i := 0; i < 200; i++ {
		st := tr.Update(spectral.Features{}, dt)
		if st.Level > peak {
			peak = st.Level
		} else {
			break // decay has begun
		}
	}
	if peak < 0.95 {
		t.Fatalf("Envelope never peaked, got %.4f", peak)
	}

	elapsed := 0.0
	var st PulseState
	for elapsed < cfg.DecaySec {
		st = tr.Update(spectral.Features{}, dt)
		elapsed += dt
	}
	if st.Level > 0.05*peak+1e-9 {
		t.Errorf("Expected level <= 0.05 of peak %.4f within decay time, got %.4f", peak, st.Level)
	}
}

func TestPulseDecaysWithoutBeats(t *testing.T) {
	tr := New(DefaultConfig())
	const dt = 1.0 / 60

	tr.Update(spectral.Features{Beat: true}, dt)
	prev := 1.0
	decayedBelow := false
	for i := 0; i < 300; i++ {
		st := tr.Update(spectral.Features{}, dt)
		if st.Level > prev+1e-9 && decayedBelow {
			t.Fatalf("Tick %d: level rose without a beat: %.4f -> %.4f", i, prev, st.Level)
		}
		if st.Level < prev {
			decayedBelow = true
		}
		prev = st.Level
	}
	if prev > 0.01 {
		t.Errorf("Expected near-zero level after long decay, got %.4f", prev)
	}
}

func TestZeroDtFreezesState(t *testing.T) {
	tr := New(DefaultConfig())
	const dt = 1.0 / 60

	tr.Update(spectral.Features{Beat: true, Overall: 0.8}, dt)
	for i := 0; i < 5; i++ {
		tr.Update(spectral.Features{Overall: 0.8}, dt)
	}
	frozen := tr.Update(spectral.Features{Overall: 0.8}, dt)

	for i := 0; i < 100; i++ {
		st := tr.Update(spectral.Features{Overall: 0.3}, 0)
		if st != frozen {
			t.Fatalf("Paused tick %d mutated state: %+v != %+v", i, st, frozen)
		}
	}

	// Resume continues from the frozen value with no discontinuity
	resumed := tr.Update(spectral.Features{Overall: 0.8}, dt)
	if resumed.Level > frozen.Level {
		t.Errorf("Level rose on resume without a beat: %.4f -> %.4f", frozen.Level, resumed.Level)
	}
}

func TestDeterministicSequence(t *testing.T) {
	run := func() []PulseState {
		tr := New(DefaultConfig())
		out := make([]PulseState, 0, 120)
		for i := 0; i < 120; i++ {
			f := spectral.Features{Overall: 0.5}
			if i%40 == 0 {
				f.Beat = true
			}
			out = append(out, tr.Update(f, 1.0/60))
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Tick %d: non-deterministic output %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestAmplitudeTracksLoudness(t *testing.T) {
	tr := New(DefaultConfig())
	const dt = 1.0 / 60

	var st PulseState
	for i := 0; i < 120; i++ {
		st = tr.Update(spectral.Features{Overall: 0.8}, dt)
	}
	if st.Amplitude < 0.7 {
		t.Errorf("Expected amplitude to converge toward 0.8, got %.4f", st.Amplitude)
	}

	for i := 0; i < 240; i++ {
		st = tr.Update(spectral.Features{Overall: 0}, dt)
	}
	if st.Amplitude > 0.05 {
		t.Errorf("Expected amplitude to fall toward 0, got %.4f", st.Amplitude)
	}
}
