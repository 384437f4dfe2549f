package particle

import (
	"math"
	"testing"

	"github.com/lixenwraith/kaleido/envelope"
	"github.com/lixenwraith/kaleido/parameter"
	"github.com/lixenwraith/kaleido/plugin"
	"github.com/lixenwraith/kaleido/spectral"
	"github.com/lixenwraith/kaleido/vmath"
)

func newTestSystem(t *testing.T, cfg Config) *System {
	t.Helper()
	s := New(cfg, 1)
	reg := plugin.NewRegistry()
	if err := plugin.RegisterBuiltins(reg); err != nil {
		t.Fatal(err)
	}
	shape, err := reg.ResolveShape(plugin.ShapeCircle)
	if err != nil {
		t.Fatal(err)
	}
	color, err := reg.ResolveColor(plugin.ColorSpectrum)
	if err != nil {
		t.Fatal(err)
	}
	s.SetPlugins(shape, color, nil)
	return s
}

func TestPopulationNeverExceedsCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxParticles = 100
	cfg.SpawnRate = 100000 // far beyond the death rate
	cfg.MaxAgeSec = 10
	s := newTestSystem(t, cfg)

	const dt = 1.0 / 60
	for i := 0; i < 10000; i++ {
		s.Update(dt, spectral.Features{}, envelope.PulseState{Level: 1})
		if s.Len() > cfg.MaxParticles {
			t.Fatalf("Tick %d: population %d exceeds cap %d", i, s.Len(), cfg.MaxParticles)
		}
	}
	if s.Len() != cfg.MaxParticles {
		t.Errorf("Expected saturated population %d, got %d", cfg.MaxParticles, s.Len())
	}
}

func TestSpawnsStayInsideWedge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SegmentCount = 6
	cfg.SpawnRate = 10000
	s := newTestSystem(t, cfg)

	wedge := vmath.Tau / 6
	s.Update(1.0/60, spectral.Features{}, envelope.PulseState{})

	if s.Len() == 0 {
		t.Fatal("Expected spawns on first tick")
	}
	for i, p := range s.Update(0, spectral.Features{}, envelope.PulseState{}) {
		_, theta := vmath.Polar(p.X, p.Y)
		if p.X == 0 && p.Y == 0 {
			continue
		}
		if theta >= wedge+1e-9 {
			t.Errorf("Particle %d spawned at angle %.4f outside wedge %.4f", i, theta, wedge)
		}
	}
}

func TestPauseFreezesParticles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnRate = 600
	s := newTestSystem(t, cfg)

	f := spectral.Features{Treble: 0.5, Overall: 0.5}
	pulse := envelope.PulseState{Level: 0.5, Amplitude: 0.5}
	for i := 0; i < 30; i++ {
		s.Update(1.0/60, f, pulse)
	}

	before := make([]Particle, s.Len())
	copy(before, s.Update(0, f, pulse))

	for i := 0; i < 100; i++ {
		s.Update(0, f, pulse)
	}
	after := s.Update(0, f, pulse)

	if len(after) != len(before) {
		t.Fatalf("Paused ticks changed population: %d -> %d", len(before), len(after))
	}
	for i := range after {
		if after[i] != before[i] {
			t.Fatalf("Particle %d mutated during pause: %+v -> %+v", i, before[i], after[i])
		}
	}

	// Resume must continue from the frozen state, not teleport
	s.Update(1.0/60, f, pulse)
	resumed := s.Update(0, f, pulse)
	for i := range resumed {
		if i >= len(before) {
			break
		}
		dx := resumed[i].X - before[i].X
		dy := resumed[i].Y - before[i].Y
		if math.Hypot(dx, dy) > 0.05 {
			t.Fatalf("Particle %d jumped %.4f on resume", i, math.Hypot(dx, dy))
		}
	}
}

func TestDeathByAge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnRate = 60
	cfg.PulseSpawnBonus = 0
	cfg.MaxAgeSec = 0.5
	s := newTestSystem(t, cfg)

	const dt = 1.0 / 60
	for i := 0; i < 300; i++ {
		s.Update(dt, spectral.Features{}, envelope.PulseState{})
	}

	// Steady state near spawnRate * maxAge = 30
	if s.Len() < 20 || s.Len() > 45 {
		t.Errorf("Expected population to plateau near 30, got %d", s.Len())
	}
	for _, p := range s.Update(0, spectral.Features{}, envelope.PulseState{}) {
		if p.Age >= p.MaxAge {
			t.Errorf("Particle past max age survived: age=%.3f max=%.3f", p.Age, p.MaxAge)
		}
	}
}

func TestDeathAtOuterBound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnRate = 600
	cfg.OuterRadius = 0.5
	cfg.MaxAgeSec = 100
	s := newTestSystem(t, cfg)

	for i := 0; i < 600; i++ {
		s.Update(1.0/60, spectral.Features{}, envelope.PulseState{Amplitude: 1})
	}
	for _, p := range s.Update(0, spectral.Features{}, envelope.PulseState{}) {
		if math.Hypot(p.X, p.Y) > cfg.OuterRadius {
			t.Errorf("Particle outside outer bound survived: r=%.4f", math.Hypot(p.X, p.Y))
		}
	}
}

func TestRemovalPreservesSurvivorOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnRate = 0
	cfg.PulseSpawnBonus = 0
	s := newTestSystem(t, cfg)

	// Hand-build a population with alternating lifetimes
	s.parts = append(s.parts,
		Particle{Seed: 0.1, MaxAge: 10},
		Particle{Seed: 0.2, MaxAge: 0.01},
		Particle{Seed: 0.3, MaxAge: 10},
		Particle{Seed: 0.4, MaxAge: 0.01},
		Particle{Seed: 0.5, MaxAge: 10},
	)

	out := s.Update(1.0/60, spectral.Features{}, envelope.PulseState{})
	if len(out) != 3 {
		t.Fatalf("Expected 3 survivors, got %d", len(out))
	}
	expected := []float64{0.1, 0.3, 0.5}
	for i, seed := range expected {
		if out[i].Seed != seed {
			t.Errorf("Survivor %d: expected seed %.1f, got %.1f (order not preserved)", i, seed, out[i].Seed)
		}
	}
}

func TestTrailRecordsRecentPositions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnRate = 60
	cfg.PulseSpawnBonus = 0
	s := newTestSystem(t, cfg)

	const dt = 1.0 / 60
	f := spectral.Features{}
	pulse := envelope.PulseState{}

	s.Update(dt, f, pulse)
	if s.Len() == 0 {
		t.Fatal("Expected a spawn on the first tick")
	}
	first := s.Update(0, f, pulse)[0]
	if first.TrailLen != 0 {
		t.Errorf("Expected empty trail at spawn, got %d entries", first.TrailLen)
	}
	spawnPos := TrailPos{X: first.X, Y: first.Y, Z: first.Z}

	s.Update(dt, f, pulse)
	moved := s.Update(0, f, pulse)[0]
	if moved.TrailLen != 1 {
		t.Fatalf("Expected 1 trail entry after one move, got %d", moved.TrailLen)
	}
	if moved.TrailAt(0) != spawnPos {
		t.Errorf("Trail entry %+v does not match pre-move position %+v", moved.TrailAt(0), spawnPos)
	}

	for i := 0; i < parameter.TrailLength+5; i++ {
		s.Update(dt, f, pulse)
	}
	aged := s.Update(0, f, pulse)[0]
	if aged.TrailLen != parameter.TrailLength {
		t.Fatalf("Expected trail capped at %d, got %d", parameter.TrailLength, aged.TrailLen)
	}

	// The ring keeps the most recent positions: the newest entry sits
	// closer to the head than the oldest.
	head := TrailPos{X: aged.X, Y: aged.Y, Z: aged.Z}
	newest := aged.TrailAt(aged.TrailLen - 1)
	oldest := aged.TrailAt(0)
	dNew := math.Hypot(newest.X-head.X, newest.Y-head.Y)
	dOld := math.Hypot(oldest.X-head.X, oldest.Y-head.Y)
	if dNew > dOld {
		t.Errorf("Newest trail entry farther from head than oldest: %.4f > %.4f", dNew, dOld)
	}
}

func TestDeterministicWithFixedSeed(t *testing.T) {
	run := func() []Particle {
		cfg := DefaultConfig()
		s := newTestSystem(t, cfg)
		var out []Particle
		for i := 0; i < 60; i++ {
			out = s.Update(1.0/60, spectral.Features{Treble: 0.3, Overall: 0.4}, envelope.PulseState{Level: 0.2, Amplitude: 0.4})
		}
		cp := make([]Particle, len(out))
		copy(cp, out)
		return cp
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("Population mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Particle %d differs between identical runs", i)
		}
	}
}
