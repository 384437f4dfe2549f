// Package particle owns the bounded particle population simulated inside a
// single kaleidoscope wedge. The system is mutated exclusively by the
// render goroutine; no locking is needed on the hot path.
package particle

import (
	"math"
	"math/rand"

	"github.com/lixenwraith/kaleido/envelope"
	"github.com/lixenwraith/kaleido/parameter"
	"github.com/lixenwraith/kaleido/plugin"
	"github.com/lixenwraith/kaleido/spectral"
	"github.com/lixenwraith/kaleido/vmath"
)

// TrailPos is one recorded trail position.
type TrailPos struct {
	X, Y, Z float64
}

// Particle is one simulated point. Position is wedge-local with the scene
// center at the origin; Z is depth used by the optional projector stage.
// Trail holds the most recent positions as a ring buffer, rendered as a
// fading tail behind the head.
type Particle struct {
	X, Y, Z    float64
	VX, VY, VZ float64
	Age        float64
	MaxAge     float64
	Seed       float64 // color seed, stable for the particle's life
	Shape      string
	Size       float64

	Trail     [parameter.TrailLength]TrailPos
	TrailLen  int
	trailHead int // next write slot
}

// RecordTrail appends a position to the trail ring, evicting the oldest
// entry once full.
func (p *Particle) RecordTrail(x, y, z float64) {
	p.Trail[p.trailHead] = TrailPos{X: x, Y: y, Z: z}
	p.trailHead = (p.trailHead + 1) % len(p.Trail)
	if p.TrailLen < len(p.Trail) {
		p.TrailLen++
	}
}

// TrailAt returns the i-th oldest recorded position, 0 <= i < TrailLen.
func (p *Particle) TrailAt(i int) TrailPos {
	idx := (p.trailHead - p.TrailLen + i + len(p.Trail)) % len(p.Trail)
	return p.Trail[idx]
}

// Config holds the simulation tuning.
type Config struct {
	MaxParticles    int
	SpawnRate       float64 // baseline spawns per second
	PulseSpawnBonus float64 // extra spawns per second at full pulse
	MaxAgeSec       float64
	OuterRadius     float64
	SegmentCount    int // wedge covers Tau/SegmentCount of angular space

	TrebleJitterGain  float64 // rad/sec of angular jitter per unit treble
	AmplitudePushGain float64 // outward accel per unit smoothed amplitude
	DepthRange        float64
}

// DefaultConfig returns the stock simulation tuning.
func DefaultConfig() Config {
	return Config{
		MaxParticles:      parameter.MaxParticles,
		SpawnRate:         parameter.SpawnRate,
		PulseSpawnBonus:   parameter.PulseSpawnBonus,
		MaxAgeSec:         parameter.MaxAgeSec,
		OuterRadius:       parameter.OuterRadius,
		SegmentCount:      parameter.SegmentCount,
		TrebleJitterGain:  parameter.TrebleJitterGain,
		AmplitudePushGain: parameter.AmplitudePushGain,
		DepthRange:        parameter.DepthRange,
	}
}

// System spawns, ages, and moves particles under audio-reactive forces.
type System struct {
	cfg   Config
	wedge float64 // angular extent of the simulated slice
	rng   *rand.Rand

	parts    []Particle
	spawnAcc float64 // fractional spawn carry-over between ticks

	shape   plugin.Shape
	color   plugin.Color
	effects []plugin.Effect
}

// New creates a system with a deterministic RNG seed for reproducible runs.
func New(cfg Config, seed int64) *System {
	if cfg.MaxParticles <= 0 {
		cfg.MaxParticles = parameter.MaxParticles
	}
	if cfg.MaxAgeSec <= 0 {
		cfg.MaxAgeSec = parameter.MaxAgeSec
	}
	if cfg.OuterRadius <= 0 {
		cfg.OuterRadius = parameter.OuterRadius
	}
	if cfg.SegmentCount < 1 {
		cfg.SegmentCount = 1
	}
	return &System{
		cfg:   cfg,
		wedge: vmath.Tau / float64(cfg.SegmentCount),
		rng:   rand.New(rand.NewSource(seed)),
		parts: make([]Particle, 0, cfg.MaxParticles),
	}
}

// SetPlugins installs the resolved plugin instances used at spawn and
// update time. Must be called before the simulation loop consumes beats.
func (s *System) SetPlugins(shape plugin.Shape, color plugin.Color, effects []plugin.Effect) {
	s.shape = shape
	s.color = color
	s.effects = effects
}

// SetWedge re-derives the simulated angular slice. Existing particles are
// kept; those outside the new wedge die off naturally at the outer bound.
func (s *System) SetWedge(segmentCount int) {
	if segmentCount < 1 {
		segmentCount = 1
	}
	s.cfg.SegmentCount = segmentCount
	s.wedge = vmath.Tau / float64(segmentCount)
}

// SetRates adjusts spawn behavior without resetting the population.
func (s *System) SetRates(spawnRate, pulseBonus float64, maxParticles int) {
	if spawnRate >= 0 {
		s.cfg.SpawnRate = spawnRate
	}
	if pulseBonus >= 0 {
		s.cfg.PulseSpawnBonus = pulseBonus
	}
	if maxParticles > 0 {
		s.cfg.MaxParticles = maxParticles
	}
}

// Len returns the live population count.
func (s *System) Len() int {
	return len(s.parts)
}

// Reset clears the population and spawn accumulator.
func (s *System) Reset() {
	s.parts = s.parts[:0]
	s.spawnAcc = 0
}

// Update advances the simulation by dt seconds and returns the live wedge
// as a view over internal storage, valid until the next Update. dt=0 is
// the pause contract: nothing moves, ages, spawns, or dies.
func (s *System) Update(dt float64, f spectral.Features, pulse envelope.PulseState) []Particle {
	if dt <= 0 {
		return s.parts
	}

	s.advance(dt, f, pulse)
	s.compact()
	s.spawn(dt, pulse)

	return s.parts
}

func (s *System) advance(dt float64, f spectral.Features, pulse envelope.PulseState) {
	jitter := s.cfg.TrebleJitterGain * vmath.Clamp01(f.Treble)
	push := s.cfg.AmplitudePushGain * vmath.Clamp01(pulse.Amplitude)

	for i := range s.parts {
		p := &s.parts[i]

		// Treble energy adds angular jitter to the velocity direction
		if jitter > 0 {
			p.VX, p.VY = vmath.Rotate(p.VX, p.VY, (s.rng.Float64()*2-1)*jitter*dt)
		}

		// Overall amplitude pushes particles outward along the radial
		if push > 0 {
			r := math.Hypot(p.X, p.Y)
			if r > 1e-9 {
				p.VX += p.X / r * push * dt
				p.VY += p.Y / r * push * dt
			}
		}

		for _, e := range s.effects {
			p.VX, p.VY, p.VZ = e.Perturb(p.X, p.Y, p.Z, p.VX, p.VY, p.VZ, f, pulse.Level, dt)
		}

		p.RecordTrail(p.X, p.Y, p.Z)

		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.Z += p.VZ * dt

		// Soft bounce at the depth bounds
		if p.Z > s.cfg.DepthRange || p.Z < -s.cfg.DepthRange {
			p.VZ = -p.VZ
			p.Z = vmath.Clamp(p.Z, -s.cfg.DepthRange, s.cfg.DepthRange)
		}

		p.Age += dt
	}
}

// compact removes dead particles in place, preserving survivor order so
// effects relying on stable identity within a frame keep trail continuity.
func (s *System) compact() {
	outer := s.cfg.OuterRadius
	idx := 0
	for i := range s.parts {
		p := &s.parts[i]
		if p.Age >= p.MaxAge || math.Hypot(p.X, p.Y) > outer {
			continue
		}
		if idx != i {
			s.parts[idx] = *p
		}
		idx++
	}
	s.parts = s.parts[:idx]
}

// spawn adds baseSpawnRate*dt particles plus a pulse-proportional bonus,
// carrying the fractional remainder. At the population cap spawning simply
// pauses; no eviction, to avoid visual chopping.
func (s *System) spawn(dt float64, pulse envelope.PulseState) {
	s.spawnAcc += (s.cfg.SpawnRate + s.cfg.PulseSpawnBonus*pulse.Level) * dt
	n := int(s.spawnAcc)
	if n <= 0 {
		return
	}
	s.spawnAcc -= float64(n)

	free := s.cfg.MaxParticles - len(s.parts)
	if n > free {
		n = free
	}
	for i := 0; i < n; i++ {
		s.parts = append(s.parts, s.newParticle())
	}
}

func (s *System) newParticle() Particle {
	sp := plugin.Spawn{SizeScale: 1, Speed: 1}
	shapeName := plugin.ShapeCircle
	if s.shape != nil {
		sp = s.shape.SpawnParams(s.rng)
		shapeName = s.shape.Name()
	}

	seed := s.rng.Float64()
	if s.color != nil {
		seed = s.color.Seed(s.rng)
	}

	theta := s.rng.Float64() * s.wedge
	dist := s.rng.Float64() * parameter.SpawnRadiusFraction * s.cfg.OuterRadius
	x, y := vmath.FromPolar(dist, theta)

	speed := (parameter.BaseSpeed + (s.rng.Float64()*2-1)*parameter.SpeedJitter) * sp.Speed
	sin, cos := math.Sincos(theta)
	// Radial outward motion plus the shape's tangential spin bias
	vx := cos*speed - sin*sp.Spin
	vy := sin*speed + cos*sp.Spin

	return Particle{
		X: x, Y: y,
		Z:  (s.rng.Float64()*2 - 1) * s.cfg.DepthRange * 0.5,
		VX: vx, VY: vy,
		VZ:     (s.rng.Float64()*2 - 1) * parameter.DepthSpeed,
		MaxAge: s.cfg.MaxAgeSec,
		Seed:   seed,
		Shape:  shapeName,
		Size:   (parameter.SizeBase + s.rng.Float64()*parameter.SizeJitter) * sp.SizeScale,
	}
}
