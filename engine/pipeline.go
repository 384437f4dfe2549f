// Package engine wires the analysis, simulation, and mapping stages into a
// running pipeline: an audio goroutine publishing spectral features through
// a single-slot buffer, and a render loop pulling the newest features into
// frames at the target rate.
package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/lixenwraith/kaleido/audio"
	"github.com/lixenwraith/kaleido/config"
	"github.com/lixenwraith/kaleido/envelope"
	"github.com/lixenwraith/kaleido/parameter"
	"github.com/lixenwraith/kaleido/particle"
	"github.com/lixenwraith/kaleido/plugin"
	"github.com/lixenwraith/kaleido/project"
	"github.com/lixenwraith/kaleido/scene"
	"github.com/lixenwraith/kaleido/spectral"
	"github.com/lixenwraith/kaleido/symmetry"
	"github.com/lixenwraith/kaleido/vmath"
)

// Pipeline owns every stage between capture blocks and rendered frames.
// The audio goroutine writes only to the analyzer and the feature slot; all
// simulation state is touched only under mu by Step and ApplyConfig.
type Pipeline struct {
	mu sync.Mutex

	cfg config.Config
	reg *plugin.Registry

	analyzer  *spectral.Analyzer
	tracker   *envelope.Tracker
	system    *particle.System
	mapper    *symmetry.Mapper
	symCfg    symmetry.Config
	projector project.Projector
	post      project.Post
	color     plugin.Color

	slot  FeatureSlot
	clock *Clock

	source   audio.Source
	renderer scene.Renderer
	logger   *log.Logger

	rotation float64
	features spectral.Features
	pulse    envelope.PulseState

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New builds a pipeline from a validated configuration. The registry must
// already contain every plugin the configuration names. renderer may be nil
// for headless runs; frames are still produced through Step.
func New(cfg config.Config, reg *plugin.Registry, source audio.Source, renderer scene.Renderer, seed int64, logger *log.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ResolvePlugins(reg); err != nil {
		return nil, err
	}
	if source == nil {
		source = audio.NewSilent(cfg.SampleRate)
	}
	if logger == nil {
		logger = log.Default()
	}

	p := &Pipeline{
		reg:      reg,
		clock:    NewClock(),
		source:   source,
		renderer: renderer,
		logger:   logger,
		done:     make(chan struct{}),
		mapper:   symmetry.NewMapper(),
		system:   particle.New(particleConfig(cfg), seed),
	}
	if err := p.install(cfg, true); err != nil {
		return nil, err
	}
	return p, nil
}

// install swaps in a new configuration. Callers have already validated it.
// rebuildAnalysis forces fresh analyzer and tracker state regardless of
// whether their parameters changed.
func (p *Pipeline) install(cfg config.Config, rebuildAnalysis bool) error {
	shape, err := p.reg.ResolveShape(cfg.Shape)
	if err != nil {
		return err
	}
	color, err := p.reg.ResolveColor(cfg.ColorMode)
	if err != nil {
		return err
	}
	effects := make([]plugin.Effect, 0, len(cfg.Effects))
	for _, name := range cfg.Effects {
		eff, err := p.reg.ResolveEffect(name)
		if err != nil {
			return err
		}
		effects = append(effects, eff)
	}
	mode, err := symmetry.ParseMode(cfg.SymmetryMode)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	anaCfg := analyzerConfig(cfg)
	if rebuildAnalysis || p.analyzer == nil || p.analyzer.Config() != anaCfg {
		p.analyzer = spectral.New(anaCfg)
	}
	trkCfg := envelope.Config{
		AttackSec:    cfg.PulseAttack,
		DecaySec:     cfg.PulseDecay,
		AmplitudeSec: parameter.AmplitudeSmoothingSec,
	}
	if rebuildAnalysis || p.tracker == nil || p.tracker.Config() != trkCfg {
		p.tracker = envelope.New(trkCfg)
	}

	// The particle population survives reconfiguration; only rates, wedge,
	// and plugin bindings change.
	p.system.SetRates(cfg.SpawnRate, parameter.PulseSpawnBonus, cfg.MaxParticles)
	p.system.SetWedge(cfg.SegmentCount)
	p.system.SetPlugins(shape, color, effects)
	p.color = color

	p.symCfg = symmetry.Config{
		SegmentCount: cfg.SegmentCount,
		Mode:         mode,
		SpiralPitch:  cfg.SpiralPitch,
	}
	p.projector = project.Projector{
		Enabled:        cfg.Projection3D,
		FocalLength:    cfg.PerspectiveStrength,
		DepthInfluence: cfg.DepthInfluence,
	}
	p.post = project.Post{
		BlurEnabled:       cfg.BlurEnabled,
		BlurPasses:        parameter.BlurPasses,
		DistortionEnabled: cfg.DistortionEnabled,
		DistortionAmount:  cfg.DistortionAmount,
		Wavelength:        parameter.DistortionWavelength,
	}
	p.cfg = cfg
	return nil
}

func analyzerConfig(cfg config.Config) spectral.Config {
	c := spectral.DefaultConfig()
	c.Sensitivity = cfg.Sensitivity
	c.Smoothing = cfg.Smoothing
	c.BeatMargin = cfg.BeatMargin
	c.RefractorySec = cfg.BeatRefractory
	return c
}

func particleConfig(cfg config.Config) particle.Config {
	c := particle.DefaultConfig()
	c.MaxParticles = cfg.MaxParticles
	c.SpawnRate = cfg.SpawnRate
	c.MaxAgeSec = cfg.MaxAge
	c.SegmentCount = cfg.SegmentCount
	return c
}

// ApplyConfig validates and atomically applies a new configuration. On any
// error the previous configuration stays fully active. Analyzer and envelope
// state carry over when their parameters are unchanged.
func (p *Pipeline) ApplyConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.ResolvePlugins(p.reg); err != nil {
		return err
	}
	if err := p.install(cfg, false); err != nil {
		return fmt.Errorf("engine: apply config: %w", err)
	}
	return nil
}

// Config returns a copy of the active configuration.
func (p *Pipeline) Config() config.Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// ResetDefaults restores the documented defaults and clears all transient
// state: particles, envelope, rotation, and analysis history.
func (p *Pipeline) ResetDefaults() error {
	if err := p.install(config.Default(), true); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.system.Reset()
	p.tracker.Reset()
	p.rotation = 0
	p.features = spectral.Features{}
	p.pulse = envelope.PulseState{}
	return nil
}

// CycleSymmetryMode advances radial, mirror, spiral, wrapping around, and
// returns the new mode.
func (p *Pipeline) CycleSymmetryMode() symmetry.Mode {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := symmetry.Mode((int(p.symCfg.Mode) + 1) % 3)
	p.symCfg.Mode = next
	p.cfg.SymmetryMode = next.String()
	return next
}

// Pause freezes simulation time. Frames keep rendering with zero dt.
func (p *Pipeline) Pause() { p.clock.Pause() }

// Resume continues simulation time without a catch-up step.
func (p *Pipeline) Resume() { p.clock.Resume() }

// TogglePause flips pause state and reports whether the pipeline is now
// paused.
func (p *Pipeline) TogglePause() bool {
	if p.clock.IsPaused() {
		p.clock.Resume()
	} else {
		p.clock.Pause()
	}
	return p.clock.IsPaused()
}

// IsPaused reports pause state.
func (p *Pipeline) IsPaused() bool { return p.clock.IsPaused() }

// Population returns the live particle count.
func (p *Pipeline) Population() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.system.Len()
}

// FeedBlock runs one capture block through analysis and publishes the
// resulting features. Called from the audio goroutine; also the entry point
// for deterministic offline runs.
func (p *Pipeline) FeedBlock(block []float64, sampleRate float64) spectral.Features {
	p.mu.Lock()
	a := p.analyzer
	p.mu.Unlock()

	f := a.Analyze(block, sampleRate)
	p.slot.Publish(f)
	return f
}

// Step advances the simulation by dt seconds using the newest published
// features and assembles the frame. dt of zero freezes all state and
// re-emits the current scene, which is the pause behavior.
func (p *Pipeline) Step(dt float64) *scene.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Published features are consumed only while running; a frozen frame
	// must not change appearance.
	if dt > 0 {
		if f, ok := p.slot.Take(); ok {
			p.features = f
		}
	}
	f := p.features
	// The beat is an edge signal: downstream consumers see it on exactly
	// one frame, including across a pause.
	p.features.Beat = false

	p.pulse = p.tracker.Update(f, dt)

	if dt > 0 {
		p.rotation = vmath.WrapAngle(p.rotation + dt*(p.cfg.RotationSpeed+f.Bass*parameter.BassRotationGain))
	}

	wedge := p.system.Update(dt, f, p.pulse)

	symCfg := p.symCfg
	symCfg.RotationAngle = p.rotation
	points := p.mapper.Map(wedge, symCfg)

	for i := range points {
		pt := &points[i]
		c := p.color.At(pt.Seed, f.Overall, p.pulse.Level)
		c.A = uint8(float64(c.A) * pt.Fade)
		pt.Color = c
	}

	p.projector.Apply(points)
	p.post.Apply(points, p.rotation)

	return &scene.Frame{
		Points:   points,
		Beat:     f.Beat,
		Pulse:    p.pulse.Level,
		Rotation: p.rotation,
	}
}

// Run starts the audio and render goroutines and blocks until ctx is
// canceled or Stop is called. The audio goroutine paces block reads at the
// block duration so file sources play at natural speed.
func (p *Pipeline) Run(ctx context.Context) error {
	p.wg.Add(2)
	go p.audioLoop(ctx)
	go p.renderLoop(ctx)

	select {
	case <-ctx.Done():
		p.Stop()
		return ctx.Err()
	case <-p.done:
		p.wg.Wait()
		return nil
	}
}

// Stop shuts the loops down and waits for in-flight work to finish.
func (p *Pipeline) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}

// captureParams returns the active sample rate and block size.
func (p *Pipeline) captureParams() (sampleRate, blockSize int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.SampleRate, p.cfg.BlockSize
}

// frameInterval returns the active render tick interval.
func (p *Pipeline) frameInterval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Second / time.Duration(p.cfg.TargetFPS)
}

func blockDuration(sampleRate, blockSize int) time.Duration {
	return time.Duration(float64(blockSize) / float64(sampleRate) * float64(time.Second))
}

func (p *Pipeline) audioLoop(ctx context.Context) {
	defer p.wg.Done()

	sampleRate, blockSize := p.captureParams()
	ticker := time.NewTicker(blockDuration(sampleRate, blockSize))
	defer ticker.Stop()

	block := make([]float64, blockSize)
	exhausted := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case <-ticker.C:
		}

		// Configuration swaps retune the capture cadence on the next tick.
		if sr, bs := p.captureParams(); sr != sampleRate || bs != blockSize {
			sampleRate, blockSize = sr, bs
			ticker.Reset(blockDuration(sampleRate, blockSize))
			block = make([]float64, blockSize)
		}

		if p.clock.IsPaused() {
			continue
		}

		if exhausted {
			for i := range block {
				block[i] = 0
			}
		} else if _, err := p.source.ReadBlock(block); err != nil {
			if err == io.EOF {
				p.logger.Println("audio source exhausted, continuing with silence")
			} else {
				p.logger.Printf("audio read error, continuing with silence: %v", err)
			}
			exhausted = true
			for i := range block {
				block[i] = 0
			}
		}

		p.FeedBlock(block, float64(sampleRate))
	}
}

func (p *Pipeline) renderLoop(ctx context.Context) {
	defer p.wg.Done()

	interval := p.frameInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case <-ticker.C:
		}

		if iv := p.frameInterval(); iv != interval {
			interval = iv
			ticker.Reset(interval)
		}

		frame := p.Step(p.clock.Tick())
		if p.renderer == nil {
			continue
		}
		if err := p.renderer.Draw(frame); err != nil {
			p.logger.Printf("render error: %v", err)
		}
	}
}
