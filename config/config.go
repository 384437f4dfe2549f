// Package config defines the recognized configuration surface and its
// validation. A Config is applied atomically through the engine; on
// rejection the last-known-good configuration stays active.
package config

import (
	"fmt"

	"github.com/lixenwraith/kaleido/parameter"
	"github.com/lixenwraith/kaleido/plugin"
	"github.com/lixenwraith/kaleido/symmetry"
)

// Config is the full control surface. Every field maps to exactly one
// parameter consumed by a pipeline component.
type Config struct {
	// Symmetry
	SegmentCount  int     `mapstructure:"segment_count"`
	SymmetryMode  string  `mapstructure:"symmetry_mode"`
	RotationSpeed float64 `mapstructure:"rotation_speed"`
	SpiralPitch   float64 `mapstructure:"spiral_pitch"`

	// Analysis
	Sensitivity    float64 `mapstructure:"sensitivity"`
	Smoothing      float64 `mapstructure:"smoothing"`
	BeatMargin     float64 `mapstructure:"beat_margin"`
	BeatRefractory float64 `mapstructure:"beat_refractory"`
	SampleRate     int     `mapstructure:"sample_rate"`
	BlockSize      int     `mapstructure:"block_size"`

	// Envelope
	PulseAttack float64 `mapstructure:"pulse_attack"`
	PulseDecay  float64 `mapstructure:"pulse_decay"`

	// Particles
	MaxParticles int      `mapstructure:"max_particles"`
	SpawnRate    float64  `mapstructure:"spawn_rate"`
	MaxAge       float64  `mapstructure:"max_age"`
	Shape        string   `mapstructure:"shape"`
	ColorMode    string   `mapstructure:"color_mode"`
	Effects      []string `mapstructure:"effects"`

	// Projection and post-processing
	Projection3D        bool    `mapstructure:"projection_3d"`
	DepthInfluence      float64 `mapstructure:"depth_influence"`
	PerspectiveStrength float64 `mapstructure:"perspective_strength"`
	BlurEnabled         bool    `mapstructure:"blur_enabled"`
	DistortionEnabled   bool    `mapstructure:"distortion_enabled"`
	DistortionAmount    float64 `mapstructure:"distortion_amount"`

	// Loop
	TargetFPS int `mapstructure:"target_fps"`

	// Owned by the windowing collaborator; carried for round-tripping only
	Fullscreen bool `mapstructure:"fullscreen"`
}

// Default returns the documented defaults, which reset-to-defaults restores.
func Default() Config {
	return Config{
		SegmentCount:  parameter.SegmentCount,
		SymmetryMode:  symmetry.Radial.String(),
		RotationSpeed: parameter.RotationSpeed,
		SpiralPitch:   parameter.SpiralPitch,

		Sensitivity:    parameter.DefaultSensitivity,
		Smoothing:      parameter.DefaultSmoothing,
		BeatMargin:     parameter.BeatMargin,
		BeatRefractory: parameter.BeatRefractorySec,
		SampleRate:     parameter.SampleRate,
		BlockSize:      parameter.BlockSize,

		PulseAttack: parameter.PulseAttackSec,
		PulseDecay:  parameter.PulseDecaySec,

		MaxParticles: parameter.MaxParticles,
		SpawnRate:    parameter.SpawnRate,
		MaxAge:       parameter.MaxAgeSec,
		Shape:        plugin.ShapeCircle,
		ColorMode:    plugin.ColorSpectrum,
		Effects:      []string{plugin.EffectSwirl},

		DepthInfluence:      parameter.DepthInfluence,
		PerspectiveStrength: parameter.FocalLength,
		DistortionAmount:    parameter.DistortionAmount,

		TargetFPS: parameter.TargetFPS,
	}
}

// Validate rejects configurations a component cannot honor. Plugin
// identifiers are checked separately against a registry at apply time.
func (c Config) Validate() error {
	if c.SegmentCount < 1 {
		return fmt.Errorf("config: segment_count must be >= 1, got %d", c.SegmentCount)
	}
	if _, err := symmetry.ParseMode(c.SymmetryMode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Sensitivity <= 0 {
		return fmt.Errorf("config: sensitivity must be positive, got %g", c.Sensitivity)
	}
	if c.Smoothing < 0 || c.Smoothing >= 1 {
		return fmt.Errorf("config: smoothing must be in [0, 1), got %g", c.Smoothing)
	}
	if c.BeatMargin < 0 {
		return fmt.Errorf("config: beat_margin must be non-negative, got %g", c.BeatMargin)
	}
	if c.BeatRefractory < 0 {
		return fmt.Errorf("config: beat_refractory must be non-negative, got %g", c.BeatRefractory)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("config: sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("config: block_size must be positive, got %d", c.BlockSize)
	}
	if c.PulseAttack <= 0 || c.PulseDecay <= 0 {
		return fmt.Errorf("config: pulse_attack and pulse_decay must be positive")
	}
	if c.MaxParticles < 1 {
		return fmt.Errorf("config: max_particles must be >= 1, got %d", c.MaxParticles)
	}
	if c.SpawnRate < 0 {
		return fmt.Errorf("config: spawn_rate must be non-negative, got %g", c.SpawnRate)
	}
	if c.MaxAge <= 0 {
		return fmt.Errorf("config: max_age must be positive, got %g", c.MaxAge)
	}
	if c.PerspectiveStrength <= 0 {
		return fmt.Errorf("config: perspective_strength must be positive, got %g", c.PerspectiveStrength)
	}
	if c.DistortionAmount < 0 {
		return fmt.Errorf("config: distortion_amount must be non-negative, got %g", c.DistortionAmount)
	}
	if c.TargetFPS < 1 {
		return fmt.Errorf("config: target_fps must be >= 1, got %d", c.TargetFPS)
	}
	return nil
}

// ResolvePlugins checks that every plugin identifier the config names is
// registered. Unknown identifiers are configuration errors, not fallbacks.
func (c Config) ResolvePlugins(reg *plugin.Registry) error {
	if _, err := reg.ResolveShape(c.Shape); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := reg.ResolveColor(c.ColorMode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for _, name := range c.Effects {
		if _, err := reg.ResolveEffect(name); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}
