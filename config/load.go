package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from an optional file plus KALEIDO_* environment
// variables, layered over the defaults. An empty path skips the file and
// still honors the environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("KALEIDO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// setDefaults seeds viper so env-only overrides merge against the documented
// defaults instead of zero values.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("segment_count", cfg.SegmentCount)
	v.SetDefault("symmetry_mode", cfg.SymmetryMode)
	v.SetDefault("rotation_speed", cfg.RotationSpeed)
	v.SetDefault("spiral_pitch", cfg.SpiralPitch)
	v.SetDefault("sensitivity", cfg.Sensitivity)
	v.SetDefault("smoothing", cfg.Smoothing)
	v.SetDefault("beat_margin", cfg.BeatMargin)
	v.SetDefault("beat_refractory", cfg.BeatRefractory)
	v.SetDefault("sample_rate", cfg.SampleRate)
	v.SetDefault("block_size", cfg.BlockSize)
	v.SetDefault("pulse_attack", cfg.PulseAttack)
	v.SetDefault("pulse_decay", cfg.PulseDecay)
	v.SetDefault("max_particles", cfg.MaxParticles)
	v.SetDefault("spawn_rate", cfg.SpawnRate)
	v.SetDefault("max_age", cfg.MaxAge)
	v.SetDefault("shape", cfg.Shape)
	v.SetDefault("color_mode", cfg.ColorMode)
	v.SetDefault("effects", cfg.Effects)
	v.SetDefault("projection_3d", cfg.Projection3D)
	v.SetDefault("depth_influence", cfg.DepthInfluence)
	v.SetDefault("perspective_strength", cfg.PerspectiveStrength)
	v.SetDefault("blur_enabled", cfg.BlurEnabled)
	v.SetDefault("distortion_enabled", cfg.DistortionEnabled)
	v.SetDefault("distortion_amount", cfg.DistortionAmount)
	v.SetDefault("target_fps", cfg.TargetFPS)
	v.SetDefault("fullscreen", cfg.Fullscreen)
}
