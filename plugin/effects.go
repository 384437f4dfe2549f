package plugin

import (
	"math"

	"github.com/lixenwraith/kaleido/spectral"
	"github.com/lixenwraith/kaleido/vmath"
)

// Built-in effect identifiers.
const (
	EffectNone    = "none"
	EffectSwirl   = "swirl"
	EffectGravity = "gravity"
)

// noneEffect is the identity perturbation.
type noneEffect struct{}

func (noneEffect) Perturb(_, _, _, vx, vy, vz float64, _ spectral.Features, _, _ float64) (float64, float64, float64) {
	return vx, vy, vz
}

// swirlEffect adds tangential acceleration around the scene center, scaled
// by the pulse level so beats visibly twist the wedge.
type swirlEffect struct {
	gain float64
}

func (e *swirlEffect) Perturb(px, py, _, vx, vy, vz float64, f spectral.Features, pulse, dt float64) (float64, float64, float64) {
	r := math.Hypot(px, py)
	if r < 1e-9 || dt <= 0 {
		return vx, vy, vz
	}
	// Unit tangent (perpendicular to the radial direction)
	tx, ty := -py/r, px/r
	a := e.gain * (0.2 + pulse) * (0.5 + f.Mid) * dt
	return vx + tx*a, vy + ty*a, vz
}

// gravityEffect pulls particles toward the center with strength that fades
// as loudness rises, so quiet passages collapse inward and loud ones bloom.
type gravityEffect struct {
	gain float64
}

func (e *gravityEffect) Perturb(px, py, _, vx, vy, vz float64, f spectral.Features, _, dt float64) (float64, float64, float64) {
	r := math.Hypot(px, py)
	if r < 1e-9 || dt <= 0 {
		return vx, vy, vz
	}
	a := e.gain * (1 - vmath.Clamp01(f.Overall)) * dt
	return vx - px/r*a, vy - py/r*a, vz
}

func registerEffects(r *Registry) error {
	effects := []struct {
		name    string
		factory func() any
	}{
		{EffectNone, func() any { return noneEffect{} }},
		{EffectSwirl, func() any { return &swirlEffect{gain: 0.4} }},
		{EffectGravity, func() any { return &gravityEffect{gain: 0.15} }},
	}
	for _, e := range effects {
		if err := r.Register(Descriptor{Kind: KindEffect, Name: e.name}, e.factory); err != nil {
			return err
		}
	}
	return nil
}

// RegisterBuiltins installs the stock effect, shape, and color plugins.
func RegisterBuiltins(r *Registry) error {
	if err := registerEffects(r); err != nil {
		return err
	}
	if err := registerShapes(r); err != nil {
		return err
	}
	return registerColors(r)
}
