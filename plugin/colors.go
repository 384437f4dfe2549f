package plugin

import (
	"math"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/kaleido/scene"
	"github.com/lixenwraith/kaleido/vmath"
)

// Built-in color generator identifiers.
const (
	ColorSpectrum = "spectrum"
	ColorSolid    = "solid"
	ColorGradient = "gradient"
)

func toSceneColor(c colorful.Color, alpha float64) scene.Color {
	r, g, b := c.Clamped().RGB255()
	return scene.Color{R: r, G: g, B: b, A: uint8(vmath.Clamp01(alpha) * 255)}
}

// spectrumColor maps the particle seed onto the hue circle, with intensity
// driving value and the pulse lifting brightness on beats.
type spectrumColor struct {
	saturation float64
}

func (c *spectrumColor) Seed(rng *rand.Rand) float64 { return rng.Float64() }

func (c *spectrumColor) At(seed, intensity, pulse float64) scene.Color {
	hue := math.Mod(seed, 1) * 360
	value := vmath.Clamp(0.35+0.65*vmath.Clamp01(intensity), 0, 1)
	col := colorful.Hsv(hue, c.saturation, value)
	return toSceneColor(col, 0.6+0.4*vmath.Clamp01(pulse))
}

// solidColor always returns the base color; pulse modulates alpha only.
type solidColor struct {
	base colorful.Color
}

func (c *solidColor) Seed(rng *rand.Rand) float64 { return rng.Float64() }

func (c *solidColor) At(_, _, pulse float64) scene.Color {
	return toSceneColor(c.base, 0.6+0.4*vmath.Clamp01(pulse))
}

// gradientColor blends between two anchor colors by seed, shifted by pulse.
type gradientColor struct {
	base      colorful.Color
	secondary colorful.Color
}

func (c *gradientColor) Seed(rng *rand.Rand) float64 { return rng.Float64() }

func (c *gradientColor) At(seed, intensity, pulse float64) scene.Color {
	t := vmath.Clamp01(math.Mod(seed+0.25*pulse, 1))
	col := c.base.BlendLuv(c.secondary, t)
	alpha := 0.5 + 0.5*vmath.Clamp01(intensity)
	return toSceneColor(col, alpha)
}

func registerColors(r *Registry) error {
	colors := []struct {
		name    string
		factory func() any
	}{
		{ColorSpectrum, func() any { return &spectrumColor{saturation: 0.8} }},
		{ColorSolid, func() any {
			return &solidColor{base: colorful.Color{R: 1.0, G: 0.0, B: 0.5}}
		}},
		{ColorGradient, func() any {
			return &gradientColor{
				base:      colorful.Color{R: 1.0, G: 0.0, B: 0.5},
				secondary: colorful.Color{R: 0.0, G: 0.5, B: 1.0},
			}
		}},
	}
	for _, c := range colors {
		if err := r.Register(Descriptor{Kind: KindColor, Name: c.name}, c.factory); err != nil {
			return err
		}
	}
	return nil
}
