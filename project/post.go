package project

import (
	"math"

	"github.com/lixenwraith/kaleido/parameter"
	"github.com/lixenwraith/kaleido/scene"
	"github.com/lixenwraith/kaleido/vmath"
)

// Post applies the optional blur and distortion stages to the assembled
// point set. It holds no mutable state; disabled stages are identity.
type Post struct {
	BlurEnabled bool
	BlurPasses  int

	DistortionEnabled bool
	DistortionAmount  float64
	Wavelength        float64
}

// DefaultPost returns the stock post-processing settings, disabled.
func DefaultPost() Post {
	return Post{
		BlurPasses:       parameter.BlurPasses,
		DistortionAmount: parameter.DistortionAmount,
		Wavelength:       parameter.DistortionWavelength,
	}
}

// Apply runs the enabled stages in place. rotation feeds the distortion
// phase so the warp animates with the scene.
func (p Post) Apply(points []scene.Point, rotation float64) {
	if p.BlurEnabled && p.BlurPasses > 0 {
		blurSizes(points, p.BlurPasses)
	}
	if p.DistortionEnabled && p.DistortionAmount > 0 {
		p.distort(points, rotation)
	}
}

// blurSizes convolves point sizes with a [1 2 1]/4 binomial kernel along
// emission order, softening size discontinuities between layered copies.
func blurSizes(points []scene.Point, passes int) {
	if len(points) < 3 {
		return
	}
	for pass := 0; pass < passes; pass++ {
		prev := points[0].Size
		for i := 1; i < len(points)-1; i++ {
			cur := points[i].Size
			points[i].Size = 0.25*prev + 0.5*cur + 0.25*points[i+1].Size
			prev = cur
		}
	}
}

// distort displaces each point along its radial direction by a sine of its
// distance from center, producing a rippling radial warp.
func (p Post) distort(points []scene.Point, rotation float64) {
	wavelength := p.Wavelength
	if wavelength <= 0 {
		wavelength = parameter.DistortionWavelength
	}

	for i := range points {
		pt := &points[i]
		r := math.Hypot(pt.X, pt.Y)
		if r < 1e-9 {
			continue
		}
		offset := p.DistortionAmount * 0.1 * math.Sin(r/wavelength+rotation*10)
		scale := (r + offset) / r
		if scale < 0 {
			scale = 0
		}
		pt.X = vmath.Sanitize(pt.X * scale)
		pt.Y = vmath.Sanitize(pt.Y * scale)
	}
}
