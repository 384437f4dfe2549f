// Package project holds the optional depth-projection and post-processing
// stages. Both are pure functions of their input frame so they can be
// toggled frame-to-frame without artifacts.
package project

import (
	"github.com/lixenwraith/kaleido/parameter"
	"github.com/lixenwraith/kaleido/scene"
	"github.com/lixenwraith/kaleido/vmath"
)

// Projector applies a perspective divide using the particle depth field.
// Disabled it is an identity pass-through.
type Projector struct {
	Enabled        bool
	FocalLength    float64
	DepthInfluence float64
}

// DefaultProjector returns the stock projection settings, disabled.
func DefaultProjector() Projector {
	return Projector{
		FocalLength:    parameter.FocalLength,
		DepthInfluence: parameter.DepthInfluence,
	}
}

// Apply projects points in place. Output 2D points are scaled by
// focal/(focal + z*influence); z is consumed and zeroed.
func (p Projector) Apply(points []scene.Point) {
	if !p.Enabled {
		return
	}
	focal := p.FocalLength
	if focal <= 0 {
		focal = parameter.FocalLength
	}

	for i := range points {
		pt := &points[i]
		denom := focal + pt.Z*p.DepthInfluence
		if denom < 1e-6 {
			denom = 1e-6
		}
		scale := vmath.Sanitize(focal / denom)
		pt.X *= scale
		pt.Y *= scale
		pt.Size *= scale
		pt.Z = 0
	}
}
