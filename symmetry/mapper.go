// Package symmetry replicates one simulated wedge into a full revolution of
// rotated, mirrored, or spiraled copies.
package symmetry

import (
	"fmt"
	"math"

	"github.com/lixenwraith/kaleido/particle"
	"github.com/lixenwraith/kaleido/scene"
	"github.com/lixenwraith/kaleido/vmath"
)

// Mode selects the replication law.
type Mode int

const (
	Radial Mode = iota
	Mirror
	Spiral
)

func (m Mode) String() string {
	switch m {
	case Radial:
		return "radial"
	case Mirror:
		return "mirror"
	case Spiral:
		return "spiral"
	}
	return "unknown"
}

// ParseMode converts a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "radial":
		return Radial, nil
	case "mirror":
		return Mirror, nil
	case "spiral":
		return Spiral, nil
	}
	return Radial, fmt.Errorf("symmetry: unknown mode %q", s)
}

// Config is immutable per frame and supplied by the control collaborator.
type Config struct {
	SegmentCount  int
	Mode          Mode
	RotationAngle float64
	SpiralPitch   float64
}

// Validate rejects configurations the mapper cannot honor.
func (c Config) Validate() error {
	if c.SegmentCount < 1 {
		return fmt.Errorf("symmetry: segment count must be >= 1, got %d", c.SegmentCount)
	}
	return nil
}

// Mapper replicates wedge particles into scene points. The output buffer is
// reused across frames; the returned slice is valid until the next Map.
type Mapper struct {
	out []scene.Point
}

// NewMapper creates a mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map emits segmentCount copies of the wedge. Copies appear in increasing
// index order and particles keep their input order within each copy, so
// visual layering is deterministic. segmentCount==1 with zero rotation is
// an identity copy.
func (m *Mapper) Map(wedge []particle.Particle, cfg Config) []scene.Point {
	if cfg.SegmentCount < 1 {
		cfg.SegmentCount = 1
	}
	segAngle := vmath.Tau / float64(cfg.SegmentCount)

	perCopy := 0
	for j := range wedge {
		perCopy += 1 + wedge[j].TrailLen
	}
	need := perCopy * cfg.SegmentCount
	if cap(m.out) < need {
		m.out = make([]scene.Point, 0, need)
	}
	m.out = m.out[:0]

	for i := 0; i < cfg.SegmentCount; i++ {
		angle := float64(i) * segAngle
		mirrored := cfg.Mode == Mirror && i%2 == 1
		if mirrored {
			// Reflection across the leading edge puts the copy in
			// [-segAngle, 0); one extra segment of rotation lands it back
			// on segment i, mirrored in place.
			angle += segAngle
		}
		angle += cfg.RotationAngle
		pitch := 0.0
		if cfg.Mode == Spiral {
			pitch = float64(i) * cfg.SpiralPitch
		}

		place := func(x, y float64) (float64, float64) {
			if mirrored {
				y = -y
			}
			if pitch != 0 {
				r := math.Hypot(x, y)
				if r > 1e-9 {
					scale := (r + pitch) / r
					if scale < 0 {
						scale = 0
					}
					x *= scale
					y *= scale
				}
			}
			return vmath.Rotate(x, y, angle)
		}

		for j := range wedge {
			p := &wedge[j]

			// Trail positions first (oldest to newest) so the head draws
			// on top, each fading toward the tail.
			for k := 0; k < p.TrailLen; k++ {
				tp := p.TrailAt(k)
				fade := float64(k+1) / float64(p.TrailLen+1)
				x, y := place(tp.X, tp.Y)
				m.out = append(m.out, scene.Point{
					X:     x,
					Y:     y,
					Z:     tp.Z,
					Size:  p.Size * fade,
					Seed:  p.Seed,
					Shape: p.Shape,
					Fade:  fade,
				})
			}

			x, y := place(p.X, p.Y)
			m.out = append(m.out, scene.Point{
				X:     x,
				Y:     y,
				Z:     p.Z,
				Size:  p.Size,
				Seed:  p.Seed,
				Shape: p.Shape,
				Fade:  1,
			})
		}
	}

	return m.out
}
