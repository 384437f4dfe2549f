package plugin

import "math/rand"

// Built-in shape identifiers.
const (
	ShapeCircle   = "circle"
	ShapeSquare   = "square"
	ShapeTriangle = "triangle"
	ShapeStar     = "star"
)

// basicShape covers the stock shapes: the renderer picks the glyph from the
// name, the spawn parameters give each shape a distinct motion character.
type basicShape struct {
	name      string
	sizeMin   float64
	sizeMax   float64
	speedMin  float64
	speedMax  float64
	spinRange float64
}

func (s *basicShape) Name() string { return s.name }

func (s *basicShape) SpawnParams(rng *rand.Rand) Spawn {
	return Spawn{
		SizeScale: s.sizeMin + rng.Float64()*(s.sizeMax-s.sizeMin),
		Speed:     s.speedMin + rng.Float64()*(s.speedMax-s.speedMin),
		Spin:      (rng.Float64()*2 - 1) * s.spinRange,
	}
}

func registerShapes(r *Registry) error {
	shapes := []*basicShape{
		{name: ShapeCircle, sizeMin: 0.5, sizeMax: 1.5, speedMin: 0.8, speedMax: 1.2, spinRange: 0.1},
		{name: ShapeSquare, sizeMin: 0.7, sizeMax: 1.3, speedMin: 0.6, speedMax: 1.0, spinRange: 0.05},
		{name: ShapeTriangle, sizeMin: 0.6, sizeMax: 1.4, speedMin: 0.9, speedMax: 1.4, spinRange: 0.2},
		{name: ShapeStar, sizeMin: 0.8, sizeMax: 1.8, speedMin: 0.5, speedMax: 1.0, spinRange: 0.35},
	}
	for _, s := range shapes {
		s := s
		err := r.Register(Descriptor{Kind: KindShape, Name: s.name}, func() any { return s })
		if err != nil {
			return err
		}
	}
	return nil
}
