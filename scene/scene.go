// Package scene defines the drawable output of the pipeline and the
// renderer contract. The core never issues drawing primitives; it hands a
// fully resolved Frame to a Renderer collaborator once per tick.
package scene

// Color is a resolved sRGB color with alpha.
type Color struct {
	R, G, B, A uint8
}

// Point is one drawable primitive. X and Y are scene coordinates centered
// on the origin with the kaleidoscope outer bound at radius 1. Z is depth
// before projection and zero afterwards.
type Point struct {
	X, Y, Z float64
	Size    float64
	Seed    float64 // color seed sampled at spawn, stable for the particle's life
	Shape   string  // shape plugin identifier
	Fade    float64 // 1 at a particle head, falling toward 0 along its trail
	Color   Color
}

// Frame is the full mapped, projected, post-processed point set for one
// render tick. It is rebuilt every frame and owned by the pipeline caller.
type Frame struct {
	Points   []Point
	Beat     bool
	Pulse    float64
	Rotation float64
}

// Renderer consumes frames. Presentation, color space conversion, and
// screen composition are the renderer's concern.
type Renderer interface {
	Draw(frame *Frame) error
}
