// Package vmath provides float64 helpers for the simulation and mapping hot paths.
package vmath

import "math"

const (
	// Tau is one full revolution in radians
	Tau = 2 * math.Pi
)

// Rotate rotates (x, y) by angle radians counter-clockwise around the origin
func Rotate(x, y, angle float64) (rx, ry float64) {
	sin, cos := math.Sincos(angle)
	rx = x*cos - y*sin
	ry = x*sin + y*cos
	return rx, ry
}

// Polar converts (x, y) to radius and angle in [0, Tau)
func Polar(x, y float64) (r, theta float64) {
	r = math.Hypot(x, y)
	theta = math.Atan2(y, x)
	if theta < 0 {
		theta += Tau
	}
	return r, theta
}

// FromPolar converts radius and angle to (x, y)
func FromPolar(r, theta float64) (x, y float64) {
	sin, cos := math.Sincos(theta)
	return r * cos, r * sin
}

// Lerp interpolates between a and b by t
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to the unit interval
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Sanitize replaces NaN and Inf with zero so bad audio math never
// reaches the simulation or the renderer
func Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// WrapAngle normalizes an angle to [0, Tau)
func WrapAngle(a float64) float64 {
	a = math.Mod(a, Tau)
	if a < 0 {
		a += Tau
	}
	return a
}
