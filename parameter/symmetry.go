package parameter

// Symmetry Defaults
const (
	// SegmentCount is the default number of kaleidoscope wedge copies
	SegmentCount = 8
	// RotationSpeed is baseline scene rotation in rad/sec
	RotationSpeed = 0.3
	// BassRotationGain is extra rotation rate per unit of bass energy (rad/sec)
	BassRotationGain = 1.0
	// SpiralPitch is the default radial displacement per copy in spiral mode
	SpiralPitch = 0.05
)

// Projection
const (
	// FocalLength is the perspective projection focal distance (scene units)
	FocalLength = 2.0
	// DepthInfluence scales how strongly z affects the perspective divide
	DepthInfluence = 1.0
)

// Post-Processing
const (
	// BlurPasses is the default separable kernel pass count when blur is enabled
	BlurPasses = 1
	// DistortionAmount is the default radial warp strength
	DistortionAmount = 0.2
	// DistortionWavelength controls warp ripple spacing (scene units)
	DistortionWavelength = 0.1
)

// Render Loop
const (
	// TargetFPS is the default render tick rate
	TargetFPS = 60
)
