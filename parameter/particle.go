package parameter

// Particle Population
const (
	// MaxParticles is the default population cap
	MaxParticles = 300
	// SpawnRate is baseline spawns per second
	SpawnRate = 50.0
	// PulseSpawnBonus is extra spawns per second at full pulse level
	PulseSpawnBonus = 120.0
	// MaxAgeSec is the default particle lifetime
	MaxAgeSec = 2.0
)

// Particle Motion
const (
	// SpawnRadiusFraction limits spawn distance to this fraction of the outer bound
	SpawnRadiusFraction = 0.3
	// OuterRadius is the simulation wedge's outer bound (scene units)
	OuterRadius = 1.0
	// BaseSpeed is the initial outward speed range midpoint (units/sec)
	BaseSpeed = 0.25
	// SpeedJitter is the half-range of random initial speed variation
	SpeedJitter = 0.15
	// TrebleJitterGain converts treble energy to angular jitter (rad/sec)
	TrebleJitterGain = 3.0
	// AmplitudePushGain converts smoothed amplitude to outward radial
	// acceleration (units/sec²)
	AmplitudePushGain = 0.6
	// SizeBase and SizeJitter define spawn-time size sampling
	SizeBase   = 0.02
	SizeJitter = 0.015
	// DepthRange is the z-coordinate half-extent; z bounces at ±DepthRange
	DepthRange = 0.5
	// DepthSpeed is the half-range of random initial z velocity (units/sec)
	DepthSpeed = 0.1
	// TrailLength is the number of recent positions kept per particle for
	// the fading motion trail
	TrailLength = 10
)
