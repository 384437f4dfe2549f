package parameter

// Audio Capture
const (
	// SampleRate is the capture rate in Hz
	SampleRate = 44100
	// BlockSize is samples per capture block (mono)
	BlockSize = 2048
)

// Frequency Bands (Hz)
const (
	BassLowHz    = 20.0
	BassHighHz   = 250.0
	MidHighHz    = 2000.0
	TrebleHighHz = 8000.0
)

// Spectral Normalization
const (
	// ReferenceFloor is the minimum decaying-reference value; keeps
	// silence normalizing to zero instead of amplifying noise
	ReferenceFloor = 0.25
	// ReferenceRise is the per-block fraction the reference moves toward
	// a new maximum (slow-moving running max)
	ReferenceRise = 0.08
	// ReferenceDecay is the per-block multiplier applied to the reference
	// when input energy stays below it
	ReferenceDecay = 0.9995
	// DefaultSensitivity scales band energy before normalization
	DefaultSensitivity = 1.0
	// DefaultSmoothing is the exponential smoothing coefficient applied
	// to band energies across blocks (0 = none, 1 = frozen)
	DefaultSmoothing = 0.3
)

// Beat Detection
const (
	// BeatMargin is the fraction above the moving average the bass energy
	// must cross on a rising edge to count as a beat
	BeatMargin = 0.5
	// BeatRefractorySec is the minimum audio-time interval between beats
	BeatRefractorySec = 0.1
	// BeatWindowBlocks is the moving-average horizon in analysis blocks
	BeatWindowBlocks = 30
)
