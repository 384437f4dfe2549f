package parameter

// Pulse Envelope
const (
	// PulseAttackSec is the time for pulse level to reach 95% of peak after a beat
	PulseAttackSec = 0.05
	// PulseDecaySec is the time for pulse level to fall to 5% of peak
	PulseDecaySec = 0.4
	// AmplitudeSmoothingSec is the EMA time constant for the continuous
	// loudness signal (non-pulsed modulation)
	AmplitudeSmoothingSec = 0.25
)
