package audio

import (
	"fmt"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
)

// NewTone creates a synthetic sine source, useful for demos and for
// exercising the full pipeline without a capture device.
func NewTone(sampleRate int, freq float64) (Source, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audio: invalid sample rate %d", sampleRate)
	}
	sine, err := generators.SineTone(beep.SampleRate(sampleRate), freq)
	if err != nil {
		return nil, fmt.Errorf("audio: sine generator: %w", err)
	}
	return NewStreamSource(sine, nil, sampleRate), nil
}
