package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// Monitor plays a WAV file through the system output, looping, independent
// of the analysis stream. The returned stop function silences the speaker
// and releases the file.
func Monitor(path string) (stop func(), err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open %s: %w", path, err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("audio: decode %s: %w", path, err)
	}

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		streamer.Close()
		return nil, fmt.Errorf("audio: speaker init: %w", err)
	}

	speaker.Play(beep.Loop(-1, streamer))
	return func() {
		speaker.Clear()
		streamer.Close()
	}, nil
}
