package audio

import (
	"fmt"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// OpenWAV opens a WAV file as a looping block source, resampled to
// targetRate if the file's rate differs.
func OpenWAV(path string, targetRate int) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open %s: %w", path, err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("audio: decode %s: %w", path, err)
	}

	var stream beep.Streamer = beep.Loop(-1, streamer)
	if int(format.SampleRate) != targetRate && targetRate > 0 {
		stream = beep.Resample(4, format.SampleRate, beep.SampleRate(targetRate), stream)
	} else {
		targetRate = int(format.SampleRate)
	}

	return NewStreamSource(stream, streamer, targetRate), nil
}

// Open resolves an input path into a source. An empty path or any open
// failure degrades to the silent source rather than failing the pipeline;
// the returned error reports why degradation happened.
func Open(path string, sampleRate int) (Source, error) {
	if path == "" {
		return NewSilent(sampleRate), nil
	}
	src, err := OpenWAV(path, sampleRate)
	if err != nil {
		return NewSilent(sampleRate), err
	}
	return src, nil
}
