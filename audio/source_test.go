package audio

import (
	"io"
	"testing"
)

func TestSilentProducesZeroBlocks(t *testing.T) {
	s := NewSilent(44100)
	if s.SampleRate() != 44100 {
		t.Errorf("Expected sample rate 44100, got %d", s.SampleRate())
	}

	buf := make([]float64, 1024)
	for i := range buf {
		buf[i] = 1.0 // poison to verify overwrite
	}

	n, err := s.ReadBlock(buf)
	if err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	if n != len(buf) {
		t.Errorf("Expected full block, got %d", n)
	}
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("Sample %d not zeroed: %f", i, v)
		}
	}
}

func TestSilentDefaultsBadRate(t *testing.T) {
	if s := NewSilent(0); s.SampleRate() <= 0 {
		t.Errorf("Expected positive default rate, got %d", s.SampleRate())
	}
}

// fixedStreamer emits a constant stereo value for a limited frame count.
type fixedStreamer struct {
	left, right float64
	remaining   int
}

func (f *fixedStreamer) Stream(samples [][2]float64) (int, bool) {
	if f.remaining <= 0 {
		return 0, false
	}
	n := len(samples)
	if n > f.remaining {
		n = f.remaining
	}
	for i := 0; i < n; i++ {
		samples[i][0] = f.left
		samples[i][1] = f.right
	}
	f.remaining -= n
	return n, true
}

func (f *fixedStreamer) Err() error { return nil }

func TestStreamSourceDownmixesToMono(t *testing.T) {
	src := NewStreamSource(&fixedStreamer{left: 0.8, right: 0.4, remaining: 4096}, nil, 44100)

	buf := make([]float64, 512)
	n, err := src.ReadBlock(buf)
	if err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	if n != len(buf) {
		t.Errorf("Expected full block, got %d", n)
	}
	for i, v := range buf {
		if v != 0.6 {
			t.Fatalf("Sample %d: expected downmix 0.6, got %f", i, v)
		}
	}
}

func TestStreamSourceZeroFillsShortRead(t *testing.T) {
	src := NewStreamSource(&fixedStreamer{left: 1, right: 1, remaining: 100}, nil, 44100)

	buf := make([]float64, 256)
	n, err := src.ReadBlock(buf)
	if err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	if n != len(buf) {
		t.Errorf("Expected zero-padded full block, got %d", n)
	}
	for i := 0; i < 100; i++ {
		if buf[i] != 1 {
			t.Fatalf("Sample %d: expected 1, got %f", i, buf[i])
		}
	}
	for i := 100; i < len(buf); i++ {
		if buf[i] != 0 {
			t.Fatalf("Sample %d: expected zero padding, got %f", i, buf[i])
		}
	}
}

func TestStreamSourceEOF(t *testing.T) {
	src := NewStreamSource(&fixedStreamer{remaining: 0}, nil, 44100)

	if _, err := src.ReadBlock(make([]float64, 64)); err != io.EOF {
		t.Errorf("Expected io.EOF from exhausted stream, got %v", err)
	}
}

func TestOpenMissingFileDegradesToSilent(t *testing.T) {
	src, err := Open("/nonexistent/file.wav", 44100)
	if err == nil {
		t.Error("Expected error to report why degradation happened")
	}
	if _, ok := src.(*Silent); !ok {
		t.Errorf("Expected silent fallback source, got %T", src)
	}
}

func TestOpenEmptyPathIsSilent(t *testing.T) {
	src, err := Open("", 44100)
	if err != nil {
		t.Errorf("Empty path should not error: %v", err)
	}
	if _, ok := src.(*Silent); !ok {
		t.Errorf("Expected silent source, got %T", src)
	}
}
