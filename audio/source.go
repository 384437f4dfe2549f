// Package audio provides the capture-side collaborators of the pipeline:
// block sources backed by beep streamers plus the silent fallback used when
// no input is available.
package audio

import (
	"io"
	"sync"

	"github.com/gopxl/beep"
)

// Source delivers mono capture blocks. ReadBlock fills dst with samples in
// [-1, 1] and returns how many were produced; fewer than len(dst) means the
// source is exhausted or temporarily unavailable.
type Source interface {
	SampleRate() int
	ReadBlock(dst []float64) (int, error)
	Close() error
}

// Silent produces zero-filled blocks forever. It is the degraded mode when
// capture cannot be opened: the pipeline keeps producing a quiet scene.
type Silent struct {
	rate int
}

// NewSilent creates a silent source at the given rate.
func NewSilent(sampleRate int) *Silent {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return &Silent{rate: sampleRate}
}

func (s *Silent) SampleRate() int { return s.rate }

func (s *Silent) ReadBlock(dst []float64) (int, error) {
	for i := range dst {
		dst[i] = 0
	}
	return len(dst), nil
}

func (s *Silent) Close() error { return nil }

// StreamSource adapts a beep.Streamer into a block source, downmixing the
// stereo stream to mono.
type StreamSource struct {
	mu     sync.Mutex
	stream beep.Streamer
	closer io.Closer
	rate   int
	buf    [][2]float64
}

// NewStreamSource wraps a streamer. closer may be nil for synthetic streams.
func NewStreamSource(stream beep.Streamer, closer io.Closer, sampleRate int) *StreamSource {
	return &StreamSource{
		stream: stream,
		closer: closer,
		rate:   sampleRate,
	}
}

func (s *StreamSource) SampleRate() int { return s.rate }

// ReadBlock pulls len(dst) frames from the streamer. A short read zero-fills
// the remainder so downstream analysis always sees a full block.
func (s *StreamSource) ReadBlock(dst []float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cap(s.buf) < len(dst) {
		s.buf = make([][2]float64, len(dst))
	}
	frames := s.buf[:len(dst)]

	n, ok := s.stream.Stream(frames)
	for i := 0; i < n; i++ {
		dst[i] = (frames[i][0] + frames[i][1]) * 0.5
	}
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}

	if !ok && n == 0 {
		if err := s.stream.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	return len(dst), nil
}

func (s *StreamSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
