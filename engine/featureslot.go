package engine

import (
	"sync"

	"github.com/lixenwraith/kaleido/spectral"
)

// FeatureSlot is a single-slot handoff between the analysis goroutine and
// the render loop. Publish overwrites any unconsumed value, so the consumer
// always sees the newest features and the producer never blocks. A dropped
// beat flag is not lost: beats latch until the next Take.
type FeatureSlot struct {
	mu        sync.Mutex
	latest    spectral.Features
	fresh     bool
	beatLatch bool
}

// Publish stores the newest features, overwriting any unconsumed value.
func (s *FeatureSlot) Publish(f spectral.Features) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.Beat {
		s.beatLatch = true
	}
	f.Beat = false // beats live in the latch so a stale value cannot replay one
	s.latest = f
	s.fresh = true
}

// Take returns the most recent features and whether anything was published
// since the last Take. The beat latch drains exactly once.
func (s *FeatureSlot) Take() (spectral.Features, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.latest
	ok := s.fresh
	if s.beatLatch {
		f.Beat = true
		s.beatLatch = false
	}
	s.fresh = false
	return f, ok
}

// Peek returns the most recent features without consuming freshness or the
// beat latch.
func (s *FeatureSlot) Peek() spectral.Features {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}
