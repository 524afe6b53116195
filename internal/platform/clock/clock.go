package clock

import (
	"sync"
	"time"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Sequence returns the given instants in order and then keeps returning the
// last one.
type Sequence struct {
	mu     sync.Mutex
	values []time.Time
	idx    int
}

func NewSequence(values ...time.Time) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return time.Time{}
	}
	if s.idx >= len(s.values) {
		return s.values[len(s.values)-1]
	}
	v := s.values[s.idx]
	s.idx++
	return v
}
