package estimator

import (
	"math/rand"
	"sync"
	"time"
)

// Source supplies the random factors used by the heuristics.
type Source interface {
	// Uniform returns a value in [lo, hi).
	Uniform(lo, hi float64) float64
}

// RandSource is a Source backed by math/rand, safe for concurrent use.
type RandSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandSource() *RandSource {
	return NewSeededSource(time.Now().UnixNano())
}

func NewSeededSource(seed int64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandSource) Uniform(lo, hi float64) float64 {
	s.mu.Lock()
	f := s.rng.Float64()
	s.mu.Unlock()
	return lo + f*(hi-lo)
}
