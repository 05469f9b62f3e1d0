package engine

import (
	"math/rand"
	"sync"
	"time"
)

// Source yields uniform samples in [0,1).
type Source interface {
	Next() float64
}

// RandSource is a goroutine safe Source over math/rand.
type RandSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandSource(seed int64) *RandSource {
	return &RandSource{rnd: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededSource seeds from the wall clock.
func NewTimeSeededSource() *RandSource {
	return NewRandSource(time.Now().UnixNano())
}

func (s *RandSource) Next() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() float64

func (f SourceFunc) Next() float64 { return f() }

// sample reads one value and checks its range.
func sample(src Source) (float64, error) {
	u := src.Next()
	if !(u >= 0 && u < 1) {
		return 0, ErrEntropy
	}
	return u, nil
}

// intBetween maps u onto the inclusive range [lo, hi].
func intBetween(u float64, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	n := lo + int64(u*float64(hi-lo+1))
	if n > hi {
		n = hi
	}
	return n
}
