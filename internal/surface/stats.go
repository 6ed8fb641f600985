package surface

import (
	"math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/planet-terrain/internal/engine/terrain"
)

// Stats tracks the range of heights a sampler has produced. Observe may be
// called from any number of goroutines.
type Stats struct {
	min   atomic.Uint64
	max   atomic.Uint64
	count atomic.Int64
}

// NewStats returns an empty accumulator.
func NewStats() *Stats {
	s := &Stats{}
	s.Reset()
	return s
}

// Reset forgets every observation.
func (s *Stats) Reset() {
	s.min.Store(math.Float64bits(math.Inf(1)))
	s.max.Store(math.Float64bits(math.Inf(-1)))
	s.count.Store(0)
}

// Observe folds h into the range. NaN and infinite heights are ignored;
// the tile builder rejects them anyway.
func (s *Stats) Observe(h float64) {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return
	}
	s.count.Add(1)
	for {
		old := s.min.Load()
		if h >= math.Float64frombits(old) || s.min.CompareAndSwap(old, math.Float64bits(h)) {
			break
		}
	}
	for {
		old := s.max.Load()
		if h <= math.Float64frombits(old) || s.max.CompareAndSwap(old, math.Float64bits(h)) {
			break
		}
	}
}

// Min returns the lowest observed height, or +Inf before any observation.
func (s *Stats) Min() float64 { return math.Float64frombits(s.min.Load()) }

// Max returns the highest observed height, or -Inf before any observation.
func (s *Stats) Max() float64 { return math.Float64frombits(s.max.Load()) }

// Count returns the number of observations.
func (s *Stats) Count() int64 { return s.count.Load() }

type tracked struct {
	terrain.Sampler
	stats *Stats
}

// WithStats returns a sampler that records every height s produces.
func WithStats(s terrain.Sampler, stats *Stats) terrain.Sampler {
	return tracked{Sampler: s, stats: stats}
}

func (t tracked) Height(dir mgl64.Vec3) float64 {
	h := t.Sampler.Height(dir)
	t.stats.Observe(h)
	return h
}
