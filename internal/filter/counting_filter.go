package filter

import (
	"math"

	"github.com/pkg/errors"

	"bloomy/internal/common"
	"bloomy/internal/counter"
	"bloomy/internal/hash"
)

// CountingFilter is a bloom filter over small saturating counters, which
// allows keys to be removed.
//
// Removing a key that was never added, or removing it more often than it
// was added, is not an error: the affected counters stop at zero. Counters
// shared with keys that are still present are then too low, and those keys
// can be reported absent. Counters that reach their maximum stay there.
type CountingFilter struct {
	counters counter.Vector
	engine   *hash.Engine
	m        uint64 // number of counters
	inserted uint64 // Add calls less Remove calls, floored at zero
}

var _ Filter = (*CountingFilter)(nil)

// NewCountingFilter creates an empty counting filter of m counters, each
// width bits wide, hashing with engine.
func NewCountingFilter(m uint64, width uint8, engine *hash.Engine) (*CountingFilter, error) {
	if m == 0 {
		return nil, errors.Wrap(common.ErrInvalidParameter, "m must be positive")
	}
	if engine == nil {
		return nil, errors.Wrap(common.ErrInvalidParameter, "hash engine is required")
	}
	counters, err := counter.NewVector(m, width)
	if err != nil {
		return nil, err
	}

	common.Logger().Debug().
		Uint64("m", m).
		Uint32("k", engine.K()).
		Uint8("width", width).
		Str("hasher", engine.Hasher().Name()).
		Msg("counting filter created")

	return &CountingFilter{
		counters: counters,
		engine:   engine,
		m:        m,
	}, nil
}

// Add increments each of the key's k counters.
func (cf *CountingFilter) Add(key []byte) {
	cf.engine.Visit(key, cf.m, func(pos uint64) bool {
		cf.counters.Increment(pos)
		return true
	})
	cf.inserted++
}

// Remove decrements each of the key's k counters, stopping at zero.
func (cf *CountingFilter) Remove(key []byte) {
	cf.engine.Visit(key, cf.m, func(pos uint64) bool {
		cf.counters.Decrement(pos)
		return true
	})
	if cf.inserted > 0 {
		cf.inserted--
	}
}

// MayContain returns true if all of the key's counters are non-zero.
func (cf *CountingFilter) MayContain(key []byte) bool {
	found := true
	cf.engine.Visit(key, cf.m, func(pos uint64) bool {
		found = cf.counters.Get(pos) != 0
		return found
	})
	return found
}

// Count returns the smallest of the key's counters, an upper bound on how
// many times the key was added while no counter has saturated.
func (cf *CountingFilter) Count(key []byte) uint32 {
	lowest := uint32(math.MaxUint32)
	cf.engine.Visit(key, cf.m, func(pos uint64) bool {
		lowest = min(lowest, cf.counters.Get(pos))
		return lowest != 0
	})
	return lowest
}

// ApproximateCount estimates distinct keys from the fraction of non-zero
// counters.
func (cf *CountingFilter) ApproximateCount() float64 {
	return estimateCount(cf.m, cf.engine.K(), cf.counters.NonZero())
}

func (cf *CountingFilter) Inserted() uint64 { return cf.inserted }

func (cf *CountingFilter) Clear() {
	cf.counters.Clear()
	cf.inserted = 0
}

func (cf *CountingFilter) M() uint64 { return cf.m }

func (cf *CountingFilter) K() uint32 { return cf.engine.K() }

func (cf *CountingFilter) Width() uint8 { return cf.counters.Width() }

func (cf *CountingFilter) Seeds() (uint64, uint64) { return cf.engine.Seeds() }

// Counter returns the raw value of counter i.
func (cf *CountingFilter) Counter(i uint64) uint32 { return cf.counters.Get(i) }
