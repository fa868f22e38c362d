package filter

import (
	"math"

	"github.com/pkg/errors"

	"bloomy/internal/bitmap"
	"bloomy/internal/common"
	"bloomy/internal/hash"
)

// BloomFilter implements a space-efficient probabilistic data structure
// for set membership testing with no false negatives.
type BloomFilter struct {
	bitmap   bitmap.Bitmap
	engine   *hash.Engine
	m        uint64 // number of bits in bitmap
	inserted uint64 // raw Add calls, never decremented
}

var _ Filter = (*BloomFilter)(nil)

// NewBloomFilter creates an empty bloom filter of m bits hashing with engine.
func NewBloomFilter(m uint64, engine *hash.Engine) (*BloomFilter, error) {
	if m == 0 {
		return nil, errors.Wrap(common.ErrInvalidParameter, "m must be positive")
	}
	if engine == nil {
		return nil, errors.Wrap(common.ErrInvalidParameter, "hash engine is required")
	}

	common.Logger().Debug().
		Uint64("m", m).
		Uint32("k", engine.K()).
		Str("hasher", engine.Hasher().Name()).
		Msg("bloom filter created")

	return &BloomFilter{
		bitmap: bitmap.NewBitmap(m),
		engine: engine,
		m:      m,
	}, nil
}

// NewBloomFilterFromWords rebuilds a bloom filter from words previously
// returned by Words. The raw insertion counter starts at zero; use
// ApproximateCount for a cardinality estimate.
func NewBloomFilterFromWords(m uint64, engine *hash.Engine, words []uint64) (*BloomFilter, error) {
	bf, err := NewBloomFilter(m, engine)
	if err != nil {
		return nil, err
	}
	bf.bitmap = bitmap.NewBitmapFromWords(m, words)
	return bf, nil
}

// Add inserts a key into the bloom filter.
func (bf *BloomFilter) Add(key []byte) {
	bf.engine.Visit(key, bf.m, func(pos uint64) bool {
		bf.bitmap.Add(pos)
		return true
	})
	bf.inserted++
}

// MayContain returns true if the key might be in the set.
// Returns false if the key is definitely NOT in the set.
func (bf *BloomFilter) MayContain(key []byte) bool {
	found := true
	bf.engine.Visit(key, bf.m, func(pos uint64) bool {
		found = bf.bitmap.Contains(pos)
		return found
	})
	return found
}

// Clone returns an independent copy sharing the receiver's engine.
func (bf *BloomFilter) Clone() *BloomFilter {
	return &BloomFilter{
		bitmap:   bf.bitmap.Clone(),
		engine:   bf.engine,
		m:        bf.m,
		inserted: bf.inserted,
	}
}

// Union returns a new filter holding every key of both operands. Neither
// operand is modified. The result hashes with the receiver's engine.
func (bf *BloomFilter) Union(other *BloomFilter) (*BloomFilter, error) {
	if err := checkCompatible("union", bf, other); err != nil {
		return nil, err
	}
	warnCrossFamily("union", bf.engine, other.engine)

	return &BloomFilter{
		bitmap:   bf.bitmap.Union(other.bitmap),
		engine:   bf.engine,
		m:        bf.m,
		inserted: bf.inserted + other.inserted,
	}, nil
}

// Intersect returns a new filter whose bits are set in both operands. Every
// key present in both inputs passes MayContain on the result; keys present
// in neither may pass at a higher rate than in either input.
func (bf *BloomFilter) Intersect(other *BloomFilter) (*BloomFilter, error) {
	if err := checkCompatible("intersect", bf, other); err != nil {
		return nil, err
	}
	warnCrossFamily("intersect", bf.engine, other.engine)

	return &BloomFilter{
		bitmap:   bf.bitmap.Intersect(other.bitmap),
		engine:   bf.engine,
		m:        bf.m,
		inserted: min(bf.inserted, other.inserted),
	}, nil
}

// ApproximateCount estimates distinct keys from the fraction of set bits,
// independent of the raw insertion counter.
func (bf *BloomFilter) ApproximateCount() float64 {
	return estimateCount(bf.m, bf.engine.K(), bf.bitmap.Count())
}

// FillRatio returns the fraction of set bits.
func (bf *BloomFilter) FillRatio() float64 {
	return float64(bf.bitmap.Count()) / float64(bf.m)
}

// EstimatedFalsePositiveRate returns FillRatio()^k, the probability that a
// never-added key hits only set bits in the current state.
func (bf *BloomFilter) EstimatedFalsePositiveRate() float64 {
	return math.Pow(bf.FillRatio(), float64(bf.engine.K()))
}

func (bf *BloomFilter) Inserted() uint64 { return bf.inserted }

func (bf *BloomFilter) Clear() {
	bf.bitmap.Clear()
	bf.inserted = 0
}

func (bf *BloomFilter) M() uint64 { return bf.m }

func (bf *BloomFilter) K() uint32 { return bf.engine.K() }

func (bf *BloomFilter) Seeds() (uint64, uint64) { return bf.engine.Seeds() }

func (bf *BloomFilter) Engine() *hash.Engine { return bf.engine }

// OnesCount returns the number of set bits.
func (bf *BloomFilter) OnesCount() uint64 { return bf.bitmap.Count() }

// Words returns a copy of the raw bit storage, least significant bit first.
func (bf *BloomFilter) Words() []uint64 { return bf.bitmap.Words() }

// IsCompatible reports whether other has the same m and k.
func (bf *BloomFilter) IsCompatible(other *BloomFilter) bool {
	return bf.m == other.m && bf.engine.K() == other.engine.K()
}

// SameFamily reports whether other is compatible and hashes identically.
func (bf *BloomFilter) SameFamily(other *BloomFilter) bool {
	return bf.m == other.m && bf.engine.SameFamily(other.engine)
}

// Equal reports whether both filters share a hash family and hold the same
// bits.
func (bf *BloomFilter) Equal(other *BloomFilter) bool {
	return bf.SameFamily(other) && bf.bitmap.Equal(other.bitmap)
}
