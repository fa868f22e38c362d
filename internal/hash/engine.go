package hash

import (
	"github.com/pkg/errors"

	"bloomy/internal/common"
)

// Engine derives k bit positions from one item with two hash evaluations
// (Kirsch-Mitzenmacher double hashing with a quadratic term):
//
//	index_i = (h1 + i*h2 + i*i) mod m,  i in [0, k)
//
// where h1 and h2 are the item hashed under seedA and seedB. All arithmetic
// is modulo 2^64 before the final reduction. An Engine is immutable.
type Engine struct {
	hasher Hasher
	seedA  uint64
	seedB  uint64
	k      uint32
}

// NewEngine builds an engine producing k indices per item. A nil hasher
// selects XXHash.
func NewEngine(h Hasher, seedA, seedB uint64, k uint32) (*Engine, error) {
	if k == 0 {
		return nil, errors.Wrap(common.ErrInvalidParameter, "k must be at least 1")
	}
	if h == nil {
		h = XXHash{}
	}
	return &Engine{hasher: h, seedA: seedA, seedB: seedB, k: k}, nil
}

func (e *Engine) K() uint32 { return e.k }

func (e *Engine) Seeds() (uint64, uint64) { return e.seedA, e.seedB }

func (e *Engine) Hasher() Hasher { return e.hasher }

// SameFamily reports whether both engines hash identically: same hasher,
// same seeds and same k.
func (e *Engine) SameFamily(other *Engine) bool {
	return e.k == other.k &&
		e.seedA == other.seedA &&
		e.seedB == other.seedB &&
		e.hasher.Name() == other.hasher.Name()
}

// Pair returns the two base digests of item.
func (e *Engine) Pair(item []byte) (h1, h2 uint64) {
	return e.hasher.Sum64(item, e.seedA), e.hasher.Sum64(item, e.seedB)
}

// Index returns the i-th derived position in [0, m).
func Index(h1, h2, i, m uint64) uint64 {
	return (h1 + i*h2 + i*i) % m
}

// Visit calls fn with each of the k positions of item in order, stopping
// early when fn returns false. m must be > 0.
func (e *Engine) Visit(item []byte, m uint64, fn func(idx uint64) bool) {
	h1, h2 := e.Pair(item)
	for i := uint64(0); i < uint64(e.k); i++ {
		if !fn(Index(h1, h2, i, m)) {
			return
		}
	}
}

// Indices returns the k positions of item in [0, m).
func (e *Engine) Indices(item []byte, m uint64) []uint64 {
	out := make([]uint64, 0, e.k)
	e.Visit(item, m, func(idx uint64) bool {
		out = append(out, idx)
		return true
	})
	return out
}
