package hash

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/dchest/siphash"
	"github.com/pkg/errors"
	"github.com/spaolacci/murmur3"

	"bloomy/internal/common"
)

// Hasher maps an arbitrary byte sequence and a 64-bit seed to a 64-bit
// digest. Any fast, well-distributed hash satisfies the contract.
type Hasher interface {
	// Name identifies the hash family. Two filters only share a hash family
	// when their hasher names and seeds match.
	Name() string

	Sum64(data []byte, seed uint64) uint64
}

// HasherFunc adapts an ordinary function to the Hasher interface. All
// HasherFuncs report the name "func", so filters built from two different
// functions look like one family; NamedHasher avoids that.
type HasherFunc func(data []byte, seed uint64) uint64

func (f HasherFunc) Name() string { return "func" }

func (f HasherFunc) Sum64(data []byte, seed uint64) uint64 { return f(data, seed) }

type namedFunc struct {
	name string
	fn   func(data []byte, seed uint64) uint64
}

// NamedHasher adapts fn to a Hasher whose family name is name.
func NamedHasher(name string, fn func(data []byte, seed uint64) uint64) Hasher {
	return namedFunc{name: name, fn: fn}
}

func (h namedFunc) Name() string { return h.name }

func (h namedFunc) Sum64(data []byte, seed uint64) uint64 { return h.fn(data, seed) }

// XXHash is the default hasher: xxh64 with the seed as its initial state.
type XXHash struct{}

func (XXHash) Name() string { return "xxhash" }

func (XXHash) Sum64(data []byte, seed uint64) uint64 {
	d := xxhash.NewWithSeed(seed)
	_, _ = d.Write(data)
	return d.Sum64()
}

// Murmur3 hashes with the 64-bit murmur3 variant. The seed is folded to the
// 32 bits murmur3 accepts.
type Murmur3 struct{}

func (Murmur3) Name() string { return "murmur3" }

func (Murmur3) Sum64(data []byte, seed uint64) uint64 {
	return murmur3.Sum64WithSeed(data, uint32(seed)^uint32(seed>>32))
}

// sipKeyHigh is the second half of every SipHash key; the seed supplies the
// first half.
const sipKeyHigh uint64 = 0x2a5dcb255fe5e1a5

// SipHash hashes with SipHash-2-4 keyed by (seed, sipKeyHigh).
type SipHash struct{}

func (SipHash) Name() string { return "siphash" }

func (SipHash) Sum64(data []byte, seed uint64) uint64 {
	return siphash.Hash(seed, sipKeyHigh, data)
}

// ByName resolves one of the built-in hashers.
func ByName(name string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "xxhash", "xxh64":
		return XXHash{}, nil
	case "murmur3", "murmur":
		return Murmur3{}, nil
	case "siphash", "sip":
		return SipHash{}, nil
	default:
		return nil, errors.Wrapf(common.ErrInvalidParameter, "unknown hasher %q", name)
	}
}
