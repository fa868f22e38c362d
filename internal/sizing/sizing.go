// Package sizing computes bloom filter dimensions from an expected element
// count and a target false positive rate, and the inverse estimate.
package sizing

import (
	"math"

	"github.com/pkg/errors"

	"bloomy/internal/common"
)

// lnSqr is ln(2)^2.
const lnSqr = math.Ln2 * math.Ln2

// maxBits bounds m to what a float64 round-trips into a uint64.
const maxBits = float64(1 << 63)

// Validate checks n > 0 and 0 < p < 1.
func Validate(n uint64, p float64) error {
	if n == 0 {
		return errors.Wrap(common.ErrInvalidParameter, "expected element count must be positive")
	}
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return errors.Wrapf(common.ErrInvalidParameter, "false positive rate %v outside (0, 1)", p)
	}
	return nil
}

// OptimalBits returns m = ceil(-(n * ln(p)) / ln(2)^2).
// The caller is responsible for validating n and p.
func OptimalBits(n uint64, p float64) uint64 {
	return uint64(math.Ceil(-(float64(n) * math.Log(p)) / lnSqr))
}

// OptimalHashes returns k = round((m / n) * ln(2)), at least 1.
func OptimalHashes(m, n uint64) uint32 {
	if n == 0 {
		return 1
	}
	k := math.Round(float64(m) / float64(n) * math.Ln2)
	if k < 1 {
		return 1
	}
	if k > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(k)
}

// OptimalCapacity returns the element count a filter of m bits holds at
// false positive rate p: round(-m * ln(2)^2 / ln(p)).
func OptimalCapacity(m uint64, p float64) uint64 {
	return uint64(math.Round(-float64(m) * lnSqr / math.Log(p)))
}

// BitsForBytes returns the bit length of a filter occupying nbytes.
func BitsForBytes(nbytes uint64) uint64 {
	return nbytes * 8
}

// ParamsForBytes returns (m, k) for a filter whose storage fits in nbytes
// with slotBits bits per slot: 1 for a plain filter, the counter width for a
// counting filter. k is optimal for the capacity of m slots at rate p.
func ParamsForBytes(nbytes uint64, slotBits uint8, p float64) (m uint64, k uint32, err error) {
	if slotBits == 0 {
		return 0, 0, errors.Wrap(common.ErrInvalidParameter, "slot width must be positive")
	}
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, 0, errors.Wrapf(common.ErrInvalidParameter, "false positive rate %v outside (0, 1)", p)
	}
	if nbytes > math.MaxUint64/8 {
		return 0, 0, errors.Wrapf(common.ErrInvalidParameter, "%d bytes overflows the bit length", nbytes)
	}
	m = BitsForBytes(nbytes) / uint64(slotBits)
	if m == 0 {
		return 0, 0, errors.Wrapf(common.ErrInvalidParameter,
			"%d bytes cannot hold one %d-bit slot", nbytes, slotBits)
	}
	return m, OptimalHashes(m, OptimalCapacity(m, p)), nil
}

// Params returns the optimal (m, k) for n elements at false positive rate p.
func Params(n uint64, p float64) (m uint64, k uint32, err error) {
	if err := Validate(n, p); err != nil {
		return 0, 0, err
	}
	bits := math.Ceil(-(float64(n) * math.Log(p)) / lnSqr)
	if bits >= maxBits {
		return 0, 0, errors.Wrapf(common.ErrInvalidParameter,
			"n=%d at p=%v needs more bits than a filter can address", n, p)
	}
	m = uint64(bits)
	return m, OptimalHashes(m, n), nil
}

// EffectiveFalsePositiveRate returns (1 - e^(-k*n/m))^k, the expected false
// positive rate of a filter with m bits and k hashes after n insertions.
func EffectiveFalsePositiveRate(m uint64, k uint32, n uint64) float64 {
	if m == 0 {
		return 1
	}
	kf := float64(k)
	return math.Pow(1-math.Exp(-kf*float64(n)/float64(m)), kf)
}
