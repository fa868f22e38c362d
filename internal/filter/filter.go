package filter

import (
	"math"

	"github.com/pkg/errors"

	"bloomy/internal/common"
	"bloomy/internal/hash"
)

// estimateCount inverts the expected occupancy of a filter with m slots and
// k positions per key: -(m/k) * ln(1 - occupied/m). A fully occupied filter
// yields +Inf.
func estimateCount(m uint64, k uint32, occupied uint64) float64 {
	if m == 0 || k == 0 || occupied == 0 {
		return 0
	}
	mf := float64(m)
	return -(mf / float64(k)) * math.Log(1-float64(occupied)/mf)
}

// checkCompatible requires equal m and k. Seeds are not compared; see
// warnCrossFamily.
func checkCompatible(op string, a, b Filter) error {
	if a.M() != b.M() || a.K() != b.K() {
		return errors.Wrapf(common.ErrIncompatibleFilters,
			"%s: m=%d k=%d vs m=%d k=%d", op, a.M(), a.K(), b.M(), b.K())
	}
	return nil
}

// warnCrossFamily logs when two compatible operands hash with different
// seeds or hashers. The bitwise result is well defined, but keys are placed
// differently in each operand, so membership in the result only holds under
// the receiver's hashing for keys inserted into the receiver.
func warnCrossFamily(op string, a, b *hash.Engine) {
	if a.SameFamily(b) {
		return
	}
	seedA1, seedB1 := a.Seeds()
	seedA2, seedB2 := b.Seeds()
	common.Logger().Warn().
		Str("op", op).
		Str("hasher", a.Hasher().Name()).
		Str("other_hasher", b.Hasher().Name()).
		Uint64("seed_a", seedA1).
		Uint64("seed_b", seedB1).
		Uint64("other_seed_a", seedA2).
		Uint64("other_seed_b", seedB2).
		Msg("combining filters from different hash families")
}
