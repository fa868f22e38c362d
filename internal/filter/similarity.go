package filter

import "math"

// Similarity estimates the Jaccard similarity of the key sets behind a and
// b as popcount(a AND b) / popcount(a OR b). Two empty filters are
// identical and yield 1.
func Similarity(a, b *BloomFilter) (float64, error) {
	if err := checkCompatible("similarity", a, b); err != nil {
		return 0, err
	}
	union := a.bitmap.UnionCount(b.bitmap)
	if union == 0 {
		return 1, nil
	}
	return float64(a.bitmap.IntersectCount(b.bitmap)) / float64(union), nil
}

// Overlap estimates the overlap coefficient |A n B| / min(|A|, |B|) from the
// approximate counts of the intersection and of each operand. Two empty
// filters yield 1; one empty filter yields 0. The result is clamped to
// [0, 1].
func Overlap(a, b *BloomFilter) (float64, error) {
	if err := checkCompatible("overlap", a, b); err != nil {
		return 0, err
	}
	ca, cb := a.ApproximateCount(), b.ApproximateCount()
	if ca == 0 && cb == 0 {
		return 1, nil
	}
	smallest := math.Min(ca, cb)
	if smallest == 0 {
		return 0, nil
	}
	inter := estimateCount(a.m, a.engine.K(), a.bitmap.IntersectCount(b.bitmap))
	if math.IsInf(inter, 1) || math.IsInf(smallest, 1) {
		return 1, nil
	}
	return math.Max(0, math.Min(1, inter/smallest)), nil
}
