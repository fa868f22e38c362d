package filter

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"bloomy/internal/common"
	"bloomy/internal/hash"
	"bloomy/internal/sizing"
)

const (
	testSeedA uint64 = 0x9e3779b97f4a7c15
	testSeedB uint64 = 0xc2b2ae3d27d4eb4f
)

func newTestEngine(t *testing.T, k uint32) *hash.Engine {
	t.Helper()
	e, err := hash.NewEngine(hash.XXHash{}, testSeedA, testSeedB, k)
	require.NoError(t, err)
	return e
}

func newTestFilter(t *testing.T, m uint64, k uint32) *BloomFilter {
	t.Helper()
	bf, err := NewBloomFilter(m, newTestEngine(t, k))
	require.NoError(t, err)
	return bf
}

func newSizedFilter(t *testing.T, n uint64, p float64) *BloomFilter {
	t.Helper()
	m, k, err := sizing.Params(n, p)
	require.NoError(t, err)
	return newTestFilter(t, m, k)
}

func key(i int) []byte {
	return []byte(fmt.Sprintf("key-%d", i))
}

func TestNewBloomFilterRejectsInvalidParams(t *testing.T) {
	_, err := NewBloomFilter(0, newTestEngine(t, 3))
	require.True(t, errors.Is(err, common.ErrInvalidParameter))

	_, err = NewBloomFilter(100, nil)
	require.True(t, errors.Is(err, common.ErrInvalidParameter))
}

func TestBloomFilterFalsePositiveRate(t *testing.T) {
	n := uint64(1000)
	p := 0.01 // 1% target false positive rate

	bf := newSizedFilter(t, n, p)

	for i := uint64(0); i < n; i++ {
		key := []byte{byte(i), byte(i >> 8), byte(i >> 16), byte(i >> 24)}
		bf.Add(key)
	}

	// Test a large number of keys that were NOT added
	testCount := 10000
	falsePositives := 0
	for i := uint64(n); i < n+uint64(testCount); i++ {
		key := []byte{byte(i), byte(i >> 8), byte(i >> 16), byte(i >> 24)}
		if bf.MayContain(key) {
			falsePositives++
		}
	}

	observedFP := float64(falsePositives) / float64(testCount)

	// Verify false positive rate is within 3x of target
	maxAcceptableFP := p * 3.0
	require.LessOrEqual(t, observedFP, maxAcceptableFP,
		"False positive rate %.4f exceeds 3x target (%.4f). k=%d, m=%d, n=%d",
		observedFP, maxAcceptableFP, bf.K(), bf.M(), n)

	t.Logf("False positive rate: %.4f (target: %.4f, max: %.4f), k=%d, m=%d",
		observedFP, p, maxAcceptableFP, bf.K(), bf.M())
}

func TestBloomFilterAddAndMayContain(t *testing.T) {
	bf := newTestFilter(t, 1000, 3)

	keys := [][]byte{
		[]byte("key1"),
		[]byte("key2"),
		[]byte("key3"),
		[]byte("test"),
		[]byte("bloom"),
		{},
	}

	for _, key := range keys {
		require.False(t, bf.MayContain(key), "empty filter must not contain %q", key)
	}

	for _, key := range keys {
		bf.Add(key)
	}

	for _, key := range keys {
		require.True(t, bf.MayContain(key), "added key %q should be found", key)
	}
	require.Equal(t, uint64(len(keys)), bf.Inserted())
}

func TestBloomFilterNoFalseNegatives(t *testing.T) {
	bf := newTestFilter(t, 10000, 5)

	keys := make([][]byte, 500)
	for i := range keys {
		keys[i] = []byte{byte(i), byte(i >> 8), byte(i >> 16)}
		bf.Add(keys[i])
		require.True(t, bf.MayContain(keys[i]), "key %d should be found right after Add", i)
	}

	for i, key := range keys {
		require.True(t, bf.MayContain(key), "key %d should be found", i)
	}
}

func TestBloomFilterAddIsIdempotent(t *testing.T) {
	once := newTestFilter(t, 512, 4)
	twice := newTestFilter(t, 512, 4)

	once.Add([]byte("alpha"))
	twice.Add([]byte("alpha"))
	twice.Add([]byte("alpha"))

	require.Empty(t, cmp.Diff(once.Words(), twice.Words()))
	require.Equal(t, uint64(2), twice.Inserted())
}

func TestBloomFilterDeterministic(t *testing.T) {
	a := newTestFilter(t, 4096, 6)
	b := newTestFilter(t, 4096, 6)

	for i := 0; i < 300; i++ {
		a.Add(key(i))
		b.Add(key(i))
	}

	require.Empty(t, cmp.Diff(a.Words(), b.Words()))
	require.True(t, a.Equal(b))
}

func TestBloomFilterFalsePositivesMonotonic(t *testing.T) {
	bf := newSizedFilter(t, 1000, 0.01)

	probes := make([][]byte, 5000)
	for i := range probes {
		probes[i] = []byte(fmt.Sprintf("probe-%d", i))
	}

	prev := 0
	for batch := 0; batch < 20; batch++ {
		for i := 0; i < 250; i++ {
			bf.Add(key(batch*250 + i))
		}

		hits := 0
		for _, p := range probes {
			if bf.MayContain(p) {
				hits++
			}
		}
		require.GreaterOrEqual(t, hits, prev, "false positives dropped after batch %d", batch)
		prev = hits
	}
	require.Positive(t, prev, "a filter at 5x capacity should report false positives")
}

func TestBloomFilterUnion(t *testing.T) {
	a := newSizedFilter(t, 1000, 0.01)
	b := newSizedFilter(t, 1000, 0.01)

	for i := 0; i < 400; i++ {
		a.Add(key(i))
	}
	for i := 400; i < 800; i++ {
		b.Add(key(i))
	}
	aWords, bWords := a.Words(), b.Words()

	u, err := a.Union(b)
	require.NoError(t, err)

	for i := 0; i < 800; i++ {
		require.True(t, u.MayContain(key(i)), "union should contain key %d", i)
	}
	require.Equal(t, uint64(800), u.Inserted())

	// The union equals a single filter fed with both sets
	single := newSizedFilter(t, 1000, 0.01)
	for i := 0; i < 800; i++ {
		single.Add(key(i))
	}
	require.Empty(t, cmp.Diff(single.Words(), u.Words()))

	// Inputs untouched
	require.Empty(t, cmp.Diff(aWords, a.Words()))
	require.Empty(t, cmp.Diff(bWords, b.Words()))
}

func TestBloomFilterIntersect(t *testing.T) {
	a := newSizedFilter(t, 1000, 0.01)
	b := newSizedFilter(t, 1000, 0.01)

	for i := 0; i < 600; i++ {
		a.Add(key(i))
	}
	for i := 300; i < 900; i++ {
		b.Add(key(i))
	}
	aWords := a.Words()

	inter, err := a.Intersect(b)
	require.NoError(t, err)

	for i := 300; i < 600; i++ {
		require.True(t, inter.MayContain(key(i)), "intersection should contain key %d", i)
	}
	require.Equal(t, uint64(600), inter.Inserted())
	require.LessOrEqual(t, inter.OnesCount(), a.OnesCount())
	require.LessOrEqual(t, inter.OnesCount(), b.OnesCount())
	require.Empty(t, cmp.Diff(aWords, a.Words()))
}

func TestBloomFilterIncompatible(t *testing.T) {
	base := newTestFilter(t, 1000, 4)
	otherM := newTestFilter(t, 1001, 4)
	otherK := newTestFilter(t, 1000, 5)

	for _, other := range []*BloomFilter{otherM, otherK} {
		require.False(t, base.IsCompatible(other))

		_, err := base.Union(other)
		require.True(t, errors.Is(err, common.ErrIncompatibleFilters))

		_, err = base.Intersect(other)
		require.True(t, errors.Is(err, common.ErrIncompatibleFilters))

		_, err = Similarity(base, other)
		require.True(t, errors.Is(err, common.ErrIncompatibleFilters))

		_, err = Overlap(base, other)
		require.True(t, errors.Is(err, common.ErrIncompatibleFilters))
	}
}

func TestBloomFilterCrossFamilyWarning(t *testing.T) {
	prev := *common.Logger()
	defer common.SetLogger(prev)

	var buf bytes.Buffer
	common.SetLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	a := newTestFilter(t, 256, 3)
	same := newTestFilter(t, 256, 3)
	otherEngine, err := hash.NewEngine(hash.XXHash{}, 1, 2, 3)
	require.NoError(t, err)
	other, err := NewBloomFilter(256, otherEngine)
	require.NoError(t, err)

	_, err = a.Union(same)
	require.NoError(t, err)
	require.Empty(t, buf.String())

	// Different seeds are still compatible, but flagged
	require.True(t, a.IsCompatible(other))
	require.False(t, a.SameFamily(other))
	u, err := a.Union(other)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "different hash families")

	// The result keeps the receiver's hashing
	a1, a2 := a.Seeds()
	u1, u2 := u.Seeds()
	require.Equal(t, a1, u1)
	require.Equal(t, a2, u2)
}

func TestBloomFilterNamedHashersSeparateFamilies(t *testing.T) {
	prev := *common.Logger()
	defer common.SetLogger(prev)

	var buf bytes.Buffer
	common.SetLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	build := func(name string, mul uint64) *BloomFilter {
		e, err := hash.NewEngine(hash.NamedHasher(name, func(data []byte, seed uint64) uint64 {
			return uint64(len(data))*mul + seed
		}), 1, 2, 3)
		require.NoError(t, err)
		f, err := NewBloomFilter(128, e)
		require.NoError(t, err)
		return f
	}

	a := build("double", 2)
	b := build("triple", 3)
	require.False(t, a.Equal(b), "empty filters from different hashers are not equal")

	_, err := a.Union(b)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "different hash families")
}

func TestBloomFilterApproximateCount(t *testing.T) {
	bf := newSizedFilter(t, 4096, 0.01)
	require.Zero(t, bf.ApproximateCount())

	for i := 0; i < 12; i++ {
		bf.Add(key(i))
	}
	require.InDelta(t, 12, bf.ApproximateCount(), 1)

	for i := 0; i < 2048; i++ {
		bf.Add(key(i))
	}
	require.InDelta(t, 2048, bf.ApproximateCount(), 2048*0.05)

	// The estimate ignores the raw counter, which counts re-inserts
	require.Equal(t, uint64(2060), bf.Inserted())
}

func TestBloomFilterApproximateCountSaturated(t *testing.T) {
	bf, err := NewBloomFilterFromWords(64, newTestEngine(t, 2), []uint64{^uint64(0)})
	require.NoError(t, err)

	require.True(t, math.IsInf(bf.ApproximateCount(), 1))
	require.Equal(t, 1.0, bf.FillRatio())
	require.Equal(t, 1.0, bf.EstimatedFalsePositiveRate())
	require.True(t, bf.MayContain([]byte("anything")))
}

func TestBloomFilterEstimatedFalsePositiveRate(t *testing.T) {
	n := uint64(1000)
	bf := newSizedFilter(t, n, 0.01)
	require.Zero(t, bf.EstimatedFalsePositiveRate())

	for i := 0; i < int(n); i++ {
		bf.Add(key(i))
	}
	require.InDelta(t, 0.01, bf.EstimatedFalsePositiveRate(), 0.003)
}

func TestBloomFilterClone(t *testing.T) {
	bf := newTestFilter(t, 500, 3)
	bf.Add([]byte("alpha"))

	c := bf.Clone()
	require.True(t, bf.Equal(c))
	require.Equal(t, bf.Inserted(), c.Inserted())
	require.Same(t, bf.Engine(), c.Engine())

	c.Add([]byte("beta"))
	bf.Clear()
	require.True(t, c.MayContain([]byte("alpha")))
	require.True(t, c.MayContain([]byte("beta")))
	require.Zero(t, bf.OnesCount())
	require.Equal(t, uint64(2), c.Inserted())
}

func TestBloomFilterClear(t *testing.T) {
	bf := newTestFilter(t, 500, 3)
	bf.Add([]byte("alpha"))
	bf.Add([]byte("beta"))

	bf.Clear()

	require.False(t, bf.MayContain([]byte("alpha")))
	require.Zero(t, bf.OnesCount())
	require.Zero(t, bf.Inserted())
	require.Equal(t, uint64(500), bf.M())
	require.Equal(t, uint32(3), bf.K())
}

func TestBloomFilterFromWords(t *testing.T) {
	original := newTestFilter(t, 500, 3)
	keys := [][]byte{
		[]byte("alpha"),
		[]byte("beta"),
		[]byte("gamma"),
	}
	for _, key := range keys {
		original.Add(key)
	}

	restored, err := NewBloomFilterFromWords(500, newTestEngine(t, 3), original.Words())
	require.NoError(t, err)

	require.Equal(t, original.M(), restored.M(), "m should match")
	require.Equal(t, original.K(), restored.K(), "k should match")
	require.True(t, original.Equal(restored))

	for _, key := range keys {
		require.True(t, restored.MayContain(key), "key %s should be found", key)
	}
}
