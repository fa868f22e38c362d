// Package bloomy provides bloom filters: probabilistic set membership that
// answers "possibly present" or "definitely absent" using a fixed number of
// bits, plus a counting variant that supports removal.
//
// Filters are sized once, from an expected element count and a target false
// positive rate or from explicit (m, k), and never resize. To change
// capacity, build a new filter and re-insert.
//
// Filters are not safe for concurrent mutation. Concurrent MayContain and
// Similarity calls are safe while no Add or Remove runs.
package bloomy

import (
	"github.com/rs/zerolog"

	"bloomy/internal/common"
	"bloomy/internal/filter"
	"bloomy/internal/hash"
	"bloomy/internal/sizing"
)

type (
	// Filter is a plain bloom filter supporting union and intersection.
	Filter = filter.BloomFilter

	// CountingFilter is a bloom filter over saturating counters.
	CountingFilter = filter.CountingFilter

	// Hasher is the injected hash capability: bytes and seed to a digest.
	Hasher = hash.Hasher

	// HasherFunc adapts a function to Hasher. Every HasherFunc shares the
	// family name "func"; use NamedHasher when filters hashed by different
	// functions must not be treated as the same family.
	HasherFunc = hash.HasherFunc
)

// NamedHasher adapts a function to a Hasher reporting name as its family.
func NamedHasher(name string, fn func(data []byte, seed uint64) uint64) Hasher {
	return hash.NamedHasher(name, fn)
}

// SetLogger replaces the process-wide logger used by every filter.
func SetLogger(l zerolog.Logger) {
	common.SetLogger(l)
}

// Built-in hashers.
var (
	XXHash  Hasher = hash.XXHash{}
	Murmur3 Hasher = hash.Murmur3{}
	SipHash Hasher = hash.SipHash{}
)

// New creates a filter sized for n elements at false positive rate p.
func New(n uint64, p float64, optFns ...Option) (*Filter, error) {
	m, k, err := sizing.Params(n, p)
	if err != nil {
		return nil, err
	}
	return NewWithParams(m, k, optFns...)
}

// NewWithParams creates a filter of m bits deriving k positions per item.
func NewWithParams(m uint64, k uint32, optFns ...Option) (*Filter, error) {
	_, engine, err := setup(k, optFns)
	if err != nil {
		return nil, err
	}
	return filter.NewBloomFilter(m, engine)
}

// NewWithSize creates a filter occupying nbytes of bit storage, with k
// chosen for the capacity that storage holds at false positive rate p.
func NewWithSize(nbytes uint64, p float64, optFns ...Option) (*Filter, error) {
	m, k, err := sizing.ParamsForBytes(nbytes, 1, p)
	if err != nil {
		return nil, err
	}
	return NewWithParams(m, k, optFns...)
}

// NewCountingWithSize creates a counting filter whose counters occupy
// nbytes at the configured counter width.
func NewCountingWithSize(nbytes uint64, p float64, optFns ...Option) (*CountingFilter, error) {
	opts, err := buildOptions(optFns)
	if err != nil {
		return nil, err
	}
	m, k, err := sizing.ParamsForBytes(nbytes, opts.CounterWidth, p)
	if err != nil {
		return nil, err
	}
	return NewCountingWithParams(m, k, optFns...)
}

// NewCounting creates a counting filter sized for n elements at false
// positive rate p.
func NewCounting(n uint64, p float64, optFns ...Option) (*CountingFilter, error) {
	m, k, err := sizing.Params(n, p)
	if err != nil {
		return nil, err
	}
	return NewCountingWithParams(m, k, optFns...)
}

// NewCountingWithParams creates a counting filter of m counters deriving k
// positions per item.
func NewCountingWithParams(m uint64, k uint32, optFns ...Option) (*CountingFilter, error) {
	opts, engine, err := setup(k, optFns)
	if err != nil {
		return nil, err
	}
	return filter.NewCountingFilter(m, opts.CounterWidth, engine)
}

// Similarity estimates the Jaccard similarity of the sets behind a and b.
func Similarity(a, b *Filter) (float64, error) {
	return filter.Similarity(a, b)
}

// Overlap estimates the overlap coefficient of the sets behind a and b.
func Overlap(a, b *Filter) (float64, error) {
	return filter.Overlap(a, b)
}

// OptimalParams returns the (m, k) New would choose for n and p.
func OptimalParams(n uint64, p float64) (uint64, uint32, error) {
	return sizing.Params(n, p)
}

// EffectiveFalsePositiveRate returns the expected false positive rate of a
// filter with m bits and k hashes after n insertions.
func EffectiveFalsePositiveRate(m uint64, k uint32, n uint64) float64 {
	return sizing.EffectiveFalsePositiveRate(m, k, n)
}

func setup(k uint32, optFns []Option) (Options, *hash.Engine, error) {
	opts, err := buildOptions(optFns)
	if err != nil {
		return opts, nil, err
	}
	engine, err := hash.NewEngine(opts.Hasher, opts.SeedA, opts.SeedB, k)
	if err != nil {
		return opts, nil, err
	}
	return opts, engine, nil
}
