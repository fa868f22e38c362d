package main

import (
	"fmt"
	"math"

	"bloomy/internal/sizing"
)

func inspectFilter(s *session) {
	f := s.active
	fmt.Printf("m:                 %d\n", f.M())
	fmt.Printf("k:                 %d\n", f.K())
	fmt.Printf("hasher:            %s\n", s.cfg.Hasher)
	fmt.Printf("seeds:             %#x %#x\n", s.cfg.SeedA, s.cfg.SeedB)
	fmt.Printf("inserted:          %d\n", f.Inserted())
	fmt.Printf("approximate count: %.2f\n", f.ApproximateCount())

	switch {
	case s.bloom != nil:
		fmt.Printf("bits set:          %d (%.2f%%)\n", s.bloom.OnesCount(), 100*s.bloom.FillRatio())
		fmt.Printf("est. fp rate:      %.6f\n", s.bloom.EstimatedFalsePositiveRate())
	case s.counting != nil:
		fmt.Printf("counter width:     %d bits\n", s.counting.Width())
	}

	if est := f.ApproximateCount(); !math.IsInf(est, 1) {
		fmt.Printf("model fp rate:     %.6f\n", sizing.EffectiveFalsePositiveRate(f.M(), f.K(), uint64(math.Round(est))))
	}
	switch {
	case s.cfg.Bytes != 0:
		fmt.Printf("sized for:         %d bytes p=%v\n", s.cfg.Bytes, s.cfg.P)
	case s.cfg.M == 0:
		fmt.Printf("sized for:         n=%d p=%v\n", s.cfg.N, s.cfg.P)
	}
	fmt.Println()
}
