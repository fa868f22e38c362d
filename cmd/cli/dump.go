package main

import (
	"fmt"
	"math/bits"
)

// dumpFilter prints up to limit occupied slots: set bit positions for a
// plain filter, non-zero counters for a counting filter.
func dumpFilter(s *session, limit int) {
	fmt.Printf("%-10s %s\n", "SLOT", "VALUE")
	fmt.Println()

	shown := 0
	switch {
	case s.bloom != nil:
		for w, word := range s.bloom.Words() {
			for word != 0 && shown < limit {
				bit := bits.TrailingZeros64(word)
				fmt.Printf("%-10d %d\n", w*64+bit, 1)
				word &= word - 1
				shown++
			}
		}
	case s.counting != nil:
		for i := uint64(0); i < s.counting.M() && shown < limit; i++ {
			if v := s.counting.Counter(i); v != 0 {
				fmt.Printf("%-10d %d\n", i, v)
				shown++
			}
		}
	}

	fmt.Println()
	fmt.Printf("Shown slots: %d (limit %d)\n", shown, limit)
}
