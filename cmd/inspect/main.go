package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"bloomy"
	"bloomy/internal/hash"
	"bloomy/internal/probe"
	"bloomy/internal/sizing"
)

func main() {
	n := flag.Uint64P("n", "n", 1000, "expected number of items")
	p := flag.Float64P("p", "p", 0.01, "target false positive rate")
	hasherName := flag.String("hasher", "xxhash", "hash function used by --sweep: xxhash, murmur3 or siphash")
	sweep := flag.Int("sweep", 0, "insert this many batches of n/10 items and report measured false positive rates")
	probes := flag.Int("probes", 10000, "never-inserted keys used to measure false positives")
	nbytes := flag.Uint64("bytes", 0, "size for this many bytes of storage instead of --n")
	flag.Parse()

	var (
		m   uint64
		k   uint32
		err error
	)
	if *nbytes != 0 {
		m, k, err = sizing.ParamsForBytes(*nbytes, 1, *p)
		if err == nil {
			*n = sizing.OptimalCapacity(m, *p)
		}
	} else {
		m, k, err = sizing.Params(*n, *p)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid parameters: %v\n", err)
		os.Exit(1)
	}

	if *nbytes != 0 {
		fmt.Printf("Sizing for %d bytes at p=%v (holds n=%d)\n", *nbytes, *p, *n)
	} else {
		fmt.Printf("Sizing for n=%d p=%v\n", *n, *p)
	}
	fmt.Println()
	fmt.Printf("bits (m):          %d\n", m)
	fmt.Printf("bytes:             %d\n", (m+7)/8)
	fmt.Printf("bits per item:     %.2f\n", float64(m)/float64(*n))
	fmt.Printf("hashes (k):        %d\n", k)
	fmt.Printf("effective fp rate: %.6f\n", sizing.EffectiveFalsePositiveRate(m, k, *n))
	fmt.Printf("capacity at p:     %d\n", sizing.OptimalCapacity(m, *p))

	if *sweep <= 0 {
		return
	}

	h, err := hash.ByName(*hasherName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid hasher: %v\n", err)
		os.Exit(1)
	}
	f, err := bloomy.NewWithParams(m, k, bloomy.WithHasher(h))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build filter: %v\n", err)
		os.Exit(1)
	}

	batch := int(max(*n/10, 1))
	r, err := probe.Sweep(f, batch, *sweep, probe.Keys("probe", *probes))
	if err != nil {
		fmt.Fprintf(os.Stderr, "sweep failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Sweep: %d batches of %d items, %d probes, hasher=%s\n", *sweep, batch, *probes, h.Name())
	fmt.Println()
	r.WriteTable(os.Stdout)
}
