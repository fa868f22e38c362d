// Package probe measures the false positive rate a filter actually shows
// against keys that were never inserted.
package probe

import (
	"fmt"
	"io"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"bloomy/internal/common"
	"bloomy/internal/filter"
	"bloomy/internal/sizing"
)

// Report holds one row per sweep batch.
type Report struct {
	Inserted []uint64  // distinct keys inserted after each batch
	Observed []float64 // measured false positive rate after each batch
	Expected []float64 // (1 - e^(-kn/m))^k for the same n

	Mean   float64
	StdDev float64
	Max    float64
}

// Monotonic reports whether the observed rate never decreased between
// batches.
func (r Report) Monotonic() bool {
	for i := 1; i < len(r.Observed); i++ {
		if r.Observed[i] < r.Observed[i-1] {
			return false
		}
	}
	return true
}

// WriteTable prints one row per batch followed by the summary line.
func (r Report) WriteTable(w io.Writer) {
	fmt.Fprintf(w, "%10s %12s %12s\n", "INSERTED", "OBSERVED", "EXPECTED")
	for i := range r.Observed {
		fmt.Fprintf(w, "%10d %12.5f %12.5f\n", r.Inserted[i], r.Observed[i], r.Expected[i])
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "mean=%.5f stddev=%.5f max=%.5f monotonic=%t\n", r.Mean, r.StdDev, r.Max, r.Monotonic())
}

// Keys returns n deterministic keys "<prefix>-<i>".
func Keys(prefix string, n int) [][]byte {
	keys := make([][]byte, n)
	for i := range keys {
		keys[i] = []byte(fmt.Sprintf("%s-%d", prefix, i))
	}
	return keys
}

// Measure returns the fraction of probes f reports as present. Probes are
// assumed never to have been inserted.
func Measure(f filter.Filter, probes [][]byte) float64 {
	if len(probes) == 0 {
		return 0
	}
	hits := 0
	for _, p := range probes {
		if f.MayContain(p) {
			hits++
		}
	}
	return float64(hits) / float64(len(probes))
}

// Sweep inserts batches of batchSize fresh keys into f and measures the
// false positive rate against probes after each batch.
func Sweep(f filter.Filter, batchSize, batches int, probes [][]byte) (Report, error) {
	if batchSize <= 0 || batches <= 0 {
		return Report{}, errors.Wrapf(common.ErrInvalidParameter,
			"sweep needs positive batch size and count, got %d x %d", batchSize, batches)
	}
	if len(probes) == 0 {
		return Report{}, errors.Wrap(common.ErrInvalidParameter, "sweep needs probe keys")
	}

	var r Report
	inserted := 0
	for b := 0; b < batches; b++ {
		for i := 0; i < batchSize; i++ {
			f.Add([]byte(fmt.Sprintf("sweep-%d", inserted)))
			inserted++
		}
		r.Inserted = append(r.Inserted, uint64(inserted))
		r.Observed = append(r.Observed, Measure(f, probes))
		r.Expected = append(r.Expected, sizing.EffectiveFalsePositiveRate(f.M(), f.K(), uint64(inserted)))
	}

	data := stats.Float64Data(r.Observed)
	var err error
	if r.Mean, err = stats.Mean(data); err != nil {
		return r, errors.Wrap(err, "mean of observed rates")
	}
	if r.StdDev, err = stats.StandardDeviation(data); err != nil {
		return r, errors.Wrap(err, "standard deviation of observed rates")
	}
	if r.Max, err = stats.Max(data); err != nil {
		return r, errors.Wrap(err, "max of observed rates")
	}

	common.Logger().Debug().
		Int("batches", batches).
		Int("inserted", inserted).
		Float64("mean", r.Mean).
		Float64("max", r.Max).
		Msg("false positive sweep finished")
	return r, nil
}
