// internal/result/stats.go
package result

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mseiler/irqbench/internal/latency"
)

// Summary is the descriptive-statistics row set for one column: count,
// mean, std, min, quartiles, max. Count is the column length, sentinels
// included, so it always equals the repetition count. Valid counts the
// measurements where a response was observed; mean, std and the order
// statistics are computed over those only, so Valid below Count exposes
// how many triggers went unanswered.
type Summary struct {
	Count  int
	Valid  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe summarizes one column. A column of nothing but sentinels
// yields Valid 0 and zero statistics; Count still reports the column
// length.
func Describe(values []float64) Summary {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if v == latency.NotFound {
			continue
		}
		valid = append(valid, v)
	}
	if len(valid) == 0 {
		return Summary{Count: len(values)}
	}

	sort.Float64s(valid)

	return Summary{
		Count:  len(values),
		Valid:  len(valid),
		Mean:   stat.Mean(valid, nil),
		Std:    stat.StdDev(valid, nil),
		Min:    valid[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, valid, nil),
		Median: stat.Quantile(0.5, stat.Empirical, valid, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, valid, nil),
		Max:    valid[len(valid)-1],
	}
}
