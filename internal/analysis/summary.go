package analysis

import (
	"github.com/montanaflynn/stats"
)

// Summary holds the headline metrics of a daily series.
type Summary struct {
	Days         int // daily rows, including days without data
	ObservedDays int // days with a mean
	MeanPM25     *float64
	Peak         *DailyAggregate
}

// Summarize averages the defined daily means, rounded to two decimals.
func Summarize(daily []DailyAggregate) Summary {
	s := Summary{Days: len(daily)}

	values := make(stats.Float64Data, 0, len(daily))
	for i := range daily {
		d := daily[i]
		if d.Mean == nil {
			continue
		}
		values = append(values, *d.Mean)
		if s.Peak == nil || *d.Mean > *s.Peak.Mean {
			s.Peak = &d
		}
	}
	s.ObservedDays = len(values)
	if len(values) == 0 {
		return s
	}

	m, err := stats.Mean(values)
	if err != nil {
		return s
	}
	if rounded, err := stats.Round(m, 2); err == nil {
		m = rounded
	}
	s.MeanPM25 = &m
	return s
}
