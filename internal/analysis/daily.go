// Package analysis aggregates PM2.5 readings. Every function is pure: the
// same input always yields the same output and nothing is cached.
package analysis

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"airquality-dashboard/internal/dataset"
)

// DailyAggregate is the mean PM2.5 of one calendar day.
type DailyAggregate struct {
	Date  time.Time
	Rows  int      // readings on the day
	Count int      // readings with a PM2.5 value
	Mean  *float64 // nil when Count is zero
}

// DailyMeans resamples readings to calendar days from the first to the last
// day of the input. Days without any reading are kept with a nil Mean.
func DailyMeans(readings []dataset.Reading) []DailyAggregate {
	out := make([]DailyAggregate, 0)
	bounds, ok := dataset.Bounds(readings)
	if !ok {
		return out
	}

	type bucket struct {
		rows   int
		values []float64
	}
	byDay := make(map[string]*bucket)
	for _, r := range readings {
		key := r.Time.Format(dataset.DateLayout)
		b, ok := byDay[key]
		if !ok {
			b = &bucket{}
			byDay[key] = b
		}
		b.rows++
		if r.PM25 != nil {
			b.values = append(b.values, *r.PM25)
		}
	}

	for d := bounds.Start; !d.After(bounds.End); d = d.AddDate(0, 0, 1) {
		agg := DailyAggregate{Date: d}
		if b, ok := byDay[d.Format(dataset.DateLayout)]; ok {
			agg.Rows = b.rows
			agg.Count = len(b.values)
			agg.Mean = mean(b.values)
		}
		out = append(out, agg)
	}
	return out
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := stat.Mean(values, nil)
	return &m
}
