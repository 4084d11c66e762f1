package analysis

import (
	"sort"

	"airquality-dashboard/internal/dataset"
)

// MonthlyAggregate is the mean PM2.5 of one month number. Readings of the
// same month in different years fall into the same group; Years says how
// many distinct years were merged.
type MonthlyAggregate struct {
	Month int // 1-12
	Count int
	Years int
	Mean  *float64
}

// MonthlyMeans groups readings by month of year and averages PM2.5 per
// group. The result is ordered by month; months without readings are absent.
func MonthlyMeans(readings []dataset.Reading) []MonthlyAggregate {
	type bucket struct {
		years  map[int]struct{}
		values []float64
	}
	byMonth := make(map[int]*bucket)
	for _, r := range readings {
		m := int(r.Time.Month())
		b, ok := byMonth[m]
		if !ok {
			b = &bucket{years: make(map[int]struct{})}
			byMonth[m] = b
		}
		b.years[r.Time.Year()] = struct{}{}
		if r.PM25 != nil {
			b.values = append(b.values, *r.PM25)
		}
	}

	out := make([]MonthlyAggregate, 0, len(byMonth))
	for m, b := range byMonth {
		out = append(out, MonthlyAggregate{
			Month: m,
			Count: len(b.values),
			Years: len(b.years),
			Mean:  mean(b.values),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
