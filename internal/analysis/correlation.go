package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"airquality-dashboard/internal/dataset"
)

var (
	ErrInsufficientData = errors.New("fewer than two complete pairs")
	ErrZeroVariance     = errors.New("series has zero variance")
	ErrLengthMismatch   = errors.New("series lengths differ")
)

// Correlation is the Pearson coefficient between wind speed and PM2.5.
// When Defined is false, R is meaningless and Reason says why.
type Correlation struct {
	R       float64
	Pairs   int
	Defined bool
	Reason  error
}

// Pearson returns the Pearson product-moment correlation of x and y.
func Pearson(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, ErrLengthMismatch
	}
	if len(x) < 2 {
		return 0, ErrInsufficientData
	}
	if constant(x) || constant(y) {
		return 0, ErrZeroVariance
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0, ErrZeroVariance
	}
	return math.Max(-1, math.Min(1, r)), nil
}

// WindPM25Correlation correlates wind speed with PM2.5 over the readings
// where both values are present.
func WindPM25Correlation(readings []dataset.Reading) Correlation {
	wind := make([]float64, 0, len(readings))
	pm := make([]float64, 0, len(readings))
	for _, r := range readings {
		if r.WindSpeed == nil || r.PM25 == nil {
			continue
		}
		wind = append(wind, *r.WindSpeed)
		pm = append(pm, *r.PM25)
	}

	c := Correlation{Pairs: len(wind)}
	r, err := Pearson(wind, pm)
	if err != nil {
		c.Reason = err
		return c
	}
	c.R = r
	c.Defined = true
	return c
}

func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
