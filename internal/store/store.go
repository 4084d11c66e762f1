// Package store holds the loaded dataset and answers date-range queries
// over it. Stores are filled once at startup and read-only afterwards.
package store

import (
	"context"
	"errors"

	"airquality-dashboard/internal/dataset"
)

// ErrEmpty is returned by Bounds when the store holds no readings.
var ErrEmpty = errors.New("store has no readings")

type ReadingStore interface {
	Bounds(ctx context.Context) (dataset.DateRange, error)
	Range(ctx context.Context, r dataset.DateRange) ([]dataset.Reading, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}
