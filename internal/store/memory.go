package store

import (
	"context"
	"sort"

	"airquality-dashboard/internal/dataset"
)

// MemoryStore keeps the dataset as a time-ordered slice. It is never
// mutated after construction, so concurrent reads need no locking.
type MemoryStore struct {
	readings []dataset.Reading
	bounds   dataset.DateRange
	hasData  bool
}

// NewMemoryStore copies readings and orders them by time.
func NewMemoryStore(readings []dataset.Reading) *MemoryStore {
	rs := make([]dataset.Reading, len(readings))
	copy(rs, readings)
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Time.Before(rs[j].Time) })

	bounds, ok := dataset.Bounds(rs)
	return &MemoryStore{readings: rs, bounds: bounds, hasData: ok}
}

func (s *MemoryStore) Bounds(_ context.Context) (dataset.DateRange, error) {
	if !s.hasData {
		return dataset.DateRange{}, ErrEmpty
	}
	return s.bounds, nil
}

func (s *MemoryStore) Range(ctx context.Context, r dataset.DateRange) ([]dataset.Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return dataset.Filter(s.readings, r), nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	return len(s.readings), nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
