package service

import (
	"context"
	"errors"
	"fmt"

	"airquality-dashboard/internal/analysis"
	"airquality-dashboard/internal/dataset"
	"airquality-dashboard/internal/store"
)

// Report is everything the dashboard shows for one date range. It is
// recomputed from the store on every call.
type Report struct {
	// Bounds is the full dataset range; HasData is false when the store is empty.
	Bounds  dataset.DateRange
	HasData bool
	// Range is the requested range clamped to Bounds. It may be empty.
	Range    dataset.DateRange
	Readings int

	Daily       []analysis.DailyAggregate
	Monthly     []analysis.MonthlyAggregate
	Correlation analysis.Correlation
	Summary     analysis.Summary
}

// Empty reports whether no reading fell inside the range.
func (r Report) Empty() bool {
	return r.Readings == 0
}

type Service struct {
	store store.ReadingStore
}

func NewService(s store.ReadingStore) *Service {
	return &Service{store: s}
}

// Bounds returns the dataset range used for default date inputs.
func (s *Service) Bounds(ctx context.Context) (dataset.DateRange, error) {
	return s.store.Bounds(ctx)
}

// Report filters the dataset to requested (nil means the whole dataset) and
// aggregates it. A range outside the data or with start after end yields an
// empty report, not an error.
func (s *Service) Report(ctx context.Context, requested *dataset.DateRange) (Report, error) {
	bounds, err := s.store.Bounds(ctx)
	if errors.Is(err, store.ErrEmpty) {
		return emptyReport(dataset.DateRange{}, false, requested), nil
	}
	if err != nil {
		return Report{}, fmt.Errorf("dataset bounds: %w", err)
	}

	effective := bounds
	if requested != nil {
		effective = requested.Clamp(bounds)
	}
	if effective.Empty() {
		return emptyReport(bounds, true, requested), nil
	}

	readings, err := s.store.Range(ctx, effective)
	if err != nil {
		return Report{}, fmt.Errorf("readings %s: %w", effective, err)
	}

	daily := analysis.DailyMeans(readings)
	return Report{
		Bounds:      bounds,
		HasData:     true,
		Range:       effective,
		Readings:    len(readings),
		Daily:       daily,
		Monthly:     analysis.MonthlyMeans(readings),
		Correlation: analysis.WindPM25Correlation(readings),
		Summary:     analysis.Summarize(daily),
	}, nil
}

func emptyReport(bounds dataset.DateRange, hasData bool, requested *dataset.DateRange) Report {
	r := Report{
		Bounds:      bounds,
		HasData:     hasData,
		Daily:       []analysis.DailyAggregate{},
		Monthly:     []analysis.MonthlyAggregate{},
		Correlation: analysis.WindPM25Correlation(nil),
		Summary:     analysis.Summarize(nil),
	}
	if requested != nil {
		r.Range = *requested
	}
	return r
}
