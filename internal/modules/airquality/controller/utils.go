package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"airquality-dashboard/internal/dataset"
	"airquality-dashboard/internal/store"
)

// parseRangeQuery reads the optional start and end query values. A nil
// result means the parameter was absent.
func parseRangeQuery(r *http.Request, loc *time.Location) (start, end *time.Time, err error) {
	q := r.URL.Query()

	if s := strings.TrimSpace(q.Get("start")); s != "" {
		t, err := dataset.ParseDate(s, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid 'start': %w", err)
		}
		start = &t
	}
	if s := strings.TrimSpace(q.Get("end")); s != "" {
		t, err := dataset.ParseDate(s, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid 'end': %w", err)
		}
		end = &t
	}
	return start, end, nil
}

// requestedRange resolves the query into the range handed to the service.
// A missing side defaults to the dataset bound; both missing means nil.
func (c *airQualityControllerImpl) requestedRange(ctx context.Context, r *http.Request) (*dataset.DateRange, error) {
	start, end, err := parseRangeQuery(r, c.loc)
	if err != nil {
		return nil, badRequestError{err}
	}
	if start == nil && end == nil {
		return nil, nil
	}

	bounds, err := c.service.Bounds(ctx)
	if errors.Is(err, store.ErrEmpty) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if start == nil {
		start = &bounds.Start
	}
	if end == nil {
		end = &bounds.End
	}
	rng := dataset.NewDateRange(*start, *end)
	return &rng, nil
}

// badRequestError marks errors caused by the query rather than the store.
type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }

func (e badRequestError) Unwrap() error { return e.err }

func isBadRequest(err error) bool {
	var bad badRequestError
	return errors.As(err, &bad)
}
