package spot

import (
	"context"
	"fmt"
	"net/http"
)

// RollingSource abstracts an upstream feed that returns a fixed rolling
// window (e.g. the next 48 hours of quarter prices) regardless of day.
type RollingSource interface {
	Name() string
	FetchWindow(ctx context.Context) ([]Record, error)
}

// DaySource abstracts an upstream feed queried per calendar day.
type DaySource interface {
	Name() string
	FetchDay(ctx context.Context, day CalendarDay) ([]Record, error)
}

// FeedError classifies a failed source call so the orchestrator can decide
// between "this source has no data for this day" and a real failure,
// instead of pattern-matching on generic errors.
type FeedError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *FeedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *FeedError) Unwrap() error { return e.Err }

// NoData reports whether the failure means the source simply has nothing
// for the requested day. Such failures are expected and never reported.
func (e *FeedError) NoData() bool {
	return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusNotFound
}
