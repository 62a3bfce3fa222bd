package sources

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pvehvila/spotprice-aggregation/internal/spot"
	"github.com/sony/gobreaker"
)

// RollingFeed implements spot.RollingSource against a feed that returns a
// rolling multi-day window of quarter-hour prices as
// {"prices":[{"price":..,"startDate":"..Z","endDate":"..Z"}]}.
// Prices are already cents/kWh; timestamps are UTC and converted to the
// configured local timezone during record classification.
type RollingFeed struct {
	name    string
	url     string
	loc     *time.Location
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewRollingFeed(client *http.Client, url string, loc *time.Location) *RollingFeed {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "rolling-feed",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &RollingFeed{
		name: "rolling-feed",
		url:  url,
		loc:  loc,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (f *RollingFeed) Name() string {
	return f.name
}

func (f *RollingFeed) FetchWindow(ctx context.Context) ([]spot.Record, error) {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, f.url, nil)
	}

	resp, err := doRequestWithResilience(ctx, f.httpCfg, f.circuit, buildRequest)
	if err != nil {
		return nil, &spot.FeedError{Source: f.name, StatusCode: statusCode(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &spot.FeedError{Source: f.name, Err: err}
	}

	records, err := spot.DecodeRecords(body, f.loc)
	if err != nil {
		return nil, &spot.FeedError{Source: f.name, Err: err}
	}
	return records, nil
}
