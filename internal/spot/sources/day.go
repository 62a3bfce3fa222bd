package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pvehvila/spotprice-aggregation/internal/spot"
	"github.com/sony/gobreaker"
)

// DayFeed implements spot.DaySource against a feed queried per calendar
// day. The URL template carries {year} and {monthDay} placeholders, e.g.
// https://example.net/v1/prices/{year}/{monthDay}.json. The response
// schema is not known a priori; records go through the usual
// classification. A 400/404 response means the feed has nothing for that
// day yet.
type DayFeed struct {
	name        string
	urlTemplate string
	loc         *time.Location
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

func NewDayFeed(client *http.Client, urlTemplate string, loc *time.Location) *DayFeed {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "day-feed",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &DayFeed{
		name:        "day-feed",
		urlTemplate: urlTemplate,
		loc:         loc,
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

func (f *DayFeed) Name() string {
	return f.name
}

// URLFor expands the template for one day.
func (f *DayFeed) URLFor(day spot.CalendarDay) string {
	u := strings.ReplaceAll(f.urlTemplate, "{year}", fmt.Sprintf("%04d", day.Year))
	return strings.ReplaceAll(u, "{monthDay}", fmt.Sprintf("%02d-%02d", int(day.Month), day.Day))
}

func (f *DayFeed) FetchDay(ctx context.Context, day spot.CalendarDay) ([]spot.Record, error) {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, f.URLFor(day), nil)
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
