package spot

import (
	"context"
	"errors"
	"time"
)

// Reporter is the diagnostic sink for real (non-no-data) source failures.
// Implementations must never block or panic.
type Reporter interface {
	Report(context string, err error)
}

// Service reconciles the upstream feeds into canonical hourly and
// quarter-hour series and builds the rolling forward-price view. Sources
// are tried in a fixed precedence: the rolling quarter-hour feed first,
// the per-day feed second. The service never returns an error to its
// callers; exhausted sources surface as an empty series.
type Service struct {
	rolling  RollingSource
	daily    DaySource
	loc      *time.Location
	slots    int
	axisStep float64
	reporter Reporter
}

// NewService creates a Service. slots is the forward window length in
// quarter hours and axisStep the chart axis granularity in cents.
func NewService(rolling RollingSource, daily DaySource, loc *time.Location, slots int, axisStep float64, reporter Reporter) *Service {
	return &Service{
		rolling:  rolling,
		daily:    daily,
		loc:      loc,
		slots:    slots,
		axisStep: axisStep,
		reporter: reporter,
	}
}

// Location returns the local timezone all series are expressed in.
func (s *Service) Location() *time.Location { return s.loc }

// HourlyForDay returns day's hourly series from the first source that
// yields one: the rolling feed bucketed and averaged per hour, then the
// per-day feed normalized directly. Empty means no data available.
func (s *Service) HourlyForDay(ctx context.Context, day CalendarDay) []HourlyPrice {
	hourly, _ := s.hourlyWithRaw(ctx, day)
	return hourly
}

// hourlyWithRaw also hands back the raw records the series came from, so
// the quarter-hour fallback can re-normalize them at finer granularity
// when they carried real timestamps.
func (s *Service) hourlyWithRaw(ctx context.Context, day CalendarDay) ([]HourlyPrice, []Record) {
	if s.rolling != nil {
		records, err := s.rolling.FetchWindow(ctx)
		if err != nil {
			s.classify(s.rolling.Name(), err)
		} else if hours, ok := BucketByLocalDay(records)[day]; ok {
			if hourly := HourlyFromBucket(hours); len(hourly) > 0 {
				return hourly, records
			}
		}
	}

	if s.daily != nil {
		records, err := s.daily.FetchDay(ctx, day)
		if err != nil {
			s.classify(s.daily.Name(), err)
		} else if hourly := NormalizeHourly(records, day); len(hourly) > 0 {
			return hourly, records
		}
	}

	return nil, nil
}

// QuarterForDay returns day's quarter-hour series. The rolling feed's
// native 15-minute granularity is preferred; failing that the hourly
// fallback chain runs, and its raw records are re-normalized per quarter
// when they carried timestamps of their own, or expanded fourfold when
// they did not.
func (s *Service) QuarterForDay(ctx context.Context, day CalendarDay) []QuarterPrice {
	if s.rolling != nil {
		records, err := s.rolling.FetchWindow(ctx)
		if err != nil {
			s.classify(s.rolling.Name(), err)
		} else if quarters := NormalizeQuarterHour(records, day, s.loc); len(quarters) > 0 {
			return quarters
		}
	}

	hourly, raw := s.hourlyWithRaw(ctx, day)
	if len(hourly) == 0 {
		return nil
	}
	if anyTimestamped(raw) {
		if quarters := NormalizeQuarterHour(raw, day, s.loc); len(quarters) > 0 {
			return quarters
		}
	}
	return ExpandHourlyToQuarter(hourly, day, s.loc)
}

// View builds the presentation view-model for now: the current slot price,
// the forward window spanning today into tomorrow, and axis bounds.
func (s *Service) View(ctx context.Context, now time.Time) ViewModel {
	now = now.In(s.loc)
	today := DayOf(now)

	todaySeries := s.QuarterForDay(ctx, today)
	tomorrowSeries := s.QuarterForDay(ctx, today.Next())

	vm := ViewModel{
		Rows:     BuildWindow(todaySeries, tomorrowSeries, now, s.slots),
		AxisStep: s.axisStep,
	}
	if cents, ok := CurrentSlotPrice(todaySeries, now); ok {
		vm.CurrentCents = &cents
	}
	vm.AxisMin, vm.AxisMax = AxisBounds(vm.Rows, s.axisStep)
	return vm
}

// classify routes a source failure: no-data responses fall through
// silently, anything else goes to the diagnostic sink. The chain proceeds
// to the next source either way.
func (s *Service) classify(source string, err error) {
	var fe *FeedError
	if errors.As(err, &fe) && fe.NoData() {
		return
	}
	if s.reporter != nil {
		s.reporter.Report("spot: fetch "+source, err)
	}
}

func anyTimestamped(records []Record) bool {
	for _, r := range records {
		if r.HasTimestamp() {
			return true
		}
	}
	return false
}
