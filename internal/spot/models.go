package spot

import (
	"fmt"
	"time"
)

// CalendarDay identifies a local-timezone calendar date. It is the unit of
// "which day is this price for" throughout the pipeline.
type CalendarDay struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) CalendarDay {
	return CalendarDay{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDay parses a YYYY-MM-DD date string into a CalendarDay.
func ParseDay(s string) (CalendarDay, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return CalendarDay{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return DayOf(t), nil
}

// Start returns local midnight at the beginning of the day.
func (d CalendarDay) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Next returns the following calendar day.
func (d CalendarDay) Next() CalendarDay {
	// time.Date normalizes out-of-range days, so month/year rollover is free.
	return DayOf(time.Date(d.Year, d.Month, d.Day+1, 0, 0, 0, 0, time.UTC))
}

func (d CalendarDay) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// HourlyPrice is one hour of a single day's price series, in cents per kWh.
type HourlyPrice struct {
	Hour  int     `json:"hour"`
	Cents float64 `json:"cents"`
}

// QuarterPrice is one quarter-hour slot of a single day's price series.
// TS is always floored to :00/:15/:30/:45 in the configured local timezone
// and belongs to exactly the requested calendar day.
type QuarterPrice struct {
	TS    time.Time `json:"ts"`
	Cents float64   `json:"cents"`
}

// WindowRow is one row of the rolling forward-price window.
type WindowRow struct {
	TS    time.Time `json:"ts"`
	Label string    `json:"label"`
	Cents float64   `json:"cents"`
	IsNow bool      `json:"isNow"`
}

// ViewModel is the pre-computed structure handed to the presentation layer:
// the price right now, the forward window, and chart axis metadata.
type ViewModel struct {
	CurrentCents *float64    `json:"currentCents"`
	Rows         []WindowRow `json:"rows"`
	AxisMin      float64     `json:"axisMin"`
	AxisMax      float64     `json:"axisMax"`
	AxisStep     float64     `json:"axisStep"`
}

// FloorToQuarter floors t to the nearest earlier 15-minute boundary.
func FloorToQuarter(t time.Time) time.Time {
	return t.Truncate(15 * time.Minute)
}
