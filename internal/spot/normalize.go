package spot

import (
	"sort"
	"time"
)

// NormalizeHourly reduces a raw feed to a deduplicated, hour-ascending
// price series for one calendar day. Records that yield no hour or no
// price are skipped; for duplicate hours the first occurrence wins.
func NormalizeHourly(records []Record, day CalendarDay) []HourlyPrice {
	byHour := make(map[int]float64, 24)
	for i, r := range records {
		hour, ok := r.Hour(day, i)
		if !ok || hour < 0 || hour > 23 {
			continue
		}
		cents, ok := r.Cents()
		if !ok {
			continue
		}
		if _, dup := byHour[hour]; dup {
			continue
		}
		byHour[hour] = cents
	}

	out := make([]HourlyPrice, 0, len(byHour))
	for h, c := range byHour {
		out = append(out, HourlyPrice{Hour: h, Cents: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// NormalizeQuarterHour reduces a raw feed to a deduplicated, quarter-aligned
// series restricted to exactly day. This is also how a multi-day rolling
// feed gets cut down to a single day: records whose local date differs are
// dropped. First occurrence wins on duplicate timestamps.
func NormalizeQuarterHour(records []Record, day CalendarDay, loc *time.Location) []QuarterPrice {
	byTS := make(map[time.Time]float64, len(records))
	for i, r := range records {
		ts := r.Timestamp(day, i, loc)
		if DayOf(ts) != day {
			continue
		}
		cents, ok := r.Cents()
		if !ok {
			continue
		}
		if _, dup := byTS[ts]; dup {
			continue
		}
		byTS[ts] = cents
	}

	out := make([]QuarterPrice, 0, len(byTS))
	for ts, c := range byTS {
		out = append(out, QuarterPrice{TS: ts, Cents: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TS.Before(out[j].TS) })
	return out
}

// ExpandHourlyToQuarter synthesizes a quarter-hour series from an hourly
// one by repeating each hour's price across its four quarters. Used only
// when a source has no native quarter-hour data.
func ExpandHourlyToQuarter(hourly []HourlyPrice, day CalendarDay, loc *time.Location) []QuarterPrice {
	start := day.Start(loc)
	out := make([]QuarterPrice, 0, len(hourly)*4)
	for _, hp := range hourly {
		base := start.Add(time.Duration(hp.Hour) * time.Hour)
		for q := 0; q < 4; q++ {
			out = append(out, QuarterPrice{
				TS:    base.Add(time.Duration(q) * 15 * time.Minute),
				Cents: hp.Cents,
			})
		}
	}
	return out
}

// BucketByLocalDay groups a rolling multi-day feed by local calendar day
// and, within a day, by local hour, collecting every quarter-level price
// that fell in that hour. Records lacking a timestamp or price are skipped.
func BucketByLocalDay(records []Record) map[CalendarDay]map[int][]float64 {
	buckets := make(map[CalendarDay]map[int][]float64)
	for _, r := range records {
		if !r.HasTimestamp() {
			continue
		}
		cents, ok := r.Cents()
		if !ok {
			continue
		}
		ts := r.Timestamp(CalendarDay{}, 0, nil) // floored local time from the record itself
		day := DayOf(ts)
		hours, ok := buckets[day]
		if !ok {
			hours = make(map[int][]float64, 24)
			buckets[day] = hours
		}
		hours[ts.Hour()] = append(hours[ts.Hour()], cents)
	}
	return buckets
}

// HourlyFromBucket averages one day's bucketed quarter prices into an
// hourly series. Normally each hour holds four samples, but fewer are
// tolerated; the mean is taken over whatever landed there.
func HourlyFromBucket(hours map[int][]float64) []HourlyPrice {
	out := make([]HourlyPrice, 0, len(hours))
	for h, samples := range hours {
		if len(samples) == 0 {
			continue
		}
		var sum float64
		for _, s := range samples {
			sum += s
		}
		out = append(out, HourlyPrice{Hour: h, Cents: sum / float64(len(samples))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}
