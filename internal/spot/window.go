package spot

import (
	"math"
	"time"
)

// slotTolerance is how far a series entry may sit from the ideal slot
// timestamp and still be used. Upstream floors occasionally disagree by a
// few seconds around day boundaries.
const slotTolerance = 60 * time.Second

// CurrentSlotPrice returns the price of the quarter-hour slot containing
// now, or false when today's series has no exact entry for it.
func CurrentSlotPrice(today []QuarterPrice, now time.Time) (float64, bool) {
	slot := FloorToQuarter(now)
	for _, qp := range today {
		if qp.TS.Equal(slot) {
			return qp.Cents, true
		}
	}
	return 0, false
}

// BuildWindow emits up to slots consecutive quarter-hour rows starting at
// now's slot, crossing from today's series into tomorrow's at local
// midnight. Slots with no matching entry (exact, then nearest within
// slotTolerance) are skipped, so the window may come up short when
// upstream data thins out near day boundaries. The first row is marked as
// the current one.
func BuildWindow(today, tomorrow []QuarterPrice, now time.Time, slots int) []WindowRow {
	start := FloorToQuarter(now)
	todayDay := DayOf(start)

	rows := make([]WindowRow, 0, slots)
	for i := 0; i < slots; i++ {
		ts := start.Add(time.Duration(i) * 15 * time.Minute)
		series := today
		if DayOf(ts) != todayDay {
			series = tomorrow
		}
		cents, ok := lookupSlot(series, ts)
		if !ok {
			continue
		}
		rows = append(rows, WindowRow{
			TS:    ts,
			Label: ts.Format("15:04"),
			Cents: cents,
			IsNow: i == 0,
		})
	}
	return rows
}

// lookupSlot finds the series entry for ts: an exact match wins, otherwise
// the closest entry within slotTolerance.
func lookupSlot(series []QuarterPrice, ts time.Time) (float64, bool) {
	var (
		best     float64
		bestDiff time.Duration = -1
	)
	for _, qp := range series {
		if qp.TS.Equal(ts) {
			return qp.Cents, true
		}
		diff := qp.TS.Sub(ts)
		if diff < 0 {
			diff = -diff
		}
		if diff <= slotTolerance && (bestDiff < 0 || diff < bestDiff) {
			best = qp.Cents
			bestDiff = diff
		}
	}
	if bestDiff < 0 {
		return 0, false
	}
	return best, true
}

// AxisBounds computes chart y-axis bounds rounded outward to multiples of
// step so every row fits with margin. An empty window defaults to [0, step].
func AxisBounds(rows []WindowRow, step float64) (min, max float64) {
	if len(rows) == 0 || step <= 0 {
		if step <= 0 {
			step = 1
		}
		return 0, step
	}
	min = rows[0].Cents
	max = rows[0].Cents
	for _, r := range rows[1:] {
		if r.Cents < min {
			min = r.Cents
		}
		if r.Cents > max {
			max = r.Cents
		}
	}
	min = math.Floor(min/step) * step
	max = math.Ceil(max/step) * step
	if min == max {
		max += step
	}
	return min, max
}
