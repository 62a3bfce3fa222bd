package spot

import (
	"testing"
	"time"
)

func TestRecordCents_UnitHeuristic(t *testing.T) {
	loc := time.UTC

	// Legacy record with a sub-1.0 price is euros and scales to cents.
	r := NewRecord(map[string]any{"price": "0.08"}, loc)
	cents, ok := r.Cents()
	if !ok {
		t.Fatalf("expected a price")
	}
	if cents != 8.0 {
		t.Fatalf("expected 8.0 cents, got %v", cents)
	}

	// Legacy record at or above 1.0 is already cents.
	r = NewRecord(map[string]any{"price": 5.2}, loc)
	cents, _ = r.Cents()
	if cents != 5.2 {
		t.Fatalf("expected 5.2 cents, got %v", cents)
	}

	// v2-style records (startDate marker) pass through unchanged even
	// below 1.0.
	r = NewRecord(map[string]any{"price": 0.513, "startDate": "2025-11-11T22:00:00Z"}, loc)
	cents, _ = r.Cents()
	if cents != 0.513 {
		t.Fatalf("expected 0.513 cents unchanged, got %v", cents)
	}
}

func TestRecordCents_KeyPriorityAndSkipping(t *testing.T) {
	loc := time.UTC

	// cents outranks price.
	r := NewRecord(map[string]any{"cents": 4.0, "price": 9.0}, loc)
	cents, _ := r.Cents()
	if cents != 4.0 {
		t.Fatalf("expected cents key to win, got %v", cents)
	}

	// A non-numeric value under a higher-priority key is skipped, not fatal.
	r = NewRecord(map[string]any{"cents": "n/a", "price": 9.0}, loc)
	cents, ok := r.Cents()
	if !ok || cents != 9.0 {
		t.Fatalf("expected fallthrough to price=9.0, got %v (ok=%v)", cents, ok)
	}

	// No price-bearing key at all.
	r = NewRecord(map[string]any{"hour": 3}, loc)
	if _, ok := r.Cents(); ok {
		t.Fatalf("expected no price")
	}
}

func TestRecordHour_DirectKeyWins(t *testing.T) {
	loc := time.UTC
	day := CalendarDay{Year: 2025, Month: time.November, Day: 12}

	r := NewRecord(map[string]any{"Hour": float64(7), "time": "2025-11-12T09:00:00Z"}, loc)
	h, ok := r.Hour(day, 0)
	if !ok || h != 7 {
		t.Fatalf("expected direct hour 7, got %d (ok=%v)", h, ok)
	}
}

func TestRecordHour_FromTimestampSameDayOnly(t *testing.T) {
	loc := time.UTC
	day := CalendarDay{Year: 2025, Month: time.November, Day: 12}

	r := NewRecord(map[string]any{"timestamp": "2025-11-12T09:30:00Z"}, loc)
	h, ok := r.Hour(day, 99)
	if !ok || h != 9 {
		t.Fatalf("expected hour 9 from timestamp, got %d (ok=%v)", h, ok)
	}

	// Wrong day and an out-of-range ordinal: no usable hour.
	r = NewRecord(map[string]any{"timestamp": "2025-11-13T09:30:00Z"}, loc)
	if _, ok := r.Hour(day, 99); ok {
		t.Fatalf("expected no hour for wrong-day timestamp")
	}

	// Wrong day but a valid ordinal falls back to position.
	if h, ok := r.Hour(day, 5); !ok || h != 5 {
		t.Fatalf("expected ordinal fallback 5, got %d (ok=%v)", h, ok)
	}
}

func TestRecordHour_TimezoneConversion(t *testing.T) {
	loc := time.FixedZone("EET", 2*60*60)
	day := CalendarDay{Year: 2025, Month: time.November, Day: 12}

	// 22:00Z on the 11th is 00:00 local on the 12th.
	r := NewRecord(map[string]any{"start": "2025-11-11T22:00:00Z"}, loc)
	h, ok := r.Hour(day, 99)
	if !ok || h != 0 {
		t.Fatalf("expected local hour 0, got %d (ok=%v)", h, ok)
	}
}

func TestRecordTimestamp_FlooringAndSynthesis(t *testing.T) {
	loc := time.FixedZone("EET", 2*60*60)
	day := CalendarDay{Year: 2025, Month: time.November, Day: 12}

	r := NewRecord(map[string]any{"datetime": "2025-11-12T10:23:45"}, loc)
	ts := r.Timestamp(day, 0, loc)
	want := time.Date(2025, 11, 12, 10, 15, 0, 0, loc)
	if !ts.Equal(want) {
		t.Fatalf("expected %v, got %v", want, ts)
	}

	// Offsetless values are taken to already be local.
	if ts.Location() != loc {
		t.Fatalf("expected local timezone, got %v", ts.Location())
	}

	// No timestamp key: synthesized from position, 15 minutes apart.
	r = NewRecord(map[string]any{"price": 5.0}, loc)
	ts = r.Timestamp(day, 6, loc)
	want = time.Date(2025, 11, 12, 1, 30, 0, 0, loc)
	if !ts.Equal(want) {
		t.Fatalf("expected synthesized %v, got %v", want, ts)
	}
	if r.HasTimestamp() {
		t.Fatalf("synthesized timestamps must not count as timestamp-bearing")
	}
}

func TestRecordSchemaDetection(t *testing.T) {
	loc := time.UTC

	cases := []struct {
		name   string
		fields map[string]any
		want   Schema
	}{
		{"v2", map[string]any{"price": 1.0, "startDate": "2025-11-11T22:00:00Z"}, SchemaV2},
		{"hour", map[string]any{"hour": float64(3), "cents": 2.0}, SchemaHour},
		{"timestamped", map[string]any{"time": "2025-11-11T22:00:00Z", "price": 2.0}, SchemaTimestamped},
		{"positional", map[string]any{"value": 2.0}, SchemaPositional},
	}
	for _, tc := range cases {
		if got := NewRecord(tc.fields, loc).Schema(); got != tc.want {
			t.Fatalf("%s: expected schema %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestDecodeRecords_WrapperAndBareArray(t *testing.T) {
	loc := time.UTC

	wrapped := []byte(`{"prices":[{"price":1.5,"startDate":"2025-11-11T22:00:00Z"}]}`)
	records, err := DecodeRecords(wrapped, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Schema() != SchemaV2 {
		t.Fatalf("unexpected records: %+v", records)
	}

	bare := []byte(`[{"hour":0,"cents":5.0},{"Hour":1,"price":6.0}]`)
	records, err = DecodeRecords(bare, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if _, err := DecodeRecords([]byte(`"garbage"`), loc); err == nil {
		t.Fatalf("expected decode error for non-feed body")
	}
}
