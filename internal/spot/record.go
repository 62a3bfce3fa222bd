package spot

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Schema classifies the shape of a raw upstream record. The upstream feeds
// disagree on field names, units and timestamp formats, so each record is
// classified once, at construction, from its marker keys.
type Schema int

const (
	// SchemaPositional carries neither an hour nor a timestamp; the record's
	// position in the feed encodes its slot.
	SchemaPositional Schema = iota
	// SchemaV2 carries startDate/endDate and prices already in cents/kWh.
	SchemaV2
	// SchemaHour carries a direct 0..23 hour field.
	SchemaHour
	// SchemaTimestamped carries a parseable timestamp field.
	SchemaTimestamped
)

// priceKeys is the probe order for price-bearing fields.
var priceKeys = []string{"cents", "cents_per_kwh", "price", "Price", "value", "Value", "EUR_per_kWh"}

// hourKeys and timeKeys are the probe orders for slot-bearing fields.
var (
	hourKeys = []string{"hour", "Hour", "H"}
	timeKeys = []string{"time", "Time", "timestamp", "Timestamp", "datetime", "DateTime", "start", "Start", "startDate"}
)

// offsetless layouts get the configured local timezone attached on parse.
var offsetlessLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// Record is one raw feed entry reduced to the fields this pipeline cares
// about: an optional raw price, an optional hour, an optional timestamp
// (already converted to the local timezone), and a schema tag. Construction
// never fails; absent or garbled fields simply stay absent and the
// normalizers drop the record later.
type Record struct {
	schema   Schema
	rawPrice float64
	hasPrice bool
	hour     int
	hasHour  bool
	ts       time.Time
	hasTS    bool
}

// NewRecord classifies one decoded JSON object. loc is the local timezone
// all timestamps are converted into.
func NewRecord(fields map[string]any, loc *time.Location) Record {
	var r Record

	_, hasStart := fields["startDate"]
	_, hasEnd := fields["endDate"]
	v2 := hasStart || hasEnd

	for _, k := range priceKeys {
		v, ok := fields[k]
		if !ok {
			continue
		}
		if f, ok := parseNumber(v); ok {
			r.rawPrice = f
			r.hasPrice = true
			break
		}
		// Non-numeric value under a price key is skipped, not fatal.
	}

	for _, k := range hourKeys {
		v, ok := fields[k]
		if !ok {
			continue
		}
		if h, ok := parseHour(v); ok {
			r.hour = h
			r.hasHour = true
			break
		}
	}

	for _, k := range timeKeys {
		v, ok := fields[k]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if ts, ok := parseTimestamp(s, loc); ok {
			r.ts = ts
			r.hasTS = true
			break
		}
	}

	switch {
	case v2:
		r.schema = SchemaV2
	case r.hasHour:
		r.schema = SchemaHour
	case r.hasTS:
		r.schema = SchemaTimestamped
	default:
		r.schema = SchemaPositional
	}
	return r
}

// Schema returns the detected schema variant.
func (r Record) Schema() Schema { return r.schema }

// HasTimestamp reports whether the record carried a parseable timestamp
// field of its own (as opposed to a synthesized positional one).
func (r Record) HasTimestamp() bool { return r.hasTS }

// Cents returns the record's price in cents per kWh. v2-style records are
// already in cents and pass through unchanged. Legacy records use the unit
// heuristic: values >= 1.0 are taken as cents, values below as euros. The
// heuristic is ambiguous for genuinely sub-cent prices; that ambiguity
// exists upstream and is preserved here.
func (r Record) Cents() (float64, bool) {
	if !r.hasPrice {
		return 0, false
	}
	if r.schema == SchemaV2 {
		return r.rawPrice, true
	}
	if r.rawPrice >= 1.0 {
		return r.rawPrice, true
	}
	return r.rawPrice * 100, true
}

// Hour returns the record's local hour on day. A direct hour field wins;
// otherwise the timestamp's hour is used when its local date equals day;
// otherwise ordinal stands in when it is itself a valid hour.
func (r Record) Hour(day CalendarDay, ordinal int) (int, bool) {
	if r.hasHour {
		return r.hour, true
	}
	if r.hasTS && DayOf(r.ts) == day {
		return r.ts.Hour(), true
	}
	if ordinal >= 0 && ordinal <= 23 {
		return ordinal, true
	}
	return 0, false
}

// Timestamp returns the record's local timestamp floored to the nearest
// quarter hour. Records without a timestamp of their own get one
// synthesized from their position, so position-only feeds still yield a
// well-formed quarter-hour series.
func (r Record) Timestamp(day CalendarDay, ordinal int, loc *time.Location) time.Time {
	if r.hasTS {
		return FloorToQuarter(r.ts)
	}
	return day.Start(loc).Add(time.Duration(ordinal) * 15 * time.Minute)
}

// DecodeRecords decodes a feed body into records. The body may be a bare
// array of objects or wrapped as {"prices": [...]}.
func DecodeRecords(body []byte, loc *time.Location) ([]Record, error) {
	var wrapper struct {
		Prices []map[string]any `json:"prices"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Prices != nil {
		return recordsFrom(wrapper.Prices, loc), nil
	}

	var list []map[string]any
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}
	return recordsFrom(list, loc), nil
}

func recordsFrom(objects []map[string]any, loc *time.Location) []Record {
	out := make([]Record, 0, len(objects))
	for _, obj := range objects {
		out = append(out, NewRecord(obj, loc))
	}
	return out
}

func parseNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func parseHour(v any) (int, bool) {
	f, ok := parseNumber(v)
	if !ok {
		return 0, false
	}
	h := int(f)
	if float64(h) != f || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

// parseTimestamp parses an ISO-8601 timestamp. A trailing Z or explicit
// offset is honored and the result converted to loc; offsetless values are
// taken to already be in loc.
func parseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	for _, layout := range offsetlessLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
