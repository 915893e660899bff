package models

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Well-known log entry fields.
const (
	FieldTimestamp = "timestamp"
	FieldType      = "type"
	FieldSymptoms  = "symptomsExperienced"

	LogTypeFoodIntake = "food_intake"
	LogTypeSymptom    = "symptom"

	// NoSymptoms is the first symptomsExperienced value of a symptom entry
	// recording that nothing happened.
	NoSymptoms = "Nil"
)

// Caller-supplied string layouts accepted as timestamps, tried in order.
// Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
// 1e11 seconds is in the year 5138; 1e11 milliseconds is March 1973.
const epochMillisThreshold = 1e11

// Timestamp returns the entry's timestamp as a time. It accepts time values,
// the string layouts above, and epoch seconds or milliseconds given as a
// number or a string of digits.
func (d Document) Timestamp() (time.Time, bool) {
	switch v := d[FieldTimestamp].(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v != nil {
			return *v, true
		}
	case string:
		return parseTimestamp(v)
	case float64:
		return epochTime(v), true
	case int64:
		return epochTime(float64(v)), true
	case int:
		return epochTime(float64(v)), true
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return epochTime(f), true
		}
	}
	return time.Time{}, false
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return epochTime(f), true
	}
	return time.Time{}, false
}

func epochTime(v float64) time.Time {
	if math.Abs(v) >= epochMillisThreshold {
		return time.UnixMilli(int64(v)).UTC()
	}
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// TimestampString renders the timestamp the way prompts show it: RFC 3339
// for time and epoch values, verbatim text otherwise, "None" when absent.
func (d Document) TimestampString() string {
	v, ok := d[FieldTimestamp]
	if !ok || v == nil {
		return "None"
	}
	if _, isString := v.(string); !isString {
		if t, ok := d.Timestamp(); ok {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return d.String(FieldTimestamp)
}

// SortByTimestamp orders entries chronologically. Parseable timestamps come
// first in time order, then unparseable ones by their text, then entries
// without a timestamp. The sort is stable.
func SortByTimestamp(entries []Document) {
	rank := func(d Document) int {
		if _, ok := d.Timestamp(); ok {
			return 0
		}
		if d.Has(FieldTimestamp) && d[FieldTimestamp] != nil {
			return 1
		}
		return 2
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := rank(entries[i]), rank(entries[j])
		if ri != rj {
			return ri < rj
		}
		switch ri {
		case 0:
			ti, _ := entries[i].Timestamp()
			tj, _ := entries[j].Timestamp()
			return ti.Before(tj)
		case 1:
			return entries[i].String(FieldTimestamp) < entries[j].String(FieldTimestamp)
		}
		return false
	})
}
