package models

import (
	"fmt"
	"strings"
)

// Document is a schema-less record as stored in the document store. Values
// are strings, int64 or float64 numbers, booleans, []any, nested maps or
// time.Time.
type Document map[string]any

// Clone returns a shallow copy of d.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Merge copies the top-level keys of patch into d.
func (d Document) Merge(patch Document) {
	for k, v := range patch {
		d[k] = v
	}
}

// Has reports whether key is present, even with a nil value.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// String returns the value at key rendered as text, or "" when absent.
func (d Document) String(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// StringOr is String with a fallback for absent or empty values.
func (d Document) StringOr(key, fallback string) string {
	if s := d.String(key); s != "" {
		return s
	}
	return fallback
}

// Strings returns the value at key as a string slice. Scalars become a
// single-element slice; non-string elements are formatted.
func (d Document) Strings(key string) []string {
	switch v := d[key].(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprint(item))
			}
		}
		return out
	case string:
		return []string{v}
	default:
		return []string{fmt.Sprint(v)}
	}
}

// JoinStrings renders the list at key as "a, b, c".
func (d Document) JoinStrings(key string) string {
	return strings.Join(d.Strings(key), ", ")
}
