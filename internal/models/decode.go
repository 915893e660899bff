package models

import (
	"encoding/json"
	"errors"
	"io"
)

var errNotObject = errors.New("document must be a JSON object")

// DecodeDocument reads one JSON object from r. Integral numbers that fit in
// an int64 decode as int64 so large ids survive a round trip; other numbers
// decode as float64.
func DecodeDocument(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errNotObject
	}
	for k, v := range doc {
		doc[k] = normalizeNumbers(v)
	}
	return doc, nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		// out of float64 range; keep the literal
		return t
	case map[string]any:
		for k, inner := range t {
			t[k] = normalizeNumbers(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = normalizeNumbers(inner)
		}
		return t
	}
	return v
}
