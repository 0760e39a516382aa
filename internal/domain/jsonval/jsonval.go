// Package jsonval decodes the loosely-typed JSON columns of the legacy
// schema. Stored values may be a structured JSON value, a JSON-encoded
// string of one, or garbage; decoding never fails, malformed input
// yields the empty value.
package jsonval

import (
	"bytes"
	"encoding/json"
)

// DecodeSlice decodes a JSON column holding a list of T.
// Accepts a JSON array, a JSON string containing an array, or NULL.
// Malformed input yields an empty slice.
func DecodeSlice[T any](raw []byte) []T {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err == nil {
		return out
	}

	// Legacy rows double-encode: the column holds a JSON string whose
	// content is the actual array.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			return out
		}
	}

	return []T{}
}

// DecodeMap decodes a JSON column holding an object of T values keyed by
// string. Same leniency rules as DecodeSlice.
func DecodeMap[T any](raw []byte) map[string]T {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return map[string]T{}
	}

	var out map[string]T
	if err := json.Unmarshal(raw, &out); err == nil && out != nil {
		return out
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if err := json.Unmarshal([]byte(s), &out); err == nil && out != nil {
			return out
		}
	}

	return map[string]T{}
}

// DecodeStrings decodes a column holding either a JSON array of strings
// or a single bare string (returned as a one-element slice).
func DecodeStrings(raw []byte) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return []string{}
		}
		// The string itself may be an encoded array.
		var inner []string
		if err := json.Unmarshal([]byte(s), &inner); err == nil {
			return inner
		}
		return []string{s}
	}

	// Not JSON at all: legacy rows store a bare filename.
	return []string{string(raw)}
}

// Encode serializes v for storage in a JSON column. It never returns an
// error for the record shapes used in this codebase; on failure it
// stores the empty value of the same kind.
func Encode(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return data
}
