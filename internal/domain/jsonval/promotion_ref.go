package jsonval

import (
	"bytes"
	"encoding/json"
)

// PromotionRef is an order's reference to promotions. The legacy column
// stores either a single id (scalar) or a list of ids (JSON array); both
// forms stay round-trippable so existing rows keep their shape.
type PromotionRef struct {
	ids      []string
	multiple bool
}

// NewSinglePromotionRef references exactly one promotion.
func NewSinglePromotionRef(id string) PromotionRef {
	if id == "" {
		return PromotionRef{}
	}
	return PromotionRef{ids: []string{id}}
}

// NewMultiPromotionRef references a list of promotions.
func NewMultiPromotionRef(ids []string) PromotionRef {
	filtered := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			filtered = append(filtered, id)
		}
	}
	if len(filtered) == 0 {
		return PromotionRef{}
	}
	return PromotionRef{ids: filtered, multiple: true}
}

// IDs returns the referenced promotion ids (never nil).
func (r PromotionRef) IDs() []string {
	if len(r.ids) == 0 {
		return []string{}
	}
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// IsEmpty reports whether no promotion is referenced.
func (r PromotionRef) IsEmpty() bool { return len(r.ids) == 0 }

// IsMultiple reports whether the stored form is an array.
func (r PromotionRef) IsMultiple() bool { return r.multiple }

// Contains reports whether id is referenced.
func (r PromotionRef) Contains(id string) bool {
	for _, v := range r.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Without returns a copy with id removed. The stored form is preserved:
// an array stays an array even with one element left, and an array
// emptied out becomes the empty ref (stored as NULL).
func (r PromotionRef) Without(id string) PromotionRef {
	if !r.Contains(id) {
		return r
	}
	remaining := make([]string, 0, len(r.ids))
	for _, v := range r.ids {
		if v != id {
			remaining = append(remaining, v)
		}
	}
	if len(remaining) == 0 {
		return PromotionRef{}
	}
	return PromotionRef{ids: remaining, multiple: r.multiple}
}

// DecodePromotionRef parses the raw column value. Accepts NULL, a scalar
// id, a JSON array of ids, or a JSON string containing either form.
func DecodePromotionRef(raw []byte) PromotionRef {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return PromotionRef{}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return NewMultiPromotionRef(list)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = string(bytes.TrimSpace([]byte(s)))
		if s == "" {
			return PromotionRef{}
		}
		if s[0] == '[' {
			var inner []string
			if err := json.Unmarshal([]byte(s), &inner); err == nil {
				return NewMultiPromotionRef(inner)
			}
			return PromotionRef{}
		}
		return NewSinglePromotionRef(s)
	}

	// Raw scalar stored without quotes (old MySQL rows).
	return NewSinglePromotionRef(string(raw))
}

// MarshalJSON writes the ref in its canonical stored form:
// null when empty, bare id string for a single ref, array otherwise.
func (r PromotionRef) MarshalJSON() ([]byte, error) {
	switch {
	case len(r.ids) == 0:
		return []byte("null"), nil
	case !r.multiple && len(r.ids) == 1:
		return json.Marshal(r.ids[0])
	default:
		return json.Marshal(r.ids)
	}
}

// UnmarshalJSON accepts the same forms as DecodePromotionRef.
func (r *PromotionRef) UnmarshalJSON(data []byte) error {
	*r = DecodePromotionRef(data)
	return nil
}

// StorageValue returns the value to persist: nil for the empty ref,
// otherwise the canonical JSON bytes.
func (r PromotionRef) StorageValue() any {
	if r.IsEmpty() {
		return nil
	}
	data, _ := r.MarshalJSON()
	return data
}
