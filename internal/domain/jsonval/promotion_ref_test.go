package jsonval

import (
	"reflect"
	"testing"
)

func TestDecodePromotionRef(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantIDs  []string
		multiple bool
	}{
		{name: "null", raw: `null`, wantIDs: []string{}},
		{name: "scalar id", raw: `"promo-1"`, wantIDs: []string{"promo-1"}},
		{name: "array", raw: `["promo-1","promo-2"]`, wantIDs: []string{"promo-1", "promo-2"}, multiple: true},
		{name: "array in string", raw: `"[\"promo-1\"]"`, wantIDs: []string{"promo-1"}, multiple: true},
		{name: "unquoted scalar", raw: `promo-1`, wantIDs: []string{"promo-1"}},
		{name: "empty string", raw: `""`, wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := DecodePromotionRef([]byte(tt.raw))
			if !reflect.DeepEqual(ref.IDs(), tt.wantIDs) {
				t.Errorf("IDs() = %v, want %v", ref.IDs(), tt.wantIDs)
			}
			if ref.IsMultiple() != tt.multiple {
				t.Errorf("IsMultiple() = %v, want %v", ref.IsMultiple(), tt.multiple)
			}
		})
	}
}

func TestPromotionRefRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "scalar stays scalar", raw: `"promo-1"`, want: `"promo-1"`},
		{name: "array stays array", raw: `["promo-1"]`, want: `["promo-1"]`},
		{name: "empty becomes null", raw: `null`, want: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := DecodePromotionRef([]byte(tt.raw))
			data, err := ref.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("MarshalJSON = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestPromotionRefWithout(t *testing.T) {
	// Removing from a single ref empties it.
	ref := NewSinglePromotionRef("promo-1").Without("promo-1")
	if !ref.IsEmpty() {
		t.Errorf("single ref should be empty after removal")
	}

	// Array form is preserved while non-empty.
	ref = NewMultiPromotionRef([]string{"a", "b"}).Without("a")
	if !ref.IsMultiple() || !reflect.DeepEqual(ref.IDs(), []string{"b"}) {
		t.Errorf("got ids=%v multiple=%v, want [b] true", ref.IDs(), ref.IsMultiple())
	}

	// Emptied array becomes the empty ref, stored as NULL.
	ref = NewMultiPromotionRef([]string{"a"}).Without("a")
	if !ref.IsEmpty() || ref.StorageValue() != nil {
		t.Errorf("emptied array ref should store NULL")
	}

	// Removing an unrelated id is a no-op.
	orig := NewMultiPromotionRef([]string{"a", "b"})
	if got := orig.Without("z"); !reflect.DeepEqual(got.IDs(), orig.IDs()) {
		t.Errorf("Without(unrelated) changed ids: %v", got.IDs())
	}
}
