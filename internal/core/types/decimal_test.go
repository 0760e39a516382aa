package types

import (
	"encoding/json"
	"testing"
)

func TestQuantityUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Quantity
		wantErr bool
	}{
		{name: "integer", raw: `5`, want: 50_000},
		{name: "decimal", raw: `2.5`, want: 25_000},
		{name: "string number", raw: `"3.25"`, want: 32_500},
		{name: "string integer", raw: `"7"`, want: 70_000},
		{name: "negative", raw: `-1.5`, want: -15_000},
		{name: "null", raw: `null`, want: 0},
		{name: "extra fraction digits truncated", raw: `1.23456`, want: 12_345},
		{name: "bare fraction", raw: `.5`, want: 5_000},
		{name: "garbage string", raw: `"abc"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quantity
			err := json.Unmarshal([]byte(tt.raw), &q)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal(%q) expected error, got %v", tt.raw, q)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%q) error: %v", tt.raw, err)
			}
			if q != tt.want {
				t.Errorf("Unmarshal(%q) = %d, want %d", tt.raw, q, tt.want)
			}
		})
	}
}

func TestQuantityMarshalJSON(t *testing.T) {
	b, err := json.Marshal(NewQuantityFromFloat64(2.5))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "2.5000" {
		t.Errorf("Marshal = %s, want 2.5000", b)
	}
}

func TestQuantityRoundTrip(t *testing.T) {
	original := NewQuantityFromFloat64(123.4567)
	b, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Quantity
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != original {
		t.Errorf("round trip = %d, want %d", decoded, original)
	}
}

func TestQuantityDivFloor(t *testing.T) {
	tests := []struct {
		q, divisor Quantity
		want       int64
	}{
		{NewQuantityFromInt(250), NewQuantityFromInt(100), 2},
		{NewQuantityFromInt(99), NewQuantityFromInt(100), 0},
		{NewQuantityFromInt(100), NewQuantityFromInt(100), 1},
		{NewQuantityFromInt(100), 0, 0},
		{NewQuantityFromInt(-10), NewQuantityFromInt(5), 0},
	}
	for _, tt := range tests {
		if got := tt.q.DivFloor(tt.divisor); got != tt.want {
			t.Errorf("%s.DivFloor(%s) = %d, want %d", tt.q, tt.divisor, got, tt.want)
		}
	}
}

func TestQuantityMinAndNeg(t *testing.T) {
	a, b := NewQuantityFromInt(3), NewQuantityFromInt(5)
	if got := a.Min(b); got != a {
		t.Errorf("Min = %s, want %s", got, a)
	}
	if got := b.Min(a); got != a {
		t.Errorf("Min = %s, want %s", got, a)
	}
	if got := a.Neg(); got != NewQuantityFromInt(-3) {
		t.Errorf("Neg = %s", got)
	}
	if got := a.Neg().Abs(); got != a {
		t.Errorf("Abs = %s", got)
	}
}

func TestQuantityString(t *testing.T) {
	tests := []struct {
		q    Quantity
		want string
	}{
		{NewQuantityFromInt(5), "5.0000"},
		{NewQuantityFromFloat64(2.5), "2.5000"},
		{NewQuantityFromFloat64(-1.25), "-1.2500"},
		{0, "0.0000"},
	}
	for _, tt := range tests {
		if got := tt.q.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}
