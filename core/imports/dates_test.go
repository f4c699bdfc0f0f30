package imports

import (
	"testing"
	"time"
)

func TestParseDateStrings(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Date
		fail bool
	}{
		{name: "iso", raw: "2020-01-13", want: Date{2020, 1, 13}},
		{name: "iso no tz shifting", raw: "2012-04-17", want: Date{2012, 4, 17}},
		{name: "first group > 12 forces day-first", raw: "13/01/2020", want: Date{2020, 1, 13}},
		{name: "second group > 12 forces month-first", raw: "01/13/2020", want: Date{2020, 1, 13}},
		{name: "ambiguous defaults to day-first", raw: "05/03/2020", want: Date{2020, 3, 5}},
		{name: "dashes accepted", raw: "13-01-2020", want: Date{2020, 1, 13}},
		{name: "single digit groups", raw: "5/3/2020", want: Date{2020, 3, 5}},
		{name: "impossible day", raw: "31/02/2020", fail: true},
		{name: "impossible month", raw: "13/13/2020", fail: true},
		{name: "generic layout", raw: "2 Jan 2006", want: Date{2006, 1, 2}},
		{name: "year below bound", raw: "1805-01-01", fail: true},
		{name: "year above bound", raw: "2101-01-01", fail: true},
		{name: "generic layout outside bounds", raw: "2 Jan 1805", fail: true},
		{name: "garbage", raw: "not a date", fail: true},
		{name: "empty", raw: "", fail: true},
		{name: "numeric string serial", raw: "25569", want: Date{1969, 12, 31}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.raw)
			if tt.fail {
				if ok {
					t.Errorf("ParseDate(%q) = %v, want failure", tt.raw, got)
				}
				return
			}
			if !ok {
				t.Fatalf("ParseDate(%q) failed, want %v", tt.raw, tt.want)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseDateSerials(t *testing.T) {
	tests := []struct {
		name   string
		serial float64
		want   Date
		fail   bool
	}{
		{name: "below phantom leap day", serial: 59, want: Date{1900, 2, 27}},
		{name: "above phantom leap day", serial: 61, want: Date{1900, 2, 28}},
		{name: "epoch day one lands before 1900", serial: 1, fail: true},
		{name: "first in-range serial", serial: 2, want: Date{1900, 1, 1}},
		{name: "fractional time of day ignored", serial: 25569.75, want: Date{1969, 12, 31}},
		{name: "zero rejected", serial: 0, fail: true},
		{name: "negative rejected", serial: -10, fail: true},
		{name: "out of plausible range", serial: 100000, fail: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.serial)
			if tt.fail {
				if ok {
					t.Errorf("ParseDate(%v) = %v, want failure", tt.serial, got)
				}
				return
			}
			if !ok {
				t.Fatalf("ParseDate(%v) failed, want %v", tt.serial, tt.want)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%v) = %v, want %v", tt.serial, got, tt.want)
			}
		})
	}
}

// The phantom 1900-02-29 collapses: serials 59 and 61 land one calendar day
// apart even though the day-counts are two apart.
func TestSerialEpochQuirkGap(t *testing.T) {
	d59, ok := ParseDate(float64(59))
	if !ok {
		t.Fatal("ParseDate(59) failed")
	}
	d61, ok := ParseDate(float64(61))
	if !ok {
		t.Fatal("ParseDate(61) failed")
	}
	t59 := time.Date(d59.Year, time.Month(d59.Month), d59.Day, 0, 0, 0, 0, time.UTC)
	t61 := time.Date(d61.Year, time.Month(d61.Month), d61.Day, 0, 0, 0, 0, time.UTC)
	if gap := t61.Sub(t59); gap != 24*time.Hour {
		t.Errorf("serial 59->61 gap = %v, want 24h", gap)
	}
}

func TestParseDateNative(t *testing.T) {
	got, ok := ParseDate(time.Date(2015, time.June, 9, 13, 30, 0, 0, time.UTC))
	if !ok || got != (Date{2015, 6, 9}) {
		t.Errorf("ParseDate(time.Time) = %v (ok=%v), want 2015-06-09", got, ok)
	}

	if got, ok := ParseDate(time.Time{}); ok {
		t.Errorf("ParseDate(zero time) = %v, want failure", got)
	}

	if got, ok := ParseDate(time.Date(1805, time.January, 1, 0, 0, 0, 0, time.UTC)); ok {
		t.Errorf("ParseDate(native 1805) = %v, want failure", got)
	}
}

func TestDateString(t *testing.T) {
	if s := (Date{2020, 3, 5}).String(); s != "2020-03-05" {
		t.Errorf("Date.String() = %q, want %q", s, "2020-03-05")
	}
}
