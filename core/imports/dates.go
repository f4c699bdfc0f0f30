package imports

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date is a canonical calendar date. Month is 1-12.
type Date struct {
	Year  int
	Month int
	Day   int
}

// String renders the date in the normalized YYYY-MM-DD form stored in
// candidate records.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Spreadsheet serial dates count days from this epoch. The encoding
// inherits the 1900 leap-year bug: serial 60 is the nonexistent 1900-02-29,
// so serials >= 60 are decremented by one before conversion.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const (
	minYear = 1900
	maxYear = 2100

	// Serials outside (0, 100000) are not plausible calendar dates and are
	// rejected rather than silently coerced.
	maxSerial = 100000
)

var (
	isoDateRe   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	slashDateRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	numericRe   = regexp.MustCompile(`^\d+(\.\d+)?$`)

	// last-resort layouts for free-form values
	genericLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006/01/02",
		"2006-1-2",
		"2 Jan 2006",
		"Jan 2, 2006",
		"January 2, 2006",
	}
)

// ParseDate converts a raw cell value into a calendar date. Inputs may be a
// native date value (time.Time), a spreadsheet day-count serial, or a
// string. ok is false when the value cannot be read as a plausible date;
// callers then omit the field rather than defaulting it.
func ParseDate(raw interface{}) (Date, bool) {
	switch v := raw.(type) {
	case time.Time:
		return parseNative(v)
	case float64:
		return parseSerial(v)
	case float32:
		return parseSerial(float64(v))
	case int:
		return parseSerial(float64(v))
	case int64:
		return parseSerial(float64(v))
	case string:
		return parseDateString(v)
	case fmt.Stringer:
		return parseDateString(v.String())
	default:
		return Date{}, false
	}
}

func parseNative(t time.Time) (Date, bool) {
	if t.IsZero() {
		return Date{}, false
	}
	y, m, d := t.Date()
	return gated(Date{Year: y, Month: int(m), Day: d})
}

func parseSerial(serial float64) (Date, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return Date{}, false
	}
	days := int(serial) // fractional part is time of day; irrelevant here
	if days <= 0 || days >= maxSerial {
		return Date{}, false
	}
	if days >= 60 {
		days-- // phantom 1900-02-29
	}
	t := serialEpoch.AddDate(0, 0, days)
	y, m, d := t.Date()
	return gated(Date{Year: y, Month: int(m), Day: d})
}

func parseDateString(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		return newDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	if m := slashDateRe.FindStringSubmatch(s); m != nil {
		return disambiguate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	// serials survive excel round trips as bare numeric strings
	if numericRe.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return parseSerial(f)
		}
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return gated(Date{Year: y, Month: int(m), Day: d})
		}
	}
	return Date{}, false
}

// disambiguate resolves a D/M/YYYY vs M/D/YYYY reading of "a/b/year".
// The tie-break order is deliberate and load-bearing:
//  1. a > 12: a must be the day (day-first).
//  2. b > 12: b must be the day (month-first).
//  3. both ambiguous: day-first (the locale convention), falling back to
//     month-first when the day-first reading is not a real calendar date.
func disambiguate(a, b, year int) (Date, bool) {
	if a > 12 {
		return newDate(year, b, a)
	}
	if b > 12 {
		return newDate(year, a, b)
	}
	if d, ok := newDate(year, b, a); ok {
		return d, true
	}
	return newDate(year, a, b)
}

// newDate validates that y-m-d is a real calendar date within the accepted
// year range. time.Date normalizes overflow (Feb 30 -> Mar 2), so a
// mismatched round trip means the components were not a real date.
func newDate(y, m, d int) (Date, bool) {
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return Date{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	ty, tm, td := t.Date()
	if ty != y || int(tm) != m || td != d {
		return Date{}, false
	}
	return gated(Date{Year: y, Month: m, Day: d})
}

// gated rejects any candidate year outside [1900, 2100], guarding against
// "successful" parses that produce epoch-zero garbage.
func gated(d Date) (Date, bool) {
	if d.Year < minYear || d.Year > maxYear {
		return Date{}, false
	}
	return d, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
