package imports

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Coerce converts a raw cell into the typed value for kind. ok=false means
// the field is omitted from the candidate record; coercion itself never
// errors, pushing validation to the required-field gate and the record
// store. Coercion is pure: the same raw value and kind always produce the
// same outcome.
func Coerce(raw interface{}, kind Kind) (interface{}, bool) {
	switch kind {
	case KindInteger:
		return coerceInteger(raw)
	case KindDate:
		if d, ok := ParseDate(raw); ok {
			return d.String(), true
		}
		return nil, false
	case KindEnum, KindString:
		return coerceString(raw)
	default:
		return coerceString(raw)
	}
}

// coerceString trims the value; empty and stringified-nil forms ("null",
// "undefined") are treated as absent, never as empty strings.
func coerceString(raw interface{}) (interface{}, bool) {
	s := strings.TrimSpace(stringify(raw))
	switch strings.ToLower(s) {
	case "", "null", "undefined":
		return nil, false
	}
	return s, true
}

func coerceInteger(raw interface{}) (interface{}, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	s := strings.TrimSpace(stringify(raw))
	if s == "" {
		return nil, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	// excel renders integers as floats ("4.0") often enough to matter
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f), true
	}
	return nil, false
}

func stringify(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return fmt.Sprint(v)
	}
}
