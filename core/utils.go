package core

import "strings"

// CleanString returns s with surrounding whitespace removed, lowercased
// when requested.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}
