package imports

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// ColumnMap maps a column index to the canonical field it feeds, positionally
// aligned to the header row. Unresolved slots hold FieldUnmapped. Built once
// per import and never mutated afterwards.
type ColumnMap []Field

// NormalizeHeader lowercases and trims raw header text, strips any (...)
// annotation (format hints like "(YYYY-MM-DD)"), folds diacritics and
// collapses inner whitespace. It is idempotent: it is applied both when
// declaring aliases and when matching headers.
func NormalizeHeader(raw string) string {
	return normalizeAlias(raw)
}

func normalizeAlias(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = parentheticalRe.ReplaceAllString(s, "")
	s = stripDiacritics(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripDiacritics removes combining marks after NFD decomposition, so
// "Prénom" and "Prenom" resolve through the same alias.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MapColumns resolves a raw header row into a ColumnMap. Unresolved columns
// are reported as warnings and ignored downstream; spreadsheets commonly
// carry operator notes or decorative columns, so this is a tolerated
// condition, not an error.
func MapColumns(headers []string) (ColumnMap, []Diagnostic) {
	cols := make(ColumnMap, len(headers))
	var diags []Diagnostic
	for i, raw := range headers {
		normalized := NormalizeHeader(raw)
		if normalized == "" {
			continue
		}
		fld, ok := aliasTable[normalized]
		if !ok {
			diags = append(diags, Diagnostic{
				Code:    DiagUnknownColumn,
				Column:  raw,
				Message: "unrecognized column ignored",
			})
			continue
		}
		cols[i] = fld
	}
	return cols, diags
}

// Mapped reports whether any column resolved to a canonical field.
func (m ColumnMap) Mapped() bool {
	for _, fld := range m {
		if fld != FieldUnmapped {
			return true
		}
	}
	return false
}
