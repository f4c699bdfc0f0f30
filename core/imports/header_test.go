package imports

import "testing"

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "lower and trim", raw: "  Admission No  ", want: "admission no"},
		{name: "parenthetical stripped", raw: "Date of Birth (YYYY-MM-DD)", want: "date of birth"},
		{name: "diacritics folded", raw: "Prénom", want: "prenom"},
		{name: "inner whitespace collapsed", raw: "First   Name", want: "first name"},
		{name: "empty", raw: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeHeader(tt.raw)
			if got != tt.want {
				t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.raw, got, tt.want)
			}
			// normalization must be idempotent
			if again := NormalizeHeader(got); again != got {
				t.Errorf("NormalizeHeader not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestMapColumns(t *testing.T) {
	headers := []string{"Admission No", "First Name", "Notes for the office", "Date of Birth (YYYY-MM-DD)"}
	cols, diags := MapColumns(headers)

	want := ColumnMap{FieldAdmissionNo, FieldFirstName, FieldUnmapped, FieldDateOfBirth}
	if len(cols) != len(want) {
		t.Fatalf("MapColumns() len = %d, want %d", len(cols), len(want))
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("MapColumns()[%d] = %q, want %q", i, cols[i], want[i])
		}
	}

	if len(diags) != 1 {
		t.Fatalf("MapColumns() diags = %v, want 1 unknown-column warning", diags)
	}
	if diags[0].Code != DiagUnknownColumn || diags[0].Column != "Notes for the office" {
		t.Errorf("unexpected diagnostic: %+v", diags[0])
	}
}

// Template output fed back through the canonicalizer must resolve every
// column to a canonical field.
func TestTemplateRoundTrip(t *testing.T) {
	cols, diags := MapColumns(TemplateHeaders())
	if len(diags) != 0 {
		t.Errorf("template headers produced diagnostics: %+v", diags)
	}
	seen := make(map[Field]bool, len(cols))
	for i, fld := range cols {
		if fld == FieldUnmapped {
			t.Errorf("template column %d (%q) did not resolve", i, TemplateHeaders()[i])
			continue
		}
		if seen[fld] {
			t.Errorf("template column %d resolves to duplicate field %q", i, fld)
		}
		seen[fld] = true
	}
	if len(seen) != len(fieldKinds) {
		t.Errorf("template covers %d fields, want %d", len(seen), len(fieldKinds))
	}
}
