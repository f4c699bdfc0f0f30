package imports

import (
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Generate a template, fill nothing, and feed the bytes back through the
// importer: every column must resolve and the example row must import.
func TestTemplateImportRoundTrip(t *testing.T) {
	f, err := Template()
	if err != nil {
		t.Fatalf("Template(): %v", err)
	}
	buff, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer(): %v", err)
	}

	var got []Candidate
	store := storeFunc(func(ctx context.Context, candidates []Candidate) (BatchResult, error) {
		got = candidates
		return acceptAll(ctx, candidates)
	})

	outcome, err := NewImporter(store).Import(context.Background(), buff, "template.xlsx")
	if err != nil {
		t.Fatalf("Import(): %v", err)
	}

	for _, d := range outcome.Diagnostics {
		if d.Code == DiagUnknownColumn {
			t.Errorf("template column %q did not resolve", d.Column)
		}
	}
	if len(got) != 1 {
		t.Fatalf("store received %d candidates, want the example row", len(got))
	}

	rec := got[0].Record
	if rec.StringField(FieldAdmissionNo) == "" || rec.StringField(FieldFirstName) == "" {
		t.Error("example row must carry the required fields")
	}
	if rec.StringField(FieldDateOfBirth) == "" {
		t.Error("example date of birth should coerce to YYYY-MM-DD form")
	}
}

func TestTemplateShape(t *testing.T) {
	f, err := Template()
	if err != nil {
		t.Fatalf("Template(): %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(TemplateSheetName)
	if err != nil {
		t.Fatalf("GetRows(): %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("template has %d rows, want header + example", len(rows))
	}
	if len(rows[0]) != len(templateColumns) {
		t.Errorf("template header has %d columns, want %d", len(rows[0]), len(templateColumns))
	}

	// the example date must be in the canonical form the header advertises
	for i, col := range templateColumns {
		if col.Field != FieldDateOfBirth {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			t.Fatalf("CoordinatesToCellName(): %v", err)
		}
		v, err := f.GetCellValue(TemplateSheetName, cell)
		if err != nil {
			t.Fatalf("GetCellValue(): %v", err)
		}
		if d, ok := ParseDate(v); !ok || d.String() != v {
			t.Errorf("example dob %q is not in canonical YYYY-MM-DD form", v)
		}
	}
}
