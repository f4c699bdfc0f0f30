package imports

import "testing"

func testColumnMap(t *testing.T, headers ...string) ColumnMap {
	t.Helper()
	cols, _ := MapColumns(headers)
	return cols
}

func TestAssembleRequiredFieldGate(t *testing.T) {
	cols := testColumnMap(t, "Admission No", "First Name", "Last Name")
	rows := [][]string{
		{"ADM-1", "Amani", "Kabongo"},
		{"", "Ghost", ""},     // no admission number
		{"ADM-3", "", "Solo"}, // no first name
		{"ADM-4", "Neema", ""},
	}

	asm := Assemble(cols, rows)

	if asm.TotalRows != 4 {
		t.Errorf("TotalRows = %d, want 4", asm.TotalRows)
	}
	if asm.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", asm.Skipped)
	}
	if len(asm.Candidates) != 2 {
		t.Fatalf("Candidates = %d, want 2", len(asm.Candidates))
	}
	if asm.Candidates[0].Row != 2 || asm.Candidates[1].Row != 5 {
		t.Errorf("candidate rows = %d, %d; want 2, 5", asm.Candidates[0].Row, asm.Candidates[1].Row)
	}
	if len(asm.Diags) != 2 {
		t.Fatalf("Diags = %+v, want 2 skipped-row diagnostics", asm.Diags)
	}
	for _, d := range asm.Diags {
		if d.Code != DiagSkippedRow {
			t.Errorf("diagnostic code = %q, want %q", d.Code, DiagSkippedRow)
		}
	}
	if asm.Diags[0].Row != 3 || asm.Diags[1].Row != 4 {
		t.Errorf("skipped rows = %d, %d; want 3, 4", asm.Diags[0].Row, asm.Diags[1].Row)
	}
}

func TestAssembleBlankRowsInvisible(t *testing.T) {
	cols := testColumnMap(t, "Admission No", "First Name")
	rows := [][]string{
		{"ADM-1", "Amani"},
		{"", ""},
		{"   ", ""},
		{},
	}

	asm := Assemble(cols, rows)

	if asm.TotalRows != 1 {
		t.Errorf("TotalRows = %d, want 1 (blank rows are invisible)", asm.TotalRows)
	}
	if asm.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", asm.Skipped)
	}
	if len(asm.Candidates) != 1 {
		t.Errorf("Candidates = %d, want 1", len(asm.Candidates))
	}
}

// A field-level parse failure omits the field; the row is still assembled
// when the required fields are present.
func TestAssembleFieldLevelFailure(t *testing.T) {
	cols := testColumnMap(t, "Admission No", "First Name", "Date of Birth (YYYY-MM-DD)", "Roll No")
	rows := [][]string{
		{"ADM-1", "Amani", "2012-04-17", "23"},
		{"ADM-2", "Neema", "1805-01-01", "xx"},
	}

	asm := Assemble(cols, rows)
	if len(asm.Candidates) != 2 {
		t.Fatalf("Candidates = %d, want 2", len(asm.Candidates))
	}

	first := asm.Candidates[0].Record
	if first[FieldDateOfBirth] != "2012-04-17" {
		t.Errorf("dob = %v, want 2012-04-17", first[FieldDateOfBirth])
	}
	if first[FieldRollNo] != 23 {
		t.Errorf("roll no = %v, want 23", first[FieldRollNo])
	}

	second := asm.Candidates[1].Record
	if _, ok := second[FieldDateOfBirth]; ok {
		t.Errorf("out-of-range dob should be omitted, got %v", second[FieldDateOfBirth])
	}
	if _, ok := second[FieldRollNo]; ok {
		t.Errorf("non-numeric roll no should be omitted, got %v", second[FieldRollNo])
	}
}

func TestAssembleRaggedRows(t *testing.T) {
	cols := testColumnMap(t, "Admission No", "First Name", "Last Name")
	rows := [][]string{
		{"ADM-1", "Amani"}, // short row: trailing cells absent
	}

	asm := Assemble(cols, rows)
	if len(asm.Candidates) != 1 {
		t.Fatalf("Candidates = %d, want 1", len(asm.Candidates))
	}
	if _, ok := asm.Candidates[0].Record[FieldLastName]; ok {
		t.Error("missing trailing cell should leave field absent")
	}
}
