package imports

import "strings"

// DiagCode classifies a non-fatal condition observed during an import.
type DiagCode string

const (
	DiagUnknownColumn DiagCode = "unknown_column"
	DiagSkippedRow    DiagCode = "skipped_row"
)

// Diagnostic is a structured, returned warning. The original implementation
// logged these to a side channel; returning them keeps them assertable.
type Diagnostic struct {
	Code    DiagCode `json:"code"`
	Row     int      `json:"row,omitempty"` // 1-based sheet row
	Column  string   `json:"column,omitempty"`
	Message string   `json:"message"`
}

// Record is a candidate record: canonical field name -> typed value.
// Fields that failed coercion are absent, not zero-valued.
type Record map[Field]interface{}

// StringField returns the record's value for f when it holds a string.
func (r Record) StringField(f Field) string {
	if v, ok := r[f]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Candidate pairs a record with the sheet row it came from, so per-record
// outcomes can be reported against the operator's own row numbers.
type Candidate struct {
	Row    int    `json:"row"`
	Record Record `json:"record"`
}

// Assembly is the output of the row-assembly pass.
type Assembly struct {
	TotalRows  int // data rows seen, blank rows excluded
	Skipped    int // rows dropped by the required-field gate
	Candidates []Candidate
	Diags      []Diagnostic
}

// Assemble applies the column map and coercer to every data row. Fully
// blank rows (stray trailing lines) are invisible. Rows lacking both a
// non-empty admission number and first name are structurally useless; they
// are dropped before submission but surfaced as an explicit skipped count
// with per-row diagnostics rather than silently merged with store failures.
//
// Row numbers are 1-based sheet rows; data starts at row 2, below the
// header.
func Assemble(cols ColumnMap, rows [][]string) Assembly {
	var asm Assembly
	for i, row := range rows {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}
		asm.TotalRows++

		rec := make(Record)
		for col, fld := range cols {
			if fld == FieldUnmapped || col >= len(row) {
				continue
			}
			if v, ok := Coerce(row[col], fld.Kind()); ok {
				rec[fld] = v
			}
		}

		if rec.StringField(FieldAdmissionNo) == "" || rec.StringField(FieldFirstName) == "" {
			asm.Skipped++
			asm.Diags = append(asm.Diags, Diagnostic{
				Code:    DiagSkippedRow,
				Row:     rowNum,
				Message: "row skipped: admission number and first name are required",
			})
			continue
		}
		asm.Candidates = append(asm.Candidates, Candidate{Row: rowNum, Record: rec})
	}
	return asm
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
