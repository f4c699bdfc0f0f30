package imports

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

type (
	// RecordRef identifies a successfully created record.
	RecordRef struct {
		Row         int    `json:"row"`
		ID          string `json:"id,omitempty"`
		AdmissionNo string `json:"admission_no,omitempty"`
		FirstName   string `json:"first_name,omitempty"`
	}

	// RowError is a per-record rejection from the record store.
	RowError struct {
		Row         int    `json:"row"`
		AdmissionNo string `json:"admission_no,omitempty"`
		FirstName   string `json:"first_name,omitempty"`
		Error       string `json:"error"`
	}

	// BatchResult is the record store's atomic response: an outcome for
	// every candidate it was given, success.len + failed.len == len(input).
	BatchResult struct {
		Success []RecordRef `json:"success"`
		Failed  []RowError  `json:"failed"`
	}

	// RecordStore persists candidate records. It validates each record
	// independently (enum legality, uniqueness, foreign keys) but reports
	// all outcomes in one response. A non-nil error means the batch as a
	// whole failed and nothing can be assumed persisted.
	RecordStore interface {
		CreateBatch(ctx context.Context, candidates []Candidate) (BatchResult, error)
	}

	// Outcome is the full report of one import operation.
	Outcome struct {
		TotalRows   int          `json:"total_rows"` // non-blank data rows
		Skipped     int          `json:"skipped"`    // dropped by the required-field gate
		Submitted   int          `json:"submitted"`
		Success     []RecordRef  `json:"success"`
		Failed      []RowError   `json:"failed"`
		Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	}

	// Importer runs the parse-assemble-submit pipeline against a record
	// store. It holds no per-import state; one Importer may serve many
	// imports, but callers must not re-enter with the same session while a
	// submission is outstanding.
	Importer struct {
		store RecordStore
	}
)

// AllSucceeded reports whether every submitted record was created.
func (o Outcome) AllSucceeded() bool {
	return len(o.Failed) == 0
}

func NewImporter(store RecordStore) *Importer {
	return &Importer{store: store}
}

// Import reads tabular data from r and runs the full pipeline. The parse
// phase is synchronous and in-memory; the store call is the only suspension
// point. A returned error is fatal: either the file is unusable (nothing
// submitted) or the submission itself failed as a whole (nothing reported,
// resubmit the entire batch).
func (imp *Importer) Import(ctx context.Context, r io.Reader, filename string) (Outcome, error) {
	sheet, err := ReadSheet(r, filename)
	if err != nil {
		return Outcome{}, err
	}
	return imp.ImportSheet(ctx, sheet)
}

// ImportSheet runs the pipeline over already-parsed tabular data.
//
// Header recognition degrades gracefully per column but not per file.
// Individual headers that match no known alias are tolerated and surface as
// diagnostics. When not a single column is recognized, however, the sheet
// cannot have been meant for this import at all, so the operation fails
// outright instead of reporting every row as skipped. That stricter handling
// of the zero-columns case is deliberate.
func (imp *Importer) ImportSheet(ctx context.Context, sheet Sheet) (Outcome, error) {
	cols, diags := MapColumns(sheet.Headers)
	if !cols.Mapped() {
		return Outcome{}, errors.Wrap(ErrNoData, "no recognizable columns")
	}

	asm := Assemble(cols, sheet.Rows)
	outcome := Outcome{
		TotalRows:   asm.TotalRows,
		Skipped:     asm.Skipped,
		Submitted:   len(asm.Candidates),
		Diagnostics: append(diags, asm.Diags...),
	}
	if len(asm.Candidates) == 0 {
		return outcome, nil
	}

	res, err := imp.store.CreateBatch(ctx, asm.Candidates)
	if err != nil {
		// whole-batch failure: zero records are reported either way;
		// the caller must resubmit everything
		return Outcome{}, errors.Wrap(err, "submitting batch")
	}

	// relay the store's outcomes unchanged
	outcome.Success = res.Success
	outcome.Failed = res.Failed
	return outcome, nil
}
