package imports

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

// storeFunc adapts a function to the RecordStore interface.
type storeFunc func(ctx context.Context, candidates []Candidate) (BatchResult, error)

func (f storeFunc) CreateBatch(ctx context.Context, candidates []Candidate) (BatchResult, error) {
	return f(ctx, candidates)
}

// acceptAll creates every candidate it is given.
func acceptAll(ctx context.Context, candidates []Candidate) (BatchResult, error) {
	var res BatchResult
	for i, c := range candidates {
		res.Success = append(res.Success, RecordRef{
			Row:         c.Row,
			ID:          fmt.Sprintf("id-%d", i+1),
			AdmissionNo: c.Record.StringField(FieldAdmissionNo),
			FirstName:   c.Record.StringField(FieldFirstName),
		})
	}
	return res, nil
}

func TestImportEndToEnd(t *testing.T) {
	csvData := strings.Join([]string{
		`Admission No,First Name,Date of Birth (YYYY-MM-DD)`,
		`ADM-1,Amani,2012-04-17`,
		`ADM-2,Neema,1805-01-01`,
	}, "\n")

	var got []Candidate
	store := storeFunc(func(ctx context.Context, candidates []Candidate) (BatchResult, error) {
		got = candidates
		// reject the record whose dob was dropped, as a real store would
		// reject a record failing its own validation
		var res BatchResult
		for _, c := range candidates {
			if _, ok := c.Record[FieldDateOfBirth]; !ok {
				res.Failed = append(res.Failed, RowError{
					Row:         c.Row,
					AdmissionNo: c.Record.StringField(FieldAdmissionNo),
					FirstName:   c.Record.StringField(FieldFirstName),
					Error:       "date_of_birth is required",
				})
				continue
			}
			res.Success = append(res.Success, RecordRef{Row: c.Row})
		}
		return res, nil
	})

	outcome, err := NewImporter(store).Import(context.Background(), strings.NewReader(csvData), "students.csv")
	if err != nil {
		t.Fatalf("Import(): %v", err)
	}

	// both rows pass the gate and are submitted; the bad date is omitted,
	// not defaulted
	if len(got) != 2 {
		t.Fatalf("store received %d candidates, want 2", len(got))
	}
	if _, ok := got[0].Record[FieldDateOfBirth]; !ok {
		t.Error("row 2 should carry its date of birth")
	}
	if _, ok := got[1].Record[FieldDateOfBirth]; ok {
		t.Error("row 3 should have its date of birth omitted")
	}

	if outcome.Submitted != 2 || len(outcome.Success) != 1 || len(outcome.Failed) != 1 {
		t.Errorf("outcome = %+v; want 2 submitted, 1 success, 1 failed", outcome)
	}
	if outcome.Failed[0].AdmissionNo != "ADM-2" {
		t.Errorf("failed admission no = %q, want ADM-2", outcome.Failed[0].AdmissionNo)
	}
}

// Excel exports CSVs with a leading UTF-8 byte order mark; it must not stick
// to the first header cell and stop the columns from being recognized.
func TestImportStripsByteOrderMark(t *testing.T) {
	csvData := "\ufeffAdmission No,First Name\nADM-1,Amani"

	outcome, err := NewImporter(storeFunc(acceptAll)).Import(context.Background(), strings.NewReader(csvData), "students.csv")
	if err != nil {
		t.Fatalf("Import(): %v", err)
	}
	if outcome.Submitted != 1 || len(outcome.Success) != 1 {
		t.Fatalf("outcome = %+v; want the single row submitted and created", outcome)
	}
	if outcome.Success[0].AdmissionNo != "ADM-1" {
		t.Errorf("AdmissionNo = %q, want ADM-1", outcome.Success[0].AdmissionNo)
	}
}

// Once a record reaches the submitter, it is never silently lost:
// success + failed always equals the submitted count.
func TestImportPartialFailureConservation(t *testing.T) {
	csvData := strings.Join([]string{
		`Admission No,First Name`,
		`ADM-1,Amani`,
		`ADM-2,Neema`,
		`ADM-3,Zawadi`,
	}, "\n")

	store := storeFunc(func(ctx context.Context, candidates []Candidate) (BatchResult, error) {
		var res BatchResult
		for i, c := range candidates {
			if i%2 == 0 {
				res.Success = append(res.Success, RecordRef{Row: c.Row})
			} else {
				res.Failed = append(res.Failed, RowError{Row: c.Row, Error: "rejected"})
			}
		}
		return res, nil
	})

	outcome, err := NewImporter(store).Import(context.Background(), strings.NewReader(csvData), "students.csv")
	if err != nil {
		t.Fatalf("Import(): %v", err)
	}
	if n := len(outcome.Success) + len(outcome.Failed); n != outcome.Submitted {
		t.Errorf("success+failed = %d, want %d", n, outcome.Submitted)
	}
}

// Gated rows never appear in the request sent to the record store.
func TestImportGatedRowsNotSubmitted(t *testing.T) {
	csvData := strings.Join([]string{
		`Admission No,First Name`,
		`ADM-1,Amani`,
		`,NoAdmission`,
	}, "\n")

	var got []Candidate
	store := storeFunc(func(ctx context.Context, candidates []Candidate) (BatchResult, error) {
		got = candidates
		return acceptAll(ctx, candidates)
	})

	outcome, err := NewImporter(store).Import(context.Background(), strings.NewReader(csvData), "students.csv")
	if err != nil {
		t.Fatalf("Import(): %v", err)
	}
	if len(got) != 1 || got[0].Record.StringField(FieldAdmissionNo) != "ADM-1" {
		t.Errorf("store received %+v, want only ADM-1", got)
	}
	if outcome.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", outcome.Skipped)
	}
}

// A transport failure is fatal for the whole batch: zero records reported
// either way, caller resubmits everything.
func TestImportSubmissionFailure(t *testing.T) {
	csvData := strings.Join([]string{
		`Admission No,First Name`,
		`ADM-1,Amani`,
	}, "\n")

	store := storeFunc(func(ctx context.Context, candidates []Candidate) (BatchResult, error) {
		return BatchResult{}, errors.New("connection reset")
	})

	outcome, err := NewImporter(store).Import(context.Background(), strings.NewReader(csvData), "students.csv")
	if err == nil {
		t.Fatal("Import() should fail when submission fails")
	}
	if len(outcome.Success) != 0 || len(outcome.Failed) != 0 {
		t.Errorf("outcome = %+v; want no per-record outcomes on whole-batch failure", outcome)
	}
}

func TestImportFatalFormatErrors(t *testing.T) {
	store := storeFunc(func(ctx context.Context, candidates []Candidate) (BatchResult, error) {
		t.Error("store must not be called for unusable files")
		return BatchResult{}, nil
	})
	imp := NewImporter(store)

	tests := []struct {
		name     string
		data     string
		filename string
	}{
		{name: "headers only", data: "Admission No,First Name", filename: "s.csv"},
		{name: "empty file", data: "", filename: "s.csv"},
		{name: "unsupported extension", data: "whatever", filename: "s.pdf"},
		{name: "no recognizable columns", data: "Foo,Bar\n1,2", filename: "s.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := imp.Import(context.Background(), strings.NewReader(tt.data), tt.filename); err == nil {
				t.Error("Import() should fail before any submission")
			}
		})
	}
}

func TestImportEmptyAfterGate(t *testing.T) {
	csvData := strings.Join([]string{
		`Admission No,First Name`,
		`,Ghost`,
	}, "\n")

	store := storeFunc(func(ctx context.Context, candidates []Candidate) (BatchResult, error) {
		t.Error("store must not be called when nothing survives the gate")
		return BatchResult{}, nil
	})

	outcome, err := NewImporter(store).Import(context.Background(), strings.NewReader(csvData), "students.csv")
	if err != nil {
		t.Fatalf("Import(): %v", err)
	}
	if outcome.Submitted != 0 || outcome.Skipped != 1 {
		t.Errorf("outcome = %+v; want 0 submitted, 1 skipped", outcome)
	}
}
