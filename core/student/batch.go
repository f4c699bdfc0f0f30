package student

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/zawadi/shule/core"
	"github.com/zawadi/shule/core/imports"
)

// compile-time proof that the service can back the importer
var _ imports.RecordStore = (*Service)(nil)

// CreateBatch enrolls a batch of imported records in one pass. Records that
// fail validation or collide on admission no are reported per row; the rest
// are created. Only infrastructure failures abort the whole batch.
func (svc *Service) CreateBatch(ctx context.Context, candidates []imports.Candidate) (imports.BatchResult, error) {
	var res imports.BatchResult
	seen := make(map[string]int, len(candidates)) // admission no -> first row
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return imports.BatchResult{}, errors.Wrap(err, "creating student batch")
		}

		ns := NewStudentFromRecord(c.Record)
		fail := func(msg string) {
			res.Failed = append(res.Failed, imports.RowError{
				Row:         c.Row,
				AdmissionNo: ns.AdmissionNo,
				FirstName:   ns.FirstName,
				Error:       msg,
			})
		}

		if err := ns.Validate(svc.validate); err != nil {
			fail(svc.validationMessage(err))
			continue
		}
		if row, dup := seen[ns.AdmissionNo]; dup {
			fail(fmt.Sprintf("admission_no: duplicates row %d of this file", row))
			continue
		}
		seen[ns.AdmissionNo] = c.Row

		if err := svc.repo.CheckAdmissionNoUniqueness(ctx, ns.AdmissionNo); err != nil {
			if err == ErrAdmissionNoExists {
				fail("admission_no: " + err.Error())
				continue
			}
			return imports.BatchResult{}, errors.Wrap(err, "creating student batch")
		}

		std, err := svc.create(ctx, ns)
		if err != nil {
			return imports.BatchResult{}, errors.Wrap(err, "creating student batch")
		}
		res.Success = append(res.Success, imports.RecordRef{
			Row:         c.Row,
			ID:          std.ID,
			AdmissionNo: std.AdmissionNo,
			FirstName:   std.FirstName,
		})
	}
	return res, nil
}

// NewStudentFromRecord maps an assembled import record onto the enrollment
// input. Absent fields stay at their zero values.
func NewStudentFromRecord(rec imports.Record) NewStudent {
	return NewStudent{
		AdmissionNo:   rec.StringField(imports.FieldAdmissionNo),
		RollNo:        intField(rec, imports.FieldRollNo),
		ClassID:       intField(rec, imports.FieldClassID),
		SectionID:     intField(rec, imports.FieldSectionID),
		FirstName:     rec.StringField(imports.FieldFirstName),
		LastName:      rec.StringField(imports.FieldLastName),
		Gender:        rec.StringField(imports.FieldGender),
		DateOfBirth:   rec.StringField(imports.FieldDateOfBirth),
		AdmissionDate: rec.StringField(imports.FieldAdmissionDate),
		CategoryID:    intField(rec, imports.FieldCategoryID),
		Religion:      rec.StringField(imports.FieldReligion),
		Caste:         rec.StringField(imports.FieldCaste),
		Mobile:        rec.StringField(imports.FieldMobile),
		Email:         rec.StringField(imports.FieldEmail),
		BloodGroup:    rec.StringField(imports.FieldBloodGroup),
		HouseID:       intField(rec, imports.FieldHouseID),
		Height:        rec.StringField(imports.FieldHeight),
		Weight:        rec.StringField(imports.FieldWeight),

		FatherName:       rec.StringField(imports.FieldFatherName),
		FatherPhone:      rec.StringField(imports.FieldFatherPhone),
		FatherOccupation: rec.StringField(imports.FieldFatherOccupation),
		MotherName:       rec.StringField(imports.FieldMotherName),
		MotherPhone:      rec.StringField(imports.FieldMotherPhone),
		MotherOccupation: rec.StringField(imports.FieldMotherOccupation),

		GuardianName:       rec.StringField(imports.FieldGuardianName),
		GuardianRelation:   rec.StringField(imports.FieldGuardianRelation),
		GuardianPhone:      rec.StringField(imports.FieldGuardianPhone),
		GuardianEmail:      rec.StringField(imports.FieldGuardianEmail),
		GuardianOccupation: rec.StringField(imports.FieldGuardianOccupation),

		CurrentAddress:   rec.StringField(imports.FieldCurrentAddress),
		PermanentAddress: rec.StringField(imports.FieldPermanentAddress),
	}
}

func intField(rec imports.Record, fld imports.Field) *int {
	if v, ok := rec[fld].(int); ok {
		return &v
	}
	return nil
}

// validationMessage flattens a validation failure into one row-level message.
func (svc *Service) validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Translate(svc.translator)))
		}
		return strings.Join(parts, "; ")
	}
	var cerr *core.ValidationError
	if errors.As(err, &cerr) {
		parts := make([]string, 0, len(cerr.Fields))
		for _, fe := range cerr.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Error))
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	return err.Error()
}
