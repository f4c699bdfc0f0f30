package student

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/zawadi/shule/core"
	"github.com/zawadi/shule/core/imports"
)

type memRepo struct {
	students []Student
	failWith error // returned by every method when set
}

func (r *memRepo) CheckAdmissionNoUniqueness(ctx context.Context, admNo string, excluded ...Student) error {
	if r.failWith != nil {
		return r.failWith
	}
	for _, std := range r.students {
		if std.AdmissionNo != admNo {
			continue
		}
		skip := false
		for _, ex := range excluded {
			if ex.ID == std.ID {
				skip = true
				break
			}
		}
		if !skip {
			return ErrAdmissionNoExists
		}
	}
	return nil
}

func (r *memRepo) CreateStudent(ctx context.Context, std Student) (Student, error) {
	if r.failWith != nil {
		return Student{}, r.failWith
	}
	r.students = append(r.students, std)
	return std, nil
}

func (r *memRepo) QueryAllStudents(ctx context.Context) ([]Student, error) {
	return r.students, r.failWith
}

func (r *memRepo) GetStudentByID(ctx context.Context, id string) (Student, error) {
	if r.failWith != nil {
		return Student{}, r.failWith
	}
	for _, std := range r.students {
		if std.ID == id {
			return std, nil
		}
	}
	return Student{}, ErrNotFound
}

func (r *memRepo) GetStudentByAdmissionNo(ctx context.Context, admNo string) (Student, error) {
	if r.failWith != nil {
		return Student{}, r.failWith
	}
	for _, std := range r.students {
		if std.AdmissionNo == admNo {
			return std, nil
		}
	}
	return Student{}, ErrNotFound
}

func (r *memRepo) FilterStudents(ctx context.Context, filter QueryFilter) ([]Student, error) {
	return r.students, r.failWith
}

func (r *memRepo) UpdateStudent(ctx context.Context, std Student) (Student, error) {
	if r.failWith != nil {
		return Student{}, r.failWith
	}
	for i := range r.students {
		if r.students[i].ID == std.ID {
			r.students[i] = std
			return std, nil
		}
	}
	return Student{}, ErrNotFound
}

func (r *memRepo) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	return r.failWith
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	validate := validator.New()
	enLoc := en.New()
	translator, _ := ut.New(enLoc, enLoc).GetTranslator("en")
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return NewService(repo, validate, translator)
}

func TestServiceCreate(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(t, repo)
	ctx := context.Background()

	std, err := svc.Create(ctx, NewStudent{
		AdmissionNo: " ADM-1001 ",
		FirstName:   "Amani",
		Gender:      "Male",
		DateOfBirth: "2012-04-17",
		BloodGroup:  "o+",
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if std.ID == "" {
		t.Error("created student has no ID")
	}
	if std.AdmissionNo != "ADM-1001" {
		t.Errorf("AdmissionNo = %q, want cleaned ADM-1001", std.AdmissionNo)
	}
	if std.Gender.String != GenderMale {
		t.Errorf("Gender = %q, want normalized %q", std.Gender.String, GenderMale)
	}
	if std.BloodGroup.String != "O+" {
		t.Errorf("BloodGroup = %q, want normalized O+", std.BloodGroup.String)
	}
	if !std.DateOfBirth.Valid {
		t.Error("DateOfBirth should be set")
	}

	// same admission no again
	_, err = svc.Create(ctx, NewStudent{AdmissionNo: "ADM-1001", FirstName: "Neema"})
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("duplicate create err = %v, want validation error", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "admission_no" {
		t.Errorf("unexpected field errors: %+v", verr.Fields)
	}
}

func TestServiceCreateRejectsBadEnums(t *testing.T) {
	svc := newTestService(t, &memRepo{})

	tests := []struct {
		name string
		ns   NewStudent
		want string // expected field in the error
	}{
		{name: "gender", ns: NewStudent{AdmissionNo: "A1", FirstName: "X", Gender: "robot"}, want: "gender"},
		{name: "blood group", ns: NewStudent{AdmissionNo: "A1", FirstName: "X", BloodGroup: "Z+"}, want: "blood_group"},
		{name: "date form", ns: NewStudent{AdmissionNo: "A1", FirstName: "X", DateOfBirth: "17/04/2012"}, want: "date_of_birth"},
		{name: "email", ns: NewStudent{AdmissionNo: "A1", FirstName: "X", Email: "not-an-email"}, want: "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.ns)
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Create() err = %v, want validator errors", err)
			}
			found := false
			for _, fe := range verrs {
				if fe.Field() == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("no error on field %q: %v", tt.want, err)
			}
		})
	}
}

func TestServiceUpdatePartial(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(t, repo)
	ctx := context.Background()

	std, err := svc.Create(ctx, NewStudent{AdmissionNo: "ADM-1", FirstName: "Amani", LastName: "Kabongo"})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}

	got, err := svc.Update(ctx, std.ID, UpdateStudent{Mobile: "+243810000000"})
	if err != nil {
		t.Fatalf("Update(): %v", err)
	}
	if got.Mobile.String != "+243810000000" {
		t.Errorf("Mobile = %q, want updated value", got.Mobile.String)
	}
	if got.FirstName != "Amani" || got.LastName.String != "Kabongo" {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func candidate(row int, rec imports.Record) imports.Candidate {
	return imports.Candidate{Row: row, Record: rec}
}

func TestCreateBatchPartitionsOutcomes(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(t, repo)

	// one already enrolled
	if _, err := svc.Create(context.Background(), NewStudent{AdmissionNo: "ADM-0", FirstName: "Zawadi"}); err != nil {
		t.Fatalf("seed Create(): %v", err)
	}

	res, err := svc.CreateBatch(context.Background(), []imports.Candidate{
		candidate(2, imports.Record{
			imports.FieldAdmissionNo: "ADM-1",
			imports.FieldFirstName:   "Amani",
			imports.FieldGender:      "Male",
			imports.FieldRollNo:      23,
			imports.FieldDateOfBirth: "2012-04-17",
		}),
		candidate(3, imports.Record{
			imports.FieldAdmissionNo: "ADM-2",
			imports.FieldFirstName:   "Neema",
			imports.FieldGender:      "robot",
		}),
		candidate(4, imports.Record{
			imports.FieldAdmissionNo: "ADM-1",
			imports.FieldFirstName:   "Solo",
		}),
		candidate(5, imports.Record{
			imports.FieldAdmissionNo: "ADM-0",
			imports.FieldFirstName:   "Ghost",
		}),
	})
	if err != nil {
		t.Fatalf("CreateBatch(): %v", err)
	}

	if len(res.Success) != 1 || len(res.Failed) != 3 {
		t.Fatalf("result = %d success, %d failed; want 1/3", len(res.Success), len(res.Failed))
	}
	ref := res.Success[0]
	if ref.Row != 2 || ref.AdmissionNo != "ADM-1" || ref.ID == "" {
		t.Errorf("unexpected success ref: %+v", ref)
	}

	for _, re := range res.Failed {
		if re.Error == "" {
			t.Errorf("row %d failed with empty message", re.Row)
		}
	}
	if res.Failed[0].Row != 3 || !strings.Contains(res.Failed[0].Error, "gender") {
		t.Errorf("row 3 should fail on gender: %+v", res.Failed[0])
	}
	if res.Failed[1].Row != 4 || !strings.Contains(res.Failed[1].Error, "admission_no") {
		t.Errorf("row 4 should fail as in-file duplicate: %+v", res.Failed[1])
	}
	if res.Failed[2].Row != 5 || !strings.Contains(res.Failed[2].Error, "admission_no") {
		t.Errorf("row 5 should fail as already enrolled: %+v", res.Failed[2])
	}

	// seed + the one created row
	if len(repo.students) != 2 {
		t.Errorf("repo holds %d students, want 2", len(repo.students))
	}
	created := repo.students[1]
	if created.Gender.String != GenderMale || created.RollNo.Int != 23 || !created.DateOfBirth.Valid {
		t.Errorf("created student not mapped from record: %+v", created)
	}
}

func TestCreateBatchInfraFailureIsFatal(t *testing.T) {
	repo := &memRepo{failWith: errors.New("connection refused")}
	svc := newTestService(t, repo)

	res, err := svc.CreateBatch(context.Background(), []imports.Candidate{
		candidate(2, imports.Record{imports.FieldAdmissionNo: "ADM-1", imports.FieldFirstName: "Amani"}),
	})
	if err == nil {
		t.Fatal("CreateBatch() should surface infrastructure failures")
	}
	if len(res.Success) != 0 || len(res.Failed) != 0 {
		t.Errorf("result = %+v; want no per-record outcomes on fatal error", res)
	}
}

func TestNewStudentFromRecord(t *testing.T) {
	ns := NewStudentFromRecord(imports.Record{
		imports.FieldAdmissionNo:   "ADM-1",
		imports.FieldFirstName:     "Amani",
		imports.FieldRollNo:        23,
		imports.FieldClassID:       4,
		imports.FieldDateOfBirth:   "2012-04-17",
		imports.FieldGuardianEmail: "joseph@example.cd",
	})
	if ns.AdmissionNo != "ADM-1" || ns.FirstName != "Amani" {
		t.Errorf("required fields not mapped: %+v", ns)
	}
	if ns.RollNo == nil || *ns.RollNo != 23 {
		t.Errorf("RollNo = %v, want 23", ns.RollNo)
	}
	if ns.ClassID == nil || *ns.ClassID != 4 {
		t.Errorf("ClassID = %v, want 4", ns.ClassID)
	}
	if ns.DateOfBirth != "2012-04-17" {
		t.Errorf("DateOfBirth = %q", ns.DateOfBirth)
	}
	if ns.SectionID != nil {
		t.Errorf("absent SectionID should stay nil, got %v", ns.SectionID)
	}
	if ns.GuardianEmail != "joseph@example.cd" {
		t.Errorf("GuardianEmail = %q", ns.GuardianEmail)
	}
}
