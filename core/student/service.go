package student

import (
	"context"
	"errors"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/zawadi/shule/core"
)

var (
	// errors
	ErrNotFound          = errors.New("student not found")
	ErrAdmissionNoExists = errors.New("a student with this admission no already exists")
)

type (
	Repository interface {
		CheckAdmissionNoUniqueness(ctx context.Context, admNo string, excluded ...Student) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByAdmissionNo(ctx context.Context, admNo string) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		FilterStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo       Repository
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{
		repo:       repo,
		validate:   validate,
		translator: translator,
	}
}

func (svc *Service) checkUniqueness(ctx context.Context, admNo string, excl ...Student) error {
	if err := svc.repo.CheckAdmissionNoUniqueness(ctx, admNo, excl...); err != nil {
		if err == ErrAdmissionNoExists {
			return core.NewValidationError(err, core.FieldError{Field: "admission_no", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	if err := svc.checkUniqueness(ctx, ns.AdmissionNo); err != nil {
		return Student{}, err
	}
	return svc.create(ctx, ns)
}

// create persists ns without re-running validation. Callers validate first.
func (svc *Service) create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		ID:            uuid.New().String(),
		AdmissionNo:   ns.AdmissionNo,
		RollNo:        nullInt(ns.RollNo),
		ClassID:       nullInt(ns.ClassID),
		SectionID:     nullInt(ns.SectionID),
		FirstName:     ns.FirstName,
		LastName:      nullString(ns.LastName),
		Gender:        nullString(ns.Gender),
		DateOfBirth:   parseStoredDate(ns.DateOfBirth),
		AdmissionDate: parseStoredDate(ns.AdmissionDate),
		CategoryID:    nullInt(ns.CategoryID),
		Religion:      nullString(ns.Religion),
		Caste:         nullString(ns.Caste),
		Mobile:        nullString(ns.Mobile),
		Email:         nullString(ns.Email),
		BloodGroup:    nullString(ns.BloodGroup),
		HouseID:       nullInt(ns.HouseID),
		Height:        nullString(ns.Height),
		Weight:        nullString(ns.Weight),

		FatherName:       nullString(ns.FatherName),
		FatherPhone:      nullString(ns.FatherPhone),
		FatherOccupation: nullString(ns.FatherOccupation),
		MotherName:       nullString(ns.MotherName),
		MotherPhone:      nullString(ns.MotherPhone),
		MotherOccupation: nullString(ns.MotherOccupation),

		GuardianName:       nullString(ns.GuardianName),
		GuardianRelation:   nullString(ns.GuardianRelation),
		GuardianPhone:      nullString(ns.GuardianPhone),
		GuardianEmail:      nullString(ns.GuardianEmail),
		GuardianOccupation: nullString(ns.GuardianOccupation),

		CurrentAddress:   nullString(ns.CurrentAddress),
		PermanentAddress: nullString(ns.PermanentAddress),

		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetByAdmissionNo(ctx context.Context, admNo string) (Student, error) {
	return svc.repo.GetStudentByAdmissionNo(ctx, core.CleanString(admNo))
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Student, error) {
	return svc.repo.FilterStudents(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	if err := us.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if us.AdmissionNo != "" && us.AdmissionNo != std.AdmissionNo {
		if err := svc.checkUniqueness(ctx, us.AdmissionNo, std); err != nil {
			return Student{}, err
		}
	}
	us.apply(&std)
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}
