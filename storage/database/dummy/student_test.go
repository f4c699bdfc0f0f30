package dummydb

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/zawadi/shule/core/student"
)

func seedStudent(t *testing.T, repo student.Repository, admNo, first string, classID int) student.Student {
	t.Helper()
	now := time.Now().UTC()
	std, err := repo.CreateStudent(context.Background(), student.Student{
		ID:          uuid.New().String(),
		AdmissionNo: admNo,
		FirstName:   first,
		ClassID:     null.IntFrom(classID),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateStudent(): %v", err)
	}
	return std
}

func TestStudentRepository(t *testing.T) {
	db, _ := Open()
	repo := NewStudentRepository(db)
	ctx := context.Background()

	a := seedStudent(t, repo, "ADM-1", "Amani", 4)
	seedStudent(t, repo, "ADM-2", "Neema", 5)

	if err := repo.CheckAdmissionNoUniqueness(ctx, "ADM-1"); err != student.ErrAdmissionNoExists {
		t.Errorf("uniqueness err = %v, want ErrAdmissionNoExists", err)
	}
	if err := repo.CheckAdmissionNoUniqueness(ctx, "ADM-1", a); err != nil {
		t.Errorf("uniqueness with exclusion err = %v", err)
	}
	if err := repo.CheckAdmissionNoUniqueness(ctx, "ADM-9"); err != nil {
		t.Errorf("unused admission no err = %v", err)
	}

	got, err := repo.GetStudentByAdmissionNo(ctx, "ADM-2")
	if err != nil || got.FirstName != "Neema" {
		t.Errorf("GetStudentByAdmissionNo() = %+v, %v", got, err)
	}

	classID := 4
	filtered, err := repo.FilterStudents(ctx, student.QueryFilter{ClassID: &classID})
	if err != nil || len(filtered) != 1 || filtered[0].AdmissionNo != "ADM-1" {
		t.Errorf("FilterStudents(class 4) = %+v, %v", filtered, err)
	}

	filtered, err = repo.FilterStudents(ctx, student.QueryFilter{Search: "nee"})
	if err != nil || len(filtered) != 1 || filtered[0].FirstName != "Neema" {
		t.Errorf("FilterStudents(search nee) = %+v, %v", filtered, err)
	}

	if err = repo.DeleteStudentsByID(ctx, a.ID); err != nil {
		t.Fatalf("DeleteStudentsByID(): %v", err)
	}
	if _, err = repo.GetStudentByID(ctx, a.ID); err != student.ErrNotFound {
		t.Errorf("deleted student lookup err = %v, want ErrNotFound", err)
	}
}
