package dummydb

import (
	"context"
	"strings"

	"github.com/zawadi/shule/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, std := range repo.db.table {
		students = append(students, *std)
	}
	return students
}

func (repo *studentRepository) CheckAdmissionNoUniqueness(ctx context.Context, admNo string, excluded ...student.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	isExcluded := func(std student.Student) bool {
		for _, ex := range excluded {
			if ex.ID == std.ID {
				return true
			}
		}
		return false
	}
	for _, std := range repo.query() {
		if std.AdmissionNo == admNo && !isExcluded(std) {
			return student.ErrAdmissionNoExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByAdmissionNo(ctx context.Context, admNo string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.query() {
		if std.AdmissionNo == admNo {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := repo.query()

	// students with search keyword matching admission no or name ?
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		var filtered []student.Student
		for _, std := range students {
			if strings.Contains(strings.ToLower(std.AdmissionNo), search) ||
				strings.Contains(strings.ToLower(std.Name()), search) {
				filtered = append(filtered, std)
			}
		}
		students = filtered
	}
	if students != nil && filter.ClassID != nil {
		var filtered []student.Student
		for _, std := range students {
			if std.ClassID.Valid && std.ClassID.Int == *filter.ClassID {
				filtered = append(filtered, std)
			}
		}
		students = filtered
	}
	if students != nil && filter.SectionID != nil {
		var filtered []student.Student
		for _, std := range students {
			if std.SectionID.Valid && std.SectionID.Int == *filter.SectionID {
				filtered = append(filtered, std)
			}
		}
		students = filtered
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[std.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
