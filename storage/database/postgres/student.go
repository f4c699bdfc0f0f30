// Package postgresdb provides the PostgreSQL storage backend.
package postgresdb

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/zawadi/shule/core/student"
)

const studentCols = `id, admission_no, roll_no, class_id, section_id, first_name, last_name,
	gender, date_of_birth, admission_date, category_id, religion, caste, mobile_no, email,
	blood_group, house_id, height, weight, father_name, father_phone, father_occupation,
	mother_name, mother_phone, mother_occupation, guardian_name, guardian_relation,
	guardian_phone, guardian_email, guardian_occupation, current_address, permanent_address,
	created_at, updated_at`

const studentNamedVals = `:id, :admission_no, :roll_no, :class_id, :section_id, :first_name, :last_name,
	:gender, :date_of_birth, :admission_date, :category_id, :religion, :caste, :mobile_no, :email,
	:blood_group, :house_id, :height, :weight, :father_name, :father_phone, :father_occupation,
	:mother_name, :mother_phone, :mother_occupation, :guardian_name, :guardian_relation,
	:guardian_phone, :guardian_email, :guardian_occupation, :current_address, :permanent_address,
	:created_at, :updated_at`

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sql.DB) student.Repository {
	return &studentRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *studentRepository) CheckAdmissionNoUniqueness(ctx context.Context, admNo string, excluded ...student.Student) error {
	query := `SELECT EXISTS (SELECT 1 FROM students WHERE admission_no = $1`
	args := []interface{}{admNo}
	for i, ex := range excluded {
		query += ` AND id <> $` + strconv.Itoa(i+2)
		args = append(args, ex.ID)
	}
	query += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking admission no uniqueness")
	}
	if exists {
		return student.ErrAdmissionNoExists
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	query := `INSERT INTO students (` + studentCols + `) VALUES (` + studentNamedVals + `)`
	if _, err := repo.db.NamedExecContext(ctx, query, std); err != nil {
		return student.Student{}, errors.Wrap(err, "creating student")
	}
	return std, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	students := make([]student.Student, 0)
	query := `SELECT ` + studentCols + ` FROM students ORDER BY admission_no`
	if err := repo.db.SelectContext(ctx, &students, query); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var std student.Student
	query := `SELECT ` + studentCols + ` FROM students WHERE id = $1`
	if err := repo.db.GetContext(ctx, &std, query, id); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return std, nil
}

func (repo *studentRepository) GetStudentByAdmissionNo(ctx context.Context, admNo string) (student.Student, error) {
	var std student.Student
	query := `SELECT ` + studentCols + ` FROM students WHERE admission_no = $1`
	if err := repo.db.GetContext(ctx, &std, query, admNo); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return std, nil
}

func (repo *studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	query := `SELECT ` + studentCols + ` FROM students WHERE true`
	var args []interface{}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (admission_no ILIKE $` + n +
			` OR first_name ILIKE $` + n +
			` OR last_name ILIKE $` + n + `)`
	}
	if filter.ClassID != nil {
		args = append(args, *filter.ClassID)
		query += ` AND class_id = $` + strconv.Itoa(len(args))
	}
	if filter.SectionID != nil {
		args = append(args, *filter.SectionID)
		query += ` AND section_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY admission_no`

	students := make([]student.Student, 0)
	if err := repo.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering students")
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	query := `UPDATE students SET
		admission_no = :admission_no, roll_no = :roll_no, class_id = :class_id,
		section_id = :section_id, first_name = :first_name, last_name = :last_name,
		gender = :gender, date_of_birth = :date_of_birth, admission_date = :admission_date,
		category_id = :category_id, religion = :religion, caste = :caste,
		mobile_no = :mobile_no, email = :email, blood_group = :blood_group,
		house_id = :house_id, height = :height, weight = :weight,
		father_name = :father_name, father_phone = :father_phone,
		father_occupation = :father_occupation, mother_name = :mother_name,
		mother_phone = :mother_phone, mother_occupation = :mother_occupation,
		guardian_name = :guardian_name, guardian_relation = :guardian_relation,
		guardian_phone = :guardian_phone, guardian_email = :guardian_email,
		guardian_occupation = :guardian_occupation, current_address = :current_address,
		permanent_address = :permanent_address, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, std)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return std, nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM students WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting students")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}
