package student

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/zawadi/shule/core"
)

// Gender and blood group values accepted on a student record.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

var (
	Genders     = []string{GenderMale, GenderFemale, GenderOther}
	BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
)

const dateLayout = "2006-01-02"

type Student struct {
	ID            string      `json:"id" db:"id"`
	AdmissionNo   string      `json:"admission_no" db:"admission_no"`
	RollNo        null.Int    `json:"roll_no,omitempty" db:"roll_no"`
	ClassID       null.Int    `json:"class_id,omitempty" db:"class_id"`
	SectionID     null.Int    `json:"section_id,omitempty" db:"section_id"`
	FirstName     string      `json:"first_name" db:"first_name"`
	LastName      null.String `json:"last_name,omitempty" db:"last_name"`
	Gender        null.String `json:"gender,omitempty" db:"gender"`
	DateOfBirth   null.Time   `json:"date_of_birth,omitempty" db:"date_of_birth"`
	AdmissionDate null.Time   `json:"admission_date,omitempty" db:"admission_date"`
	CategoryID    null.Int    `json:"category_id,omitempty" db:"category_id"`
	Religion      null.String `json:"religion,omitempty" db:"religion"`
	Caste         null.String `json:"caste,omitempty" db:"caste"`
	Mobile        null.String `json:"mobile_no,omitempty" db:"mobile_no"`
	Email         null.String `json:"email,omitempty" db:"email"`
	BloodGroup    null.String `json:"blood_group,omitempty" db:"blood_group"`
	HouseID       null.Int    `json:"house_id,omitempty" db:"house_id"`
	Height        null.String `json:"height,omitempty" db:"height"`
	Weight        null.String `json:"weight,omitempty" db:"weight"`

	FatherName       null.String `json:"father_name,omitempty" db:"father_name"`
	FatherPhone      null.String `json:"father_phone,omitempty" db:"father_phone"`
	FatherOccupation null.String `json:"father_occupation,omitempty" db:"father_occupation"`
	MotherName       null.String `json:"mother_name,omitempty" db:"mother_name"`
	MotherPhone      null.String `json:"mother_phone,omitempty" db:"mother_phone"`
	MotherOccupation null.String `json:"mother_occupation,omitempty" db:"mother_occupation"`

	GuardianName       null.String `json:"guardian_name,omitempty" db:"guardian_name"`
	GuardianRelation   null.String `json:"guardian_relation,omitempty" db:"guardian_relation"`
	GuardianPhone      null.String `json:"guardian_phone,omitempty" db:"guardian_phone"`
	GuardianEmail      null.String `json:"guardian_email,omitempty" db:"guardian_email"`
	GuardianOccupation null.String `json:"guardian_occupation,omitempty" db:"guardian_occupation"`

	CurrentAddress   null.String `json:"current_address,omitempty" db:"current_address"`
	PermanentAddress null.String `json:"permanent_address,omitempty" db:"permanent_address"`

	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (s *Student) Name() string {
	if s.LastName.Valid {
		return s.FirstName + " " + s.LastName.String
	}
	return s.FirstName
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	AdmissionNo   string `json:"admission_no" validate:"required"`
	RollNo        *int   `json:"roll_no" validate:"omitempty,min=1"`
	ClassID       *int   `json:"class_id" validate:"omitempty,min=1"`
	SectionID     *int   `json:"section_id" validate:"omitempty,min=1"`
	FirstName     string `json:"first_name" validate:"required"`
	LastName      string `json:"last_name"`
	Gender        string `json:"gender" validate:"omitempty,gender"`
	DateOfBirth   string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	AdmissionDate string `json:"admission_date" validate:"omitempty,datetime=2006-01-02"`
	CategoryID    *int   `json:"category_id" validate:"omitempty,min=1"`
	Religion      string `json:"religion"`
	Caste         string `json:"caste"`
	Mobile        string `json:"mobile_no"`
	Email         string `json:"email" validate:"omitempty,email"`
	BloodGroup    string `json:"blood_group" validate:"omitempty,bloodgroup"`
	HouseID       *int   `json:"house_id" validate:"omitempty,min=1"`
	Height        string `json:"height"`
	Weight        string `json:"weight"`

	FatherName       string `json:"father_name"`
	FatherPhone      string `json:"father_phone"`
	FatherOccupation string `json:"father_occupation"`
	MotherName       string `json:"mother_name"`
	MotherPhone      string `json:"mother_phone"`
	MotherOccupation string `json:"mother_occupation"`

	GuardianName       string `json:"guardian_name"`
	GuardianRelation   string `json:"guardian_relation"`
	GuardianPhone      string `json:"guardian_phone"`
	GuardianEmail      string `json:"guardian_email" validate:"omitempty,email"`
	GuardianOccupation string `json:"guardian_occupation"`

	CurrentAddress   string `json:"current_address"`
	PermanentAddress string `json:"permanent_address"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.AdmissionNo = core.CleanString(ns.AdmissionNo)
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Gender = core.CleanString(ns.Gender, true /* lower */)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.GuardianEmail = core.CleanString(ns.GuardianEmail, true /* lower */)
	ns.BloodGroup = strings.ToUpper(core.CleanString(ns.BloodGroup))
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an
// existing Student. Zero values leave the stored value untouched.
type UpdateStudent struct {
	AdmissionNo   string `json:"admission_no"`
	RollNo        *int   `json:"roll_no" validate:"omitempty,min=1"`
	ClassID       *int   `json:"class_id" validate:"omitempty,min=1"`
	SectionID     *int   `json:"section_id" validate:"omitempty,min=1"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Gender        string `json:"gender" validate:"omitempty,gender"`
	DateOfBirth   string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	AdmissionDate string `json:"admission_date" validate:"omitempty,datetime=2006-01-02"`
	CategoryID    *int   `json:"category_id" validate:"omitempty,min=1"`
	Religion      string `json:"religion"`
	Caste         string `json:"caste"`
	Mobile        string `json:"mobile_no"`
	Email         string `json:"email" validate:"omitempty,email"`
	BloodGroup    string `json:"blood_group" validate:"omitempty,bloodgroup"`
	HouseID       *int   `json:"house_id" validate:"omitempty,min=1"`
	Height        string `json:"height"`
	Weight        string `json:"weight"`

	FatherName       string `json:"father_name"`
	FatherPhone      string `json:"father_phone"`
	FatherOccupation string `json:"father_occupation"`
	MotherName       string `json:"mother_name"`
	MotherPhone      string `json:"mother_phone"`
	MotherOccupation string `json:"mother_occupation"`

	GuardianName       string `json:"guardian_name"`
	GuardianRelation   string `json:"guardian_relation"`
	GuardianPhone      string `json:"guardian_phone"`
	GuardianEmail      string `json:"guardian_email" validate:"omitempty,email"`
	GuardianOccupation string `json:"guardian_occupation"`

	CurrentAddress   string `json:"current_address"`
	PermanentAddress string `json:"permanent_address"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.AdmissionNo = core.CleanString(us.AdmissionNo)
	us.FirstName = core.CleanString(us.FirstName)
	us.LastName = core.CleanString(us.LastName)
	us.Gender = core.CleanString(us.Gender, true /* lower */)
	us.Email = core.CleanString(us.Email, true /* lower */)
	us.GuardianEmail = core.CleanString(us.GuardianEmail, true /* lower */)
	us.BloodGroup = strings.ToUpper(core.CleanString(us.BloodGroup))
	return validate.Struct(us)
}

func (us UpdateStudent) apply(std *Student) {
	setStr := func(dst *null.String, v string) {
		if v != "" {
			*dst = null.StringFrom(v)
		}
	}
	setInt := func(dst *null.Int, v *int) {
		if v != nil {
			*dst = null.IntFrom(*v)
		}
	}
	setDate := func(dst *null.Time, v string) {
		if v != "" {
			*dst = parseStoredDate(v)
		}
	}

	if us.AdmissionNo != "" {
		std.AdmissionNo = us.AdmissionNo
	}
	if us.FirstName != "" {
		std.FirstName = us.FirstName
	}
	setInt(&std.RollNo, us.RollNo)
	setInt(&std.ClassID, us.ClassID)
	setInt(&std.SectionID, us.SectionID)
	setInt(&std.CategoryID, us.CategoryID)
	setInt(&std.HouseID, us.HouseID)
	setStr(&std.LastName, us.LastName)
	setStr(&std.Gender, us.Gender)
	setDate(&std.DateOfBirth, us.DateOfBirth)
	setDate(&std.AdmissionDate, us.AdmissionDate)
	setStr(&std.Religion, us.Religion)
	setStr(&std.Caste, us.Caste)
	setStr(&std.Mobile, us.Mobile)
	setStr(&std.Email, us.Email)
	setStr(&std.BloodGroup, us.BloodGroup)
	setStr(&std.Height, us.Height)
	setStr(&std.Weight, us.Weight)
	setStr(&std.FatherName, us.FatherName)
	setStr(&std.FatherPhone, us.FatherPhone)
	setStr(&std.FatherOccupation, us.FatherOccupation)
	setStr(&std.MotherName, us.MotherName)
	setStr(&std.MotherPhone, us.MotherPhone)
	setStr(&std.MotherOccupation, us.MotherOccupation)
	setStr(&std.GuardianName, us.GuardianName)
	setStr(&std.GuardianRelation, us.GuardianRelation)
	setStr(&std.GuardianPhone, us.GuardianPhone)
	setStr(&std.GuardianEmail, us.GuardianEmail)
	setStr(&std.GuardianOccupation, us.GuardianOccupation)
	setStr(&std.CurrentAddress, us.CurrentAddress)
	setStr(&std.PermanentAddress, us.PermanentAddress)
	std.UpdatedAt = time.Now().UTC()
}

type QueryFilter struct {
	// Search does a case-insensitive match on admission no or name.
	Search    string `query:"search"`
	ClassID   *int   `query:"class_id"`
	SectionID *int   `query:"section_id"`
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

func nullInt(v *int) null.Int {
	if v == nil {
		return null.Int{}
	}
	return null.IntFrom(*v)
}

// parseStoredDate parses an already validated YYYY-MM-DD string.
func parseStoredDate(s string) null.Time {
	if s == "" {
		return null.Time{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return null.Time{}
	}
	return null.TimeFrom(t)
}
