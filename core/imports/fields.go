// Package imports implements bulk tabular import of student records:
// header canonicalization against a fixed alias table, per-cell coercion
// with tolerant date disambiguation, row assembly with a required-field
// gate, and batch submission to a record store.
package imports

import "fmt"

// Kind is the value kind of a canonical field.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindDate    Kind = "date"
	KindEnum    Kind = "enum"
)

// Field is one of the closed set of record attributes this package understands.
type Field string

// FieldUnmapped marks a column that resolved to no canonical field.
const FieldUnmapped Field = ""

const (
	FieldAdmissionNo   Field = "admission_no"
	FieldRollNo        Field = "roll_no"
	FieldClassID       Field = "class_id"
	FieldSectionID     Field = "section_id"
	FieldFirstName     Field = "first_name"
	FieldLastName      Field = "last_name"
	FieldGender        Field = "gender"
	FieldDateOfBirth   Field = "date_of_birth"
	FieldAdmissionDate Field = "admission_date"
	FieldCategoryID    Field = "category_id"
	FieldReligion      Field = "religion"
	FieldCaste         Field = "caste"
	FieldMobile        Field = "mobile_no"
	FieldEmail         Field = "email"
	FieldBloodGroup    Field = "blood_group"
	FieldHouseID       Field = "house_id"
	FieldHeight        Field = "height"
	FieldWeight        Field = "weight"

	FieldFatherName       Field = "father_name"
	FieldFatherPhone      Field = "father_phone"
	FieldFatherOccupation Field = "father_occupation"
	FieldMotherName       Field = "mother_name"
	FieldMotherPhone      Field = "mother_phone"
	FieldMotherOccupation Field = "mother_occupation"

	FieldGuardianName       Field = "guardian_name"
	FieldGuardianRelation   Field = "guardian_relation"
	FieldGuardianPhone      Field = "guardian_phone"
	FieldGuardianEmail      Field = "guardian_email"
	FieldGuardianOccupation Field = "guardian_occupation"

	FieldCurrentAddress   Field = "current_address"
	FieldPermanentAddress Field = "permanent_address"
)

var fieldKinds = map[Field]Kind{
	FieldAdmissionNo:   KindString,
	FieldRollNo:        KindInteger,
	FieldClassID:       KindInteger,
	FieldSectionID:     KindInteger,
	FieldFirstName:     KindString,
	FieldLastName:      KindString,
	FieldGender:        KindEnum,
	FieldDateOfBirth:   KindDate,
	FieldAdmissionDate: KindDate,
	FieldCategoryID:    KindInteger,
	FieldReligion:      KindString,
	FieldCaste:         KindString,
	FieldMobile:        KindString,
	FieldEmail:         KindString,
	FieldBloodGroup:    KindEnum,
	FieldHouseID:       KindInteger,
	FieldHeight:        KindString,
	FieldWeight:        KindString,

	FieldFatherName:       KindString,
	FieldFatherPhone:      KindString,
	FieldFatherOccupation: KindString,
	FieldMotherName:       KindString,
	FieldMotherPhone:      KindString,
	FieldMotherOccupation: KindString,

	FieldGuardianName:       KindString,
	FieldGuardianRelation:   KindString,
	FieldGuardianPhone:      KindString,
	FieldGuardianEmail:      KindString,
	FieldGuardianOccupation: KindString,

	FieldCurrentAddress:   KindString,
	FieldPermanentAddress: KindString,
}

// Kind returns the value kind of f. Unknown fields are treated as strings.
func (f Field) Kind() Kind {
	if k, ok := fieldKinds[f]; ok {
		return k
	}
	return KindString
}

// aliasTable maps normalized header text (see NormalizeHeader) to canonical
// fields. Parenthetical annotations are already stripped at lookup time, so
// "Date of Birth (YYYY-MM-DD)" resolves through "date of birth".
var aliasTable = map[string]Field{
	"admission no":     FieldAdmissionNo,
	"admission no.":    FieldAdmissionNo,
	"admission number": FieldAdmissionNo,
	"adm no":           FieldAdmissionNo,

	"roll no":     FieldRollNo,
	"roll no.":    FieldRollNo,
	"roll number": FieldRollNo,

	"class":    FieldClassID,
	"class id": FieldClassID,

	"section":    FieldSectionID,
	"section id": FieldSectionID,

	"first name": FieldFirstName,
	"firstname":  FieldFirstName,
	"last name":  FieldLastName,
	"lastname":   FieldLastName,

	"gender": FieldGender,
	"sex":    FieldGender,

	"date of birth": FieldDateOfBirth,
	"dob":           FieldDateOfBirth,
	"birth date":    FieldDateOfBirth,

	"admission date":    FieldAdmissionDate,
	"date of admission": FieldAdmissionDate,

	"category":    FieldCategoryID,
	"category id": FieldCategoryID,

	"religion": FieldReligion,
	"caste":    FieldCaste,

	"mobile":        FieldMobile,
	"mobile no":     FieldMobile,
	"mobile number": FieldMobile,
	"phone":         FieldMobile,

	"email":         FieldEmail,
	"email address": FieldEmail,

	"blood group": FieldBloodGroup,

	"house":    FieldHouseID,
	"house id": FieldHouseID,

	"height": FieldHeight,
	"weight": FieldWeight,

	"father name":       FieldFatherName,
	"father's name":     FieldFatherName,
	"father phone":      FieldFatherPhone,
	"father mobile":     FieldFatherPhone,
	"father occupation": FieldFatherOccupation,
	"mother name":       FieldMotherName,
	"mother's name":     FieldMotherName,
	"mother phone":      FieldMotherPhone,
	"mother mobile":     FieldMotherPhone,
	"mother occupation": FieldMotherOccupation,

	"guardian name":       FieldGuardianName,
	"guardian's name":     FieldGuardianName,
	"guardian relation":   FieldGuardianRelation,
	"relation":            FieldGuardianRelation,
	"guardian phone":      FieldGuardianPhone,
	"guardian mobile":     FieldGuardianPhone,
	"guardian email":      FieldGuardianEmail,
	"guardian occupation": FieldGuardianOccupation,

	"current address":   FieldCurrentAddress,
	"address":           FieldCurrentAddress,
	"permanent address": FieldPermanentAddress,
}

// templateColumn pairs a canonical field with its primary header label and
// the example value emitted by the Template generator.
type templateColumn struct {
	Label   string
	Field   Field
	Example string
}

// templateColumns is the canonical header row, one primary label per field.
// It is validated against fieldKinds and aliasTable at init so the template
// and the alias set can never drift apart.
var templateColumns = []templateColumn{
	{"Admission No", FieldAdmissionNo, "ADM-1001"},
	{"Roll No", FieldRollNo, "23"},
	{"Class", FieldClassID, "4"},
	{"Section", FieldSectionID, "1"},
	{"First Name", FieldFirstName, "Amani"},
	{"Last Name", FieldLastName, "Kabongo"},
	{"Gender", FieldGender, "Male"},
	{"Date of Birth (YYYY-MM-DD)", FieldDateOfBirth, "2012-04-17"},
	{"Admission Date (YYYY-MM-DD)", FieldAdmissionDate, "2020-09-01"},
	{"Category", FieldCategoryID, "2"},
	{"Religion", FieldReligion, "Christian"},
	{"Caste", FieldCaste, ""},
	{"Mobile No", FieldMobile, "+243810000000"},
	{"Email", FieldEmail, "amani@example.cd"},
	{"Blood Group", FieldBloodGroup, "O+"},
	{"House", FieldHouseID, "1"},
	{"Height", FieldHeight, "142"},
	{"Weight", FieldWeight, "36"},
	{"Father Name", FieldFatherName, "Joseph Kabongo"},
	{"Father Phone", FieldFatherPhone, "+243810000001"},
	{"Father Occupation", FieldFatherOccupation, "Engineer"},
	{"Mother Name", FieldMotherName, "Marie Kabongo"},
	{"Mother Phone", FieldMotherPhone, "+243810000002"},
	{"Mother Occupation", FieldMotherOccupation, "Nurse"},
	{"Guardian Name", FieldGuardianName, "Joseph Kabongo"},
	{"Guardian Relation", FieldGuardianRelation, "Father"},
	{"Guardian Phone", FieldGuardianPhone, "+243810000001"},
	{"Guardian Email", FieldGuardianEmail, "joseph@example.cd"},
	{"Guardian Occupation", FieldGuardianOccupation, "Engineer"},
	{"Current Address", FieldCurrentAddress, "12 Avenue des Ecoles, Kinshasa"},
	{"Permanent Address", FieldPermanentAddress, "12 Avenue des Ecoles, Kinshasa"},
}

func init() {
	// The canonical field set is closed: every field must carry at least one
	// alias and exactly one template column, and every alias must resolve to
	// a known field. Blowing up at startup beats silently dropping columns.
	aliased := make(map[Field]bool, len(fieldKinds))
	for alias, fld := range aliasTable {
		if _, ok := fieldKinds[fld]; !ok {
			panic(fmt.Sprintf("imports: alias %q maps to unknown field %q", alias, fld))
		}
		if normalizeAlias(alias) != alias {
			panic(fmt.Sprintf("imports: alias %q is not in normalized form", alias))
		}
		aliased[fld] = true
	}
	templated := make(map[Field]bool, len(templateColumns))
	for _, col := range templateColumns {
		if _, ok := fieldKinds[col.Field]; !ok {
			panic(fmt.Sprintf("imports: template column %q maps to unknown field %q", col.Label, col.Field))
		}
		if templated[col.Field] {
			panic(fmt.Sprintf("imports: field %q has more than one template column", col.Field))
		}
		templated[col.Field] = true
	}
	for fld := range fieldKinds {
		if !aliased[fld] {
			panic(fmt.Sprintf("imports: field %q has no alias", fld))
		}
		if !templated[fld] {
			panic(fmt.Sprintf("imports: field %q has no template column", fld))
		}
	}
}
