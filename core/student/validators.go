package student

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/zawadi/shule/core"
)

var (
	genderTag  = "gender"
	genderText = "must be one of: male, female, other"

	bloodGroupTag  = "bloodgroup"
	bloodGroupText = "must be one of: A+, A-, B+, B-, AB+, AB-, O+, O-"
)

// InitValidators registers the student validators on validate.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(genderTag, genderValidation)
	core.RegisterCustomTranslation(validate, translator, genderTag, genderText)

	_ = validate.RegisterValidation(bloodGroupTag, bloodGroupValidation)
	core.RegisterCustomTranslation(validate, translator, bloodGroupTag, bloodGroupText)
}

func genderValidation(fl validator.FieldLevel) bool {
	return oneOf(fl.Field().String(), Genders)
}

func bloodGroupValidation(fl validator.FieldLevel) bool {
	return oneOf(fl.Field().String(), BloodGroups)
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
