package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations wires the COA-specific validation rules into the
// shared validator instance.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("coa_code", isAccountCode); err != nil {
		return err
	}
	if err := v.RegisterValidation("account_type", isAccountType); err != nil {
		return err
	}
	if err := v.RegisterValidation("statement_type", isStatementType); err != nil {
		return err
	}
	if err := v.RegisterValidation("dateid", isDateID); err != nil {
		return err
	}
	return nil
}

// Account codes as they appear in the platform table: uppercase alphanumerics
// with optional separators, e.g. "A-100", "PL_REV", "1000".
func isAccountCode(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^[A-Z0-9][A-Z0-9._-]{0,63}$`)
	return re.MatchString(fl.Field().String())
}

func isAccountType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "A", "P", "R", "C":
		return true
	}
	return false
}

func isStatementType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "BS", "PL":
		return true
	}
	return false
}

// dateid is the platform's YYYYMMDD integer-date convention.
func isDateID(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^[123]\d{3}(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])$`)
	return re.MatchString(fl.Field().String())
}
