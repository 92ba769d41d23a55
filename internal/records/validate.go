package records

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-records/internal/types"
)

// newValidator returns a validator that reports fields by their JSON name
// and knows the alphaspace rule used on Student.Name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return isAlphaSpace(fl.Field().String())
	})

	return v
}

// isAlphaSpace reports whether s holds only letters and spaces, with at
// least one letter.
func isAlphaSpace(s string) bool {
	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case r == ' ':
		default:
			return false
		}
	}
	return letters > 0
}

// validateStudent runs the struct rules and converts failures into a
// *ValidationError.
func (s *Store) validateStudent(student types.Student) error {
	err := s.validate.Struct(student)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate student: %w", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		problems = append(problems, describe(e))
	}
	return invalid(problems...)
}

// describe turns one validator.FieldError into a plain English sentence.
func describe(e validator.FieldError) string {
	switch e.ActualTag() {
	case "required":
		return fmt.Sprintf("field %s is required", e.Field())
	case "alphaspace":
		return fmt.Sprintf("field %s should contain only alphabets", e.Field())
	case "min", "max":
		if e.Field() == "semester" {
			return "field semester must be between 1 and 6"
		}
		return fmt.Sprintf("field %s is out of range", e.Field())
	default:
		return fmt.Sprintf("field %s is invalid", e.Field())
	}
}
