package intake

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validatePatient checks the demographic fields and reports the first
// failure as ErrInvalidInput with a message fit for the form.
func validatePatient(p *Patient) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, fieldMessage(verrs[0]))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		if fe.Tag() == "max" {
			return fmt.Sprintf("name must be at most %d characters", MaxNameLength)
		}
		return "name is required"
	case "Age":
		return fmt.Sprintf("age must be between 0 and %d", MaxAge)
	case "Gender":
		return "gender must be one of " + strings.Join(Genders, ", ")
	}
	return strings.ToLower(fe.Field()) + " is invalid"
}
