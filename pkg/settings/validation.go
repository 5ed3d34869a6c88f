package settings

import (
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("operator", func(fl validator.FieldLevel) bool {
		_, err := graph.ParseOperator(fl.Field().String())
		return err == nil
	})
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(errors.ErrCodeInvalidSettings, err, "validate settings")
	}

	// Report the first failing field
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return errors.New(errors.ErrCodeInvalidSettings, "%s: field is required", field)
		case "min":
			return errors.New(errors.ErrCodeInvalidSettings, "%s: must be at least %s", field, param)
		case "max":
			return errors.New(errors.ErrCodeInvalidSettings, "%s: must not exceed %s", field, param)
		case "gt":
			return errors.New(errors.ErrCodeInvalidSettings, "%s: must be greater than %s", field, param)
		case "oneof":
			return errors.New(errors.ErrCodeInvalidSettings, "%s: must be one of [%s], got %q", field, param, e.Value())
		case "operator":
			return errors.New(errors.ErrCodeInvalidSettings, "%s: unknown operator %q", field, e.Value())
		default:
			return errors.New(errors.ErrCodeInvalidSettings, "%s: validation failed (%s)", field, e.Tag())
		}
	}

	return errors.Wrap(errors.ErrCodeInvalidSettings, err, "validate settings")
}
