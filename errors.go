package axiosgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/broady/axiosgen/typescript"
)

// ErrEmptyArguments is returned when a parameterized type has no type arguments.
var ErrEmptyArguments = typescript.ErrEmptyArguments

// ResolutionError reports a URL placeholder that no path parameter is bound
// to. The run is aborted before any file is written.
type ResolutionError = typescript.ResolutionError

// PersistenceError reports a failure to write a generated file.
type PersistenceError = typescript.PersistenceError

// ConfigurationError reports a missing or malformed configuration value.
// It is returned before any output is produced.
type ConfigurationError struct {
	// Field is the configuration field at fault, e.g. "OutDir" or "Git.URL".
	Field string

	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// configurationError converts a validator result into a ConfigurationError.
// Several failures are joined into one error.
func configurationError(err error) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	errs := make([]error, 0, len(valErrs))
	for _, ve := range valErrs {
		errs = append(errs, &ConfigurationError{
			Field:  fieldPath(ve.Namespace()),
			Reason: formatValidationError(ve),
		})
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// fieldPath strips the top-level struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "required_without":
		return fmt.Sprintf("required when %s is not set", ve.Param())
	case "excluded_with":
		return fmt.Sprintf("must be empty when %s is set", ve.Param())
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	case "endswith":
		return fmt.Sprintf("must end with %q", ve.Param())
	case "filepath":
		return "must be a file path"
	case "excludesall":
		return fmt.Sprintf("must not contain any of %q", ve.Param())
	default:
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
