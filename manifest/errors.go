package manifest

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported manifest format")
	ErrUnsupportedSchema = errors.New("unsupported manifest schema")
	ErrInvalid           = errors.New("invalid manifest")
	ErrDuplicateClass    = errors.New("duplicate class")
	ErrUnknownParent     = errors.New("unknown parent class")
	ErrCycle             = errors.New("inheritance cycle")
)

// invalid turns validator output into one readable error that still matches
// ErrInvalid.
func invalid(source string, err error) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return errors.Wrapf(err, "%s", source)
	}
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, fieldPath(ve)+": "+describe(ve))
	}
	return errors.Wrapf(ErrInvalid, "%s: %s", source, strings.Join(messages, "; "))
}

// fieldPath drops the root struct name from the validator namespace, so
// "Manifest.Classes[0].Name" reads as "Classes[0].Name".
func fieldPath(ve validator.FieldError) string {
	ns := ve.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", ve.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "template":
		return "exactly one of get, set, return, call, super or abstract is required"
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
