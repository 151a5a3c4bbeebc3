package validator

import (
	"errors"
	"strings"

	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// Validator validates a struct according to its tags.
type Validator interface {
	Validate(data any) error
}

// ValidationError lists the failed fields in struct declaration order.
type ValidationError []goerror.FieldError

// Error implements the error interface.
func (ve ValidationError) Error() string {
	if len(ve) == 0 {
		return "validation error"
	}

	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// FieldErrors implements goerror.FieldErrorer.
func (ve ValidationError) FieldErrors() []goerror.FieldError {
	return ve
}
