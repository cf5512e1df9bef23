package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingBody is returned when a request carries no usable JSON object.
var ErrMissingBody = errors.New("domain: missing JSON body")

// ErrInvalidNumeric marks a numeric field whose value cannot be parsed as a number.
var ErrInvalidNumeric = errors.New("domain: invalid numerical value")

// MissingFieldsError names every required key absent from a request body.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("domain: missing fields: %s", strings.Join(e.Fields, ", "))
}

// InvalidNumericError provides context for a failed numeric parse.
type InvalidNumericError struct {
	Field string
	Value any
}

func (e *InvalidNumericError) Error() string {
	return fmt.Sprintf("domain: invalid numerical value for %q: %v", e.Field, e.Value)
}

func (e *InvalidNumericError) Is(target error) bool {
	return target == ErrInvalidNumeric
}
