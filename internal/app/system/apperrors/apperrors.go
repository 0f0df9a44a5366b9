// internal/app/system/apperrors/apperrors.go
//
// Package apperrors defines the error taxonomy handlers map onto HTTP
// statuses. Stores and domain code return these; the respond package
// translates them at the boundary.
package apperrors

import (
	"errors"
	"fmt"
)

// NotFoundError marks a lookup that matched no document.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// BusinessRuleError marks a request that is well-formed but violates a
// domain rule (duplicate names, oversized exports, delisting an
// applicant who was never offered).
type BusinessRuleError struct {
	Reason string
}

func (e *BusinessRuleError) Error() string {
	return e.Reason
}

// InvalidIDError marks a malformed object id supplied by the caller.
type InvalidIDError struct {
	Field string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid %s", e.Field)
}

// NotFound builds a NotFoundError for the named resource.
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// BusinessRule builds a BusinessRuleError with a formatted reason.
func BusinessRule(format string, args ...any) error {
	return &BusinessRuleError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidID builds an InvalidIDError for the named field.
func InvalidID(field string) error {
	return &InvalidIDError{Field: field}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsBusinessRule(err error) bool {
	var br *BusinessRuleError
	return errors.As(err, &br)
}

func IsInvalidID(err error) bool {
	var ii *InvalidIDError
	return errors.As(err, &ii)
}
