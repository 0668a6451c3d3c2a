package dedup

import (
	"errors"
	"fmt"
)

// ClassifyErrorCode categorizes spawnability classification faults.
type ClassifyErrorCode string

const (
	// ErrCodeNilDefinition indicates a nil definition was classified.
	ErrCodeNilDefinition ClassifyErrorCode = "NIL_DEFINITION"

	// ErrCodeUnknownKind indicates the definition kind is outside the enumeration.
	ErrCodeUnknownKind ClassifyErrorCode = "UNKNOWN_KIND"

	// ErrCodeInvalidRole indicates the role is outside the closed enumeration.
	ErrCodeInvalidRole ClassifyErrorCode = "INVALID_ROLE"

	// ErrCodeInvalidCategory indicates the category is outside the enumeration.
	ErrCodeInvalidCategory ClassifyErrorCode = "INVALID_CATEGORY"
)

// ClassifyError is the "faulted" outcome of a spawnability classification.
// IsSpawnable logs it and treats the definition as not spawnable.
type ClassifyError struct {
	// Code identifies the fault category.
	Code ClassifyErrorCode

	// Definition is the offending definition name, empty for nil.
	Definition string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ClassifyError) Error() string {
	if e.Definition != "" {
		return fmt.Sprintf("%s: %s (def=%s)", e.Code, e.Message, e.Definition)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsClassifyError returns true if err is, or wraps, a ClassifyError.
func IsClassifyError(err error) bool {
	var ce *ClassifyError
	return errors.As(err, &ce)
}
