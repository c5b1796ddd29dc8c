package errors

import (
	"errors"
	"fmt"
)

// Error codes carried by BusinessError.
const (
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInvalidConfig    = "INVALID_CONFIG"
)

// ErrMissingKey marks every slug rejection: absent, empty or malformed.
var ErrMissingKey = errors.New("missing slug parameter")

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewMissingKeyError reports a slug that is absent, empty or otherwise unusable.
func NewMissingKeyError(message string) *ValidationError {
	return &ValidationError{
		Field:   "slug",
		Message: message,
		Cause:   ErrMissingKey,
	}
}

type BusinessError struct {
	Code    string
	Message string
	Cause   error
}

func (e *BusinessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Cause
}

func NewBusinessError(code, message string, cause error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewStoreUnavailable wraps any failure of the counter store.
func NewStoreUnavailable(message string, cause error) *BusinessError {
	return NewBusinessError(CodeStoreUnavailable, message, cause)
}

// Detail returns the underlying cause text, or the message when there is none.
func (e *BusinessError) Detail() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}

func IsMissingKey(err error) bool {
	return errors.Is(err, ErrMissingKey)
}

func IsStoreUnavailable(err error) bool {
	businessErr := GetBusinessError(err)
	return businessErr != nil && businessErr.Code == CodeStoreUnavailable
}

func GetValidationError(err error) *ValidationError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return nil
}

// GetBusinessError returns the first BusinessError in the chain, or nil.
func GetBusinessError(err error) *BusinessError {
	var businessErr *BusinessError
	if errors.As(err, &businessErr) {
		return businessErr
	}
	return nil
}
