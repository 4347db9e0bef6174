package core

import (
	"errors"
	"fmt"
)

// Error codes for domain errors.
const (
	ErrCodeValidation       = "validation_failed"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeForbidden        = "forbidden"
	ErrCodeStoreUnavailable = "store_unavailable"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNameTaken           = errors.New("name already taken")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrAuthorNotPresent    = errors.New("author is not present")
	ErrNotAuthor           = errors.New("not the author of the message")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// CoreError wraps a code and human-readable message.
// Details lists every violated field for validation errors.
type CoreError struct {
	Code    string
	Message string
	Details []string
	err     error
}

func (e *CoreError) Error() string {
	if e.err != nil && e.Code == ErrCodeStoreUnavailable {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

// Unwrap exposes the sentinel (and, for store failures, the cause) to errors.Is.
func (e *CoreError) Unwrap() error {
	return e.err
}

func coreError(code string, sentinel error) *CoreError {
	return &CoreError{Code: code, Message: sentinel.Error(), err: sentinel}
}

func validationError(details []string) *CoreError {
	return &CoreError{Code: ErrCodeValidation, Message: ErrValidation.Error(), Details: details, err: ErrValidation}
}

func storeError(op string, cause error) *CoreError {
	return &CoreError{
		Code:    ErrCodeStoreUnavailable,
		Message: op,
		err:     fmt.Errorf("%w: %w", ErrStoreUnavailable, cause),
	}
}

// Code returns the CoreError code carried by err, or "" when err is not a CoreError.
func Code(err error) string {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
