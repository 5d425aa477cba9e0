package util

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrForbidden            = errors.New("permission denied")
	ErrNotEnrolled          = errors.New("not enrolled in this course")
	ErrValidation           = errors.New("validation failed")
	ErrAttemptLimitExceeded = errors.New("maximum attempts reached")
	ErrConflict             = errors.New("conflict")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
)
