// Package service implements the application use cases on top of the store,
// the permission resolver and the mailer. Handlers translate the sentinel
// errors below into HTTP statuses; services never speak HTTP themselves.
package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrExpired         = errors.New("expired")
	ErrAlreadyUsed     = errors.New("already used")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")

	// ErrTOTPRequired tells the login handler the credentials were correct
	// but a one-time code is missing.
	ErrTOTPRequired = errors.New("totp code required")
)

// validationf wraps ErrValidation with a caller-facing detail message, so
// handlers can both errors.Is-match and surface the reason.
func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
