// Package service holds the authorization core of the dashboard: who the
// caller is, which rows they see, and which changes they may make.
package service

import (
	"errors"
	"strings"
)

// Error classes.  Callers wrap them with detail via fmt.Errorf("%w: ...")
// and handlers map them to HTTP statuses with errors.Is.
var (
	ErrMissingFields      = errors.New("missing fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrInternal           = errors.New("internal error")
)

// Reasons recorded in logs for a rejected login.  They never reach the
// client.
const (
	ReasonUnknownIdentifier = "unknown_identifier"
	ReasonWrongSecret       = "wrong_secret"
)

// CredentialError is an ErrInvalidCredentials carrying the internal reason.
type CredentialError struct {
	Reason string
}

func (e *CredentialError) Error() string { return ErrInvalidCredentials.Error() }

func (e *CredentialError) Unwrap() error { return ErrInvalidCredentials }

func invalidCredentials(reason string) error { return &CredentialError{Reason: reason} }

// Message returns the client-facing text of err.  Errors wrapped as
// "<class>: <detail>" yield the detail; credential and internal failures
// never expose any.
func Message(err error) string {
	for _, class := range []error{ErrMissingFields, ErrValidation, ErrUnauthorized, ErrForbidden, ErrNotFound} {
		if !errors.Is(err, class) {
			continue
		}
		if detail, ok := strings.CutPrefix(err.Error(), class.Error()+": "); ok {
			return detail
		}
		return class.Error()
	}
	if errors.Is(err, ErrInvalidCredentials) {
		return ErrInvalidCredentials.Error()
	}
	return ErrInternal.Error()
}
