package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrNoEmail             = errors.New("no email address found")
	ErrInvalidMagicLink    = errors.New("invalid or expired magic link")
	ErrMagicLinkAuthFailed = errors.New("magic link sign-in failed")
	ErrProfileExists       = errors.New("profile already exists")
	ErrNotAuthenticated    = errors.New("not authenticated")
)

// RejectedError is a request the identity provider refused; Message is safe to show
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected by identity provider: %s", e.Message)
}

func (e *RejectedError) Unwrap() error {
	return ErrInvalidCredentials
}

// ValidationError is a form answer that failed a rule the binding tags cannot express
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
