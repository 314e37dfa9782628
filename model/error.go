package model

import (
	"errors"
	"fmt"
)

var (
	// ErrSignInRequired is terminal for the stored session: both tokens have
	// been cleared and the operator has to sign in again.
	ErrSignInRequired = errors.New("sign-in required")
	// ErrTokenInvalid marks a token whose claims could not be decoded.
	ErrTokenInvalid = errors.New("token is invalid")

	ErrRejectReasonRequired = errors.New("rejected reason is required")
	ErrRejectNotInitiated   = errors.New("reject has not been initiated for this score")
	ErrAlreadyVerified      = errors.New("score is already verified")
	ErrScoreNotFound        = errors.New("score is not found on the current page")
)

// StorageError describes a failed token storage access. It is only ever logged.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("token storage: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// AuthenticationError is returned when the backend rejects credentials or a refresh token.
type AuthenticationError struct {
	StatusCode int
	Message    string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication failed with status %d", e.StatusCode)
	}
	return "authentication failed: " + e.Message
}

// ValidationError is a local precondition failure raised before any mutating call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// BackendError is a non-2xx answer of the admin backend.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend responded with status %d: %s", e.StatusCode, e.Message)
}

// ErrorResponse is the message body the backend sends on failures.
type ErrorResponse struct {
	Message string `json:"message"`
}
