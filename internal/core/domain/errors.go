package domain

import (
	"errors"
	"fmt"
)

// DomainError is an error with a stable, greppable code.
//
// Codes follow BM-<AREA>-<NNNN>, the last four digits loosely mirroring
// HTTP status semantics.
type DomainError struct {
	Code    string // e.g. "BM-CRED-4001"
	Message string
	Details string
	Cause   error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches another DomainError by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the code from err if it wraps a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Credential errors (CRED).
var (
	// ErrCredentialInvalid indicates a record failed validation.
	ErrCredentialInvalid = NewDomainError("BM-CRED-4001", "invalid credential record")

	// ErrCredentialHashFormat indicates the password hash is not an argon2id PHC string.
	ErrCredentialHashFormat = NewDomainError("BM-CRED-4002", "unsupported password hash")

	// ErrCredentialDuplicate indicates the same identity key appears twice.
	ErrCredentialDuplicate = NewDomainError("BM-CRED-4090", "duplicate identity key")

	// ErrCredentialFile indicates the credential file could not be read or decoded.
	ErrCredentialFile = NewDomainError("BM-CRED-5001", "credential file unreadable")
)

// Configuration errors (CONF).
var (
	// ErrConfigInvalid indicates a configuration value is invalid.
	ErrConfigInvalid = NewDomainError("BM-CONF-4001", "invalid configuration")
)
