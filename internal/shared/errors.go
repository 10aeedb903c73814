package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTenant indicates no tenant identifier was supplied.
	ErrMissingTenant = errors.New("tenant id required")
	// ErrTenantNotFound indicates the tenant does not exist.
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrTenantInactive indicates the tenant exists but is not active.
	ErrTenantInactive = errors.New("tenant is not active")
	// ErrAuthentication indicates a failed login or an invalid session.
	ErrAuthentication = errors.New("authentication failed")
	// ErrUnauthorized indicates a missing capability.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates a uniqueness violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates malformed input.
	ErrValidation = errors.New("validation failed")
)

// AuthError carries the user-facing message for an authentication failure.
// The message for credential mismatches is deliberately generic so callers
// cannot distinguish an unknown email from a wrong password.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return ErrAuthentication }

// TenantStatusError reports a tenant rejected because of its status.
type TenantStatusError struct {
	TenantID string
	Status   string
}

func (e *TenantStatusError) Error() string {
	return fmt.Sprintf("tenant %s is %s", e.TenantID, e.Status)
}

func (e *TenantStatusError) Unwrap() error { return ErrTenantInactive }
