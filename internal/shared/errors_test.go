package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthErrorUnwrapsToAuthentication(t *testing.T) {
	err := &AuthError{Message: "Invalid email or password"}
	require.EqualError(t, err, "Invalid email or password")
	require.ErrorIs(t, err, ErrAuthentication)
	require.NotErrorIs(t, err, ErrUnauthorized)
}

func TestTenantStatusErrorUnwrapsToInactive(t *testing.T) {
	err := &TenantStatusError{TenantID: "acme", Status: "suspended"}
	require.EqualError(t, err, "tenant acme is suspended")
	require.ErrorIs(t, err, ErrTenantInactive)
}

func TestWrappedSentinelsStayMatchable(t *testing.T) {
	err := fmt.Errorf("%w: user with ID u1 not found", ErrNotFound)
	require.ErrorIs(t, err, ErrNotFound)
	require.False(t, errors.Is(err, ErrDuplicate))
}
