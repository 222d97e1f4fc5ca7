package types

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestError_Is(t *testing.T) {
	err := NewNotFound("order %d not found", 42)
	require.EqualError(t, err, "order 42 not found")
	require.Equal(t, CodeNotFound, err.GetCode())

	require.ErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, ErrUnauthorized)

	// Matching works through wrapping.
	wrapped := xerrors.Errorf("failed to READ_ORDER: %w", err)
	require.ErrorIs(t, wrapped, ErrNotFound)

	require.EqualError(t, ErrInvalidState, "INVALID_STATE")
}

func TestOwnableError_Is(t *testing.T) {
	err := NewCallerNotOwner("caller '%s' is not the owner", "alice")
	require.EqualError(t, err, "caller 'alice' is not the owner")

	require.ErrorIs(t, err, ErrCallerNotOwner)
	require.NotErrorIs(t, err, ErrNotFound)

	require.EqualError(t, ErrCallerNotOwner, "caller is not the owner")
}

func TestAccessControlError_Is(t *testing.T) {
	err := NewMissingRole("account '%s' is missing role", "alice")
	require.ErrorIs(t, err, ErrMissingRole)
	require.NotErrorIs(t, err, ErrRoleRedundant)

	require.ErrorIs(t, NewRoleRedundant("redundant"), ErrRoleRedundant)
	require.ErrorIs(t, NewInvalidCaller("invalid"), ErrInvalidCaller)
	require.Equal(t, ACCodeMissingRole, err.GetCode())
}

func TestUpgradeableError_Is(t *testing.T) {
	err := NewInvalidCodeHash("code hash is %d bytes, expected 32", 4)
	require.EqualError(t, err, "code hash is 4 bytes, expected 32")

	require.ErrorIs(t, err, ErrInvalidCodeHash)
	require.NotErrorIs(t, err, ErrCallerNotOwner)
}
