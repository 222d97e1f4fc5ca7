package types

import "fmt"

// Code identifies the category of a food order domain failure.
type Code string

// The domain failure categories.
const (
	CodeNotFound          Code = "NOT_FOUND"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeInvalidState      Code = "INVALID_STATE"
	CodeAlreadyExists     Code = "ALREADY_EXISTS"
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeInsufficientValue Code = "INSUFFICIENT_VALUE"
)

// Error is a food order domain failure. It identifies the violated
// precondition with a code so that callers can branch on it with errors.Is
// against the sentinel values.
type Error struct {
	code   Code
	reason string
}

// Sentinels to match domain errors by category.
var (
	ErrNotFound          = Error{code: CodeNotFound}
	ErrUnauthorized      = Error{code: CodeUnauthorized}
	ErrInvalidState      = Error{code: CodeInvalidState}
	ErrAlreadyExists     = Error{code: CodeAlreadyExists}
	ErrInvalidInput      = Error{code: CodeInvalidInput}
	ErrInsufficientValue = Error{code: CodeInsufficientValue}
)

// NewNotFound creates an error for a reference to a missing record.
func NewNotFound(format string, args ...interface{}) Error {
	return Error{code: CodeNotFound, reason: fmt.Sprintf(format, args...)}
}

// NewUnauthorized creates an error for a caller that does not own the
// resource or lacks the required role.
func NewUnauthorized(format string, args ...interface{}) Error {
	return Error{code: CodeUnauthorized, reason: fmt.Sprintf(format, args...)}
}

// NewInvalidState creates an error for a workflow operation attempted from
// a state that does not permit it.
func NewInvalidState(format string, args ...interface{}) Error {
	return Error{code: CodeInvalidState, reason: fmt.Sprintf(format, args...)}
}

// NewAlreadyExists creates an error for a creation that would duplicate an
// existing record.
func NewAlreadyExists(format string, args ...interface{}) Error {
	return Error{code: CodeAlreadyExists, reason: fmt.Sprintf(format, args...)}
}

// NewInvalidInput creates an error for a malformed or out-of-range
// argument.
func NewInvalidInput(format string, args ...interface{}) Error {
	return Error{code: CodeInvalidInput, reason: fmt.Sprintf(format, args...)}
}

// NewInsufficientValue creates an error for an attached payment below the
// required amount.
func NewInsufficientValue(format string, args ...interface{}) Error {
	return Error{code: CodeInsufficientValue, reason: fmt.Sprintf(format, args...)}
}

// GetCode returns the category of the failure.
func (e Error) GetCode() Code {
	return e.code
}

// Error implements error.
func (e Error) Error() string {
	if e.reason == "" {
		return string(e.code)
	}

	return e.reason
}

// Is implements the interface expected by errors.Is. Two domain errors
// match when they share the code, so sentinels match any reason.
func (e Error) Is(target error) bool {
	other, ok := target.(Error)

	return ok && other.code == e.code
}

// OwnableError is returned by the ownership operations when the caller is
// not the current owner.
type OwnableError struct {
	reason string
}

// ErrCallerNotOwner is the sentinel to match ownership failures.
var ErrCallerNotOwner = OwnableError{}

// NewCallerNotOwner creates an ownership failure.
func NewCallerNotOwner(format string, args ...interface{}) OwnableError {
	return OwnableError{reason: fmt.Sprintf(format, args...)}
}

// Error implements error.
func (e OwnableError) Error() string {
	if e.reason == "" {
		return "caller is not the owner"
	}

	return e.reason
}

// Is implements the interface expected by errors.Is.
func (e OwnableError) Is(target error) bool {
	_, ok := target.(OwnableError)

	return ok
}

// ACCode identifies the category of an access control failure.
type ACCode string

// The access control failure categories.
const (
	ACCodeMissingRole   ACCode = "MISSING_ROLE"
	ACCodeRoleRedundant ACCode = "ROLE_REDUNDANT"
	ACCodeInvalidCaller ACCode = "INVALID_CALLER"
)

// AccessControlError is returned by the role operations: a caller missing
// the admin role, a grant or revoke that would not change the state, or a
// renounce for another account.
type AccessControlError struct {
	code   ACCode
	reason string
}

// Sentinels to match access control errors by category.
var (
	ErrMissingRole   = AccessControlError{code: ACCodeMissingRole}
	ErrRoleRedundant = AccessControlError{code: ACCodeRoleRedundant}
	ErrInvalidCaller = AccessControlError{code: ACCodeInvalidCaller}
)

// NewMissingRole creates an error for a caller that lacks a required role.
func NewMissingRole(format string, args ...interface{}) AccessControlError {
	return AccessControlError{code: ACCodeMissingRole, reason: fmt.Sprintf(format, args...)}
}

// NewRoleRedundant creates an error for a grant or revoke that would leave
// the membership unchanged.
func NewRoleRedundant(format string, args ...interface{}) AccessControlError {
	return AccessControlError{code: ACCodeRoleRedundant, reason: fmt.Sprintf(format, args...)}
}

// NewInvalidCaller creates an error for a renounce targeting another
// account than the caller.
func NewInvalidCaller(format string, args ...interface{}) AccessControlError {
	return AccessControlError{code: ACCodeInvalidCaller, reason: fmt.Sprintf(format, args...)}
}

// GetCode returns the category of the failure.
func (e AccessControlError) GetCode() ACCode {
	return e.code
}

// Error implements error.
func (e AccessControlError) Error() string {
	if e.reason == "" {
		return string(e.code)
	}

	return e.reason
}

// Is implements the interface expected by errors.Is.
func (e AccessControlError) Is(target error) bool {
	other, ok := target.(AccessControlError)

	return ok && other.code == e.code
}

// UpgradeableError is returned by the upgrade operation for a malformed
// code hash.
type UpgradeableError struct {
	reason string
}

// ErrInvalidCodeHash is the sentinel to match upgrade failures.
var ErrInvalidCodeHash = UpgradeableError{}

// NewInvalidCodeHash creates an upgrade failure.
func NewInvalidCodeHash(format string, args ...interface{}) UpgradeableError {
	return UpgradeableError{reason: fmt.Sprintf(format, args...)}
}

// Error implements error.
func (e UpgradeableError) Error() string {
	if e.reason == "" {
		return "invalid code hash"
	}

	return e.reason
}

// Is implements the interface expected by errors.Is.
func (e UpgradeableError) Is(target error) bool {
	_, ok := target.(UpgradeableError)

	return ok
}
