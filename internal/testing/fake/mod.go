// Package fake provides fake implementations for interfaces commonly used
// in the repository. The implementations offer configuration to return
// errors when it is needed by the unit test.
package fake

import (
	"fmt"

	"golang.org/x/xerrors"
)

var fakeErr = xerrors.New("fake error")

// GetError returns the fake error.
func GetError() error {
	return fakeErr
}

// Err returns the expected format of a wrapped fake error.
func Err(msg string) string {
	return fmt.Sprintf("%s: %v", msg, fakeErr)
}

// PublicKey is a fake implementation of an identity.
//
// - implements access.Identity
type PublicKey struct {
	name string
	err  error
}

// NewIdentity returns a fake identity with the given name.
func NewIdentity(name string) PublicKey {
	return PublicKey{name: name}
}

// NewBadIdentity returns a fake identity that fails to marshal.
func NewBadIdentity() PublicKey {
	return PublicKey{name: "bad", err: fakeErr}
}

// MarshalText implements encoding.TextMarshaler.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte("fake:" + pk.name), pk.err
}

// String implements fmt.Stringer.
func (pk PublicKey) String() string {
	return "fake.PublicKey"
}
