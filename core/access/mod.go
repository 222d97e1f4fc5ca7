// Package access defines the interfaces for access rights control.
package access

import (
	"encoding"
	"fmt"

	"github.com/chainkitchen/foodchain/core/store"
)

// Identity is an abstraction to uniquely identify the initiator of a
// transaction. The text representation is the canonical form, and two
// identities are the same if and only if their texts are equal.
type Identity interface {
	encoding.TextMarshaler
}

// TextIdentity is an identity built back from its canonical text.
//
// - implements access.Identity
type TextIdentity string

// NewIdentity returns the identity of the canonical text.
func NewIdentity(text string) Identity {
	return TextIdentity(text)
}

// MarshalText implements encoding.TextMarshaler.
func (ti TextIdentity) MarshalText() ([]byte, error) {
	return []byte(ti), nil
}

// String implements fmt.Stringer.
func (ti TextIdentity) String() string {
	return string(ti)
}

// Credential is an abstraction of an access control rule. It is uniquely
// identified and scoped to a rule.
type Credential interface {
	// GetID returns the identifier of the credential.
	GetID() []byte

	// GetRule returns the scope of the credential.
	GetRule() string
}

// Service is an abstraction to verify and update who has access to a
// credential.
type Service interface {
	// Match returns nil if all the identities have access to the given
	// credential, otherwise a meaningful error on the reason why not.
	Match(store store.Readable, creds Credential, idents ...Identity) error

	// Grant updates the credential so that the identities will match it.
	Grant(store store.Snapshot, creds Credential, idents ...Identity) error
}

// ContractCredential defines the credential for a contract. It contains the
// name of the contract and an associated command.
//
// - implements access.Credential
type ContractCredential struct {
	id       []byte
	contract string
	command  string
}

// NewContractCreds creates a new credential from the associated identifier,
// the name of the contract and its command.
func NewContractCreds(id []byte, contract, command string) ContractCredential {
	return ContractCredential{
		id:       id,
		contract: contract,
		command:  command,
	}
}

// GetID implements access.Credential. It returns the identifier for the
// credential.
func (cc ContractCredential) GetID() []byte {
	return append([]byte{}, cc.id...)
}

// GetRule implements access.Credential. It returns the scope of the
// credential.
func (cc ContractCredential) GetRule() string {
	return fmt.Sprintf("%s:%s", cc.contract, cc.command)
}
