// Package crypto defines the primitives for the cryptographic material used
// by the module: hashes, public keys and signers.
package crypto

import (
	"crypto/sha256"
	"encoding"
	"hash"
)

// HashFactory is an interface to produce a hash digest.
type HashFactory interface {
	New() hash.Hash
}

// Sha256Factory is a hash factory producing SHA-256 digests.
//
// - implements crypto.HashFactory
type Sha256Factory struct{}

// NewSha256Factory returns a new instance of the factory.
func NewSha256Factory() Sha256Factory {
	return Sha256Factory{}
}

// New implements crypto.HashFactory.
func (f Sha256Factory) New() hash.Hash {
	return sha256.New()
}

// Signature is a verifiable element for a unique message.
type Signature interface {
	encoding.BinaryMarshaler
}

// PublicKey is a public identity that can be used to verify a signature.
type PublicKey interface {
	encoding.BinaryMarshaler
	encoding.TextMarshaler

	// Verify returns nil if the signature matches the message for this
	// public key.
	Verify(msg []byte, signature Signature) error

	// Equal returns true when the other public key is the same.
	Equal(other PublicKey) bool
}

// Signer provides the primitives to sign and verify signatures.
type Signer interface {
	GetPublicKey() PublicKey

	Sign(msg []byte) (Signature, error)
}
