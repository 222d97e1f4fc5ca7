// Package bls implements the public keys and signers for the BLS signature
// scheme over the BN256 pairing suite.
//
// The public keys double as transaction identities: their canonical text
// form is what the contracts index ownership by.
package bls

import (
	"bytes"
	"fmt"

	"github.com/chainkitchen/foodchain/crypto"
	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/pairing"
	"go.dedis.ch/kyber/v3/sign/bls"
	"go.dedis.ch/kyber/v3/util/random"
	"golang.org/x/xerrors"
)

// Algorithm is the name of the curve used for the BLS signature.
const Algorithm = "CURVE-BN256"

var suite = pairing.NewSuiteBn256()

// PublicKey can be provided to verify a BLS signature.
//
// - implements crypto.PublicKey
// - implements access.Identity
type PublicKey struct {
	point kyber.Point
}

// NewPublicKey creates a new public key by unmarshaling the data into a
// BN256 point.
func NewPublicKey(data []byte) (PublicKey, error) {
	point := suite.Point()

	err := point.UnmarshalBinary(data)
	if err != nil {
		return PublicKey{}, xerrors.Errorf("couldn't unmarshal point: %v", err)
	}

	return PublicKey{point: point}, nil
}

// MarshalBinary implements encoding.BinaryMarshaler. It produces a slice of
// bytes representing the public key.
func (pk PublicKey) MarshalBinary() ([]byte, error) {
	return pk.point.MarshalBinary()
}

// MarshalText implements encoding.TextMarshaler. It returns a text
// representation of the public key.
func (pk PublicKey) MarshalText() ([]byte, error) {
	buffer, err := pk.MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal: %v", err)
	}

	return []byte(fmt.Sprintf("bls:%x", buffer)), nil
}

// Verify implements crypto.PublicKey. It returns nil if the signature
// matches the message with this public key.
func (pk PublicKey) Verify(msg []byte, sig crypto.Signature) error {
	signature, ok := sig.(Signature)
	if !ok {
		return xerrors.Errorf("invalid signature type '%T'", sig)
	}

	err := bls.Verify(suite, pk.point, msg, signature.data)
	if err != nil {
		return xerrors.Errorf("bls verify failed: %v", err)
	}

	return nil
}

// Equal implements crypto.PublicKey. It returns true if the other public
// key is the same.
func (pk PublicKey) Equal(other crypto.PublicKey) bool {
	pubkey, ok := other.(PublicKey)
	if !ok {
		return false
	}

	return pubkey.point.Equal(pk.point)
}

// String implements fmt.Stringer. It returns a short representation of the
// public key.
func (pk PublicKey) String() string {
	buffer, err := pk.MarshalText()
	if err != nil {
		return "bls:malformed_point"
	}

	// Output only the prefix and 16 characters of the buffer in hexadecimal.
	return string(buffer)[:4+16]
}

// Signature is a proof of the integrity of a single message associated with
// a unique public key.
//
// - implements crypto.Signature
type Signature struct {
	data []byte
}

// MarshalBinary implements encoding.BinaryMarshaler. It returns a slice of
// bytes representing the signature.
func (sig Signature) MarshalBinary() ([]byte, error) {
	return sig.data, nil
}

// Equal returns true when the other signature is the same.
func (sig Signature) Equal(other crypto.Signature) bool {
	otherSig, ok := other.(Signature)
	if !ok {
		return false
	}

	return bytes.Equal(sig.data, otherSig.data)
}

// Signer holds a key pair to produce BLS signatures.
//
// - implements crypto.Signer
type Signer struct {
	public  kyber.Point
	private kyber.Scalar
}

// NewSigner generates a new random BLS signer.
func NewSigner() Signer {
	private, public := bls.NewKeyPair(suite, random.New())

	return Signer{
		public:  public,
		private: private,
	}
}

// NewSignerFromBytes restores a signer from its marshaled private key.
func NewSignerFromBytes(data []byte) (Signer, error) {
	private := suite.Scalar()

	err := private.UnmarshalBinary(data)
	if err != nil {
		return Signer{}, xerrors.Errorf("couldn't unmarshal scalar: %v", err)
	}

	return Signer{
		public:  suite.Point().Mul(private, nil),
		private: private,
	}, nil
}

// MarshalBinary returns the bytes of the private key, from which the signer
// can be restored.
func (s Signer) MarshalBinary() ([]byte, error) {
	data, err := s.private.MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal scalar: %v", err)
	}

	return data, nil
}

// GetPublicKey implements crypto.Signer.
func (s Signer) GetPublicKey() crypto.PublicKey {
	return PublicKey{point: s.public}
}

// Sign implements crypto.Signer. It signs the message and returns the
// signature.
func (s Signer) Sign(msg []byte) (crypto.Signature, error) {
	sig, err := bls.Sign(suite, s.private, msg)
	if err != nil {
		return nil, xerrors.Errorf("couldn't make bls signature: %v", err)
	}

	return Signature{data: sig}, nil
}
