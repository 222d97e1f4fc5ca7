// Package txn defines the abstraction of transactions.
//
// A transaction is a smart contract input. It is uniquely identifiable via
// a digest and it can be sorted with the nonce that acts as a sequence
// number. The transaction carries the identity of its creator, a set of
// named arguments and an optional payment value for payable calls.
package txn

import (
	"io"

	"github.com/chainkitchen/foodchain/core/access"
)

// Transaction is what triggers a smart contract execution by passing it as
// part of the input.
type Transaction interface {
	// Fingerprint writes a deterministic binary representation of the
	// transaction into the writer.
	Fingerprint(writer io.Writer) error

	// GetID returns the unique identifier for the transaction.
	GetID() []byte

	// GetNonce returns the nonce of the transaction which corresponds to
	// the sequence number of a unique identity.
	GetNonce() uint64

	// GetIdentity returns the identity that created the transaction.
	GetIdentity() access.Identity

	// GetArg is a getter for the arguments of the transaction.
	GetArg(key string) []byte

	// GetValue returns the payment value attached to the transaction, in
	// the smallest currency unit. It is zero for non-payable calls.
	GetValue() uint64
}

// Arg is a generic argument that can be stored in a transaction.
type Arg struct {
	Key   string
	Value []byte
}
