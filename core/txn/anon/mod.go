// Package anon is a plain implementation of the transaction abstraction.
//
// The transaction is built in-process and is not signed; the identity it
// carries is trusted as resolved by the caller. It is the transaction used
// by the sandbox node and the tests.
package anon

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/chainkitchen/foodchain/core/access"
	"github.com/chainkitchen/foodchain/crypto"
	"golang.org/x/xerrors"
)

// Transaction is an anonymous transaction. It holds the caller identity,
// the arguments and the attached payment value.
//
// - implements txn.Transaction
type Transaction struct {
	nonce    uint64
	args     map[string][]byte
	identity access.Identity
	value    uint64
	hash     []byte
}

type template struct {
	Transaction

	hashFactory crypto.HashFactory
}

// TransactionOption is the type of options to create a transaction.
type TransactionOption func(*template)

// WithArg is an option to set an argument with the key and the value.
func WithArg(key string, value []byte) TransactionOption {
	return func(tmpl *template) {
		tmpl.args[key] = value
	}
}

// WithValue is an option to attach a payment value to the transaction.
func WithValue(value uint64) TransactionOption {
	return func(tmpl *template) {
		tmpl.value = value
	}
}

// WithHashFactory is an option to set a different hash factory when
// creating a transaction.
func WithHashFactory(f crypto.HashFactory) TransactionOption {
	return func(tmpl *template) {
		tmpl.hashFactory = f
	}
}

// NewTransaction creates a new transaction with the provided nonce and
// identity.
func NewTransaction(nonce uint64, ident access.Identity, opts ...TransactionOption) (Transaction, error) {
	tmpl := template{
		Transaction: Transaction{
			nonce:    nonce,
			args:     make(map[string][]byte),
			identity: ident,
		},
		hashFactory: crypto.NewSha256Factory(),
	}

	for _, opt := range opts {
		opt(&tmpl)
	}

	h := tmpl.hashFactory.New()
	err := tmpl.Fingerprint(h)
	if err != nil {
		return tmpl.Transaction, xerrors.Errorf("couldn't fingerprint tx: %v", err)
	}

	tmpl.hash = h.Sum(nil)

	return tmpl.Transaction, nil
}

// GetID implements txn.Transaction. It returns the ID of the transaction.
func (t Transaction) GetID() []byte {
	return t.hash
}

// GetNonce implements txn.Transaction. It returns the nonce of the
// transaction.
func (t Transaction) GetNonce() uint64 {
	return t.nonce
}

// GetIdentity implements txn.Transaction. It returns the identity that
// created the transaction.
func (t Transaction) GetIdentity() access.Identity {
	return t.identity
}

// GetArg implements txn.Transaction. It returns the value of the argument
// if it is set, otherwise nil.
func (t Transaction) GetArg(key string) []byte {
	return t.args[key]
}

// GetValue implements txn.Transaction. It returns the attached payment
// value.
func (t Transaction) GetValue() uint64 {
	return t.value
}

// Fingerprint implements txn.Transaction. It writes a deterministic binary
// representation of the transaction.
func (t Transaction) Fingerprint(w io.Writer) error {
	buffer := make([]byte, 16)
	binary.LittleEndian.PutUint64(buffer[:8], t.nonce)
	binary.LittleEndian.PutUint64(buffer[8:], t.value)

	_, err := w.Write(buffer)
	if err != nil {
		return xerrors.Errorf("couldn't write the nonce: %v", err)
	}

	if t.identity != nil {
		text, err := t.identity.MarshalText()
		if err != nil {
			return xerrors.Errorf("couldn't marshal the identity: %v", err)
		}

		_, err = w.Write(text)
		if err != nil {
			return xerrors.Errorf("couldn't write the identity: %v", err)
		}
	}

	keys := make([]string, 0, len(t.args))
	for key := range t.args {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		_, err = w.Write(append([]byte(key), t.args[key]...))
		if err != nil {
			return xerrors.Errorf("couldn't write the arguments: %v", err)
		}
	}

	return nil
}
