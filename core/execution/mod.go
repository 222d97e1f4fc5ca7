// Package execution defines the primitives to execute a transaction.
package execution

import (
	"github.com/chainkitchen/foodchain/core/store"
	"github.com/chainkitchen/foodchain/core/txn"
)

// Step is the input of a contract execution: the transaction being applied
// and the transactions that have already been applied in the same batch.
type Step struct {
	Previous []txn.Transaction

	Current txn.Transaction
}

// Result is the result of a transaction execution.
type Result struct {
	// Accepted is the success state of the transaction.
	Accepted bool

	// Message gives a chance to the execution to explain why a transaction
	// has failed.
	Message string

	// Data is the payload returned by the operation when it is accepted.
	Data []byte
}

// Service is the execution service that defines the primitives to execute
// a transaction.
type Service interface {
	// Execute must apply the transaction to the snapshot and return the
	// result of it.
	Execute(snap store.Snapshot, step Step) (Result, error)
}
