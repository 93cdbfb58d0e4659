// Package execution defines the service to execute a step in a validation
// batch.
package execution

import (
	"go.dedis.ch/caisse/core/store"
	"go.dedis.ch/caisse/core/txn"
)

// Step is the input of a contract execution. It gives the contract access to
// the transactions that have already been accepted in the same batch.
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

	// Data is the reply produced by the contract when the transaction has
	// been accepted.
	Data []byte
}

// Service is the execution service that defines the primitives to execute a
// transaction.
type Service interface {
	// Execute must apply the transaction to the snapshot and return the
	// result of it.
	Execute(snap store.Snapshot, step Step) (Result, error)
}
