// Package txn defines the abstraction of transactions.
//
// A transaction is a contract input. It is uniquely identifiable via a digest
// and it carries the identity of the actor that sent the message, which the
// contracts use for access control.
package txn

import (
	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/serde"
)

// Transaction is what triggers a contract execution by passing it as part of
// the input.
type Transaction interface {
	serde.Message
	serde.Fingerprinter

	// GetID returns the unique identifier for the transaction.
	GetID() []byte

	// GetNonce returns the nonce of the transaction which corresponds to the
	// sequence number of the message in the session.
	GetNonce() uint64

	// GetIdentity returns the identity of the actor that sent the message.
	GetIdentity() access.Identity

	// GetArg is a getter for the arguments of the transaction.
	GetArg(key string) []byte
}

// Factory is the definition of a factory to deserialize transaction
// messages.
type Factory interface {
	serde.Factory

	TransactionOf(serde.Context, []byte) (Transaction, error)
}

// Arg is a generic argument that can be stored in a transaction.
type Arg struct {
	Key   string
	Value []byte
}

// Manager is a manager to create transactions. It keeps track of the
// sequence number so that every transaction of a session is unique.
type Manager interface {
	Make(sender access.Address, args ...Arg) (Transaction, error)
}
