// Package direct is an implementation of the transaction abstraction for
// messages delivered directly by the host runtime.
//
// The runtime authenticates the sender before the message reaches the
// contract, so the transaction does not carry a signature. The nonce is a
// monotonically increasing number assigned by the session.
package direct

import (
	"crypto/sha256"
	"encoding/binary"
	"io"
	"sort"
	"sync"

	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/core/txn"
	"go.dedis.ch/caisse/serde"
	"go.dedis.ch/caisse/serde/registry"
	"golang.org/x/xerrors"
)

var txFormats = registry.NewSimpleRegistry()

// RegisterTransactionFormat registers the engine for the provided format.
func RegisterTransactionFormat(f serde.Format, e serde.FormatEngine) {
	txFormats.Register(f, e)
}

// Transaction is a transaction created from a message delivered by the host
// runtime.
//
// - implements txn.Transaction
type Transaction struct {
	nonce  uint64
	sender access.Address
	args   map[string][]byte
	hash   []byte
}

// TransactionOption is the type of options to create a transaction.
type TransactionOption func(*Transaction)

// WithArg is an option to set an argument with the key and the value.
func WithArg(key string, value []byte) TransactionOption {
	return func(tx *Transaction) {
		tx.args[key] = value
	}
}

// NewTransaction creates a new transaction with the provided nonce and
// sender.
func NewTransaction(nonce uint64, sender access.Address, opts ...TransactionOption) (*Transaction, error) {
	tx := &Transaction{
		nonce:  nonce,
		sender: sender,
		args:   make(map[string][]byte),
	}

	for _, opt := range opts {
		opt(tx)
	}

	h := sha256.New()

	err := tx.Fingerprint(h)
	if err != nil {
		return nil, xerrors.Errorf("couldn't fingerprint tx: %v", err)
	}

	tx.hash = h.Sum(nil)

	return tx, nil
}

// GetID implements txn.Transaction. It returns the ID of the transaction.
func (t *Transaction) GetID() []byte {
	return append([]byte{}, t.hash...)
}

// GetNonce implements txn.Transaction. It returns the nonce of the
// transaction.
func (t *Transaction) GetNonce() uint64 {
	return t.nonce
}

// GetIdentity implements txn.Transaction. It returns the address of the
// sender.
func (t *Transaction) GetIdentity() access.Identity {
	return t.sender
}

// GetArgs returns the list of the argument keys.
func (t *Transaction) GetArgs() []string {
	args := make([]string, 0, len(t.args))
	for key := range t.args {
		args = append(args, key)
	}

	return args
}

// GetArg implements txn.Transaction. It returns the value of the argument if
// it is set, otherwise nil.
func (t *Transaction) GetArg(key string) []byte {
	return t.args[key]
}

// Fingerprint implements serde.Fingerprinter. It writes a deterministic
// binary representation of the transaction.
func (t *Transaction) Fingerprint(w io.Writer) error {
	buffer := make([]byte, 8)
	binary.LittleEndian.PutUint64(buffer, t.nonce)

	_, err := w.Write(buffer)
	if err != nil {
		return xerrors.Errorf("couldn't write nonce: %v", err)
	}

	_, err = w.Write(t.sender[:])
	if err != nil {
		return xerrors.Errorf("couldn't write sender: %v", err)
	}

	// Sort the arguments to deterministically write them to the hash.
	args := make(sort.StringSlice, 0, len(t.args))
	for key := range t.args {
		args = append(args, key)
	}

	sort.Sort(args)

	for _, key := range args {
		_, err = w.Write(append([]byte(key), t.args[key]...))
		if err != nil {
			return xerrors.Errorf("couldn't write arg: %v", err)
		}
	}

	return nil
}

// Serialize implements serde.Message. It returns the serialized data of the
// transaction.
func (t *Transaction) Serialize(ctx serde.Context) ([]byte, error) {
	format := txFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, t)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode tx: %v", err)
	}

	return data, nil
}

// TransactionFactory is a factory to deserialize transactions.
//
// - implements txn.Factory
type TransactionFactory struct{}

// NewTransactionFactory returns a new factory.
func NewTransactionFactory() TransactionFactory {
	return TransactionFactory{}
}

// Deserialize implements serde.Factory. It returns the transaction from the
// data if appropriate, otherwise it returns an error.
func (f TransactionFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.TransactionOf(ctx, data)
}

// TransactionOf implements txn.Factory. It returns the transaction from the
// data if appropriate, otherwise it returns an error.
func (f TransactionFactory) TransactionOf(ctx serde.Context, data []byte) (txn.Transaction, error) {
	format := txFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode tx: %v", err)
	}

	tx, ok := msg.(*Transaction)
	if !ok {
		return nil, xerrors.Errorf("invalid transaction of type '%T'", msg)
	}

	return tx, nil
}

// Manager is a transaction manager that assigns a monotonically increasing
// nonce to the transactions of a session.
//
// - implements txn.Manager
type Manager struct {
	sync.Mutex

	nonce uint64
}

// NewManager creates a new manager starting at nonce zero.
func NewManager() *Manager {
	return &Manager{}
}

// Make implements txn.Manager. It creates a transaction for the sender with
// the next nonce of the session.
func (mgr *Manager) Make(sender access.Address, args ...txn.Arg) (txn.Transaction, error) {
	mgr.Lock()
	nonce := mgr.nonce
	mgr.nonce++
	mgr.Unlock()

	opts := make([]TransactionOption, len(args))
	for i, arg := range args {
		opts[i] = WithArg(arg.Key, arg.Value)
	}

	tx, err := NewTransaction(nonce, sender, opts...)
	if err != nil {
		return nil, xerrors.Errorf("couldn't create tx: %v", err)
	}

	return tx, nil
}
