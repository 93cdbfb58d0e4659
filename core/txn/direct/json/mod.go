// Package json implements the JSON format engine for the direct
// transactions.
package json

import (
	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/core/txn/direct"
	"go.dedis.ch/caisse/serde"
	"golang.org/x/xerrors"
)

func init() {
	direct.RegisterTransactionFormat(serde.FormatJSON, txFormat{})
}

// TransactionJSON is the JSON message of a transaction.
type TransactionJSON struct {
	Nonce  uint64
	Sender string
	Args   map[string][]byte
}

// TxFormat is the JSON format engine for transactions.
//
// - implements serde.FormatEngine
type txFormat struct{}

// Encode implements serde.FormatEngine. It returns the JSON data of the
// provided transaction if appropriate, otherwise it returns an error.
func (txFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	tx, ok := msg.(*direct.Transaction)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	args := map[string][]byte{}
	for _, arg := range tx.GetArgs() {
		args[arg] = tx.GetArg(arg)
	}

	sender, err := tx.GetIdentity().MarshalText()
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal sender: %v", err)
	}

	m := TransactionJSON{
		Nonce:  tx.GetNonce(),
		Sender: string(sender),
		Args:   args,
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It returns the transaction from the
// JSON data if appropriate, otherwise it returns an error.
func (txFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := TransactionJSON{}

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't unmarshal: %v", err)
	}

	sender, err := access.AddressFromText(m.Sender)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode sender: %v", err)
	}

	opts := make([]direct.TransactionOption, 0, len(m.Args))
	for key, value := range m.Args {
		opts = append(opts, direct.WithArg(key, value))
	}

	tx, err := direct.NewTransaction(m.Nonce, sender, opts...)
	if err != nil {
		return nil, xerrors.Errorf("couldn't create tx: %v", err)
	}

	return tx, nil
}
