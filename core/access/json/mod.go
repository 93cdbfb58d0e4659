// Package json implements the JSON format engine for the address identity.
package json

import (
	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/serde"
	"golang.org/x/xerrors"
)

func init() {
	access.RegisterAddressFormat(serde.FormatJSON, addrFormat{})
}

// AddressJSON is the JSON message of an address.
type AddressJSON struct {
	Address string
}

// AddrFormat is the JSON format engine for addresses.
//
// - implements serde.FormatEngine
type addrFormat struct{}

// Encode implements serde.FormatEngine. It returns the JSON data of the
// address if appropriate, otherwise it returns an error.
func (addrFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	addr, ok := msg.(access.Address)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	text, err := addr.MarshalText()
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal address: %v", err)
	}

	m := AddressJSON{
		Address: string(text),
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It returns the address from the JSON
// data if appropriate, otherwise it returns an error.
func (addrFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := AddressJSON{}

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't unmarshal: %v", err)
	}

	addr, err := access.AddressFromText(m.Address)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode address: %v", err)
	}

	return addr, nil
}
