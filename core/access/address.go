//
// This file contains the implementation of the actor identity as an opaque
// address provided by the host runtime.
//

package access

import (
	"bytes"
	"encoding/hex"

	"go.dedis.ch/caisse/serde"
	"go.dedis.ch/caisse/serde/registry"
	"golang.org/x/xerrors"
)

// AddressLen is the size in bytes of an address.
const AddressLen = 32

var addrFormats = registry.NewSimpleRegistry()

// RegisterAddressFormat registers the engine for the provided format.
func RegisterAddressFormat(format serde.Format, engine serde.FormatEngine) {
	addrFormats.Register(format, engine)
}

// Address is the opaque identifier of an actor. It is provided by the host
// runtime alongside every message and does not carry any cryptographic
// meaning by itself.
//
// - implements access.Identity
type Address [AddressLen]byte

// NewAddress creates an address from the raw bytes.
func NewAddress(data []byte) (Address, error) {
	addr := Address{}

	if len(data) != AddressLen {
		return addr, xerrors.Errorf("expected %d bytes, got %d", AddressLen, len(data))
	}

	copy(addr[:], data)

	return addr, nil
}

// AddressFromText creates an address from its hexadecimal representation.
func AddressFromText(text string) (Address, error) {
	data, err := hex.DecodeString(text)
	if err != nil {
		return Address{}, xerrors.Errorf("malformed address: %v", err)
	}

	return NewAddress(data)
}

// Serialize implements serde.Message. It returns the serialized data of the
// address.
func (a Address) Serialize(ctx serde.Context) ([]byte, error) {
	format := addrFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, a)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode address: %v", err)
	}

	return data, nil
}

// MarshalText implements encoding.TextMarshaler. It returns the hexadecimal
// representation of the address.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(a[:])), nil
}

// UnmarshalText populates the address from its hexadecimal representation.
func (a *Address) UnmarshalText(text []byte) error {
	addr, err := AddressFromText(string(text))
	if err != nil {
		return err
	}

	*a = addr

	return nil
}

// Equal implements access.Identity. It returns true when the other identity
// is the same address.
func (a Address) Equal(other Identity) bool {
	addr, ok := other.(Address)

	return ok && bytes.Equal(a[:], addr[:])
}

// String implements fmt.Stringer. It returns a shortened hexadecimal
// representation of the address.
func (a Address) String() string {
	return "addr:" + hex.EncodeToString(a[:4])
}

// AddressFac is the key of the address factory in a serde context.
type AddressFac struct{}

// AddressFactory is a factory to deserialize addresses.
//
// - implements serde.Factory
type AddressFactory struct{}

// Deserialize implements serde.Factory. It returns the address from the
// data if appropriate, otherwise it returns an error.
func (f AddressFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.AddressOf(ctx, data)
}

// AddressOf returns the address from the data if appropriate, otherwise it
// returns an error.
func (f AddressFactory) AddressOf(ctx serde.Context, data []byte) (Address, error) {
	format := addrFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return Address{}, xerrors.Errorf("couldn't decode address: %v", err)
	}

	addr, ok := msg.(Address)
	if !ok {
		return Address{}, xerrors.Errorf("invalid address of type '%T'", msg)
	}

	return addr, nil
}
