// Package json implements the JSON format engine for the roster access.
package json

import (
	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/core/access/roster"
	"go.dedis.ch/caisse/serde"
	"golang.org/x/xerrors"
)

func init() {
	roster.RegisterAccessFormat(serde.FormatJSON, accessFormat{})
}

// AccessJSON is the JSON message of a roster access.
type AccessJSON struct {
	Rules map[string][]string
}

// AccessFormat is the JSON format engine for roster accesses.
//
// - implements serde.FormatEngine
type accessFormat struct{}

// Encode implements serde.FormatEngine. It returns the JSON data of the
// access if appropriate, otherwise it returns an error.
func (accessFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	a, ok := msg.(roster.Access)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	rules := make(map[string][]string)

	for _, rule := range a.GetRules() {
		grants := a.GetGrants(rule)

		list := make([]string, len(grants))
		for i, addr := range grants {
			text, err := addr.MarshalText()
			if err != nil {
				return nil, xerrors.Errorf("couldn't marshal address: %v", err)
			}

			list[i] = string(text)
		}

		rules[rule] = list
	}

	data, err := ctx.Marshal(AccessJSON{Rules: rules})
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It returns the access from the JSON
// data if appropriate, otherwise it returns an error.
func (accessFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := AccessJSON{}

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't unmarshal: %v", err)
	}

	a := roster.NewAccess()

	for rule, list := range m.Rules {
		addrs := make([]access.Address, len(list))

		for i, text := range list {
			addr, err := access.AddressFromText(text)
			if err != nil {
				return nil, xerrors.Errorf("couldn't decode address: %v", err)
			}

			addrs[i] = addr
		}

		a = a.Grant(rule, addrs...)
	}

	return a, nil
}
