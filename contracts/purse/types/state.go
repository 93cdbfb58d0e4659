//
// This file contains the state of the contract. Exactly one instance lives
// in the store for the lifetime of a deployment: it is written once at
// initialization and then read and rewritten by each accepted action.
//

package types

import (
	"sort"

	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/serde"
	"golang.org/x/xerrors"
)

// State is the durable data of the contract.
//
// - implements serde.Message
type State struct {
	Metadata      string
	CurrentSupply uint64
	TotalSupply   uint64
	Admins        []access.Address
	Balances      map[access.Address]uint64
}

// NewState builds the first state of a deployment from the init payload. It
// fails when the initial balances exceed the total supply.
func NewState(init Init) (State, error) {
	state := State{
		Metadata:    init.Metadata,
		TotalSupply: init.TotalSupply,
		Admins:      append([]access.Address{}, init.Admins...),
		Balances:    make(map[access.Address]uint64),
	}

	for _, account := range init.Balances {
		if state.CurrentSupply+account.Amount < state.CurrentSupply {
			return State{}, xerrors.New("invalid genesis: sum of balances overflows")
		}

		state.Balances[account.Id] += account.Amount
		state.CurrentSupply += account.Amount
	}

	err := state.Check()
	if err != nil {
		return State{}, xerrors.Errorf("invalid genesis: %v", err)
	}

	return state, nil
}

// BalanceOf returns the balance of the address, or zero when the address has
// never received tokens.
func (s State) BalanceOf(addr access.Address) uint64 {
	return s.Balances[addr]
}

// IsAdmin returns true when the address belongs to the admin set.
func (s State) IsAdmin(addr access.Address) bool {
	for _, admin := range s.Admins {
		if admin.Equal(addr) {
			return true
		}
	}

	return false
}

// GetAdmins returns the sorted admin set.
func (s State) GetAdmins() []access.Address {
	admins := append([]access.Address{}, s.Admins...)

	sort.Slice(admins, func(i, j int) bool {
		return string(admins[i][:]) < string(admins[j][:])
	})

	return admins
}

// Check returns an error when the supply invariants do not hold: the sum of
// the balances must be equal to the current supply, which cannot exceed the
// total supply.
func (s State) Check() error {
	if s.CurrentSupply > s.TotalSupply {
		return xerrors.Errorf("current supply %d exceeds total supply %d",
			s.CurrentSupply, s.TotalSupply)
	}

	sum := uint64(0)
	for _, balance := range s.Balances {
		if sum+balance < sum {
			return xerrors.New("sum of balances overflows")
		}

		sum += balance
	}

	if sum != s.CurrentSupply {
		return xerrors.Errorf("sum of balances %d != current supply %d",
			sum, s.CurrentSupply)
	}

	return nil
}

// Clone returns a deep copy of the state that can be mutated independently.
func (s State) Clone() State {
	balances := make(map[access.Address]uint64, len(s.Balances))
	for addr, balance := range s.Balances {
		balances[addr] = balance
	}

	return State{
		Metadata:      s.Metadata,
		CurrentSupply: s.CurrentSupply,
		TotalSupply:   s.TotalSupply,
		Admins:        append([]access.Address{}, s.Admins...),
		Balances:      balances,
	}
}

// Serialize implements serde.Message.
func (s State) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, s)
}

// StateFactory is a factory to deserialize states.
//
// - implements serde.Factory
type StateFactory struct{}

// Deserialize implements serde.Factory. It returns the state from the data
// if appropriate, otherwise it returns an error.
func (f StateFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.StateOf(ctx, data)
}

// StateOf returns the state from the data if appropriate, otherwise it
// returns an error.
func (f StateFactory) StateOf(ctx serde.Context, data []byte) (State, error) {
	format := msgFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return State{}, xerrors.Errorf("couldn't decode state: %v", err)
	}

	state, ok := msg.(State)
	if !ok {
		return State{}, xerrors.Errorf("invalid state of type '%T'", msg)
	}

	return state, nil
}
