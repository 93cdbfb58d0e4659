package types

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/internal/testing/fake"
)

func TestNewState(t *testing.T) {
	init := Init{
		Metadata:    "example purse",
		TotalSupply: 1000,
		Admins:      []access.Address{{2}},
		Balances: []Account{
			{Id: access.Address{1}, Amount: 60},
			{Id: access.Address{1}, Amount: 40},
		},
	}

	state, err := NewState(init)
	require.NoError(t, err)
	require.Equal(t, uint64(100), state.CurrentSupply)
	require.Equal(t, uint64(100), state.BalanceOf(access.Address{1}))
	require.True(t, state.IsAdmin(access.Address{2}))

	init.TotalSupply = 10

	_, err = NewState(init)
	require.EqualError(t, err,
		"invalid genesis: current supply 100 exceeds total supply 10")

	// The sum of the balances must not wrap around.
	init.Balances = []Account{
		{Id: access.Address{1}, Amount: 1 << 63},
		{Id: access.Address{2}, Amount: 1 << 63},
	}

	_, err = NewState(init)
	require.EqualError(t, err, "invalid genesis: sum of balances overflows")
}

func TestState_Check(t *testing.T) {
	state := State{
		CurrentSupply: 10,
		TotalSupply:   10,
		Balances: map[access.Address]uint64{
			{1}: 10,
		},
	}

	require.NoError(t, state.Check())

	state.CurrentSupply = 11
	require.EqualError(t, state.Check(),
		"current supply 11 exceeds total supply 10")

	state.CurrentSupply = 9
	require.EqualError(t, state.Check(),
		"sum of balances 10 != current supply 9")

	state.CurrentSupply = 0
	state.Balances = map[access.Address]uint64{
		{1}: 1 << 63,
		{2}: 1 << 63,
	}
	require.EqualError(t, state.Check(), "sum of balances overflows")
}

func TestState_Clone(t *testing.T) {
	state := State{
		Admins: []access.Address{{2}},
		Balances: map[access.Address]uint64{
			{1}: 10,
		},
	}

	clone := state.Clone()
	clone.Balances[access.Address{1}] = 20
	clone.Admins[0] = access.Address{3}

	require.Equal(t, uint64(10), state.BalanceOf(access.Address{1}))
	require.True(t, state.IsAdmin(access.Address{2}))
}

func TestState_GetAdmins(t *testing.T) {
	state := State{
		Admins: []access.Address{{3}, {1}, {2}},
	}

	admins := state.GetAdmins()
	require.Equal(t, []access.Address{{1}, {2}, {3}}, admins)
}

func TestState_BalanceOf(t *testing.T) {
	state := State{}

	require.Equal(t, uint64(0), state.BalanceOf(access.Address{1}))
}

func TestContractError(t *testing.T) {
	err := NewError(CodeNotEnoughBalance, "%d tokens missing", 5)

	require.EqualError(t, err, "NOT_ENOUGH_BALANCE: 5 tokens missing")
	require.Equal(t, CodeNotEnoughBalance, err.Code)
}

func TestMessageFactory_Deserialize(t *testing.T) {
	fac := NewMessageFactory()

	_, err := fac.Deserialize(fake.NewContext(), nil)
	require.EqualError(t, err,
		"couldn't decode message: format 'fake' is not implemented")
}

func TestMessage_Serialize(t *testing.T) {
	_, err := Transfer{}.Serialize(fake.NewContext())
	require.EqualError(t, err,
		"couldn't encode message: format 'fake' is not implemented")
}

func TestStateFactory_StateOf(t *testing.T) {
	fac := StateFactory{}

	_, err := fac.StateOf(fake.NewContext(), nil)
	require.EqualError(t, err,
		"couldn't decode state: format 'fake' is not implemented")
}
