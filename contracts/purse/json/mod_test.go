package json

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/caisse/contracts/purse/types"
	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/internal/testing/fake"
	"go.dedis.ch/caisse/serde"
)

func TestMsgFormat_Encode(t *testing.T) {
	format := msgFormat{}
	ctx := fake.NewContextWithFormat(serde.FormatJSON)

	data, err := format.Encode(ctx, types.Transfer{To: access.Address{2}, Amount: 10})
	require.NoError(t, err)
	require.Contains(t, string(data), "Transfer")

	_, err = format.Encode(ctx, fake.Message{})
	require.EqualError(t, err, "unsupported message of type 'fake.Message'")

	_, err = format.Encode(fake.NewBadContext(), types.Transfer{})
	require.EqualError(t, err, fake.Err("couldn't marshal"))
}

func TestMsgFormat_Decode(t *testing.T) {
	format := msgFormat{}
	ctx := fake.NewContextWithFormat(serde.FormatJSON)

	messages := []serde.Message{
		types.Init{Metadata: "m", TotalSupply: 10},
		types.Transfer{To: access.Address{2}, Amount: 1},
		types.Withdraw{To: access.Address{2}, Amount: 2},
		types.Mint{To: access.Address{2}, Amount: 3},
		types.Burn{From: access.Address{1}, Amount: 4},
		types.AddAdmin{Id: access.Address{5}},
		types.RemoveAdmin{Id: access.Address{5}},
		types.Transferred{From: access.Address{1}, To: access.Address{2}, Amount: 1},
		types.Withdrawn{From: access.Address{1}, To: access.Address{2}, Amount: 2},
		types.Minted{To: access.Address{2}, Amount: 3},
		types.Burned{From: access.Address{1}, Amount: 4},
		types.AdminAdded{Id: access.Address{5}},
		types.AdminRemoved{Id: access.Address{5}},
		types.BalanceQuery{Id: access.Address{1}},
		types.AdminsQuery{},
		types.SupplyQuery{},
		types.MetadataQuery{},
		types.BalanceReply{Id: access.Address{1}, Amount: 7},
		types.AdminsReply{Admins: []access.Address{{5}}},
		types.SupplyReply{CurrentSupply: 7, TotalSupply: 10},
		types.MetadataReply{Metadata: "m"},
		types.ContractError{Code: types.CodeNotFound, Reason: "oops"},
	}

	for _, msg := range messages {
		data, err := format.Encode(ctx, msg)
		require.NoError(t, err)

		decoded, err := format.Decode(ctx, data)
		require.NoError(t, err)
		require.Equal(t, msg, decoded)
	}

	_, err := format.Decode(ctx, []byte("{}"))
	require.EqualError(t, err, "message is empty")

	_, err = format.Decode(fake.NewBadContext(), []byte("{}"))
	require.EqualError(t, err, fake.Err("couldn't unmarshal"))
}

func TestMsgFormat_StateRoundTrip(t *testing.T) {
	format := msgFormat{}
	ctx := fake.NewContextWithFormat(serde.FormatJSON)

	state := types.State{
		Metadata:      "example purse",
		CurrentSupply: 100,
		TotalSupply:   1000,
		Admins:        []access.Address{{2}},
		Balances: map[access.Address]uint64{
			{1}: 100,
		},
	}

	data, err := format.Encode(ctx, state)
	require.NoError(t, err)

	decoded, err := format.Decode(ctx, data)
	require.NoError(t, err)
	require.Equal(t, state, decoded)
}
