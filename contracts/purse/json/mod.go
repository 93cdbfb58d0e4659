// Package json implements the JSON format engine for the messages of the
// purse contract.
//
// Every message is wrapped in an envelope with one field per variant, so the
// variant can be recognized when decoding.
package json

import (
	"go.dedis.ch/caisse/contracts/purse/types"
	"go.dedis.ch/caisse/serde"
	"golang.org/x/xerrors"
)

func init() {
	types.RegisterMessageFormat(serde.FormatJSON, msgFormat{})
}

// Message is the JSON envelope of the contract messages.
type Message struct {
	Init *types.Init `json:",omitempty"`

	Transfer    *types.Transfer    `json:",omitempty"`
	Withdraw    *types.Withdraw    `json:",omitempty"`
	Mint        *types.Mint        `json:",omitempty"`
	Burn        *types.Burn        `json:",omitempty"`
	AddAdmin    *types.AddAdmin    `json:",omitempty"`
	RemoveAdmin *types.RemoveAdmin `json:",omitempty"`

	Transferred  *types.Transferred  `json:",omitempty"`
	Withdrawn    *types.Withdrawn    `json:",omitempty"`
	Minted       *types.Minted       `json:",omitempty"`
	Burned       *types.Burned       `json:",omitempty"`
	AdminAdded   *types.AdminAdded   `json:",omitempty"`
	AdminRemoved *types.AdminRemoved `json:",omitempty"`

	BalanceQuery  *types.BalanceQuery  `json:",omitempty"`
	AdminsQuery   *types.AdminsQuery   `json:",omitempty"`
	SupplyQuery   *types.SupplyQuery   `json:",omitempty"`
	MetadataQuery *types.MetadataQuery `json:",omitempty"`

	BalanceReply  *types.BalanceReply  `json:",omitempty"`
	AdminsReply   *types.AdminsReply   `json:",omitempty"`
	SupplyReply   *types.SupplyReply   `json:",omitempty"`
	MetadataReply *types.MetadataReply `json:",omitempty"`

	State *types.State         `json:",omitempty"`
	Error *types.ContractError `json:",omitempty"`
}

// MsgFormat is the engine to encode and decode the contract messages in JSON
// format.
//
// - implements serde.FormatEngine
type msgFormat struct{}

// Encode implements serde.FormatEngine. It returns the serialized data of
// the message in JSON format.
func (f msgFormat) Encode(ctx serde.Context, message serde.Message) ([]byte, error) {
	var m Message

	switch in := message.(type) {
	case types.Init:
		m = Message{Init: &in}

	case types.Transfer:
		m = Message{Transfer: &in}

	case types.Withdraw:
		m = Message{Withdraw: &in}

	case types.Mint:
		m = Message{Mint: &in}

	case types.Burn:
		m = Message{Burn: &in}

	case types.AddAdmin:
		m = Message{AddAdmin: &in}

	case types.RemoveAdmin:
		m = Message{RemoveAdmin: &in}

	case types.Transferred:
		m = Message{Transferred: &in}

	case types.Withdrawn:
		m = Message{Withdrawn: &in}

	case types.Minted:
		m = Message{Minted: &in}

	case types.Burned:
		m = Message{Burned: &in}

	case types.AdminAdded:
		m = Message{AdminAdded: &in}

	case types.AdminRemoved:
		m = Message{AdminRemoved: &in}

	case types.BalanceQuery:
		m = Message{BalanceQuery: &in}

	case types.AdminsQuery:
		m = Message{AdminsQuery: &in}

	case types.SupplyQuery:
		m = Message{SupplyQuery: &in}

	case types.MetadataQuery:
		m = Message{MetadataQuery: &in}

	case types.BalanceReply:
		m = Message{BalanceReply: &in}

	case types.AdminsReply:
		m = Message{AdminsReply: &in}

	case types.SupplyReply:
		m = Message{SupplyReply: &in}

	case types.MetadataReply:
		m = Message{MetadataReply: &in}

	case types.State:
		m = Message{State: &in}

	case types.ContractError:
		m = Message{Error: &in}

	default:
		return nil, xerrors.Errorf("unsupported message of type '%T'", message)
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It populates the message from the
// JSON data if appropriate, otherwise it returns an error.
func (f msgFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := Message{}

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't unmarshal: %v", err)
	}

	switch {
	case m.Init != nil:
		return *m.Init, nil

	case m.Transfer != nil:
		return *m.Transfer, nil

	case m.Withdraw != nil:
		return *m.Withdraw, nil

	case m.Mint != nil:
		return *m.Mint, nil

	case m.Burn != nil:
		return *m.Burn, nil

	case m.AddAdmin != nil:
		return *m.AddAdmin, nil

	case m.RemoveAdmin != nil:
		return *m.RemoveAdmin, nil

	case m.Transferred != nil:
		return *m.Transferred, nil

	case m.Withdrawn != nil:
		return *m.Withdrawn, nil

	case m.Minted != nil:
		return *m.Minted, nil

	case m.Burned != nil:
		return *m.Burned, nil

	case m.AdminAdded != nil:
		return *m.AdminAdded, nil

	case m.AdminRemoved != nil:
		return *m.AdminRemoved, nil

	case m.BalanceQuery != nil:
		return *m.BalanceQuery, nil

	case m.AdminsQuery != nil:
		return *m.AdminsQuery, nil

	case m.SupplyQuery != nil:
		return *m.SupplyQuery, nil

	case m.MetadataQuery != nil:
		return *m.MetadataQuery, nil

	case m.BalanceReply != nil:
		return *m.BalanceReply, nil

	case m.AdminsReply != nil:
		return *m.AdminsReply, nil

	case m.SupplyReply != nil:
		return *m.SupplyReply, nil

	case m.MetadataReply != nil:
		return *m.MetadataReply, nil

	case m.State != nil:
		return *m.State, nil

	case m.Error != nil:
		return *m.Error, nil

	default:
		return nil, xerrors.New("message is empty")
	}
}
