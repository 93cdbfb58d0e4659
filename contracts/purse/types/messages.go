// Package types defines the messages exchanged with the purse contract.
//
// An action is an inbound request that mutates the state of the contract and
// produces an event on success, or a contract error on failure. A query is
// an inbound read-only request that produces a reply without mutating
// anything. The state itself is stored as a message so that it shares the
// serialization context of the rest of the contract.
package types

import (
	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/serde"
	"go.dedis.ch/caisse/serde/registry"
	"golang.org/x/xerrors"
)

var msgFormats = registry.NewSimpleRegistry()

// RegisterMessageFormat registers the engine for the provided format.
func RegisterMessageFormat(format serde.Format, engine serde.FormatEngine) {
	msgFormats.Register(format, engine)
}

// Account associates an address with an amount of tokens.
type Account struct {
	Id     access.Address
	Amount uint64
}

// Init is the one-time payload consumed at deployment to populate the first
// state of the contract.
//
// - implements serde.Message
type Init struct {
	Metadata    string
	TotalSupply uint64
	Admins      []access.Address
	Balances    []Account
}

// Serialize implements serde.Message.
func (m Init) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// Transfer is the action to move tokens from the sender to another account.
//
// - implements serde.Message
type Transfer struct {
	To     access.Address
	Amount uint64
}

// Serialize implements serde.Message.
func (m Transfer) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// Withdraw is the action to burn tokens of the sender and forward them to an
// account of the external token service.
//
// - implements serde.Message
type Withdraw struct {
	To     access.Address
	Amount uint64
}

// Serialize implements serde.Message.
func (m Withdraw) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// Mint is the admin-only action to create tokens for an account.
//
// - implements serde.Message
type Mint struct {
	To     access.Address
	Amount uint64
}

// Serialize implements serde.Message.
func (m Mint) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// Burn is the admin-only action to destroy tokens of an account.
//
// - implements serde.Message
type Burn struct {
	From   access.Address
	Amount uint64
}

// Serialize implements serde.Message.
func (m Burn) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// AddAdmin is the admin-only action to add an address to the admin set.
//
// - implements serde.Message
type AddAdmin struct {
	Id access.Address
}

// Serialize implements serde.Message.
func (m AddAdmin) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// RemoveAdmin is the admin-only action to remove an address from the admin
// set.
//
// - implements serde.Message
type RemoveAdmin struct {
	Id access.Address
}

// Serialize implements serde.Message.
func (m RemoveAdmin) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// Transferred is the event produced by a completed transfer.
//
// - implements serde.Message
type Transferred struct {
	From   access.Address
	To     access.Address
	Amount uint64
}

// Serialize implements serde.Message.
func (m Transferred) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// Withdrawn is the event produced by a completed withdrawal.
//
// - implements serde.Message
type Withdrawn struct {
	From   access.Address
	To     access.Address
	Amount uint64
}

// Serialize implements serde.Message.
func (m Withdrawn) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// Minted is the event produced by a completed mint.
//
// - implements serde.Message
type Minted struct {
	To     access.Address
	Amount uint64
}

// Serialize implements serde.Message.
func (m Minted) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// Burned is the event produced by a completed burn.
//
// - implements serde.Message
type Burned struct {
	From   access.Address
	Amount uint64
}

// Serialize implements serde.Message.
func (m Burned) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// AdminAdded is the event produced when an address joins the admin set.
//
// - implements serde.Message
type AdminAdded struct {
	Id access.Address
}

// Serialize implements serde.Message.
func (m AdminAdded) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// AdminRemoved is the event produced when an address leaves the admin set.
//
// - implements serde.Message
type AdminRemoved struct {
	Id access.Address
}

// Serialize implements serde.Message.
func (m AdminRemoved) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// BalanceQuery is the query to read the balance of an account.
//
// - implements serde.Message
type BalanceQuery struct {
	Id access.Address
}

// Serialize implements serde.Message.
func (m BalanceQuery) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// BalanceReply is the reply to a balance query. An account that has never
// received tokens has a balance of zero.
//
// - implements serde.Message
type BalanceReply struct {
	Id     access.Address
	Amount uint64
}

// Serialize implements serde.Message.
func (m BalanceReply) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// AdminsQuery is the query to read the admin set.
//
// - implements serde.Message
type AdminsQuery struct{}

// Serialize implements serde.Message.
func (m AdminsQuery) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// AdminsReply is the reply to an admins query.
//
// - implements serde.Message
type AdminsReply struct {
	Admins []access.Address
}

// Serialize implements serde.Message.
func (m AdminsReply) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// SupplyQuery is the query to read the supply counters.
//
// - implements serde.Message
type SupplyQuery struct{}

// Serialize implements serde.Message.
func (m SupplyQuery) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// SupplyReply is the reply to a supply query.
//
// - implements serde.Message
type SupplyReply struct {
	CurrentSupply uint64
	TotalSupply   uint64
}

// Serialize implements serde.Message.
func (m SupplyReply) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// MetadataQuery is the query to read the metadata of the contract.
//
// - implements serde.Message
type MetadataQuery struct{}

// Serialize implements serde.Message.
func (m MetadataQuery) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// MetadataReply is the reply to a metadata query.
//
// - implements serde.Message
type MetadataReply struct {
	Metadata string
}

// Serialize implements serde.Message.
func (m MetadataReply) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, m)
}

// MessageFactory is a factory to deserialize the messages of the contract.
//
// - implements serde.Factory
type MessageFactory struct{}

// NewMessageFactory returns a new factory.
func NewMessageFactory() MessageFactory {
	return MessageFactory{}
}

// Deserialize implements serde.Factory. It returns the message from the data
// if appropriate, otherwise it returns an error.
func (f MessageFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	format := msgFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode message: %v", err)
	}

	return msg, nil
}

func encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	format := msgFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, msg)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode message: %v", err)
	}

	return data, nil
}
