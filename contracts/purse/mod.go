// Package purse implements the native contract that keeps the balances of an
// in-ledger token purse.
//
// The contract consumes actions and produces either the event of the
// completed transition, or a typed contract error. Validation always happens
// before any mutation, so a refused action leaves the state untouched. A
// withdrawal additionally forwards the tokens through the external token
// service, which is the only collaborator of the contract.
package purse

import (
	"go.dedis.ch/caisse/contracts/ftoken"
	"go.dedis.ch/caisse/contracts/purse/types"
	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/core/execution"
	"go.dedis.ch/caisse/core/execution/native"
	"go.dedis.ch/caisse/core/store"
	"go.dedis.ch/caisse/core/store/prefixed"
	"go.dedis.ch/caisse/serde"
	sjson "go.dedis.ch/caisse/serde/json"
	"golang.org/x/xerrors"

	_ "go.dedis.ch/caisse/contracts/purse/json"
)

// commands defines the commands of the purse contract. This interface helps
// in testing the contract.
type commands interface {
	transfer(state types.State, sender access.Address, action types.Transfer) (types.State, serde.Message, error)
	withdraw(state types.State, sender access.Address, action types.Withdraw) (types.State, serde.Message, error)
	mint(state types.State, sender access.Address, action types.Mint) (types.State, serde.Message, error)
	burn(state types.State, sender access.Address, action types.Burn) (types.State, serde.Message, error)
	addAdmin(state types.State, sender access.Address, action types.AddAdmin) (types.State, serde.Message, error)
	removeAdmin(state types.State, sender access.Address, action types.RemoveAdmin) (types.State, serde.Message, error)
}

const (
	// ContractName is the name of the contract.
	ContractName = "go.dedis.ch/caisse.Purse"

	// ActionArg is the argument's name in the transaction that contains the
	// serialized action to execute.
	ActionArg = "purse:action"

	// credentialAllCommand defines the credential command that is allowed to
	// perform all commands.
	credentialAllCommand = "all"
)

// stateKey is the key of the state inside the namespace of the contract.
var stateKey = []byte("purse:state")

// NewCreds creates new credentials for a purse contract execution.
func NewCreds(id []byte) access.Credential {
	return access.NewContractCreds(id, ContractName, credentialAllCommand)
}

// RegisterContract registers the purse contract to the given execution
// service.
func RegisterContract(exec *native.Service, c Contract) {
	exec.Set(ContractName, c)
}

// Contract is a smart contract that keeps a fixed-supply token purse. Every
// action either fully commits its mutation and returns the event, or makes
// no mutation and returns a typed contract error.
//
// - implements native.Contract
type Contract struct {
	// access is the access control service managing this smart contract
	access access.Service

	// accessKey is the access identifier allowed to use this smart contract
	accessKey []byte

	// ft is the client to the external token service used by withdrawals
	ft ftoken.Client

	// reserve is the account of the contract at the external token service
	reserve access.Address

	// cmd provides the commands that can be executed by this smart contract
	cmd commands

	context serde.Context
	fac     types.MessageFactory
}

// NewContract creates a new purse contract. The reserve is the account of
// the contract at the external token service, from which withdrawals are
// forwarded.
func NewContract(aKey []byte, srvc access.Service, ft ftoken.Client, reserve access.Address) Contract {
	contract := Contract{
		access:    srvc,
		accessKey: aKey,
		ft:        ft,
		reserve:   reserve,
		context:   sjson.NewContext(),
		fac:       types.NewMessageFactory(),
	}

	contract.cmd = purseCommand{Contract: &contract}

	return contract
}

// Initialize writes the first state of a deployment to the store. It fails
// when a state already exists, so it can only be called once.
func (c Contract) Initialize(snap store.Snapshot, init types.Init) error {
	ns := prefixed.NewSnapshot(ContractName, snap)

	data, err := ns.Get(stateKey)
	if err != nil {
		return xerrors.Errorf("couldn't read state: %v", err)
	}

	if len(data) > 0 {
		return xerrors.New("contract is already initialized")
	}

	state, err := types.NewState(init)
	if err != nil {
		return xerrors.Errorf("couldn't create state: %v", err)
	}

	err = c.writeState(ns, state)
	if err != nil {
		return xerrors.Errorf("couldn't write state: %v", err)
	}

	return nil
}

// Execute implements native.Contract. It decodes the action from the
// transaction, runs the appropriate command and returns the serialized event
// of the completed transition. A refused action returns a typed contract
// error and leaves the snapshot untouched.
func (c Contract) Execute(snap store.Snapshot, step execution.Step) ([]byte, error) {
	creds := NewCreds(c.accessKey)

	err := c.access.Match(snap, creds, step.Current.GetIdentity())
	if err != nil {
		return nil, types.NewError(types.CodeUnauthorized,
			"identity %v not authorized: %v", step.Current.GetIdentity(), err)
	}

	sender, ok := step.Current.GetIdentity().(access.Address)
	if !ok {
		return nil, types.NewError(types.CodeUnauthorized,
			"unsupported identity of type '%T'", step.Current.GetIdentity())
	}

	data := step.Current.GetArg(ActionArg)
	if len(data) == 0 {
		return nil, types.NewError(types.CodeMalformed,
			"'%s' not found in tx arg", ActionArg)
	}

	msg, err := c.fac.Deserialize(c.context, data)
	if err != nil {
		return nil, types.NewError(types.CodeMalformed,
			"couldn't decode action: %v", err)
	}

	ns := prefixed.NewSnapshot(ContractName, snap)

	state, err := c.readState(ns)
	if err != nil {
		return nil, err
	}

	var evt serde.Message

	switch action := msg.(type) {
	case types.Transfer:
		state, evt, err = c.cmd.transfer(state, sender, action)
	case types.Withdraw:
		state, evt, err = c.cmd.withdraw(state, sender, action)
	case types.Mint:
		state, evt, err = c.cmd.mint(state, sender, action)
	case types.Burn:
		state, evt, err = c.cmd.burn(state, sender, action)
	case types.AddAdmin:
		state, evt, err = c.cmd.addAdmin(state, sender, action)
	case types.RemoveAdmin:
		state, evt, err = c.cmd.removeAdmin(state, sender, action)
	default:
		return nil, types.NewError(types.CodeMalformed,
			"unsupported action of type '%T'", msg)
	}

	if err != nil {
		return nil, err
	}

	err = state.Check()
	if err != nil {
		return nil, xerrors.Errorf("broken invariant: %v", err)
	}

	err = c.writeState(ns, state)
	if err != nil {
		return nil, xerrors.Errorf("couldn't write state: %v", err)
	}

	out, err := evt.Serialize(c.context)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode event: %v", err)
	}

	return out, nil
}

// Query runs a read-only request against the store and returns the
// serialized reply. It never mutates anything, so repeating a query returns
// the same reply as long as no action is accepted in between.
func (c Contract) Query(view store.Readable, data []byte) ([]byte, error) {
	msg, err := c.fac.Deserialize(c.context, data)
	if err != nil {
		return nil, types.NewError(types.CodeMalformed,
			"couldn't decode query: %v", err)
	}

	state, err := c.readState(prefixed.NewReadable(ContractName, view))
	if err != nil {
		return nil, err
	}

	var reply serde.Message

	switch query := msg.(type) {
	case types.BalanceQuery:
		reply = types.BalanceReply{Id: query.Id, Amount: state.BalanceOf(query.Id)}
	case types.AdminsQuery:
		reply = types.AdminsReply{Admins: state.GetAdmins()}
	case types.SupplyQuery:
		reply = types.SupplyReply{
			CurrentSupply: state.CurrentSupply,
			TotalSupply:   state.TotalSupply,
		}
	case types.MetadataQuery:
		reply = types.MetadataReply{Metadata: state.Metadata}
	default:
		return nil, types.NewError(types.CodeMalformed,
			"unsupported query of type '%T'", msg)
	}

	out, err := reply.Serialize(c.context)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode reply: %v", err)
	}

	return out, nil
}

func (c Contract) readState(view store.Readable) (types.State, error) {
	data, err := view.Get(stateKey)
	if err != nil {
		return types.State{}, xerrors.Errorf("couldn't read state: %v", err)
	}

	if len(data) == 0 {
		return types.State{}, types.NewError(types.CodeNotFound,
			"contract is not initialized")
	}

	state, err := types.StateFactory{}.StateOf(c.context, data)
	if err != nil {
		return types.State{}, xerrors.Errorf("couldn't decode state: %v", err)
	}

	return state, nil
}

func (c Contract) writeState(snap store.Writable, state types.State) error {
	data, err := state.Serialize(c.context)
	if err != nil {
		return xerrors.Errorf("couldn't encode state: %v", err)
	}

	err = snap.Set(stateKey, data)
	if err != nil {
		return xerrors.Errorf("couldn't store state: %v", err)
	}

	return nil
}

// purseCommand implements the commands of the purse contract. Each command
// validates the action against the current state before mutating a copy, so
// that a refused action never leaks a partial update.
//
// - implements purse.commands
type purseCommand struct {
	*Contract
}

// transfer moves tokens from the sender to another account of the purse.
func (cmd purseCommand) transfer(state types.State, sender access.Address, action types.Transfer) (types.State, serde.Message, error) {
	if state.BalanceOf(sender) < action.Amount {
		return state, nil, types.NewError(types.CodeNotEnoughBalance,
			"%v has %d tokens but needs %d", sender, state.BalanceOf(sender), action.Amount)
	}

	next := state.Clone()
	next.Balances[sender] -= action.Amount
	next.Balances[action.To] += action.Amount

	if next.Balances[sender] == 0 {
		delete(next.Balances, sender)
	}
	if next.Balances[action.To] == 0 {
		delete(next.Balances, action.To)
	}

	evt := types.Transferred{From: sender, To: action.To, Amount: action.Amount}

	return next, evt, nil
}

// withdraw burns tokens of the sender and forwards them to an account of the
// external token service. The state is only mutated once the token service
// has reported the expected transfer event.
func (cmd purseCommand) withdraw(state types.State, sender access.Address, action types.Withdraw) (types.State, serde.Message, error) {
	if state.BalanceOf(sender) < action.Amount {
		return state, nil, types.NewError(types.CodeNotEnoughBalance,
			"%v has %d tokens but needs %d", sender, state.BalanceOf(sender), action.Amount)
	}

	// The external transfer is effective as soon as the token service reports
	// it. A failure to commit the state afterwards does not recall it.
	ftEvt, err := cmd.ft.Transfer(cmd.reserve, action.To, action.Amount)
	if err != nil {
		return state, nil, types.NewError(types.CodeMessageSendError,
			"couldn't reach token service: %v", err)
	}

	if ftEvt.Kind != ftoken.KindTransfer || !ftEvt.To.Equal(action.To) || ftEvt.Amount != action.Amount {
		return state, nil, types.NewError(types.CodeUnexpectedFTEvent,
			"token service reported %s of %d tokens to %v",
			ftEvt.Kind, ftEvt.Amount, ftEvt.To)
	}

	next := state.Clone()
	next.Balances[sender] -= action.Amount
	next.CurrentSupply -= action.Amount
	next.TotalSupply -= action.Amount

	if next.Balances[sender] == 0 {
		delete(next.Balances, sender)
	}

	evt := types.Withdrawn{From: sender, To: action.To, Amount: action.Amount}

	return next, evt, nil
}

// mint creates tokens for an account, within the limit of the total supply.
func (cmd purseCommand) mint(state types.State, sender access.Address, action types.Mint) (types.State, serde.Message, error) {
	if !state.IsAdmin(sender) {
		return state, nil, types.NewError(types.CodeNotAdmin,
			"%v is not an admin", sender)
	}

	if action.Amount > state.TotalSupply-state.CurrentSupply {
		return state, nil, types.NewError(types.CodeSupplyExhausted,
			"minting %d tokens exceeds total supply %d by %d",
			action.Amount, state.TotalSupply,
			action.Amount-(state.TotalSupply-state.CurrentSupply))
	}

	next := state.Clone()
	next.Balances[action.To] += action.Amount
	next.CurrentSupply += action.Amount

	if next.Balances[action.To] == 0 {
		delete(next.Balances, action.To)
	}

	evt := types.Minted{To: action.To, Amount: action.Amount}

	return next, evt, nil
}

// burn destroys tokens of an account. The total supply shrinks along with
// the current supply, so burnt tokens cannot be minted again.
func (cmd purseCommand) burn(state types.State, sender access.Address, action types.Burn) (types.State, serde.Message, error) {
	if !state.IsAdmin(sender) {
		return state, nil, types.NewError(types.CodeNotAdmin,
			"%v is not an admin", sender)
	}

	if state.BalanceOf(action.From) < action.Amount {
		return state, nil, types.NewError(types.CodeNotEnoughBalance,
			"%v has %d tokens but needs %d",
			action.From, state.BalanceOf(action.From), action.Amount)
	}

	next := state.Clone()
	next.Balances[action.From] -= action.Amount
	next.CurrentSupply -= action.Amount
	next.TotalSupply -= action.Amount

	if next.Balances[action.From] == 0 {
		delete(next.Balances, action.From)
	}

	evt := types.Burned{From: action.From, Amount: action.Amount}

	return next, evt, nil
}

// addAdmin adds an address to the admin set. Adding an address twice is a
// no-op that still reports the event.
func (cmd purseCommand) addAdmin(state types.State, sender access.Address, action types.AddAdmin) (types.State, serde.Message, error) {
	if !state.IsAdmin(sender) {
		return state, nil, types.NewError(types.CodeNotAdmin,
			"%v is not an admin", sender)
	}

	next := state.Clone()

	if !next.IsAdmin(action.Id) {
		next.Admins = append(next.Admins, action.Id)
	}

	evt := types.AdminAdded{Id: action.Id}

	return next, evt, nil
}

// removeAdmin removes an address from the admin set.
func (cmd purseCommand) removeAdmin(state types.State, sender access.Address, action types.RemoveAdmin) (types.State, serde.Message, error) {
	if !state.IsAdmin(sender) {
		return state, nil, types.NewError(types.CodeNotAdmin,
			"%v is not an admin", sender)
	}

	if !state.IsAdmin(action.Id) {
		return state, nil, types.NewError(types.CodeNotFound,
			"%v is not in the admin set", action.Id)
	}

	next := state.Clone()

	for i, admin := range next.Admins {
		if admin.Equal(action.Id) {
			next.Admins = append(next.Admins[:i], next.Admins[i+1:]...)
			break
		}
	}

	evt := types.AdminRemoved{Id: action.Id}

	return next, evt, nil
}
