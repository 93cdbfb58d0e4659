// Package roster implements an access service backed by plain rosters of
// addresses.
//
// An access associates each rule with the set of addresses allowed to use
// it. It is stored in the same store as the contract state, under the
// credential identifier, so that a grant is committed, or rolled back, with
// the rest of the execution.
package roster

import (
	"sort"

	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/core/store"
	"go.dedis.ch/caisse/serde"
	"go.dedis.ch/caisse/serde/registry"
	"golang.org/x/xerrors"
)

var accessFormats = registry.NewSimpleRegistry()

// RegisterAccessFormat registers the engine for the provided format.
func RegisterAccessFormat(format serde.Format, engine serde.FormatEngine) {
	accessFormats.Register(format, engine)
}

// Access is the set of rules and the addresses granted for each of them.
//
// - implements serde.Message
type Access struct {
	rules map[string][]access.Address
}

// NewAccess returns a new empty access.
func NewAccess() Access {
	return Access{
		rules: make(map[string][]access.Address),
	}
}

// WithRule is a helper to create an access with a rule already granted to
// the addresses.
func WithRule(rule string, addrs []access.Address) Access {
	a := NewAccess()

	return a.Grant(rule, addrs...)
}

// Grant returns a new access where the addresses are granted the rule.
func (a Access) Grant(rule string, addrs ...access.Address) Access {
	next := a.clone()

	for _, addr := range addrs {
		if !contains(next.rules[rule], addr) {
			next.rules[rule] = append(next.rules[rule], addr)
		}
	}

	sortAddrs(next.rules[rule])

	return next
}

// Revoke returns a new access where the addresses are not granted the rule
// anymore.
func (a Access) Revoke(rule string, addrs ...access.Address) Access {
	next := a.clone()

	for _, addr := range addrs {
		list := next.rules[rule]

		for i, curr := range list {
			if curr.Equal(addr) {
				next.rules[rule] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}

	if len(next.rules[rule]) == 0 {
		delete(next.rules, rule)
	}

	return next
}

// Match returns nil when every identity is granted the rule.
func (a Access) Match(rule string, idents ...access.Identity) error {
	list, ok := a.rules[rule]
	if !ok {
		return xerrors.Errorf("rule '%s' not found", rule)
	}

	for _, ident := range idents {
		addr, ok := ident.(access.Address)
		if !ok {
			return xerrors.Errorf("unsupported identity of type '%T'", ident)
		}

		if !contains(list, addr) {
			return xerrors.Errorf("%v is not granted rule '%s'", addr, rule)
		}
	}

	return nil
}

// GetRules returns the sorted list of rules of the access.
func (a Access) GetRules() []string {
	rules := make([]string, 0, len(a.rules))
	for rule := range a.rules {
		rules = append(rules, rule)
	}

	sort.Strings(rules)

	return rules
}

// GetGrants returns the addresses granted for the rule.
func (a Access) GetGrants(rule string) []access.Address {
	return append([]access.Address{}, a.rules[rule]...)
}

// Serialize implements serde.Message. It returns the serialized data of the
// access.
func (a Access) Serialize(ctx serde.Context) ([]byte, error) {
	format := accessFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, a)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode access: %v", err)
	}

	return data, nil
}

func (a Access) clone() Access {
	rules := make(map[string][]access.Address, len(a.rules))
	for rule, addrs := range a.rules {
		rules[rule] = append([]access.Address{}, addrs...)
	}

	return Access{rules: rules}
}

func contains(list []access.Address, addr access.Address) bool {
	for _, curr := range list {
		if curr.Equal(addr) {
			return true
		}
	}

	return false
}

func sortAddrs(list []access.Address) {
	sort.Slice(list, func(i, j int) bool {
		return string(list[i][:]) < string(list[j][:])
	})
}

// AccessFactory is a factory to deserialize accesses.
//
// - implements serde.Factory
type AccessFactory struct{}

// Deserialize implements serde.Factory. It returns the access from the data
// if appropriate, otherwise it returns an error.
func (f AccessFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.AccessOf(ctx, data)
}

// AccessOf returns the access from the data if appropriate, otherwise it
// returns an error.
func (f AccessFactory) AccessOf(ctx serde.Context, data []byte) (Access, error) {
	format := accessFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return Access{}, xerrors.Errorf("couldn't decode access: %v", err)
	}

	a, ok := msg.(Access)
	if !ok {
		return Access{}, xerrors.Errorf("invalid access of type '%T'", msg)
	}

	return a, nil
}

// Service is an access service where the accesses are stored as rosters of
// addresses.
//
// - implements access.Service
type Service struct {
	context serde.Context
	factory AccessFactory
}

// NewService creates a new access service using the context to serialize
// the accesses.
func NewService(ctx serde.Context) Service {
	return Service{
		context: ctx,
		factory: AccessFactory{},
	}
}

// Match implements access.Service. It returns nil when every identity is
// granted the rule of the credential.
func (srvc Service) Match(store store.Readable, creds access.Credential, idents ...access.Identity) error {
	a, err := srvc.read(store, creds)
	if err != nil {
		return err
	}

	err = a.Match(creds.GetRule(), idents...)
	if err != nil {
		return xerrors.Errorf("access refused: %v", err)
	}

	return nil
}

// Grant implements access.Service. It updates the store so that the
// identities will match the credential.
func (srvc Service) Grant(snap store.Snapshot, creds access.Credential, idents ...access.Identity) error {
	a, err := srvc.read(snap, creds)
	if err != nil {
		a = NewAccess()
	}

	addrs, err := toAddrs(idents)
	if err != nil {
		return err
	}

	data, err := a.Grant(creds.GetRule(), addrs...).Serialize(srvc.context)
	if err != nil {
		return xerrors.Errorf("couldn't serialize access: %v", err)
	}

	err = snap.Set(creds.GetID(), data)
	if err != nil {
		return xerrors.Errorf("couldn't store access: %v", err)
	}

	return nil
}

// Revoke implements access.Service. It updates the store to remove the
// identities from the rule of the credential.
func (srvc Service) Revoke(snap store.Snapshot, creds access.Credential, idents ...access.Identity) error {
	a, err := srvc.read(snap, creds)
	if err != nil {
		return err
	}

	addrs, err := toAddrs(idents)
	if err != nil {
		return err
	}

	data, err := a.Revoke(creds.GetRule(), addrs...).Serialize(srvc.context)
	if err != nil {
		return xerrors.Errorf("couldn't serialize access: %v", err)
	}

	err = snap.Set(creds.GetID(), data)
	if err != nil {
		return xerrors.Errorf("couldn't store access: %v", err)
	}

	return nil
}

func (srvc Service) read(store store.Readable, creds access.Credential) (Access, error) {
	data, err := store.Get(creds.GetID())
	if err != nil {
		return Access{}, xerrors.Errorf("couldn't read access: %v", err)
	}

	if len(data) == 0 {
		return Access{}, xerrors.Errorf("access '%x' not found", creds.GetID())
	}

	a, err := srvc.factory.AccessOf(srvc.context, data)
	if err != nil {
		return Access{}, xerrors.Errorf("couldn't decode access: %v", err)
	}

	return a, nil
}

func toAddrs(idents []access.Identity) ([]access.Address, error) {
	addrs := make([]access.Address, len(idents))

	for i, ident := range idents {
		addr, ok := ident.(access.Address)
		if !ok {
			return nil, xerrors.Errorf("unsupported identity of type '%T'", ident)
		}

		addrs[i] = addr
	}

	return addrs, nil
}
