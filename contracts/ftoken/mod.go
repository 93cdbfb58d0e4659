// Package ftoken defines the client to the external fungible token service.
//
// The token service is a collaborator of the purse contract: a withdrawal
// burns tokens from the purse and forwards them to an account of the token
// service. The service is treated as a black box that reports an event for
// every request, so the caller must verify that the event matches what it
// asked for.
package ftoken

import (
	"sync"

	"go.dedis.ch/caisse"
	"go.dedis.ch/caisse/core/access"
	"golang.org/x/xerrors"
)

// Kind is the type of event reported by the token service.
type Kind string

const (
	// KindTransfer is the event of a completed transfer.
	KindTransfer Kind = "Transfer"
)

// Event is the message reported by the token service after a request.
type Event struct {
	Kind   Kind
	From   access.Address
	To     access.Address
	Amount uint64
}

// Client is the interface to request a transfer from the token service. An
// error means the request could not be delivered, while an unexpected event
// means the service refused, or misunderstood, the request.
type Client interface {
	Transfer(from, to access.Address, amount uint64) (Event, error)
}

// Service is an in-memory implementation of the token service.
//
// - implements ftoken.Client
type Service struct {
	sync.Mutex

	balances map[access.Address]uint64
}

// NewService creates a new empty token service.
func NewService() *Service {
	return &Service{
		balances: make(map[access.Address]uint64),
	}
}

// Credit adds the amount to the account. It is used to fund the reserve of a
// contract before it can forward withdrawals.
func (srvc *Service) Credit(to access.Address, amount uint64) {
	srvc.Lock()
	srvc.balances[to] += amount
	srvc.Unlock()
}

// BalanceOf returns the balance of the account.
func (srvc *Service) BalanceOf(addr access.Address) uint64 {
	srvc.Lock()
	defer srvc.Unlock()

	return srvc.balances[addr]
}

// Transfer implements ftoken.Client. It moves the amount between the two
// accounts and reports the transfer event.
func (srvc *Service) Transfer(from, to access.Address, amount uint64) (Event, error) {
	srvc.Lock()
	defer srvc.Unlock()

	if srvc.balances[from] < amount {
		return Event{}, xerrors.Errorf("account %v has %d tokens but needs %d",
			from, srvc.balances[from], amount)
	}

	srvc.balances[from] -= amount
	srvc.balances[to] += amount

	caisse.Logger.Debug().
		Str("from", from.String()).
		Str("to", to.String()).
		Uint64("amount", amount).
		Msg("token transfer")

	evt := Event{
		Kind:   KindTransfer,
		From:   from,
		To:     to,
		Amount: amount,
	}

	return evt, nil
}
