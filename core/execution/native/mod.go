// Package native implements an execution service to run native contracts.
//
// A native contract is written in Go and packaged with the application.
package native

import (
	"go.dedis.ch/caisse/core/execution"
	"go.dedis.ch/caisse/core/store"
	"golang.org/x/xerrors"
)

const (
	// ContractArg is the argument key in the transaction to look up a
	// contract.
	ContractArg = "go.dedis.ch/caisse.ContractArg"
)

// Contract is the interface to implement to register a contract that will be
// executed natively. The returned bytes are the encoded event describing the
// completed transition and they are sent back to the caller.
type Contract interface {
	Execute(store.Snapshot, execution.Step) ([]byte, error)
}

// Service is an execution service for packaged applications. Those
// applications have complete access to the snapshot and can directly update
// it.
//
// - implements execution.Service
type Service struct {
	contracts map[string]Contract
}

// NewExecution returns a new native execution service.
func NewExecution() *Service {
	return &Service{
		contracts: map[string]Contract{},
	}
}

// Set stores the contract using the name as the key. A transaction can
// trigger this contract by using the same name as the contract argument.
func (ns *Service) Set(name string, contract Contract) {
	ns.contracts[name] = contract
}

// Execute implements execution.Service. It looks up the contract and
// processes the incoming transaction. The error of a failed execution is
// returned alongside the result, so that the caller can report the typed
// failure reason.
func (ns *Service) Execute(snap store.Snapshot, step execution.Step) (execution.Result, error) {
	name := string(step.Current.GetArg(ContractArg))

	contract := ns.contracts[name]
	if contract == nil {
		return execution.Result{}, xerrors.Errorf("unknown contract '%s'", name)
	}

	data, err := contract.Execute(snap, step)
	if err != nil {
		res := execution.Result{
			Accepted: false,
			Message:  err.Error(),
		}

		return res, xerrors.Errorf("contract '%s' refused: %w", name, err)
	}

	res := execution.Result{
		Accepted: true,
		Data:     data,
	}

	return res, nil
}
