//
// This file contains the typed errors returned to the caller when an action
// is refused. The error is one of the two arms of the reply, the other being
// the event of a successful transition.
//

package types

import (
	"fmt"

	"go.dedis.ch/caisse/serde"
)

// Code is the identifier of a failure reason. The caller can branch on it.
type Code string

const (
	// CodeMalformed is returned when the inbound message cannot be decoded,
	// or when it is missing a required argument.
	CodeMalformed Code = "MALFORMED"

	// CodeUnauthorized is returned when the sender is not allowed to use the
	// contract at all.
	CodeUnauthorized Code = "UNAUTHORIZED"

	// CodeNotAdmin is returned when a privileged action is requested by a
	// sender outside of the admin set.
	CodeNotAdmin Code = "NOT_ADMIN"

	// CodeNotEnoughBalance is returned when the sender balance does not
	// cover the requested amount.
	CodeNotEnoughBalance Code = "NOT_ENOUGH_BALANCE"

	// CodeNotFound is returned when a lookup key is missing, e.g. when the
	// contract state has not been initialized.
	CodeNotFound Code = "NOT_FOUND"

	// CodeSupplyExhausted is returned when a mint would push the current
	// supply over the total supply.
	CodeSupplyExhausted Code = "SUPPLY_EXHAUSTED"

	// CodeUnexpectedFTEvent is returned when the external token service
	// reports an event that does not match the request.
	CodeUnexpectedFTEvent Code = "UNEXPECTED_FT_EVENT"

	// CodeMessageSendError is returned when the message to the external
	// token service could not be delivered.
	CodeMessageSendError Code = "MESSAGE_SEND_ERROR"
)

// ContractError is the failure arm of a reply. It carries a code the caller
// can branch on and a human readable reason.
//
// - implements error
// - implements serde.Message
type ContractError struct {
	Code   Code
	Reason string
}

// NewError creates a contract error with the code and the formatted reason.
func NewError(code Code, format string, args ...interface{}) ContractError {
	return ContractError{
		Code:   code,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Error implements error.
func (e ContractError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

// Serialize implements serde.Message.
func (e ContractError) Serialize(ctx serde.Context) ([]byte, error) {
	return encode(ctx, e)
}
