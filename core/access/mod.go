// Package access defines the interfaces for the access rights control.
//
// An access is stored alongside the contract state and associates rules with
// the identities allowed to use them. The identity is the opaque actor
// identifier attached by the host runtime to every incoming message.
package access

import (
	"encoding"
	"strings"

	"go.dedis.ch/caisse/core/store"
	"go.dedis.ch/caisse/serde"
)

// Identity is an abstraction to uniquely identify the sender of a message.
type Identity interface {
	serde.Message

	encoding.TextMarshaler

	// Equal returns true when the other identity is the same.
	Equal(other Identity) bool
}

// Credential is an abstraction of an access control credential. It is
// composed of an identifier, to look up the access in the store, and a rule
// that the identity must match.
type Credential interface {
	// GetID returns the identifier of the credential.
	GetID() []byte

	// GetRule returns the rule that is targeted by the credential.
	GetRule() string
}

// Service is an access control service. The store given to the calls is
// where the service will look for, or update, the access rights.
type Service interface {
	// Match returns nil when every identity is allowed for the credential.
	Match(store store.Readable, creds Credential, idents ...Identity) error

	// Grant updates the store so that the identities will match the
	// credential.
	Grant(store store.Snapshot, creds Credential, idents ...Identity) error

	// Revoke updates the store to remove the identities from the rule of the
	// credential.
	Revoke(store store.Snapshot, creds Credential, idents ...Identity) error
}

// Compile returns a compacted rule from the string segments.
func Compile(segments ...string) string {
	return strings.Join(segments, ":")
}
