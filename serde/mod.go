// Package serde defines the primitives to serialize and deserialize (serde)
// the messages exchanged with a contract.
//
// A message implementation provides its serialization for every format it
// supports by registering a format engine to its registry. The context passed
// during both serialization and deserialization drives which engine is used,
// so that the same data model can be encoded differently depending on the
// situation.
package serde

import "io"

// Message is the interface that a data model should implement to be
// serialized.
type Message interface {
	// Serialize returns the bytes of the message according to the context.
	Serialize(ctx Context) ([]byte, error)
}

// Factory is the interface to implement to instantiate a data model from its
// serialized form.
type Factory interface {
	// Deserialize returns the message associated to the bytes using the
	// format of the context.
	Deserialize(ctx Context, data []byte) (Message, error)
}

// Fingerprinter is the interface to implement to write a deterministic binary
// representation of a data model, e.g. to compute a digest.
type Fingerprinter interface {
	// Fingerprint writes itself to the writer in a deterministic way.
	Fingerprint(writer io.Writer) error
}

// Format is the identifier of a format engine.
type Format string

const (
	// FormatJSON is the identifier of the JSON format engine.
	FormatJSON Format = "JSON"

	// FormatGob is the identifier of the Gob format engine.
	FormatGob Format = "Gob"
)

// FormatEngine is the interface that a format implementation must provide for
// a given data model.
type FormatEngine interface {
	// Encode returns the serialized data of the message according to the
	// format of the engine.
	Encode(ctx Context, message Message) ([]byte, error)

	// Decode returns the message instantiated from the data according to the
	// format of the engine.
	Decode(ctx Context, data []byte) (Message, error)
}
