//
// This file contains the implementation of a format registry.
//

package registry

import (
	"go.dedis.ch/caisse/serde"
	"golang.org/x/xerrors"
)

// SimpleRegistry is a default implementation of the Registry interface. It
// will always return a format which means an empty one is returned if the
// key is unknown.
//
// - implements registry.Registry
type SimpleRegistry struct {
	store map[serde.Format]serde.FormatEngine
}

// NewSimpleRegistry returns a new empty registry.
func NewSimpleRegistry() *SimpleRegistry {
	return &SimpleRegistry{
		store: make(map[serde.Format]serde.FormatEngine),
	}
}

// Register implements registry.Registry. It registers the engine for the
// provided format.
func (r *SimpleRegistry) Register(name serde.Format, engine serde.FormatEngine) {
	r.store[name] = engine
}

// Get implements registry.Registry. It returns the engine associated with
// the format if it exists, otherwise it returns an empty format.
func (r *SimpleRegistry) Get(name serde.Format) serde.FormatEngine {
	engine := r.store[name]
	if engine == nil {
		return emptyFormat{format: name}
	}

	return engine
}

// EmptyFormat is a format engine which always returns an error.
//
// - implements serde.FormatEngine
type emptyFormat struct {
	format serde.Format
}

// Encode implements serde.FormatEngine. It returns an error.
func (f emptyFormat) Encode(ctx serde.Context, m serde.Message) ([]byte, error) {
	return nil, xerrors.Errorf("format '%s' is not implemented", f.format)
}

// Decode implements serde.FormatEngine. It returns an error.
func (f emptyFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	return nil, xerrors.Errorf("format '%s' is not implemented", f.format)
}
