package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/caisse/internal/testing/fake"
	"go.dedis.ch/caisse/serde"
)

func TestSimpleRegistry_Register(t *testing.T) {
	registry := NewSimpleRegistry()

	registry.Register(serde.FormatJSON, fake.Format{})
	require.Len(t, registry.store, 1)

	registry.Register(serde.FormatJSON, fake.Format{})
	require.Len(t, registry.store, 1)
}

func TestSimpleRegistry_Get(t *testing.T) {
	registry := NewSimpleRegistry()
	registry.Register(serde.FormatJSON, fake.Format{})

	format := registry.Get(serde.FormatJSON)
	require.NotNil(t, format)

	format = registry.Get(serde.FormatGob)
	require.IsType(t, emptyFormat{}, format)
}

func TestEmptyFormat_Encode(t *testing.T) {
	format := emptyFormat{format: serde.FormatJSON}

	_, err := format.Encode(fake.NewContext(), fake.Message{})
	require.EqualError(t, err, "format 'JSON' is not implemented")
}

func TestEmptyFormat_Decode(t *testing.T) {
	format := emptyFormat{format: serde.FormatGob}

	_, err := format.Decode(fake.NewContext(), nil)
	require.EqualError(t, err, "format 'Gob' is not implemented")
}
