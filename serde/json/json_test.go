package json

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/caisse/serde"
)

func TestJsonEngine_GetFormat(t *testing.T) {
	ctx := NewContext()

	require.Equal(t, serde.FormatJSON, ctx.GetFormat())
}

func TestJsonEngine_Marshal(t *testing.T) {
	ctx := NewContext()

	data, err := ctx.Marshal(struct{ Value int }{Value: 42})
	require.NoError(t, err)
	require.Equal(t, `{"Value":42}`, string(data))
}

func TestJsonEngine_Unmarshal(t *testing.T) {
	ctx := NewContext()

	m := struct{ Value int }{}

	err := ctx.Unmarshal([]byte(`{"Value":42}`), &m)
	require.NoError(t, err)
	require.Equal(t, 42, m.Value)

	err = ctx.Unmarshal([]byte(`{`), &m)
	require.Error(t, err)
}
