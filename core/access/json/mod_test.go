package json

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/internal/testing/fake"
	"go.dedis.ch/caisse/serde"
)

func TestAddrFormat_Encode(t *testing.T) {
	format := addrFormat{}
	ctx := fake.NewContextWithFormat(serde.FormatJSON)

	data, err := format.Encode(ctx, access.Address{1})
	require.NoError(t, err)

	msg, err := format.Decode(ctx, data)
	require.NoError(t, err)
	require.Equal(t, access.Address{1}, msg)

	_, err = format.Encode(ctx, fake.Message{})
	require.EqualError(t, err, "unsupported message of type 'fake.Message'")

	_, err = format.Encode(fake.NewBadContext(), access.Address{1})
	require.EqualError(t, err, fake.Err("couldn't marshal"))
}

func TestAddrFormat_Decode(t *testing.T) {
	format := addrFormat{}

	_, err := format.Decode(fake.NewBadContext(), []byte(`{}`))
	require.EqualError(t, err, fake.Err("couldn't unmarshal"))

	_, err = format.Decode(fake.NewContext(), []byte(`{"Address":"zz"}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't decode address")
}
