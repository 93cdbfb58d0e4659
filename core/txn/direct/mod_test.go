package direct

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/core/txn"
	"go.dedis.ch/caisse/internal/testing/fake"
)

func TestTransaction_Getters(t *testing.T) {
	tx, err := NewTransaction(5, access.Address{1}, WithArg("A", []byte{1}))
	require.NoError(t, err)

	require.Equal(t, uint64(5), tx.GetNonce())
	require.Equal(t, access.Address{1}, tx.GetIdentity())
	require.Equal(t, []byte{1}, tx.GetArg("A"))
	require.Nil(t, tx.GetArg("B"))
	require.Len(t, tx.GetID(), 32)
}

func TestTransaction_Fingerprint(t *testing.T) {
	tx, err := NewTransaction(5, access.Address{1}, WithArg("A", []byte{1}))
	require.NoError(t, err)

	other, err := NewTransaction(5, access.Address{1}, WithArg("A", []byte{1}))
	require.NoError(t, err)

	// The digest is a pure function of the transaction content.
	require.Equal(t, tx.GetID(), other.GetID())

	other, err = NewTransaction(5, access.Address{1}, WithArg("A", []byte{2}))
	require.NoError(t, err)
	require.NotEqual(t, tx.GetID(), other.GetID())

	err = tx.Fingerprint(fake.NewBadHash())
	require.EqualError(t, err, fake.Err("couldn't write nonce"))
}

func TestTransaction_Serialize(t *testing.T) {
	tx, err := NewTransaction(0, access.Address{})
	require.NoError(t, err)

	_, err = tx.Serialize(fake.NewContext())
	require.EqualError(t, err, "couldn't encode tx: format 'fake' is not implemented")
}

func TestTransactionFactory_Deserialize(t *testing.T) {
	factory := NewTransactionFactory()

	_, err := factory.Deserialize(fake.NewContext(), nil)
	require.EqualError(t, err, "couldn't decode tx: format 'fake' is not implemented")
}

func TestManager_Make(t *testing.T) {
	mgr := NewManager()

	tx, err := mgr.Make(access.Address{1}, txn.Arg{Key: "A", Value: []byte{1}})
	require.NoError(t, err)
	require.Equal(t, uint64(0), tx.GetNonce())
	require.Equal(t, []byte{1}, tx.GetArg("A"))

	tx, err = mgr.Make(access.Address{1})
	require.NoError(t, err)
	require.Equal(t, uint64(1), tx.GetNonce())
}
