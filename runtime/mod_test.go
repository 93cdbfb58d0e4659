package runtime

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/caisse/contracts/ftoken"
	"go.dedis.ch/caisse/contracts/purse/types"
	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/core/store/kv"
	"go.dedis.ch/caisse/serde"
	sjson "go.dedis.ch/caisse/serde/json"
)

var (
	alice   = access.Address{1}
	admin   = access.Address{2}
	bob     = access.Address{3}
	reserve = access.Address{9}
)

func TestSession_Initialize(t *testing.T) {
	sess, _ := makeSession(t)

	err := sess.Initialize(makeInit())
	require.ErrorContains(t, err, "contract is already initialized")
}

func TestSession_Process_Transfer(t *testing.T) {
	sess, _ := makeSession(t)

	reply := decode(t, sess.Process(alice, encode(t, types.Transfer{To: bob, Amount: 40})))
	require.Equal(t, types.Transferred{From: alice, To: bob, Amount: 40}, reply)

	reply = decode(t, sess.Query(encode(t, types.BalanceQuery{Id: bob})))
	require.Equal(t, types.BalanceReply{Id: bob, Amount: 40}, reply)
}

func TestSession_Process_Unauthorized(t *testing.T) {
	sess, _ := makeSession(t)

	// The recipient of a transfer is not granted access by itself.
	sess.Process(alice, encode(t, types.Transfer{To: bob, Amount: 40}))

	reply := decode(t, sess.Process(bob, encode(t, types.Transfer{To: alice, Amount: 10})))
	require.Equal(t, types.CodeUnauthorized, reply.(types.ContractError).Code)

	err := sess.Grant(bob)
	require.NoError(t, err)

	reply = decode(t, sess.Process(bob, encode(t, types.Transfer{To: alice, Amount: 10})))
	require.Equal(t, types.Transferred{From: bob, To: alice, Amount: 10}, reply)
}

func TestSession_Process_NotEnoughBalance(t *testing.T) {
	sess, _ := makeSession(t)

	reply := decode(t, sess.Process(alice, encode(t, types.Transfer{To: bob, Amount: 200})))
	require.Equal(t, types.CodeNotEnoughBalance, reply.(types.ContractError).Code)

	// A refused action is an atomic no-op.
	balance := decode(t, sess.Query(encode(t, types.BalanceQuery{Id: alice})))
	require.Equal(t, types.BalanceReply{Id: alice, Amount: 100}, balance)
}

func TestSession_Process_Withdraw(t *testing.T) {
	sess, ft := makeSession(t)

	reply := decode(t, sess.Process(alice, encode(t, types.Withdraw{To: bob, Amount: 40})))
	require.Equal(t, types.Withdrawn{From: alice, To: bob, Amount: 40}, reply)

	// The tokens left the purse entirely: both supplies shrink and the
	// recipient is credited at the token service.
	supply := decode(t, sess.Query(encode(t, types.SupplyQuery{})))
	require.Equal(t, types.SupplyReply{CurrentSupply: 60, TotalSupply: 960}, supply)

	require.Equal(t, uint64(40), ft.BalanceOf(bob))
}

func TestSession_Process_Withdraw_Refused(t *testing.T) {
	db, err := kv.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	// The reserve is empty, so the token service refuses the request.
	sess := NewSession(db, ftoken.NewService(), reserve)

	err = sess.Initialize(makeInit())
	require.NoError(t, err)

	reply := decode(t, sess.Process(alice, encode(t, types.Withdraw{To: bob, Amount: 40})))
	require.Equal(t, types.CodeMessageSendError, reply.(types.ContractError).Code)

	balance := decode(t, sess.Query(encode(t, types.BalanceQuery{Id: alice})))
	require.Equal(t, types.BalanceReply{Id: alice, Amount: 100}, balance)
}

func TestSession_Process_NotAdmin(t *testing.T) {
	sess, _ := makeSession(t)

	reply := decode(t, sess.Process(alice, encode(t, types.Mint{To: alice, Amount: 1})))
	require.Equal(t, types.CodeNotAdmin, reply.(types.ContractError).Code)

	reply = decode(t, sess.Process(admin, encode(t, types.Mint{To: alice, Amount: 1})))
	require.Equal(t, types.Minted{To: alice, Amount: 1}, reply)
}

func TestSession_Process_Malformed(t *testing.T) {
	sess, _ := makeSession(t)

	reply := decode(t, sess.Process(alice, []byte("garbage")))
	require.Equal(t, types.CodeMalformed, reply.(types.ContractError).Code)

	// A malformed message still gets exactly one deterministic reply.
	again := decode(t, sess.Process(alice, []byte("garbage")))
	require.Equal(t, reply, again)
}

func TestSession_Query(t *testing.T) {
	sess, _ := makeSession(t)

	first := sess.Query(encode(t, types.BalanceQuery{Id: alice}))
	second := sess.Query(encode(t, types.BalanceQuery{Id: alice}))
	require.Equal(t, first, second)

	reply := decode(t, sess.Query(encode(t, types.MetadataQuery{})))
	require.Equal(t, types.MetadataReply{Metadata: "example purse"}, reply)
}

func TestSession_Query_NotInitialized(t *testing.T) {
	db, err := kv.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	sess := NewSession(db, ftoken.NewService(), reserve)

	reply := decode(t, sess.Query(encode(t, types.SupplyQuery{})))
	require.Equal(t, types.CodeNotFound, reply.(types.ContractError).Code)
}

// -----------------------------------------------------------------------------
// Utility functions

func makeInit() types.Init {
	return types.Init{
		Metadata:    "example purse",
		TotalSupply: 1000,
		Admins:      []access.Address{admin},
		Balances:    []types.Account{{Id: alice, Amount: 100}},
	}
}

func makeSession(t *testing.T) (*Session, *ftoken.Service) {
	db, err := kv.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	ft := ftoken.NewService()
	ft.Credit(reserve, 1_000_000)

	sess := NewSession(db, ft, reserve)

	err = sess.Initialize(makeInit())
	require.NoError(t, err)

	return sess, ft
}

func encode(t *testing.T, msg serde.Message) []byte {
	data, err := msg.Serialize(sjson.NewContext())
	require.NoError(t, err)

	return data
}

func decode(t *testing.T, data []byte) serde.Message {
	msg, err := types.NewMessageFactory().Deserialize(sjson.NewContext(), data)
	require.NoError(t, err)

	return msg
}
