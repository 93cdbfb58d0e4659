// Package runtime implements the session between the host runtime and the
// purse contract.
//
// A session processes the inbound messages of a deployment one at a time, in
// arrival order, and produces exactly one reply per message. A failure never
// surfaces as a Go error to the host: the reply carries either the event of
// the completed transition, or a typed contract error the caller can branch
// on. Every message runs inside its own database transaction, so a refused
// action is rolled back as a whole.
package runtime

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"go.dedis.ch/caisse"
	"go.dedis.ch/caisse/contracts/ftoken"
	"go.dedis.ch/caisse/contracts/purse"
	"go.dedis.ch/caisse/contracts/purse/types"
	"go.dedis.ch/caisse/core/access"
	"go.dedis.ch/caisse/core/access/roster"
	"go.dedis.ch/caisse/core/execution"
	"go.dedis.ch/caisse/core/execution/native"
	"go.dedis.ch/caisse/core/store"
	"go.dedis.ch/caisse/core/store/kv"
	"go.dedis.ch/caisse/core/store/mem"
	"go.dedis.ch/caisse/core/txn"
	"go.dedis.ch/caisse/core/txn/direct"
	"go.dedis.ch/caisse/serde"
	sjson "go.dedis.ch/caisse/serde/json"
	"golang.org/x/xerrors"

	_ "go.dedis.ch/caisse/contracts/purse/json"
	_ "go.dedis.ch/caisse/core/access/json"
	_ "go.dedis.ch/caisse/core/access/roster/json"
	_ "go.dedis.ch/caisse/core/txn/direct/json"
)

// bucketName is the bucket of the database holding the data of the session.
var bucketName = []byte("caisse")

// accessKey is the identifier of the access granted to the senders allowed
// to talk to the contract.
var accessKey = [32]byte{1}

var (
	promMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caisse_session_messages",
			Help: "total number of messages processed, labeled by outcome",
		},
		[]string{"status"},
	)

	promQueries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "caisse_session_queries",
			Help: "total number of queries processed",
		},
	)
)

func init() {
	caisse.PromCollectors = append(caisse.PromCollectors, promMessages, promQueries)
}

// Session is the single entry point of a deployment. It owns the database
// and serializes the message processing, so the contract always observes one
// message at a time.
type Session struct {
	sync.Mutex

	db       kv.DB
	exec     *native.Service
	access   access.Service
	contract purse.Contract
	mgr      txn.Manager
	context  serde.Context
	logger   zerolog.Logger
}

// NewSession creates a new session over the database. The token service
// client is used by the contract to forward withdrawals out of the reserve
// account.
func NewSession(db kv.DB, ft ftoken.Client, reserve access.Address) *Session {
	ctx := sjson.NewContext()

	asrvc := roster.NewService(ctx)

	contract := purse.NewContract(accessKey[:], asrvc, ft, reserve)

	exec := native.NewExecution()
	purse.RegisterContract(exec, contract)

	return &Session{
		db:       db,
		exec:     exec,
		access:   asrvc,
		contract: contract,
		mgr:      direct.NewManager(),
		context:  ctx,
		logger:   caisse.Logger.With().Str("session", xid.New().String()).Logger(),
	}
}

// Initialize consumes the init payload to write the first state of the
// deployment. The initial admins and balance holders are granted access to
// the contract. It fails when the session is already initialized.
func (s *Session) Initialize(init types.Init) error {
	s.Lock()
	defer s.Unlock()

	return s.db.Update(func(tx kv.WritableTx) error {
		bucket, err := tx.GetBucketOrCreate(bucketName)
		if err != nil {
			return xerrors.Errorf("couldn't create bucket: %v", err)
		}

		snap := kv.NewSnapshot(bucket)

		err = s.contract.Initialize(snap, init)
		if err != nil {
			return xerrors.Errorf("couldn't initialize contract: %v", err)
		}

		idents := make([]access.Identity, 0, len(init.Admins)+len(init.Balances))
		for _, admin := range init.Admins {
			idents = append(idents, admin)
		}
		for _, account := range init.Balances {
			idents = append(idents, account.Id)
		}

		err = s.access.Grant(snap, purse.NewCreds(accessKey[:]), idents...)
		if err != nil {
			return xerrors.Errorf("couldn't grant access: %v", err)
		}

		s.logger.Info().
			Uint64("supply", init.TotalSupply).
			Int("admins", len(init.Admins)).
			Msg("session initialized")

		return nil
	})
}

// Grant allows the addresses to send messages to the contract.
func (s *Session) Grant(addrs ...access.Address) error {
	s.Lock()
	defer s.Unlock()

	return s.db.Update(func(tx kv.WritableTx) error {
		bucket, err := tx.GetBucketOrCreate(bucketName)
		if err != nil {
			return xerrors.Errorf("couldn't create bucket: %v", err)
		}

		idents := make([]access.Identity, len(addrs))
		for i, addr := range addrs {
			idents[i] = addr
		}

		err = s.access.Grant(kv.NewSnapshot(bucket), purse.NewCreds(accessKey[:]), idents...)
		if err != nil {
			return xerrors.Errorf("couldn't grant access: %v", err)
		}

		return nil
	})
}

// Process handles one inbound message from the sender and returns the reply.
// The reply always encodes either the event of the completed transition, or
// the typed error of the refusal.
func (s *Session) Process(sender access.Address, data []byte) []byte {
	s.Lock()
	defer s.Unlock()

	logger := s.logger.With().
		Str("message", xid.New().String()).
		Str("sender", sender.String()).
		Logger()

	tx, err := s.mgr.Make(sender,
		txn.Arg{Key: native.ContractArg, Value: []byte(purse.ContractName)},
		txn.Arg{Key: purse.ActionArg, Value: data},
	)
	if err != nil {
		return s.refuse(logger, xerrors.Errorf("couldn't create tx: %v", err))
	}

	var out []byte

	err = s.db.Update(func(dbtx kv.WritableTx) error {
		bucket, err := dbtx.GetBucketOrCreate(bucketName)
		if err != nil {
			return xerrors.Errorf("couldn't create bucket: %v", err)
		}

		// A refused execution must not touch the bucket.
		return mem.Stage(kv.NewSnapshot(bucket), func(staged store.Snapshot) error {
			res, err := s.exec.Execute(staged, execution.Step{Current: tx})
			if err != nil {
				return err
			}

			out = res.Data

			return nil
		})
	})
	if err != nil {
		return s.refuse(logger, err)
	}

	promMessages.WithLabelValues("accepted").Inc()
	logger.Debug().Msg("message accepted")

	return out
}

// Query handles a read-only request and returns the reply. A query never
// mutates the state, so repeating it returns the same reply as long as no
// action is accepted in between.
func (s *Session) Query(data []byte) []byte {
	s.Lock()
	defer s.Unlock()

	var out []byte

	err := s.db.View(func(tx kv.ReadableTx) error {
		bucket := tx.GetBucket(bucketName)
		if bucket == nil {
			return types.NewError(types.CodeNotFound, "contract is not initialized")
		}

		res, err := s.contract.Query(kv.NewSnapshot(bucket), data)
		if err != nil {
			return err
		}

		out = res

		return nil
	})
	if err != nil {
		return s.encodeError(s.logger, err)
	}

	promQueries.Inc()

	return out
}

// refuse builds the error arm of a reply out of the failure of an execution.
func (s *Session) refuse(logger zerolog.Logger, err error) []byte {
	cerr := types.ContractError{}
	if !xerrors.As(err, &cerr) {
		cerr = types.NewError(types.CodeMalformed, "couldn't process message: %v", err)
	}

	promMessages.WithLabelValues(string(cerr.Code)).Inc()
	logger.Debug().
		Str("code", string(cerr.Code)).
		Str("reason", cerr.Reason).
		Msg("message refused")

	return s.encodeError(logger, cerr)
}

func (s *Session) encodeError(logger zerolog.Logger, err error) []byte {
	cerr := types.ContractError{}
	if !xerrors.As(err, &cerr) {
		cerr = types.NewError(types.CodeMalformed, "couldn't process message: %v", err)
	}

	data, err := cerr.Serialize(s.context)
	if err != nil {
		logger.Error().Err(err).Msg("couldn't encode reply")
		return nil
	}

	return data
}
