// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package intents

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/luxfi/ids"

	"github.com/luxfi/intents/sigauth"
)

// ReservationScheme is the signature scheme reservation signatures use on the
// intent chain.
const ReservationScheme = sigauth.SchemeEd25519

// IntentTracker is the write capability over the active-intent registry. Only
// the store and the flow orchestrators are handed one; everything else reads
// the registry through its own read surface.
type IntentTracker interface {
	Record(id ids.ID, requester Address, expiry uint64)
	Remove(id ids.ID)
}

// StoreConfig wires a Store to its collaborators. Keys, Tracker and Emitter
// are optional; a nil Tracker or Emitter disables that output.
type StoreConfig struct {
	Ledger  *Ledger
	Custody Address
	ChainID ids.ID
	Schemes *sigauth.Registry
	Keys    KeyResolver
	Tracker IntentTracker
	Emitter Emitter
}

// Store owns every live intent on this chain. Each exported call is one
// atomic transaction under the store mutex; invariants inside a transition
// need no further locking.
type Store struct {
	mu      sync.Mutex
	ledger  *Ledger
	custody Address
	chainID ids.ID
	schemes *sigauth.Registry
	keys    KeyResolver
	tracker IntentTracker
	emitter Emitter
	intents map[ids.ID]*Intent
	nonce   uint64
}

// NewStore returns an empty intent store.
func NewStore(cfg StoreConfig) *Store {
	return &Store{
		ledger:  cfg.Ledger,
		custody: cfg.Custody,
		chainID: cfg.ChainID,
		schemes: cfg.Schemes,
		keys:    cfg.Keys,
		tracker: cfg.Tracker,
		emitter: cfg.Emitter,
		intents: make(map[ids.ID]*Intent),
	}
}

// CreateParams describes the intent to create. The issuer's locked resource
// is debited into custody; on any verification failure nothing is created.
type CreateParams struct {
	Issuer     Address
	Locked     Resource
	Conditions Conditions
	Expiry     uint64
	Revocable  bool

	CrossChainID *ids.ID
	Remote       *RemoteLeg

	Reservation *ReservationRequest
}

// Create locks the issuer's resource under the given terms and returns the
// new intent.
func (s *Store) Create(p CreateParams, now uint64) (*Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now > p.Expiry {
		return nil, ErrIntentExpired
	}
	if (p.CrossChainID != nil || p.Remote != nil) && p.Revocable {
		return nil, ErrRevocableCrossChain
	}

	var reservation *Reservation
	if p.Reservation != nil {
		if err := s.verifyReservation(p); err != nil {
			return nil, err
		}
		reservation = &Reservation{Solver: p.Reservation.Solver}
	}

	id := s.nextID(p.Issuer)
	if _, ok := s.intents[id]; ok {
		return nil, ErrDuplicateIntent
	}

	if err := s.ledger.Transfer(p.Issuer, s.custody, p.Locked); err != nil {
		return nil, err
	}

	intent := &Intent{
		ID:           id,
		Issuer:       p.Issuer,
		Locked:       p.Locked,
		Conditions:   p.Conditions,
		Expiry:       p.Expiry,
		Revocable:    p.Revocable,
		Reservation:  reservation,
		CrossChainID: p.CrossChainID,
		Remote:       p.Remote,
		state:        stateActive,
	}
	s.intents[id] = intent

	if s.tracker != nil {
		s.tracker.Record(id, p.Issuer, p.Expiry)
	}
	s.emitCreated(intent)
	return intent, nil
}

// Get returns the intent with the given id.
func (s *Store) Get(id ids.ID) (*Intent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	intent, ok := s.intents[id]
	return intent, ok
}

// Start begins fulfillment: the locked resource is paid out to the caller
// immediately and a session carrying the completion obligation is issued.
func (s *Store) Start(id ids.ID, caller Address, now uint64) (Resource, *Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, ok := s.intents[id]
	if !ok {
		return Resource{}, nil, ErrUnknownIntent
	}
	if intent.state != stateActive {
		return Resource{}, nil, ErrIntentNotActive
	}
	if intent.Expired(now) {
		return Resource{}, nil, ErrIntentExpired
	}
	return s.start(intent, caller)
}

// StartSettled begins fulfillment against a witness of the intent's required
// kind. A non-zero witness only exists after its verification succeeded, and
// for cross-chain intents that verification records a settlement fact from
// the counterparty chain, which is authoritative over the local clock. The
// expiry is therefore not consulted; every other Start check applies.
func (s *Store) StartSettled(id ids.ID, caller Address, w Witness) (Resource, *Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, ok := s.intents[id]
	if !ok {
		return Resource{}, nil, ErrUnknownIntent
	}
	if intent.state != stateActive {
		return Resource{}, nil, ErrIntentNotActive
	}
	if w.Kind() != intent.Conditions.Witness {
		return Resource{}, nil, ErrWitnessTypeMismatch
	}
	return s.start(intent, caller)
}

func (s *Store) start(intent *Intent, caller Address) (Resource, *Session, error) {
	if intent.Reservation != nil && intent.Reservation.Solver != caller {
		return Resource{}, nil, fmt.Errorf("%w: reserved for %s", ErrUnauthorizedSolver, intent.Reservation.Solver)
	}

	if err := s.ledger.Transfer(s.custody, caller, intent.Locked); err != nil {
		return Resource{}, nil, err
	}
	intent.state = stateStarted

	return intent.Locked, &Session{intent: intent, holder: caller}, nil
}

// Finish completes a started session: the witness must match the intent's
// required kind and the payment is transferred to the issuer. The session is
// consumed only when the completion commits; a rejected witness, payment or
// transfer leaves the session live so the obligation can still be met. A
// second completion after success fails on both the session guard and the
// intent state.
func (s *Store) Finish(session *Session, payment Resource, w Witness) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.consumed {
		return ErrSessionConsumed
	}
	intent := session.intent
	if intent.state != stateStarted {
		return ErrIntentNotActive
	}

	c := intent.Conditions
	if w.Kind() != c.Witness {
		if w.Kind() == 0 && (c.Witness == WitnessOracle || c.Witness == WitnessFulfillmentProof) {
			return ErrSignatureRequired
		}
		return ErrWitnessTypeMismatch
	}
	if c.Witness == WitnessPayment {
		if payment.Token != c.DesiredToken {
			return ErrTokenMismatch
		}
		if payment.Amount == nil || payment.Amount.Lt(c.DesiredAmount) {
			return ErrAmountNotMet
		}
	}

	if err := s.ledger.Transfer(session.holder, intent.Issuer, payment); err != nil {
		return err
	}
	session.consumed = true
	intent.state = stateCompleted

	if s.tracker != nil {
		s.tracker.Remove(intent.ID)
	}
	if s.emitter != nil {
		s.emitter.Emit(LimitOrderFulfillmentEvent{
			Intent: intent.ID,
			Solver: session.holder,
			Amount: intent.Locked.Amount,
		})
	}
	return nil
}

// Revoke returns the locked resource to the issuer. Only the issuer may
// revoke, only while the intent is still active, and only if it was created
// revocable.
func (s *Store) Revoke(id ids.ID, caller Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, ok := s.intents[id]
	if !ok {
		return ErrUnknownIntent
	}
	if intent.state != stateActive {
		return ErrIntentNotActive
	}
	if !intent.Revocable {
		return ErrNotRevocable
	}
	if intent.Issuer != caller {
		return ErrUnauthorized
	}

	if err := s.ledger.Transfer(s.custody, intent.Issuer, intent.Locked); err != nil {
		return err
	}
	intent.state = stateRevoked
	if s.tracker != nil {
		s.tracker.Remove(id)
	}
	return nil
}

// CancelExpired refunds an expired, unstarted intent to its issuer. This is
// the designed recovery path for solver non-performance, not a fault.
func (s *Store) CancelExpired(id ids.ID, now uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, ok := s.intents[id]
	if !ok {
		return ErrUnknownIntent
	}
	if intent.state != stateActive {
		return ErrIntentNotActive
	}
	if !intent.Expired(now) {
		return ErrNotExpired
	}

	if err := s.ledger.Transfer(s.custody, intent.Issuer, intent.Locked); err != nil {
		return err
	}
	intent.state = stateCancelled
	if s.tracker != nil {
		s.tracker.Remove(id)
	}
	return nil
}

// Terms returns the canonical trade terms a solver signs to reserve the
// described intent.
func (s *Store) Terms(p CreateParams, solver Address) (*IntentTerms, error) {
	sourceAmount, err := p.Locked.WireAmount()
	if err != nil {
		return nil, err
	}
	desired := Resource{Token: p.Conditions.DesiredToken, Amount: p.Conditions.DesiredAmount}
	desiredAmount, err := desired.WireAmount()
	if err != nil {
		return nil, err
	}
	desiredChain := s.chainID
	if p.Remote != nil {
		desiredChain = p.Remote.ChainID
	}
	return &IntentTerms{
		SourceToken:   p.Locked.Token,
		SourceAmount:  sourceAmount,
		SourceChainID: s.chainID,
		DesiredToken:  p.Conditions.DesiredToken,
		DesiredAmount: desiredAmount,
		DesiredChain:  desiredChain,
		Expiry:        p.Expiry,
		Issuer:        p.Issuer,
		Solver:        solver,
	}, nil
}

func (s *Store) verifyReservation(p CreateParams) error {
	req := p.Reservation
	terms, err := s.Terms(p, req.Solver)
	if err != nil {
		return err
	}
	publicKey := req.PublicKey
	if publicKey == nil {
		if s.keys == nil {
			return ErrUnknownSolver
		}
		publicKey, err = s.keys.SolverKey(req.Solver)
		if err != nil {
			return err
		}
	}
	verifier, err := s.schemes.Verifier(ReservationScheme)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}
	return VerifyReservation(terms, verifier, publicKey, req.Signature)
}

// nextID derives a fresh intent id from the issuer and a store nonce.
func (s *Store) nextID(issuer Address) ids.ID {
	s.nonce++
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], s.nonce)
	digest := ComputeHash256(s.chainID[:], issuer[:], buf[:])
	var id ids.ID
	copy(id[:], digest)
	return id
}

func (s *Store) emitCreated(intent *Intent) {
	if s.emitter == nil {
		return
	}
	if intent.Conditions.Witness == WitnessOracle {
		s.emitter.Emit(OracleLimitOrderEvent{
			Intent:      intent.ID,
			Issuer:      intent.Issuer,
			Offered:     intent.Locked,
			OracleKey:   intent.Conditions.OracleKey,
			MinReported: intent.Conditions.MinReported,
			Expiry:      intent.Expiry,
		})
		return
	}
	s.emitter.Emit(LimitOrderEvent{
		Intent:  intent.ID,
		Issuer:  intent.Issuer,
		Offered: intent.Locked,
		Desired: Resource{
			Token:  intent.Conditions.DesiredToken,
			Amount: intent.Conditions.DesiredAmount,
		},
		Expiry:    intent.Expiry,
		Revocable: intent.Revocable,
	})
}
