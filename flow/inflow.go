// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package flow orchestrates the two cross-chain settlement directions on top
// of the intent store, the escrow vault and the wire codec. Inflow and
// outflow differ only in the gate a payout waits on: a recorded escrow
// confirmation versus proof that the remote leg settled.
package flow

import (
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/intents"
	"github.com/luxfi/intents/payload"
	"github.com/luxfi/intents/registry"
)

// errRemoteLegRequired rejects opening a cross-chain flow without naming the
// counterparty chain.
var errRemoteLegRequired = errors.New("cross-chain intent requires a remote leg")

// InflowConfig wires an Inflow to its collaborators. Solvers is optional and
// maps local solver addresses to their escrow-chain addresses; without it the
// local address is used on both chains.
type InflowConfig struct {
	Log     log.Logger
	Store   *intents.Store
	Sender  Sender
	Solvers *registry.SolverRegistry

	// Clock stamps outbound fulfillment proofs. Defaults to the host wall
	// clock.
	Clock intents.Clock
}

// Inflow settles intents whose desired resource is native to this chain. The
// requester's counter-payment sits in escrow on the remote chain; a solver is
// paid out of that escrow once it has delivered here, so delivery is gated on
// the escrow actually existing.
type Inflow struct {
	mu        sync.Mutex
	log       log.Logger
	store     *intents.Store
	sender    Sender
	solvers   *registry.SolverRegistry
	clock     intents.Clock
	confirmed map[ids.ID]*payload.EscrowConfirmation
	proofs    map[ids.ID]*payload.FulfillmentProof
}

// NewInflow returns an inflow orchestrator.
func NewInflow(cfg InflowConfig) *Inflow {
	clock := cfg.Clock
	if clock == nil {
		clock = intents.SystemClock
	}
	return &Inflow{
		log:       cfg.Log,
		store:     cfg.Store,
		sender:    cfg.Sender,
		solvers:   cfg.Solvers,
		clock:     clock,
		confirmed: make(map[ids.ID]*payload.EscrowConfirmation),
		proofs:    make(map[ids.ID]*payload.FulfillmentProof),
	}
}

// Open creates an inflow intent and announces its escrow requirements to the
// remote chain. The remote leg describes what the requester must deposit
// there; the conditions describe what a solver must deliver here.
func (f *Inflow) Open(p intents.CreateParams, now uint64) (*intents.Intent, error) {
	if p.Remote == nil {
		return nil, errRemoteLegRequired
	}
	p.Conditions.Witness = intents.WitnessEscrowConfirmation
	p.Revocable = false

	intent, err := f.store.Create(p, now)
	if err != nil {
		return nil, err
	}

	reserved := intents.ZeroAddress
	if intent.Reservation != nil {
		reserved = f.remoteSolver(intent.Reservation.Solver)
	}
	req := &payload.IntentRequirements{
		IntentID:       intent.ID,
		Requester:      p.Remote.Address,
		AmountRequired: p.Remote.Amount,
		Token:          p.Remote.Token,
		Solver:         reserved,
		Expiry:         p.Expiry,
	}
	if err := f.sender.SendIntentRequirements(p.Remote.ChainID, req); err != nil {
		return nil, fmt.Errorf("failed to send intent requirements: %w", err)
	}

	f.log.Info("opened inflow intent",
		log.Stringer("intentID", intent.ID),
		log.Stringer("remoteChain", p.Remote.ChainID),
		log.Uint64("escrowAmount", p.Remote.Amount),
	)
	return intent, nil
}

// RecordEscrowConfirmation sets the payout gate for an intent. Only the
// dispatcher calls this, with a confirmation that decoded from the wire;
// replays are no-ops.
func (f *Inflow) RecordEscrowConfirmation(conf *payload.EscrowConfirmation) error {
	if _, ok := f.store.Get(conf.IntentID); !ok {
		return fmt.Errorf("%w: %s", intents.ErrUnknownIntent, conf.IntentID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.confirmed[conf.IntentID]; ok {
		return nil
	}
	f.confirmed[conf.IntentID] = conf
	return nil
}

// Confirmed reports whether the escrow confirmation for an intent has been
// recorded.
func (f *Inflow) Confirmed(id ids.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.confirmed[id]
	return ok
}

// Knows reports whether this orchestrator tracks the intent.
func (f *Inflow) Knows(id ids.ID) bool {
	_, ok := f.store.Get(id)
	return ok
}

// Fulfill delivers the desired resource from the solver to the requester and
// reports fulfillment to the remote chain so the escrow there releases. It
// aborts if the escrow confirmation has not arrived. The delivery commits
// before the proof is handed to the relay: a send failure is returned, and
// the recorded proof can be re-emitted with ResendProof.
func (f *Inflow) Fulfill(intentID ids.ID, solver intents.Address, now uint64) error {
	f.mu.Lock()
	conf, ok := f.confirmed[intentID]
	f.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: intent %s", intents.ErrEscrowNotConfirmed, intentID)
	}

	intent, ok := f.store.Get(intentID)
	if !ok {
		return fmt.Errorf("%w: %s", intents.ErrUnknownIntent, intentID)
	}
	witness, err := intents.VerifyEscrowConfirmation(
		intent.Conditions, *intent.Remote,
		intentID, conf.IntentID, conf.Token, conf.AmountEscrowed,
	)
	if err != nil {
		return err
	}

	payment := intents.Resource{
		Token:  intent.Conditions.DesiredToken,
		Amount: intent.Conditions.DesiredAmount,
	}
	delivered, err := payment.WireAmount()
	if err != nil {
		return err
	}

	_, session, err := f.store.Start(intentID, solver, now)
	if err != nil {
		return err
	}
	if err := f.store.Finish(session, payment, witness); err != nil {
		return err
	}

	// The proof claims the escrowed remote leg, so it reports in the escrow's
	// units, not the locally delivered amount.
	proof := &payload.FulfillmentProof{
		IntentID:        intentID,
		Solver:          f.remoteSolver(solver),
		AmountFulfilled: intent.Remote.Amount,
		Timestamp:       f.clock(),
	}
	f.mu.Lock()
	f.proofs[intentID] = proof
	f.mu.Unlock()
	if err := f.sender.SendFulfillmentProof(intent.Remote.ChainID, proof); err != nil {
		return fmt.Errorf("delivery settled but proof not sent: %w", err)
	}

	fulfillments.WithLabelValues("inflow").Inc()
	f.log.Info("fulfilled inflow intent",
		log.Stringer("intentID", intentID),
		log.Stringer("solver", solver),
		log.Uint64("amount", delivered),
	)
	return nil
}

// ResendProof re-emits the fulfillment proof recorded for a settled intent.
// The remote escrow releases at most once, so resending after a relay
// failure is always safe.
func (f *Inflow) ResendProof(intentID ids.ID) error {
	f.mu.Lock()
	proof, ok := f.proofs[intentID]
	f.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: intent %s", intents.ErrFulfillmentProofNotReceived, intentID)
	}
	intent, ok := f.store.Get(intentID)
	if !ok {
		return fmt.Errorf("%w: %s", intents.ErrUnknownIntent, intentID)
	}
	return f.sender.SendFulfillmentProof(intent.Remote.ChainID, proof)
}

// remoteSolver maps a local solver address to its address on the escrow
// chain, falling back to the local address for unregistered solvers.
func (f *Inflow) remoteSolver(solver intents.Address) intents.Address {
	if f.solvers == nil {
		return solver
	}
	record, ok := f.solvers.Get(solver)
	if !ok || record.ConnectedAddress.IsZero() {
		return solver
	}
	return record.ConnectedAddress
}
