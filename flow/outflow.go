// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package flow

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/intents"
	"github.com/luxfi/intents/payload"
	"github.com/luxfi/intents/sigauth"
)

// OutflowConfig wires an Outflow to its collaborators.
type OutflowConfig struct {
	Log     log.Logger
	Store   *intents.Store
	Schemes *sigauth.Registry
	Admin   intents.Address
}

// Outflow settles intents whose locked funds live on this chain while the
// desired resource is delivered remotely. Payout to the solver is gated on
// proof that the remote leg settled: either a validator's approval signature
// over the intent id, or a relayed FulfillmentProof recorded ahead of time.
// The two paths carry the same semantic proof; keeping both is deliberate
// defense in depth.
type Outflow struct {
	mu      sync.Mutex
	log     log.Logger
	store   *intents.Store
	schemes *sigauth.Registry
	admin   intents.Address
	proofs  map[ids.ID]*payload.FulfillmentProof
}

// NewOutflow returns an outflow orchestrator.
func NewOutflow(cfg OutflowConfig) *Outflow {
	return &Outflow{
		log:     cfg.Log,
		store:   cfg.Store,
		schemes: cfg.Schemes,
		admin:   cfg.Admin,
		proofs:  make(map[ids.ID]*payload.FulfillmentProof),
	}
}

// Open creates an outflow intent. The remote leg names where and what the
// solver must deliver; the locked resource is its payment once proof
// arrives.
func (o *Outflow) Open(p intents.CreateParams, now uint64) (*intents.Intent, error) {
	if p.Remote == nil {
		return nil, errRemoteLegRequired
	}
	p.Conditions.Witness = intents.WitnessFulfillmentProof
	p.Revocable = false

	intent, err := o.store.Create(p, now)
	if err != nil {
		return nil, err
	}
	o.log.Info("opened outflow intent",
		log.Stringer("intentID", intent.ID),
		log.Stringer("remoteChain", p.Remote.ChainID),
	)
	return intent, nil
}

// ReceiveFulfillmentProof records a relayed proof for later consumption by
// Fulfill. Replays are no-ops.
func (o *Outflow) ReceiveFulfillmentProof(proof *payload.FulfillmentProof) error {
	if _, ok := o.store.Get(proof.IntentID); !ok {
		return fmt.Errorf("%w: %s", intents.ErrUnknownIntent, proof.IntentID)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.proofs[proof.IntentID]; ok {
		return nil
	}
	o.proofs[proof.IntentID] = proof
	return nil
}

// ProofReceived reports whether a fulfillment proof has been recorded for
// the intent.
func (o *Outflow) ProofReceived(id ids.ID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.proofs[id]
	return ok
}

// Knows reports whether this orchestrator tracks the intent.
func (o *Outflow) Knows(id ids.ID) bool {
	_, ok := o.store.Get(id)
	return ok
}

// Fulfill pays the locked resource to the solver against a previously
// recorded FulfillmentProof message. The proof records that the remote leg
// settled, so a payout is owed even if the local expiry has passed by the
// time the proof is consumed.
func (o *Outflow) Fulfill(intentID ids.ID, solver intents.Address) error {
	o.mu.Lock()
	proof, ok := o.proofs[intentID]
	o.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: intent %s", intents.ErrFulfillmentProofNotReceived, intentID)
	}

	intent, ok := o.store.Get(intentID)
	if !ok {
		return fmt.Errorf("%w: %s", intents.ErrUnknownIntent, intentID)
	}
	witness, err := intents.VerifyFulfillmentProof(
		intent.Conditions, intentID, proof.IntentID, proof.AmountFulfilled,
	)
	if err != nil {
		return err
	}
	return o.payout(intent, solver, witness)
}

// FulfillWithApproval pays the locked resource to the solver against a
// validator's approval signature over the raw intent id. This path works
// even when no proof message was relayed.
func (o *Outflow) FulfillWithApproval(intentID ids.ID, solver intents.Address, signature []byte) error {
	intent, ok := o.store.Get(intentID)
	if !ok {
		return fmt.Errorf("%w: %s", intents.ErrUnknownIntent, intentID)
	}
	witness, err := intents.VerifyProofSignature(intent.Conditions, o.schemes, intentID, signature)
	if err != nil {
		return err
	}
	return o.payout(intent, solver, witness)
}

// Cancel refunds an expired, unfulfilled outflow intent to its issuer. Admin
// only; rejected once a fulfillment proof has been recorded.
func (o *Outflow) Cancel(caller intents.Address, intentID ids.ID, now uint64) error {
	if caller != o.admin {
		return intents.ErrUnauthorized
	}
	o.mu.Lock()
	_, fulfilled := o.proofs[intentID]
	o.mu.Unlock()
	if fulfilled {
		return intents.ErrAlreadyFulfilled
	}
	if err := o.store.CancelExpired(intentID, now); err != nil {
		return err
	}
	o.log.Info("cancelled expired outflow intent", log.Stringer("intentID", intentID))
	return nil
}

func (o *Outflow) payout(intent *intents.Intent, solver intents.Address, witness intents.Witness) error {
	_, session, err := o.store.StartSettled(intent.ID, solver, witness)
	if err != nil {
		return err
	}
	payment := intents.Resource{
		Token:  intent.Conditions.DesiredToken,
		Amount: uint256.NewInt(0),
	}
	if err := o.store.Finish(session, payment, witness); err != nil {
		return err
	}

	fulfillments.WithLabelValues("outflow").Inc()
	o.log.Info("fulfilled outflow intent",
		log.Stringer("intentID", intent.ID),
		log.Stringer("solver", solver),
	)
	return nil
}
