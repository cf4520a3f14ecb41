// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package escrow implements custody on the non-issuing chain. An escrow is
// driven exclusively by received wire messages: it can only be created after
// an IntentRequirements message was recorded, it releases to the solver on a
// FulfillmentProof, and it is cancellable by an admin after expiry. The
// message relay retries at-least-once and in any order, so every handler is
// idempotent per intent id.
package escrow

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/luxfi/ids"

	"github.com/luxfi/intents"
	"github.com/luxfi/intents/payload"
)

// ConfirmationSender carries the escrow-funded confirmation back to the
// issuing chain. The flow package's senders implement it; the transport
// behind it is out of scope here.
type ConfirmationSender interface {
	SendEscrowConfirmation(dstChainID ids.ID, conf *payload.EscrowConfirmation) error
}

// Escrow is the custody record for one intent id. Exactly one of the two
// release paths may ever run: Released transitions false to true once.
type Escrow struct {
	IntentID  ids.ID
	EscrowID  ids.ID
	Requester intents.Address
	Token     intents.Address
	Amount    uint64
	Solver    intents.Address
	Expiry    uint64

	Fulfilled bool
	Released  bool
	Cancelled bool
}

// VaultConfig wires a Vault to its collaborators. Sender and Emitter are
// optional.
type VaultConfig struct {
	Ledger  *intents.Ledger
	Custody intents.Address
	Admin   intents.Address
	ChainID ids.ID
	Home    ids.ID // issuing chain confirmations are sent back to
	Sender  ConfirmationSender
	Emitter intents.Emitter
}

// Vault holds every escrow on this chain and the requirements they are
// created against.
type Vault struct {
	mu      sync.Mutex
	ledger  *intents.Ledger
	custody intents.Address
	admin   intents.Address
	chainID ids.ID
	home    ids.ID
	sender  ConfirmationSender
	emitter intents.Emitter

	requirements map[ids.ID]*payload.IntentRequirements
	escrows      map[ids.ID]*Escrow
	nonce        uint64
}

// NewVault returns an empty vault.
func NewVault(cfg VaultConfig) *Vault {
	return &Vault{
		ledger:       cfg.Ledger,
		custody:      cfg.Custody,
		admin:        cfg.Admin,
		chainID:      cfg.ChainID,
		home:         cfg.Home,
		sender:       cfg.Sender,
		emitter:      cfg.Emitter,
		requirements: make(map[ids.ID]*payload.IntentRequirements),
		escrows:      make(map[ids.ID]*Escrow),
	}
}

// RecordRequirements stores the requirements for an intent id. A replay of
// the same message is a no-op; requirements are never overwritten once an
// escrow exists for them.
func (v *Vault) RecordRequirements(req *payload.IntentRequirements) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.requirements[req.IntentID]; ok {
		return nil
	}
	v.requirements[req.IntentID] = req
	return nil
}

// Requirements returns the recorded requirements for an intent id.
func (v *Vault) Requirements(id ids.ID) (*payload.IntentRequirements, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	req, ok := v.requirements[id]
	return req, ok
}

// Create funds the escrow for an intent id with the requester's deposit. The
// deposit must match the recorded requirements exactly; a second create for
// the same intent id fails. The escrow commits before the confirmation is
// handed to the relay: if the send fails the escrow is still returned
// alongside the error, and the confirmation can be re-emitted with
// ResendConfirmation.
func (v *Vault) Create(requester, token intents.Address, intentID ids.ID, amount uint64) (*Escrow, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	req, ok := v.requirements[intentID]
	if !ok {
		return nil, fmt.Errorf("%w: intent %s", intents.ErrNoRequirements, intentID)
	}
	if _, ok := v.escrows[intentID]; ok {
		return nil, intents.ErrAlreadyCreated
	}
	if requester != req.Requester {
		return nil, fmt.Errorf("%w: deposit by %s, required from %s", intents.ErrRequesterMismatch, requester, req.Requester)
	}
	if token != req.Token {
		return nil, fmt.Errorf("%w: deposited %s, required %s", intents.ErrTokenMismatch, token, req.Token)
	}
	if amount != req.AmountRequired {
		return nil, fmt.Errorf("%w: deposited %d, required %d", intents.ErrAmountMismatch, amount, req.AmountRequired)
	}

	deposit := intents.NewResource(token, amount)
	if err := v.ledger.Transfer(requester, v.custody, deposit); err != nil {
		return nil, err
	}

	esc := &Escrow{
		IntentID:  intentID,
		EscrowID:  v.nextID(intentID, requester),
		Requester: requester,
		Token:     token,
		Amount:    amount,
		Solver:    req.Solver,
		Expiry:    req.Expiry,
	}
	v.escrows[intentID] = esc

	if v.emitter != nil {
		v.emitter.Emit(intents.EscrowCreatedEvent{
			Intent:    intentID,
			Escrow:    esc.EscrowID,
			Requester: requester,
			Amount:    amount,
		})
	}
	if v.sender != nil {
		if err := v.sender.SendEscrowConfirmation(v.home, confirmationOf(esc)); err != nil {
			return esc, fmt.Errorf("escrow held but confirmation not sent: %w", err)
		}
	}
	return esc, nil
}

// ResendConfirmation re-emits the escrow confirmation for an intent id from
// the recorded escrow. The issuing chain records confirmations idempotently,
// so resending after a relay failure is always safe.
func (v *Vault) ResendConfirmation(intentID ids.ID) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	esc, ok := v.escrows[intentID]
	if !ok {
		return fmt.Errorf("%w: intent %s", intents.ErrUnknownEscrow, intentID)
	}
	if v.sender == nil {
		return nil
	}
	return v.sender.SendEscrowConfirmation(v.home, confirmationOf(esc))
}

func confirmationOf(esc *Escrow) *payload.EscrowConfirmation {
	return &payload.EscrowConfirmation{
		IntentID:       esc.IntentID,
		EscrowID:       esc.EscrowID,
		AmountEscrowed: esc.Amount,
		Token:          esc.Token,
		Creator:        esc.Requester,
	}
}

// Get returns the escrow for an intent id.
func (v *Vault) Get(intentID ids.ID) (*Escrow, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	esc, ok := v.escrows[intentID]
	return esc, ok
}

// Fulfill releases the escrow to the solver named in the proof. A proof
// arriving after local expiry still releases: the settling chain's record is
// authoritative over this escrow's clock. A replayed proof fails on the
// released flag.
func (v *Vault) Fulfill(proof *payload.FulfillmentProof) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	esc, ok := v.escrows[proof.IntentID]
	if !ok {
		return fmt.Errorf("%w: intent %s", intents.ErrUnknownEscrow, proof.IntentID)
	}
	if esc.Released {
		return intents.ErrAlreadyReleased
	}
	if !esc.Solver.IsZero() && proof.Solver != esc.Solver {
		return fmt.Errorf("%w: proof by %s, reserved for %s", intents.ErrUnauthorizedSolver, proof.Solver, esc.Solver)
	}
	if proof.AmountFulfilled < esc.Amount {
		return fmt.Errorf("%w: fulfilled %d, required %d", intents.ErrAmountMismatch, proof.AmountFulfilled, esc.Amount)
	}

	payout := intents.NewResource(esc.Token, esc.Amount)
	if err := v.ledger.Transfer(v.custody, proof.Solver, payout); err != nil {
		return err
	}
	esc.Fulfilled = true
	esc.Released = true

	if v.emitter != nil {
		v.emitter.Emit(intents.EscrowReleasedEvent{
			Intent: esc.IntentID,
			Solver: proof.Solver,
			Amount: esc.Amount,
		})
	}
	return nil
}

// Cancel refunds an expired, unfulfilled escrow to its original requester.
// Only the admin may cancel, and the funds never go to the admin.
func (v *Vault) Cancel(caller intents.Address, intentID ids.ID, now uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if caller != v.admin {
		return intents.ErrUnauthorized
	}
	esc, ok := v.escrows[intentID]
	if !ok {
		return fmt.Errorf("%w: intent %s", intents.ErrUnknownEscrow, intentID)
	}
	if esc.Released {
		return intents.ErrAlreadyReleased
	}
	if now <= esc.Expiry {
		return intents.ErrNotExpired
	}

	refund := intents.NewResource(esc.Token, esc.Amount)
	if err := v.ledger.Transfer(v.custody, esc.Requester, refund); err != nil {
		return err
	}
	esc.Cancelled = true
	esc.Released = true

	if v.emitter != nil {
		v.emitter.Emit(intents.EscrowCancelledEvent{
			Intent:    esc.IntentID,
			Requester: esc.Requester,
			Amount:    esc.Amount,
		})
	}
	return nil
}

func (v *Vault) nextID(intentID ids.ID, requester intents.Address) ids.ID {
	v.nonce++
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v.nonce)
	digest := intents.ComputeHash256(v.chainID[:], intentID[:], requester[:], buf[:])
	var id ids.ID
	copy(id[:], digest)
	return id
}
