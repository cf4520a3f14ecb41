// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package intents

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/ids"

	"github.com/luxfi/intents/sigauth"
)

// WitnessKind names the verification a session completion must present.
type WitnessKind uint8

const (
	// WitnessPayment requires a sufficient counter-payment on this chain.
	WitnessPayment WitnessKind = iota + 1
	// WitnessOracle requires an oracle approval signature over the intent id.
	WitnessOracle
	// WitnessEscrowConfirmation requires a recorded EscrowConfirmation from
	// the remote chain.
	WitnessEscrowConfirmation
	// WitnessFulfillmentProof requires proof that the remote leg settled,
	// either an approval signature or a relayed FulfillmentProof message.
	WitnessFulfillmentProof
)

// Conditions are the trade terms an intent is locked under.
type Conditions struct {
	DesiredToken  Address
	DesiredAmount *uint256.Int
	Witness       WitnessKind

	// Oracle gating, used when Witness is WitnessOracle or as the signature
	// path for WitnessFulfillmentProof.
	OracleScheme sigauth.Scheme
	OracleKey    []byte
	MinReported  uint64
}

// RemoteLeg describes the counterparty side of a cross-chain intent: which
// chain it settles on and what must be deposited or delivered there.
type RemoteLeg struct {
	ChainID ids.ID
	Address Address
	Token   Address
	Amount  uint64
}

// Reservation binds an intent to one specific solver. It is attached at
// creation time only, after the solver's signature over the trade terms has
// verified, and is immutable afterwards.
type Reservation struct {
	Solver Address
}

type intentState uint8

const (
	stateActive intentState = iota
	stateStarted
	stateCompleted
	stateRevoked
	stateCancelled
)

// Intent locks a resource under stated trade terms and an expiry. It is owned
// exclusively by the Store until consumed: once by a completed session, by
// revocation, or by an expiry-gated cancellation.
type Intent struct {
	ID         ids.ID
	Issuer     Address
	Locked     Resource
	Conditions Conditions
	Expiry     uint64

	// Revocable is immutable after creation. Cross-chain intents are always
	// created with Revocable == false: a revocable leg would let one side
	// unwind after the counterparty already committed on the other chain.
	Revocable bool

	Reservation *Reservation

	// CrossChainID is the id the paired escrow on the remote chain is keyed
	// by. Nil for same-chain intents.
	CrossChainID *ids.ID
	Remote       *RemoteLeg

	state intentState
}

// Expired reports whether the intent's expiry has passed at now.
func (i *Intent) Expired(now uint64) bool {
	return now > i.Expiry
}

// CrossChain reports whether the intent settles across chains.
func (i *Intent) CrossChain() bool {
	return i.CrossChainID != nil || i.Remote != nil
}

// Session is the linear token issued when an intent is started. The locked
// resource has already been paid to the starter; the session carries the
// obligation to complete. Go has no move semantics, so linearity is enforced
// twice: the consumed flag here, set by the Store when a completion commits,
// and the one-shot intent state in the Store. Both checks are load-bearing.
type Session struct {
	intent   *Intent
	holder   Address
	consumed bool
}

// Intent returns the id of the intent this session was started from.
func (s *Session) Intent() ids.ID {
	return s.intent.ID
}

// Holder returns the address the session was issued to.
func (s *Session) Holder() Address {
	return s.holder
}
