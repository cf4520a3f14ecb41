// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package intents

import (
	"fmt"

	"github.com/luxfi/geth/rlp"
	"github.com/luxfi/ids"

	"github.com/luxfi/intents/sigauth"
)

// IntentTerms is the canonical form of a trade a solver signs to reserve an
// intent for itself. The RLP encoding of this struct is the signed message;
// field order is part of the wire contract.
type IntentTerms struct {
	SourceToken   Address
	SourceAmount  uint64
	SourceChainID ids.ID
	DesiredToken  Address
	DesiredAmount uint64
	DesiredChain  ids.ID
	Expiry        uint64
	Issuer        Address
	Solver        Address
}

// SigningBytes returns the canonical byte encoding a reservation signature
// covers.
func (t *IntentTerms) SigningBytes() ([]byte, error) {
	b, err := rlp.EncodeToBytes(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode intent terms: %w", err)
	}
	return b, nil
}

// KeyResolver resolves a solver address to its registered public key. The
// solver registry implements this; tests may supply a literal map.
type KeyResolver interface {
	SolverKey(solver Address) ([]byte, error)
}

// ReservationRequest carries a solver's claim on an intent at creation time.
// PublicKey may be supplied directly (offline path) or left nil to be
// resolved through the solver registry (production path), which avoids
// transmitting the key on every call.
type ReservationRequest struct {
	Solver    Address
	Signature []byte
	PublicKey []byte
}

// VerifyReservation checks the solver's signature over the canonical terms.
// Failure must abort the enclosing intent creation; no partial intent may
// exist with an unverified reservation.
func VerifyReservation(terms *IntentTerms, verifier sigauth.Verifier, publicKey, signature []byte) error {
	msg, err := terms.SigningBytes()
	if err != nil {
		return err
	}
	if len(signature) == 0 {
		return ErrSignatureRequired
	}
	if err := verifier.Verify(msg, publicKey, signature); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}
	return nil
}
