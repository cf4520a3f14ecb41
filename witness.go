// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package intents

import (
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/intents/sigauth"
)

// Witness is an unforgeable proof that a verification function ran. Its only
// constructor is unexported, so code outside this package cannot fabricate
// approval: completion accepts a Witness, never a boolean.
type Witness struct {
	kind WitnessKind
}

// Kind returns the verification the witness attests to. The zero Witness has
// kind 0 and matches no condition.
func (w Witness) Kind() WitnessKind {
	return w.kind
}

func newWitness(kind WitnessKind) Witness {
	return Witness{kind: kind}
}

// VerifyPayment checks a counter-payment against the intent's conditions and
// issues the payment witness.
func VerifyPayment(c Conditions, payment Resource) (Witness, error) {
	if c.Witness != WitnessPayment {
		return Witness{}, ErrWitnessTypeMismatch
	}
	if payment.Token != c.DesiredToken {
		return Witness{}, fmt.Errorf("%w: paid %s, want %s", ErrTokenMismatch, payment.Token, c.DesiredToken)
	}
	if payment.Amount == nil || payment.Amount.Lt(c.DesiredAmount) {
		return Witness{}, fmt.Errorf("%w: paid %v, want %v", ErrAmountNotMet, payment.Amount, c.DesiredAmount)
	}
	return newWitness(WitnessPayment), nil
}

// VerifyOracleApproval checks an oracle's approval signature over the raw
// intent id and issues the oracle witness. The signature itself is the
// approval; reported is the value the oracle observed and must clear the
// intent's minimum.
func VerifyOracleApproval(c Conditions, reg *sigauth.Registry, intentID ids.ID, signature []byte, reported uint64) (Witness, error) {
	if c.Witness != WitnessOracle {
		return Witness{}, ErrWitnessTypeMismatch
	}
	if err := verifyApprovalSignature(c, reg, intentID, signature); err != nil {
		return Witness{}, err
	}
	if reported < c.MinReported {
		return Witness{}, fmt.Errorf("%w: reported %d, minimum %d", ErrBelowMinReported, reported, c.MinReported)
	}
	return newWitness(WitnessOracle), nil
}

// VerifyProofSignature checks a validator's approval signature over the raw
// intent id and issues the fulfillment-proof witness. Unlike the oracle path
// no reported value is considered: the signature alone attests that the
// remote leg settled.
func VerifyProofSignature(c Conditions, reg *sigauth.Registry, intentID ids.ID, signature []byte) (Witness, error) {
	if c.Witness != WitnessFulfillmentProof {
		return Witness{}, ErrWitnessTypeMismatch
	}
	if err := verifyApprovalSignature(c, reg, intentID, signature); err != nil {
		return Witness{}, err
	}
	return newWitness(WitnessFulfillmentProof), nil
}

// VerifyFulfillmentProof checks the fields of a relayed FulfillmentProof
// message against the intent and issues the fulfillment-proof witness.
func VerifyFulfillmentProof(c Conditions, intentID, proofIntent ids.ID, amount uint64) (Witness, error) {
	if c.Witness != WitnessFulfillmentProof {
		return Witness{}, ErrWitnessTypeMismatch
	}
	if proofIntent != intentID {
		return Witness{}, fmt.Errorf("%w: proof for %s", ErrUnknownIntent, proofIntent)
	}
	required, err := Resource{Token: c.DesiredToken, Amount: c.DesiredAmount}.WireAmount()
	if err != nil {
		return Witness{}, err
	}
	if amount < required {
		return Witness{}, fmt.Errorf("%w: fulfilled %d, want %d", ErrAmountNotMet, amount, required)
	}
	return newWitness(WitnessFulfillmentProof), nil
}

// VerifyEscrowConfirmation checks the fields of a relayed EscrowConfirmation
// message against the remote leg the intent expects and issues the
// escrow-confirmation witness.
func VerifyEscrowConfirmation(c Conditions, expected RemoteLeg, intentID, confIntent ids.ID, token Address, amount uint64) (Witness, error) {
	if c.Witness != WitnessEscrowConfirmation {
		return Witness{}, ErrWitnessTypeMismatch
	}
	if confIntent != intentID {
		return Witness{}, fmt.Errorf("%w: confirmation for %s", ErrUnknownIntent, confIntent)
	}
	if token != expected.Token {
		return Witness{}, fmt.Errorf("%w: escrowed %s, want %s", ErrTokenMismatch, token, expected.Token)
	}
	if amount < expected.Amount {
		return Witness{}, fmt.Errorf("%w: escrowed %d, want %d", ErrAmountNotMet, amount, expected.Amount)
	}
	return newWitness(WitnessEscrowConfirmation), nil
}

func verifyApprovalSignature(c Conditions, reg *sigauth.Registry, intentID ids.ID, signature []byte) error {
	if len(signature) == 0 {
		return ErrSignatureRequired
	}
	verifier, err := reg.Verifier(c.OracleScheme)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}
	if err := verifier.Verify(intentID[:], c.OracleKey, signature); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}
	return nil
}
