// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package intents

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/intents/sigauth"
)

func TestOracleFulfillment(t *testing.T) {
	require := require.New(t)
	f := newStoreFixture(t)
	f.ledger.Mint(f.issuer, NewResource(f.tokenR, 50))

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(err)

	p := f.exchangeParams()
	p.Conditions = Conditions{
		DesiredToken: f.tokenD,
		Witness:      WitnessOracle,
		OracleScheme: sigauth.SchemeEd25519,
		OracleKey:    pub,
		MinReported:  15,
	}
	intent, err := f.store.Create(p, 10)
	require.NoError(err)

	reg := sigauth.DefaultRegistry()
	approval := ed25519.Sign(priv, intent.ID[:])

	// Reported value above the minimum with a valid signature passes.
	witness, err := VerifyOracleApproval(intent.Conditions, reg, intent.ID, approval, 20)
	require.NoError(err)
	require.Equal(WitnessOracle, witness.Kind())

	_, session, err := f.store.Start(intent.ID, f.solver, 20)
	require.NoError(err)
	require.NoError(f.store.Finish(session, Resource{Token: f.tokenD}, witness))
	require.Equal(uint64(50), f.ledger.Balance(f.solver, f.tokenR).Uint64())
}

func TestOracleApprovalRejections(t *testing.T) {
	require := require.New(t)

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(err)
	_, wrongPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(err)

	c := Conditions{
		Witness:      WitnessOracle,
		OracleScheme: sigauth.SchemeEd25519,
		OracleKey:    pub,
		MinReported:  15,
	}
	reg := sigauth.DefaultRegistry()
	intentID := generateTestID()
	approval := ed25519.Sign(priv, intentID[:])

	// Signature by the wrong key.
	forged := ed25519.Sign(wrongPriv, intentID[:])
	_, err = VerifyOracleApproval(c, reg, intentID, forged, 20)
	require.ErrorIs(err, ErrInvalidSignature)

	// Reported value below the minimum, even with a valid signature.
	_, err = VerifyOracleApproval(c, reg, intentID, approval, 10)
	require.ErrorIs(err, ErrBelowMinReported)

	// Omitted signature.
	_, err = VerifyOracleApproval(c, reg, intentID, nil, 20)
	require.ErrorIs(err, ErrSignatureRequired)

	// Signature over a different intent id.
	otherID := generateTestID()
	_, err = VerifyOracleApproval(c, reg, otherID, approval, 20)
	require.ErrorIs(err, ErrInvalidSignature)

	// Wrong condition kind.
	_, err = VerifyOracleApproval(Conditions{Witness: WitnessPayment}, reg, intentID, approval, 20)
	require.ErrorIs(err, ErrWitnessTypeMismatch)
}

func TestOracleIntentRequiresSignature(t *testing.T) {
	require := require.New(t)
	f := newStoreFixture(t)
	f.ledger.Mint(f.issuer, NewResource(f.tokenR, 50))

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(err)

	p := f.exchangeParams()
	p.Conditions = Conditions{
		DesiredToken: f.tokenD,
		Witness:      WitnessOracle,
		OracleScheme: sigauth.SchemeEd25519,
		OracleKey:    pub,
		MinReported:  15,
	}
	intent, err := f.store.Create(p, 10)
	require.NoError(err)

	_, session, err := f.store.Start(intent.ID, f.solver, 20)
	require.NoError(err)

	// Completing without any witness reports the missing signature, not a
	// generic mismatch.
	err = f.store.Finish(session, Resource{Token: f.tokenD}, Witness{})
	require.ErrorIs(err, ErrSignatureRequired)
}

func TestVerifyPayment(t *testing.T) {
	require := require.New(t)
	tokenD := generateTestAddress()

	c := Conditions{
		DesiredToken:  tokenD,
		DesiredAmount: uint256.NewInt(25),
		Witness:       WitnessPayment,
	}

	witness, err := VerifyPayment(c, NewResource(tokenD, 25))
	require.NoError(err)
	require.Equal(WitnessPayment, witness.Kind())

	// Overpayment is acceptable.
	_, err = VerifyPayment(c, NewResource(tokenD, 26))
	require.NoError(err)

	_, err = VerifyPayment(c, NewResource(tokenD, 24))
	require.ErrorIs(err, ErrAmountNotMet)

	_, err = VerifyPayment(c, NewResource(generateTestAddress(), 25))
	require.ErrorIs(err, ErrTokenMismatch)

	_, err = VerifyPayment(Conditions{Witness: WitnessOracle}, NewResource(tokenD, 25))
	require.ErrorIs(err, ErrWitnessTypeMismatch)
}

func TestVerifyFulfillmentProof(t *testing.T) {
	require := require.New(t)
	tokenD := generateTestAddress()
	intentID := generateTestID()

	c := Conditions{
		DesiredToken:  tokenD,
		DesiredAmount: uint256.NewInt(100),
		Witness:       WitnessFulfillmentProof,
	}

	witness, err := VerifyFulfillmentProof(c, intentID, intentID, 100)
	require.NoError(err)
	require.Equal(WitnessFulfillmentProof, witness.Kind())

	_, err = VerifyFulfillmentProof(c, intentID, intentID, 99)
	require.ErrorIs(err, ErrAmountNotMet)

	_, err = VerifyFulfillmentProof(c, intentID, generateTestID(), 100)
	require.ErrorIs(err, ErrUnknownIntent)
}

func TestVerifyEscrowConfirmation(t *testing.T) {
	require := require.New(t)
	intentID := generateTestID()
	expected := RemoteLeg{
		ChainID: generateTestID(),
		Token:   generateTestAddress(),
		Amount:  1000,
	}
	c := Conditions{Witness: WitnessEscrowConfirmation}

	witness, err := VerifyEscrowConfirmation(c, expected, intentID, intentID, expected.Token, 1000)
	require.NoError(err)
	require.Equal(WitnessEscrowConfirmation, witness.Kind())

	_, err = VerifyEscrowConfirmation(c, expected, intentID, intentID, expected.Token, 999)
	require.ErrorIs(err, ErrAmountNotMet)

	_, err = VerifyEscrowConfirmation(c, expected, intentID, intentID, generateTestAddress(), 1000)
	require.ErrorIs(err, ErrTokenMismatch)

	_, err = VerifyEscrowConfirmation(c, expected, intentID, generateTestID(), expected.Token, 1000)
	require.ErrorIs(err, ErrUnknownIntent)
}

// The zero Witness must match no condition kind.
func TestZeroWitnessMatchesNothing(t *testing.T) {
	require := require.New(t)
	var w Witness
	require.NotEqual(WitnessPayment, w.Kind())
	require.NotEqual(WitnessOracle, w.Kind())
	require.NotEqual(WitnessEscrowConfirmation, w.Kind())
	require.NotEqual(WitnessFulfillmentProof, w.Kind())
}
