// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package escrow

import (
	"crypto/rand"
	"errors"
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/intents"
	"github.com/luxfi/intents/payload"
)

func generateTestID() ids.ID {
	var id ids.ID
	rand.Read(id[:])
	return id
}

func generateTestAddress() intents.Address {
	var a intents.Address
	rand.Read(a[:])
	return a
}

// collectSender buffers confirmations instead of relaying them. With
// failNext set the next send fails once, like a relay outage.
type collectSender struct {
	failNext      bool
	confirmations []*payload.EscrowConfirmation
}

func (s *collectSender) SendEscrowConfirmation(_ ids.ID, conf *payload.EscrowConfirmation) error {
	if s.failNext {
		s.failNext = false
		return errors.New("relay unavailable")
	}
	s.confirmations = append(s.confirmations, conf)
	return nil
}

type vaultFixture struct {
	ledger    *intents.Ledger
	vault     *Vault
	sender    *collectSender
	custody   intents.Address
	admin     intents.Address
	requester intents.Address
	solver    intents.Address
	token     intents.Address
	intentID  ids.ID
}

func newVaultFixture(t *testing.T) *vaultFixture {
	t.Helper()
	f := &vaultFixture{
		ledger:    intents.NewLedger(),
		sender:    &collectSender{},
		custody:   generateTestAddress(),
		admin:     generateTestAddress(),
		requester: generateTestAddress(),
		solver:    generateTestAddress(),
		token:     generateTestAddress(),
		intentID:  generateTestID(),
	}
	f.vault = NewVault(VaultConfig{
		Ledger:  f.ledger,
		Custody: f.custody,
		Admin:   f.admin,
		ChainID: generateTestID(),
		Home:    generateTestID(),
		Sender:  f.sender,
		Emitter: intents.NewMemoryEmitter(),
	})
	return f
}

func (f *vaultFixture) requirements(amount uint64) *payload.IntentRequirements {
	return &payload.IntentRequirements{
		IntentID:       f.intentID,
		Requester:      f.requester,
		AmountRequired: amount,
		Token:          f.token,
		Solver:         intents.ZeroAddress,
		Expiry:         1000,
	}
}

func TestEscrowLifecycle(t *testing.T) {
	require := require.New(t)
	f := newVaultFixture(t)
	f.ledger.Mint(f.requester, intents.NewResource(f.token, 1_000_000))

	require.NoError(f.vault.RecordRequirements(f.requirements(1_000_000)))

	// A replayed requirements message changes nothing.
	require.NoError(f.vault.RecordRequirements(f.requirements(1_000_000)))

	esc, err := f.vault.Create(f.requester, f.token, f.intentID, 1_000_000)
	require.NoError(err)
	require.Equal(uint64(1_000_000), f.ledger.Balance(f.custody, f.token).Uint64())
	require.True(f.ledger.Balance(f.requester, f.token).IsZero())

	// The confirmation went back to the issuing chain.
	require.Len(f.sender.confirmations, 1)
	conf := f.sender.confirmations[0]
	require.Equal(f.intentID, conf.IntentID)
	require.Equal(esc.EscrowID, conf.EscrowID)
	require.Equal(uint64(1_000_000), conf.AmountEscrowed)

	// A second deposit for the same intent is rejected.
	f.ledger.Mint(f.requester, intents.NewResource(f.token, 1_000_000))
	_, err = f.vault.Create(f.requester, f.token, f.intentID, 1_000_000)
	require.ErrorIs(err, intents.ErrAlreadyCreated)

	// The proof releases custody to the solver.
	proof := &payload.FulfillmentProof{
		IntentID:        f.intentID,
		Solver:          f.solver,
		AmountFulfilled: 1_000_000,
		Timestamp:       500,
	}
	require.NoError(f.vault.Fulfill(proof))
	require.Equal(uint64(1_000_000), f.ledger.Balance(f.solver, f.token).Uint64())
	require.True(f.ledger.Balance(f.custody, f.token).IsZero())

	// Release is one-shot against both paths.
	require.ErrorIs(f.vault.Fulfill(proof), intents.ErrAlreadyReleased)
	require.ErrorIs(f.vault.Cancel(f.admin, f.intentID, 2000), intents.ErrAlreadyReleased)
}

func TestEscrowCreateValidation(t *testing.T) {
	require := require.New(t)
	f := newVaultFixture(t)
	f.ledger.Mint(f.requester, intents.NewResource(f.token, 2_000_000))

	// No requirements recorded yet.
	_, err := f.vault.Create(f.requester, f.token, f.intentID, 1_000_000)
	require.ErrorIs(err, intents.ErrNoRequirements)

	require.NoError(f.vault.RecordRequirements(f.requirements(1_000_000)))

	// Wrong depositor.
	stranger := generateTestAddress()
	_, err = f.vault.Create(stranger, f.token, f.intentID, 1_000_000)
	require.ErrorIs(err, intents.ErrRequesterMismatch)

	// Wrong token.
	_, err = f.vault.Create(f.requester, generateTestAddress(), f.intentID, 1_000_000)
	require.ErrorIs(err, intents.ErrTokenMismatch)

	// The amount must match exactly; over-deposits are rejected too.
	_, err = f.vault.Create(f.requester, f.token, f.intentID, 999_999)
	require.ErrorIs(err, intents.ErrAmountMismatch)
	_, err = f.vault.Create(f.requester, f.token, f.intentID, 1_000_001)
	require.ErrorIs(err, intents.ErrAmountMismatch)

	// Nothing moved and no confirmation was sent.
	require.Equal(uint64(2_000_000), f.ledger.Balance(f.requester, f.token).Uint64())
	require.Empty(f.sender.confirmations)
}

func TestEscrowReservedSolver(t *testing.T) {
	require := require.New(t)
	f := newVaultFixture(t)
	f.ledger.Mint(f.requester, intents.NewResource(f.token, 100))

	req := f.requirements(100)
	req.Solver = f.solver
	require.NoError(f.vault.RecordRequirements(req))
	_, err := f.vault.Create(f.requester, f.token, f.intentID, 100)
	require.NoError(err)

	// A proof naming a different solver cannot claim a reserved escrow.
	imposter := generateTestAddress()
	err = f.vault.Fulfill(&payload.FulfillmentProof{
		IntentID:        f.intentID,
		Solver:          imposter,
		AmountFulfilled: 100,
	})
	require.ErrorIs(err, intents.ErrUnauthorizedSolver)

	require.NoError(f.vault.Fulfill(&payload.FulfillmentProof{
		IntentID:        f.intentID,
		Solver:          f.solver,
		AmountFulfilled: 100,
	}))
	require.Equal(uint64(100), f.ledger.Balance(f.solver, f.token).Uint64())
}

func TestEscrowFulfillValidation(t *testing.T) {
	require := require.New(t)
	f := newVaultFixture(t)
	f.ledger.Mint(f.requester, intents.NewResource(f.token, 100))

	err := f.vault.Fulfill(&payload.FulfillmentProof{IntentID: f.intentID})
	require.ErrorIs(err, intents.ErrUnknownEscrow)

	require.NoError(f.vault.RecordRequirements(f.requirements(100)))
	_, err = f.vault.Create(f.requester, f.token, f.intentID, 100)
	require.NoError(err)

	// Under-fulfillment does not release.
	err = f.vault.Fulfill(&payload.FulfillmentProof{
		IntentID:        f.intentID,
		Solver:          f.solver,
		AmountFulfilled: 99,
	})
	require.ErrorIs(err, intents.ErrAmountMismatch)
	require.Equal(uint64(100), f.ledger.Balance(f.custody, f.token).Uint64())
}

func TestEscrowExpiryCancel(t *testing.T) {
	require := require.New(t)
	f := newVaultFixture(t)
	f.ledger.Mint(f.requester, intents.NewResource(f.token, 100))

	require.NoError(f.vault.RecordRequirements(f.requirements(100)))
	_, err := f.vault.Create(f.requester, f.token, f.intentID, 100)
	require.NoError(err)

	// Not before expiry, and never by a non-admin.
	require.ErrorIs(f.vault.Cancel(f.admin, f.intentID, 1000), intents.ErrNotExpired)
	require.ErrorIs(f.vault.Cancel(f.requester, f.intentID, 2000), intents.ErrUnauthorized)

	require.NoError(f.vault.Cancel(f.admin, f.intentID, 1001))

	// The refund goes to the requester, not the admin who triggered it.
	require.Equal(uint64(100), f.ledger.Balance(f.requester, f.token).Uint64())
	require.True(f.ledger.Balance(f.admin, f.token).IsZero())
	require.True(f.ledger.Balance(f.custody, f.token).IsZero())

	require.ErrorIs(f.vault.Cancel(f.admin, f.intentID, 1002), intents.ErrAlreadyReleased)
	require.ErrorIs(f.vault.Cancel(f.admin, generateTestID(), 1002), intents.ErrUnknownEscrow)
}

func TestEscrowConfirmationResend(t *testing.T) {
	require := require.New(t)
	f := newVaultFixture(t)
	f.ledger.Mint(f.requester, intents.NewResource(f.token, 100))

	require.NoError(f.vault.RecordRequirements(f.requirements(100)))

	// The relay is down at creation time. The escrow still commits: the
	// deposit is in custody and the record exists.
	f.sender.failNext = true
	esc, err := f.vault.Create(f.requester, f.token, f.intentID, 100)
	require.Error(err)
	require.NotNil(esc)
	require.Equal(uint64(100), f.ledger.Balance(f.custody, f.token).Uint64())
	require.Empty(f.sender.confirmations)

	// The deposit must not be retried, only the confirmation.
	f.ledger.Mint(f.requester, intents.NewResource(f.token, 100))
	_, err = f.vault.Create(f.requester, f.token, f.intentID, 100)
	require.ErrorIs(err, intents.ErrAlreadyCreated)

	require.NoError(f.vault.ResendConfirmation(f.intentID))
	require.Len(f.sender.confirmations, 1)
	conf := f.sender.confirmations[0]
	require.Equal(f.intentID, conf.IntentID)
	require.Equal(esc.EscrowID, conf.EscrowID)
	require.Equal(uint64(100), conf.AmountEscrowed)

	require.ErrorIs(f.vault.ResendConfirmation(generateTestID()), intents.ErrUnknownEscrow)
}

// A fulfillment proof recorded on the settling chain before expiry may arrive
// here after it; the proof still wins over the local clock.
func TestLateProofBeatsExpiry(t *testing.T) {
	require := require.New(t)
	f := newVaultFixture(t)
	f.ledger.Mint(f.requester, intents.NewResource(f.token, 100))

	require.NoError(f.vault.RecordRequirements(f.requirements(100)))
	_, err := f.vault.Create(f.requester, f.token, f.intentID, 100)
	require.NoError(err)

	require.NoError(f.vault.Fulfill(&payload.FulfillmentProof{
		IntentID:        f.intentID,
		Solver:          f.solver,
		AmountFulfilled: 100,
		Timestamp:       5000,
	}))
	require.Equal(uint64(100), f.ledger.Balance(f.solver, f.token).Uint64())
}
