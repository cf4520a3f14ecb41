// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/intents"
)

func generateTestAddress() intents.Address {
	var a intents.Address
	rand.Read(a[:])
	return a
}

func TestSolverSelfRegistration(t *testing.T) {
	require := require.New(t)

	reg := NewSolverRegistry()
	solver := generateTestAddress()
	other := generateTestAddress()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(err)
	record := SolverRecord{
		PublicKey:        pub,
		ConnectedAddress: generateTestAddress(),
	}

	// Only the registrant may write its own entry.
	err = reg.Register(other, solver, record)
	require.ErrorIs(err, intents.ErrUnauthorized)
	_, ok := reg.Get(solver)
	require.False(ok)

	require.NoError(reg.Register(solver, solver, record))
	got, ok := reg.Get(solver)
	require.True(ok)
	require.Equal(record.ConnectedAddress, got.ConnectedAddress)

	// Re-registration by the same solver replaces the record.
	updated := record
	updated.ConnectedAddress = generateTestAddress()
	require.NoError(reg.Register(solver, solver, updated))
	got, _ = reg.Get(solver)
	require.Equal(updated.ConnectedAddress, got.ConnectedAddress)
}

func TestSolverRegistrationRequiresKey(t *testing.T) {
	require := require.New(t)

	reg := NewSolverRegistry()
	solver := generateTestAddress()
	err := reg.Register(solver, solver, SolverRecord{})
	require.ErrorIs(err, intents.ErrInvalidSignature)
}

func TestSolverKeyResolution(t *testing.T) {
	require := require.New(t)

	reg := NewSolverRegistry()
	solver := generateTestAddress()

	_, err := reg.SolverKey(solver)
	require.ErrorIs(err, intents.ErrUnknownSolver)

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(err)
	require.NoError(reg.Register(solver, solver, SolverRecord{PublicKey: pub}))

	key, err := reg.SolverKey(solver)
	require.NoError(err)
	require.Equal([]byte(pub), key)
}

func TestActiveIntents(t *testing.T) {
	require := require.New(t)

	active, recorder := NewActiveIntents()
	id := ids.GenerateTestID()
	requester := generateTestAddress()

	recorder.Record(id, requester, 1000)
	entry, ok := active.Get(id)
	require.True(ok)
	require.Equal(requester, entry.Requester)
	require.Equal(1, active.Len())

	recorder.Remove(id)
	_, ok = active.Get(id)
	require.False(ok)
	require.Zero(active.Len())
}

func TestCleanupExpiryGate(t *testing.T) {
	require := require.New(t)

	active, recorder := NewActiveIntents()
	id := ids.GenerateTestID()
	recorder.Record(id, generateTestAddress(), 1000)

	// A live entry cannot be griefed out of discovery, not even at the
	// expiry instant.
	require.ErrorIs(active.Cleanup(id, 500), intents.ErrNotExpired)
	require.ErrorIs(active.Cleanup(id, 1000), intents.ErrNotExpired)
	require.Equal(1, active.Len())

	require.NoError(active.Cleanup(id, 1001))
	require.Zero(active.Len())

	require.ErrorIs(active.Cleanup(id, 1001), intents.ErrUnknownIntent)
	require.ErrorIs(active.Cleanup(ids.GenerateTestID(), 1001), intents.ErrUnknownIntent)
}
