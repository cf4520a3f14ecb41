// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package intents

import (
	"crypto/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

// generateTestID creates a random ID for testing
func generateTestID() ids.ID {
	var id ids.ID
	rand.Read(id[:])
	return id
}

// generateTestAddress creates a random address for testing
func generateTestAddress() Address {
	var a Address
	rand.Read(a[:])
	return a
}

func TestLedgerTransfer(t *testing.T) {
	require := require.New(t)

	ledger := NewLedger()
	alice := generateTestAddress()
	bob := generateTestAddress()
	token := generateTestAddress()

	ledger.Mint(alice, NewResource(token, 100))
	require.Equal(uint64(100), ledger.Balance(alice, token).Uint64())
	require.True(ledger.Balance(bob, token).IsZero())

	require.NoError(ledger.Transfer(alice, bob, NewResource(token, 30)))
	require.Equal(uint64(70), ledger.Balance(alice, token).Uint64())
	require.Equal(uint64(30), ledger.Balance(bob, token).Uint64())

	err := ledger.Transfer(alice, bob, NewResource(token, 71))
	require.ErrorIs(err, ErrInsufficientBalance)
	require.Equal(uint64(70), ledger.Balance(alice, token).Uint64())

	otherToken := generateTestAddress()
	err = ledger.Transfer(alice, bob, NewResource(otherToken, 1))
	require.ErrorIs(err, ErrInsufficientBalance)
}

func TestLedgerZeroTransferIsNoOp(t *testing.T) {
	require := require.New(t)

	ledger := NewLedger()
	from := generateTestAddress()
	to := generateTestAddress()
	token := generateTestAddress()

	// Zero-lock intents settle without touching balances, even for accounts
	// the ledger has never seen.
	require.NoError(ledger.Transfer(from, to, NewResource(token, 0)))
	require.NoError(ledger.Transfer(from, to, Resource{Token: token}))
	require.True(ledger.Balance(to, token).IsZero())
}

func TestResourceWireAmount(t *testing.T) {
	require := require.New(t)

	token := generateTestAddress()

	amount, err := NewResource(token, 12345).WireAmount()
	require.NoError(err)
	require.Equal(uint64(12345), amount)

	amount, err = (Resource{Token: token}).WireAmount()
	require.NoError(err)
	require.Zero(amount)

	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 64)
	_, err = (Resource{Token: token, Amount: huge}).WireAmount()
	require.ErrorIs(err, ErrAmountOverflow)
}
