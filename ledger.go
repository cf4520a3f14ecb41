// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package intents

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"
)

// Resource is an amount of an opaque fungible asset. Amounts are 256-bit
// because EVM-side token balances are; the wire protocol narrows them to u64
// at the boundary (see WireAmount).
type Resource struct {
	Token  Address
	Amount *uint256.Int
}

// NewResource returns a resource holding amount units of token.
func NewResource(token Address, amount uint64) Resource {
	return Resource{Token: token, Amount: uint256.NewInt(amount)}
}

// IsZero reports whether the resource carries no value.
func (r Resource) IsZero() bool {
	return r.Amount == nil || r.Amount.IsZero()
}

// WireAmount narrows the resource amount to the u64 wire representation.
func (r Resource) WireAmount() (uint64, error) {
	if r.Amount == nil {
		return 0, nil
	}
	if !r.Amount.IsUint64() {
		return 0, fmt.Errorf("%w: %s", ErrAmountOverflow, r.Amount)
	}
	return r.Amount.Uint64(), nil
}

// Ledger is an in-memory account book with balance semantics. Each on-chain
// call is a single atomic transaction, so a coarse mutex is sufficient.
type Ledger struct {
	mu       sync.Mutex
	balances map[Address]map[Address]*uint256.Int // account -> token -> amount
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[Address]map[Address]*uint256.Int),
	}
}

// Mint credits account with the resource out of thin air. Test funding only;
// production deployments sit on the chain's native token module instead.
func (l *Ledger) Mint(account Address, r Resource) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(account, r)
}

// Balance returns the account's balance of token.
func (l *Ledger) Balance(account, token Address) *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.balances[account][token]; ok {
		return new(uint256.Int).Set(b)
	}
	return uint256.NewInt(0)
}

// Transfer moves r from one account to another. A zero-value resource is a
// no-op so zero-lock intents settle without touching balances.
func (l *Ledger) Transfer(from, to Address, r Resource) error {
	if r.IsZero() {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	have, ok := l.balances[from][r.Token]
	if !ok || have.Lt(r.Amount) {
		return fmt.Errorf("%w: account %s token %s", ErrInsufficientBalance, from, r.Token)
	}
	have.Sub(have, r.Amount)
	l.credit(to, r)
	return nil
}

func (l *Ledger) credit(account Address, r Resource) {
	if r.IsZero() {
		return
	}
	tokens, ok := l.balances[account]
	if !ok {
		tokens = make(map[Address]*uint256.Int)
		l.balances[account] = tokens
	}
	have, ok := tokens[r.Token]
	if !ok {
		have = uint256.NewInt(0)
		tokens[r.Token] = have
	}
	have.Add(have, r.Amount)
}
