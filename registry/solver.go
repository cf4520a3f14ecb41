// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry holds the two keyed stores the settlement core discovers
// through: the solver registry and the active-intent registry.
package registry

import (
	"fmt"
	"sync"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/intents"
)

// SolverRecord is a solver's self-registered identity: the Ed25519 key its
// reservation signatures verify against and its addresses on connected
// chains.
type SolverRecord struct {
	PublicKey        []byte
	EVMAddress       common.Address
	ConnectedAddress intents.Address
}

// SolverRegistry maps solver addresses to their records. Registration is
// permissionless; a record is only ever mutated by its registrant.
type SolverRegistry struct {
	mu      sync.RWMutex
	solvers map[intents.Address]SolverRecord
}

// NewSolverRegistry returns an empty solver registry.
func NewSolverRegistry() *SolverRegistry {
	return &SolverRegistry{
		solvers: make(map[intents.Address]SolverRecord),
	}
}

// Register records or updates the caller's own solver record. A caller may
// not touch another solver's entry.
func (r *SolverRegistry) Register(caller, solver intents.Address, record SolverRecord) error {
	if caller != solver {
		return fmt.Errorf("%w: only the registrant may register", intents.ErrUnauthorized)
	}
	if len(record.PublicKey) == 0 {
		return fmt.Errorf("%w: missing public key", intents.ErrInvalidSignature)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.solvers[solver] = record
	return nil
}

// Get returns the record registered for solver.
func (r *SolverRegistry) Get(solver intents.Address) (SolverRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.solvers[solver]
	return record, ok
}

// SolverKey implements intents.KeyResolver: reservation verification looks
// the signing key up here so it never travels with the call.
func (r *SolverRegistry) SolverKey(solver intents.Address) ([]byte, error) {
	record, ok := r.Get(solver)
	if !ok {
		return nil, fmt.Errorf("%w: %s", intents.ErrUnknownSolver, solver)
	}
	return record.PublicKey, nil
}
