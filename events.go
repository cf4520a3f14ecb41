// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package intents

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
)

// Event is an outbound notification consumed by the off-chain monitoring and
// coordination service. Every event carries the intent id it concerns so the
// service can key discovery and negotiation on it.
type Event interface {
	IntentID() ids.ID
}

// LimitOrderEvent announces a newly created intent.
type LimitOrderEvent struct {
	Intent    ids.ID
	Issuer    Address
	Offered   Resource
	Desired   Resource
	Expiry    uint64
	Revocable bool
}

func (e LimitOrderEvent) IntentID() ids.ID { return e.Intent }

// OracleLimitOrderEvent announces a newly created oracle-guarded intent.
type OracleLimitOrderEvent struct {
	Intent      ids.ID
	Issuer      Address
	Offered     Resource
	OracleKey   []byte
	MinReported uint64
	Expiry      uint64
}

func (e OracleLimitOrderEvent) IntentID() ids.ID { return e.Intent }

// LimitOrderFulfillmentEvent announces a completed session.
type LimitOrderFulfillmentEvent struct {
	Intent ids.ID
	Solver Address
	Amount *uint256.Int
}

func (e LimitOrderFulfillmentEvent) IntentID() ids.ID { return e.Intent }

// EscrowCreatedEvent announces a funded escrow on the non-issuing chain.
type EscrowCreatedEvent struct {
	Intent    ids.ID
	Escrow    ids.ID
	Requester Address
	Amount    uint64
}

func (e EscrowCreatedEvent) IntentID() ids.ID { return e.Intent }

// EscrowReleasedEvent announces an escrow payout to the solver.
type EscrowReleasedEvent struct {
	Intent ids.ID
	Solver Address
	Amount uint64
}

func (e EscrowReleasedEvent) IntentID() ids.ID { return e.Intent }

// EscrowCancelledEvent announces an expired escrow refunded to the requester.
type EscrowCancelledEvent struct {
	Intent    ids.ID
	Requester Address
	Amount    uint64
}

func (e EscrowCancelledEvent) IntentID() ids.ID { return e.Intent }

// Emitter receives events as state transitions commit.
type Emitter interface {
	Emit(Event)
}

// MemoryEmitter buffers events in memory for tests and local tooling.
type MemoryEmitter struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryEmitter returns an empty in-memory emitter.
func NewMemoryEmitter() *MemoryEmitter {
	return &MemoryEmitter{}
}

// Emit appends the event.
func (m *MemoryEmitter) Emit(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

// Events returns a snapshot of everything emitted so far.
func (m *MemoryEmitter) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// ByIntent returns the events emitted for one intent id.
func (m *MemoryEmitter) ByIntent(id ids.ID) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.events {
		if e.IntentID() == id {
			out = append(out, e)
		}
	}
	return out
}
