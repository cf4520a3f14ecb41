// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package flow

import (
	"fmt"
	"sync"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/math/set"

	"github.com/luxfi/intents"
	"github.com/luxfi/intents/escrow"
	"github.com/luxfi/intents/payload"
)

// DispatcherConfig wires a Dispatcher to the handlers on this chain. Any of
// Vault, Inflow and Outflow may be nil on a chain that does not play that
// role.
type DispatcherConfig struct {
	Log     log.Logger
	Vault   *escrow.Vault
	Inflow  *Inflow
	Outflow *Outflow
}

// dedupKey identifies a wire message for replay detection. The relay
// guarantees at-least-once, not exactly-once, so a successfully applied
// (intent, type) pair is dropped on every later delivery.
type dedupKey struct {
	intent ids.ID
	typ    payload.Type
}

// Dispatcher is the single entry point for inbound wire messages. It decodes
// the payload, drops replays, and routes each message type to the component
// that owns it.
type Dispatcher struct {
	mu      sync.Mutex
	log     log.Logger
	vault   *escrow.Vault
	inflow  *Inflow
	outflow *Outflow
	seen    set.Set[dedupKey]
}

// NewDispatcher returns a dispatcher with an empty replay set.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		log:     cfg.Log,
		vault:   cfg.Vault,
		inflow:  cfg.Inflow,
		outflow: cfg.Outflow,
		seen:    set.NewSet[dedupKey](16),
	}
}

// Deliver applies one inbound message. A payload that does not decode aborts
// the delivery; a replay of an already-applied message is dropped without
// touching any handler. Only successful applications are marked seen, so a
// delivery that failed is retryable.
func (d *Dispatcher) Deliver(srcChainID ids.ID, srcAddress intents.Address, raw []byte) error {
	msg, err := payload.Parse(raw)
	if err != nil {
		messagesFailed.WithLabelValues("unknown").Inc()
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	key := dedupKey{intent: intentOf(msg), typ: msg.Type()}
	d.mu.Lock()
	dup := d.seen.Contains(key)
	d.mu.Unlock()
	if dup {
		messagesDuplicate.WithLabelValues(msg.Type().String()).Inc()
		d.log.Debug("dropped duplicate message",
			log.Stringer("type", msg.Type()),
			log.Stringer("intentID", key.intent),
			log.Stringer("srcChainID", srcChainID),
		)
		return nil
	}

	if err := d.route(msg); err != nil {
		messagesFailed.WithLabelValues(msg.Type().String()).Inc()
		return err
	}

	d.mu.Lock()
	d.seen.Add(key)
	d.mu.Unlock()
	messagesDelivered.WithLabelValues(msg.Type().String()).Inc()
	d.log.Info("delivered message",
		log.Stringer("type", msg.Type()),
		log.Stringer("intentID", key.intent),
		log.Stringer("srcChainID", srcChainID),
		log.Stringer("srcAddress", srcAddress),
	)
	return nil
}

func (d *Dispatcher) route(msg payload.Message) error {
	switch m := msg.(type) {
	case *payload.IntentRequirements:
		if d.vault == nil {
			return fmt.Errorf("%w: no escrow vault on this chain", intents.ErrUnknownType)
		}
		return d.vault.RecordRequirements(m)
	case *payload.EscrowConfirmation:
		if d.inflow == nil {
			return fmt.Errorf("%w: no inflow handler on this chain", intents.ErrUnknownType)
		}
		return d.inflow.RecordEscrowConfirmation(m)
	case *payload.FulfillmentProof:
		// A proof either releases a local escrow or unlocks a local
		// outflow intent; the intent id says which.
		if d.outflow != nil && d.outflow.Knows(m.IntentID) {
			return d.outflow.ReceiveFulfillmentProof(m)
		}
		if d.vault == nil {
			return fmt.Errorf("%w: no escrow vault on this chain", intents.ErrUnknownType)
		}
		return d.vault.Fulfill(m)
	default:
		return fmt.Errorf("%w: %T", intents.ErrUnknownType, msg)
	}
}

func intentOf(msg payload.Message) ids.ID {
	switch m := msg.(type) {
	case *payload.IntentRequirements:
		return m.IntentID
	case *payload.EscrowConfirmation:
		return m.IntentID
	case *payload.FulfillmentProof:
		return m.IntentID
	default:
		return ids.Empty
	}
}
