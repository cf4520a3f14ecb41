// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package flow

import (
	"sync"

	"github.com/luxfi/ids"

	"github.com/luxfi/intents/payload"
)

// Sender hands encoded wire messages to the GMP relay for delivery on the
// destination chain. The payload is exactly the wire encoding; the transport
// carrying it is not part of this core.
type Sender interface {
	SendIntentRequirements(dstChainID ids.ID, req *payload.IntentRequirements) error
	SendEscrowConfirmation(dstChainID ids.ID, conf *payload.EscrowConfirmation) error
	SendFulfillmentProof(dstChainID ids.ID, proof *payload.FulfillmentProof) error
}

// Outbound is one message handed to the relay.
type Outbound struct {
	DstChainID ids.ID
	Payload    []byte
}

var _ Sender = (*CollectingSender)(nil)

// CollectingSender buffers outbound messages in memory. Tests and local
// tooling drain it; a deployment replaces it with the chain's GMP endpoint.
type CollectingSender struct {
	mu   sync.Mutex
	sent []Outbound
}

// NewCollectingSender returns an empty collecting sender.
func NewCollectingSender() *CollectingSender {
	return &CollectingSender{}
}

// SendIntentRequirements implements Sender.
func (s *CollectingSender) SendIntentRequirements(dstChainID ids.ID, req *payload.IntentRequirements) error {
	s.append(dstChainID, req.Bytes())
	return nil
}

// SendEscrowConfirmation implements Sender.
func (s *CollectingSender) SendEscrowConfirmation(dstChainID ids.ID, conf *payload.EscrowConfirmation) error {
	s.append(dstChainID, conf.Bytes())
	return nil
}

// SendFulfillmentProof implements Sender.
func (s *CollectingSender) SendFulfillmentProof(dstChainID ids.ID, proof *payload.FulfillmentProof) error {
	s.append(dstChainID, proof.Bytes())
	return nil
}

// Sent returns a snapshot of everything handed to the sender so far.
func (s *CollectingSender) Sent() []Outbound {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Outbound, len(s.sent))
	copy(out, s.sent)
	return out
}

func (s *CollectingSender) append(dst ids.ID, b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, Outbound{DstChainID: dst, Payload: b})
}
