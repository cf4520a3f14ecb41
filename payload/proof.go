// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package payload

import (
	"encoding/binary"

	"github.com/luxfi/ids"

	"github.com/luxfi/intents"
)

// FulfillmentProofSize is the exact encoded size of a FulfillmentProof
// message.
const FulfillmentProofSize = 1 + 32 + 32 + 8 + 8

// FulfillmentProof reports that a trade leg settled: which solver fulfilled,
// how much, and when by the settling chain's clock. Custody elsewhere
// releases on receipt regardless of its own local expiry, because the
// canonical settlement fact lives where the trade was fulfilled.
type FulfillmentProof struct {
	IntentID        ids.ID
	Solver          intents.Address
	AmountFulfilled uint64
	Timestamp       uint64
}

// Type implements Message.
func (*FulfillmentProof) Type() Type {
	return TypeFulfillmentProof
}

// Bytes returns the wire encoding:
// disc(0,1) intent_id(1,32) solver(33,32) amount u64 BE(65,8)
// timestamp u64 BE(73,8).
func (m *FulfillmentProof) Bytes() []byte {
	buf := make([]byte, FulfillmentProofSize)
	buf[0] = byte(TypeFulfillmentProof)
	copy(buf[1:33], m.IntentID[:])
	copy(buf[33:65], m.Solver[:])
	binary.BigEndian.PutUint64(buf[65:73], m.AmountFulfilled)
	binary.BigEndian.PutUint64(buf[73:81], m.Timestamp)
	return buf
}

// ParseFulfillmentProof decodes a FulfillmentProof message.
func ParseFulfillmentProof(b []byte) (*FulfillmentProof, error) {
	if err := checkFrame(b, TypeFulfillmentProof, FulfillmentProofSize); err != nil {
		return nil, err
	}
	m := &FulfillmentProof{}
	copy(m.IntentID[:], b[1:33])
	copy(m.Solver[:], b[33:65])
	m.AmountFulfilled = binary.BigEndian.Uint64(b[65:73])
	m.Timestamp = binary.BigEndian.Uint64(b[73:81])
	return m, nil
}
