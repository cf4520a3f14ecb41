// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package payload

import (
	"encoding/binary"

	"github.com/luxfi/ids"

	"github.com/luxfi/intents"
)

// IntentRequirementsSize is the exact encoded size of an IntentRequirements
// message.
const IntentRequirementsSize = 1 + 32 + 32 + 8 + 32 + 32 + 8

// IntentRequirements tells the non-issuing chain what the requester must
// escrow for an intent: the token, the amount, who deposits, which solver the
// escrow is reserved for, and when it expires.
type IntentRequirements struct {
	IntentID       ids.ID
	Requester      intents.Address
	AmountRequired uint64
	Token          intents.Address

	// Solver is the reserved solver. The all-zero address is the sentinel
	// for "any solver may fulfill" and round-trips unchanged.
	Solver intents.Address

	Expiry uint64
}

// Type implements Message.
func (*IntentRequirements) Type() Type {
	return TypeIntentRequirements
}

// Bytes returns the wire encoding:
// disc(0,1) intent_id(1,32) requester(33,32) amount u64 BE(65,8)
// token(73,32) solver(105,32) expiry u64 BE(137,8).
func (m *IntentRequirements) Bytes() []byte {
	buf := make([]byte, IntentRequirementsSize)
	buf[0] = byte(TypeIntentRequirements)
	copy(buf[1:33], m.IntentID[:])
	copy(buf[33:65], m.Requester[:])
	binary.BigEndian.PutUint64(buf[65:73], m.AmountRequired)
	copy(buf[73:105], m.Token[:])
	copy(buf[105:137], m.Solver[:])
	binary.BigEndian.PutUint64(buf[137:145], m.Expiry)
	return buf
}

// ParseIntentRequirements decodes an IntentRequirements message.
func ParseIntentRequirements(b []byte) (*IntentRequirements, error) {
	if err := checkFrame(b, TypeIntentRequirements, IntentRequirementsSize); err != nil {
		return nil, err
	}
	m := &IntentRequirements{}
	copy(m.IntentID[:], b[1:33])
	copy(m.Requester[:], b[33:65])
	m.AmountRequired = binary.BigEndian.Uint64(b[65:73])
	copy(m.Token[:], b[73:105])
	copy(m.Solver[:], b[105:137])
	m.Expiry = binary.BigEndian.Uint64(b[137:145])
	return m, nil
}

// AnySolver reports whether the requirements carry the any-solver sentinel.
func (m *IntentRequirements) AnySolver() bool {
	return m.Solver.IsZero()
}
