// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package payload

import (
	"encoding/binary"

	"github.com/luxfi/ids"

	"github.com/luxfi/intents"
)

// EscrowConfirmationSize is the exact encoded size of an EscrowConfirmation
// message.
const EscrowConfirmationSize = 1 + 32 + 32 + 8 + 32 + 32

// EscrowConfirmation reports back to the issuing chain that the requester's
// deposit landed in escrow on the non-issuing chain.
type EscrowConfirmation struct {
	IntentID       ids.ID
	EscrowID       ids.ID
	AmountEscrowed uint64
	Token          intents.Address
	Creator        intents.Address
}

// Type implements Message.
func (*EscrowConfirmation) Type() Type {
	return TypeEscrowConfirmation
}

// Bytes returns the wire encoding:
// disc(0,1) intent_id(1,32) escrow_id(33,32) amount u64 BE(65,8)
// token(73,32) creator(105,32).
func (m *EscrowConfirmation) Bytes() []byte {
	buf := make([]byte, EscrowConfirmationSize)
	buf[0] = byte(TypeEscrowConfirmation)
	copy(buf[1:33], m.IntentID[:])
	copy(buf[33:65], m.EscrowID[:])
	binary.BigEndian.PutUint64(buf[65:73], m.AmountEscrowed)
	copy(buf[73:105], m.Token[:])
	copy(buf[105:137], m.Creator[:])
	return buf
}

// ParseEscrowConfirmation decodes an EscrowConfirmation message.
func ParseEscrowConfirmation(b []byte) (*EscrowConfirmation, error) {
	if err := checkFrame(b, TypeEscrowConfirmation, EscrowConfirmationSize); err != nil {
		return nil, err
	}
	m := &EscrowConfirmation{}
	copy(m.IntentID[:], b[1:33])
	copy(m.EscrowID[:], b[33:65])
	m.AmountEscrowed = binary.BigEndian.Uint64(b[65:73])
	copy(m.Token[:], b[73:105])
	copy(m.Creator[:], b[105:137])
	return m, nil
}
