// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package payload implements the fixed-width binary wire protocol for
// cross-chain settlement messages. Each message is a discriminator byte
// followed by fixed-offset big-endian fields; address slots are 32 bytes wide
// with shorter native addresses zero-left-padded. Integers are big-endian
// regardless of host order so every chain reads the same bytes the same way.
// The layouts are bit-exact wire contracts and must not change without a new
// discriminator.
package payload

import (
	"fmt"

	"github.com/luxfi/intents"
)

// Type is the wire message discriminator, the leading byte of every message.
type Type uint8

const (
	// TypeIntentRequirements announces what must be escrowed on the
	// non-issuing chain.
	TypeIntentRequirements Type = 0x01

	// TypeEscrowConfirmation reports a funded escrow back to the issuing
	// chain.
	TypeEscrowConfirmation Type = 0x02

	// TypeFulfillmentProof reports a settled leg so custody elsewhere can
	// release.
	TypeFulfillmentProof Type = 0x03
)

// String returns a human-readable name for the message type.
func (t Type) String() string {
	switch t {
	case TypeIntentRequirements:
		return "IntentRequirements"
	case TypeEscrowConfirmation:
		return "EscrowConfirmation"
	case TypeFulfillmentProof:
		return "FulfillmentProof"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", uint8(t))
	}
}

// Message is the tagged union over the three wire message kinds.
type Message interface {
	// Type returns the message discriminator.
	Type() Type

	// Bytes returns the exact wire encoding of the message.
	Bytes() []byte
}

// PeekType returns the discriminator of an encoded message without decoding
// it.
func PeekType(b []byte) (Type, error) {
	if len(b) == 0 {
		return 0, intents.ErrEmptyBuffer
	}
	switch t := Type(b[0]); t {
	case TypeIntentRequirements, TypeEscrowConfirmation, TypeFulfillmentProof:
		return t, nil
	default:
		return 0, fmt.Errorf("%w: 0x%02x", intents.ErrUnknownType, b[0])
	}
}

// Parse decodes an encoded message of any of the three kinds. The switch is
// exhaustive over Type: adding a message kind is a compile-visible change
// here and in every consumer of Message.
func Parse(b []byte) (Message, error) {
	t, err := PeekType(b)
	if err != nil {
		return nil, err
	}
	switch t {
	case TypeIntentRequirements:
		return ParseIntentRequirements(b)
	case TypeEscrowConfirmation:
		return ParseEscrowConfirmation(b)
	case TypeFulfillmentProof:
		return ParseFulfillmentProof(b)
	default:
		return nil, fmt.Errorf("%w: 0x%02x", intents.ErrUnknownType, uint8(t))
	}
}

// checkFrame validates the discriminator and the exact frame size. Truncated
// and padded buffers are both rejected; there is no tolerance.
func checkFrame(b []byte, want Type, size int) error {
	if len(b) == 0 {
		return intents.ErrEmptyBuffer
	}
	if Type(b[0]) != want {
		return fmt.Errorf("%w: got 0x%02x, want 0x%02x", intents.ErrWrongDiscriminator, b[0], uint8(want))
	}
	if len(b) != size {
		return fmt.Errorf("%w: got %d bytes, want %d", intents.ErrWrongLength, len(b), size)
	}
	return nil
}
