// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package intents

import (
	"encoding/hex"
	"fmt"

	"github.com/luxfi/geth/common"
)

// AddressLen is the width of an address slot. Chains with shorter native
// addresses (20-byte EVM accounts) are zero-left-padded into the slot so a
// single wire layout serves every chain.
const AddressLen = 32

// Address is a chain-agnostic 32-byte account identifier.
type Address [AddressLen]byte

// ZeroAddress is the all-zero address. In an IntentRequirements message it is
// the sentinel for "any solver may fulfill".
var ZeroAddress Address

// AddressFromEVM left-pads a 20-byte EVM address into an Address slot.
func AddressFromEVM(addr common.Address) Address {
	var a Address
	copy(a[AddressLen-common.AddressLength:], addr[:])
	return a
}

// AddressFromBytes converts b into an Address. Inputs shorter than 32 bytes
// are zero-left-padded; longer inputs are rejected.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) > AddressLen {
		return a, fmt.Errorf("address too long: %d > %d", len(b), AddressLen)
	}
	copy(a[AddressLen-len(b):], b)
	return a, nil
}

// EVM truncates the address to its low 20 bytes.
func (a Address) EVM() common.Address {
	return common.BytesToAddress(a[AddressLen-common.AddressLength:])
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero reports whether the address is the all-zero sentinel.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// String returns the hex representation of the address.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}
