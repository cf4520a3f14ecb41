// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package sigauth

import (
	"crypto/ed25519"
	"fmt"
)

var _ Verifier = Ed25519Verifier{}

// Ed25519Verifier verifies Ed25519 signatures over the raw message bytes.
type Ed25519Verifier struct{}

// Scheme implements Verifier.
func (Ed25519Verifier) Scheme() Scheme {
	return SchemeEd25519
}

// Verify implements Verifier.
func (Ed25519Verifier) Verify(message, publicKey, signature []byte) error {
	if len(publicKey) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrInvalidPublicKey, len(publicKey), ed25519.PublicKeySize)
	}
	if len(signature) != ed25519.SignatureSize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrWrongSignatureSize, len(signature), ed25519.SignatureSize)
	}
	if !ed25519.Verify(ed25519.PublicKey(publicKey), message, signature) {
		return ErrInvalidSignature
	}
	return nil
}
