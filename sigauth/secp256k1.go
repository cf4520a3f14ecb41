// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package sigauth

import (
	"bytes"
	"fmt"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
)

// secpSignatureLen is the length of a recoverable [R || S || V] signature.
const secpSignatureLen = 65

var _ Verifier = Secp256k1Verifier{}

// Secp256k1Verifier verifies recoverable secp256k1 signatures over the
// Keccak256 digest of the message, as produced by EVM-side validators. The
// public key may be a 20-byte EVM address (the signer is recovered from the
// signature and compared) or a 33/65-byte secp256k1 public key.
type Secp256k1Verifier struct{}

// Scheme implements Verifier.
func (Secp256k1Verifier) Scheme() Scheme {
	return SchemeSecp256k1
}

// Verify implements Verifier.
func (Secp256k1Verifier) Verify(message, publicKey, signature []byte) error {
	if len(signature) != secpSignatureLen {
		return fmt.Errorf("%w: %d bytes, want %d", ErrWrongSignatureSize, len(signature), secpSignatureLen)
	}
	digest := crypto.Keccak256(message)

	switch len(publicKey) {
	case common.AddressLength:
		recovered, err := crypto.SigToPub(digest, signature)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
		}
		if !bytes.Equal(crypto.PubkeyToAddress(*recovered).Bytes(), publicKey) {
			return ErrInvalidSignature
		}
		return nil
	case 33, 65:
		// VerifySignature takes the signature without the recovery id.
		if !crypto.VerifySignature(publicKey, digest, signature[:64]) {
			return ErrInvalidSignature
		}
		return nil
	default:
		return fmt.Errorf("%w: %d bytes", ErrInvalidPublicKey, len(publicKey))
	}
}
