// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package sigauth provides per-chain signature verification for settlement
// messages. Each chain family verifies with its native scheme: Ed25519 on the
// intent and escrow chains, secp256k1 for EVM-side approvals. Verifiers are
// stateless; callers select one through the scheme registry.
package sigauth

import "errors"

// Scheme identifies a signature scheme.
type Scheme string

const (
	// SchemeEd25519 verifies Ed25519 signatures over the raw message.
	SchemeEd25519 Scheme = "ed25519"

	// SchemeSecp256k1 verifies recoverable secp256k1 signatures over the
	// Keccak256 digest of the message.
	SchemeSecp256k1 Scheme = "secp256k1"
)

var (
	ErrUnknownScheme      = errors.New("unknown signature scheme")
	ErrInvalidPublicKey   = errors.New("invalid public key")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrWrongSignatureSize = errors.New("wrong signature size")
)

// Verifier checks a detached signature over a message against a public key.
type Verifier interface {
	// Scheme returns the signature scheme this verifier implements.
	Scheme() Scheme

	// Verify returns nil if signature is a valid signature of message under
	// publicKey, and a descriptive error otherwise.
	Verify(message, publicKey, signature []byte) error
}

// Registry maps schemes to their verifiers.
type Registry struct {
	verifiers map[Scheme]Verifier
}

// NewRegistry returns a registry with the given verifiers registered.
func NewRegistry(verifiers ...Verifier) *Registry {
	r := &Registry{verifiers: make(map[Scheme]Verifier, len(verifiers))}
	for _, v := range verifiers {
		r.verifiers[v.Scheme()] = v
	}
	return r
}

// DefaultRegistry returns a registry with both native schemes registered.
func DefaultRegistry() *Registry {
	return NewRegistry(Ed25519Verifier{}, Secp256k1Verifier{})
}

// Verifier returns the verifier for the given scheme.
func (r *Registry) Verifier(scheme Scheme) (Verifier, error) {
	v, ok := r.verifiers[scheme]
	if !ok {
		return nil, ErrUnknownScheme
	}
	return v, nil
}
