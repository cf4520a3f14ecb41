// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package sigauth

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/luxfi/crypto"
	"github.com/stretchr/testify/require"
)

func TestEd25519Verify(t *testing.T) {
	require := require.New(t)

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(err)

	message := []byte("settle intent 42")
	signature := ed25519.Sign(priv, message)

	v := Ed25519Verifier{}
	require.NoError(v.Verify(message, pub, signature))

	require.ErrorIs(v.Verify([]byte("different message"), pub, signature), ErrInvalidSignature)
	require.ErrorIs(v.Verify(message, pub[:16], signature), ErrInvalidPublicKey)
	require.ErrorIs(v.Verify(message, pub, signature[:32]), ErrWrongSignatureSize)

	otherPub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(err)
	require.ErrorIs(v.Verify(message, otherPub, signature), ErrInvalidSignature)
}

func TestSecp256k1VerifyByAddress(t *testing.T) {
	require := require.New(t)

	key, err := crypto.GenerateKey()
	require.NoError(err)

	message := []byte("approve intent settlement")
	digest := crypto.Keccak256(message)
	signature, err := crypto.Sign(digest, key)
	require.NoError(err)

	v := Secp256k1Verifier{}
	address := crypto.PubkeyToAddress(key.PublicKey)
	require.NoError(v.Verify(message, address.Bytes(), signature))

	require.ErrorIs(v.Verify([]byte("other"), address.Bytes(), signature), ErrInvalidSignature)
	require.ErrorIs(v.Verify(message, address.Bytes(), signature[:64]), ErrWrongSignatureSize)

	otherKey, err := crypto.GenerateKey()
	require.NoError(err)
	otherAddress := crypto.PubkeyToAddress(otherKey.PublicKey)
	require.ErrorIs(v.Verify(message, otherAddress.Bytes(), signature), ErrInvalidSignature)
}

func TestSecp256k1VerifyByPublicKey(t *testing.T) {
	require := require.New(t)

	key, err := crypto.GenerateKey()
	require.NoError(err)

	message := []byte("approve intent settlement")
	digest := crypto.Keccak256(message)
	signature, err := crypto.Sign(digest, key)
	require.NoError(err)

	v := Secp256k1Verifier{}
	require.NoError(v.Verify(message, crypto.FromECDSAPub(&key.PublicKey), signature))
	require.NoError(v.Verify(message, crypto.CompressPubkey(&key.PublicKey), signature))

	require.ErrorIs(v.Verify(message, []byte{0x01, 0x02}, signature), ErrInvalidPublicKey)
}

func TestRegistry(t *testing.T) {
	require := require.New(t)

	reg := DefaultRegistry()

	v, err := reg.Verifier(SchemeEd25519)
	require.NoError(err)
	require.Equal(SchemeEd25519, v.Scheme())

	v, err = reg.Verifier(SchemeSecp256k1)
	require.NoError(err)
	require.Equal(SchemeSecp256k1, v.Scheme())

	_, err = reg.Verifier(Scheme("bls"))
	require.ErrorIs(err, ErrUnknownScheme)

	only := NewRegistry(Ed25519Verifier{})
	_, err = only.Verifier(SchemeSecp256k1)
	require.ErrorIs(err, ErrUnknownScheme)
}
