// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package intents

import "crypto/sha256"

// ComputeHash256 computes the SHA256 hash of the concatenated chunks.
func ComputeHash256(chunks ...[]byte) []byte {
	h := sha256.New()
	for _, c := range chunks {
		h.Write(c)
	}
	return h.Sum(nil)
}
