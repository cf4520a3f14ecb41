// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package intents

import "time"

// Clock supplies a chain's notion of "now" as unix seconds. There is no
// global clock across chains: every expiry comparison uses the local clock,
// and a remotely-settled fact always overrides a purely local timeout.
type Clock func() uint64

// SystemClock reads the host wall clock.
func SystemClock() uint64 {
	return uint64(time.Now().Unix())
}
