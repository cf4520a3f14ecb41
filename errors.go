// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package intents

import "fmt"

// Error is a settlement abort reason with a stable numeric code. Off-chain
// relays and solvers dispatch on the code to decide whether a retry can ever
// succeed, so codes must not be reused or renumbered.
type Error struct {
	Code    int32
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("intents error %d: %s", e.Code, e.Message)
}

// Validation errors (1xx). Retrying with the same inputs will never succeed.
var (
	ErrEmptyBuffer        = &Error{Code: 100, Message: "empty buffer"}
	ErrUnknownType        = &Error{Code: 101, Message: "unknown message type"}
	ErrWrongDiscriminator = &Error{Code: 102, Message: "wrong message discriminator"}
	ErrWrongLength        = &Error{Code: 103, Message: "wrong message length"}

	ErrInvalidSignature  = &Error{Code: 110, Message: "invalid signature"}
	ErrSignatureRequired = &Error{Code: 111, Message: "signature required"}
	ErrUnknownSolver     = &Error{Code: 112, Message: "unknown solver"}
	ErrBelowMinReported  = &Error{Code: 113, Message: "reported value below minimum"}

	ErrAmountMismatch    = &Error{Code: 120, Message: "amount mismatch"}
	ErrTokenMismatch     = &Error{Code: 121, Message: "token mismatch"}
	ErrRequesterMismatch = &Error{Code: 122, Message: "requester mismatch"}
	ErrAmountOverflow    = &Error{Code: 123, Message: "amount exceeds wire range"}
)

// Intent and session state errors (2xx).
var (
	ErrIntentExpired       = &Error{Code: 200, Message: "intent expired"}
	ErrUnauthorizedSolver  = &Error{Code: 201, Message: "unauthorized solver"}
	ErrNotRevocable        = &Error{Code: 202, Message: "intent not revocable"}
	ErrUnauthorized        = &Error{Code: 203, Message: "unauthorized"}
	ErrWitnessTypeMismatch = &Error{Code: 204, Message: "witness type mismatch"}
	ErrAmountNotMet        = &Error{Code: 205, Message: "payment amount not met"}
	ErrSessionConsumed     = &Error{Code: 206, Message: "session already consumed"}
	ErrRevocableCrossChain = &Error{Code: 207, Message: "cross-chain intent must not be revocable"}
	ErrUnknownIntent       = &Error{Code: 208, Message: "unknown intent"}
	ErrIntentNotActive     = &Error{Code: 209, Message: "intent not active"}
	ErrNotExpired          = &Error{Code: 210, Message: "not yet expired"}
	ErrInsufficientBalance = &Error{Code: 211, Message: "insufficient balance"}
	ErrDuplicateIntent     = &Error{Code: 212, Message: "intent already exists"}
)

// Escrow and flow state errors (3xx).
var (
	ErrAlreadyCreated              = &Error{Code: 300, Message: "escrow already created"}
	ErrAlreadyReleased             = &Error{Code: 301, Message: "escrow already released"}
	ErrAlreadyFulfilled            = &Error{Code: 302, Message: "already fulfilled"}
	ErrNoRequirements              = &Error{Code: 303, Message: "no requirements recorded"}
	ErrUnknownEscrow               = &Error{Code: 304, Message: "unknown escrow"}
	ErrEscrowNotConfirmed          = &Error{Code: 310, Message: "escrow not confirmed"}
	ErrFulfillmentProofNotReceived = &Error{Code: 311, Message: "fulfillment proof not received"}
)
