// Package common defines shared constants and sentinel errors used across
// client and server layers of gophattend. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStorage wraps failures to read or write persisted state. It is never
	// reported as a verification failure.
	ErrStorage = errors.New("storage failure")

	// Auth errors (invalid or malformed admin token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Registration errors.
	ErrDuplicateIdentity   = errors.New("identity already registered")
	ErrDuplicatePublicKey  = errors.New("public key already bound to another identity")
	ErrInvalidRegistration = errors.New("identity id and name are required")

	// Verification errors, in pipeline order.
	ErrUnknownIdentity           = errors.New("identity not registered or invalid key")
	ErrWrongServer               = errors.New("challenge issued by a different server")
	ErrInvalidChallengeSignature = errors.New("invalid challenge signature")
	ErrChallengeExpired          = errors.New("challenge expired")
	ErrAlreadyUsed               = errors.New("challenge already used recently")
	ErrInvalidHolderSignature    = errors.New("invalid holder signature")

	// Key handling errors.
	ErrInvalidKey = errors.New("invalid key encoding")
)

// Machine-checkable reason codes reported to callers.
const (
	ReasonUnknownIdentity           = "unknown_identity"
	ReasonWrongServer               = "wrong_server"
	ReasonInvalidChallengeSignature = "invalid_challenge_signature"
	ReasonChallengeExpired          = "challenge_expired"
	ReasonAlreadyUsed               = "already_used"
	ReasonInvalidHolderSignature    = "invalid_holder_signature"
	ReasonDuplicateIdentity         = "duplicate_identity"
	ReasonDuplicatePublicKey        = "duplicate_public_key"
	ReasonInvalidRegistration       = "invalid_registration"
	ReasonConfirmationRequired      = "confirmation_required"
	ReasonAlreadyCheckedOutToday    = "already_checked_out_today"
	ReasonInvalidArgument           = "invalid_argument"
	ReasonStorage                   = "storage_failure"
	ReasonInternal                  = "internal_error"
)

var reasons = []struct {
	err    error
	reason string
}{
	{ErrUnknownIdentity, ReasonUnknownIdentity},
	{ErrWrongServer, ReasonWrongServer},
	{ErrInvalidChallengeSignature, ReasonInvalidChallengeSignature},
	{ErrChallengeExpired, ReasonChallengeExpired},
	{ErrAlreadyUsed, ReasonAlreadyUsed},
	{ErrInvalidHolderSignature, ReasonInvalidHolderSignature},
	{ErrDuplicateIdentity, ReasonDuplicateIdentity},
	{ErrDuplicatePublicKey, ReasonDuplicatePublicKey},
	{ErrInvalidRegistration, ReasonInvalidRegistration},
	{ErrInvalidArgument, ReasonInvalidArgument},
	{ErrStorage, ReasonStorage},
}

// ReasonOf maps err to its reason code. Unknown errors map to
// ReasonInternal, a nil error maps to "".
func ReasonOf(err error) string {
	if err == nil {
		return ""
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return ReasonInternal
}

// IsVerificationFailure reports whether err is one of the six verification
// pipeline failures.
func IsVerificationFailure(err error) bool {
	switch {
	case errors.Is(err, ErrUnknownIdentity),
		errors.Is(err, ErrWrongServer),
		errors.Is(err, ErrInvalidChallengeSignature),
		errors.Is(err, ErrChallengeExpired),
		errors.Is(err, ErrAlreadyUsed),
		errors.Is(err, ErrInvalidHolderSignature):
		return true
	}
	return false
}
