// Package signature wraps Ed25519 signing and verification and the base-58
// text encoding used for every key and signature that crosses a process
// boundary.
//
// Private keys are 64 bytes (32-byte seed followed by the 32-byte public
// key). A bare 32-byte seed is the legacy encoding; DecodePrivateKey reports
// it as FormatLegacySeed so that callers can upgrade the stored value once,
// at load time.
package signature
