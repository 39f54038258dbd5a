package signature

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58/base58"
)

// Sign returns the deterministic Ed25519 signature of message.
func Sign(priv ed25519.PrivateKey, message []byte) []byte {
	return ed25519.Sign(priv, message)
}

// SignString signs the UTF-8 bytes of message and returns the base-58
// signature.
func SignString(priv ed25519.PrivateKey, message string) string {
	return base58.Encode(Sign(priv, []byte(message)))
}

// Verify reports whether sig is a valid signature of message by pub. Wrong
// key or signature sizes yield false instead of panicking.
func Verify(pub ed25519.PublicKey, message, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, message, sig)
}

// VerifyEncoded is Verify over base-58 inputs taken from an untrusted
// submission. Any decoding problem collapses to false.
func VerifyEncoded(publicKey, message, sig string) bool {
	pub, err := DecodePublicKey(publicKey)
	if err != nil {
		return false
	}
	rawSig, err := base58.Decode(sig)
	if err != nil {
		return false
	}
	return Verify(pub, []byte(message), rawSig)
}
