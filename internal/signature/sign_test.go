package signature

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPair(t *testing.T) *KeyPair {
	t.Helper()
	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	return kp
}

func TestSignVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	kp := newPair(t)
	messages := []string{"", "attendance:1000:abc", "ünïcödé", string(make([]byte, 4096))}

	for _, m := range messages {
		sig := SignString(kp.PrivateKey, m)
		assert.True(t, VerifyEncoded(kp.PublicKeyString(), m, sig))
		assert.False(t, VerifyEncoded(kp.PublicKeyString(), m+"x", sig), "altered message must not verify")
	}
}

func TestSign_Deterministic(t *testing.T) {
	t.Parallel()

	kp := newPair(t)
	a := Sign(kp.PrivateKey, []byte("attendance:10:key"))
	b := Sign(kp.PrivateKey, []byte("attendance:10:key"))
	assert.Equal(t, a, b)
}

func TestVerify_WrongKey(t *testing.T) {
	t.Parallel()

	a, b := newPair(t), newPair(t)
	sig := SignString(a.PrivateKey, "m")
	assert.False(t, VerifyEncoded(b.PublicKeyString(), "m", sig))
}

func TestVerifyEncoded_MalformedInputNeverPanics(t *testing.T) {
	t.Parallel()

	kp := newPair(t)
	good := SignString(kp.PrivateKey, "m")

	tests := []struct {
		name, pub, sig string
	}{
		{"empty public key", "", good},
		{"non base58 public key", "0OIl+/", good},
		{"short public key", base58.Encode([]byte{1, 2, 3}), good},
		{"empty signature", kp.PublicKeyString(), ""},
		{"non base58 signature", kp.PublicKeyString(), "not*base58"},
		{"short signature", kp.PublicKeyString(), base58.Encode([]byte{1, 2, 3})},
		{"long signature", kp.PublicKeyString(), base58.Encode(make([]byte, 65))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, VerifyEncoded(tt.pub, "m", tt.sig))
			})
		})
	}
}

func TestVerify_BadSizes(t *testing.T) {
	t.Parallel()

	assert.False(t, Verify(ed25519.PublicKey{1}, []byte("m"), make([]byte, ed25519.SignatureSize)))
	kp := newPair(t)
	assert.False(t, Verify(kp.PublicKey, []byte("m"), []byte{1}))
}
