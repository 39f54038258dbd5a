package signature

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/mr-tron/base58/base58"
)

// KeyFormat identifies the byte layout a private key was decoded from.
type KeyFormat int

const (
	// FormatSeedAndPublic is the current 64-byte layout: seed || public key.
	FormatSeedAndPublic KeyFormat = iota + 1
	// FormatLegacySeed is the old 32-byte seed-only layout.
	FormatLegacySeed
)

func (f KeyFormat) String() string {
	switch f {
	case FormatSeedAndPublic:
		return "seed+public(64)"
	case FormatLegacySeed:
		return "legacy-seed(32)"
	}
	return "unknown"
}

// KeyPair is an Ed25519 key pair.
type KeyPair struct {
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
}

// GenerateKeyPair creates a new random key pair.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key pair: %w", err)
	}
	return &KeyPair{PrivateKey: priv, PublicKey: pub}, nil
}

// PublicKeyString returns the base-58 public key.
func (k *KeyPair) PublicKeyString() string {
	return EncodePublicKey(k.PublicKey)
}

// PrivateKeyString returns the base-58 64-byte private key.
func (k *KeyPair) PrivateKeyString() string {
	return EncodePrivateKey(k.PrivateKey)
}

// Wipe zeroes the private key bytes.
func (k *KeyPair) Wipe() {
	common.WipeByteArray(k.PrivateKey)
}

// EncodePublicKey returns the base-58 encoding of pub.
func EncodePublicKey(pub ed25519.PublicKey) string {
	return base58.Encode(pub)
}

// EncodePrivateKey returns the base-58 encoding of the full 64-byte key.
func EncodePrivateKey(priv ed25519.PrivateKey) string {
	return base58.Encode(priv)
}

// DecodePublicKey parses a base-58 Ed25519 public key.
func DecodePublicKey(s string) (ed25519.PublicKey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidKey, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: public key is %d bytes", common.ErrInvalidKey, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// DecodePrivateKey parses a base-58 private key in either supported layout
// and always returns the 64-byte form. A 64-byte key whose trailing half
// does not match the public key derived from its seed is rejected.
func DecodePrivateKey(s string) (ed25519.PrivateKey, KeyFormat, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", common.ErrInvalidKey, err)
	}
	defer common.WipeByteArray(raw)

	switch len(raw) {
	case ed25519.PrivateKeySize:
		priv := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
		if !bytes.Equal(priv[ed25519.SeedSize:], raw[ed25519.SeedSize:]) {
			common.WipeByteArray(priv)
			return nil, 0, fmt.Errorf("%w: public half does not match seed", common.ErrInvalidKey)
		}
		return priv, FormatSeedAndPublic, nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), FormatLegacySeed, nil
	}
	return nil, 0, fmt.Errorf("%w: private key is %d bytes", common.ErrInvalidKey, len(raw))
}

// KeyPairFromPrivate rebuilds a KeyPair from a 64-byte private key.
func KeyPairFromPrivate(priv ed25519.PrivateKey) *KeyPair {
	pub := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(pub, priv[ed25519.SeedSize:])
	return &KeyPair{PrivateKey: priv, PublicKey: pub}
}
