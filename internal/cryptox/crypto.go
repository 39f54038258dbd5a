// Package cryptox seals small secrets, such as the server private key, with
// a passphrase: an Argon2id key derivation followed by AES-256-GCM.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize  = 16
	nonceSize = 12
)

// ErrSealedData is returned when a sealed blob is truncated or fails
// authentication (wrong passphrase or tampering).
var ErrSealedData = errors.New("sealed data is corrupt or passphrase is wrong")

// DeriveMasterKey stretches password with salt into a 32-byte AES key.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// Seal encrypts plaintext under passphrase. The result is
// salt(16) || nonce(12) || ciphertext.
func Seal(passphrase, plaintext []byte) ([]byte, error) {
	salt := common.GenerateRandByteArray(saltSize)
	key := DeriveMasterKey(passphrase, salt)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(nonceSize)

	out := make([]byte, 0, saltSize+nonceSize+len(plaintext)+aesgcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aesgcm.Seal(out, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func Open(passphrase, sealed []byte) ([]byte, error) {
	if len(sealed) < saltSize+nonceSize {
		return nil, ErrSealedData
	}
	salt, nonce, ciphertext := sealed[:saltSize], sealed[saltSize:saltSize+nonceSize], sealed[saltSize+nonceSize:]

	key := DeriveMasterKey(passphrase, salt)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrSealedData
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
