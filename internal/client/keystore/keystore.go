// Package keystore persists the holder's key pair in a JSON file readable
// only by its owner. The private key may be sealed with a passphrase.
package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/cryptox"
	"github.com/dmitrijs2005/gophattend/internal/filex"
	"github.com/dmitrijs2005/gophattend/internal/signature"
	"github.com/mr-tron/base58/base58"
)

var ErrPassphraseRequired = errors.New("holder key is sealed, passphrase required")

// Key is the on-disk form. PrivateKey is base-58, or base-58 of the sealed
// blob when Sealed is set.
type Key struct {
	EmployeeID string `json:"emp_id"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
	Sealed     bool   `json:"sealed,omitempty"`
}

// NewKey prepares kp for storage, sealing it when passphrase is not empty.
func NewKey(employeeID string, kp *signature.KeyPair, passphrase []byte) (*Key, error) {
	k := &Key{EmployeeID: employeeID, PublicKey: kp.PublicKeyString()}
	if len(passphrase) == 0 {
		k.PrivateKey = kp.PrivateKeyString()
		return k, nil
	}

	plain := []byte(kp.PrivateKeyString())
	defer common.WipeByteArray(plain)
	blob, err := cryptox.Seal(passphrase, plain)
	if err != nil {
		return nil, err
	}
	k.PrivateKey = base58.Encode(blob)
	k.Sealed = true
	return k, nil
}

// KeyPair decodes the stored key, unsealing it with passphrase if needed,
// and checks it against the stored public key.
func (k *Key) KeyPair(passphrase []byte) (*signature.KeyPair, error) {
	encoded := k.PrivateKey
	if k.Sealed {
		if len(passphrase) == 0 {
			return nil, ErrPassphraseRequired
		}
		blob, err := base58.Decode(k.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidKey, err)
		}
		plain, err := cryptox.Open(passphrase, blob)
		if err != nil {
			return nil, fmt.Errorf("unseal holder key: %w", err)
		}
		encoded = string(plain)
		common.WipeByteArray(plain)
	}

	priv, _, err := signature.DecodePrivateKey(encoded)
	if err != nil {
		return nil, err
	}
	kp := signature.KeyPairFromPrivate(priv)
	if k.PublicKey != "" && kp.PublicKeyString() != k.PublicKey {
		kp.Wipe()
		return nil, fmt.Errorf("%w: public key does not match private key", common.ErrInvalidKey)
	}
	return kp, nil
}

// Load reads the key file. A missing file yields common.ErrorNotFound.
func Load(path string) (*Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("read key file: %w", err)
	}

	var k Key
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("decode key file %s: %w", path, err)
	}
	if k.PrivateKey == "" {
		return nil, fmt.Errorf("key file %s: %w", path, common.ErrInvalidKey)
	}
	return &k, nil
}

// Save writes k to path with mode 0600, creating parent directories.
func Save(path string, k *Key) error {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return err
	}
	if err := filex.WritePrivateFile(path, data); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}
