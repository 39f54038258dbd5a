package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/cryptox"
	"github.com/dmitrijs2005/gophattend/internal/logging"
	"github.com/dmitrijs2005/gophattend/internal/server/models"
	"github.com/dmitrijs2005/gophattend/internal/server/repositories/serverkeys"
	"github.com/dmitrijs2005/gophattend/internal/signature"
	"github.com/dmitrijs2005/gophattend/internal/timex"
	"github.com/mr-tron/base58/base58"
)

// ErrPassphraseRequired is returned when the stored identity is sealed and
// no passphrase was configured.
var ErrPassphraseRequired = errors.New("server key is sealed, passphrase required")

// LoadOrCreateServerIdentity returns the server key pair, creating and
// persisting one on first boot. A legacy 32-byte key is upgraded to the
// 64-byte layout and saved back. With a non-empty passphrase the private
// key is stored sealed; an unsealed stored key is sealed on load.
func LoadOrCreateServerIdentity(ctx context.Context, repo serverkeys.Repository, passphrase string, clock timex.Clock, log logging.Logger) (*signature.KeyPair, error) {
	if clock == nil {
		clock = timex.SystemClock
	}
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("module", "serverkey")

	stored, err := repo.Get(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		kp, err := signature.GenerateKeyPair()
		if err != nil {
			return nil, err
		}
		id := &models.ServerIdentity{PublicKey: kp.PublicKeyString(), CreatedAt: clock().UTC()}
		if err := persistServerKey(ctx, repo, id, kp, passphrase); err != nil {
			return nil, err
		}
		log.Info(ctx, "server identity created", "public_key", id.PublicKey, "sealed", id.Sealed)
		return kp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	encoded := stored.PrivateKey
	if stored.Sealed {
		if passphrase == "" {
			return nil, ErrPassphraseRequired
		}
		blob, err := base58.Decode(stored.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidKey, err)
		}
		plain, err := cryptox.Open([]byte(passphrase), blob)
		if err != nil {
			return nil, err
		}
		encoded = string(plain)
		common.WipeByteArray(plain)
	}

	priv, format, err := signature.DecodePrivateKey(encoded)
	if err != nil {
		return nil, err
	}
	kp := signature.KeyPairFromPrivate(priv)
	if stored.PublicKey != "" && stored.PublicKey != kp.PublicKeyString() {
		kp.Wipe()
		return nil, fmt.Errorf("%w: stored public key does not match private key", common.ErrInvalidKey)
	}

	upgrade := format == signature.FormatLegacySeed
	seal := passphrase != "" && !stored.Sealed
	if upgrade || seal || stored.PublicKey == "" {
		stored.PublicKey = kp.PublicKeyString()
		if err := persistServerKey(ctx, repo, stored, kp, passphrase); err != nil {
			return nil, err
		}
		log.Info(ctx, "server identity rewritten", "format", format.String(), "sealed", stored.Sealed)
	}

	log.Info(ctx, "server identity loaded", "public_key", kp.PublicKeyString())
	return kp, nil
}

func persistServerKey(ctx context.Context, repo serverkeys.Repository, id *models.ServerIdentity, kp *signature.KeyPair, passphrase string) error {
	id.PrivateKey = kp.PrivateKeyString()
	id.Sealed = false
	if passphrase != "" {
		blob, err := cryptox.Seal([]byte(passphrase), []byte(id.PrivateKey))
		if err != nil {
			return err
		}
		id.PrivateKey = base58.Encode(blob)
		id.Sealed = true
	}
	if err := repo.Save(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return nil
}
