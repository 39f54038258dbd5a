package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/dbx"
	"github.com/dmitrijs2005/gophattend/internal/logging"
	"github.com/dmitrijs2005/gophattend/internal/server/models"
	"github.com/dmitrijs2005/gophattend/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophattend/internal/signature"
	"github.com/dmitrijs2005/gophattend/internal/timex"
)

// IdentityRegistry binds identity ids to public keys and profiles.
type IdentityRegistry struct {
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
	clock       timex.Clock
	log         logging.Logger
	metrics     Metrics
}

func NewIdentityRegistry(tx dbx.Transactor, m repomanager.RepositoryManager, clock timex.Clock, log logging.Logger, metrics Metrics) *IdentityRegistry {
	if clock == nil {
		clock = timex.SystemClock
	}
	if log == nil {
		log = logging.Nop()
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &IdentityRegistry{
		tx:          tx,
		repomanager: m,
		clock:       clock,
		log:         log.With("module", "registry"),
		metrics:     metrics,
	}
}

// Register creates a fresh key pair for id and stores the public half. The
// caller owns the returned private key and should hand it to the holder.
func (r *IdentityRegistry) Register(ctx context.Context, id string, p models.Profile) (*models.Employee, *signature.KeyPair, error) {
	kp, err := signature.GenerateKeyPair()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	e, err := r.Enroll(ctx, id, p, kp.PublicKeyString())
	if err != nil {
		kp.Wipe()
		return nil, nil, err
	}
	return e, kp, nil
}

// Enroll stores a caller-supplied public key for id.
func (r *IdentityRegistry) Enroll(ctx context.Context, id string, p models.Profile, publicKey string) (*models.Employee, error) {
	id = strings.TrimSpace(id)
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	if id == "" || p.DisplayName == "" {
		r.metrics.RegistrationObserved(common.ReasonInvalidRegistration)
		return nil, common.ErrInvalidRegistration
	}
	if _, err := signature.DecodePublicKey(publicKey); err != nil {
		r.metrics.RegistrationObserved(common.ReasonInvalidRegistration)
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidRegistration, err)
	}

	e := &models.Employee{
		ID:           id,
		DisplayName:  p.DisplayName,
		Email:        strings.TrimSpace(p.Email),
		Department:   strings.TrimSpace(p.Department),
		PublicKey:    publicKey,
		RegisteredAt: r.clock().UTC(),
	}

	err := r.tx.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := r.repomanager.Employees(tx)

		if _, err := repo.GetByID(ctx, id); err == nil {
			return common.ErrDuplicateIdentity
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		if _, err := repo.GetByPublicKey(ctx, publicKey); err == nil {
			return common.ErrDuplicatePublicKey
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return repo.Create(ctx, e)
	})
	if err != nil {
		if !errors.Is(err, common.ErrDuplicateIdentity) && !errors.Is(err, common.ErrDuplicatePublicKey) {
			err = fmt.Errorf("%w: %w", common.ErrStorage, err)
		}
		r.metrics.RegistrationObserved(common.ReasonOf(err))
		r.log.Warn(ctx, "registration rejected", "emp_id", id, "error", err)
		return nil, err
	}

	r.metrics.RegistrationObserved("")
	r.log.Info(ctx, "identity registered", "emp_id", id, "public_key", publicKey)
	return e, nil
}

// FindByPublicKey returns the identity holding publicKey or
// common.ErrorNotFound.
func (r *IdentityRegistry) FindByPublicKey(ctx context.Context, publicKey string) (*models.Employee, error) {
	e, err := r.repomanager.Employees(r.tx.Conn()).GetByPublicKey(ctx, publicKey)
	return e, storageErr(err)
}

// Get returns the identity with the given id or common.ErrorNotFound.
func (r *IdentityRegistry) Get(ctx context.Context, id string) (*models.Employee, error) {
	e, err := r.repomanager.Employees(r.tx.Conn()).GetByID(ctx, id)
	return e, storageErr(err)
}

// List returns every identity ordered by id.
func (r *IdentityRegistry) List(ctx context.Context) ([]*models.Employee, error) {
	list, err := r.repomanager.Employees(r.tx.Conn()).List(ctx)
	return list, storageErr(err)
}

// storageErr wraps unexpected repository failures with common.ErrStorage
// and lets nil and common.ErrorNotFound through.
func storageErr(err error) error {
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrStorage, err)
}
