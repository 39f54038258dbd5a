// Package employees stores registered key holders and resolves a public key
// back to its employee.
package employees

import (
	"context"

	"github.com/dmitrijs2005/gophattend/internal/server/models"
)

// Repository persists employees. Create reports common.ErrDuplicateIdentity
// or common.ErrDuplicatePublicKey on a uniqueness violation; lookups report
// common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, e *models.Employee) error
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	GetByPublicKey(ctx context.Context, publicKey string) (*models.Employee, error)
	List(ctx context.Context) ([]*models.Employee, error)
}
