// Package serverkeys persists the server signing identity.
package serverkeys

import (
	"context"

	"github.com/dmitrijs2005/gophattend/internal/server/models"
)

// Repository loads and stores the single server identity. Get reports
// common.ErrorNotFound when no identity has been saved yet.
type Repository interface {
	Get(ctx context.Context) (*models.ServerIdentity, error)
	Save(ctx context.Context, id *models.ServerIdentity) error
}
