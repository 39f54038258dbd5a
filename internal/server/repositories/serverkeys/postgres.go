package serverkeys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/dbx"
	"github.com/dmitrijs2005/gophattend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context) (*models.ServerIdentity, error) {
	query := `SELECT public_key, private_key, sealed, created_at FROM server_keys WHERE id = 1`

	var id models.ServerIdentity
	err := r.db.QueryRowContext(ctx, query).Scan(&id.PublicKey, &id.PrivateKey, &id.Sealed, &id.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &id, nil
}

func (r *PostgresRepository) Save(ctx context.Context, id *models.ServerIdentity) error {
	query :=
		`INSERT INTO server_keys (id, public_key, private_key, sealed, created_at)
		 VALUES (1, $1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE
		 SET public_key = EXCLUDED.public_key, private_key = EXCLUDED.private_key, sealed = EXCLUDED.sealed
		 `

	if _, err := r.db.ExecContext(ctx, query, id.PublicKey, id.PrivateKey, id.Sealed, id.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
