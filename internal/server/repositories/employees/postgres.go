package employees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/dbx"
	"github.com/dmitrijs2005/gophattend/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	publicKeyConstraint = "employees_public_key_key"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.Employee) error {
	query :=
		`INSERT INTO employees (id, display_name, email, department, public_key, registered_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.DisplayName, e.Email, e.Department, e.PublicKey, e.RegisteredAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == publicKeyConstraint {
				return common.ErrDuplicatePublicKey
			}
			return common.ErrDuplicateIdentity
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	query :=
		`SELECT id, display_name, email, department, public_key, registered_at FROM employees
		 WHERE id = $1
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByPublicKey(ctx context.Context, publicKey string) (*models.Employee, error) {
	query :=
		`SELECT id, display_name, email, department, public_key, registered_at FROM employees
		 WHERE public_key = $1
		 `
	return r.getOne(ctx, query, publicKey)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.Employee, error) {
	e := &models.Employee{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&e.ID, &e.DisplayName, &e.Email, &e.Department, &e.PublicKey, &e.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Employee, error) {
	query :=
		`SELECT id, display_name, email, department, public_key, registered_at FROM employees
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Employee
	for rows.Next() {
		e := &models.Employee{}
		if err := rows.Scan(&e.ID, &e.DisplayName, &e.Email, &e.Department, &e.PublicKey, &e.RegisteredAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
