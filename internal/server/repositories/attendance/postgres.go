package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/dbx"
	"github.com/dmitrijs2005/gophattend/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const selectColumns = `id, employee_id, display_name, date, in_time, in_at, out_time, out_at, status, source_slot, verified`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.AttendanceRecord) error {
	query :=
		`INSERT INTO attendance (id, employee_id, display_name, date, in_time, in_at, status, source_slot, verified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 `

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.EmployeeID, rec.DisplayName, rec.Date, rec.InTime, rec.InAt, rec.Status, rec.SourceSlot, rec.Verified)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, employeeID, date string) (*models.AttendanceRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM attendance
		 WHERE employee_id = $1 AND date = $2
		 `

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) CloseOut(ctx context.Context, employeeID, date, outTime string, outAt time.Time) error {
	query :=
		`UPDATE attendance SET out_time = $1, out_at = $2
		 WHERE employee_id = $3 AND date = $4 AND out_at IS NULL
		 `

	res, err := r.db.ExecContext(ctx, query, outTime, outAt, employeeID, date)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]*models.AttendanceRecord, error) {
	var (
		where []string
		args  []any
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		where = append(where, column+" = $"+strconv.Itoa(len(args)))
	}
	add("date", filter.Date)
	add("employee_id", filter.EmployeeID)
	add("status", filter.Status)

	query := `SELECT ` + selectColumns + ` FROM attendance`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date, in_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.AttendanceRecord, error) {
	var (
		rec     models.AttendanceRecord
		outTime sql.NullString
		outAt   sql.NullTime
	)
	err := s.Scan(&rec.ID, &rec.EmployeeID, &rec.DisplayName, &rec.Date, &rec.InTime, &rec.InAt,
		&outTime, &outAt, &rec.Status, &rec.SourceSlot, &rec.Verified)
	if err != nil {
		return nil, err
	}
	if outTime.Valid {
		rec.OutTime = &outTime.String
	}
	if outAt.Valid {
		rec.OutAt = &outAt.Time
	}
	return &rec, nil
}
