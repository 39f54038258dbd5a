package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, e *Entry) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO submissions (at, employee_id, slot, confirm, success, action, reason, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.At.Unix(), e.EmployeeID, e.Slot, e.Confirm, e.Success, e.Action, e.Reason, e.Message)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		e.ID = id
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]*Entry, error) {
	query := `SELECT id, at, employee_id, slot, confirm, success, action, reason, message
		FROM submissions ORDER BY at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal: %w", err)
	}
	defer rows.Close()

	var result []*Entry
	for rows.Next() {
		var (
			e  Entry
			at int64
		)
		if err := rows.Scan(&e.ID, &at, &e.EmployeeID, &e.Slot, &e.Confirm, &e.Success, &e.Action, &e.Reason, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		e.At = time.Unix(at, 0)
		result = append(result, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal rows: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM submissions`)
	if err != nil {
		return fmt.Errorf("failed to clear journal: %w", err)
	}
	return nil
}
