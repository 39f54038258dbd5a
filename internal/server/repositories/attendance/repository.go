// Package attendance stores the per-employee, per-day attendance records.
package attendance

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/server/models"
)

// Repository persists attendance records.
//
// Create reports common.ErrorAlreadyExists when a record for the same
// (employee, date) exists. CloseOut sets the out time only on an open record
// and reports common.ErrorNotFound when there is none.
type Repository interface {
	Create(ctx context.Context, rec *models.AttendanceRecord) error
	Get(ctx context.Context, employeeID, date string) (*models.AttendanceRecord, error)
	CloseOut(ctx context.Context, employeeID, date, outTime string, outAt time.Time) error
	List(ctx context.Context, filter models.AttendanceFilter) ([]*models.AttendanceRecord, error)
}
