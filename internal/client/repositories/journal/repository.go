// Package journal keeps the holder's local record of submissions.
package journal

import (
	"context"
	"time"
)

// Entry is one submission as seen by the holder.
type Entry struct {
	ID         int64
	At         time.Time
	EmployeeID string
	Slot       int64
	Confirm    bool
	Success    bool
	Action     string
	Reason     string
	Message    string
}

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	// List returns up to limit entries, newest first. A non-positive limit
	// returns everything.
	List(ctx context.Context, limit int) ([]*Entry, error)
	Clear(ctx context.Context) error
}
