package models

import "time"

// AttendanceRecord is the single record kept per employee and local day.
// OutTime and OutAt stay nil until a confirmed check-out.
type AttendanceRecord struct {
	ID          string
	EmployeeID  string
	DisplayName string
	Date        string
	InTime      string
	InAt        time.Time
	OutTime     *string
	OutAt       *time.Time
	Status      string
	SourceSlot  int64
	Verified    bool
}

// CheckedOut reports whether the record has been closed.
func (r *AttendanceRecord) CheckedOut() bool {
	return r.OutAt != nil
}

// AttendanceFilter narrows ListAttendance. Empty fields match everything.
type AttendanceFilter struct {
	Date       string
	EmployeeID string
	Status     string
}

// Match reports whether r passes the filter.
func (f AttendanceFilter) Match(r *AttendanceRecord) bool {
	if f.Date != "" && r.Date != f.Date {
		return false
	}
	if f.EmployeeID != "" && r.EmployeeID != f.EmployeeID {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}
