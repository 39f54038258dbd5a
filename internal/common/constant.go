// Package common contains shared constants and sentinel errors used across
// gophattend components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the admin
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// RequestIDHeaderName is the gRPC metadata key carrying a caller supplied
// request id. The server generates one when it is absent.
const RequestIDHeaderName = "x-request-id"

// Attendance record status values as they appear in persisted records and
// on the wire.
const (
	StatusPresent         = "Present"
	StatusPendingCheckout = "Pending Check-out"
	StatusAlreadyPresent  = "Already Present"
)

// Actions reported by a successful submission.
const (
	ActionCheckIn  = "check-in"
	ActionCheckOut = "check-out"
)

// DateLayout and TimeLayout format the local calendar day and the wall-clock
// time stored with attendance records.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)
