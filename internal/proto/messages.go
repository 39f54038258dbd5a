// Package proto defines the wire contract of gophattend.AttendanceService:
// request and response messages, the JSON codec they travel with and the
// gRPC service descriptor.
package proto

// Challenge is the signed QR payload.
type Challenge struct {
	Message         string `json:"message"`
	Signature       string `json:"signature"`
	Timestamp       int64  `json:"timestamp"`
	ServerPublicKey string `json:"server_public_key"`
}

type IssueChallengeRequest struct{}

type SubmitRequest struct {
	ServerQR          *Challenge `json:"server_qr"`
	PublicKey         string     `json:"public_key"`
	EmployeeSignature string     `json:"employee_signature"`
	ConfirmCheckout   bool       `json:"confirm_checkout,omitempty"`
}

type SubmitResponse struct {
	Success      bool   `json:"success"`
	Reason       string `json:"reason,omitempty"`
	Message      string `json:"message"`
	Action       string `json:"action,omitempty"`
	EmpID        string `json:"emp_id,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
	InTime       string `json:"in_time,omitempty"`
	OutTime      string `json:"out_time,omitempty"`
	Status       string `json:"status,omitempty"`
	Age          int64  `json:"age"`
}

// RegisterRequest registers EmpID. When PublicKey is set the server
// enrolls that key instead of generating a pair.
type RegisterRequest struct {
	EmpID      string `json:"emp_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
	PublicKey  string `json:"public_key,omitempty"`
}

type RegisterResponse struct {
	EmpID      string `json:"emp_id"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key,omitempty"`
}

type ListAttendanceRequest struct {
	Date   string `json:"date,omitempty"`
	EmpID  string `json:"emp_id,omitempty"`
	Status string `json:"status,omitempty"`
}

// AttendanceRecord carries InTimestamp and OutTimestamp in RFC 3339. The
// out fields are null until check-out.
type AttendanceRecord struct {
	EmpID        string  `json:"emp_id"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	InTime       string  `json:"in_time"`
	InTimestamp  string  `json:"in_timestamp"`
	OutTime      *string `json:"out_time"`
	OutTimestamp *string `json:"out_timestamp"`
	Status       string  `json:"status"`
	QRTimestamp  int64   `json:"qr_timestamp"`
	Verified     bool    `json:"verified"`
}

type ListAttendanceResponse struct {
	Records []*AttendanceRecord `json:"records"`
}

type ExportAttendanceRequest struct {
	Date string `json:"date,omitempty"`
}

type ExportAttendanceResponse struct {
	ObjectKey string `json:"object_key"`
	URL       string `json:"url"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
