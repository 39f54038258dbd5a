// Package models defines server-side data models persisted by the
// repositories and passed between services.
package models

import "time"

// Employee is a registered key holder. ID is chosen by the registrant and
// PublicKey (base-58) never changes after registration.
type Employee struct {
	ID           string
	DisplayName  string
	Email        string
	Department   string
	PublicKey    string
	RegisteredAt time.Time
}

// Profile is the registrant-supplied part of an Employee.
type Profile struct {
	DisplayName string
	Email       string
	Department  string
}
