package models

import (
	"encoding/json"
	"fmt"
)

// Challenge is the server-signed payload rendered into the QR code.
// SlotStart is unix seconds.
type Challenge struct {
	Message         string `json:"message"`
	Signature       string `json:"signature"`
	SlotStart       int64  `json:"timestamp"`
	ServerPublicKey string `json:"server_public_key"`
}

// QRPayload renders the JSON text carried by the QR code.
func (c *Challenge) QRPayload() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseQRPayload decodes the JSON text produced by QRPayload.
func ParseQRPayload(s string) (*Challenge, error) {
	var c Challenge
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return nil, fmt.Errorf("decode qr payload: %w", err)
	}
	return &c, nil
}
