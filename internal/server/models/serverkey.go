package models

import "time"

// ServerIdentity is the persisted server key pair. PrivateKey is base-58;
// when Sealed is set it holds the passphrase-sealed blob rather than the
// raw key.
type ServerIdentity struct {
	PublicKey  string
	PrivateKey string
	Sealed     bool
	CreatedAt  time.Time
}
