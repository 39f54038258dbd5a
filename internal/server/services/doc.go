// Package services contains the server-side attendance logic: the identity
// registry, challenge issuing, replay protection, the per-day attendance
// ledger and the authentication protocol that ties them together.
package services
