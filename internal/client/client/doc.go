// Package client talks to the attendance server on behalf of the holder
// CLI.
//
// Client is the transport-agnostic contract; GRPCClient implements it over
// gRPC with the JSON codec, attaches the admin access token when one is
// configured and maps status codes to the sentinel errors in errors.go.
package client
