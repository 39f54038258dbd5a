// Package config loads runtime configuration for the gophattend holder CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the attendance gRPC endpoint
//	-k string   path of the holder key file
//	-j string   SQLite DSN of the local submission journal
//	-t int      request timeout (seconds)
//	-token str  admin access token for list and export
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "key_file": "gophattend_key.json",
//	  "journal_dsn": "gophattend_journal.db",
//	  "request_timeout": "5s",
//	  "access_token": ""
//	}
package config
