// Package config handles configuration for the server component,
// including defaults, a JSON or YAML file overlay, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds runtime settings for the attendance server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - EndpointAddrMetrics: bind address for the Prometheus endpoint, "" disables it.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps everything in memory and
//     the server identity in ServerKeyFile.
//   - ServerKeyFile / KeyPassphrase: server identity file and optional sealing passphrase.
//   - SecretKey: HMAC secret for signing admin JWTs (HS256). Do not use test defaults in prod.
//   - AdminTokenValidityDuration: lifetime of minted admin tokens.
//   - OpenRegistration: when false, Register requires an admin token.
//   - SlotInterval / Grace / ReuseWindow: challenge timing.
//   - ReplayCompactionInterval: period of the replay table sweep, 0 disables it.
//   - TimeZone: IANA name used to derive the attendance day.
//   - RateLimitRPS / RateLimitBurst: per-peer token bucket, 0 disables it.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings for exports.
type Config struct {
	EndpointAddrGRPC           string
	EndpointAddrMetrics        string
	DatabaseDSN                string
	ServerKeyFile              string
	KeyPassphrase              string
	SecretKey                  string
	AdminTokenValidityDuration time.Duration
	OpenRegistration           bool
	SlotInterval               time.Duration
	Grace                      time.Duration
	ReuseWindow                time.Duration
	ReplayCompactionInterval   time.Duration
	TimeZone                   string
	RateLimitRPS               float64
	RateLimitBurst             int
	LogLevel                   string
	S3RootUser                 string
	S3RootPassword             string
	S3Bucket                   string
	S3Region                   string
	S3BaseEndpoint             string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrMetrics = ":9090"
	c.DatabaseDSN = ""
	c.ServerKeyFile = "keys/server_keys.json"
	c.SecretKey = "secretKey"
	c.AdminTokenValidityDuration = 15 * time.Minute
	c.OpenRegistration = true
	c.SlotInterval = 10 * time.Second
	c.Grace = 30 * time.Second
	c.ReuseWindow = 300 * time.Second
	c.ReplayCompactionInterval = time.Minute
	c.TimeZone = "Local"
	c.RateLimitRPS = 20
	c.RateLimitBurst = 40
	c.LogLevel = "info"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "attendance"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// Validate rejects timing settings the protocol cannot work with.
func (c *Config) Validate() error {
	if c.SlotInterval < time.Second {
		return errors.New("slot interval must be at least 1s")
	}
	if c.Grace < 0 {
		return errors.New("grace must not be negative")
	}
	if c.ReuseWindow <= 0 {
		return errors.New("reuse window must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TimeZone. "Local" and "" map to time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
