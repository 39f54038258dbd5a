package config

import "time"

// Config holds runtime settings for the holder CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the attendance gRPC endpoint.
//   - KeyFile: where the holder's key pair is stored (0600).
//   - JournalDSN: SQLite DSN of the local submission journal.
//   - RequestTimeout: deadline of a single RPC.
//   - AccessToken: admin JWT sent with list and export calls.
type Config struct {
	ServerEndpointAddr string
	KeyFile            string
	JournalDSN         string
	RequestTimeout     time.Duration
	AccessToken        string
}

// Flags lists every command-line flag this package owns, including the
// config file selectors.
var Flags = []string{"-a", "-k", "-j", "-t", "-token", "-c", "-config"}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.KeyFile = "gophattend_key.json"
	c.JournalDSN = "gophattend_journal.db"
	c.RequestTimeout = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
