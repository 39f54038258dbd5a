package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/flagx"
	"github.com/dmitrijs2005/gophattend/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations use
// timex.Duration, so both "10s" and integer nanoseconds are accepted.
// Pointer fields distinguish "absent" from an explicit zero value.
type FileConfig struct {
	EndpointAddrGRPC           string          `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	EndpointAddrMetrics        *string         `json:"endpoint_addr_metrics" yaml:"endpoint_addr_metrics"`
	DatabaseDSN                *string         `json:"database_dsn" yaml:"database_dsn"`
	ServerKeyFile              string          `json:"server_key_file" yaml:"server_key_file"`
	KeyPassphrase              string          `json:"key_passphrase" yaml:"key_passphrase"`
	SecretKey                  string          `json:"secret_key" yaml:"secret_key"`
	AdminTokenValidityDuration *timex.Duration `json:"admin_token_validity_duration" yaml:"admin_token_validity_duration"`
	OpenRegistration           *bool           `json:"open_registration" yaml:"open_registration"`
	SlotInterval               *timex.Duration `json:"slot_interval" yaml:"slot_interval"`
	Grace                      *timex.Duration `json:"grace" yaml:"grace"`
	ReuseWindow                *timex.Duration `json:"reuse_window" yaml:"reuse_window"`
	ReplayCompactionInterval   *timex.Duration `json:"replay_compaction_interval" yaml:"replay_compaction_interval"`
	TimeZone                   string          `json:"time_zone" yaml:"time_zone"`
	RateLimitRPS               *float64        `json:"rate_limit_rps" yaml:"rate_limit_rps"`
	RateLimitBurst             *int            `json:"rate_limit_burst" yaml:"rate_limit_burst"`
	LogLevel                   string          `json:"log_level" yaml:"log_level"`
	S3RootUser                 string          `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword             string          `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                   string          `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                   string          `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint             string          `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
}

// parseFile loads configuration values from the file named by -c or
// -config into cfg. Files ending in .yaml or .yml are decoded as YAML,
// anything else as JSON. Only keys present in the file override cfg.
// A missing or malformed file panics, as misconfiguration is fatal at
// startup.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	setString(&cfg.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	if fc.EndpointAddrMetrics != nil {
		cfg.EndpointAddrMetrics = *fc.EndpointAddrMetrics
	}
	if fc.DatabaseDSN != nil {
		cfg.DatabaseDSN = *fc.DatabaseDSN
	}
	setString(&cfg.ServerKeyFile, fc.ServerKeyFile)
	setString(&cfg.KeyPassphrase, fc.KeyPassphrase)
	setString(&cfg.SecretKey, fc.SecretKey)
	if fc.OpenRegistration != nil {
		cfg.OpenRegistration = *fc.OpenRegistration
	}
	setString(&cfg.TimeZone, fc.TimeZone)
	if fc.RateLimitRPS != nil {
		cfg.RateLimitRPS = *fc.RateLimitRPS
	}
	if fc.RateLimitBurst != nil {
		cfg.RateLimitBurst = *fc.RateLimitBurst
	}
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.S3RootUser, fc.S3RootUser)
	setString(&cfg.S3RootPassword, fc.S3RootPassword)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)

	durations := []struct {
		dst *time.Duration
		src *timex.Duration
	}{
		{&cfg.AdminTokenValidityDuration, fc.AdminTokenValidityDuration},
		{&cfg.SlotInterval, fc.SlotInterval},
		{&cfg.Grace, fc.Grace},
		{&cfg.ReuseWindow, fc.ReuseWindow},
		{&cfg.ReplayCompactionInterval, fc.ReplayCompactionInterval},
	}
	for _, d := range durations {
		if d.src != nil {
			*d.dst = d.src.Duration
		}
	}
}
