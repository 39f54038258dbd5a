package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/flagx"
	"github.com/dmitrijs2005/gophattend/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the current value untouched.
type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	KeyFile            *string         `json:"key_file"`
	JournalDSN         *string         `json:"journal_dsn"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	AccessToken        *string         `json:"access_token"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.KeyFile != nil {
		cfg.KeyFile = *jc.KeyFile
	}
	if jc.JournalDSN != nil {
		cfg.JournalDSN = *jc.JournalDSN
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.AccessToken != nil {
		cfg.AccessToken = *jc.AccessToken
	}
}
