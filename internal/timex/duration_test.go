package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_JSON(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		err  bool
	}{
		{`"10s"`, 10 * time.Second, false},
		{`"5m"`, 5 * time.Minute, false},
		{`1000000000`, time.Second, false},
		{`null`, 0, false},
		{`"ten"`, 0, true},
		{`true`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_JSONMarshal(t *testing.T) {
	b, err := json.Marshal(Duration{30 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"30s"`, string(b))
}

func TestDuration_YAML(t *testing.T) {
	var cfg struct {
		Grace Duration `yaml:"grace"`
		Raw   Duration `yaml:"raw"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("grace: 30s\nraw: 2000000000\n"), &cfg))
	assert.Equal(t, 30*time.Second, cfg.Grace.Duration)
	assert.Equal(t, 2*time.Second, cfg.Raw.Duration)
}

func TestFixedClock(t *testing.T) {
	at := time.Unix(1000, 0)
	assert.Equal(t, at, FixedClock(at)())
	assert.WithinDuration(t, time.Now(), SystemClock(), time.Second)
}
