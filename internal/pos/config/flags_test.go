package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	tests := []struct {
		name        string
		args        []string
		expectPanic bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "endpoint and interval",
			args: []string{"cmd", "-a", "http://10.0.0.1:9090", "-i", "10"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://10.0.0.1:9090", cfg.RemoteEndpoint)
				assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
			},
		},
		{
			name: "database path and demo mode",
			args: []string{"cmd", "-f", "/tmp/test.db", "-demo"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
				assert.True(t, cfg.DemoMode)
			},
		},
		{
			name:        "incorrect check interval",
			args:        []string{"cmd", "-i", "abc"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			cfg := &Config{}
			cfg.LoadDefaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}

			require.NotPanics(t, func() { parseFlags(cfg) })
			tt.check(t, cfg)
		})
	}
}
