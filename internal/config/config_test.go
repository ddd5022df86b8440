package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "default values",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "8080", cfg.Port)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, DefaultSourceURL, cfg.SourceURL)
				assert.Empty(t, cfg.SourcePath)
				assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
				assert.Zero(t, cfg.FetchMaxRetries)
				assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
			},
		},
		{
			name: "custom values",
			env: map[string]string{
				"PORT":              "9000",
				"LOG_LEVEL":         "debug",
				"SOURCE_PATH":       "calls.xlsx",
				"FETCH_TIMEOUT_SEC": "5",
				"FETCH_MAX_RETRIES": "3",
				"ALLOWED_ORIGINS":   "http://a.test, http://b.test,",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "9000", cfg.Port)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "calls.xlsx", cfg.SourcePath)
				assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
				assert.Equal(t, uint64(3), cfg.FetchMaxRetries)
				assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
			},
		},
		{
			name:    "invalid timeout",
			env:     map[string]string{"FETCH_TIMEOUT_SEC": "soon"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"FETCH_TIMEOUT_SEC": "-1"},
			wantErr: true,
		},
		{
			name:    "invalid retries",
			env:     map[string]string{"FETCH_MAX_RETRIES": "many"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"PORT", "LOG_LEVEL", "SOURCE_URL", "SOURCE_PATH", "FETCH_TIMEOUT_SEC", "FETCH_MAX_RETRIES", "ALLOWED_ORIGINS", "ENVIRONMENT"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
