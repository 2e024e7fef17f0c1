package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - http",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "single service - sweeper",
			input:    "sweeper",
			expected: map[ServiceMode]bool{ServiceModeSweeper: true},
		},
		{
			name:  "both services",
			input: "http,sweeper",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:    true,
				ServiceModeSweeper: true,
			},
		},
		{
			name:  "services with spaces",
			input: " http , sweeper ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:    true,
				ServiceModeSweeper: true,
			},
		},
		{
			name:  "duplicate services",
			input: "http,http",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP: true,
			},
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "only commas",
			input:       ",,,",
			expectError: true,
		},
		{
			name:        "invalid service",
			input:       "http,reaper",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseServices(tt.input)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAppConfigDefaults(t *testing.T) {
	t.Setenv("AUTH_SIGNING_SECRET", "test-secret")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "http://localhost:8080", cfg.HTTP.BaseURL)
	assert.Equal(t, "http", cfg.Services)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.SSOTokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, StorageBackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, SessionStoreBackend, cfg.Storage.Sessions)
	assert.Equal(t, time.Hour, cfg.Sweeper.Interval)
	assert.True(t, cfg.IsHTTPServerEnabled())
	assert.False(t, cfg.IsSweeperEnabled())
}

func TestAppConfigRequiresSigningSecret(t *testing.T) {
	var cfg AppConfig
	err := env.Parse(&cfg)
	require.Error(t, err)
}

func TestAuthConfigSanitize(t *testing.T) {
	a := AuthConfig{
		SessionTTL:  time.Second,
		SSOTokenTTL: 2 * time.Hour,
		BcryptCost:  99,
	}
	a.Sanitize()

	assert.Equal(t, 24*time.Hour, a.SessionTTL)
	assert.Equal(t, 5*time.Minute, a.SSOTokenTTL)
	assert.Equal(t, 10, a.BcryptCost)
}

func TestStorageConfigSanitize(t *testing.T) {
	s := StorageConfig{Backend: "bogus", Sessions: "bogus"}
	s.Sanitize()

	assert.Equal(t, StorageBackendPostgres, s.Backend)
	assert.Equal(t, SessionStoreBackend, s.Sessions)
	require.NoError(t, s.Validate())
}

func TestSweeperConfigSanitize(t *testing.T) {
	s := SweeperConfig{Interval: time.Second, Timeout: -1}
	s.Sanitize()

	assert.Equal(t, time.Minute, s.Interval)
	assert.Equal(t, time.Minute, s.Timeout)
}
