package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, "http://localhost:8080", cfg.Backend.URL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, StoreFile, cfg.Credential.Store)
	assert.Equal(t, "admin-console:", cfg.Redis.Prefix)
	assert.False(t, cfg.Audit.Enabled)
	assert.Equal(t, 2, cfg.Audit.Workers)
	assert.Equal(t, "admin_console", cfg.Mongo.Database)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"BACKEND_URL":      "https://api.example.com",
		"BACKEND_TIMEOUT":  "3s",
		"PAGE_SIZE":        "25",
		"CREDENTIAL_STORE": "redis",
		"AUDIT_ENABLED":    "true",
		"LOG_PRETTY":       "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.Backend.URL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, StoreRedis, cfg.Credential.Store)
	assert.True(t, cfg.Audit.Enabled)
	assert.True(t, cfg.LogPretty)
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"page size":   {"PAGE_SIZE": "500"},
		"backend url": {"BACKEND_URL": "ftp://x"},
		"store":       {"CREDENTIAL_STORE": "vault"},
		"not a bool":  {"LOG_PRETTY": "maybe"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}
