package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsAndOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("AUTH_TOKEN_TTL", "30m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example/,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 30*time.Minute, cfg.AuthTokenTTL)
	assert.Equal(t, "https://a.example/,https://b.example", cfg.AllowedOrigins)
	assert.True(t, cfg.OpenAPIValidation)
	assert.Equal(t, 32, cfg.WSSendBuffer)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=ordertracker sslmode=disable", cfg.PostgresDSN())
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{AuthSecret: "x", StoreDriver: StoreDriverPostgres, AuthTokenTTL: time.Hour}
	require.NoError(t, valid.Validate())

	invalid := Config{StoreDriver: "mysql", AdminEmail: "root@example.com"}
	err := invalid.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_SECRET")
	assert.Contains(t, err.Error(), "STORE_DRIVER")
	assert.Contains(t, err.Error(), "AUTH_TOKEN_TTL")
	assert.Contains(t, err.Error(), "ADMIN_EMAIL and ADMIN_PASSWORD")
}
