package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	// Act - no config file exists in the search paths
	cfg, err := config.LoadConfig("")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "orders.db", cfg.Database.Path)
	assert.Equal(t, 25, cfg.Database.Pool.MaxOpen)
	assert.Equal(t, 5, cfg.Database.Pool.MaxIdle)
	assert.Equal(t, 5*time.Minute, cfg.Database.Pool.MaxLifetime)
	assert.Equal(t, "https://payments.example.com/v1", cfg.Payments.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Payments.Timeout)
	assert.Equal(t, 10, cfg.Payments.RateLimit.Requests)
	assert.Equal(t, 20, cfg.Payments.RateLimit.Burst)
	assert.Equal(t, 3, cfg.Payments.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Payments.Retry.BackoffBase)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestLoadConfig_ReadsConfigFile(t *testing.T) {
	// Arrange
	path := writeConfigFile(t, `
database:
  type: postgres
  host: db.internal
  port: 5433
  user: svc
  password: secret
  name: orders_prod
  sslmode: require
payments:
  base_url: https://pay.internal/v2
  timeout: 10s
  rate_limit:
    requests: 50
    burst: 100
  retry:
    max_attempts: 5
    backoff_base: 250ms
logging:
  level: debug
  format: json
  output: stderr
`)

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "svc", cfg.Database.User)
	assert.Equal(t, "orders_prod", cfg.Database.Name)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, "https://pay.internal/v2", cfg.Payments.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Payments.Timeout)
	assert.Equal(t, 50, cfg.Payments.RateLimit.Requests)
	assert.Equal(t, 100, cfg.Payments.RateLimit.Burst)
	assert.Equal(t, 5, cfg.Payments.Retry.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Payments.Retry.BackoffBase)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)

	// Pool settings were not in the file, so defaults fill them
	assert.Equal(t, 25, cfg.Database.Pool.MaxOpen)
	assert.Equal(t, 5, cfg.Database.Pool.MaxIdle)
}

func TestLoadConfig_DatabaseURLTakesPrecedence(t *testing.T) {
	// Arrange
	path := writeConfigFile(t, `
database:
  type: postgres
  url: postgresql://file-user@file-host:5432/orders
`)
	t.Setenv("DATABASE_URL", "postgresql://env-user@env-host:5432/orders")

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "postgresql://env-user@env-host:5432/orders", cfg.Database.URL)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	// Arrange
	path := writeConfigFile(t, `
database:
  type: mysql
`)

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "invalid configuration")
	assert.ErrorContains(t, err, "field 'Type' failed validation: oneof")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	// Act - an explicit path is not optional, unlike the search paths
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestValidateConfig_ReportsEveryFailingField(t *testing.T) {
	// Arrange
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Logging.Level = "verbose"
	cfg.Payments.RateLimit.Burst = -1

	// Act
	err := config.ValidateConfig(cfg)

	// Assert
	require.Error(t, err)
	assert.ErrorContains(t, err, "field 'Level' failed validation: oneof")
	assert.ErrorContains(t, err, "field 'Burst' failed validation: min")
}
