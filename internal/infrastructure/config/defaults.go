package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "orders.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "orders"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "orders"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Payments defaults
	if cfg.Payments.BaseURL == "" {
		cfg.Payments.BaseURL = "https://payments.example.com/v1"
	}
	if cfg.Payments.Timeout == 0 {
		cfg.Payments.Timeout = 30 * time.Second
	}
	if cfg.Payments.RateLimit.Requests == 0 {
		cfg.Payments.RateLimit.Requests = 10
	}
	if cfg.Payments.RateLimit.Burst == 0 {
		cfg.Payments.RateLimit.Burst = 20
	}
	if cfg.Payments.Retry.MaxAttempts == 0 {
		cfg.Payments.Retry.MaxAttempts = 3
	}
	if cfg.Payments.Retry.BackoffBase == 0 {
		cfg.Payments.Retry.BackoffBase = 1 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
