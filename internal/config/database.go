package config

import (
	"fmt"
	"strconv"
	"time"

	"bookcatalog/internal/infrastructure/database"
)

// LoadDatabaseConfig reads pool settings on top of the connection settings in c.
// Unlike Load it fails on values that do not parse.
func (c *Config) LoadDatabaseConfig() (*database.DBConfig, error) {
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNECTIONS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNECTIONS: %w", err)
	}

	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNECTIONS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNECTIONS: %w", err)
	}

	maxRetries, err := strconv.Atoi(getEnv("DB_MAX_RETRIES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_RETRIES: %w", err)
	}

	var maxConnLifetime, maxConnIdleTime, healthCheckPeriod, retryDelay, connectTimeout time.Duration
	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"DB_MAX_CONN_LIFETIME", "5m", &maxConnLifetime},
		{"DB_MAX_CONN_IDLE_TIME", "1m", &maxConnIdleTime},
		{"DB_HEALTH_CHECK_PERIOD", "1m", &healthCheckPeriod},
		{"DB_RETRY_DELAY", "1s", &retryDelay},
		{"DB_CONNECT_TIMEOUT", "10s", &connectTimeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = v
	}

	return &database.DBConfig{
		Host:              c.Database.Host,
		Port:              c.Database.Port,
		Username:          c.Database.User,
		Password:          c.Database.Password,
		DBName:            c.Database.Database,
		SSLMode:           c.Database.SSLMode,
		MaxConns:          int32(maxConns),
		MinConns:          int32(minConns),
		MaxConnLifetime:   maxConnLifetime,
		MaxConnIdleTime:   maxConnIdleTime,
		HealthCheckPeriod: healthCheckPeriod,
		MaxRetries:        maxRetries,
		RetryDelay:        retryDelay,
		ConnectTimeout:    connectTimeout,
	}, nil
}
