package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5, cfg.DBMaxIdleConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 168*time.Hour, cfg.BookingTokenMaxTTL)
				assert.Equal(t, 8760*time.Hour, cfg.RecordTokenMaxTTL)
				assert.Equal(t, 3, cfg.IssueMaxAttempts)
				assert.Equal(t, 3*time.Second, cfg.StoreTimeout)
				assert.Equal(t, 3, cfg.StoreRetryAttempts)
				assert.Equal(t, 100*time.Millisecond, cfg.StoreRetryBackoff)
				assert.Equal(t, 10, cfg.RecordFetchLimit)
				assert.Equal(t, 50, cfg.AccessLogListLimit)
				assert.True(t, cfg.RateLimitEnabled)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom token policy configuration",
			envVars: map[string]string{
				"BOOKING_TOKEN_MAX_TTL_HOURS": "24",
				"RECORD_TOKEN_MAX_TTL_HOURS":  "72",
				"ISSUE_MAX_ATTEMPTS":          "5",
				"STORE_RETRY_ATTEMPTS":        "2",
				"RECORD_FETCH_LIMIT":          "5",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 24*time.Hour, cfg.BookingTokenMaxTTL)
				assert.Equal(t, 72*time.Hour, cfg.RecordTokenMaxTTL)
				assert.Equal(t, 5, cfg.IssueMaxAttempts)
				assert.Equal(t, 2, cfg.StoreRetryAttempts)
				assert.Equal(t, 5, cfg.RecordFetchLimit)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg := Load()
			tt.validate(t, cfg)

			for key := range tt.envVars {
				os.Unsetenv(key)
			}
		})
	}
}

func TestMaxTTLForScope(t *testing.T) {
	cfg := &Config{
		BookingTokenMaxTTL: 168 * time.Hour,
		RecordTokenMaxTTL:  8760 * time.Hour,
	}

	assert.Equal(t, 8760*time.Hour, cfg.MaxTTLForScope("read_health_record"))
	assert.Equal(t, 168*time.Hour, cfg.MaxTTLForScope("booking_with_doctor"))
	// Unknown scopes get the stricter ceiling
	assert.Equal(t, 168*time.Hour, cfg.MaxTTLForScope("something_else"))
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		want     string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, cfg.GetGinMode())
		})
	}
}
