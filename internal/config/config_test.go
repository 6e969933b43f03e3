package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMemoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_STORE", StoreMemory)
	t.Setenv("JWT_SECRET_KEY", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setMemoryEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "Asia/Kolkata", cfg.Payroll.Timezone)
	assert.True(t, decimal.NewFromInt(8).Equal(cfg.Payroll.ShiftHours))
	assert.True(t, decimal.RequireFromString("1.5").Equal(cfg.Payroll.OvertimeMultiplier))
	assert.Equal(t, 3, cfg.Database.TxMaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
	assert.Empty(t, cfg.Redis.Address)
	assert.Empty(t, cfg.App.AllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	setMemoryEnv(t)
	t.Setenv("PAYROLL_TIMEZONE", "UTC")
	t.Setenv("PAYROLL_SHIFT_HOURS", "9")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://erp.example.com, ,https://site.example.com")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.UTC, cfg.Payroll.Location)
	assert.True(t, decimal.NewFromInt(9).Equal(cfg.Payroll.ShiftHours))
	assert.Equal(t, []string{"https://erp.example.com", "https://site.example.com"}, cfg.App.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown store", map[string]string{"APP_STORE": "sqlite"}},
		{"postgres without password", map[string]string{"APP_STORE": StorePostgres, "DB_PASSWORD": ""}},
		{"missing jwt secret", map[string]string{"JWT_SECRET_KEY": ""}},
		{"bad timezone", map[string]string{"PAYROLL_TIMEZONE": "Mars/Olympus"}},
		{"zero shift", map[string]string{"PAYROLL_SHIFT_HOURS": "0"}},
		{"overtime below one", map[string]string{"PAYROLL_OVERTIME_MULTIPLIER": "0.5"}},
		{"bad lock ttl", map[string]string{"REDIS_LOCK_TTL": "soon"}},
		{"no tx attempts", map[string]string{"DB_TX_MAX_ATTEMPTS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setMemoryEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
