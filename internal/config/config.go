package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payroll  PayrollConfig
	Redis    RedisConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	// Attempts per unit of work before a serialization failure is returned
	TxMaxAttempts int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Store          string
	AllowedOrigins []string

	// JSON worker list loaded into the memory store at startup
	SeedWorkersFile string
}

// PayrollConfig holds the rules wage calculations run on
type PayrollConfig struct {
	Timezone           string
	Location           *time.Location
	ShiftHours         decimal.Decimal
	OvertimeMultiplier decimal.Decimal
}

// RedisConfig is optional; leave REDIS_ADDRESS empty to run without a distributed lock
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	LockTTL  time.Duration
}

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

func Load() (*Config, error) {
	// .env is a development convenience; deployed environments set real variables.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	txAttempts, err := strconv.Atoi(getEnv("DB_TX_MAX_ATTEMPTS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_TX_MAX_ATTEMPTS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:          getEnv("DB_HOST", "localhost"),
		Port:          dbPort,
		User:          getEnv("DB_USER", "postgres"),
		Password:      getEnv("DB_PASSWORD", ""),
		Name:          getEnv("DB_NAME", "labour_ledger"),
		SSLMode:       getEnv("DB_SSL_MODE", "disable"),
		TxMaxAttempts: txAttempts,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Store:          getEnv("APP_STORE", StorePostgres),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),

		SeedWorkersFile: getEnv("APP_SEED_WORKERS_FILE", ""),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Payroll configuration
	timezone := getEnv("PAYROLL_TIMEZONE", "Asia/Kolkata")
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_TIMEZONE: %w", err)
	}
	shiftHours, err := decimal.NewFromString(getEnv("PAYROLL_SHIFT_HOURS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_SHIFT_HOURS: %w", err)
	}
	overtimeMultiplier, err := decimal.NewFromString(getEnv("PAYROLL_OVERTIME_MULTIPLIER", "1.5"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_OVERTIME_MULTIPLIER: %w", err)
	}

	config.Payroll = PayrollConfig{
		Timezone:           timezone,
		Location:           location,
		ShiftHours:         shiftHours,
		OvertimeMultiplier: overtimeMultiplier,
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	lockTTL, err := time.ParseDuration(getEnv("REDIS_LOCK_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_LOCK_TTL: %w", err)
	}

	config.Redis = RedisConfig{
		Address:  getEnv("REDIS_ADDRESS", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		LockTTL:  lockTTL,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.App.Store {
	case StorePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("APP_STORE must be %q or %q", StorePostgres, StoreMemory)
	}
	if c.Database.TxMaxAttempts < 1 {
		return fmt.Errorf("DB_TX_MAX_ATTEMPTS must be at least 1")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if !c.Payroll.ShiftHours.IsPositive() {
		return fmt.Errorf("PAYROLL_SHIFT_HOURS must be greater than zero")
	}
	if c.Payroll.OvertimeMultiplier.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("PAYROLL_OVERTIME_MULTIPLIER must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// LogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
