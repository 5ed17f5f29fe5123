package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the server
type Config struct {
	// Servers
	Port     string
	GRPCPort string
	AppEnv   string

	// Database
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	MigrateOnStart    bool

	// Auth
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// HTTP
	AllowedOrigins string
	RequestTimeout time.Duration

	LogLevel string

	// Dashboard
	DashboardTimezone string

	// Rate limiting
	RateLimitBackend   string
	RateLimitPerMinute int
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
}

// Load reads an optional .env file and then the process environment
// A missing .env file is not an error
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "3000"),
		GRPCPort: getEnv("GRPC_PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "development"),

		DatabaseURL:       databaseURL(),
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		MigrateOnStart:    getEnvBool("MIGRATE_ON_START", true),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTAccessExpiry:  getEnvDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry: getEnvDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		DashboardTimezone: getEnv("DASHBOARD_TIMEZONE", "UTC"),

		RateLimitBackend:   getEnv("RATE_LIMIT_BACKEND", "memory"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 20),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
	}
}

// databaseURL prefers DATABASE_URL and otherwise builds a DSN from the DB_* pieces (Docker friendly)
func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "ledgerflow"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

// Location resolves DashboardTimezone. Call Validate first.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DashboardTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Origins splits AllowedOrigins on commas
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// IsDevelopment reports whether APP_ENV is development
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Validate validates the configuration and returns an error listing every problem
func (c *Config) Validate() error {
	var errors []string

	for name, port := range map[string]string{"PORT": c.Port, "GRPC_PORT": c.GRPCPort} {
		if p, err := strconv.Atoi(port); err != nil {
			errors = append(errors, fmt.Sprintf("invalid %s '%s': must be a number", name, port))
		} else if p < 1 || p > 65535 {
			errors = append(errors, fmt.Sprintf("invalid %s %d: must be between 1 and 65535", name, p))
		}
	}

	if !oneOf(c.AppEnv, "development", "production", "test") {
		errors = append(errors, fmt.Sprintf("invalid APP_ENV '%s': must be one of development, production, test", c.AppEnv))
	}

	if c.DBMaxOpenConns < 1 {
		errors = append(errors, fmt.Sprintf("invalid DB_MAX_OPEN_CONNS %d: must be at least 1", c.DBMaxOpenConns))
	}
	if c.DBMaxIdleConns < 0 || c.DBMaxIdleConns > c.DBMaxOpenConns {
		errors = append(errors, fmt.Sprintf("invalid DB_MAX_IDLE_CONNS %d: must be between 0 and DB_MAX_OPEN_CONNS", c.DBMaxIdleConns))
	}

	if len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET must be at least 32 characters")
	}
	if c.JWTAccessExpiry <= 0 {
		errors = append(errors, "JWT_ACCESS_EXPIRY must be positive")
	}
	if c.JWTRefreshExpiry <= c.JWTAccessExpiry {
		errors = append(errors, "JWT_REFRESH_EXPIRY must be longer than JWT_ACCESS_EXPIRY")
	}

	if len(c.Origins()) == 0 {
		errors = append(errors, "ALLOWED_ORIGINS must list at least one origin")
	}
	if c.RequestTimeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid REQUEST_TIMEOUT %v: must be at least 100ms", c.RequestTimeout))
	}

	if !oneOf(c.LogLevel, "debug", "info", "warn", "error") {
		errors = append(errors, fmt.Sprintf("invalid LOG_LEVEL '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if _, err := time.LoadLocation(c.DashboardTimezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid DASHBOARD_TIMEZONE '%s': %v", c.DashboardTimezone, err))
	}

	if !oneOf(c.RateLimitBackend, "memory", "redis") {
		errors = append(errors, fmt.Sprintf("invalid RATE_LIMIT_BACKEND '%s': must be memory or redis", c.RateLimitBackend))
	}
	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid RATE_LIMIT_PER_MINUTE %d: must be at least 1", c.RateLimitPerMinute))
	}
	if c.RateLimitBackend == "redis" && c.RedisAddr == "" {
		errors = append(errors, "REDIS_ADDR is required when RATE_LIMIT_BACKEND is redis")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations plus a whole-day suffix ("7d")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// ParseDuration is time.ParseDuration extended with a "d" (24h) unit for whole days
func ParseDuration(value string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid day duration %q", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(value)
}
