package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/flori/fittrack/internal/domain"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	MongoDB     MongoDBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	OTEL        OTELConfig
	S3          S3Config
	Calendar    CalendarConfig
	Log         LogConfig
	Idempotency IdempotencyConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        string
	BodyLimitKB int64
}

// MongoDBConfig holds MongoDB connection configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
}

// JWTConfig holds access token settings
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// OTELConfig holds OpenTelemetry exporter configuration
type OTELConfig struct {
	Enabled        bool
	Endpoint       string
	ServiceName    string
	ServiceVersion string
	Environment    string
	InstanceID     string
	Token          string
}

// S3Config holds the S3-compatible storage used for exports.
// An empty Endpoint disables exports.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// CalendarConfig holds the calendar and week settings.
type CalendarConfig struct {
	EpochRaw     string
	WeekStartRaw string
	TimezoneRaw  string

	// Parsed by Validate
	Epoch     domain.Month
	WeekStart time.Weekday
	Location  *time.Location
}

// LogConfig holds logrus settings
type LogConfig struct {
	Level  string
	File   string
	JSON   bool
	Stdout bool
}

// IdempotencyConfig holds the replay cache settings
type IdempotencyConfig struct {
	TTL time.Duration
}

// Load reads configuration from environment variables
// It attempts to load from .env file first, then falls back to system env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			BodyLimitKB: getEnvAsInt64("BODY_LIMIT_KB", 256),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "fittrack"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", ""),
			AccessTokenExpiry: time.Duration(getEnvAsInt64("JWT_ACCESS_TOKEN_EXPIRY_HOURS", 24*7)) * time.Hour,
		},
		OTEL: OTELConfig{
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "fittrack-api"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "0.1.0"),
			Environment:    getEnv("OTEL_ENVIRONMENT", "development"),
			InstanceID:     getEnv("OTEL_INSTANCE_ID", ""),
			Token:          getEnv("OTEL_TOKEN", ""),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Bucket:    getEnv("S3_BUCKET", "fittrack-exports"),
			AccessKey: getEnv("S3_ACCESS_KEY", "any"),
			SecretKey: getEnv("S3_SECRET_KEY", "any"),
		},
		Calendar: CalendarConfig{
			EpochRaw:     getEnv("CALENDAR_EPOCH", "2025-01"),
			WeekStartRaw: getEnv("WEEK_START", "Monday"),
			TimezoneRaw:  getEnv("APP_TIMEZONE", "UTC"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			File:   getEnv("LOG_FILE", ""),
			JSON:   getEnvAsBool("LOG_JSON", false),
			Stdout: getEnvAsBool("LOG_STDOUT", true),
		},
		Idempotency: IdempotencyConfig{
			TTL: time.Duration(getEnvAsInt64("IDEMPOTENCY_TTL_SECONDS", 24*60*60)) * time.Second,
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and parses the calendar settings
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		return fmt.Errorf("JWT_ACCESS_TOKEN_EXPIRY_HOURS must be positive")
	}
	return c.Calendar.parse()
}

func (c *CalendarConfig) parse() error {
	epoch, err := domain.ParseMonth(c.EpochRaw)
	if err != nil {
		return fmt.Errorf("CALENDAR_EPOCH: %w", err)
	}
	weekStart, err := domain.ParseWeekday(c.WeekStartRaw)
	if err != nil {
		return fmt.Errorf("WEEK_START: %w", err)
	}
	loc, err := time.LoadLocation(c.TimezoneRaw)
	if err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}

	c.Epoch = epoch
	c.WeekStart = weekStart
	c.Location = loc
	return nil
}

// Defaults returns the calendar settings used when nothing is configured
func (c CalendarConfig) Defaults() CalendarConfig {
	if c.Location != nil {
		return c
	}
	return CalendarConfig{
		EpochRaw:     "2025-01",
		WeekStartRaw: "Monday",
		TimezoneRaw:  "UTC",
		Epoch:        domain.Month{Year: 2025, Month: time.January},
		WeekStart:    time.Monday,
		Location:     time.UTC,
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 retrieves an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool accepts true/false, 1/0, yes/no
func getEnvAsBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
