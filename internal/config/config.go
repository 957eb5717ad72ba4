package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names a storage implementation behind the repositories.
type Backend string

const (
	BackendSheet    Backend = "sheet"
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Backend      Backend
	Sheet        SheetConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Seed         SeedConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	Timezone              string
	Locale                string
	CORSAllowOrigins      string
}

// SheetConfig points at the spreadsheet-backed action endpoint.
type SheetConfig struct {
	ScriptURL      string
	TimeoutSeconds int
	MaxRedirects   int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	MinPasswordLength     int
}

// SeedConfig describes the accounts created for the memory and postgres backends.
type SeedConfig struct {
	AdminUsername string
	AdminPassword string
	AdminName     string

	// Divisions get one account each, username = lowercased division.
	Divisions        []string
	DivisionPassword string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
// envFile is loaded first when it exists; variables already set in the
// environment take precedence.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			Timezone:              getEnv("APP_TIMEZONE", "Local"),
			Locale:                getEnv("APP_LOCALE", "id"),
			CORSAllowOrigins:      getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Backend: Backend(strings.ToLower(getEnv("BACKEND", string(BackendMemory)))),
		Sheet: SheetConfig{
			ScriptURL:      os.Getenv("SHEET_SCRIPT_URL"),
			TimeoutSeconds: getEnvAsInt("SHEET_TIMEOUT_SECONDS", 15),
			MaxRedirects:   getEnvAsInt("SHEET_MAX_REDIRECTS", 5),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 480),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			MinPasswordLength:     getEnvAsInt("AUTH_MIN_PASSWORD_LENGTH", 6),
		},
		Seed: SeedConfig{
			AdminUsername:    getEnv("SEED_ADMIN_USERNAME", "admin"),
			AdminPassword:    getEnv("SEED_ADMIN_PASSWORD", "admin123"),
			AdminName:        getEnv("SEED_ADMIN_NAME", "Administrator"),
			Divisions:        getEnvAsList("SEED_DIVISIONS", []string{"Marketing", "Komersil", "Audit", "General Affair"}),
			DivisionPassword: getEnv("SEED_DIVISION_PASSWORD", "changeme"),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Validate rejects combinations the service cannot run with.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSheet:
		if strings.TrimSpace(c.Sheet.ScriptURL) == "" {
			return errors.New("SHEET_SCRIPT_URL is required for the sheet backend")
		}
	case BackendPostgres:
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			return errors.New("POSTGRES_DSN is required for the postgres backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown BACKEND %q", c.Backend)
	}
	if c.Auth.MinPasswordLength <= 0 {
		return errors.New("AUTH_MIN_PASSWORD_LENGTH must be positive")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Location resolves the timezone used for calendar-day date filters.
func (a AppConfig) Location() (*time.Location, error) {
	if a.Timezone == "" || strings.EqualFold(a.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(a.Timezone)
}

// Timeout returns the per-call timeout for the remote endpoint.
func (s SheetConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the lifetime of issued session tokens.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var items []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
