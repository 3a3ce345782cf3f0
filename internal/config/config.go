package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/spec-kit/voting-service/internal/domain"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Ballot       BallotConfig
	ImageHost    ImageHostConfig
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
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level    string
	Encoding string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret              string
	AccessTokenTTLMinutes  int
	BcryptCost             int
	CookieSecure           bool
	BootstrapAdminUsername string
	BootstrapAdminPassword string
}

// BallotConfig bounds voter selections.
type BallotConfig struct {
	MaxSelections       int
	SelectionTTLMinutes int
}

// ImageHostConfig points at the unsigned upload endpoint for candidate photos.
type ImageHostConfig struct {
	UploadURL      string
	UploadPreset   string
	MaxBytes       int64
	TimeoutSeconds int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "voting-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Auth: AuthConfig{
			JWTSecret:              getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:  getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:             getEnvAsInt("AUTH_BCRYPT_COST", 12),
			CookieSecure:           getEnvAsBool("AUTH_COOKIE_SECURE", false),
			BootstrapAdminUsername: os.Getenv("BOOTSTRAP_ADMIN_USERNAME"),
			BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		},
		Ballot: BallotConfig{
			MaxSelections:       getEnvAsInt("BALLOT_MAX_SELECTIONS", domain.DefaultMaxSelections),
			SelectionTTLMinutes: getEnvAsInt("BALLOT_SELECTION_TTL_MINUTES", 120),
		},
		ImageHost: ImageHostConfig{
			UploadURL:      os.Getenv("IMAGE_UPLOAD_URL"),
			UploadPreset:   getEnv("IMAGE_UPLOAD_PRESET", "unsigned_voting"),
			MaxBytes:       int64(getEnvAsInt("IMAGE_MAX_BYTES", 5*1024*1024)),
			TimeoutSeconds: getEnvAsInt("IMAGE_UPLOAD_TIMEOUT_SECONDS", 60),
		},
		Notification: NotificationConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	if cfg.Ballot.MaxSelections <= 0 {
		return nil, fmt.Errorf("invalid BALLOT_MAX_SELECTIONS: %d", cfg.Ballot.MaxSelections)
	}

	return cfg, nil
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

// SelectionTTL is how long an unsubmitted selection survives between requests.
func (b BallotConfig) SelectionTTL() time.Duration {
	if b.SelectionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(b.SelectionTTLMinutes) * time.Minute
}

// Timeout returns the upload timeout.
func (i ImageHostConfig) Timeout() time.Duration {
	if i.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(i.TimeoutSeconds) * time.Second
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
