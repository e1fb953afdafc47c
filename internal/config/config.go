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

const defaultJWTSecret = "dev-secret"

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Mongo        MongoConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	OTP          OTPConfig
	Notification NotificationConfig
	Storage      StorageConfig
	Identifier   IdentifierConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSOrigins           string
}

// MongoConfig holds the document store connection values.
type MongoConfig struct {
	URI            string
	Database       string
	TimeoutSeconds int
}

// PostgresConfig holds DB connection values for the audit trail.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
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
	AdminEmail            string
	AdminPassword         string
	AdminName             string
}

// OTPConfig controls one-time code issuance.
type OTPConfig struct {
	Length         int
	ValidityWindow time.Duration
	// ExposeCode returns issued codes in API responses. Development only.
	ExposeCode bool
}

// NotificationConfig holds outbound email and SMS credentials. Empty keys
// fall back to log-only delivery.
type NotificationConfig struct {
	SendGridAPIKey   string
	EmailFrom        string
	EmailFromName    string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	SMSCountryPrefix string
}

// StorageConfig selects where uploaded documents are kept.
type StorageConfig struct {
	Driver         string
	Bucket         string
	Region         string
	LocalDir       string
	PresignTTL     time.Duration
	MaxUploadBytes int64
}

// IdentifierConfig shapes generated worker identifiers.
type IdentifierConfig struct {
	Prefix      string
	MaxAttempts int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "worker-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSOrigins:           getEnv("CORS_ORIGINS", "*"),
		},
		Mongo: MongoConfig{
			URI:            os.Getenv("MONGO_URI"),
			Database:       getEnv("MONGO_DATABASE", "worker_portal"),
			TimeoutSeconds: getEnvAsInt("MONGO_TIMEOUT_SECONDS", 10),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", defaultJWTSecret),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 7*24*60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			AdminEmail:            strings.ToLower(os.Getenv("ADMIN_EMAIL")),
			AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
			AdminName:             getEnv("ADMIN_NAME", "Portal Admin"),
		},
		OTP: OTPConfig{
			Length:         getEnvAsInt("OTP_LENGTH", 6),
			ValidityWindow: getEnvAsDuration("OTP_VALIDITY_WINDOW", 10*time.Minute),
			ExposeCode:     getEnvAsBool("OTP_EXPOSE_CODE", false),
		},
		Notification: NotificationConfig{
			SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
			EmailFrom:        getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			EmailFromName:    getEnv("NOTIFY_EMAIL_FROM_NAME", "Worker Portal"),
			TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
			SMSCountryPrefix: getEnv("SMS_COUNTRY_PREFIX", "+91"),
		},
		Storage: StorageConfig{
			Driver:         getEnv("STORAGE_DRIVER", "local"),
			Bucket:         os.Getenv("S3_BUCKET"),
			Region:         getEnv("AWS_REGION", "ap-south-1"),
			LocalDir:       getEnv("STORAGE_LOCAL_DIR", "uploads"),
			PresignTTL:     getEnvAsDuration("STORAGE_PRESIGN_TTL", 15*time.Minute),
			MaxUploadBytes: int64(getEnvAsInt("STORAGE_MAX_UPLOAD_BYTES", 5*1024*1024)),
		},
		Identifier: IdentifierConfig{
			Prefix:      getEnv("WORKER_ID_PREFIX", "TN"),
			MaxAttempts: getEnvAsInt("WORKER_ID_MAX_ATTEMPTS", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that are unsafe or unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.App.IsProduction() {
		if c.Auth.JWTSecret == defaultJWTSecret {
			errs = append(errs, errors.New("AUTH_JWT_SECRET must be set in production"))
		}
		if c.OTP.ExposeCode {
			errs = append(errs, errors.New("OTP_EXPOSE_CODE must be disabled in production"))
		}
	}
	if c.OTP.ValidityWindow <= 0 {
		errs = append(errs, errors.New("OTP_VALIDITY_WINDOW must be positive"))
	}
	if c.OTP.Length < 4 || c.OTP.Length > 10 {
		errs = append(errs, fmt.Errorf("OTP_LENGTH must be between 4 and 10, got %d", c.OTP.Length))
	}
	if c.Identifier.MaxAttempts <= 0 {
		errs = append(errs, errors.New("WORKER_ID_MAX_ATTEMPTS must be positive"))
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for the s3 storage driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}
	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsProduction reports whether the service runs in a production environment.
func (a AppConfig) IsProduction() bool {
	env := strings.ToLower(a.Env)
	return env == "production" || env == "prod"
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the Mongo connect/operation timeout.
func (m MongoConfig) Timeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
