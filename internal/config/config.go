package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"census-app-go/pkg/logger"
)

const (
	StorageDriverLocal = "local"
	StorageDriverGCS   = "gcs"
)

var ErrMissingJWTSecret = errors.New("AUTH_JWT_SECRET is required outside development")

type Config struct {
	HTTPPort       string
	Env            string
	AllowedOrigins []string
	MetricsEnabled bool
	DB             DBConfig
	Auth           AuthConfig
	Storage        StorageConfig
	Evidence       EvidenceConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	CookieName   string
	CookieSecure bool
	LoginRate    float64
	LoginBurst   int
}

type StorageConfig struct {
	Driver         string
	PublicDir      string
	PublicBaseURL  string
	ServiceBaseURL string
	GCSBucket      string
}

type EvidenceConfig struct {
	MaxPhotoBytes int64
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "census_app"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("AUTH_JWT_SECRET", ""),
			TokenTTL:     getEnvDuration("AUTH_TOKEN_TTL", 12*time.Hour),
			CookieName:   getEnv("AUTH_COOKIE_NAME", "access_token"),
			CookieSecure: getEnvBool("AUTH_COOKIE_SECURE", false),
			LoginRate:    getEnvFloat("AUTH_LOGIN_RATE", 0.2),
			LoginBurst:   getEnvInt("AUTH_LOGIN_BURST", 5),
		},
		Storage: StorageConfig{
			Driver:         strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverLocal)),
			PublicDir:      getEnv("STORAGE_PUBLIC_DIR", "public"),
			PublicBaseURL:  getEnv("STORAGE_PUBLIC_BASE_URL", ""),
			ServiceBaseURL: getEnv("STORAGE_SERVICE_BASE_URL", "/storage"),
			GCSBucket:      getEnv("STORAGE_GCS_BUCKET", ""),
		},
		Evidence: EvidenceConfig{
			MaxPhotoBytes: int64(getEnvInt("EVIDENCE_MAX_PHOTO_BYTES", 5*1024*1024)),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.Env != "development" {
			return Config{}, ErrMissingJWTSecret
		}
		log.Warn("config: AUTH_JWT_SECRET not set, using development secret")
		cfg.Auth.JWTSecret = "development-only-secret"
	}

	if cfg.Storage.Driver == StorageDriverGCS && cfg.Storage.GCSBucket == "" {
		return Config{}, fmt.Errorf("STORAGE_GCS_BUCKET is required for storage driver %q", StorageDriverGCS)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
