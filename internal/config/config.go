package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort           = "8000"
	defaultUploadsDir     = "uploads"
	defaultJWTExpiration  = 7 * 24 * time.Hour
	defaultAllowedOrigins = "http://localhost:3000"
)

var (
	ErrDatabaseURLMissing = errors.New("database connection string not set (DATABASE_URL or DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	ErrJWTSecretMissing   = errors.New("JWT_SECRET not set in environment")
	ErrInvalidCORSOrigin  = errors.New("CORS_ALLOWED_ORIGINS must list origins of the form http(s)://host[:port]")
)

// Config is built once at startup and handed to every component
type Config struct {
	Port           string
	DB             DBConfig
	JWTSecret      string
	JWTExpiration  time.Duration
	UploadsDir     string
	AllowedOrigins []string
	AdminEmail     string
	RedisAddr      string
	RedisPassword  string
	OTLPEndpoint   string
	LogLevel       string
	LogFile        string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dbCfg, err := LoadDBConfig()
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrJWTSecretMissing
	}

	expiration := defaultJWTExpiration
	if raw := os.Getenv("JWT_EXPIRES_IN"); raw != "" {
		expiration, err = ParseExpiration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
		}
	}

	origins, err := parseOrigins(getEnv("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:           getEnv("PORT", defaultPort),
		DB:             *dbCfg,
		JWTSecret:      secret,
		JWTExpiration:  expiration,
		UploadsDir:     getEnv("UPLOADS_DIR", defaultUploadsDir),
		AllowedOrigins: origins,
		AdminEmail:     strings.ToLower(strings.TrimSpace(os.Getenv("INITIAL_ADMIN_EMAIL"))),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        os.Getenv("LOG_FILE"),
	}, nil
}

// ParseExpiration accepts Go durations ("12h", "90m") and whole days ("7d")
func ParseExpiration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("bad day count %q", raw)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("expiration must be positive, got %s", raw)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseOrigins splits the allow list and rejects entries the CORS middleware cannot use
func parseOrigins(raw string) ([]string, error) {
	origins := splitList(raw)
	if len(origins) == 0 {
		return nil, ErrInvalidCORSOrigin
	}
	for _, origin := range origins {
		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" ||
			strings.Contains(origin, "*") || strings.TrimSuffix(u.Path, "/") != "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCORSOrigin, origin)
		}
	}
	return origins, nil
}
