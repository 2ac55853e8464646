package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Defaults applied when a key is unset.
const (
	DefaultAddr           = ":8080"
	DefaultBackendURL     = "http://127.0.0.1:8000"
	DefaultHTTPTimeout    = 10 * time.Second
	DefaultPerPage        = 10
	DefaultSlowRequestMs  = 200
	DefaultSlowUpstreamMs = 500
	DefaultEnvFile        = ".env"
)

// csrfKeyBytes is the length of the decoded CSRF secret.
const csrfKeyBytes = 32

// Config errors
var (
	ErrInvalidBackendURL = errors.New("CONSOLE_BACKEND_URL must be an absolute http(s) URL")
	ErrInvalidTimeout    = errors.New("CONSOLE_HTTP_TIMEOUT must be positive")
	ErrInvalidPerPage    = errors.New("CONSOLE_PER_PAGE must be positive")
	ErrInvalidCSRFKey    = errors.New("CONSOLE_CSRF_KEY must be 64 hex characters (32 bytes)")
	ErrMissingCSRFKey    = errors.New("CONSOLE_CSRF_KEY is required in production")
	ErrInvalidLogLevel   = errors.New("CONSOLE_LOG_LEVEL must be one of debug, info, warn, error")
)

// Config holds console settings read from the environment.
type Config struct {
	Addr         string
	BackendURL   string
	HTTPTimeout  time.Duration
	PerPage      int
	Environment  string
	CSRFKey      []byte
	CSRFKeySet   bool // false when a random development key was generated
	LogLevel     string
	LogFormat    string // "text" or "json"
	SlowRequest  time.Duration
	SlowUpstream time.Duration
	// TrustedOrigins are host[:port] values accepted on form posts.
	TrustedOrigins []string
}

// Load reads an optional env file, then the environment.
// PRE: none
// POST: Returns a validated Config. A missing env file is not an error;
// a malformed one is.
func Load() (Config, error) {
	envFile := GetEnv("CONSOLE_ENV_FILE", DefaultEnvFile)
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
		slog.Debug("config_env_file_missing", "path", envFile)
	}

	cfg := Config{
		Addr:           GetEnv("CONSOLE_ADDR", DefaultAddr),
		BackendURL:     strings.TrimRight(GetEnv("CONSOLE_BACKEND_URL", DefaultBackendURL), "/"),
		HTTPTimeout:    GetDurationEnv("CONSOLE_HTTP_TIMEOUT", DefaultHTTPTimeout),
		PerPage:        GetIntEnv("CONSOLE_PER_PAGE", DefaultPerPage),
		Environment:    GetEnv("CONSOLE_ENV", EnvDevelopment),
		LogLevel:       strings.ToLower(GetEnv("CONSOLE_LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(GetEnv("CONSOLE_LOG_FORMAT", "text")),
		SlowRequest:    time.Duration(GetIntEnv("CONSOLE_SLOW_REQUEST_MS", DefaultSlowRequestMs)) * time.Millisecond,
		SlowUpstream:   time.Duration(GetIntEnv("CONSOLE_SLOW_UPSTREAM_MS", DefaultSlowUpstreamMs)) * time.Millisecond,
		TrustedOrigins: GetListEnv("CONSOLE_TRUSTED_ORIGINS"),
	}

	key, set, err := loadCSRFKey(os.Getenv("CONSOLE_CSRF_KEY"), cfg.IsProduction())
	if err != nil {
		return Config{}, err
	}
	cfg.CSRFKey = key
	cfg.CSRFKeySet = set

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that the console cannot start without.
func (c Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBackendURL
	}
	if c.HTTPTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.PerPage <= 0 {
		return ErrInvalidPerPage
	}
	if len(c.CSRFKey) != csrfKeyBytes {
		return ErrInvalidCSRFKey
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// IsProduction reports whether the console runs in production mode.
func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, ErrInvalidLogLevel
}

// loadCSRFKey decodes the hex secret. Production requires one; development
// falls back to a random key so sessions do not survive a restart.
func loadCSRFKey(keyHex string, production bool) ([]byte, bool, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != csrfKeyBytes {
			return nil, false, ErrInvalidCSRFKey
		}
		return key, true, nil
	}
	if production {
		return nil, false, ErrMissingCSRFKey
	}
	key := make([]byte, csrfKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("generate CSRF key: %w", err)
	}
	return key, false, nil
}

// GetEnv retrieves an environment variable or returns a default value.
func GetEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// GetIntEnv retrieves an integer environment variable or returns a default value.
func GetIntEnv(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("config_invalid_value", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return value
}

// GetBoolEnv retrieves a boolean environment variable or returns a default value.
func GetBoolEnv(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		slog.Warn("config_invalid_value", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return value
}

// GetListEnv splits a comma-separated variable, dropping blank entries.
func GetListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(GetEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetDurationEnv retrieves a duration such as "30s" or "5m", or returns a default value.
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("config_invalid_value", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return value
}
