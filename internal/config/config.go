package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration derived from environment variables.
type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// BackendBaseURL is the inventory/counting backend consumed by the
	// inventory client and the telemetry logger.
	BackendBaseURL string
	BackendTimeout time.Duration

	// AssetBaseURL is prepended to storage-relative image references.
	AssetBaseURL string
	// PlaceholderImageURL is shown for ads without artwork.
	PlaceholderImageURL string
	// ErrorImageURL replaces artwork that failed to load.
	ErrorImageURL string

	// CountryPrefix is prepended to phone-like destination references when
	// building messaging deep links.
	CountryPrefix string

	// InterstitialCooldown is the minimum interval between interstitial
	// displays for one viewer.
	InterstitialCooldown time.Duration
	// InterstitialDelay is how long the interstitial waits after its
	// candidates arrive before it becomes visible.
	InterstitialDelay time.Duration

	RedisAddr   string
	PostgresDSN string

	// Database connection pooling configuration
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	ServiceName string

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load parses environment variables and returns a Config populated with
// defaults when variables are absent.
func Load() Config {
	cfg := Config{}

	cfg.Port = getenv("PORT", "8788")
	cfg.ReadTimeout = envDuration("READ_TIMEOUT", 5*time.Second)
	cfg.WriteTimeout = envDuration("WRITE_TIMEOUT", 10*time.Second)

	cfg.BackendBaseURL = getenv("BACKEND_BASE_URL", "http://localhost:8080/api")
	cfg.BackendTimeout = envDuration("BACKEND_TIMEOUT", 5*time.Second)

	cfg.AssetBaseURL = getenv("ASSET_BASE_URL", "https://api.site.com")
	cfg.PlaceholderImageURL = getenv("PLACEHOLDER_IMAGE_URL", "https://static.site.com/placeholders/no-image.png")
	cfg.ErrorImageURL = getenv("ERROR_IMAGE_URL", "https://static.site.com/placeholders/image-error.png")

	cfg.CountryPrefix = getenv("COUNTRY_PREFIX", "55")

	cfg.InterstitialCooldown = envDuration("INTERSTITIAL_COOLDOWN", 24*time.Hour)
	cfg.InterstitialDelay = envDuration("INTERSTITIAL_DELAY", 4*time.Second)

	cfg.RedisAddr = getenv("REDIS_ADDR", "localhost:6379")
	cfg.PostgresDSN = getenv("POSTGRES_DSN", "")

	cfg.DBMaxOpenConns = envInt("DB_MAX_OPEN_CONNS", 25)
	cfg.DBMaxIdleConns = envInt("DB_MAX_IDLE_CONNS", 5)
	cfg.DBConnMaxLifetime = envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)

	cfg.ServiceName = getenv("SERVICE_NAME", "slotserve")

	cfg.TracingEnabled = envBool("TRACING_ENABLED", false)
	cfg.OTLPEndpoint = getenv("OTLP_ENDPOINT", "tempo:4317")
	cfg.TracingSampleRate = envFloat("TRACING_SAMPLE_RATE", 1.0)

	return cfg
}

// getenv returns the value of the environment variable if set, otherwise def.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration parses an environment variable into a time.Duration.
// The value can be a duration string (e.g. "5s") or a number of seconds.
// If the variable is unset or invalid, def is returned.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

// envBool parses a boolean environment variable. Accepted values are those
// supported by strconv.ParseBool. When unset or invalid, def is returned.
func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}

// envInt parses an integer environment variable. When unset or invalid, def is returned.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

// envFloat parses a float64 environment variable. When unset or invalid, def is returned.
func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return def
}
