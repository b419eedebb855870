package app

import (
	"os"
	"strconv"
	"time"

	"github.com/triptab/triptab/pkg/jwtx"
)

type Config struct {
	Issuer       string // Issuer claim for session tokens (default: triptab)
	SessionKey   string // Required: HMAC secret for session JWTs
	DatabaseFile string // Path to SQLite database file (default: ./triptab.db)
	PepperFile   string // Path to the refresh fingerprint pepper file (default: ./pepper)

	GoogleClientID        string
	GoogleClientSecret    string
	GoogleRedirectURI     string
	InstagramClientID     string
	InstagramClientSecret string
	InstagramRedirectURI  string

	FrontendURL  string // Where the browser lands after a completed login
	CookieDomain string
	CookieSecure bool

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text, pretty) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:       getEnvOrDefault("TRIPTAB_ISSUER", "triptab"),
		SessionKey:   os.Getenv("TRIPTAB_SESSION_KEY"),
		DatabaseFile: getEnvOrDefault("TRIPTAB_DATABASE_FILE", "triptab.db"),
		PepperFile:   getEnvOrDefault("TRIPTAB_PEPPER_FILE", "pepper"),

		GoogleClientID:        os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:    os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:     os.Getenv("GOOGLE_REDIRECT_URI"),
		InstagramClientID:     os.Getenv("INSTAGRAM_CLIENT_ID"),
		InstagramClientSecret: os.Getenv("INSTAGRAM_CLIENT_SECRET"),
		InstagramRedirectURI:  os.Getenv("INSTAGRAM_REDIRECT_URI"),

		FrontendURL:  getEnvOrDefault("FRONTEND_URL", "/"),
		CookieDomain: os.Getenv("COOKIE_DOMAIN"),
		CookieSecure: getEnvBoolOrDefault("COOKIE_SECURE", false),

		AccessTTL:  getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL: getEnvDurationOrDefault("REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
