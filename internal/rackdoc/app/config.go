package app

import (
	"os"
	"strconv"
	"time"

	"github.com/rackworks/rackdoc/internal/rackdoc/service"
	"github.com/rackworks/rackdoc/pkg/sessiontoken"
)

type Config struct {
	Issuer      string // Optional: issuer claim for session tokens (default: rackdoc)
	ExternalURL string // Optional: public base URL used in invite accept links

	DatabaseFile string        // Optional: path to SQLite database file (default: ./rackdoc.db)
	SessionTTL   time.Duration // Optional: session token lifetime (default: 12h)

	SMTPHost     string // Optional: leave empty to hand invite URLs over out of band
	SMTPPort     int    // Optional: SMTP port (default: 587)
	SMTPUsername string // Optional: SMTP AUTH username
	SMTPPassword string // Optional: SMTP AUTH password
	SMTPFrom     string // Optional: From address on invitation mail

	BootstrapAdminEmail    string // Optional: seed a global admin on an empty database
	BootstrapAdminPassword string // Optional: password for the seeded admin

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping sweep interval (default: 1h)
	InviteRetention      time.Duration // How long expired invitations are kept (default: 30 days)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:       getEnvOrDefault("RACKDOC_ISSUER", "rackdoc"),
		ExternalURL:  os.Getenv("RACKDOC_EXTERNAL_URL"),
		DatabaseFile: getEnvOrDefault("RACKDOC_DATABASE_FILE", "rackdoc.db"),
		SessionTTL:   getEnvDurationOrDefault("RACKDOC_SESSION_TTL", sessiontoken.DefaultTTL),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		BootstrapAdminEmail:    os.Getenv("RACKDOC_BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminPassword: os.Getenv("RACKDOC_BOOTSTRAP_ADMIN_PASSWORD"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", service.DefaultHousekeepingInterval),
		InviteRetention:      getEnvDurationOrDefault("INVITE_RETENTION", service.DefaultInviteRetention),
	}

	return cfg
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Parse as a duration string (e.g. "1h", "30m", "90s").
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
