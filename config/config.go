package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings read from the environment
type Config struct {
	Port            string
	DatabasePath    string
	LogLevel        string
	LogFormat       string
	UseHTTPS        bool
	SessionLifetime time.Duration

	OIDC OIDC

	// AuditRedactFields extends the built-in redaction denylist
	AuditRedactFields []string
	// AuditAsync runs after-commit audit writes on a background goroutine
	AuditAsync    bool
	AuditPageSize int
}

// OIDC holds the interactive login provider settings
type OIDC struct {
	Domain       string
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Enabled reports whether enough settings are present to use OIDC login
func (o OIDC) Enabled() bool {
	return o.Domain != "" && o.ClientID != ""
}

// Issuer returns the discovery URL. Domain may be a bare host name or a
// full issuer URL.
func (o OIDC) Issuer() string {
	if strings.HasPrefix(o.Domain, "https://") || strings.HasPrefix(o.Domain, "http://") {
		return o.Domain
	}
	return "https://" + o.Domain + "/"
}

// Load reads .env (if present) and builds a Config from environment variables
func Load() Config {
	// A missing .env file is fine; the real environment still applies
	_ = godotenv.Load()

	return Config{
		Port:            getEnv("PORT", "8080"),
		DatabasePath:    getEnv("DATABASE_PATH", "hms.db"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		UseHTTPS:        os.Getenv("USE_HTTPS") == "true",
		SessionLifetime: getDuration("SESSION_LIFETIME", time.Hour),
		OIDC: OIDC{
			Domain:       os.Getenv("OIDC_DOMAIN"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			CallbackURL:  os.Getenv("OIDC_CALLBACK_URL"),
		},
		AuditRedactFields: splitList(os.Getenv("AUDIT_REDACT_FIELDS")),
		AuditAsync:        getBool("AUDIT_ASYNC", true),
		AuditPageSize:     getInt("AUDIT_PAGE_SIZE", 50),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
