// Package config loads the gateway configuration from environment variables.
//
// Values are read once at startup by Load and checked by Validate. A .env file
// in the working directory is honoured by the app package before Load runs.
//
// Environment Variables:
//
// Application:
//   - PORT (8080), LOG_LEVEL (info), LOG_FILE (stdout when empty)
//   - MAX_BODY_BYTES (1048576), CORS_ALLOWED_ORIGINS
//
// Twilio:
//   - TWILIO_AUTH_TOKEN: shared signing secret. Optional at startup; requests are
//     rejected as misconfigured while it is unset.
//   - TWILIO_SIGNATURE_HEADER (X-Twilio-Signature)
//   - TWILIO_PUBLIC_BASE_URL: origin Twilio uses to reach the gateway
//   - TWILIO_VALIDATE_BODY_HASH (true)
//   - DEDUPE_TTL (24h)
//
// Admin API:
//   - API_KEY (plain or bcrypt hash), API_KEY_HEADER (X-API-KEY), JWT_SECRET
//
// WhatsApp RPC:
//   - WHATSAPP_RPC_ADDRESS (http://localhost:50051), WHATSAPP_RPC_PROTOCOL (grpc)
//   - WHATSAPP_RPC_TIMEOUT (10s), WHATSAPP_PHONE_TO_NOTIFY, WHATSAPP_COUNTRY_CODE
//   - WHATSAPP_MONITOR_SCHEDULE (@every 1m), WHATSAPP_WATCH_ENABLED (false)
//
// Redis, rate limiting and storage:
//   - REDIS_ADDRESS (disabled when empty), REDIS_PASSWORD, REDIS_DB, REDIS_POOL_SIZE
//   - RATE_LIMIT_ENABLED (true), RATE_LIMIT_DEFAULT (100), RATE_LIMIT_WINDOW (60s)
//   - DATABASE_TYPE (sqlite|postgres|none), DATABASE_PATH, DATABASE_URL
//   - PRICING_FILE: optional YAML price table
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting the gateway reads at startup.
type Config struct {
	Port         string
	LogLevel     string
	MaxBodyBytes string
	CORSOrigins  []string

	// Twilio webhook authentication
	TwilioAuthToken       string
	TwilioSignatureHeader string
	TwilioPublicBaseURL   string
	TwilioValidateBody    bool
	DedupeTTL             string

	// Admin API authentication
	APIKey       string
	APIKeyHeader string
	JWTSecret    string

	// WhatsApp messaging service
	WhatsAppAddress         string
	WhatsAppProtocol        string
	WhatsAppTimeout         string
	WhatsAppPhoneToNotify   string
	WhatsAppCountryCode     string
	WhatsAppMonitorSchedule string
	WhatsAppWatchEnabled    bool

	RedisAddress  string
	RedisPassword string
	RedisDB       string
	RedisPoolSize string

	RateLimitEnabled bool
	RateLimitDefault string
	RateLimitWindow  string
	// TrustProxy keys rate limits on X-Forwarded-For / X-Real-IP.
	TrustProxy bool

	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	PricingFile string
}

// Load reads the configuration from the environment without validating it.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		MaxBodyBytes: getEnv("MAX_BODY_BYTES", "1048576"),
		CORSOrigins:  getListEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost", "http://127.0.0.1"}),

		TwilioAuthToken:       os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioSignatureHeader: getEnv("TWILIO_SIGNATURE_HEADER", "X-Twilio-Signature"),
		TwilioPublicBaseURL:   strings.TrimRight(os.Getenv("TWILIO_PUBLIC_BASE_URL"), "/"),
		TwilioValidateBody:    getBoolEnv("TWILIO_VALIDATE_BODY_HASH", true),
		DedupeTTL:             getEnv("DEDUPE_TTL", "24h"),

		APIKey:       os.Getenv("API_KEY"),
		APIKeyHeader: getEnv("API_KEY_HEADER", "X-API-KEY"),
		JWTSecret:    os.Getenv("JWT_SECRET"),

		WhatsAppAddress:         getEnv("WHATSAPP_RPC_ADDRESS", "http://localhost:50051"),
		WhatsAppProtocol:        strings.ToLower(getEnv("WHATSAPP_RPC_PROTOCOL", "grpc")),
		WhatsAppTimeout:         getEnv("WHATSAPP_RPC_TIMEOUT", "10s"),
		WhatsAppPhoneToNotify:   getEnv("WHATSAPP_PHONE_TO_NOTIFY", "3506930989"),
		WhatsAppCountryCode:     getEnv("WHATSAPP_COUNTRY_CODE", "57"),
		WhatsAppMonitorSchedule: getEnv("WHATSAPP_MONITOR_SCHEDULE", "@every 1m"),
		WhatsAppWatchEnabled:    getBoolEnv("WHATSAPP_WATCH_ENABLED", false),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnv("REDIS_DB", "0"),
		RedisPoolSize: getEnv("REDIS_POOL_SIZE", "10"),

		RateLimitEnabled: getBoolEnv("RATE_LIMIT_ENABLED", true),
		RateLimitDefault: getEnv("RATE_LIMIT_DEFAULT", "100"),
		RateLimitWindow:  getEnv("RATE_LIMIT_WINDOW", "60s"),
		TrustProxy:       getBoolEnv("TRUST_PROXY", false),

		DatabaseType: strings.ToLower(getEnv("DATABASE_TYPE", "sqlite")),
		DatabasePath: getEnv("DATABASE_PATH", "./twilio_gateway.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		PricingFile: os.Getenv("PRICING_FILE"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getListEnv(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks formats and cross-field requirements.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}
	if n, err := strconv.ParseInt(c.MaxBodyBytes, 10, 64); err != nil || n < 1 {
		return fmt.Errorf("MAX_BODY_BYTES must be a positive number")
	}
	if strings.TrimSpace(c.TwilioSignatureHeader) == "" {
		return fmt.Errorf("TWILIO_SIGNATURE_HEADER must not be blank")
	}
	if c.TwilioPublicBaseURL != "" {
		u, err := url.Parse(c.TwilioPublicBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("TWILIO_PUBLIC_BASE_URL must be an absolute URL")
		}
	}
	if _, err := time.ParseDuration(c.DedupeTTL); err != nil {
		return fmt.Errorf("DEDUPE_TTL must be a valid duration (e.g., '24h')")
	}

	switch c.WhatsAppProtocol {
	case "grpc", "connect":
	default:
		return fmt.Errorf("WHATSAPP_RPC_PROTOCOL must be 'grpc' or 'connect'")
	}
	if u, err := url.Parse(c.WhatsAppAddress); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("WHATSAPP_RPC_ADDRESS must be an absolute URL such as http://localhost:50051")
	}
	if d, err := time.ParseDuration(c.WhatsAppTimeout); err != nil || d <= 0 {
		return fmt.Errorf("WHATSAPP_RPC_TIMEOUT must be a positive duration")
	}

	if c.RedisAddress != "" {
		if db, err := strconv.Atoi(c.RedisDB); err != nil || db < 0 || db > 15 {
			return fmt.Errorf("REDIS_DB must be a number between 0 and 15")
		}
		if size, err := strconv.Atoi(c.RedisPoolSize); err != nil || size < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be a positive number")
		}
	}

	if c.RateLimitEnabled {
		if limit, err := strconv.Atoi(c.RateLimitDefault); err != nil || limit < 1 {
			return fmt.Errorf("RATE_LIMIT_DEFAULT must be a positive number")
		}
		if _, err := time.ParseDuration(c.RateLimitWindow); err != nil {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be a valid duration (e.g., '60s', '1m')")
		}
	}

	switch c.DatabaseType {
	case "sqlite", "none":
	case "postgres", "postgresql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when using PostgreSQL")
		}
	default:
		return fmt.Errorf("DATABASE_TYPE must be 'sqlite', 'postgres' or 'none'")
	}

	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long when set")
	}

	return nil
}

// BodyLimit returns MAX_BODY_BYTES. Call after Validate.
func (c *Config) BodyLimit() int64 {
	n, _ := strconv.ParseInt(c.MaxBodyBytes, 10, 64)
	return n
}

// RPCTimeout returns WHATSAPP_RPC_TIMEOUT. Call after Validate.
func (c *Config) RPCTimeout() time.Duration {
	d, _ := time.ParseDuration(c.WhatsAppTimeout)
	return d
}

// DedupeWindow returns DEDUPE_TTL. Call after Validate.
func (c *Config) DedupeWindow() time.Duration {
	d, _ := time.ParseDuration(c.DedupeTTL)
	return d
}

// RateLimit returns the request budget and window. Call after Validate.
func (c *Config) RateLimit() (int, time.Duration) {
	n, _ := strconv.Atoi(c.RateLimitDefault)
	w, _ := time.ParseDuration(c.RateLimitWindow)
	return n, w
}

// AdminAuthConfigured reports whether any admin credential is set.
func (c *Config) AdminAuthConfigured() bool {
	return c.APIKey != "" || c.JWTSecret != ""
}

// Settings returns the effective configuration keyed by lower-case variable
// name. Secrets are included; callers filter before exposing them.
func (c *Config) Settings() map[string]string {
	return map[string]string{
		"port":                      c.Port,
		"log_level":                 c.LogLevel,
		"max_body_bytes":            c.MaxBodyBytes,
		"cors_allowed_origins":      strings.Join(c.CORSOrigins, ","),
		"twilio_auth_token":         c.TwilioAuthToken,
		"twilio_signature_header":   c.TwilioSignatureHeader,
		"twilio_public_base_url":    c.TwilioPublicBaseURL,
		"twilio_validate_body_hash": strconv.FormatBool(c.TwilioValidateBody),
		"dedupe_ttl":                c.DedupeTTL,
		"api_key":                   c.APIKey,
		"api_key_header":            c.APIKeyHeader,
		"jwt_secret":                c.JWTSecret,
		"whatsapp_rpc_address":      c.WhatsAppAddress,
		"whatsapp_rpc_protocol":     c.WhatsAppProtocol,
		"whatsapp_rpc_timeout":      c.WhatsAppTimeout,
		"whatsapp_phone_to_notify":  c.WhatsAppPhoneToNotify,
		"whatsapp_country_code":     c.WhatsAppCountryCode,
		"whatsapp_monitor_schedule": c.WhatsAppMonitorSchedule,
		"whatsapp_watch_enabled":    strconv.FormatBool(c.WhatsAppWatchEnabled),
		"redis_address":             c.RedisAddress,
		"redis_password":            c.RedisPassword,
		"redis_db":                  c.RedisDB,
		"redis_pool_size":           c.RedisPoolSize,
		"rate_limit_enabled":        strconv.FormatBool(c.RateLimitEnabled),
		"rate_limit_default":        c.RateLimitDefault,
		"rate_limit_window":         c.RateLimitWindow,
		"trust_proxy":               strconv.FormatBool(c.TrustProxy),
		"database_type":             c.DatabaseType,
		"database_path":             c.DatabasePath,
		"database_url":              c.DatabaseURL,
		"pricing_file":              c.PricingFile,
	}
}
