// Package config loads and validates all environment variables at startup.
// Every other package receives typed values; nothing else reads os.Getenv.
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

// Email providers.
const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port           string        // default "8080"
	Env            string        // "development" | "staging" | "production"
	AllowedOrigin  string        // CORS origin in production, default "*"
	RequestTimeout time.Duration // default 30s

	// ── Email ─────────────────────────────────────────────────────────────────
	EmailProvider string        // "resend" | "smtp"
	EmailFromAddr string        // default "onboarding@resend.dev"
	EmailFromName string        // default "ACCED"
	EmailTimeout  time.Duration // per provider call, default 15s

	// ── Resend ────────────────────────────────────────────────────────────────
	ResendAPIKey   string
	ResendEndpoint string // default "https://api.resend.com/emails"

	// ── SMTP ──────────────────────────────────────────────────────────────────
	SMTPHost string
	SMTPPort int // default 465 (implicit TLS)
	SMTPUser string
	SMTPPass string

	// ── PDF ───────────────────────────────────────────────────────────────────
	LogoPath     string // default "public/acced-logo.png"
	PDFWatermark bool   // default true
}

// Load reads all environment variables and returns a validated Config.
// It loads a .env file from the working directory when present, so plain
// `go run ./cmd/api` works in development. Real environment variables always
// take precedence over .env values.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}

	c := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", "*"),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
		EmailProvider:  strings.ToLower(getEnv("EMAIL_PROVIDER", ProviderResend)),
		EmailFromAddr:  getEnv("EMAIL_FROM_ADDR", "onboarding@resend.dev"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "ACCED"),
		EmailTimeout:   getEnvAsDuration("EMAIL_TIMEOUT", 15*time.Second),
		ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
		ResendEndpoint: getEnv("RESEND_ENDPOINT", "https://api.resend.com/emails"),
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       getEnvAsInt("SMTP_PORT", 465),
		SMTPUser:       os.Getenv("SMTP_USER"),
		SMTPPass:       os.Getenv("SMTP_PASS"),
		LogoPath:       getEnv("LOGO_PATH", "public/acced-logo.png"),
		PDFWatermark:   getEnvAsBool("PDF_WATERMARK", true),
	}

	return c, c.validate()
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }

func (c *Config) validate() error {
	var errs []error

	switch c.Env {
	case "development", "staging", "production":
	default:
		errs = append(errs, fmt.Errorf("ENV must be development, staging or production, got %q", c.Env))
	}

	if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a TCP port, got %q", c.Port))
	}

	if c.EmailFromAddr == "" || !strings.Contains(c.EmailFromAddr, "@") {
		errs = append(errs, fmt.Errorf("EMAIL_FROM_ADDR must be an email address, got %q", c.EmailFromAddr))
	}

	var required map[string]string
	switch c.EmailProvider {
	case ProviderResend:
		required = map[string]string{
			"RESEND_API_KEY": c.ResendAPIKey,
		}
	case ProviderSMTP:
		required = map[string]string{
			"SMTP_HOST": c.SMTPHost,
			"SMTP_USER": c.SMTPUser,
		}
		if c.SMTPPort < 1 || c.SMTPPort > 65535 {
			errs = append(errs, fmt.Errorf("SMTP_PORT must be a TCP port, got %d", c.SMTPPort))
		}
	default:
		errs = append(errs, fmt.Errorf("EMAIL_PROVIDER must be %q or %q, got %q", ProviderResend, ProviderSMTP, c.EmailProvider))
	}

	for name, val := range required {
		if val == "" {
			errs = append(errs, fmt.Errorf("missing required env var: %s", name))
		}
	}

	if c.EmailTimeout <= 0 {
		errs = append(errs, errors.New("EMAIL_TIMEOUT must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	// A plain integer is seconds.
	if value, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(value) * time.Second
	}
	// Otherwise Go duration syntax: "30s", "5m", "1h", etc.
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
