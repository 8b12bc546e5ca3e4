package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nyashahama/cash-receipt-backend/internal/config"
)

var allKeys = []string{
	"PORT", "ENV", "ALLOWED_ORIGIN", "REQUEST_TIMEOUT",
	"EMAIL_PROVIDER", "EMAIL_FROM_ADDR", "EMAIL_FROM_NAME", "EMAIL_TIMEOUT",
	"RESEND_API_KEY", "RESEND_ENDPOINT",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS",
	"LOGO_PATH", "PDF_WATERMARK",
}

// cleanEnv blanks every variable Load reads and moves into an empty directory
// so no stray .env is picked up.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	cleanEnv(t)
	t.Setenv("RESEND_API_KEY", "re_test")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.AllowedOrigin != "*" {
		t.Errorf("server defaults: %+v", cfg)
	}
	if cfg.EmailProvider != config.ProviderResend {
		t.Errorf("provider: got %q", cfg.EmailProvider)
	}
	if cfg.EmailFromAddr != "onboarding@resend.dev" || cfg.EmailFromName != "ACCED" {
		t.Errorf("sender: got %q %q", cfg.EmailFromName, cfg.EmailFromAddr)
	}
	if cfg.ResendEndpoint != "https://api.resend.com/emails" {
		t.Errorf("endpoint: got %q", cfg.ResendEndpoint)
	}
	if cfg.EmailTimeout != 15*time.Second || cfg.RequestTimeout != 30*time.Second {
		t.Errorf("timeouts: email %v request %v", cfg.EmailTimeout, cfg.RequestTimeout)
	}
	if cfg.SMTPPort != 465 {
		t.Errorf("smtp port: got %d", cfg.SMTPPort)
	}
	if cfg.LogoPath != "public/acced-logo.png" || !cfg.PDFWatermark {
		t.Errorf("pdf defaults: %q watermark=%v", cfg.LogoPath, cfg.PDFWatermark)
	}
	if cfg.IsProduction() {
		t.Error("development is not production")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cleanEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("EMAIL_PROVIDER", "SMTP")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "mailer")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("EMAIL_TIMEOUT", "5")
	t.Setenv("REQUEST_TIMEOUT", "1m")
	t.Setenv("PDF_WATERMARK", "false")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.IsProduction() || cfg.Port != "9000" {
		t.Errorf("server: %+v", cfg)
	}
	if cfg.EmailProvider != config.ProviderSMTP || cfg.SMTPPort != 587 {
		t.Errorf("smtp: provider %q port %d", cfg.EmailProvider, cfg.SMTPPort)
	}
	if cfg.EmailTimeout != 5*time.Second {
		t.Errorf("plain integer timeout should be seconds, got %v", cfg.EmailTimeout)
	}
	if cfg.RequestTimeout != time.Minute {
		t.Errorf("request timeout: got %v", cfg.RequestTimeout)
	}
	if cfg.PDFWatermark {
		t.Error("watermark should be off")
	}
}

func TestLoad_ValidationJoinsErrors(t *testing.T) {
	cleanEnv(t)
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "http")
	t.Setenv("EMAIL_FROM_ADDR", "nobody")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"ENV", "PORT", "EMAIL_FROM_ADDR", "RESEND_API_KEY"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestLoad_ProviderRequirements(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr []string
	}{
		{"unknown provider", map[string]string{"EMAIL_PROVIDER": "sendgrid"}, []string{"EMAIL_PROVIDER"}},
		{"smtp without host or user", map[string]string{"EMAIL_PROVIDER": "smtp"}, []string{"SMTP_HOST", "SMTP_USER"}},
		{"smtp bad port", map[string]string{"EMAIL_PROVIDER": "smtp", "SMTP_HOST": "h", "SMTP_USER": "u", "SMTP_PORT": "70000"}, []string{"SMTP_PORT"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			if err == nil {
				t.Fatal("expected an error")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error should mention %s: %v", want, err)
				}
			}
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	cleanEnv(t)
	os.Unsetenv("RESEND_API_KEY")
	os.Unsetenv("EMAIL_FROM_NAME")
	t.Setenv("PORT", "7000")

	env := "RESEND_API_KEY=re_from_file\nEMAIL_FROM_NAME=\"ACCED Caisse\"\nPORT=1234\n"
	if err := os.WriteFile(filepath.Join(".", ".env"), []byte(env), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ResendAPIKey != "re_from_file" || cfg.EmailFromName != "ACCED Caisse" {
		t.Errorf(".env values not applied: %q %q", cfg.ResendAPIKey, cfg.EmailFromName)
	}
	if cfg.Port != "7000" {
		t.Errorf("real environment should win over .env, got %q", cfg.Port)
	}
}
