package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nyashahama/cash-receipt-backend/internal/api"
	"github.com/nyashahama/cash-receipt-backend/internal/config"
	"github.com/nyashahama/cash-receipt-backend/internal/dispatch"
	"github.com/nyashahama/cash-receipt-backend/internal/email"
	"github.com/nyashahama/cash-receipt-backend/internal/gate"
	"github.com/nyashahama/cash-receipt-backend/internal/pdf"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port, "email_provider", cfg.EmailProvider)

	// ── Email ─────────────────────────────────────────────────────────────────
	mailer := newMailer(cfg)

	// ── PDF ───────────────────────────────────────────────────────────────────
	if _, err := os.Stat(cfg.LogoPath); err != nil {
		logger.Warn("logo not found, receipts will use the placeholder", "path", cfg.LogoPath)
	}
	pdfOpts := pdf.DefaultOptions()
	pdfOpts.LogoPath = cfg.LogoPath
	pdfOpts.Watermark = cfg.PDFWatermark
	renderer := pdf.New(pdfOpts, logger)

	// ── Dispatch ──────────────────────────────────────────────────────────────
	// One gate for the process: the downloader only serves what the
	// dispatcher last emailed.
	sendGate := gate.New()
	dispatcher := dispatch.NewDispatcher(mailer, renderer, sendGate, logger)
	downloader := dispatch.NewDownloader(renderer, sendGate, logger)

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		dispatcher,
		downloader,
		api.Config{
			Production:     cfg.IsProduction(),
			AllowedOrigin:  cfg.AllowedOrigin,
			RequestTimeout: cfg.RequestTimeout,
		},
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until either a signal arrives or the server dies unexpectedly.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// In-flight dispatches get up to 20 seconds to finish their emails.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// newMailer builds the configured email.Sender. config.Load has already
// rejected unknown providers.
func newMailer(cfg *config.Config) email.Sender {
	if cfg.EmailProvider == config.ProviderSMTP {
		return email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			FromAddr: cfg.EmailFromAddr,
			FromName: cfg.EmailFromName,
			Timeout:  cfg.EmailTimeout,
		})
	}
	return email.NewResendClient(
		cfg.ResendAPIKey,
		cfg.EmailFromAddr,
		cfg.EmailFromName,
		cfg.ResendEndpoint,
		cfg.EmailTimeout,
	)
}
