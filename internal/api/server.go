// Package api implements the HTTP layer for the cash-receipt form.
// Handlers are methods on *Server. Each handler file is responsible for one
// resource group and only imports the dependencies it actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nyashahama/cash-receipt-backend/internal/dispatch"
	"github.com/nyashahama/cash-receipt-backend/internal/receipt"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// Production restricts CORS to AllowedOrigin.
	Production bool

	// AllowedOrigin is the only CORS origin allowed in production. Other
	// environments echo the request's Origin.
	AllowedOrigin string

	// RequestTimeout bounds every request. Zero means 30 seconds.
	RequestTimeout time.Duration
}

// Dispatcher emails a receipt. Satisfied by *dispatch.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, rec receipt.Record) (dispatch.Result, error)
}

// Downloader renders a receipt that has already been emailed. Satisfied by
// *dispatch.Downloader.
type Downloader interface {
	Download(ctx context.Context, rec receipt.Record) (dispatch.Download, error)
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	dispatcher Dispatcher
	downloader Downloader

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	dispatcher Dispatcher,
	downloader Downloader,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	s := &Server{
		dispatcher: dispatcher,
		downloader: downloader,
		cfg:        cfg,
		logger:     logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(s.corsOptions()))
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ── API ───────────────────────────────────────────────────────────────────
	r.Route("/api/receipts", func(r chi.Router) {
		// Email the receipt; a success unlocks the download routes for the
		// same receipt number.
		r.Post("/", s.handleDispatch)

		// PDF as a data URI, for the browser form.
		r.Post("/download", s.handleDownload)

		// PDF as raw bytes.
		r.Post("/pdf", s.handleDownloadPDF)
	})

	return r
}
