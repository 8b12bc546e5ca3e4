package dispatch

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/nyashahama/cash-receipt-backend/internal/receipt"
)

const dataURLPrefix = "data:application/pdf;base64,"

// DataURL encodes a PDF as a data URI a browser can open directly.
func DataURL(pdf []byte) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(pdf)
}

// Download is a rendered receipt ready to hand to the client.
type Download struct {
	PDF      []byte
	DataURL  string
	Filename string
}

// Downloader serves receipt PDFs, but only for the receipt number most
// recently emailed by a Dispatcher sharing the same Gate.
type Downloader struct {
	renderer Renderer
	gate     Gate
	logger   *slog.Logger
}

// NewDownloader returns a Downloader.
func NewDownloader(renderer Renderer, gate Gate, logger *slog.Logger) *Downloader {
	return &Downloader{renderer: renderer, gate: gate, logger: logger}
}

// Download checks the gate and renders rec. The renderer is never called when
// the gate refuses.
func (d *Downloader) Download(ctx context.Context, rec receipt.Record) (Download, error) {
	rec = rec.WithDefaults()

	if !d.gate.IsAuthorized(rec) {
		last, ok := d.gate.Last()
		d.logger.InfoContext(ctx, "download: refused, receipt not emailed",
			"receipt_number", rec.ReceiptNumber,
			"last_emailed", last.ReceiptNumber,
			"any_emailed", ok,
		)
		return Download{}, ErrNotAuthorized
	}

	out, err := d.renderer.Render(rec)
	if err != nil {
		d.logger.ErrorContext(ctx, "download: render failed",
			"receipt_number", rec.ReceiptNumber,
			"error", err,
		)
		return Download{}, wrap(ErrRender, err)
	}

	return Download{
		PDF:      out,
		DataURL:  DataURL(out),
		Filename: rec.PDFFilename(),
	}, nil
}
