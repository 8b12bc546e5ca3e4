// Package pdf renders a receipt.Record as a one-page A4 "bon d'entrée en
// caisse" using gofpdf.
//
// Rendering is pure apart from reading the logo file. A missing or unreadable
// logo never fails a render: the header falls back to a drawn placeholder and
// the watermark is skipped.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jung-kurt/gofpdf"

	"github.com/nyashahama/cash-receipt-backend/internal/receipt"
)

// ErrRender is wrapped by every error Render returns.
var ErrRender = errors.New("pdf: render failed")

// Options configure a Renderer.
type Options struct {
	// LogoPath is the PNG (or JPEG/GIF/WebP/BMP) logo drawn in the header and
	// as the watermark. Empty means "no logo".
	LogoPath string

	// Watermark draws the logo enlarged and nearly transparent in the middle
	// of the page.
	Watermark bool

	// Compress enables stream compression. Tests turn it off so the content
	// streams can be inspected.
	Compress bool
}

// DefaultOptions returns the production options.
func DefaultOptions() Options {
	return Options{
		LogoPath:  "public/acced-logo.png",
		Watermark: true,
		Compress:  true,
	}
}

// Renderer turns receipts into PDF bytes. It is safe for concurrent use: each
// call builds its own document.
type Renderer struct {
	opts   Options
	logger *slog.Logger
}

// New returns a Renderer.
func New(opts Options, logger *slog.Logger) *Renderer {
	return &Renderer{opts: opts, logger: logger}
}

// Render draws rec and returns the finished document.
//
// gofpdf records the first drawing failure and turns every later call into a
// no-op, so the error is checked once at the end. Panics from the drawing
// primitives are converted to ErrRender as well.
func (r *Renderer) Render(rec receipt.Record) ([]byte, error) {
	return r.render(rec, r.draw)
}

func (r *Renderer) render(rec receipt.Record, draw func(*gofpdf.Fpdf, receipt.Record)) (out []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = fmt.Errorf("%w: panic: %v", ErrRender, p)
		}
	}()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCompression(r.opts.Compress)
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(fmt.Sprintf("BON D'ENTREE EN CAISSE N° %s", rec.ReceiptNumber), true)
	doc.SetAuthor(orgName, true)
	doc.SetCreator("cash-receipt-backend", true)
	doc.AddPage()

	draw(doc, rec)
	return finish(doc)
}

// draw lays out the receipt on the current page of doc.
func (r *Renderer) draw(doc *gofpdf.Fpdf, rec receipt.Record) {
	pg := newPage(doc)
	logo := r.prepareLogo(pg, rec)

	pg.drawBackground()
	pg.drawHeaderBar()
	pg.drawFrame()

	y := 35.0
	if logo {
		pg.drawLogo(y)
	} else {
		pg.drawLogoPlaceholder(y)
	}
	pg.drawOrganisation(y)
	y += 50

	y = pg.drawTitle(y, rec)
	y = pg.drawParties(y, rec)
	y = pg.drawAmount(y, rec)
	if rec.Motifs != "" {
		y = pg.drawNoteBox(y, motifsBox, rec.Motifs)
	}
	if rec.JustificativeDocuments != "" {
		pg.drawNoteBox(y, documentsBox, rec.JustificativeDocuments)
	}

	// Anchored to the page bottom, not to y: long notes overlap it.
	pg.drawSignatures(rec)

	if logo && r.opts.Watermark {
		if err := pg.drawWatermark(); err != nil {
			r.logger.Warn("pdf: watermark skipped",
				"receipt_number", rec.ReceiptNumber,
				"error", err,
			)
		}
	}
	pg.drawFooter()
}

// finish serializes doc, or returns the first error gofpdf recorded while
// drawing it.
func finish(doc *gofpdf.Fpdf) ([]byte, error) {
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: output: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// prepareLogo loads the logo and registers it with the document. It reports
// whether the logo is available; failures are logged, never returned.
func (r *Renderer) prepareLogo(pg *page, rec receipt.Record) bool {
	if r.opts.LogoPath == "" {
		return false
	}

	data, err := loadLogo(r.opts.LogoPath)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, errLogoMissing) {
			level = slog.LevelDebug
		}
		r.logger.Log(context.Background(), level, "pdf: logo unavailable, using placeholder",
			"path", r.opts.LogoPath,
			"receipt_number", rec.ReceiptNumber,
			"error", err,
		)
		return false
	}

	if err := pg.registerLogo(data); err != nil {
		r.logger.Warn("pdf: logo rejected, using placeholder",
			"path", r.opts.LogoPath,
			"receipt_number", rec.ReceiptNumber,
			"error", err,
		)
		return false
	}
	return true
}
