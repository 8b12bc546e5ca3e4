package pdf

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"

	"github.com/nyashahama/cash-receipt-backend/internal/receipt"
)

func quietRenderer() *Renderer {
	return New(Options{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRender_DrawingErrorBecomesErrRender(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.png")

	out, err := quietRenderer().render(receipt.Record{ReceiptNumber: "002964"}, func(doc *gofpdf.Fpdf, _ receipt.Record) {
		doc.ImageOptions(missing, 10, 10, 20, 20, false, gofpdf.ImageOptions{}, 0, "")
		// Later calls are no-ops once gofpdf holds an error.
		doc.Text(10, 50, "after the failure")
	})
	if !errors.Is(err, ErrRender) {
		t.Fatalf("err = %v, want ErrRender", err)
	}
	if out != nil {
		t.Errorf("got %d bytes alongside the error, want nil", len(out))
	}
}

func TestRender_PanicBecomesErrRender(t *testing.T) {
	out, err := quietRenderer().render(receipt.Record{}, func(*gofpdf.Fpdf, receipt.Record) {
		panic("layout bug")
	})
	if !errors.Is(err, ErrRender) {
		t.Fatalf("err = %v, want ErrRender", err)
	}
	if out != nil {
		t.Errorf("got %d bytes alongside the error, want nil", len(out))
	}
}

func TestFinish_CleanDocument(t *testing.T) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	out, err := finish(doc)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if len(out) < 5 || string(out[:5]) != "%PDF-" {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestGlyphFallbacks(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1 000 ₺", "1 000 TL"},
		{"Ayşe Yılmaz", "Ayse Yilmaz"},
		{"ŞAHİN Doğan", "SAHIN Dogan"},
		{"Öğüt Çelik", "Ögüt Çelik"},
		{"Jean Dupont", "Jean Dupont"},
	}
	for _, tt := range tests {
		if got := glyphFallbacks.Replace(tt.in); got != tt.want {
			t.Errorf("glyphFallbacks(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
