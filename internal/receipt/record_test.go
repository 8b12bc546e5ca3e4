package receipt_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/nyashahama/cash-receipt-backend/internal/receipt"
)

// ─── ParseRecipients ──────────────────────────────────────────────────────────

func TestParseRecipients(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"single", "a@x.com", []string{"a@x.com"}},
		{"mixed valid and invalid", "a@x.com, not-an-email, b@y.com", []string{"a@x.com", "b@y.com"}},
		{"all invalid", "foo, bar,,baz", nil},
		{"trailing comma", "a@x.com,", []string{"a@x.com"}},
		{"surrounding whitespace trimmed", "  a@x.com  ,\tb@y.com\n", []string{"a@x.com", "b@y.com"}},
		{"duplicates kept", "a@x.com,a@x.com", []string{"a@x.com", "a@x.com"}},
		{"bare at-sign survives", "@", []string{"@"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := receipt.ParseRecipients(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseRecipients(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseRecipients_EveryEntryContainsAt(t *testing.T) {
	inputs := []string{
		"a@b, c, d@e, ,f",
		",,,,",
		"x@y@z, plain, another@one",
	}
	for _, in := range inputs {
		for _, addr := range receipt.ParseRecipients(in) {
			if !strings.Contains(addr, "@") {
				t.Errorf("input %q produced %q without @", in, addr)
			}
			if addr != strings.TrimSpace(addr) {
				t.Errorf("input %q produced untrimmed %q", in, addr)
			}
		}
	}
}

// ─── Currency ─────────────────────────────────────────────────────────────────

func TestCurrencySymbol(t *testing.T) {
	tests := map[receipt.Currency]string{
		receipt.CurrencyUSD: "$",
		receipt.CurrencyEUR: "€",
		receipt.CurrencyTL:  "₺",
		receipt.CurrencyXAF: "FCFA",
		"":                  "FCFA",
		"GBP":               "FCFA",
		"usd":               "FCFA", // codes are case-sensitive
	}
	for code, want := range tests {
		if got := code.Symbol(); got != want {
			t.Errorf("Currency(%q).Symbol() = %q, want %q", code, got, want)
		}
	}
}

func TestWithDefaults_EmptyCurrencyBecomesXAF(t *testing.T) {
	r := receipt.Record{ReceiptNumber: "1"}.WithDefaults()
	if r.Currency != receipt.CurrencyXAF {
		t.Errorf("currency: got %q, want XAF", r.Currency)
	}

	r = receipt.Record{Currency: receipt.CurrencyEUR}.WithDefaults()
	if r.Currency != receipt.CurrencyEUR {
		t.Errorf("explicit currency overwritten: got %q", r.Currency)
	}
}

func TestAmountLabel(t *testing.T) {
	r := receipt.Record{Amount: "50000", Currency: receipt.CurrencyXAF}
	if got := r.AmountLabel(); got != "## 50000 FCFA ##" {
		t.Errorf("got %q", got)
	}

	r = receipt.Record{Currency: receipt.CurrencyUSD}
	if got := r.AmountLabel(); got != "## 0 $ ##" {
		t.Errorf("empty amount: got %q", got)
	}

	// Amount is never parsed.
	r = receipt.Record{Amount: "12,5 mille", Currency: receipt.CurrencyEUR}
	if got := r.AmountLabel(); got != "## 12,5 mille € ##" {
		t.Errorf("free-text amount: got %q", got)
	}
}

// ─── Dates ────────────────────────────────────────────────────────────────────

func TestFormatDisplayDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-01-15", "15.01.2025"},
		{" 2024-12-31 ", "31.12.2024"},
		{"2025-03-04T10:20:30Z", "04.03.2025"},
		{"2025-03-04T10:20", "04.03.2025"},
		{"", receipt.InvalidDate},
		{"yesterday", receipt.InvalidDate},
		{"2025-13-40", receipt.InvalidDate},
	}
	for _, tt := range tests {
		if got := receipt.FormatDisplayDate(tt.in); got != tt.want {
			t.Errorf("FormatDisplayDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPDFFilename(t *testing.T) {
	r := receipt.Record{ReceiptNumber: "002964"}
	if got := r.PDFFilename(); got != "makbuz-002964.pdf" {
		t.Errorf("got %q", got)
	}
}
