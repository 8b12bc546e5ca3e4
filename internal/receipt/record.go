// Package receipt defines the cash-receipt record collected by the form and
// the small pure helpers every other package formats it with: currency
// symbols, display dates and recipient parsing.
//
// Dependency rule: receipt imports nothing from this module.
package receipt

import (
	"fmt"
	"strings"
	"time"
)

// Currency is one of the currency codes the form offers.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyTL  Currency = "TL"
	CurrencyXAF Currency = "XAF"

	// DefaultCurrency is preselected by the form.
	DefaultCurrency = CurrencyXAF
)

// Record is one cash-receipt ("bon d'entrée en caisse") as submitted by the
// form. It is a plain value: nothing here is validated or parsed, and Amount
// in particular is only ever displayed, never used in arithmetic.
type Record struct {
	ReceiptNumber          string   `json:"receipt_number"`
	PaidTo                 string   `json:"paid_to"`
	IDCardNumber           string   `json:"id_card_number"`
	Amount                 string   `json:"amount"`
	Currency               Currency `json:"currency"`
	Motifs                 string   `json:"motifs"`
	JustificativeDocuments string   `json:"justificative_documents"`
	CashierName            string   `json:"cashier_name"`
	OrderGiverName         string   `json:"order_giver_name"`
	// Email is the raw comma-separated recipient list. Use Recipients().
	Email string `json:"email"`
	// Date is an ISO calendar date ("2006-01-02").
	Date string `json:"date"`
}

// WithDefaults returns a copy of r with the form defaults applied to empty
// fields. Only the currency has a default.
func (r Record) WithDefaults() Record {
	if strings.TrimSpace(string(r.Currency)) == "" {
		r.Currency = DefaultCurrency
	}
	return r
}

// Recipients parses r.Email. See ParseRecipients.
func (r Record) Recipients() []string {
	return ParseRecipients(r.Email)
}

// CurrencySymbol returns the display symbol for r.Currency.
func (r Record) CurrencySymbol() string {
	return r.Currency.Symbol()
}

// AmountLabel is the bracketed amount shown on the PDF and in the email,
// e.g. "## 50000 FCFA ##". An empty amount is shown as 0.
func (r Record) AmountLabel() string {
	amount := r.Amount
	if amount == "" {
		amount = "0"
	}
	return fmt.Sprintf("## %s %s ##", amount, r.CurrencySymbol())
}

// DisplayDate returns r.Date formatted for local display.
func (r Record) DisplayDate() string {
	return FormatDisplayDate(r.Date)
}

// PDFFilename is the attachment / download filename for r.
func (r Record) PDFFilename() string {
	return fmt.Sprintf("makbuz-%s.pdf", r.ReceiptNumber)
}

// ─── CURRENCY ────────────────────────────────────────────────────────────────

// Symbol maps a currency code to its display symbol. The mapping is total:
// XAF and every unrecognised code map to "FCFA".
func (c Currency) Symbol() string {
	switch c {
	case CurrencyUSD:
		return "$"
	case CurrencyEUR:
		return "€"
	case CurrencyTL:
		return "₺"
	default:
		return "FCFA"
	}
}

// ─── DATES ───────────────────────────────────────────────────────────────────

// DisplayDateLayout is the day.month.year convention used on receipts.
const DisplayDateLayout = "02.01.2006"

// InvalidDate is what an unparseable date renders as.
const InvalidDate = "Invalid Date"

// acceptedDateLayouts are tried in order. The form always sends the first one;
// the rest keep hand-written API calls from rendering InvalidDate needlessly.
var acceptedDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// FormatDisplayDate parses an ISO date permissively and reformats it with
// DisplayDateLayout. Anything unparseable, including the empty string, yields
// InvalidDate rather than an error.
func FormatDisplayDate(iso string) string {
	s := strings.TrimSpace(iso)
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DisplayDateLayout)
		}
	}
	return InvalidDate
}

// ─── RECIPIENTS ──────────────────────────────────────────────────────────────

// ParseRecipients splits a comma-separated address list, trims each entry and
// keeps only entries containing "@". Order is preserved and duplicates are
// kept. The result is nil when nothing survives.
func ParseRecipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		addr := strings.TrimSpace(part)
		if addr == "" || !strings.Contains(addr, "@") {
			continue
		}
		out = append(out, addr)
	}
	return out
}
