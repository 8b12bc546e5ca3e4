package email_test

import (
	"strings"
	"testing"

	"github.com/nyashahama/cash-receipt-backend/internal/email"
	"github.com/nyashahama/cash-receipt-backend/internal/receipt"
)

func sampleRecord() receipt.Record {
	return receipt.Record{
		ReceiptNumber: "002964",
		PaidTo:        "Jean Dupont",
		IDCardNumber:  "CM-123456",
		Amount:        "50000",
		Currency:      receipt.CurrencyXAF,
		Email:         "a@x.com",
		Date:          "2025-01-15",
	}
}

func TestNotificationMessage(t *testing.T) {
	to := []string{"a@x.com", "b@y.com"}
	msg, err := email.NotificationMessage(sampleRecord(), to)
	if err != nil {
		t.Fatalf("NotificationMessage: %v", err)
	}

	if msg.Subject != "🧾 Makbuz N°: 002964 - BON D'ENTREE EN CAISSE" {
		t.Errorf("subject: got %q", msg.Subject)
	}
	if len(msg.To) != 2 {
		t.Errorf("to: got %v", msg.To)
	}
	if len(msg.Attachments) != 0 {
		t.Error("notification must not carry the PDF")
	}
	for _, want := range []string{"Sayın Jean Dupont", "002964", "## 50000 FCFA ##", "15.01.2025", "CM-123456"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(msg.HTML, "Motifs:") {
		t.Error("motifs row shown for empty motifs")
	}
}

func TestNotificationMessage_MotifsAndEscaping(t *testing.T) {
	rec := sampleRecord()
	rec.Motifs = "Cotisation <b>annuelle</b>"
	rec.PaidTo = `<script>alert("x")</script>`

	msg, err := email.NotificationMessage(rec, []string{"a@x.com"})
	if err != nil {
		t.Fatalf("NotificationMessage: %v", err)
	}
	if !strings.Contains(msg.HTML, "Motifs:") {
		t.Error("expected the motifs row")
	}
	if strings.Contains(msg.HTML, "<script>") || strings.Contains(msg.HTML, "<b>annuelle</b>") {
		t.Error("user input must be escaped")
	}
	if !strings.Contains(msg.HTML, "Cotisation &lt;b&gt;annuelle&lt;/b&gt;") {
		t.Error("expected escaped motifs text")
	}
}

func TestAttachmentMessage(t *testing.T) {
	pdf := []byte("%PDF-fake")
	msg, err := email.AttachmentMessage(sampleRecord(), []string{"a@x.com"}, pdf)
	if err != nil {
		t.Fatalf("AttachmentMessage: %v", err)
	}

	if msg.Subject != "📎 PDF Makbuz N°: 002964 - BON D'ENTREE EN CAISSE" {
		t.Errorf("subject: got %q", msg.Subject)
	}
	if len(msg.Attachments) != 1 {
		t.Fatalf("attachments: got %d", len(msg.Attachments))
	}
	if a := msg.Attachments[0]; a.Filename != "makbuz-002964.pdf" || string(a.Content) != string(pdf) {
		t.Errorf("attachment: got %q (%d bytes)", a.Filename, len(a.Content))
	}
	if !strings.Contains(msg.HTML, "Jean Dupont") {
		t.Error("body should greet the payee")
	}
}
