package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/nyashahama/cash-receipt-backend/internal/receipt"
)

const (
	notificationSubject = "🧾 Makbuz N°: %s - BON D'ENTREE EN CAISSE"
	attachmentSubject   = "📎 PDF Makbuz N°: %s - BON D'ENTREE EN CAISSE"
)

// NotificationMessage builds the first email of a dispatch: a summary of rec
// without the PDF.
func NotificationMessage(rec receipt.Record, to []string) (Message, error) {
	html, err := renderTemplate(notificationTmpl, receiptView(rec))
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf(notificationSubject, rec.ReceiptNumber),
		HTML:    html,
	}, nil
}

// AttachmentMessage builds the second email of a dispatch, carrying the
// rendered PDF.
func AttachmentMessage(rec receipt.Record, to []string, pdf []byte) (Message, error) {
	html, err := renderTemplate(attachmentTmpl, receiptView(rec))
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf(attachmentSubject, rec.ReceiptNumber),
		HTML:    html,
		Attachments: []Attachment{{
			Filename: rec.PDFFilename(),
			Content:  pdf,
		}},
	}, nil
}

// ─── HTML TEMPLATES ───────────────────────────────────────────────────────────

type view struct {
	PaidTo        string
	ReceiptNumber string
	Amount        string
	Date          string
	IDCardNumber  string
	Motifs        string
}

func receiptView(rec receipt.Record) view {
	return view{
		PaidTo:        rec.PaidTo,
		ReceiptNumber: rec.ReceiptNumber,
		Amount:        rec.AmountLabel(),
		Date:          rec.DisplayDate(),
		IDCardNumber:  rec.IDCardNumber,
		Motifs:        rec.Motifs,
	}
}

func renderTemplate(t *template.Template, v view) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("email: render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

var notificationTmpl = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html lang="tr">
<head><meta charset="utf-8"><title>ACCED Makbuz</title></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 0; background-color: #f5f5f5;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
 <div style="background: #ffffff; padding: 30px; border-radius: 10px; border: 2px solid #16a34a;">
  <div style="background: #16a34a; color: #ffffff; padding: 20px; border-radius: 8px; margin-bottom: 20px; text-align: center;">
   <h2 style="margin: 0; font-size: 18px;">ASSOCIATION CAMEROUNAISE POUR LA CULTURE ET L'ÉDUCATION</h2>
   <div style="background: #dc2626; padding: 8px 16px; display: inline-block; border-radius: 6px; margin-top: 10px;">
    <h3 style="margin: 0; font-size: 16px;">ACCED</h3>
   </div>
  </div>
  <div style="background: #f0f9ff; padding: 20px; border-radius: 8px; border-left: 4px solid #16a34a; margin-bottom: 20px;">
   <h3 style="color: #16a34a; margin-top: 0;">🎯 Sayın {{.PaidTo}},</h3>
   <p style="color: #333333; line-height: 1.6; margin: 0;">Makbuzunuz başarıyla oluşturulmuştur.</p>
  </div>
  <div style="background: #fef3c7; padding: 20px; border-radius: 8px; margin: 20px 0; border: 2px solid #f59e0b;">
   <h4 style="color: #92400e; margin-top: 0;">📋 Makbuz Detayları</h4>
   <table style="width: 100%; border-collapse: collapse;">
    <tr><td style="padding: 8px; font-weight: bold;">Makbuz N°:</td><td style="padding: 8px; color: #16a34a; font-weight: bold;">{{.ReceiptNumber}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Tutar:</td><td style="padding: 8px; font-size: 18px; color: #dc2626; font-weight: bold;">{{.Amount}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Tarih:</td><td style="padding: 8px; font-weight: bold;">{{.Date}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Kimlik N°:</td><td style="padding: 8px;">{{.IDCardNumber}}</td></tr>
    {{- if .Motifs}}
    <tr><td style="padding: 8px; font-weight: bold;">Motifs:</td><td style="padding: 8px;">{{.Motifs}}</td></tr>
    {{- end}}
   </table>
  </div>
  <p style="color: #333333; text-align: center; margin: 15px 0;">Teşekkür ederiz! 🙏</p>
  <hr style="margin: 20px 0; border: none; border-top: 1px solid #e5e7eb;">
  <div style="text-align: center; color: #666666; font-size: 12px;">
   <strong style="color: #16a34a;">ASSOCIATION CAMEROUNAISE POUR LA CULTURE ET L'ÉDUCATION</strong><br>
   📍 Yaoundé, Cameroun
  </div>
 </div>
</div>
</body>
</html>`))

var attachmentTmpl = template.Must(template.New("attachment").Parse(`<!DOCTYPE html>
<html lang="tr">
<head><meta charset="utf-8"><title>ACCED PDF Makbuz</title></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 0; background-color: #f5f5f5;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
 <div style="background: #ffffff; padding: 30px; border-radius: 10px; border: 2px solid #16a34a;">
  <div style="text-align: center; margin: 20px 0;">
   <div style="background: #16a34a; color: #ffffff; padding: 15px; border-radius: 8px; display: inline-block;">
    📎 <strong>PDF Makbuz Ekte</strong>
   </div>
  </div>
  <p style="color: #333333; text-align: center; margin: 15px 0;">Sayın {{.PaidTo}}, {{.ReceiptNumber}} numaralı PDF makbuzunuz ekte bulunmaktadır.</p>
 </div>
</div>
</body>
</html>`))
