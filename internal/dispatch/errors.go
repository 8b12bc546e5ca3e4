package dispatch

import (
	"errors"
	"fmt"

	"github.com/nyashahama/cash-receipt-backend/internal/pdf"
)

// Errors returned by Dispatch and Download. Match with errors.Is.
var (
	// ErrNoRecipients means no address containing "@" survived parsing.
	// No email was attempted.
	ErrNoRecipients = errors.New("dispatch: no valid recipients")

	// ErrEmailSend means the notification email was rejected by the provider
	// or could not be delivered to it.
	ErrEmailSend = errors.New("dispatch: email send failed")

	// ErrNotAuthorized means no successful dispatch was recorded for the
	// requested receipt number. Nothing was rendered.
	ErrNotAuthorized = errors.New("dispatch: download not authorized")

	// ErrRender means the PDF could not be drawn.
	ErrRender = pdf.ErrRender
)

// Messages shown to the form user.
const (
	MsgSent          = "✅ E-posta başarıyla gönderildi!"
	msgNoRecipients  = "Geçerli e-posta adresi bulunamadı"
	msgEmailSend     = "E-posta hatası: %s"
	msgNotAuthorized = "Makbuz kontrolü ve güvenliği için e-posta gönderimi sağlanmadan PDF indiremezsiniz"
	msgRender        = "PDF oluşturulamadı: %s"
	msgGeneral       = "Genel hata: %s"
)

// opError pairs a taxonomy sentinel with the underlying cause so both match
// errors.Is and the cause text is available for the user message.
type opError struct {
	kind  error
	cause error
}

func (e *opError) Error() string { return e.kind.Error() + ": " + e.cause.Error() }
func (e *opError) Unwrap() []error { return []error{e.kind, e.cause} }

func wrap(kind, cause error) error {
	return &opError{kind: kind, cause: cause}
}

// UserMessage returns the short localized message for err. It returns "" for
// a nil error.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoRecipients):
		return msgNoRecipients
	case errors.Is(err, ErrNotAuthorized):
		return msgNotAuthorized
	case errors.Is(err, ErrEmailSend):
		return fmt.Sprintf(msgEmailSend, detail(err))
	case errors.Is(err, ErrRender):
		return fmt.Sprintf(msgRender, detail(err))
	default:
		return fmt.Sprintf(msgGeneral, err)
	}
}

func detail(err error) string {
	var oe *opError
	if errors.As(err, &oe) {
		return oe.cause.Error()
	}
	return err.Error()
}
