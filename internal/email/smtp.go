package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SMTPConfig configures the SMTP Sender.
type SMTPConfig struct {
	Host     string
	Port     int // 465 means implicit TLS, anything else plain with STARTTLS when offered
	Username string
	Password string
	FromAddr string
	FromName string
	Timeout  time.Duration
}

// smtpSender is the concrete Sender that talks to an SMTP relay directly.
type smtpSender struct {
	cfg SMTPConfig
	now func() time.Time
}

// NewSMTPSender returns a Sender that delivers email through an SMTP server.
func NewSMTPSender(cfg SMTPConfig) Sender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &smtpSender{cfg: cfg, now: time.Now}
}

// Send opens one connection per message. The returned id is the Message-ID
// header value.
func (s *smtpSender) Send(ctx context.Context, msg Message) (string, error) {
	if len(msg.To) == 0 {
		return "", errors.New("email: smtp: no recipients")
	}

	msgID := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.cfg.Host)
	raw, err := buildMIME(s.from(), msg, msgID, s.now())
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	conn, err := s.dial(ctx)
	if err != nil {
		return "", fmt.Errorf("email: smtp dial: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return "", smtpErr("greeting", err)
	}
	defer client.Close()

	if !s.implicitTLS() {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
				return "", smtpErr("starttls", err)
			}
		}
	}

	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return "", smtpErr("auth", err)
		}
	}

	if err := client.Mail(s.cfg.FromAddr); err != nil {
		return "", smtpErr("mail from", err)
	}
	for _, to := range msg.To {
		if err := client.Rcpt(to); err != nil {
			return "", smtpErr("rcpt to", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return "", smtpErr("data", err)
	}
	if _, err := w.Write(raw); err != nil {
		return "", smtpErr("write", err)
	}
	if err := w.Close(); err != nil {
		return "", smtpErr("data", err)
	}

	// The message is accepted at this point; a failed QUIT does not undo it.
	_ = client.Quit()
	return msgID, nil
}

func (s *smtpSender) implicitTLS() bool { return s.cfg.Port == 465 }

func (s *smtpSender) from() string {
	return (&mail.Address{Name: s.cfg.FromName, Address: s.cfg.FromAddr}).String()
}

func (s *smtpSender) dial(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	if s.implicitTLS() {
		d := &tls.Dialer{Config: &tls.Config{ServerName: s.cfg.Host}}
		return d.DialContext(ctx, "tcp", addr)
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr)
}

// smtpErr turns a server rejection into a ProviderError and wraps anything
// else as a transport failure.
func smtpErr(stage string, err error) error {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return &ProviderError{
			Provider:   "smtp",
			Name:       stage,
			Message:    tpErr.Msg,
			StatusCode: tpErr.Code,
		}
	}
	return fmt.Errorf("email: smtp %s: %w", stage, err)
}

// ─── MIME ─────────────────────────────────────────────────────────────────────

// buildMIME assembles the RFC 5322 message. Messages without attachments are
// a single text/html part; otherwise multipart/mixed with base64 attachments.
func buildMIME(from string, msg Message, msgID string, date time.Time) ([]byte, error) {
	var buf bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&buf, "%s: %s\r\n", k, v) }

	header("From", from)
	header("To", strings.Join(msg.To, ", "))
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", date.Format(time.RFC1123Z))
	header("Message-ID", msgID)
	header("MIME-Version", "1.0")

	if len(msg.Attachments) == 0 {
		header("Content-Type", `text/html; charset="utf-8"`)
		header("Content-Transfer-Encoding", "quoted-printable")
		buf.WriteString("\r\n")
		if err := writeQuotedPrintable(&buf, msg.HTML); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	mw := multipart.NewWriter(&buf)
	header("Content-Type", mime.FormatMediaType("multipart/mixed", map[string]string{"boundary": mw.Boundary()}))
	buf.WriteString("\r\n")

	htmlPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {`text/html; charset="utf-8"`},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return nil, fmt.Errorf("email: mime html part: %w", err)
	}
	if err := writeQuotedPrintable(htmlPart, msg.HTML); err != nil {
		return nil, err
	}

	for _, a := range msg.Attachments {
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {attachmentType(a.Filename)},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename})},
		})
		if err != nil {
			return nil, fmt.Errorf("email: mime attachment part: %w", err)
		}
		if err := writeBase64Lines(part, a.Content); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("email: mime close: %w", err)
	}
	return buf.Bytes(), nil
}

func writeQuotedPrintable(w io.Writer, s string) error {
	qp := quotedprintable.NewWriter(w)
	if _, err := qp.Write([]byte(s)); err != nil {
		return fmt.Errorf("email: mime encode html: %w", err)
	}
	if err := qp.Close(); err != nil {
		return fmt.Errorf("email: mime encode html: %w", err)
	}
	return nil
}

// writeBase64Lines writes b as base64 wrapped at 76 characters.
func writeBase64Lines(w io.Writer, b []byte) error {
	const lineLen = 76
	enc := base64.StdEncoding.EncodeToString(b)
	for len(enc) > 0 {
		n := min(lineLen, len(enc))
		if _, err := fmt.Fprintf(w, "%s\r\n", enc[:n]); err != nil {
			return fmt.Errorf("email: mime encode attachment: %w", err)
		}
		enc = enc[n:]
	}
	return nil
}

func attachmentType(filename string) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}
