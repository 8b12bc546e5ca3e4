// Package email defines the interface for transactional email delivery and
// provides Resend- and SMTP-backed implementations.
package email

import (
	"context"
	"fmt"
)

// Attachment is a file sent along with a message.
type Attachment struct {
	Filename string // e.g. "makbuz-002964.pdf"
	Content  []byte
}

// Message is one outbound email. The sender address is fixed per Sender.
type Message struct {
	To          []string // at least one address
	Subject     string   // may contain emoji
	HTML        string
	Attachments []Attachment
}

// Sender is the interface the dispatcher uses to send email.
// Tests inject a stub that records calls without hitting the network.
type Sender interface {
	// Send delivers msg in a single provider call and returns the provider's
	// message id. There is no retry.
	Send(ctx context.Context, msg Message) (string, error)
}

// ProviderError is returned when the provider answered but refused the
// message. Transport failures are returned as plain wrapped errors.
type ProviderError struct {
	Provider   string // "resend" or "smtp"
	Name       string // provider error name, e.g. "validation_error"
	Message    string
	StatusCode int // HTTP status (Resend) or SMTP reply code
}

func (e *ProviderError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s (%d): %s", e.Provider, e.Name, e.StatusCode, e.Message)
}

func formatFrom(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", name, addr)
}
