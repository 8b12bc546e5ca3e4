// Package dispatch implements the two operations behind the receipt form:
// emailing a receipt (Dispatcher) and downloading its PDF once that email has
// gone out (Downloader).
//
// Dispatch steps, each gating the next:
//
//  1. parse the recipient list (ErrNoRecipients when empty)
//  2. send the notification email (ErrEmailSend on failure)
//  3. record the success in the send gate
//  4. render the PDF and send it as a second email, best-effort and detached
//     from the caller's cancellation
package dispatch

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nyashahama/cash-receipt-backend/internal/email"
	"github.com/nyashahama/cash-receipt-backend/internal/receipt"
)

// Renderer draws a receipt as a PDF.
type Renderer interface {
	Render(rec receipt.Record) ([]byte, error)
}

// Gate remembers the last successfully emailed receipt.
type Gate interface {
	RecordSuccess(rec receipt.Record)
	IsAuthorized(rec receipt.Record) bool
	Last() (receipt.Record, bool)
}

// Result is the outcome of a successful Dispatch.
type Result struct {
	Message string // localized confirmation
	EmailID string // provider id of the notification email
}

// Dispatcher sends receipts by email.
type Dispatcher struct {
	mailer   email.Sender
	renderer Renderer
	gate     Gate
	logger   *slog.Logger
}

// NewDispatcher returns a Dispatcher.
func NewDispatcher(mailer email.Sender, renderer Renderer, gate Gate, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		mailer:   mailer,
		renderer: renderer,
		gate:     gate,
		logger:   logger,
	}
}

// Dispatch emails rec to its recipients. Once the notification email is
// accepted the dispatch has succeeded; the attachment email that follows
// cannot change that.
func (d *Dispatcher) Dispatch(ctx context.Context, rec receipt.Record) (Result, error) {
	rec = rec.WithDefaults()
	log := d.logger.With(
		"dispatch_id", uuid.NewString(),
		"receipt_number", rec.ReceiptNumber,
	)

	to := rec.Recipients()
	if len(to) == 0 {
		log.InfoContext(ctx, "dispatch: no valid recipients", "raw", rec.Email)
		return Result{}, ErrNoRecipients
	}

	msg, err := email.NotificationMessage(rec, to)
	if err != nil {
		log.ErrorContext(ctx, "dispatch: build notification", "error", err)
		return Result{}, wrap(ErrEmailSend, err)
	}

	id, err := d.mailer.Send(ctx, msg)
	if err != nil {
		log.ErrorContext(ctx, "dispatch: notification email failed",
			"recipients", len(to),
			"error", err,
		)
		return Result{}, wrap(ErrEmailSend, err)
	}

	d.gate.RecordSuccess(rec)
	log.InfoContext(ctx, "dispatch: notification sent",
		"email_id", id,
		"recipients", len(to),
	)

	// The dispatch already succeeded. A client disconnect or request timeout
	// must not abort the attachment; the mailer's own timeout still bounds it.
	if err := d.sendAttachment(context.WithoutCancel(ctx), rec, to); err != nil {
		log.WarnContext(ctx, "dispatch: attachment email skipped", "error", err)
	} else {
		log.InfoContext(ctx, "dispatch: attachment sent")
	}

	return Result{
		Message: MsgSent,
		EmailID: id,
	}, nil
}

// sendAttachment renders rec and emails the PDF. Its error is for logging
// only.
func (d *Dispatcher) sendAttachment(ctx context.Context, rec receipt.Record, to []string) error {
	out, err := d.renderer.Render(rec)
	if err != nil {
		return err
	}
	msg, err := email.AttachmentMessage(rec, to, out)
	if err != nil {
		return err
	}
	_, err = d.mailer.Send(ctx, msg)
	return err
}
