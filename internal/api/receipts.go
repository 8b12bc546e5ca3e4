package api

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/nyashahama/cash-receipt-backend/internal/dispatch"
	"github.com/nyashahama/cash-receipt-backend/internal/receipt"
)

// ─── POST /api/receipts ──────────────────────────────────────────────────────

type dispatchResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	EmailID string `json:"email_id,omitempty"`
}

// handleDispatch emails the submitted receipt. A 200 means the notification
// email was accepted; the attachment email is best-effort and not reported.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var rec receipt.Record
	if !decode(w, r, &rec) {
		return
	}

	res, err := s.dispatcher.Dispatch(r.Context(), rec)
	if err != nil {
		s.respondDispatchErr(w, r, err)
		return
	}

	respond(w, http.StatusOK, dispatchResponse{
		Success: true,
		Message: res.Message,
		EmailID: res.EmailID,
	})
}

// ─── POST /api/receipts/download ─────────────────────────────────────────────

type downloadResponse struct {
	Success bool   `json:"success"`
	PDFURL  string `json:"pdf_url"`
}

// handleDownload returns the PDF as a data URI. Refused with 403 unless this
// receipt number was the last one successfully emailed.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var rec receipt.Record
	if !decode(w, r, &rec) {
		return
	}

	dl, err := s.downloader.Download(r.Context(), rec)
	if err != nil {
		s.respondDispatchErr(w, r, err)
		return
	}

	respond(w, http.StatusOK, downloadResponse{
		Success: true,
		PDFURL:  dl.DataURL,
	})
}

// ─── POST /api/receipts/pdf ──────────────────────────────────────────────────

// handleDownloadPDF is handleDownload without the base64 wrapping: the body is
// the PDF itself, served as an attachment.
func (s *Server) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	var rec receipt.Record
	if !decode(w, r, &rec) {
		return
	}

	dl, err := s.downloader.Download(r.Context(), rec)
	if err != nil {
		s.respondDispatchErr(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(dl.PDF)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dl.PDF)
}

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// respondDispatchErr maps the dispatch error taxonomy to a status code and the
// localized user message. Anything outside the taxonomy is a 500.
func (s *Server) respondDispatchErr(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, dispatch.ErrNoRecipients):
		status = http.StatusBadRequest
	case errors.Is(err, dispatch.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, dispatch.ErrEmailSend):
		status = http.StatusBadGateway
	case errors.Is(err, dispatch.ErrRender):
		status = http.StatusInternalServerError
	default:
		s.respondInternalErr(w, r, err)
		return
	}

	s.logger.Warn("receipt request failed",
		"path", r.URL.Path,
		"status", status,
		"error", err,
		logField(r),
	)
	respondErr(w, status, dispatch.UserMessage(err))
}
