package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultResendEndpoint is the Resend send-email API.
const DefaultResendEndpoint = "https://api.resend.com/emails"

// resendClient is the concrete Sender backed by the Resend API.
type resendClient struct {
	apiKey     string
	from       string // e.g. "ACCED <onboarding@resend.dev>"
	endpoint   string
	httpClient *http.Client
}

// NewResendClient returns a Sender that delivers email via Resend. An empty
// endpoint means DefaultResendEndpoint; a zero timeout means 15 seconds.
func NewResendClient(apiKey, fromAddr, fromName, endpoint string, timeout time.Duration) Sender {
	if endpoint == "" {
		endpoint = DefaultResendEndpoint
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &resendClient{
		apiKey:   apiKey,
		from:     formatFrom(fromName, fromAddr),
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ─── RESEND API SHAPES ────────────────────────────────────────────────────────

type resendRequest struct {
	From        string             `json:"from"`
	To          []string           `json:"to"`
	Subject     string             `json:"subject"`
	HTML        string             `json:"html"`
	Attachments []resendAttachment `json:"attachments,omitempty"`
}

type resendAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"` // base64
}

type resendError struct {
	Name       string `json:"name"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// resendResponse covers both the success body ({"id": ...}) and the two error
// shapes seen in the wild: a flat error object and one nested under "error".
type resendResponse struct {
	ID string `json:"id"`
	resendError
	Error *resendError `json:"error"`
}

// ─── SENDER IMPLEMENTATION ────────────────────────────────────────────────────

// Send posts msg to Resend and returns the message id.
func (c *resendClient) Send(ctx context.Context, msg Message) (string, error) {
	reqBody := resendRequest{
		From:    c.from,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}
	for _, a := range msg.Attachments {
		reqBody.Attachments = append(reqBody.Attachments, resendAttachment{
			Filename: a.Filename,
			Content:  base64.StdEncoding.EncodeToString(a.Content),
		})
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("email: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("email: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	// Each Send is a distinct message; the key only guards against the
	// transport replaying this one request.
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("email: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("email: read response: %w", err)
	}

	var parsed resendResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", &ProviderError{
				Provider:   "resend",
				Message:    fmt.Sprintf("%.200s", string(respBytes)),
				StatusCode: resp.StatusCode,
			}
		}
		return "", fmt.Errorf("email: unmarshal response (status %d): %w", resp.StatusCode, err)
	}

	if perr := parsed.providerError(resp.StatusCode); perr != nil {
		return "", perr
	}
	return parsed.ID, nil
}

func (r *resendResponse) providerError(status int) *ProviderError {
	e := r.Error
	if e == nil && (r.Name != "" || r.Message != "") {
		e = &r.resendError
	}
	if e == nil && status >= 200 && status < 300 {
		return nil
	}

	perr := &ProviderError{Provider: "resend", StatusCode: status}
	if e != nil {
		perr.Name = e.Name
		perr.Message = e.Message
		if e.StatusCode != 0 {
			perr.StatusCode = e.StatusCode
		}
	}
	if perr.Message == "" {
		perr.Message = http.StatusText(status)
	}
	return perr
}
