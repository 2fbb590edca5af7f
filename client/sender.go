package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// DefaultFormField is the form field carrying the request document.
const DefaultFormField = "mensagem"

// Sender delivers a request document and returns the response document.
type Sender interface {
	Send(ctx context.Context, url string, body []byte) ([]byte, error)
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, url string, body []byte) ([]byte, error)

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, url string, body []byte) ([]byte, error) {
	return f(ctx, url, body)
}

// CommunicationError reports a failed exchange with the remote service.
type CommunicationError struct {
	URL    string
	Status int // HTTP status, 0 when no response was received.
	cause  error
}

func (e *CommunicationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("communication with %s failed: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("communication with %s failed: %v", e.URL, e.cause)
}

func (e *CommunicationError) Cause() error  { return e.cause }
func (e *CommunicationError) Unwrap() error { return e.cause }

// HTTPSender posts the document as an application/x-www-form-urlencoded
// body with a single field.
type HTTPSender struct {
	Client *http.Client
	Field  string
}

// NewHTTPSender returns a sender with its own http.Client.
func NewHTTPSender(timeout time.Duration, field string) *HTTPSender {
	if field == "" {
		field = DefaultFormField
	}
	return &HTTPSender{Client: &http.Client{Timeout: timeout}, Field: field}
}

// Send implements Sender.
func (s *HTTPSender) Send(ctx context.Context, target string, body []byte) ([]byte, error) {
	field := s.Field
	if field == "" {
		field = DefaultFormField
	}
	form := url.Values{field: []string{string(body)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, &CommunicationError{URL: target, cause: errors.Wrap(err, "build request")}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	hc := s.Client
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, &CommunicationError{URL: target, cause: errors.Wrap(err, "post request")}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CommunicationError{URL: target, cause: errors.Wrap(err, "read response")}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &CommunicationError{URL: target, Status: resp.StatusCode, cause: errors.Errorf("unexpected status %s", resp.Status)}
	}
	return data, nil
}
