// Package docket delivers audit events to the platform docket service.
package docket

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/evolvus/dateformats/domain"
)

const defaultTimeout = 10 * time.Second

// Client POSTs audit events to the docket endpoint. Each request is signed
// with HMAC-SHA256 so the receiver can verify authenticity. Non-2xx responses
// are errors; the caller (normally the audit emitter) decides what to do with
// them.
type Client struct {
	url    string
	secret []byte
	client *http.Client
}

// NewClient returns a Client that POSTs events to url and signs them with
// secret. A zero or negative timeout falls back to 10 s.
func NewClient(url, secret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:    url,
		secret: []byte(secret),
		client: &http.Client{Timeout: timeout},
	}
}

// Publish marshals the event to JSON, signs the body, and POSTs it. The
// following headers are set on every request:
//
//	Content-Type:         application/json
//	X-Docket-Application: <event.Application>
//	X-Docket-Source:      <event.Source>
//	X-Docket-Event:       <event.Name>
//	X-Hub-Signature-256:  sha256=<hex-encoded HMAC-SHA256>
func (c *Client) Publish(ctx context.Context, event domain.AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Docket-Application", event.Application)
	req.Header.Set("X-Docket-Source", event.Source)
	req.Header.Set("X-Docket-Event", event.Name)
	req.Header.Set("X-Hub-Signature-256", "sha256="+c.sign(payload))

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to docket: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("docket returned status %d", resp.StatusCode)
	}
	return nil
}

// sign returns the lowercase hex-encoded HMAC-SHA256 of payload.
func (c *Client) sign(payload []byte) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
