// Package relay submits form data to a hosted form relay service, which
// forwards it to the shop owner. The storefront has no mail or order
// backend of its own beyond this hand-off.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"

	sotel "storefront/pkg/otel"
)

// ErrRejected indicates the relay answered but did not accept the submission.
var ErrRejected = errors.New("relay rejected submission")

// Config configures a Client.
type Config struct {
	URL       string
	AccessKey string
	FromName  string
	Timeout   time.Duration
}

// Submission is one form post. Field names are sent as given.
type Submission struct {
	Subject string
	Fields  map[string]string
}

// Submitter sends submissions to the relay.
type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

// Client posts submissions as JSON.
type Client struct {
	url       string
	accessKey string
	fromName  string
	http      *http.Client
}

// New creates a relay client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:       cfg.URL,
		accessKey: cfg.AccessKey,
		fromName:  cfg.FromName,
		http:      &http.Client{Timeout: timeout},
	}
}

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submit posts s once. A nil error means the relay accepted it; failures are
// not retried.
func (c *Client) Submit(ctx context.Context, s Submission) error {
	ctx, span := sotel.AddSpan(ctx, "relay.Submit", attribute.String("relay.subject", s.Subject))
	defer span.End()

	err := c.submit(ctx, s)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) submit(ctx context.Context, s Submission) error {
	payload := make(map[string]string, len(s.Fields)+3)
	for k, v := range s.Fields {
		payload[k] = v
	}
	payload["access_key"] = c.accessKey
	payload["subject"] = s.Subject
	if c.fromName != "" {
		payload["from_name"] = c.fromName
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting to relay: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("reading relay response: %w", err)
	}
	var out response
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if out.Message != "" {
			return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, out.Message)
		}
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: undecodable response: %v", ErrRejected, decodeErr)
	}
	if !out.Success {
		return fmt.Errorf("%w: %s", ErrRejected, out.Message)
	}
	return nil
}
