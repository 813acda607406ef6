package sugarscan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Analyzer submits a barcode for analysis. It is implemented by *Client and
// can be faked in tests.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) Result
}

// Ensure Client implements Analyzer at compile time.
var _ Analyzer = (*Client)(nil)

// Request is one analysis submission.
type Request struct {
	Barcode string
	// Token identifies the submission; it is sent as X-Request-ID.
	Token string
}

// Client talks to the SugarScan analysis webhook.
type Client struct {
	endpoint  *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent      = "sugarscan/0.1"
	defaultRequestTimeout = 20 * time.Second
	maxResponseBytes      = 1 << 20
)

// ErrEmptyBarcode is returned by Post when the trimmed barcode is blank.
var ErrEmptyBarcode = errors.New("barcode is empty")

// NewClient builds a Client posting to webhookURL. A non-positive timeout uses
// the default.
func NewClient(webhookURL string, timeout time.Duration) (*Client, error) {
	endpoint, err := parseEndpoint(webhookURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Endpoint returns the webhook URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Analyze posts the barcode and maps the outcome into a Result. It never
// returns an error: transport failures become a generic error result and the
// cause is logged.
func (c *Client) Analyze(ctx context.Context, req Request) Result {
	res, err := c.Post(ctx, req)
	if err != nil {
		log.Printf("analyze %q (request %s) failed: %v", strings.TrimSpace(req.Barcode), req.Token, err)
		return TransportError()
	}
	return res
}

// Post sends one analysis request and returns the decoded result or the
// transport error. No status-code handling is applied: any body that parses
// as a JSON object is a result.
func (c *Client) Post(ctx context.Context, req Request) (Result, error) {
	if c == nil {
		return Result{}, fmt.Errorf("client is nil")
	}
	barcode := strings.TrimSpace(req.Barcode)
	if barcode == "" {
		return Result{}, ErrEmptyBarcode
	}

	body, err := json.Marshal(struct {
		Barcode string `json:"barcode"`
	}{Barcode: barcode})
	if err != nil {
		return Result{}, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if req.Token != "" {
		httpReq.Header.Set("X-Request-ID", req.Token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Result{}, fmt.Errorf("decode response (status %d): not a JSON object", resp.StatusCode)
	}
	var p payload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return Result{}, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	return p.result(), nil
}

func parseEndpoint(webhookURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(webhookURL)
	if trimmed == "" {
		return nil, fmt.Errorf("webhook url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse webhook url %q: %w", webhookURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("webhook url %q: unsupported scheme %q", webhookURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("webhook url %q: missing host", webhookURL)
	}
	u.Fragment = ""
	return u, nil
}
