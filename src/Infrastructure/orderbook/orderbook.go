// Package orderbook implements a strongly-typed HTTP client for the
// protocol's order-book service.
//
// Coverage:
// - Quote endpoint (indicative pricing for a prospective order)
// - Order placement endpoint (signed order submission)
//
// Notes:
// - The API is namespaced per network: /<network>/api/v1/...
// - Validation failures come back as {errorType, description}; the
//   description passes through verbatim to callers
// - Transport failures and 5xx responses classify as ErrUnavailable
package orderbook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cowtrade/cowtrade/src/protocol"
)

// Default HTTP timeouts tuned for server-side usage
var (
	DefaultHTTPClient = &http.Client{Timeout: 30 * time.Second}
)

// Errors
var (
	ErrUnavailable = errors.New("order book unavailable")
)

// APIError is a structured rejection from the order-book service.
type APIError struct {
	Status      int    `json:"-"`
	ErrorType   string `json:"errorType"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return fmt.Sprintf("order book rejected request (%d %s)", e.Status, e.ErrorType)
}

// NewClient constructs a new order-book client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base url is required")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	c := &Client{
		BaseURL:   u,
		HTTP:      DefaultHTTPClient,
		UserAgent: "cowtrade/1.0",
		Logger:    log.Logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Option functional options
type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.HTTP = h } }
func WithUserAgent(ua string) Option       { return func(c *Client) { c.UserAgent = ua } }
func WithLogger(l zerolog.Logger) Option   { return func(c *Client) { c.Logger = l } }

type Client struct {
	BaseURL   *url.URL
	HTTP      *http.Client
	UserAgent string
	Logger    zerolog.Logger
}

// QuoteRequest is the body for the quote endpoint. Amounts are base-unit
// decimal strings.
type QuoteRequest struct {
	SellToken           string `json:"sellToken"`
	BuyToken            string `json:"buyToken"`
	Receiver            string `json:"receiver"`
	From                string `json:"from"`
	SellAmountBeforeFee string `json:"sellAmountBeforeFee"`
	Kind                string `json:"kind"`
	SigningScheme       string `json:"signingScheme"`
}

// QuotedOrder is the pricing snapshot inside a quote response.
type QuotedOrder struct {
	SellToken  string `json:"sellToken"`
	BuyToken   string `json:"buyToken"`
	Receiver   string `json:"receiver"`
	SellAmount string `json:"sellAmount"`
	BuyAmount  string `json:"buyAmount"`
	FeeAmount  string `json:"feeAmount"`
	ValidTo    uint32 `json:"validTo"`
	Kind       string `json:"kind"`
}

// QuoteResponse is the quote endpoint's envelope.
type QuoteResponse struct {
	Quote      QuotedOrder `json:"quote"`
	From       string      `json:"from"`
	Expiration string      `json:"expiration"`
	ID         *int64      `json:"id"`
}

// OrderRequest is the body for order placement: the twelve canonical fields
// plus the signature envelope. All addresses must already be lowercase.
type OrderRequest struct {
	SellToken         string `json:"sellToken"`
	BuyToken          string `json:"buyToken"`
	Receiver          string `json:"receiver"`
	SellAmount        string `json:"sellAmount"`
	BuyAmount         string `json:"buyAmount"`
	ValidTo           uint32 `json:"validTo"`
	AppData           string `json:"appData"`
	FeeAmount         string `json:"feeAmount"`
	Kind              string `json:"kind"`
	PartiallyFillable bool   `json:"partiallyFillable"`
	SellTokenBalance  string `json:"sellTokenBalance"`
	BuyTokenBalance   string `json:"buyTokenBalance"`
	SigningScheme     string `json:"signingScheme"`
	Signature         string `json:"signature"`
	From              string `json:"from"`
}

// Quote fetches an indicative quote for a prospective order.
func (c *Client) Quote(ctx context.Context, chainID int64, req QuoteRequest) (*QuoteResponse, error) {
	network, err := protocol.NetworkSlug(chainID)
	if err != nil {
		return nil, err
	}

	var out QuoteResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/%s/api/v1/quote", network), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder submits a signed order and returns the protocol order id.
func (c *Client) CreateOrder(ctx context.Context, chainID int64, req OrderRequest) (string, error) {
	network, err := protocol.NetworkSlug(chainID)
	if err != nil {
		return "", err
	}

	// The order endpoint returns a bare JSON string: the order uid.
	var orderID string
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/%s/api/v1/orders", network), req, &orderID); err != nil {
		return "", err
	}
	return orderID, nil
}

func (c *Client) do(ctx context.Context, method, p string, body, out any) error {
	u := *c.BaseURL
	u.Path = u.Path + p

	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		r = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	ev := c.Logger.Info().
		Str("method", method).
		Str("url", u.String()).
		Int("status", resp.StatusCode).
		Str("duration", time.Since(start).String())
	if len(b) <= maxLoggedBody && json.Valid(b) {
		ev.RawJSON("response", b)
	} else {
		// Truncated or non-JSON bodies are logged as plain strings so the
		// emitted log line stays valid JSON.
		ev.Str("response", string(truncateBody(b, maxLoggedBody)))
	}
	ev.Msg("order book response")

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: http %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(b, apiErr); err != nil {
			apiErr.Description = string(b)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// --- Helpers ---

// maxLoggedBody caps how much of an upstream response body ends up in a log line.
const maxLoggedBody = 2048

func truncateBody(b []byte, max int) []byte {
	if len(b) > max {
		return b[:max]
	}
	return b
}
