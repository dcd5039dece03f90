package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	ordersPath                  = "/api/orders"
	defaultTimeout              = 15 * time.Second
	responseBodyReadLimit int64 = 64 << 10
)

// Created is the order API's answer to a successful submission.
type Created struct {
	OrderID string
}

// Client posts orders to the upstream order API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default instrumented HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds an order API client for baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("order api base url is required")
	}
	client := &Client{
		baseURL: trimmed,
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Create submits req. The bearer token is attached only when non-empty.
// Errors are *NetworkError, *ServerRejectionError or *UnparsableResponseError.
func (c *Client) Create(ctx context.Context, req *OrderRequest, token string) (*Created, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ordersPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if token = strings.TrimSpace(token); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerRejectionError{
			Status:  resp.StatusCode,
			Message: rejectionMessage(body),
		}
	}

	id, err := orderIDFromBody(body)
	if err != nil {
		return nil, &UnparsableResponseError{Status: resp.StatusCode, Body: string(body), Err: err}
	}
	if id == "" {
		return nil, &UnparsableResponseError{Status: resp.StatusCode, Body: string(body)}
	}
	return &Created{OrderID: id}, nil
}

type createdBody struct {
	MongoID json.RawMessage `json:"_id"`
	ID      json.RawMessage `json:"id"`
}

// orderIDFromBody reads _id, falling back to id. Numeric ids are accepted.
func orderIDFromBody(body []byte) (string, error) {
	var parsed createdBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if id := rawID(parsed.MongoID); id != "" {
		return id, nil
	}
	return rawID(parsed.ID), nil
}

func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func messageFromBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var parsed struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if msg := textOf(parsed.Message); msg != "" {
			return msg
		}
		if msg := textOf(parsed.Error); msg != "" {
			return msg
		}
		return trimmed
	}
	return trimmed
}

func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if msg, ok := t["message"].(string); ok {
			return strings.TrimSpace(msg)
		}
	}
	return ""
}
