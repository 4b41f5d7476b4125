// Package client is the typed HTTP client the storefront uses to reach the
// reservations API and the identity backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"florist/internal/shared/utils/response"
)

// ErrNetwork wraps transport failures (no HTTP response at all).
var ErrNetwork = errors.New("network error")

// APIError is a non-2xx answer; Message is the backend's French message.
type APIError struct {
	StatusCode int
	Message    string
	Errors     json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether the backend rejected the session token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Message returns the text to show the user for err.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return response.GenericErrorMessage
}

type forwardedForKey struct{}

// WithForwardedFor tags ctx with the shopper's address so calls made with it
// carry X-Forwarded-For and are rate limited per shopper, not per storefront.
func WithForwardedFor(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, forwardedForKey{}, ip)
}

func forwardedFor(ctx context.Context) string {
	ip, _ := ctx.Value(forwardedForKey{}).(string)
	return ip
}

type Client struct {
	HTTPClient *http.Client
	BaseURL    string // e.g. http://localhost:8080/api/v1
	LoginURL   string
}

func New(baseURL, loginURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		BaseURL:    strings.TrimRight(baseURL, "/"),
		LoginURL:   loginURL,
	}
}

// envelope mirrors response.StandardApiResponse with a lazily decoded payload.
type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
}

func (c *Client) doJSON(ctx context.Context, method, rawURL, token string, reqBody any, respData any) (string, error) {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}

	var buf bytes.Buffer
	if reqBody != nil {
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if ip := forwardedFor(ctx); ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(b, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = env.Message
			apiErr.Errors = env.Errors
		}
		return "", apiErr
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode api response failed: %w body=%s", decodeErr, string(b))
	}

	if respData != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, respData); err != nil {
			return env.Message, fmt.Errorf("decode api data failed: %w", err)
		}
	}
	return env.Message, nil
}

func (c *Client) url(path string, query url.Values) string {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
