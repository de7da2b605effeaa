// Package checkout talks to the storefront's checkout-session endpoint.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const sessionPath = "/create-checkout-session"

// ErrNetwork matches failures to reach the endpoint or read its answer.
var ErrNetwork = errors.New("checkout: network error")

// Error is a failure reported by the endpoint in its {"error": ...} body.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("checkout: %s (status %d)", e.Message, e.Status)
}

type Request struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type response struct {
	ID    string `json:"id"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error"`
}

// Resolver yields the endpoint's base URL, for example from service
// discovery.
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

// StaticURL is a Resolver for a fixed base URL.
type StaticURL string

func (s StaticURL) Resolve(context.Context) (string, error) { return string(s), nil }

type Client struct {
	resolver   Resolver
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(resolver Resolver, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		resolver: resolver,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("checkout"),
	}
}

// CreateSession asks for a checkout session and returns its id. No
// credentials are attached. Requests are not retried.
func (c *Client) CreateSession(ctx context.Context, req Request) (string, error) {
	base, err := c.resolver.Resolve(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: resolve endpoint: %v", ErrNetwork, err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(base, "/")+sessionPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Checkout error", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
	}
	if out.Error != "" {
		return "", &Error{Status: resp.StatusCode, Message: out.Error}
	}
	if out.ID == "" {
		return "", &Error{Status: resp.StatusCode, Message: "missing session id"}
	}

	c.logger.Info("Checkout session created", zap.String("session_id", out.ID))
	return out.ID, nil
}
