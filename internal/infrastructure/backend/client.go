// Package backend implements the gateway client for the platform REST API.
//
// Each operation is a single fire-and-forget request: the client performs no
// caching, no retries, and no per-call timeout beyond whatever deadline the
// caller's context carries. Call sites handle transient failure themselves.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/factoryhq/console/internal/api/metrics"
	"github.com/factoryhq/console/internal/core/domain"
	"github.com/factoryhq/console/internal/core/ports"
)

// Fallback messages, one per operation, used when an error response carries
// no parsable message. The strings match the platform's existing UI copy.
const (
	msgLoginFailed       = "Login failed"
	msgListFactories     = "Failed to fetch factories"
	msgCreateFactory     = "Failed to create factory"
	msgListFactoryUsers  = "Failed to fetch factory users"
	msgCreateFactoryUser = "Failed to create user"
	msgUpdateUser        = "Failed to update user"
	msgDeleteUser        = "Failed to delete user"
)

// APIError is the failure result of a gateway call. Message is always
// human-readable: the platform's own message when one could be parsed from
// the response body, the per-operation fallback otherwise. Status is the
// HTTP status code, or 0 when no response arrived at all.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

// HumanMessage returns the user-facing message. The session layer discovers
// it through a small interface so it never has to import this package.
func (e *APIError) HumanMessage() string { return e.Message }

// Client talks to the platform REST API rooted at baseURL.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

// NewClient builds a gateway client. baseURL is used as-is apart from
// trailing-slash trimming; the default http.Client is kept deliberately so
// the runtime's transport defaults apply.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
		log:     log,
	}
}

var _ ports.Backend = (*Client)(nil)

// Authenticate exchanges credentials for a token, the principal, and the
// principal's factory when one applies. No bearer header is sent.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out ports.LoginResult
	if err := c.do(ctx, http.MethodPost, "/login", "", body, &out, "authenticate", msgLoginFailed); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListFactories(ctx context.Context, token string) ([]domain.Factory, error) {
	var out []domain.Factory
	if err := c.do(ctx, http.MethodGet, "/factories", token, nil, &out, "list_factories", msgListFactories); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateFactory(ctx context.Context, token string, in ports.CreateFactoryInput) (*domain.Factory, error) {
	var out domain.Factory
	if err := c.do(ctx, http.MethodPost, "/factories", token, in, &out, "create_factory", msgCreateFactory); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListFactoryUsers(ctx context.Context, token, factoryID string) ([]domain.User, error) {
	var out []domain.User
	path := "/factory/" + factoryID + "/users"
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out, "list_factory_users", msgListFactoryUsers); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateFactoryUser(ctx context.Context, token, factoryID string, in ports.CreateUserInput) (*domain.User, error) {
	var out domain.User
	path := "/factory/" + factoryID + "/users"
	if err := c.do(ctx, http.MethodPost, path, token, in, &out, "create_factory_user", msgCreateFactoryUser); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, token, userID string, in ports.UpdateUserInput) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodPut, "/users/"+userID, token, in, &out, "update_user", msgUpdateUser); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, token, userID string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+userID, token, nil, nil, "delete_user", msgDeleteUser)
}

// upstreamError is the error envelope the platform renders on failures.
// Both field names occur in the wild, so try them in order.
type upstreamError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (u upstreamError) text() string {
	if u.Message != "" {
		return u.Message
	}
	return u.Error
}

// do issues one request and decodes the response into out (when non-nil).
// Every failure comes back as *APIError with a human-readable Message.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any, operation, fallback string) error {
	var payload io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &APIError{Message: fallback, Err: fmt.Errorf("encode request: %w", err)}
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return &APIError{Message: fallback, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(operation, "error").Inc()
		c.log.Warn().Err(err).Str("operation", operation).Msg("platform request failed")
		return &APIError{Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestsTotal.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fallback
		var envelope upstreamError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr == nil && envelope.text() != "" {
			msg = envelope.text()
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: fallback, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
