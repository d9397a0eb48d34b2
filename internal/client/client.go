// Package client is a typed REST client for the todocore API. It implements
// the same storage contract as the in-process backends, so anything built on
// domain.Store can run against a remote server unchanged.
//
// Server-side failures are mapped back onto the domain taxonomy: a not_found
// envelope becomes a NotFoundError for the requested id, a validation_error
// envelope becomes a ValidationError, and everything that prevents a
// well-formed exchange becomes a TransportError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"todocore/pkg/domain"
)

const defaultTimeout = 10 * time.Second

// Responses larger than this are truncated before error classification.
const maxErrorBody = 1 << 16

// errorEnvelope mirrors the server's error payload.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client calls the todocore REST API.
type Client struct {
	baseURL string
	httpc   *http.Client
}

var _ domain.Store = (*Client)(nil)

// Option customises client construction.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client. Nil clients are
// ignored.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// New builds a client for the API server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns every todo on the server in insertion order.
func (c *Client) List(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := c.do(ctx, "list todos", http.MethodGet, "/todos/", nil, http.StatusOK, 0, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// Get returns the todo with the given id.
func (c *Client) Get(ctx context.Context, id int64) (domain.Todo, error) {
	var todo domain.Todo
	if err := c.do(ctx, "get todo", http.MethodGet, fmt.Sprintf("/todos/%d", id), nil, http.StatusOK, id, &todo); err != nil {
		return domain.Todo{}, err
	}
	return todo, nil
}

// Create stores a new todo and returns it with its assigned id.
func (c *Client) Create(ctx context.Context, input domain.CreateInput) (domain.Todo, error) {
	var todo domain.Todo
	if err := c.do(ctx, "create todo", http.MethodPost, "/todos/", input, http.StatusCreated, 0, &todo); err != nil {
		return domain.Todo{}, err
	}
	return todo, nil
}

// Update applies a partial update and returns the updated record.
func (c *Client) Update(ctx context.Context, id int64, input domain.UpdateInput) (domain.Todo, error) {
	var todo domain.Todo
	if err := c.do(ctx, "update todo", http.MethodPut, fmt.Sprintf("/todos/%d", id), input, http.StatusOK, id, &todo); err != nil {
		return domain.Todo{}, err
	}
	return todo, nil
}

// Delete removes the todo with the given id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, "delete todo", http.MethodDelete, fmt.Sprintf("/todos/%d", id), nil, http.StatusOK, id, nil)
}

// do performs one exchange: marshal payload, issue the request, and either
// decode the expected-status body into out or classify the failure. id names
// the targeted record for not-found mapping; 0 means the operation has no
// target.
func (c *Client) do(ctx context.Context, op, method, path string, payload any, want int, id int64, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return domain.TransportError{Op: op, Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return domain.TransportError{Op: op, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return domain.TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != want {
		return failure(op, resp, id)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return domain.TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
		}
	}
	return nil
}

// failure turns a non-expected status into a domain error. Envelopes the
// client cannot attribute to the taxonomy degrade to transport errors.
func failure(op string, resp *http.Response, id int64) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error == "" {
		return domain.TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	switch domain.Kind(env.Error) {
	case domain.KindNotFound:
		if id != 0 {
			return domain.NotFoundError{ID: id}
		}
	case domain.KindValidation:
		if field, reason, ok := strings.Cut(env.Message, ": "); ok {
			return domain.ValidationError{Field: field, Reason: reason}
		}
		return domain.ValidationError{Reason: env.Message}
	}
	return domain.TransportError{Op: op, Err: fmt.Errorf("server returned %d: %s", resp.StatusCode, env.Message)}
}
