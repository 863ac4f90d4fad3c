// Package api talks to the remote task service over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/idilsaglam/tasks/internal/auth"
	"github.com/idilsaglam/tasks/internal/model"
)

const (
	tasksPath = "api/tasks"

	// SessionCookie is the cookie name a session credential is sent under.
	SessionCookie = "session"

	// RequestIDHeader carries a per-request UUID for log correlation.
	RequestIDHeader = "X-Request-ID"
)

// Receipt is the success body of a create or delete.
type Receipt struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// Client issues the three task requests. It never retries and sets no
// timeout of its own; only the caller's context can cut a request short.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *log.Logger
	cred   *auth.TokenInfo
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests use this).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithCredential forwards an opaque credential on every request.
func WithCredential(ti *auth.TokenInfo) Option {
	return func(c *Client) { c.cred = ti }
}

// New builds a client rooted at baseURL (e.g. "http://127.0.0.1:5000").
func New(ctx context.Context, baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base:   base,
		http:   http.DefaultClient,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.attachCredential(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) attachCredential(ctx context.Context) error {
	if c.cred == nil || c.cred.Token == "" {
		return nil
	}
	switch c.cred.Kind {
	case auth.KindCookie:
		jar, err := cookiejar.New(nil)
		if err != nil {
			return fmt.Errorf("cookie jar: %w", err)
		}
		jar.SetCookies(c.base, []*http.Cookie{{Name: SessionCookie, Value: c.cred.Token, Path: "/"}})
		hc := *c.http
		hc.Jar = jar
		c.http = &hc
	default:
		// oauth2.NewClient wraps whatever client sits in the context.
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.cred.Token, TokenType: "Bearer"})
		c.http = oauth2.NewClient(ctx, ts)
	}
	return nil
}

// List fetches the full collection in server order.
func (c *Client) List(ctx context.Context) (model.TaskCollection, error) {
	const op = "list"
	raw, body, err := c.do(ctx, op, http.MethodGet, c.collectionURL(), nil)
	if err != nil {
		return nil, err
	}
	if _, ok := body.([]any); !ok {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("unexpected response: want a JSON array, got %s", kindOf(body))}
	}
	if err := validateCollection(body); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	var tasks model.TaskCollection
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("decode tasks: %w", err)}
	}
	return tasks, nil
}

// Create asks the server to persist a new task with the given text.
func (c *Client) Create(ctx context.Context, text string) (Receipt, error) {
	const op = "create"
	payload, err := json.Marshal(map[string]string{"task": text})
	if err != nil {
		return Receipt{}, &TransportError{Op: op, Err: fmt.Errorf("encode body: %w", err)}
	}
	raw, _, err := c.do(ctx, op, http.MethodPost, c.collectionURL(), payload)
	if err != nil {
		return Receipt{}, err
	}
	return c.receipt(op, raw), nil
}

// Delete asks the server to remove the task with the given id.
func (c *Client) Delete(ctx context.Context, id int64) (Receipt, error) {
	const op = "delete"
	u := c.base.JoinPath(tasksPath, strconv.FormatInt(id, 10))
	raw, _, err := c.do(ctx, op, http.MethodDelete, u, nil)
	if err != nil {
		return Receipt{}, err
	}
	return c.receipt(op, raw), nil
}

func (c *Client) collectionURL() *url.URL { return c.base.JoinPath(tasksPath) }

// receipt decodes a success body leniently: any JSON without an error
// field already counts as success.
func (c *Client) receipt(op string, raw []byte) Receipt {
	var r Receipt
	if err := json.Unmarshal(raw, &r); err != nil {
		c.logger.Debug("ignoring unexpected success body", "op", op, "err", err)
	}
	return r
}

// do performs one round trip and sorts the result into the two error
// channels. The HTTP status is not consulted: the body decides.
func (c *Client) do(ctx context.Context, op, method string, u *url.URL, payload []byte) ([]byte, any, error) {
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return nil, nil, &TransportError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("request", "op", op, "method", method, "url", u.String(), "request_id", reqID)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	c.logger.Debug("response", "op", op, "status", resp.StatusCode, "bytes", len(raw), "request_id", reqID)

	body, err := decodeAny(raw)
	if err != nil {
		return nil, nil, &TransportError{Op: op, Err: fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)}
	}
	if body == nil {
		return nil, nil, &TransportError{Op: op, Err: fmt.Errorf("response body is null (status %d)", resp.StatusCode)}
	}
	if msg, ok := errorField(body); ok {
		return nil, nil, &AppError{Op: op, Message: msg}
	}
	return raw, body, nil
}

func decodeAny(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

// errorField returns the body's error message when the field is present
// and truthy; an empty string, false, zero or null is not an error.
func errorField(body any) (string, bool) {
	obj, ok := body.(map[string]any)
	if !ok {
		return "", false
	}
	v, ok := obj["error"]
	if !ok {
		return "", false
	}
	switch e := v.(type) {
	case nil:
		return "", false
	case string:
		return e, e != ""
	case bool:
		return "true", e
	case json.Number:
		if f, err := e.Float64(); err == nil && f == 0 {
			return "", false
		}
		return e.String(), true
	default:
		b, _ := json.Marshal(e)
		return string(b), true
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	}
	return fmt.Sprintf("%T", v)
}
