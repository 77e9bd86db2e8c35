// Package remote talks to a skyportal HTTP server. It implements the same
// repository contracts as the local backend and translates failed responses
// onto the shared error taxonomy.
package remote

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

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/session"
	"github.com/Jigar634859/skyportal/internal/wire"
)

type Config struct {
	// BaseURL includes the /api prefix, e.g. http://localhost:5000/api.
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

type Client struct {
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	sessions *session.Store
	logger   *zap.Logger
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

func NewClient(cfg Config, sessions *session.Store, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if sessions == nil {
		sessions = session.NewStore(nil)
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	c := &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(limit, max(cfg.Burst, 1)),
		sessions: sessions,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do sends one JSON request. A nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.Unavailable(method+" "+path, err)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.sessions.BearerToken(); tok != "" {
		req.Header.Set(wire.HeaderAuthorize, wire.BearerPrefix+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return domain.Unavailable(method+" "+path, err)
	}
	defer resp.Body.Close()
	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(method, path, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.Unavailable("decode "+method+" "+path, err)
	}
	return nil
}

func decodeError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload wire.ErrorResponse
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &payload)
	}
	msg := payload.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{
		Method:  method,
		Path:    path,
		Status:  resp.StatusCode,
		Code:    payload.Code,
		Message: msg,
		kind:    wire.ErrorFor(resp.StatusCode, payload.Code),
	}
}

// APIError is a non-2xx response. It matches the domain error it maps to
// under errors.Is.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Code    wire.Code
	Message string
	kind    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Status, e.kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.kind }

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
