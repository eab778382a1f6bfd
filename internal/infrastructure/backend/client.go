// Package backend is the REST transport to the company/driver portal API.
package backend

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

	"github.com/rs/zerolog"

	"github.com/cdportal/admin-console/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// TokenSource yields the current bearer credential, or "" when there is none.
type TokenSource interface {
	Token() string
}

// ObserveFunc is called once per backend exchange. status is 0 when the
// request never produced a response.
type ObserveFunc func(op string, status int, elapsed time.Duration)

// Config captures the settings for reaching the backend.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Observe    ObserveFunc
}

// Client issues JSON requests against the backend.
type Client struct {
	base    *url.URL
	http    *http.Client
	tokens  TokenSource
	observe ObserveFunc
	log     zerolog.Logger
}

func New(cfg Config, tokens TokenSource, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend url: unsupported scheme %q", base.Scheme)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	observe := cfg.Observe
	if observe == nil {
		observe = func(string, int, time.Duration) {}
	}
	return &Client{base: base, http: hc, tokens: tokens, observe: observe, log: log}, nil
}

func (c *Client) Companies() *CompanyClient { return &CompanyClient{c: c} }
func (c *Client) Drivers() *DriverClient    { return &DriverClient{c: c} }
func (c *Client) Users() *UserClient        { return &UserClient{c: c} }
func (c *Client) Auth() *AuthClient         { return &AuthClient{c: c} }

// request describes one backend exchange.
type request struct {
	op        string
	method    string
	path      []string
	query     url.Values
	body      any
	anonymous bool
}

// Ping checks that the backend answers at all. Any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}

// do sends r and returns the raw response body of a 2xx reply. Any other
// outcome is a *domain.TransportError.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	u := c.base.JoinPath(r.path...)
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return nil, &domain.TransportError{Op: r.op, Err: fmt.Errorf("encode body: %w", err)}
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, &domain.TransportError{Op: r.op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if !r.anonymous && c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(r.op, 0, time.Since(start))
		c.log.Debug().Err(err).Str("op", r.op).Msg("backend request failed")
		return nil, &domain.TransportError{Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	c.observe(r.op, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, &domain.TransportError{Op: r.op, StatusCode: resp.StatusCode, Err: err}
	}

	c.log.Debug().
		Str("op", r.op).
		Str("method", r.method).
		Str("url", u.Redacted()).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend exchange")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.TransportError{Op: r.op, StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	return raw, nil
}

// doJSON is do followed by decoding into out. An empty body leaves out as is.
func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	raw, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.TransportError{Op: r.op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorMessage extracts {message} or {error} from an error body.
func errorMessage(raw []byte) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}

// statusOf returns the HTTP status carried by err, or 0.
func statusOf(err error) int {
	var te *domain.TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
