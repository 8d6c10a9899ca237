// Package api is a client for the remote RSVP service that stores
// households, event responses and guest book comments.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	// CA roots for kiosk images that ship without a system bundle
	_ "github.com/BrandonKowalski/certifiable"
	"github.com/yildizm/wedsite/internal/logger"
)

const (
	DefaultBaseURL    = "https://wedding-rsvp-one-gamma.vercel.app"
	DefaultTimeout    = 15 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 500 * time.Millisecond
)

type Config struct {
	BaseURL    string        `json:"base_url"`
	Timeout    time.Duration `json:"timeout"`
	MaxRetries int           `json:"max_retries"`
	RetryDelay time.Duration `json:"retry_delay"`
	UserAgent  string        `json:"user_agent,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:    DefaultBaseURL,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
	}
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return newError(ErrTypeConfiguration, "", "base URL is required", nil)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return newError(ErrTypeConfiguration, "", fmt.Sprintf("invalid base URL: %q", c.BaseURL), err)
	}
	if c.Timeout <= 0 {
		return newError(ErrTypeConfiguration, "", "timeout must be positive", nil)
	}
	if c.MaxRetries < 1 {
		return newError(ErrTypeConfiguration, "", "max retries must be at least 1", nil)
	}
	if c.RetryDelay < 0 {
		return newError(ErrTypeConfiguration, "", "retry delay must be non-negative", nil)
	}
	return nil
}

// Client is safe for concurrent use.
type Client struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
	log     *logger.Logger
}

func New(config *Config, log *logger.Logger) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, newError(ErrTypeConfiguration, "", "invalid base URL", err)
	}
	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
		log:     log,
	}, nil
}

// BaseURL of the service.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// do sends in as JSON (if non-nil) and decodes the response into out (if non-nil).
// Requests that are not idempotent are sent once: a 5xx may arrive after the
// service already stored them.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, idempotent bool, in, out interface{}) error {
	endpoint := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return newError(ErrTypeValidation, path, "failed to encode request", err)
		}
	}

	start := time.Now()
	attempts := c.config.MaxRetries
	if !idempotent {
		attempts = 1
	}
	resp, err := c.doRequestWithRetry(ctx, method, endpoint.String(), path, body, attempts)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.DebugWithFields("%s %s", []logger.Field{logger.F("status", resp.StatusCode), logger.Duration(time.Since(start))}, method, path)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(path, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newError(ErrTypeDecode, path, "failed to decode response", err)
	}
	return nil
}

func (c *Client) doRequestWithRetry(ctx context.Context, method, rawURL, path string, body []byte, attempts int) (*http.Response, error) {
	var lastErr *APIError

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * c.config.RetryDelay
			if lastErr != nil && lastErr.RetryAfter > 0 {
				delay = lastErr.RetryAfter
			}
			c.log.Debug("retrying %s %s in %s (attempt %d)", method, path, delay, attempt+1)
			if err := sleep(ctx, delay); err != nil {
				return nil, newError(ErrTypeTimeout, path, "request cancelled", err)
			}
		}

		var reqBody io.Reader
		if body != nil {
			reqBody = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
		if err != nil {
			return nil, newError(ErrTypeValidation, path, "failed to create request", err)
		}
		c.setHeaders(req, body != nil)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, newError(ErrTypeTimeout, path, "request cancelled", ctx.Err())
			}
			lastErr = newError(ErrTypeNetwork, path, "request failed", err)
			var urlErr *url.Error
			if errors.As(err, &urlErr) && urlErr.Timeout() {
				lastErr.Type = ErrTypeTimeout
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = c.handleErrorResponse(path, resp)
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests {
				lastErr.RetryAfter = retryAfter(resp.Header.Get("Retry-After"))
			}
			continue
		}

		return resp, nil
	}

	if lastErr == nil {
		lastErr = newError(ErrTypeNetwork, path, "max retries exceeded", nil)
	}
	return nil, lastErr
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
}

func (c *Client) handleErrorResponse(path string, resp *http.Response) *APIError {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return errorFromStatus(path, resp.StatusCode, "")
	}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return errorFromStatus(path, resp.StatusCode, "")
	}
	return errorFromStatus(path, resp.StatusCode, body.text())
}

func retryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
