// Package transport provides the HTTP transport used to talk to the exchange.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"spotclient/pkg/core"
)

// Client wraps a resty HTTP client with logging, a fixed timeout and optional proxy routing.
// It never retries: every Do call results in at most one HTTP exchange.
type Client struct {
	client   *resty.Client
	logger   zerolog.Logger
	exchange string
	mu       sync.RWMutex
	closed   bool
}

// Config configures a Client.
type Config struct {
	// Exchange names the exchange in returned errors.
	Exchange string            `validate:"required"`
	BaseURL  string            `validate:"required,url"`
	Timeout  time.Duration     `validate:"min=1ms"`
	Proxy    core.ProxyConfig  `validate:"-"`
	Headers  map[string]string `validate:"omitempty"`
}

var validate = validator.New()

// NewClient creates a new HTTP client with the specified configuration.
// Bodies are returned raw; decoding is left to the protocol.
func NewClient(config *Config, logger zerolog.Logger) (*Client, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := resty.New()
	client.SetBaseURL(config.BaseURL)
	client.SetTimeout(config.Timeout)
	client.SetRetryCount(0)

	if config.Proxy.Enabled() {
		client.SetProxy(config.Proxy.URL())
	}

	for k, v := range config.Headers {
		client.SetHeader(k, v)
	}

	client.AddRequestMiddleware(func(_ *resty.Client, req *resty.Request) error {
		logger.Debug().
			Str("method", req.Method).
			Str("url", req.URL).
			Msg("http request")
		return nil
	})

	return &Client{
		client:   client,
		logger:   logger,
		exchange: config.Exchange,
	}, nil
}

// Close releases idle connections. Subsequent requests fail with core.ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}

// Do executes one HTTP request and returns the response, whatever its status.
// The query is sent exactly as req.Query.Encode() renders it, so a signature
// computed over that encoding stays valid on the wire.
// Transport failures are returned as timeout or network errors.
func (c *Client) Do(ctx context.Context, req *core.Request) (*core.Response, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, core.ErrClientClosed
	}

	r := c.client.R().SetContext(ctx)

	for k, v := range req.Headers {
		r.SetHeader(k, v)
	}

	if req.Form.Len() > 0 {
		r.SetFormData(req.Form.Map())
	}

	var resp *resty.Response
	var err error

	url := req.URL()
	switch req.Method {
	case http.MethodGet:
		resp, err = r.Get(url)
	case http.MethodPost:
		resp, err = r.Post(url)
	case http.MethodPut:
		resp, err = r.Put(url)
	case http.MethodDelete:
		resp, err = r.Delete(url)
	default:
		return nil, core.NewExchangeError(c.exchange, core.ErrorTypeBadRequest, 0,
			fmt.Sprintf("unsupported http method: %s", req.Method)).WithCode(core.ErrCodeUnsupported)
	}

	if err != nil {
		c.logger.Error().Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Msg("http request failed")
		if isTimeout(err) {
			return nil, core.NewTimeoutError(c.exchange, err)
		}
		return nil, core.NewNetworkError(c.exchange, err)
	}

	body := resp.Bytes()

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode()).
		Int("size", len(body)).
		Msg("http response")

	headers := make(map[string]string)
	for k, v := range resp.Header() {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	return &core.Response{
		StatusCode: resp.StatusCode(),
		Status:     reasonPhrase(resp.Status(), resp.StatusCode()),
		Body:       body,
		Headers:    headers,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// reasonPhrase strips the numeric code from a status line such as "418 I'm a teapot".
func reasonPhrase(status string, code int) string {
	reason := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if reason == "" {
		return http.StatusText(code)
	}
	return reason
}
