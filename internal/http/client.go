package http

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"stampgo/pkg/core"
)

// Client is the HTTP transport behind every Bitstamp call. It performs no rate limiting
// or signing of its own and never retries.
type Client struct {
	client *resty.Client
	logger zerolog.Logger
	mu     sync.RWMutex
	closed bool
}

type Config struct {
	BaseURL   string            `validate:"required,url"`
	Timeout   time.Duration     `validate:"min=1ms"`
	UserAgent string            `validate:"omitempty"`
	Headers   map[string]string `validate:"omitempty"`
}

type RequestOption func(*resty.Request)

func NewClient(config *Config, logger zerolog.Logger) (*Client, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := resty.New()
	client.SetBaseURL(config.BaseURL)
	client.SetTimeout(config.Timeout)
	client.AddContentTypeEncoder("application/json", func(w io.Writer, v any) error {
		data, err := sonic.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
	client.AddContentTypeDecoder("application/json", func(r io.Reader, v any) error {
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		return sonic.Unmarshal(data, v)
	})

	if config.UserAgent != "" {
		client.SetHeader("User-Agent", config.UserAgent)
	}
	for k, v := range config.Headers {
		client.SetHeader(k, v)
	}

	c := &Client{
		client: client,
		logger: logger,
	}

	client.AddRequestMiddleware(func(_ *resty.Client, req *resty.Request) error {
		logger.Debug().
			Str("method", req.Method).
			Str("url", req.URL).
			Msg("http request")
		return nil
	})

	client.AddResponseMiddleware(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug().
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Int("size", len(resp.Bytes())).
			Msg("http response")
		return nil
	})

	return c, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (*resty.Response, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, core.ErrClientClosed
	}

	req := c.client.R().SetContext(ctx)
	for _, opt := range opts {
		opt(req)
	}
	return req.Get(url)
}

// PostForm sends form as an application/x-www-form-urlencoded body.
func (c *Client) PostForm(ctx context.Context, url string, form map[string]string, opts ...RequestOption) (*resty.Response, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, core.ErrClientClosed
	}

	req := c.client.R().SetContext(ctx).SetFormData(form)
	for _, opt := range opts {
		opt(req)
	}
	return req.Post(url)
}

func WithHeader(key, value string) RequestOption {
	return func(r *resty.Request) {
		r.SetHeader(key, value)
	}
}

func WithQueryParams(params map[string]string) RequestOption {
	return func(r *resty.Request) {
		r.SetQueryParams(params)
	}
}
