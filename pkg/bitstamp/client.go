package bitstamp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	httpClient "stampgo/internal/http"
	"stampgo/internal/ratelimit"
	"stampgo/internal/signer"
	"stampgo/pkg/core"
)

// Option is a functional option for configuring Public and Trading clients.
type Option func(*Options)

// Options holds configuration options for the clients.
type Options struct {
	Gate   *Gate
	Logger zerolog.Logger
	// Nonce overrides the first nonce of a Trading client. Zero means wall-clock seconds.
	Nonce int64
}

// WithGate makes the client use g instead of the process-wide default gate.
func WithGate(g *Gate) Option {
	return func(o *Options) {
		o.Gate = g
	}
}

// WithLogger returns an option that sets the logger for the client.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithNonce sets the first nonce a Trading client signs with. Use it when a previous
// process already consumed nonces beyond the current Unix time.
func WithNonce(start int64) Option {
	return func(o *Options) {
		o.Nonce = start
	}
}

// client is shared by Public and Trading: gate, transport, logging.
type client struct {
	config   *core.Config
	http     *httpClient.Client
	gate     *ratelimit.Gate
	logger   zerolog.Logger
	quotaLog *rate.Sometimes
}

func newClient(config *core.Config, opts []Option) (*client, *Options, error) {
	if config == nil {
		config = core.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validate config: %w", err)
	}

	options := &Options{
		Logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.Gate == nil {
		options.Gate = ratelimit.Default()
	}

	logger := options.Logger
	if config.LogLevel != "" {
		level, err := zerolog.ParseLevel(config.LogLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("parse log level: %w", err)
		}
		logger = logger.Level(level)
	}
	logger = logger.With().Str("exchange", core.ExchangeName).Logger()

	hc, err := httpClient.NewClient(&httpClient.Config{
		BaseURL:   config.BaseURL,
		Timeout:   config.Timeout,
		UserAgent: config.UserAgent,
		Headers:   config.Headers,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create http client: %w", err)
	}

	return &client{
		config:   config,
		http:     hc,
		gate:     options.Gate,
		logger:   logger,
		quotaLog: &rate.Sometimes{Interval: 10 * time.Second},
	}, options, nil
}

// Close releases the underlying HTTP client.
func (c *client) Close() error {
	return c.http.Close()
}

// Gate returns the request gate this client admits calls through.
func (c *client) Gate() *Gate {
	return c.gate
}

// do admits the call, signs it when s is non-nil, sends it and returns the body of a
// 2xx response. Non-2xx answers become *core.ExchangeError.
func (c *client) do(ctx context.Context, req *core.Request, s *signer.Signer) ([]byte, error) {
	if c.http.Closed() {
		return nil, core.ErrClientClosed
	}

	if err := c.gate.Admit(); err != nil {
		c.quotaLog.Do(func() {
			c.logger.Warn().Err(err).Str("operation", req.Operation.String()).Msg("request quota exceeded")
		})
		return nil, err
	}

	if s != nil {
		req.SetFormParams(s.Sign().Map())
	}

	var (
		body   []byte
		status int
		text   string
	)
	switch req.Method {
	case http.MethodGet:
		resp, err := c.http.Get(ctx, req.Path, httpClient.WithQueryParams(req.Query.Strings()))
		if err != nil {
			return nil, c.networkError(req, err)
		}
		body, status, text = resp.Bytes(), resp.StatusCode(), resp.Status()
	case http.MethodPost:
		resp, err := c.http.PostForm(ctx, req.Path, req.Form.Strings(), httpClient.WithQueryParams(req.Query.Strings()))
		if err != nil {
			return nil, c.networkError(req, err)
		}
		body, status, text = resp.Bytes(), resp.StatusCode(), resp.Status()
	default:
		return nil, fmt.Errorf("unsupported method: %s", req.Method)
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		c.logger.Debug().
			Str("operation", req.Operation.String()).
			Int("status", status).
			Msg("exchange returned error status")
		return nil, core.NewStatusError(core.ExchangeName, status, text, body)
	}
	return body, nil
}

func (c *client) networkError(req *core.Request, err error) error {
	if errors.Is(err, core.ErrClientClosed) {
		return err
	}
	var netErr net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
	c.logger.Error().Err(err).
		Str("operation", req.Operation.String()).
		Str("path", req.Path).
		Msg("http request failed")
	return core.NewNetworkError(core.ExchangeName, timeout, err)
}
