package core

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultBaseURL is the production Bitstamp API root.
	DefaultBaseURL = "https://www.bitstamp.net"
	// ExchangeName identifies the exchange in errors and logs.
	ExchangeName = "bitstamp"
)

// Credentials holds API authentication credentials for one Bitstamp account.
type Credentials struct {
	// CustomerID is the numeric account identifier shown in the Bitstamp account page.
	CustomerID string `json:"customer_id" validate:"required"`
	// APIKey is the public API key identifier.
	APIKey string `json:"api_key" validate:"required"`
	// SecretKey is the shared secret used to sign requests.
	SecretKey string `json:"secret_key" validate:"required"`
}

// Validate checks that every credential field is present.
func (c Credentials) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid credentials: %w", err)
	}
	return nil
}

// String masks the key and omits the secret.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{CustomerID:%s, APIKey:%s}", c.CustomerID, MaskKey(c.APIKey))
}

// MaskKey hides all but the first and last four characters of a key.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

// Config contains the configuration options for a Bitstamp client.
type Config struct {
	// BaseURL is the API root; endpoint paths are appended to it.
	BaseURL   string            `json:"base_url" validate:"required,url"`
	Timeout   time.Duration     `json:"timeout" validate:"min=1ms"`
	UserAgent string            `json:"user_agent"`
	Headers   map[string]string `json:"headers,omitempty"`

	LogLevel string `json:"log_level" validate:"omitempty,oneof=trace debug info warn error disabled"`
}

// DefaultConfig returns a Config with the production base URL, a 10s timeout and info logging.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  10 * time.Second,
		LogLevel: "info",
	}
}

var validate = validator.New()

// Validate checks the config against its struct tags.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// WithBaseURL sets the API root and returns the config for chaining.
func (c *Config) WithBaseURL(url string) *Config {
	c.BaseURL = url
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithUserAgent sets the User-Agent header and returns the config for chaining.
func (c *Config) WithUserAgent(ua string) *Config {
	c.UserAgent = ua
	return c
}

// WithLogLevel sets the log level and returns the config for chaining.
func (c *Config) WithLogLevel(level string) *Config {
	c.LogLevel = level
	return c
}
