package core

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultTimeout is the per-request deadline applied when none is configured.
const DefaultTimeout = 4 * time.Second

// DefaultDepthLimit is the number of order book levels requested by default.
const DefaultDepthLimit = 100

// Credentials holds API authentication credentials for an exchange.
type Credentials struct {
	// APIKey is the public API key identifier, sent as a header.
	APIKey string `json:"api_key"`
	// SecretKey is the private key used for signing requests. It is never transmitted.
	SecretKey string `json:"secret_key"`
}

// String returns the credentials with both keys masked.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{APIKey:%s, SecretKey:%s}", maskKey(c.APIKey), maskKey(c.SecretKey))
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

// ProxyKind selects how requests are routed to the exchange.
type ProxyKind string

// Supported proxy kinds.
const (
	ProxyNone   ProxyKind = "none"
	ProxySOCKS5 ProxyKind = "socks5"
	ProxyHTTP   ProxyKind = "http"
)

// ProxyConfig describes an optional proxy used for every request of a client.
type ProxyConfig struct {
	Kind ProxyKind `json:"kind" validate:"omitempty,oneof=none socks5 http"`
	Host string    `json:"host"`
	Port int       `json:"port" validate:"min=0,max=65535"`
}

// Enabled reports whether requests should go through the proxy.
func (p ProxyConfig) Enabled() bool {
	return p.Kind != "" && p.Kind != ProxyNone
}

// URL returns the proxy URL understood by net/http, e.g. "socks5://127.0.0.1:1080".
// It returns an empty string when the proxy is disabled.
func (p ProxyConfig) URL() string {
	if !p.Enabled() {
		return ""
	}
	return string(p.Kind) + "://" + net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// Config contains all configuration options for a single-symbol exchange client.
type Config struct {
	Exchange    string       `json:"exchange" validate:"required"`
	Symbol      string       `json:"symbol" validate:"required"`
	Testnet     bool         `json:"testnet"`
	Credentials *Credentials `json:"credentials,omitempty"`
	Proxy       ProxyConfig  `json:"proxy"`

	// Timeout is the maximum duration of a single HTTP request.
	Timeout time.Duration `json:"timeout" validate:"min=1ms"`
	// RecvWindow is sent with signed requests when positive.
	RecvWindow time.Duration `json:"recv_window" validate:"min=0,max=60s"`
	DepthLimit int           `json:"depth_limit" validate:"min=1,max=5000"`

	LogLevel string `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config for the given exchange and symbol.
// Default values: 4s timeout, no proxy, 100 depth levels, info logging.
func DefaultConfig(exchange, symbol string) *Config {
	return &Config{
		Exchange:   exchange,
		Symbol:     symbol,
		Testnet:    false,
		Proxy:      ProxyConfig{Kind: ProxyNone},
		Timeout:    DefaultTimeout,
		DepthLimit: DefaultDepthLimit,
		LogLevel:   "info",
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Proxy.Enabled() {
		if c.Proxy.Host == "" {
			return errors.New("Proxy.Host is required when a proxy is enabled")
		}
		if c.Proxy.Port <= 0 {
			return errors.New("Proxy.Port must be positive when a proxy is enabled")
		}
	}
	return nil
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(creds *Credentials) *Config {
	c.Credentials = creds
	return c
}

// WithTestnet enables or disables the testnet endpoint and returns the config for chaining.
func (c *Config) WithTestnet(testnet bool) *Config {
	c.Testnet = testnet
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithProxy sets the proxy used for every request and returns the config for chaining.
func (c *Config) WithProxy(kind ProxyKind, host string, port int) *Config {
	c.Proxy = ProxyConfig{Kind: kind, Host: host, Port: port}
	return c
}

// WithRecvWindow sets the recvWindow sent with signed requests and returns the config for chaining.
func (c *Config) WithRecvWindow(window time.Duration) *Config {
	c.RecvWindow = window
	return c
}
