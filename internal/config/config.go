// Package config loads client settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"spotclient/internal/logging"
	"spotclient/pkg/core"
)

// Environment variable names.
const (
	EnvSymbol     = "BINANCE_SYMBOL"
	EnvAPIKey     = "BINANCE_API_KEY"
	EnvSecretKey  = "BINANCE_SECRET_KEY"
	EnvTestnet    = "BINANCE_TESTNET"
	EnvTimeout    = "BINANCE_TIMEOUT"
	EnvRecvWindow = "BINANCE_RECV_WINDOW"
	EnvDepthLimit = "BINANCE_DEPTH_LIMIT"
	EnvProxyKind  = "BINANCE_PROXY_KIND"
	EnvProxyHost  = "BINANCE_PROXY_HOST"
	EnvProxyPort  = "BINANCE_PROXY_PORT"
	EnvLogLevel   = "LOG_LEVEL"
	EnvLogFile    = "LOG_FILE"
)

// DefaultSymbol is used when BINANCE_SYMBOL is unset.
const DefaultSymbol = "LTCUSDT"

// Settings is everything a program needs to build a client and its logger.
type Settings struct {
	Exchange *core.Config
	Log      logging.Config
}

// Load reads the given .env files (".env" when none are given) and then the
// process environment. Missing .env files are ignored; variables already set
// in the environment take precedence over file values.
func Load(files ...string) (*Settings, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	return FromEnv()
}

// FromEnv builds Settings from the process environment only.
func FromEnv() (*Settings, error) {
	symbol := getEnv(EnvSymbol, DefaultSymbol)
	cfg := core.DefaultConfig("binance", symbol)

	apiKey := os.Getenv(EnvAPIKey)
	secretKey := os.Getenv(EnvSecretKey)
	if apiKey != "" || secretKey != "" {
		cfg.WithCredentials(&core.Credentials{APIKey: apiKey, SecretKey: secretKey})
	}

	testnet, err := parseBool(EnvTestnet, false)
	if err != nil {
		return nil, err
	}
	cfg.WithTestnet(testnet)

	timeout, err := parseDuration(EnvTimeout, core.DefaultTimeout, time.Second)
	if err != nil {
		return nil, err
	}
	cfg.WithTimeout(timeout)

	recvWindow, err := parseDuration(EnvRecvWindow, 0, time.Millisecond)
	if err != nil {
		return nil, err
	}
	cfg.WithRecvWindow(recvWindow)

	depth, err := parseInt(EnvDepthLimit, core.DefaultDepthLimit)
	if err != nil {
		return nil, err
	}
	cfg.DepthLimit = depth

	kind := core.ProxyKind(strings.ToLower(getEnv(EnvProxyKind, string(core.ProxyNone))))
	port, err := parseInt(EnvProxyPort, 0)
	if err != nil {
		return nil, err
	}
	cfg.WithProxy(kind, os.Getenv(EnvProxyHost), port)

	cfg.LogLevel = strings.ToLower(getEnv(EnvLogLevel, "info"))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Settings{
		Exchange: cfg,
		Log: logging.Config{
			Level: cfg.LogLevel,
			File:  os.Getenv(EnvLogFile),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid bool %q", key, v)
	}
	return b, nil
}

func parseInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return i, nil
}

// parseDuration accepts Go durations ("4s") or a bare number counted in unit:
// seconds for BINANCE_TIMEOUT, milliseconds for BINANCE_RECV_WINDOW.
func parseDuration(key string, def, unit time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(n * float64(unit)), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
