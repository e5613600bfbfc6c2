package binance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"spotclient/internal/transport"
	"spotclient/pkg/core"
	"spotclient/pkg/exchange"
)

// BinanceExchange implements the Exchange interface for Binance spot.
// It is bound to one symbol and performs one HTTP request per call.
type BinanceExchange struct {
	config    *core.Config
	transport *transport.Client
	protocol  *Protocol
	logger    zerolog.Logger
}

// Option is a functional option for configuring the BinanceExchange.
type Option func(*Options)

// Options holds configuration options for the BinanceExchange.
type Options struct {
	Logger  zerolog.Logger
	BaseURL string
	Clock   func() time.Time
}

// WithLogger returns an option that sets the logger for the exchange.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithBaseURL overrides the production or testnet base URL.
func WithBaseURL(url string) Option {
	return func(o *Options) {
		o.BaseURL = url
	}
}

// WithClock sets the clock used to timestamp signed requests.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

// New creates a new BinanceExchange instance with the given configuration and options.
// The proxy and timeout of config apply to every request of the returned client.
func New(config *core.Config, opts ...Option) (*BinanceExchange, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	options := &Options{
		Logger: zerolog.Nop(),
		Clock:  time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}

	protocol := NewProtocol(
		WithProtocolClock(options.Clock),
		WithProtocolRecvWindow(config.RecvWindow),
	)

	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = protocol.BaseURL(config.Testnet)
	}

	client, err := transport.NewClient(&transport.Config{
		Exchange: protocol.Name(),
		BaseURL:  baseURL,
		Timeout:  config.Timeout,
		Proxy:    config.Proxy,
		Headers:  map[string]string{"Accept": "application/json"},
	}, options.Logger)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	options.Logger.Debug().
		Str("base_url", baseURL).
		Str("symbol", config.Symbol).
		Str("proxy", string(config.Proxy.Kind)).
		Dur("timeout", config.Timeout).
		Msg("binance client created")

	return &BinanceExchange{
		config:    config,
		transport: client,
		protocol:  protocol,
		logger:    options.Logger,
	}, nil
}

// Name returns the exchange identifier "binance".
func (e *BinanceExchange) Name() string {
	return e.protocol.Name()
}

// Version returns the Binance API version.
func (e *BinanceExchange) Version() string {
	return e.protocol.Version()
}

// Symbol returns the configured symbol in exchange form, e.g. "LTCUSDT".
func (e *BinanceExchange) Symbol() string {
	return formatSymbol(e.config.Symbol)
}

// Close releases the HTTP client. Later calls fail with core.ErrClientClosed.
func (e *BinanceExchange) Close() error {
	if e.transport != nil {
		return e.transport.Close()
	}
	return nil
}

// GetOrderBook retrieves a depth snapshot for the configured symbol.
func (e *BinanceExchange) GetOrderBook(ctx context.Context, opts ...exchange.Option) (*core.OrderBook, error) {
	options := exchange.ApplyOptions(opts...)
	symbol := e.symbol(options)

	limit := options.Limit
	if limit <= 0 {
		limit = e.config.DepthLimit
	}

	result, err := e.execute(ctx, core.OpGetOrderBook, core.Params{
		"symbol": symbol,
		"limit":  limit,
	})
	if err != nil {
		return nil, err
	}

	orderBook, ok := result.(*core.OrderBook)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}

	orderBook.Symbol = symbol
	return orderBook, nil
}

// GetExchangeInfo retrieves trading rules for the configured symbol.
func (e *BinanceExchange) GetExchangeInfo(ctx context.Context, opts ...exchange.Option) (*core.ExchangeInfo, error) {
	options := exchange.ApplyOptions(opts...)

	result, err := e.execute(ctx, core.OpGetExchangeInfo, core.Params{
		"symbol": e.symbol(options),
	})
	if err != nil {
		return nil, err
	}

	info, ok := result.(*core.ExchangeInfo)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}

	return info, nil
}

// GetSymbolRules returns the precision and lot-size rules of the configured symbol.
func (e *BinanceExchange) GetSymbolRules(ctx context.Context, opts ...exchange.Option) (*core.SymbolRules, error) {
	options := exchange.ApplyOptions(opts...)
	symbol := e.symbol(options)

	info, err := e.GetExchangeInfo(ctx, opts...)
	if err != nil {
		return nil, err
	}

	rules, ok := info.Rules(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSymbolNotFound, symbol)
	}

	return rules, nil
}

// GetTradeFee retrieves the maker and taker commission of the configured symbol.
func (e *BinanceExchange) GetTradeFee(ctx context.Context, opts ...exchange.Option) (*core.TradeFee, error) {
	options := exchange.ApplyOptions(opts...)
	symbol := e.symbol(options)

	result, err := e.execute(ctx, core.OpGetTradeFee, core.Params{
		"symbol": symbol,
	})
	if err != nil {
		return nil, err
	}

	fees, ok := result.([]core.TradeFee)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}

	for i := range fees {
		if fees[i].Symbol == symbol {
			return &fees[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", core.ErrSymbolNotFound, symbol)
}

// GetBalance retrieves the account balances with a positive free amount.
func (e *BinanceExchange) GetBalance(ctx context.Context, opts ...exchange.Option) (core.Balances, error) {
	result, err := e.execute(ctx, core.OpGetBalance, core.Params{})
	if err != nil {
		return nil, err
	}

	balances, ok := result.(core.Balances)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}

	return balances, nil
}

// PlaceOrder submits a new order and returns the FULL response including fills.
// A client order id is generated when req does not carry one.
func (e *BinanceExchange) PlaceOrder(ctx context.Context, req *exchange.OrderRequest, opts ...exchange.Option) (*core.Order, error) {
	if req == nil {
		return nil, errors.New("order request is nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}

	options := exchange.ApplyOptions(opts...)

	symbol := req.Symbol
	if symbol == "" {
		symbol = e.symbol(options)
	}

	clientOrderID := req.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.NewString()
	}

	params := core.Params{
		"symbol":          symbol,
		"side":            req.Side.String(),
		"quantity":        req.Quantity.Text('f'),
		"type":            req.Type.String(),
		"client_order_id": clientOrderID,
	}

	if req.IsLimit() {
		params["price"] = req.Price.Text('f')
		params["time_in_force"] = req.TimeInForce.String()
	}
	if req.IsStop() {
		params["stop_price"] = req.StopPrice.Text('f')
	}

	result, err := e.execute(ctx, core.OpPlaceOrder, params)
	if err != nil {
		return nil, err
	}

	order, ok := result.(*core.Order)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}

	e.logger.Info().
		Str("symbol", order.Symbol).
		Str("order_id", order.ID).
		Str("client_order_id", order.ClientOrderID).
		Str("side", order.Side.String()).
		Str("status", order.Status.String()).
		Msg("order placed")

	return order, nil
}

func (e *BinanceExchange) symbol(options *exchange.Options) string {
	if options.Symbol != "" {
		return formatSymbol(options.Symbol)
	}
	return e.Symbol()
}

// execute builds, signs when required, sends and parses one operation.
func (e *BinanceExchange) execute(ctx context.Context, op core.Operation, params core.Params) (any, error) {
	req, err := e.protocol.BuildRequest(ctx, op, params)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if req.RequireAuth {
		if e.config.Credentials == nil {
			return nil, fmt.Errorf("%s: %w", op, core.ErrNoCredentials)
		}
		if err := e.protocol.SignRequest(req, *e.config.Credentials); err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
	}

	resp, err := e.transport.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := e.protocol.ParseResponse(op, resp)
	if err != nil {
		e.logger.Warn().Err(err).
			Str("operation", op.String()).
			Int("status", resp.StatusCode).
			Msg("request failed")
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return result, nil
}
