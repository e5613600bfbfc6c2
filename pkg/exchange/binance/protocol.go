package binance

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"spotclient/pkg/core"
)

const (
	ProductionURL = "https://api.binance.com"
	TestnetURL    = "https://testnet.binance.vision"

	// HeaderAPIKey carries the API key on signed requests.
	HeaderAPIKey = "X-MBX-APIKEY"

	// OrderRespTypeFull asks for the fills of a new order in the response.
	OrderRespTypeFull = "FULL"
)

const (
	pathDepth        = "/api/v3/depth"
	pathExchangeInfo = "/api/v3/exchangeInfo"
	pathTradeFee     = "/sapi/v1/asset/tradeFee"
	pathAccount      = "/api/v3/account"
	pathOrder        = "/api/v3/order"
)

// Protocol implements the core.Protocol interface for Binance exchange.
// It provides request building, response parsing, and authentication for the Binance API.
type Protocol struct {
	now        func() time.Time
	recvWindow time.Duration
}

// ProtocolOption configures a Protocol.
type ProtocolOption func(*Protocol)

// WithProtocolClock sets the clock used for request timestamps.
func WithProtocolClock(now func() time.Time) ProtocolOption {
	return func(p *Protocol) {
		p.now = now
	}
}

// WithProtocolRecvWindow sends recvWindow with every signed request when window is positive.
func WithProtocolRecvWindow(window time.Duration) ProtocolOption {
	return func(p *Protocol) {
		p.recvWindow = window
	}
}

// NewProtocol creates a new Binance protocol instance.
func NewProtocol(opts ...ProtocolOption) *Protocol {
	p := &Protocol{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the protocol identifier "binance".
func (p *Protocol) Name() string {
	return "binance"
}

// Version returns the Binance API version string.
func (p *Protocol) Version() string {
	return "3"
}

// BaseURL returns the base URL for the Binance API.
// If testnet is true, returns the testnet URL; otherwise returns the production URL.
func (p *Protocol) BaseURL(testnet bool) string {
	if testnet {
		return TestnetURL
	}
	return ProductionURL
}

// SupportedOperations returns the list of operations supported by this protocol.
func (p *Protocol) SupportedOperations() []core.Operation {
	return []core.Operation{
		core.OpGetOrderBook,
		core.OpGetExchangeInfo,
		core.OpGetTradeFee,
		core.OpGetBalance,
		core.OpPlaceOrder,
	}
}

// BuildRequest constructs an exchange-specific HTTP request for the given operation.
// Parameters are added in the order Binance documents them.
func (p *Protocol) BuildRequest(ctx context.Context, op core.Operation, params core.Params) (*core.Request, error) {
	switch op {
	case core.OpGetOrderBook:
		return p.buildGetOrderBookRequest(params)
	case core.OpGetExchangeInfo:
		return p.buildGetExchangeInfoRequest(params)
	case core.OpGetTradeFee:
		return p.buildGetTradeFeeRequest(params)
	case core.OpGetBalance:
		return p.buildGetBalanceRequest(params)
	case core.OpPlaceOrder:
		return p.buildPlaceOrderRequest(params)
	default:
		return nil, fmt.Errorf("unsupported operation: %s", op)
	}
}

// ParseResponse parses an HTTP response and normalizes it to canonical types.
// Non-2xx responses become request errors carrying status, reason and body;
// undecodable 2xx bodies become parse errors.
func (p *Protocol) ParseResponse(op core.Operation, resp *core.Response) (any, error) {
	if resp == nil {
		return nil, fmt.Errorf("nil response")
	}

	if !resp.IsSuccess() {
		return nil, p.requestError(resp)
	}

	n := NewNormalizer()
	body := resp.Body

	switch op {
	case core.OpGetOrderBook:
		var data binanceOrderBook
		if err := sonic.Unmarshal(body, &data); err != nil {
			return nil, core.NewParseError(p.Name(), resp.StatusCode, "order book", err)
		}
		book, err := n.NormalizeOrderBook(&data, "")
		if err != nil {
			return nil, core.NewParseError(p.Name(), resp.StatusCode, "order book", err)
		}
		return book, nil

	case core.OpGetExchangeInfo:
		var data binanceExchangeInfo
		if err := sonic.Unmarshal(body, &data); err != nil {
			return nil, core.NewParseError(p.Name(), resp.StatusCode, "exchange info", err)
		}
		info, err := n.NormalizeExchangeInfo(&data)
		if err != nil {
			return nil, core.NewParseError(p.Name(), resp.StatusCode, "exchange info", err)
		}
		return info, nil

	case core.OpGetTradeFee:
		var data []binanceTradeFee
		if err := sonic.Unmarshal(body, &data); err != nil {
			return nil, core.NewParseError(p.Name(), resp.StatusCode, "trade fee", err)
		}
		fees, err := n.NormalizeTradeFees(data)
		if err != nil {
			return nil, core.NewParseError(p.Name(), resp.StatusCode, "trade fee", err)
		}
		return fees, nil

	case core.OpGetBalance:
		var data binanceAccount
		if err := sonic.Unmarshal(body, &data); err != nil {
			return nil, core.NewParseError(p.Name(), resp.StatusCode, "account", err)
		}
		balances, err := n.NormalizeBalances(&data)
		if err != nil {
			return nil, core.NewParseError(p.Name(), resp.StatusCode, "account", err)
		}
		return balances, nil

	case core.OpPlaceOrder:
		var data binanceOrder
		if err := sonic.Unmarshal(body, &data); err != nil {
			return nil, core.NewParseError(p.Name(), resp.StatusCode, "order", err)
		}
		order, err := n.NormalizeOrder(&data)
		if err != nil {
			return nil, core.NewParseError(p.Name(), resp.StatusCode, "order", err)
		}
		return order, nil

	default:
		var result any
		if err := sonic.Unmarshal(body, &result); err != nil {
			return nil, core.NewParseError(p.Name(), resp.StatusCode, "response", err)
		}
		return result, nil
	}
}

func (p *Protocol) requestError(resp *core.Response) error {
	e := core.NewRequestError(p.Name(), statusErrorType(resp.StatusCode), resp.StatusCode, resp.Reason(), resp.Body)

	var apiErr binanceAPIError
	if err := sonic.Unmarshal(resp.Body, &apiErr); err == nil && apiErr.Code != 0 {
		e.Type = mapBinanceErrorCode(apiErr.Code)
		e.Code = strconv.Itoa(apiErr.Code)
		if apiErr.Msg != "" {
			e.Message += ": " + apiErr.Msg
		}
	}

	return e
}

// SignRequest signs an HTTP request with HMAC-SHA256 authentication.
// It appends recvWindow (when configured), timestamp and signature to the query
// and sets the API key header.
func (p *Protocol) SignRequest(req *core.Request, creds core.Credentials) error {
	if creds.SecretKey == "" {
		return core.ErrNoCredentials
	}

	if req.Query == nil {
		req.Query = core.NewQuery()
	}

	if p.recvWindow > 0 {
		req.Query.Set(paramRecvWindow, p.recvWindow.Milliseconds())
	}

	NewSigner(creds.SecretKey).WithClock(p.now).Sign(req.Query)
	req.SetHeader(HeaderAPIKey, creds.APIKey)

	return nil
}

func (p *Protocol) buildGetOrderBookRequest(params core.Params) (*core.Request, error) {
	symbol, err := getRequiredStringParam(params, "symbol")
	if err != nil {
		return nil, err
	}

	limit := getIntParamWithDefault(params, "limit", core.DefaultDepthLimit)

	req := core.NewRequest(http.MethodGet, pathDepth)
	req.SetQuery("symbol", formatSymbol(symbol))
	req.SetQuery("limit", limit)

	return req, nil
}

func (p *Protocol) buildGetExchangeInfoRequest(params core.Params) (*core.Request, error) {
	req := core.NewRequest(http.MethodGet, pathExchangeInfo)

	if symbol, ok := params["symbol"].(string); ok && symbol != "" {
		req.SetQuery("symbol", formatSymbol(symbol))
	}

	return req, nil
}

func (p *Protocol) buildGetTradeFeeRequest(params core.Params) (*core.Request, error) {
	symbol, err := getRequiredStringParam(params, "symbol")
	if err != nil {
		return nil, err
	}

	req := core.NewRequest(http.MethodGet, pathTradeFee)
	req.SetQuery("symbol", formatSymbol(symbol))
	req.SetRequireAuth(true)

	return req, nil
}

func (p *Protocol) buildGetBalanceRequest(_ core.Params) (*core.Request, error) {
	req := core.NewRequest(http.MethodGet, pathAccount)
	req.SetRequireAuth(true)

	return req, nil
}

func (p *Protocol) buildPlaceOrderRequest(params core.Params) (*core.Request, error) {
	symbol, err := getRequiredStringParam(params, "symbol")
	if err != nil {
		return nil, err
	}

	side, err := getRequiredStringParam(params, "side")
	if err != nil {
		return nil, err
	}

	quantity, err := getRequiredStringParam(params, "quantity")
	if err != nil {
		return nil, err
	}

	orderType, err := getRequiredStringParam(params, "type")
	if err != nil {
		return nil, err
	}

	clientOrderID, err := getRequiredStringParam(params, "client_order_id")
	if err != nil {
		return nil, err
	}

	req := core.NewRequest(http.MethodPost, pathOrder)
	req.SetQuery("symbol", formatSymbol(symbol))
	req.SetQuery("side", strings.ToUpper(side))
	req.SetQuery("quantity", quantity)
	req.SetQuery("type", strings.ToUpper(orderType))
	req.SetQuery("newClientOrderId", clientOrderID)
	req.SetQuery("newOrderRespType", OrderRespTypeFull)
	req.SetRequireAuth(true)

	if price, ok := params["price"].(string); ok && price != "" {
		req.SetQuery("price", price)
	}

	if timeInForce, ok := params["time_in_force"].(string); ok && timeInForce != "" {
		req.SetQuery("timeInForce", strings.ToUpper(timeInForce))
	}

	if stopPrice, ok := params["stop_price"].(string); ok && stopPrice != "" {
		req.SetQuery("stopPrice", stopPrice)
	}

	return req, nil
}

// formatSymbol converts "ltc/usdt" to the exchange form "LTCUSDT".
func formatSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
}

func getRequiredStringParam(params core.Params, key string) (string, error) {
	val, ok := params[key]
	if !ok {
		return "", fmt.Errorf("missing required parameter: %s", key)
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("parameter %s must be a string", key)
	}

	if str == "" {
		return "", fmt.Errorf("parameter %s cannot be empty", key)
	}

	return str, nil
}

func getIntParamWithDefault(params core.Params, key string, def int) int {
	if val, ok := params[key]; ok {
		switch v := val.(type) {
		case int:
			if v > 0 {
				return v
			}
		case int64:
			if v > 0 {
				return int(v)
			}
		case string:
			if i, err := strconv.Atoi(v); err == nil && i > 0 {
				return i
			}
		}
	}
	return def
}

type binanceAPIError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func statusErrorType(status int) core.ErrorType {
	switch {
	case status == http.StatusTooManyRequests || status == http.StatusTeapot:
		return core.ErrorTypeRateLimit
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrorTypeAuthentication
	case status == http.StatusNotFound:
		return core.ErrorTypeNotFound
	case status >= 500:
		return core.ErrorTypeServerError
	case status >= 400:
		return core.ErrorTypeBadRequest
	default:
		return core.ErrorTypeUnknown
	}
}

func mapBinanceErrorCode(code int) core.ErrorType {
	switch code {
	case -1003, -1015:
		return core.ErrorTypeRateLimit
	case -1002, -1022, -2014, -2015:
		return core.ErrorTypeAuthentication
	case -2010:
		return core.ErrorTypeInsufficientFunds
	case -1121:
		return core.ErrorTypeNotFound
	case -1100, -1101, -1102, -1103, -1104, -1105, -1106, -1111, -1112, -1114, -1115, -1116, -1117:
		return core.ErrorTypeBadRequest
	default:
		if code <= -1000 && code > -2000 {
			return core.ErrorTypeBadRequest
		}
		if code <= -2000 && code > -3000 {
			return core.ErrorTypeInvalidOrder
		}
		return core.ErrorTypeUnknown
	}
}
