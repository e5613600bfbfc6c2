package core

import (
	"sort"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// OrderSide represents the direction of an order (buy or sell).
type OrderSide int

// Order side constants define the direction of a trade.
const (
	// SideBuy indicates an order to purchase an asset.
	SideBuy OrderSide = iota
	// SideSell indicates an order to sell an asset.
	SideSell
)

// String returns the string representation of the order side ("BUY" or "SELL").
func (s OrderSide) String() string {
	if !s.Valid() {
		return "UNKNOWN"
	}
	return [...]string{"BUY", "SELL"}[s]
}

// Valid reports whether s is a known side.
func (s OrderSide) Valid() bool {
	return s == SideBuy || s == SideSell
}

// MarshalJSON implements json.Marshaler for OrderSide.
func (s OrderSide) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for OrderSide.
// It accepts both uppercase and lowercase formats.
func (s *OrderSide) UnmarshalJSON(data []byte) error {
	str := string(data)
	switch str {
	case `"BUY"`, `"buy"`:
		*s = SideBuy
	case `"SELL"`, `"sell"`:
		*s = SideSell
	}
	return nil
}

// OrderType represents the type of order to place on an exchange.
type OrderType int

// Order type constants define how an order is executed.
const (
	// TypeMarket executes immediately at the best available price.
	TypeMarket OrderType = iota
	// TypeLimit executes at a specified price or better.
	TypeLimit
	// TypeStopLoss triggers a market order when price reaches stop price.
	TypeStopLoss
	// TypeStopLossLimit triggers a limit order when price reaches stop price.
	TypeStopLossLimit
	// TypeTakeProfit triggers a market order when price reaches target.
	TypeTakeProfit
	// TypeTakeProfitLimit triggers a limit order when price reaches target.
	TypeTakeProfitLimit
)

// String returns the string representation of the order type.
func (t OrderType) String() string {
	if !t.Valid() {
		return "UNKNOWN"
	}
	return [...]string{"MARKET", "LIMIT", "STOP_LOSS", "STOP_LOSS_LIMIT", "TAKE_PROFIT", "TAKE_PROFIT_LIMIT"}[t]
}

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	return t >= TypeMarket && t <= TypeTakeProfitLimit
}

// MarshalJSON implements json.Marshaler for OrderType.
func (t OrderType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for OrderType.
// It accepts both uppercase and lowercase formats.
func (t *OrderType) UnmarshalJSON(data []byte) error {
	str := string(data)
	switch str {
	case `"MARKET"`, `"market"`:
		*t = TypeMarket
	case `"LIMIT"`, `"limit"`:
		*t = TypeLimit
	case `"STOP_LOSS"`, `"stop_loss"`:
		*t = TypeStopLoss
	case `"STOP_LOSS_LIMIT"`, `"stop_loss_limit"`:
		*t = TypeStopLossLimit
	case `"TAKE_PROFIT"`, `"take_profit"`:
		*t = TypeTakeProfit
	case `"TAKE_PROFIT_LIMIT"`, `"take_profit_limit"`:
		*t = TypeTakeProfitLimit
	}
	return nil
}

// OrderStatus represents the current state of an order.
type OrderStatus int

// Order status constants define the lifecycle state of an order.
const (
	// StatusNew indicates the order has been accepted by the exchange.
	StatusNew OrderStatus = iota
	// StatusPartiallyFilled indicates the order has been partially filled.
	StatusPartiallyFilled
	// StatusFilled indicates the order has been completely filled.
	StatusFilled
	// StatusCanceling indicates a cancel request has been submitted.
	StatusCanceling
	// StatusCanceled indicates the order has been canceled.
	StatusCanceled
	// StatusRejected indicates the order was rejected by the exchange.
	StatusRejected
	// StatusExpired indicates the order has expired.
	StatusExpired
)

// String returns the string representation of the order status.
func (s OrderStatus) String() string {
	if s < StatusNew || s > StatusExpired {
		return "UNKNOWN"
	}
	return [...]string{"NEW", "PARTIALLY_FILLED", "FILLED", "CANCELING", "CANCELED", "REJECTED", "EXPIRED"}[s]
}

// IsTerminal returns true if the order is in a terminal state (no further changes possible).
func (s OrderStatus) IsTerminal() bool {
	return s == StatusFilled || s == StatusCanceled || s == StatusRejected || s == StatusExpired
}

// MarshalJSON implements json.Marshaler for OrderStatus.
func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for OrderStatus.
// It accepts both uppercase and lowercase formats.
func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	str := string(data)
	switch str {
	case `"NEW"`, `"new"`:
		*s = StatusNew
	case `"PARTIALLY_FILLED"`, `"partially_filled"`:
		*s = StatusPartiallyFilled
	case `"FILLED"`, `"filled"`:
		*s = StatusFilled
	case `"CANCELING"`, `"canceling"`:
		*s = StatusCanceling
	case `"CANCELED"`, `"canceled"`:
		*s = StatusCanceled
	case `"REJECTED"`, `"rejected"`:
		*s = StatusRejected
	case `"EXPIRED"`, `"expired"`:
		*s = StatusExpired
	}
	return nil
}

// TimeInForce defines how long an order remains active.
type TimeInForce int

// Time in force constants define order lifetime behavior.
const (
	// GTC (Good Till Canceled) keeps the order active until filled or canceled.
	GTC TimeInForce = iota
	// IOC (Immediate Or Cancel) requires immediate execution; unfilled portion is canceled.
	IOC
	// FOK (Fill Or Kill) requires complete immediate execution or cancellation.
	FOK
)

// String returns the string representation of time in force.
func (t TimeInForce) String() string {
	if !t.Valid() {
		return "UNKNOWN"
	}
	return [...]string{"GTC", "IOC", "FOK"}[t]
}

// Valid reports whether t is a known time in force.
func (t TimeInForce) Valid() bool {
	return t >= GTC && t <= FOK
}

// MarshalJSON implements json.Marshaler for TimeInForce.
func (t TimeInForce) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for TimeInForce.
// It accepts both uppercase and lowercase formats.
func (t *TimeInForce) UnmarshalJSON(data []byte) error {
	str := string(data)
	switch str {
	case `"GTC"`, `"gtc"`:
		*t = GTC
	case `"IOC"`, `"ioc"`:
		*t = IOC
	case `"FOK"`, `"fok"`:
		*t = FOK
	}
	return nil
}

// Fill is a single execution reported with a FULL order response.
type Fill struct {
	// TradeID is the exchange-assigned trade identifier.
	TradeID int64 `json:"trade_id"`
	// Price is the execution price.
	Price apd.Decimal `json:"price"`
	// Quantity is the executed amount.
	Quantity apd.Decimal `json:"quantity"`
	// Commission is the fee charged for this fill.
	Commission apd.Decimal `json:"commission"`
	// CommissionAsset is the currency in which the fee was charged.
	CommissionAsset string `json:"commission_asset"`
}

// Order represents an exchange order as acknowledged by the exchange.
type Order struct {
	// ID is the exchange-assigned order identifier.
	ID string `json:"id"`
	// ClientOrderID is the client-assigned order identifier.
	ClientOrderID string `json:"client_order_id"`
	// Symbol is the trading pair for this order.
	Symbol string `json:"symbol"`
	// Side indicates whether this is a buy or sell order.
	Side OrderSide `json:"side"`
	// Type defines how the order executes (market, limit, etc.).
	Type OrderType `json:"type"`
	// Price is the limit price for limit orders.
	Price apd.Decimal `json:"price"`
	// Quantity is the total order quantity.
	Quantity apd.Decimal `json:"quantity"`
	// FilledQuantity is the amount that has been executed.
	FilledQuantity apd.Decimal `json:"filled_quantity"`
	// RemainingQty is the unfilled portion of the order.
	RemainingQty apd.Decimal `json:"remaining_quantity"`
	// QuoteQuantity is the cumulative quote amount spent or received.
	QuoteQuantity apd.Decimal `json:"quote_quantity"`
	// Status is the current state of the order.
	Status OrderStatus `json:"status"`
	// TimeInForce defines how long the order remains active.
	TimeInForce TimeInForce `json:"time_in_force"`
	// Fills lists the executions reported with the acknowledgement.
	Fills []Fill `json:"fills,omitempty"`
	// CreatedAt is when the order was accepted.
	CreatedAt time.Time `json:"created_at"`
}

// Balance represents account balance for a single asset.
type Balance struct {
	// Asset is the currency or token symbol (e.g., "BTC", "USDT").
	Asset string `json:"asset"`
	// Free is the available balance for trading.
	Free apd.Decimal `json:"free"`
	// Locked is the balance locked in open orders.
	Locked apd.Decimal `json:"locked"`
}

// Balances maps an asset code to its balance.
type Balances map[string]Balance

// Assets returns the asset codes in lexical order.
func (b Balances) Assets() []string {
	assets := make([]string, 0, len(b))
	for a := range b {
		assets = append(assets, a)
	}
	sort.Strings(assets)
	return assets
}

// TradeFee is the commission schedule of one symbol.
type TradeFee struct {
	Symbol          string      `json:"symbol"`
	MakerCommission apd.Decimal `json:"maker_commission"`
	TakerCommission apd.Decimal `json:"taker_commission"`
}

// SymbolRules holds the trading rules the exchange publishes for a symbol.
// A zero StepSize means the exchange did not publish a usable lot size.
type SymbolRules struct {
	// Symbol is the exchange symbol, e.g. "LTCUSDT".
	Symbol string `json:"symbol"`
	// Status is the trading status, e.g. "TRADING".
	Status     string `json:"status"`
	BaseAsset  string `json:"base_asset"`
	QuoteAsset string `json:"quote_asset"`
	// Precision is the number of decimal places of the quote asset.
	Precision int32 `json:"precision"`
	// StepSize is the smallest quantity increment from the LOT_SIZE filter.
	StepSize apd.Decimal `json:"step_size"`
	MinQty   apd.Decimal `json:"min_qty"`
	MaxQty   apd.Decimal `json:"max_qty"`
	// TickSize is the smallest price increment from the PRICE_FILTER filter.
	TickSize apd.Decimal `json:"tick_size"`
}

// ExchangeInfo is the exchange metadata response.
type ExchangeInfo struct {
	Timezone   string        `json:"timezone"`
	ServerTime time.Time     `json:"server_time"`
	Symbols    []SymbolRules `json:"symbols"`
}

// Rules returns the rules published for symbol.
func (i *ExchangeInfo) Rules(symbol string) (*SymbolRules, bool) {
	for idx := range i.Symbols {
		if i.Symbols[idx].Symbol == symbol {
			return &i.Symbols[idx], true
		}
	}
	return nil, false
}

// OrderBookLevel represents a single price level in the order book.
type OrderBookLevel struct {
	// Price is the limit price for this level.
	Price apd.Decimal `json:"price"`
	// Quantity is the total quantity available at this price.
	Quantity apd.Decimal `json:"quantity"`
}

// OrderBook is a point-in-time snapshot of the order book for a trading pair.
type OrderBook struct {
	// Symbol is the trading pair for this order book.
	Symbol string `json:"symbol"`
	// LastUpdateID is the exchange sequence number of the snapshot.
	LastUpdateID int64 `json:"last_update_id"`
	// Bids are buy orders sorted by price descending.
	Bids []OrderBookLevel `json:"bids"`
	// Asks are sell orders sorted by price ascending.
	Asks []OrderBookLevel `json:"asks"`
	// Timestamp is when this snapshot was taken.
	Timestamp time.Time `json:"timestamp"`
}
