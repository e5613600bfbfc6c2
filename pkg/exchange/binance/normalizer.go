package binance

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/apd/v3"

	"spotclient/pkg/core"
)

const (
	filterLotSize     = "LOT_SIZE"
	filterPriceFilter = "PRICE_FILTER"
)

// binanceOrderBook represents the depth snapshot response from Binance API.
type binanceOrderBook struct {
	LastUpdateID int64      `json:"lastUpdateId"`
	Bids         [][]string `json:"bids"`
	Asks         [][]string `json:"asks"`
}

// binanceFilter is one entry of a symbol's "filters" array. Only the fields of
// the filters this client reads are decoded.
type binanceFilter struct {
	FilterType string `json:"filterType"`
	StepSize   string `json:"stepSize"`
	MinQty     string `json:"minQty"`
	MaxQty     string `json:"maxQty"`
	TickSize   string `json:"tickSize"`
}

type binanceSymbol struct {
	Symbol              string          `json:"symbol"`
	Status              string          `json:"status"`
	BaseAsset           string          `json:"baseAsset"`
	QuoteAsset          string          `json:"quoteAsset"`
	QuoteAssetPrecision int32           `json:"quoteAssetPrecision"`
	Filters             []binanceFilter `json:"filters"`
}

// binanceExchangeInfo represents the exchangeInfo response from Binance API.
type binanceExchangeInfo struct {
	Timezone   string          `json:"timezone"`
	ServerTime int64           `json:"serverTime"`
	Symbols    []binanceSymbol `json:"symbols"`
}

// binanceTradeFee represents one entry of the tradeFee response.
type binanceTradeFee struct {
	Symbol          string `json:"symbol"`
	MakerCommission string `json:"makerCommission"`
	TakerCommission string `json:"takerCommission"`
}

// binanceBalance represents a single asset balance from Binance API.
type binanceBalance struct {
	Asset  string `json:"asset"`
	Free   string `json:"free"`
	Locked string `json:"locked"`
}

// binanceAccount represents the account information response from Binance API.
type binanceAccount struct {
	MakerCommission int64            `json:"makerCommission"`
	TakerCommission int64            `json:"takerCommission"`
	CanTrade        bool             `json:"canTrade"`
	CanWithdraw     bool             `json:"canWithdraw"`
	CanDeposit      bool             `json:"canDeposit"`
	Balances        []binanceBalance `json:"balances"`
}

type binanceFill struct {
	Price           string `json:"price"`
	Qty             string `json:"qty"`
	Commission      string `json:"commission"`
	CommissionAsset string `json:"commissionAsset"`
	TradeID         int64  `json:"tradeId"`
}

// binanceOrder represents the FULL new order response from Binance API.
type binanceOrder struct {
	Symbol              string        `json:"symbol"`
	OrderID             int64         `json:"orderId"`
	ClientOrderID       string        `json:"clientOrderId"`
	TransactTime        int64         `json:"transactTime"`
	Price               string        `json:"price"`
	OrigQty             string        `json:"origQty"`
	ExecutedQty         string        `json:"executedQty"`
	CummulativeQuoteQty string        `json:"cummulativeQuoteQty"`
	Status              string        `json:"status"`
	TimeInForce         string        `json:"timeInForce"`
	Type                string        `json:"type"`
	Side                string        `json:"side"`
	Fills               []binanceFill `json:"fills"`
}

// Normalizer converts Binance-specific data structures to canonical core types.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer instance.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeOrderBook converts a Binance depth snapshot to a canonical OrderBook.
func (n *Normalizer) NormalizeOrderBook(data *binanceOrderBook, symbol string) (*core.OrderBook, error) {
	orderBook := &core.OrderBook{
		Symbol:       symbol,
		LastUpdateID: data.LastUpdateID,
		Timestamp:    time.Now(),
	}

	bids, err := n.normalizeOrderBookLevels(data.Bids)
	if err != nil {
		return nil, fmt.Errorf("normalize bids: %w", err)
	}
	orderBook.Bids = bids

	asks, err := n.normalizeOrderBookLevels(data.Asks)
	if err != nil {
		return nil, fmt.Errorf("normalize asks: %w", err)
	}
	orderBook.Asks = asks

	return orderBook, nil
}

func (n *Normalizer) normalizeOrderBookLevels(levels [][]string) ([]core.OrderBookLevel, error) {
	result := make([]core.OrderBookLevel, 0, len(levels))

	for _, level := range levels {
		if len(level) < 2 {
			continue
		}

		var obl core.OrderBookLevel
		if err := parseDecimal(&obl.Price, level[0]); err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}

		if err := parseDecimal(&obl.Quantity, level[1]); err != nil {
			return nil, fmt.Errorf("parse quantity: %w", err)
		}

		result = append(result, obl)
	}

	return result, nil
}

// NormalizeExchangeInfo converts exchange metadata to canonical symbol rules.
// When several LOT_SIZE filters are present the last one with a non-zero step wins.
func (n *Normalizer) NormalizeExchangeInfo(data *binanceExchangeInfo) (*core.ExchangeInfo, error) {
	info := &core.ExchangeInfo{
		Timezone: data.Timezone,
		Symbols:  make([]core.SymbolRules, 0, len(data.Symbols)),
	}
	if data.ServerTime > 0 {
		info.ServerTime = time.UnixMilli(data.ServerTime)
	}

	for i := range data.Symbols {
		rules, err := n.NormalizeSymbolRules(&data.Symbols[i])
		if err != nil {
			return nil, fmt.Errorf("normalize %s: %w", data.Symbols[i].Symbol, err)
		}
		info.Symbols = append(info.Symbols, *rules)
	}

	return info, nil
}

// NormalizeSymbolRules extracts precision and filter values for one symbol.
func (n *Normalizer) NormalizeSymbolRules(data *binanceSymbol) (*core.SymbolRules, error) {
	rules := &core.SymbolRules{
		Symbol:     data.Symbol,
		Status:     data.Status,
		BaseAsset:  data.BaseAsset,
		QuoteAsset: data.QuoteAsset,
		Precision:  data.QuoteAssetPrecision,
	}

	for _, f := range data.Filters {
		switch f.FilterType {
		case filterLotSize:
			var step apd.Decimal
			if err := parseDecimal(&step, f.StepSize); err != nil {
				return nil, fmt.Errorf("parse step size: %w", err)
			}
			if !step.IsZero() {
				rules.StepSize = step
			}
			if err := parseDecimal(&rules.MinQty, f.MinQty); err != nil {
				return nil, fmt.Errorf("parse min qty: %w", err)
			}
			if err := parseDecimal(&rules.MaxQty, f.MaxQty); err != nil {
				return nil, fmt.Errorf("parse max qty: %w", err)
			}
		case filterPriceFilter:
			if err := parseDecimal(&rules.TickSize, f.TickSize); err != nil {
				return nil, fmt.Errorf("parse tick size: %w", err)
			}
		}
	}

	return rules, nil
}

// NormalizeTradeFees converts the tradeFee response.
func (n *Normalizer) NormalizeTradeFees(data []binanceTradeFee) ([]core.TradeFee, error) {
	fees := make([]core.TradeFee, 0, len(data))
	for _, f := range data {
		fee := core.TradeFee{Symbol: f.Symbol}
		if err := parseDecimal(&fee.MakerCommission, f.MakerCommission); err != nil {
			return nil, fmt.Errorf("parse maker commission: %w", err)
		}
		if err := parseDecimal(&fee.TakerCommission, f.TakerCommission); err != nil {
			return nil, fmt.Errorf("parse taker commission: %w", err)
		}
		fees = append(fees, fee)
	}
	return fees, nil
}

// NormalizeBalances returns the balances of account whose free amount is positive.
func (n *Normalizer) NormalizeBalances(account *binanceAccount) (core.Balances, error) {
	balances := make(core.Balances)
	for _, b := range account.Balances {
		balance := core.Balance{Asset: b.Asset}
		if err := parseDecimal(&balance.Free, b.Free); err != nil {
			return nil, fmt.Errorf("parse free %s: %w", b.Asset, err)
		}
		if balance.Free.Sign() <= 0 {
			continue
		}
		if err := parseDecimal(&balance.Locked, b.Locked); err != nil {
			return nil, fmt.Errorf("parse locked %s: %w", b.Asset, err)
		}
		balances[b.Asset] = balance
	}
	return balances, nil
}

// NormalizeOrder converts a Binance order response to a canonical Order.
// It calculates the remaining quantity from total and filled quantities.
func (n *Normalizer) NormalizeOrder(data *binanceOrder) (*core.Order, error) {
	order := &core.Order{
		ID:            strconv.FormatInt(data.OrderID, 10),
		ClientOrderID: data.ClientOrderID,
		Symbol:        data.Symbol,
		Side:          parseOrderSide(data.Side),
		Type:          parseOrderType(data.Type),
		Status:        parseOrderStatus(data.Status),
		TimeInForce:   parseTimeInForce(data.TimeInForce),
	}

	if data.TransactTime > 0 {
		order.CreatedAt = time.UnixMilli(data.TransactTime)
	}

	if err := parseDecimal(&order.Price, data.Price); err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	if err := parseDecimal(&order.Quantity, data.OrigQty); err != nil {
		return nil, fmt.Errorf("parse quantity: %w", err)
	}
	if err := parseDecimal(&order.FilledQuantity, data.ExecutedQty); err != nil {
		return nil, fmt.Errorf("parse executed quantity: %w", err)
	}
	if err := parseDecimal(&order.QuoteQuantity, data.CummulativeQuoteQty); err != nil {
		return nil, fmt.Errorf("parse quote quantity: %w", err)
	}

	var remaining apd.Decimal
	if _, err := apd.BaseContext.Sub(&remaining, &order.Quantity, &order.FilledQuantity); err != nil {
		return nil, fmt.Errorf("calculate remaining: %w", err)
	}
	order.RemainingQty = remaining

	order.Fills = make([]core.Fill, 0, len(data.Fills))
	for _, f := range data.Fills {
		fill := core.Fill{
			TradeID:         f.TradeID,
			CommissionAsset: f.CommissionAsset,
		}
		if err := parseDecimal(&fill.Price, f.Price); err != nil {
			return nil, fmt.Errorf("parse fill price: %w", err)
		}
		if err := parseDecimal(&fill.Quantity, f.Qty); err != nil {
			return nil, fmt.Errorf("parse fill quantity: %w", err)
		}
		if err := parseDecimal(&fill.Commission, f.Commission); err != nil {
			return nil, fmt.Errorf("parse fill commission: %w", err)
		}
		order.Fills = append(order.Fills, fill)
	}

	return order, nil
}

func parseDecimal(dest *apd.Decimal, s string) error {
	if s == "" {
		*dest = apd.Decimal{}
		return nil
	}

	_, _, err := apd.BaseContext.SetString(dest, s)
	if err != nil {
		return fmt.Errorf("set decimal from string: %w", err)
	}

	return nil
}

func parseOrderSide(s string) core.OrderSide {
	switch s {
	case "SELL":
		return core.SideSell
	default:
		return core.SideBuy
	}
}

func parseOrderType(s string) core.OrderType {
	switch s {
	case "LIMIT":
		return core.TypeLimit
	case "STOP_LOSS":
		return core.TypeStopLoss
	case "STOP_LOSS_LIMIT":
		return core.TypeStopLossLimit
	case "TAKE_PROFIT":
		return core.TypeTakeProfit
	case "TAKE_PROFIT_LIMIT":
		return core.TypeTakeProfitLimit
	default:
		return core.TypeMarket
	}
}

func parseOrderStatus(s string) core.OrderStatus {
	switch s {
	case "PARTIALLY_FILLED":
		return core.StatusPartiallyFilled
	case "FILLED":
		return core.StatusFilled
	case "PENDING_CANCEL":
		return core.StatusCanceling
	case "CANCELED":
		return core.StatusCanceled
	case "REJECTED":
		return core.StatusRejected
	case "EXPIRED", "EXPIRED_IN_MATCH":
		return core.StatusExpired
	default:
		return core.StatusNew
	}
}

func parseTimeInForce(s string) core.TimeInForce {
	switch s {
	case "IOC":
		return core.IOC
	case "FOK":
		return core.FOK
	default:
		return core.GTC
	}
}
