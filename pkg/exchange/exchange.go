package exchange

import (
	"context"
	"errors"

	"github.com/cockroachdb/apd/v3"

	"spotclient/pkg/core"
)

// Exchange defines the REST surface of a single-symbol spot client.
// Every method performs at most one HTTP request and never retries.
type Exchange interface {
	Name() string
	Version() string
	Symbol() string
	Close() error

	GetOrderBook(ctx context.Context, opts ...Option) (*core.OrderBook, error)
	GetExchangeInfo(ctx context.Context, opts ...Option) (*core.ExchangeInfo, error)
	GetSymbolRules(ctx context.Context, opts ...Option) (*core.SymbolRules, error)
	GetTradeFee(ctx context.Context, opts ...Option) (*core.TradeFee, error)
	GetBalance(ctx context.Context, opts ...Option) (core.Balances, error)

	PlaceOrder(ctx context.Context, req *OrderRequest, opts ...Option) (*core.Order, error)
}

// OrderRequest contains the parameters required to place a new order on an exchange.
// Price and TimeInForce are only sent for limit orders, StopPrice only for
// stop-loss and take-profit orders.
type OrderRequest struct {
	Symbol        string
	Side          core.OrderSide
	Type          core.OrderType
	Price         apd.Decimal
	StopPrice     apd.Decimal
	Quantity      apd.Decimal
	TimeInForce   core.TimeInForce
	ClientOrderID string
}

// Validate checks the fields every order type requires before anything is sent.
func (r *OrderRequest) Validate() error {
	if !r.Side.Valid() {
		return errors.New("invalid order side")
	}
	if !r.Type.Valid() {
		return errors.New("invalid order type")
	}
	if r.Quantity.Sign() <= 0 {
		return errors.New("quantity must be positive")
	}
	if r.IsLimit() {
		if r.Price.Sign() <= 0 {
			return errors.New("price must be positive for limit orders")
		}
		if !r.TimeInForce.Valid() {
			return errors.New("invalid time in force")
		}
	}
	if r.IsStop() && r.StopPrice.Sign() <= 0 {
		return errors.New("stop price must be positive for stop orders")
	}
	return nil
}

// IsLimit reports whether the order rests on the book at a price.
func (r *OrderRequest) IsLimit() bool {
	switch r.Type {
	case core.TypeLimit, core.TypeStopLossLimit, core.TypeTakeProfitLimit:
		return true
	default:
		return false
	}
}

// IsStop reports whether the order is triggered by a stop price.
func (r *OrderRequest) IsStop() bool {
	switch r.Type {
	case core.TypeStopLoss, core.TypeStopLossLimit, core.TypeTakeProfit, core.TypeTakeProfitLimit:
		return true
	default:
		return false
	}
}
