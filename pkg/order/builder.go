// Package order builds validated new-order requests.
package order

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"

	"spotclient/pkg/core"
	"spotclient/pkg/exchange"
	"spotclient/pkg/lotsize"
)

// Builder provides a fluent interface for constructing order requests.
// It accumulates the first error and reports it on Build.
//
// Example:
//
//	req, err := order.NewBuilder("LTC/USDT").
//	    Buy().
//	    Market().
//	    Quantity("0.0009011111").
//	    LotSize(rules).
//	    Build()
type Builder struct {
	req   *exchange.OrderRequest
	rules *core.SymbolRules
	err   error
}

// NewBuilder creates a new order builder for the given trading symbol.
func NewBuilder(symbol string) *Builder {
	return &Builder{
		req: &exchange.OrderRequest{
			Symbol: symbol,
			Type:   core.TypeMarket,
		},
	}
}

// Side sets the order side (buy or sell).
func (b *Builder) Side(side core.OrderSide) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Side = side
	return b
}

// Buy sets the order side to buy.
func (b *Builder) Buy() *Builder {
	return b.Side(core.SideBuy)
}

// Sell sets the order side to sell.
func (b *Builder) Sell() *Builder {
	return b.Side(core.SideSell)
}

// Type sets the order type (market, limit, etc.).
func (b *Builder) Type(orderType core.OrderType) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Type = orderType
	return b
}

// Market sets the order type to market.
func (b *Builder) Market() *Builder {
	return b.Type(core.TypeMarket)
}

// Limit sets the order type to limit.
func (b *Builder) Limit() *Builder {
	return b.Type(core.TypeLimit)
}

// Price sets the order price from a string representation.
func (b *Builder) Price(price string) *Builder {
	if b.err != nil {
		return b
	}
	_, _, err := b.req.Price.SetString(price)
	if err != nil {
		b.err = fmt.Errorf("parse price: %w", err)
	}
	return b
}

// PriceDecimal sets the order price from an apd.Decimal value.
func (b *Builder) PriceDecimal(price apd.Decimal) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Price.Set(&price)
	return b
}

// StopPrice sets the trigger price of a stop-loss or take-profit order.
func (b *Builder) StopPrice(price string) *Builder {
	if b.err != nil {
		return b
	}
	_, _, err := b.req.StopPrice.SetString(price)
	if err != nil {
		b.err = fmt.Errorf("parse stop price: %w", err)
	}
	return b
}

// Quantity sets the order quantity from a string representation.
func (b *Builder) Quantity(qty string) *Builder {
	if b.err != nil {
		return b
	}
	_, _, err := b.req.Quantity.SetString(qty)
	if err != nil {
		b.err = fmt.Errorf("parse quantity: %w", err)
	}
	return b
}

// QuantityDecimal sets the order quantity from an apd.Decimal value.
func (b *Builder) QuantityDecimal(qty apd.Decimal) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Quantity.Set(&qty)
	return b
}

// LotSize makes Build snap the quantity to the lot-size grid of rules.
func (b *Builder) LotSize(rules core.SymbolRules) *Builder {
	if b.err != nil {
		return b
	}
	b.rules = &rules
	return b
}

// TimeInForce sets the time-in-force policy for the order.
func (b *Builder) TimeInForce(tif core.TimeInForce) *Builder {
	if b.err != nil {
		return b
	}
	b.req.TimeInForce = tif
	return b
}

// GTC sets the time-in-force to Good-Till-Cancelled.
func (b *Builder) GTC() *Builder {
	return b.TimeInForce(core.GTC)
}

// IOC sets the time-in-force to Immediate-Or-Cancel.
func (b *Builder) IOC() *Builder {
	return b.TimeInForce(core.IOC)
}

// FOK sets the time-in-force to Fill-Or-Kill.
func (b *Builder) FOK() *Builder {
	return b.TimeInForce(core.FOK)
}

// ClientOrderID sets a client-assigned identifier. Build generates a UUID when none is set.
func (b *Builder) ClientOrderID(id string) *Builder {
	if b.err != nil {
		return b
	}
	b.req.ClientOrderID = id
	return b
}

// Build rounds, validates and returns the order request.
// Returns an error if any required fields are missing or invalid.
func (b *Builder) Build() (*exchange.OrderRequest, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.rules != nil && b.req.Quantity.Sign() > 0 {
		rounded, err := lotsize.Round(&b.req.Quantity, *b.rules)
		if err != nil {
			return nil, fmt.Errorf("round quantity: %w", err)
		}
		b.req.Quantity.Set(rounded)
	}

	if err := validateOrder(b.req); err != nil {
		return nil, err
	}

	if b.req.ClientOrderID == "" {
		b.req.ClientOrderID = NewClientOrderID()
	}

	return b.req, nil
}

// NewClientOrderID returns a random identifier accepted as newClientOrderId.
func NewClientOrderID() string {
	return uuid.NewString()
}

func validateOrder(req *exchange.OrderRequest) error {
	if req.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	return req.Validate()
}
