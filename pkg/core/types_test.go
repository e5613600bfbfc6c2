package core

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
)

func TestOrderSide_String(t *testing.T) {
	tests := []struct {
		name string
		side OrderSide
		want string
	}{
		{"buy", SideBuy, "BUY"},
		{"sell", SideSell, "SELL"},
		{"unknown", OrderSide(9), "UNKNOWN"},
		{"negative", OrderSide(-1), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.side.String())
		})
	}
}

func TestOrderType_String(t *testing.T) {
	tests := []struct {
		name      string
		orderType OrderType
		want      string
	}{
		{"market", TypeMarket, "MARKET"},
		{"limit", TypeLimit, "LIMIT"},
		{"stop_loss", TypeStopLoss, "STOP_LOSS"},
		{"stop_loss_limit", TypeStopLossLimit, "STOP_LOSS_LIMIT"},
		{"take_profit", TypeTakeProfit, "TAKE_PROFIT"},
		{"take_profit_limit", TypeTakeProfitLimit, "TAKE_PROFIT_LIMIT"},
		{"unknown", OrderType(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.orderType.String())
		})
	}
}

func TestOrderStatus_String(t *testing.T) {
	tests := []struct {
		name   string
		status OrderStatus
		want   string
	}{
		{"new", StatusNew, "NEW"},
		{"partially_filled", StatusPartiallyFilled, "PARTIALLY_FILLED"},
		{"filled", StatusFilled, "FILLED"},
		{"canceling", StatusCanceling, "CANCELING"},
		{"canceled", StatusCanceled, "CANCELED"},
		{"rejected", StatusRejected, "REJECTED"},
		{"expired", StatusExpired, "EXPIRED"},
		{"unknown", OrderStatus(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		name     string
		status   OrderStatus
		expected bool
	}{
		{"new", StatusNew, false},
		{"partially_filled", StatusPartiallyFilled, false},
		{"canceling", StatusCanceling, false},
		{"filled", StatusFilled, true},
		{"canceled", StatusCanceled, true},
		{"rejected", StatusRejected, true},
		{"expired", StatusExpired, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsTerminal())
		})
	}
}

func TestTimeInForce_String(t *testing.T) {
	tests := []struct {
		name string
		tif  TimeInForce
		want string
	}{
		{"gtc", GTC, "GTC"},
		{"ioc", IOC, "IOC"},
		{"fok", FOK, "FOK"},
		{"unknown", TimeInForce(3), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tif.String())
		})
	}
}

func TestOrderSide_UnmarshalJSON(t *testing.T) {
	var side OrderSide
	assert.NoError(t, side.UnmarshalJSON([]byte(`"sell"`)))
	assert.Equal(t, SideSell, side)

	data, err := side.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"SELL"`, string(data))
}

func TestOrder_Fields(t *testing.T) {
	order := &Order{
		ID:            "12345",
		ClientOrderID: "client-123",
		Symbol:        "LTCUSDT",
		Side:          SideBuy,
		Type:          TypeMarket,
		Status:        StatusFilled,
		TimeInForce:   GTC,
		Fills: []Fill{
			{TradeID: 1, CommissionAsset: "BNB"},
		},
	}

	order.Quantity.SetString("0.001")
	order.FilledQuantity.SetString("0.001")

	assert.Equal(t, "12345", order.ID)
	assert.Equal(t, SideBuy, order.Side)
	assert.Equal(t, TypeMarket, order.Type)
	assert.True(t, order.Status.IsTerminal())
	assert.Equal(t, 0, order.Quantity.Cmp(&order.FilledQuantity))
	assert.Len(t, order.Fills, 1)
}

func TestBalances_Assets(t *testing.T) {
	var free apd.Decimal
	free.SetString("1.5")

	balances := Balances{
		"ETH": {Asset: "ETH", Free: free},
		"BTC": {Asset: "BTC", Free: free},
		"BNB": {Asset: "BNB", Free: free},
	}

	assert.Equal(t, []string{"BNB", "BTC", "ETH"}, balances.Assets())
}

func TestExchangeInfo_Rules(t *testing.T) {
	info := &ExchangeInfo{
		Symbols: []SymbolRules{
			{Symbol: "BTCUSDT", Precision: 8},
			{Symbol: "LTCUSDT", Precision: 6},
		},
	}

	rules, ok := info.Rules("LTCUSDT")
	assert.True(t, ok)
	assert.Equal(t, int32(6), rules.Precision)

	rules.Status = "TRADING"
	assert.Equal(t, "TRADING", info.Symbols[1].Status)

	_, ok = info.Rules("DOGEUSDT")
	assert.False(t, ok)
}

func TestOrderBook(t *testing.T) {
	var price1, qty1, price2, qty2 apd.Decimal
	price1.SetString("50000.00")
	qty1.SetString("1.0")
	price2.SetString("50001.00")
	qty2.SetString("2.0")

	ob := &OrderBook{
		Symbol:       "BTCUSDT",
		LastUpdateID: 1027024,
		Bids: []OrderBookLevel{
			{Price: price1, Quantity: qty1},
		},
		Asks: []OrderBookLevel{
			{Price: price2, Quantity: qty2},
		},
	}

	assert.Equal(t, "BTCUSDT", ob.Symbol)
	assert.Len(t, ob.Bids, 1)
	assert.Len(t, ob.Asks, 1)
	assert.Equal(t, -1, ob.Bids[0].Price.Cmp(&ob.Asks[0].Price))
}
