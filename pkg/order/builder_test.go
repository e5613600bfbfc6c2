package order

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotclient/pkg/core"
	"spotclient/pkg/exchange"
)

func ltcRules() core.SymbolRules {
	return core.SymbolRules{
		Symbol:    "LTCUSDT",
		Precision: 8,
		StepSize:  *apd.New(1, -3),
	}
}

func TestBuilder_Build(t *testing.T) {
	tests := []struct {
		name       string
		build      func() (*exchange.OrderRequest, error)
		wantErr    bool
		errContain string
	}{
		{
			name: "valid limit buy order",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").
					Buy().
					Limit().
					Price("70.25").
					Quantity("0.1").
					GTC().
					Build()
			},
		},
		{
			name: "valid market sell order",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").
					Sell().
					Market().
					Quantity("1.5").
					Build()
			},
		},
		{
			name: "market is the default type",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").Buy().Quantity("1").Build()
			},
		},
		{
			name: "valid order with decimal quantity",
			build: func() (*exchange.OrderRequest, error) {
				var qty apd.Decimal
				qty.SetString("0.12345678")
				return NewBuilder("LTC/USDT").
					Sell().
					Limit().
					Price("70").
					QuantityDecimal(qty).
					Build()
			},
		},
		{
			name: "missing symbol",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("").Buy().Market().Quantity("0.1").Build()
			},
			wantErr:    true,
			errContain: "symbol is required",
		},
		{
			name: "missing quantity",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").Buy().Market().Build()
			},
			wantErr:    true,
			errContain: "quantity must be positive",
		},
		{
			name: "negative quantity",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").Buy().Market().Quantity("-0.1").Build()
			},
			wantErr:    true,
			errContain: "quantity must be positive",
		},
		{
			name: "quantity below half a step rounds to zero",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").Buy().Market().Quantity("0.0004").LotSize(ltcRules()).Build()
			},
			wantErr:    true,
			errContain: "quantity must be positive",
		},
		{
			name: "limit order without price",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").Buy().Limit().Quantity("0.1").Build()
			},
			wantErr:    true,
			errContain: "price must be positive for limit orders",
		},
		{
			name: "stop loss limit order requires price",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").Sell().Type(core.TypeStopLossLimit).Quantity("0.1").Build()
			},
			wantErr:    true,
			errContain: "price must be positive for limit orders",
		},
		{
			name: "invalid price string",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").Buy().Limit().Price("invalid").Quantity("0.1").Build()
			},
			wantErr:    true,
			errContain: "parse price",
		},
		{
			name: "invalid quantity string",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").Buy().Market().Quantity("invalid").Build()
			},
			wantErr:    true,
			errContain: "parse quantity",
		},
		{
			name: "invalid type",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").Buy().Type(core.OrderType(42)).Quantity("1").Build()
			},
			wantErr:    true,
			errContain: "invalid order type",
		},
		{
			name: "invalid side",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").Side(core.OrderSide(7)).Market().Quantity("1").Build()
			},
			wantErr:    true,
			errContain: "invalid order side",
		},
		{
			name: "invalid time in force",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").Buy().Limit().Price("70").Quantity("1").TimeInForce(core.TimeInForce(9)).Build()
			},
			wantErr:    true,
			errContain: "invalid time in force",
		},
		{
			name: "stop loss without stop price",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").Sell().Type(core.TypeStopLoss).Quantity("1").Build()
			},
			wantErr:    true,
			errContain: "stop price must be positive",
		},
		{
			name: "take profit limit with stop price",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").Sell().Type(core.TypeTakeProfitLimit).
					Price("80").StopPrice("79.5").Quantity("1").GTC().Build()
			},
			wantErr: false,
		},
		{
			name: "invalid stop price string",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("LTC/USDT").Sell().Type(core.TypeStopLoss).StopPrice("x").Quantity("1").Build()
			},
			wantErr:    true,
			errContain: "parse stop price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.build()

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errContain != "" {
					assert.Contains(t, err.Error(), tt.errContain)
				}
				assert.Nil(t, req)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, req)
			}
		})
	}
}

func TestBuilder_FluentAPI(t *testing.T) {
	req, err := NewBuilder("LTC/USDT").
		Side(core.SideBuy).
		Type(core.TypeLimit).
		Price("70.00").
		Quantity("0.1").
		TimeInForce(core.FOK).
		ClientOrderID("2149043174170888437").
		Build()

	require.NoError(t, err)
	assert.Equal(t, "LTC/USDT", req.Symbol)
	assert.Equal(t, core.SideBuy, req.Side)
	assert.Equal(t, core.TypeLimit, req.Type)
	assert.Equal(t, core.FOK, req.TimeInForce)
	assert.Equal(t, "2149043174170888437", req.ClientOrderID)
	assert.Equal(t, "70.00", req.Price.Text('f'))
}

func TestBuilder_LotSize(t *testing.T) {
	req, err := NewBuilder("LTC/USDT").
		Buy().
		Market().
		Quantity("0.0009011111111111111111111111").
		LotSize(ltcRules()).
		Build()

	require.NoError(t, err)
	assert.Equal(t, "0.001", req.Quantity.Text('f'))
}

func TestBuilder_LotSizeFallsBackToPrecision(t *testing.T) {
	rules := core.SymbolRules{Symbol: "LTCUSDT", Precision: 2}

	req, err := NewBuilder("LTC/USDT").Sell().Quantity("1.005").LotSize(rules).Build()

	require.NoError(t, err)
	assert.Equal(t, "1.00", req.Quantity.Text('f'))
}

func TestBuilder_GeneratesClientOrderID(t *testing.T) {
	a, err := NewBuilder("LTC/USDT").Buy().Quantity("1").Build()
	require.NoError(t, err)
	b, err := NewBuilder("LTC/USDT").Buy().Quantity("1").Build()
	require.NoError(t, err)

	_, err = uuid.Parse(a.ClientOrderID)
	assert.NoError(t, err)
	assert.NotEqual(t, a.ClientOrderID, b.ClientOrderID)
}

func TestBuilder_ChainOnError(t *testing.T) {
	req, err := NewBuilder("LTC/USDT").
		Buy().
		Price("invalid").
		Limit().
		Quantity("0.1").
		Build()

	assert.Error(t, err)
	assert.Nil(t, req)
	assert.Contains(t, err.Error(), "parse price")
}
