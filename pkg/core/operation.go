package core

// Operation represents a type of action that can be performed on an exchange.
type Operation int

// Operation constants define all supported exchange operations.
const (
	// OpGetOrderBook retrieves an order book snapshot.
	OpGetOrderBook Operation = iota
	// OpGetExchangeInfo retrieves symbol metadata and trading rules.
	OpGetExchangeInfo
	// OpGetTradeFee retrieves the maker/taker fee schedule for a symbol.
	OpGetTradeFee
	// OpGetBalance retrieves account balance information.
	OpGetBalance
	// OpPlaceOrder submits a new order to the exchange.
	OpPlaceOrder
)

// String returns the string representation of the operation.
func (o Operation) String() string {
	return [...]string{
		"GET_ORDER_BOOK",
		"GET_EXCHANGE_INFO",
		"GET_TRADE_FEE",
		"GET_BALANCE",
		"PLACE_ORDER",
	}[o]
}
