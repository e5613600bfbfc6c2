package exchange

type Option func(*Options)

type Options struct {
	// Limit is the number of order book levels to request.
	Limit int
	// Symbol overrides the client's configured symbol for one call.
	Symbol string
}

func WithLimit(limit int) Option {
	return func(o *Options) {
		o.Limit = limit
	}
}

func WithSymbol(symbol string) Option {
	return func(o *Options) {
		o.Symbol = symbol
	}
}

func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
