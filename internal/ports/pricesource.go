package ports

import "context"

// PriceSource supplies a current market price for a symbol. The matching and
// aggregation engine never calls an exchange itself; whoever builds reports
// injects one of these for marking open positions to market.
type PriceSource interface {
	GetTickerPrice(ctx context.Context, symbol string) (float64, error)
}

// MarkPriceSource is an optional extension of PriceSource for venues that
// publish a mark price separate from the last traded price. Futures PnL is
// settled against the mark price, so report builders prefer it when the
// source offers one and the configuration asks for it.
type MarkPriceSource interface {
	PriceSource
	GetMarkPrice(ctx context.Context, symbol string) (float64, error)
}

// PriceFunc adapts a plain lookup function to the PriceSource interface.
type PriceFunc func(ctx context.Context, symbol string) (float64, error)

func (f PriceFunc) GetTickerPrice(ctx context.Context, symbol string) (float64, error) {
	return f(ctx, symbol)
}
