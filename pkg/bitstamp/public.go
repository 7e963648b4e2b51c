package bitstamp

import (
	"context"
	"fmt"
	"time"

	"stampgo/pkg/core"
)

// DefaultTransactionsInterval is used by Transactions when no interval is given.
const DefaultTransactionsInterval = 24 * time.Hour

// Public calls the unauthenticated market-data endpoints. Every call goes through the
// request gate first.
type Public struct {
	*client
}

// NewPublic creates a market-data client. A nil config means core.DefaultConfig().
func NewPublic(config *core.Config, opts ...Option) (*Public, error) {
	c, _, err := newClient(config, opts)
	if err != nil {
		return nil, err
	}
	return &Public{client: c}, nil
}

// Ticker returns the raw ticker payload.
func (p *Public) Ticker(ctx context.Context) ([]byte, error) {
	return p.get(ctx, core.OpTicker, nil)
}

// OrderBook returns bids and asks. With group set, orders at the same price are merged.
func (p *Public) OrderBook(ctx context.Context, group bool) ([]byte, error) {
	return p.get(ctx, core.OpOrderBook, core.Params{"group": group})
}

// Transactions returns public transactions for the trailing interval, rounded down to
// whole seconds. Zero or negative means DefaultTransactionsInterval.
func (p *Public) Transactions(ctx context.Context, interval time.Duration) ([]byte, error) {
	if interval <= 0 {
		interval = DefaultTransactionsInterval
	}
	return p.get(ctx, core.OpTransactions, core.Params{"timedelta": int64(interval / time.Second)})
}

// BitinstantReserves returns the Bitinstant USD reserves.
func (p *Public) BitinstantReserves(ctx context.Context) ([]byte, error) {
	return p.get(ctx, core.OpBitinstantReserves, nil)
}

// ConversionRate returns the EUR/USD buy and sell conversion rate.
func (p *Public) ConversionRate(ctx context.Context) ([]byte, error) {
	return p.get(ctx, core.OpConversionRate, nil)
}

func (p *Public) get(ctx context.Context, op core.Operation, params core.Params) ([]byte, error) {
	req, err := buildRequest(op, params)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return p.do(ctx, req, nil)
}
