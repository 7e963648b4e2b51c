package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stampgo/pkg/bitstamp"
)

type publicCall func(ctx context.Context, p *bitstamp.Public) ([]byte, error)

// runPublic builds a market-data client for one call and prints the payload.
func (a *app) runPublic(cmd *cobra.Command, call publicCall) error {
	p, err := bitstamp.NewPublic(a.coreConfig(), a.options()...)
	if err != nil {
		return err
	}
	defer p.Close() // nolint:errcheck // best-effort cleanup

	body, err := call(cmd.Context(), p)
	if err != nil {
		return err
	}
	return a.render(cmd.OutOrStdout(), body)
}

func (a *app) newTickerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ticker",
		Short: "Show the BTC/USD ticker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPublic(cmd, func(ctx context.Context, p *bitstamp.Public) ([]byte, error) {
				return p.Ticker(ctx)
			})
		},
	}
}

func (a *app) newOrderBookCmd() *cobra.Command {
	var group bool
	c := &cobra.Command{
		Use:   "order-book",
		Short: "Show open bids and asks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPublic(cmd, func(ctx context.Context, p *bitstamp.Public) ([]byte, error) {
				return p.OrderBook(ctx, group)
			})
		},
	}
	c.Flags().BoolVar(&group, "group", true, "merge orders at the same price")
	return c
}

func (a *app) newTransactionsCmd() *cobra.Command {
	var interval time.Duration
	c := &cobra.Command{
		Use:   "transactions",
		Short: "Show public transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval < time.Second {
				return fmt.Errorf("interval must be at least 1s, got %s", interval)
			}
			return a.runPublic(cmd, func(ctx context.Context, p *bitstamp.Public) ([]byte, error) {
				return p.Transactions(ctx, interval)
			})
		},
	}
	c.Flags().DurationVar(&interval, "interval", bitstamp.DefaultTransactionsInterval, "trailing time window")
	return c
}

func (a *app) newBitinstantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bitinstant",
		Short: "Show Bitinstant USD reserves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPublic(cmd, func(ctx context.Context, p *bitstamp.Public) ([]byte, error) {
				return p.BitinstantReserves(ctx)
			})
		},
	}
}

func (a *app) newConversionRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eur-usd",
		Short: "Show the EUR/USD conversion rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPublic(cmd, func(ctx context.Context, p *bitstamp.Public) ([]byte, error) {
				return p.ConversionRate(ctx)
			})
		},
	}
}
