package cmd

import (
	"context"
	"fmt"

	"github.com/cockroachdb/apd/v3"
	"github.com/spf13/cobra"

	"stampgo/pkg/bitstamp"
	"stampgo/pkg/core"
)

// runTrading builds an authenticated client for one call. An application failure in the
// returned Result becomes the command's error.
func runTrading[T any](a *app, cmd *cobra.Command, call func(ctx context.Context, t *bitstamp.Trading) (core.Result[T], error)) (T, error) {
	var zero T

	creds, err := a.credentials()
	if err != nil {
		return zero, err
	}
	t, err := bitstamp.NewTrading(a.coreConfig(), creds, a.options()...)
	if err != nil {
		return zero, err
	}
	defer t.Close() // nolint:errcheck // best-effort cleanup

	res, err := call(cmd.Context(), t)
	if err != nil {
		return zero, err
	}
	return res.Unwrap()
}

func (a *app) printTrading(cmd *cobra.Command, call func(ctx context.Context, t *bitstamp.Trading) (core.Result[[]byte], error)) error {
	body, err := runTrading(a, cmd, call)
	if err != nil {
		return err
	}
	return a.render(cmd.OutOrStdout(), body)
}

func (a *app) newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show account balances and the trading fee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printTrading(cmd, func(ctx context.Context, t *bitstamp.Trading) (core.Result[[]byte], error) {
				return t.AccountBalance(ctx)
			})
		},
	}
}

func (a *app) newUserTransactionsCmd() *cobra.Command {
	var (
		offset int
		limit  int
		asc    bool
	)
	c := &cobra.Command{
		Use:   "user-transactions",
		Short: "Show the account's transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if offset < 0 || limit < 1 {
				return fmt.Errorf("offset must be >= 0 and limit >= 1")
			}
			return a.printTrading(cmd, func(ctx context.Context, t *bitstamp.Trading) (core.Result[[]byte], error) {
				return t.UserTransactions(ctx, offset, limit, !asc)
			})
		},
	}
	c.Flags().IntVar(&offset, "offset", 0, "skip this many transactions")
	c.Flags().IntVar(&limit, "limit", 100, "return at most this many transactions")
	c.Flags().BoolVar(&asc, "asc", false, "oldest first")
	return c
}

func (a *app) newOpenOrdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open-orders",
		Short: "Show the account's open orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printTrading(cmd, func(ctx context.Context, t *bitstamp.Trading) (core.Result[[]byte], error) {
				return t.OpenOrders(ctx)
			})
		},
	}
}

func (a *app) newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel an open order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if _, err := runTrading(a, cmd, func(ctx context.Context, t *bitstamp.Trading) (core.Result[bool], error) {
				return t.CancelOrder(ctx, id)
			}); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "order %s cancelled\n", id)
			return err
		},
	}
}

func (a *app) newBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <amount> <price>",
		Short: "Place a limit order to buy bitcoins",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, price, err := parseOrderArgs(args)
			if err != nil {
				return err
			}
			return a.printTrading(cmd, func(ctx context.Context, t *bitstamp.Trading) (core.Result[[]byte], error) {
				return t.BuyLimitOrder(ctx, amount, price)
			})
		},
	}
}

func (a *app) newSellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sell <amount> <price>",
		Short: "Place a limit order to sell bitcoins",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, price, err := parseOrderArgs(args)
			if err != nil {
				return err
			}
			return a.printTrading(cmd, func(ctx context.Context, t *bitstamp.Trading) (core.Result[[]byte], error) {
				return t.SellLimitOrder(ctx, amount, price)
			})
		},
	}
}

func (a *app) newWithdrawalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdrawals",
		Short: "Show the account's withdrawal requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printTrading(cmd, func(ctx context.Context, t *bitstamp.Trading) (core.Result[[]byte], error) {
				return t.WithdrawalRequests(ctx)
			})
		},
	}
}

func (a *app) newDepositAddressCmd() *cobra.Command {
	var ripple bool
	c := &cobra.Command{
		Use:   "deposit-address",
		Short: "Show the account's bitcoin (or ripple) deposit address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printTrading(cmd, func(ctx context.Context, t *bitstamp.Trading) (core.Result[[]byte], error) {
				if ripple {
					return t.RippleDepositAddress(ctx)
				}
				return t.BitcoinDepositAddress(ctx)
			})
		},
	}
	c.Flags().BoolVar(&ripple, "ripple", false, "show the ripple address instead")
	return c
}

func parseOrderArgs(args []string) (amount, price *apd.Decimal, err error) {
	amount, err = parsePositive("amount", args[0])
	if err != nil {
		return nil, nil, err
	}
	price, err = parsePositive("price", args[1])
	if err != nil {
		return nil, nil, err
	}
	return amount, price, nil
}

func parsePositive(name, s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	if d.Sign() <= 0 || d.Form != apd.Finite {
		return nil, fmt.Errorf("%s must be a positive number, got %s", name, s)
	}
	return d, nil
}
