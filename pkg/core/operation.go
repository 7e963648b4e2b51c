package core

// Operation represents a REST endpoint that can be called on the exchange.
type Operation int

// Public market-data operations.
const (
	// OpTicker retrieves the current ticker.
	OpTicker Operation = iota
	// OpOrderBook retrieves bids and asks.
	OpOrderBook
	// OpTransactions retrieves public transactions for a trailing interval.
	OpTransactions
	// OpBitinstantReserves retrieves Bitinstant USD reserves.
	OpBitinstantReserves
	// OpConversionRate retrieves the EUR/USD buy and sell conversion rate.
	OpConversionRate

	// OpAccountBalance retrieves the account balance and fee.
	OpAccountBalance
	// OpUserTransactions retrieves the account's transaction history.
	OpUserTransactions
	// OpOpenOrders retrieves all open orders.
	OpOpenOrders
	// OpCancelOrder cancels an open order by id.
	OpCancelOrder
	// OpBuyLimitOrder places a limit buy order.
	OpBuyLimitOrder
	// OpSellLimitOrder places a limit sell order.
	OpSellLimitOrder
	// OpCheckCode returns the amounts included in a Bitstamp code.
	OpCheckCode
	// OpRedeemCode redeems a Bitstamp code into the account.
	OpRedeemCode
	// OpWithdrawalRequests lists withdrawal requests.
	OpWithdrawalRequests
	// OpBitcoinWithdrawal sends bitcoins to an external address.
	OpBitcoinWithdrawal
	// OpBitcoinDepositAddress returns the account's bitcoin deposit address.
	OpBitcoinDepositAddress
	// OpUnconfirmedBitcoinDeposits lists unconfirmed bitcoin deposits.
	OpUnconfirmedBitcoinDeposits
	// OpRippleWithdrawal withdraws to a ripple address.
	OpRippleWithdrawal
	// OpRippleDepositAddress returns the account's ripple deposit address.
	OpRippleDepositAddress
)

// String returns the string representation of the operation.
func (o Operation) String() string {
	names := [...]string{
		"TICKER",
		"ORDER_BOOK",
		"TRANSACTIONS",
		"BITINSTANT_RESERVES",
		"CONVERSION_RATE",
		"ACCOUNT_BALANCE",
		"USER_TRANSACTIONS",
		"OPEN_ORDERS",
		"CANCEL_ORDER",
		"BUY_LIMIT_ORDER",
		"SELL_LIMIT_ORDER",
		"CHECK_CODE",
		"REDEEM_CODE",
		"WITHDRAWAL_REQUESTS",
		"BITCOIN_WITHDRAWAL",
		"BITCOIN_DEPOSIT_ADDRESS",
		"UNCONFIRMED_BITCOIN_DEPOSITS",
		"RIPPLE_WITHDRAWAL",
		"RIPPLE_DEPOSIT_ADDRESS",
	}
	if o < 0 || int(o) >= len(names) {
		return "UNKNOWN"
	}
	return names[o]
}

// IsPrivate reports whether the operation requires signed parameters.
func (o Operation) IsPrivate() bool {
	return o >= OpAccountBalance
}
