package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		want string
	}{
		{"ticker", OpTicker, "TICKER"},
		{"order_book", OpOrderBook, "ORDER_BOOK"},
		{"conversion_rate", OpConversionRate, "CONVERSION_RATE"},
		{"account_balance", OpAccountBalance, "ACCOUNT_BALANCE"},
		{"cancel_order", OpCancelOrder, "CANCEL_ORDER"},
		{"buy_limit_order", OpBuyLimitOrder, "BUY_LIMIT_ORDER"},
		{"ripple_deposit_address", OpRippleDepositAddress, "RIPPLE_DEPOSIT_ADDRESS"},
		{"out_of_range", Operation(99), "UNKNOWN"},
		{"negative", Operation(-1), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}

func TestOperation_IsPrivate(t *testing.T) {
	public := []Operation{OpTicker, OpOrderBook, OpTransactions, OpBitinstantReserves, OpConversionRate}
	for _, op := range public {
		assert.False(t, op.IsPrivate(), op.String())
	}

	private := []Operation{
		OpAccountBalance, OpUserTransactions, OpOpenOrders, OpCancelOrder,
		OpBuyLimitOrder, OpSellLimitOrder, OpCheckCode, OpRedeemCode,
		OpWithdrawalRequests, OpBitcoinWithdrawal, OpBitcoinDepositAddress,
		OpUnconfirmedBitcoinDeposits, OpRippleWithdrawal, OpRippleDepositAddress,
	}
	for _, op := range private {
		assert.True(t, op.IsPrivate(), op.String())
	}
}
