package bitstamp

import (
	"fmt"
	"net/http"

	"stampgo/pkg/core"
)

// endpoint describes how an operation maps onto the v1 REST API.
type endpoint struct {
	method string
	path   string
	// boolean endpoints answer a bare `true` on success.
	boolean bool
}

var endpoints = map[core.Operation]endpoint{
	core.OpTicker:             {method: http.MethodGet, path: "/api/ticker/"},
	core.OpOrderBook:          {method: http.MethodGet, path: "/api/order_book/"},
	core.OpTransactions:       {method: http.MethodGet, path: "/api/transactions/"},
	core.OpBitinstantReserves: {method: http.MethodGet, path: "/api/bitinstant/"},
	core.OpConversionRate:     {method: http.MethodGet, path: "/api/eur_usd/"},

	core.OpAccountBalance:             {method: http.MethodPost, path: "/api/balance/"},
	core.OpUserTransactions:           {method: http.MethodPost, path: "/api/user_transactions/"},
	core.OpOpenOrders:                 {method: http.MethodPost, path: "/api/open_orders/"},
	core.OpCancelOrder:                {method: http.MethodPost, path: "/api/cancel_order/", boolean: true},
	core.OpBuyLimitOrder:              {method: http.MethodPost, path: "/api/buy/"},
	core.OpSellLimitOrder:             {method: http.MethodPost, path: "/api/sell/"},
	core.OpCheckCode:                  {method: http.MethodPost, path: "/api/check_code/"},
	core.OpRedeemCode:                 {method: http.MethodPost, path: "/api/redeem_code/"},
	core.OpWithdrawalRequests:         {method: http.MethodPost, path: "/api/withdrawal_requests/"},
	core.OpBitcoinWithdrawal:          {method: http.MethodPost, path: "/api/bitcoin_withdrawal/", boolean: true},
	core.OpBitcoinDepositAddress:      {method: http.MethodPost, path: "/api/bitcoin_deposit_address/"},
	core.OpUnconfirmedBitcoinDeposits: {method: http.MethodPost, path: "/api/unconfirmed_btc/"},
	core.OpRippleWithdrawal:           {method: http.MethodPost, path: "/api/ripple_withdrawal/", boolean: true},
	core.OpRippleDepositAddress:       {method: http.MethodPost, path: "/api/ripple_address/"},
}

// buildRequest constructs the request for op with endpoint-specific params. Public
// params travel in the query string, private ones in the form body.
func buildRequest(op core.Operation, params core.Params) (*core.Request, error) {
	ep, ok := endpoints[op]
	if !ok {
		return nil, fmt.Errorf("unsupported operation: %s", op)
	}

	req := core.NewRequest(op, ep.method, ep.path)
	if op.IsPrivate() {
		req.SetFormParams(params)
	} else {
		req.SetQueryParams(params)
	}
	return req, nil
}
