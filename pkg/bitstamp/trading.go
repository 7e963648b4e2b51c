package bitstamp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"

	"stampgo/internal/signer"
	"stampgo/pkg/core"
)

// Trading calls the private account and trading endpoints for one set of credentials.
// It owns the signer for those credentials; create one Trading client per account.
type Trading struct {
	*client
	signer *signer.Signer
}

// NewTrading creates an authenticated client. A nil config means core.DefaultConfig().
func NewTrading(config *core.Config, creds core.Credentials, opts ...Option) (*Trading, error) {
	c, options, err := newClient(config, opts)
	if err != nil {
		return nil, err
	}

	var signerOpts []signer.Option
	if options.Nonce > 0 {
		signerOpts = append(signerOpts, signer.WithNonce(options.Nonce))
	}
	s, err := signer.New(creds, signerOpts...)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	return &Trading{client: c, signer: s}, nil
}

// Nonce returns the nonce the next private call will carry.
func (t *Trading) Nonce() int64 {
	return t.signer.Nonce()
}

// AccountBalance returns balances, reserved amounts and the trading fee.
func (t *Trading) AccountBalance(ctx context.Context) (core.Result[[]byte], error) {
	return t.call(ctx, core.OpAccountBalance, nil)
}

// UserTransactions returns the account's transactions, newest first when descending.
func (t *Trading) UserTransactions(ctx context.Context, offset, limit int, descending bool) (core.Result[[]byte], error) {
	sort := "asc"
	if descending {
		sort = "desc"
	}
	return t.call(ctx, core.OpUserTransactions, core.Params{
		"offset": offset,
		"limit":  limit,
		"sort":   sort,
	})
}

// OpenOrders returns the account's open orders.
func (t *Trading) OpenOrders(ctx context.Context) (core.Result[[]byte], error) {
	return t.call(ctx, core.OpOpenOrders, nil)
}

// CancelOrder cancels the order with the given id. The failure variant carries the
// exchange's reason, e.g. "Order not found".
func (t *Trading) CancelOrder(ctx context.Context, orderID string) (core.Result[bool], error) {
	return t.callBool(ctx, core.OpCancelOrder, core.Params{"id": orderID})
}

// BuyLimitOrder places an order to buy amount bitcoins at price.
func (t *Trading) BuyLimitOrder(ctx context.Context, amount, price *apd.Decimal) (core.Result[[]byte], error) {
	params, err := decimalParams(map[string]*apd.Decimal{"amount": amount, "price": price})
	if err != nil {
		return core.Result[[]byte]{}, err
	}
	return t.call(ctx, core.OpBuyLimitOrder, params)
}

// SellLimitOrder places an order to sell amount bitcoins at price.
func (t *Trading) SellLimitOrder(ctx context.Context, amount, price *apd.Decimal) (core.Result[[]byte], error) {
	params, err := decimalParams(map[string]*apd.Decimal{"amount": amount, "price": price})
	if err != nil {
		return core.Result[[]byte]{}, err
	}
	return t.call(ctx, core.OpSellLimitOrder, params)
}

// CheckCode returns the USD and BTC amounts included in a Bitstamp code.
func (t *Trading) CheckCode(ctx context.Context, code string) (core.Result[[]byte], error) {
	return t.call(ctx, core.OpCheckCode, core.Params{"code": code})
}

// RedeemCode redeems a Bitstamp code and returns the amounts added to the account.
func (t *Trading) RedeemCode(ctx context.Context, code string) (core.Result[[]byte], error) {
	return t.call(ctx, core.OpRedeemCode, core.Params{"code": code})
}

// WithdrawalRequests returns the account's withdrawal requests.
func (t *Trading) WithdrawalRequests(ctx context.Context) (core.Result[[]byte], error) {
	return t.call(ctx, core.OpWithdrawalRequests, nil)
}

// BitcoinWithdrawal sends amount bitcoins to address.
func (t *Trading) BitcoinWithdrawal(ctx context.Context, amount *apd.Decimal, address string) (core.Result[bool], error) {
	params, err := decimalParams(map[string]*apd.Decimal{"amount": amount})
	if err != nil {
		return core.Result[bool]{}, err
	}
	params["address"] = address
	return t.callBool(ctx, core.OpBitcoinWithdrawal, params)
}

// BitcoinDepositAddress returns the account's bitcoin deposit address.
func (t *Trading) BitcoinDepositAddress(ctx context.Context) (core.Result[[]byte], error) {
	return t.call(ctx, core.OpBitcoinDepositAddress, nil)
}

// UnconfirmedBitcoinDeposits returns deposits still waiting for confirmations.
func (t *Trading) UnconfirmedBitcoinDeposits(ctx context.Context) (core.Result[[]byte], error) {
	return t.call(ctx, core.OpUnconfirmedBitcoinDeposits, nil)
}

// RippleWithdrawal withdraws amount of currency to a ripple address.
func (t *Trading) RippleWithdrawal(ctx context.Context, amount *apd.Decimal, address, currency string) (core.Result[bool], error) {
	params, err := decimalParams(map[string]*apd.Decimal{"amount": amount})
	if err != nil {
		return core.Result[bool]{}, err
	}
	params["address"] = address
	params["currency"] = currency
	return t.callBool(ctx, core.OpRippleWithdrawal, params)
}

// RippleDepositAddress returns the account's ripple deposit address.
func (t *Trading) RippleDepositAddress(ctx context.Context) (core.Result[[]byte], error) {
	return t.call(ctx, core.OpRippleDepositAddress, nil)
}

func (t *Trading) send(ctx context.Context, op core.Operation, params core.Params) ([]byte, error) {
	req, err := buildRequest(op, params)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return t.do(ctx, req, t.signer)
}

func (t *Trading) call(ctx context.Context, op core.Operation, params core.Params) (core.Result[[]byte], error) {
	body, err := t.send(ctx, op, params)
	if err != nil {
		return core.Result[[]byte]{}, err
	}

	msg, found, err := embeddedError(body)
	if err != nil {
		return core.Result[[]byte]{}, fmt.Errorf("decode %s response: %w", op, err)
	}
	if found {
		return core.Fail[[]byte](t.applicationError(op, msg, body)), nil
	}
	return core.Success(body), nil
}

func (t *Trading) callBool(ctx context.Context, op core.Operation, params core.Params) (core.Result[bool], error) {
	body, err := t.send(ctx, op, params)
	if err != nil {
		return core.Result[bool]{}, err
	}

	if string(bytes.TrimSpace(body)) == "true" {
		return core.Success(true), nil
	}

	msg, found, err := embeddedError(body)
	if err != nil || !found {
		msg = string(bytes.TrimSpace(body))
	}
	return core.Fail[bool](t.applicationError(op, msg, body)), nil
}

func (t *Trading) applicationError(op core.Operation, msg string, body []byte) *core.ApplicationError {
	t.logger.Debug().
		Str("operation", op.String()).
		Str("error", msg).
		Msg("exchange rejected request")
	return &core.ApplicationError{Operation: op, Message: msg, Raw: body}
}

// embeddedError looks for the error indicator Bitstamp places in 2xx bodies: an
// "error" key, or "status":"error" with a "reason". Bodies that are not JSON objects
// never carry one.
func embeddedError(body []byte) (string, bool, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", false, nil
	}

	var envelope map[string]any
	if err := sonic.Unmarshal(trimmed, &envelope); err != nil {
		return "", false, err
	}

	if v, ok := envelope["error"]; ok {
		return flatten(v), true, nil
	}
	if status, _ := envelope["status"].(string); status == "error" {
		return flatten(envelope["reason"]), true, nil
	}
	return "", false, nil
}

// flatten renders an embedded error value as text. Structured values such as
// {"__all__": ["..."]} are re-encoded as compact JSON.
func flatten(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		data, err := sonic.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

// decimalParams renders each decimal in plain notation, e.g. "0.00100000".
func decimalParams(values map[string]*apd.Decimal) (core.Params, error) {
	params := make(core.Params, len(values))
	for name, d := range values {
		if d == nil {
			return nil, fmt.Errorf("%s is required", name)
		}
		params[name] = d.Text('f')
	}
	return params, nil
}
