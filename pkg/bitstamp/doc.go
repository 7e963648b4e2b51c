// Package bitstamp is a client for the Bitstamp v1 REST API.
//
// Public calls market-data endpoints; Trading calls account and trading endpoints
// with signed parameters. Every call is admitted through a request gate that enforces
// the exchange's quota of 600 requests per 600 seconds across the whole process.
// A rejected call returns *core.QuotaExceededError with the time to wait; the client
// never sleeps or retries on its own.
//
// Private calls that reach the exchange return a core.Result: the exchange reports
// some failures with HTTP 200 and an "error" field, and those land in the failure
// variant instead of the returned error.
//
// Example usage:
//
//	trading, err := bitstamp.NewTrading(core.DefaultConfig(), core.Credentials{
//		CustomerID: "123456",
//		APIKey:     key,
//		SecretKey:  secret,
//	})
//	res, err := trading.AccountBalance(ctx)
//	if err != nil {
//		if qe, ok := core.IsQuotaExceeded(err); ok {
//			time.Sleep(qe.TimeToWait)
//		}
//	}
//	if !res.OK() {
//		log.Println(res.Failure().Message)
//	}
package bitstamp
