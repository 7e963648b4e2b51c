package bitstamp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stampgo/internal/ratelimit"
	"stampgo/pkg/core"
)

func testConfig(url string) *core.Config {
	return core.DefaultConfig().WithBaseURL(url).WithTimeout(5 * time.Second).WithLogLevel("disabled")
}

func newTestPublic(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Public, *Gate) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gate := NewGate(ratelimit.DefaultLimit, ratelimit.DefaultWindow)
	opts = append([]Option{WithGate(gate)}, opts...)

	p, err := NewPublic(testConfig(server.URL), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p, gate
}

func TestNewPublic_InvalidConfig(t *testing.T) {
	_, err := NewPublic(&core.Config{BaseURL: "nope", Timeout: time.Second})
	assert.Error(t, err)
}

func TestNewPublic_DefaultGate(t *testing.T) {
	p, err := NewPublic(nil)
	require.NoError(t, err)
	defer p.Close()

	assert.Same(t, DefaultGate(), p.Gate())
}

func TestPublic_Endpoints(t *testing.T) {
	tests := []struct {
		name      string
		call      func(ctx context.Context, p *Public) ([]byte, error)
		wantPath  string
		wantQuery map[string]string
	}{
		{
			name:     "ticker",
			call:     func(ctx context.Context, p *Public) ([]byte, error) { return p.Ticker(ctx) },
			wantPath: "/api/ticker/",
		},
		{
			name:      "order_book_grouped",
			call:      func(ctx context.Context, p *Public) ([]byte, error) { return p.OrderBook(ctx, true) },
			wantPath:  "/api/order_book/",
			wantQuery: map[string]string{"group": "True"},
		},
		{
			name:      "order_book_ungrouped",
			call:      func(ctx context.Context, p *Public) ([]byte, error) { return p.OrderBook(ctx, false) },
			wantPath:  "/api/order_book/",
			wantQuery: map[string]string{"group": "False"},
		},
		{
			name:      "transactions_default",
			call:      func(ctx context.Context, p *Public) ([]byte, error) { return p.Transactions(ctx, 0) },
			wantPath:  "/api/transactions/",
			wantQuery: map[string]string{"timedelta": "86400"},
		},
		{
			name: "transactions_hour",
			call: func(ctx context.Context, p *Public) ([]byte, error) {
				return p.Transactions(ctx, time.Hour+500*time.Millisecond)
			},
			wantPath:  "/api/transactions/",
			wantQuery: map[string]string{"timedelta": "3600"},
		},
		{
			name:     "bitinstant",
			call:     func(ctx context.Context, p *Public) ([]byte, error) { return p.BitinstantReserves(ctx) },
			wantPath: "/api/bitinstant/",
		},
		{
			name:     "eur_usd",
			call:     func(ctx context.Context, p *Public) ([]byte, error) { return p.ConversionRate(ctx) },
			wantPath: "/api/eur_usd/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, gate := newTestPublic(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, tt.wantPath, r.URL.Path)
				for k, v := range tt.wantQuery {
					assert.Equal(t, v, r.URL.Query().Get(k))
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"last":"100.00"}`))
			})

			body, err := tt.call(context.Background(), p)

			require.NoError(t, err)
			assert.JSONEq(t, `{"last":"100.00"}`, string(body))
			assert.Equal(t, 1, gate.Len())
		})
	}
}

func TestPublic_TransportError(t *testing.T) {
	p, _ := newTestPublic(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
	})

	body, err := p.Ticker(context.Background())

	assert.Nil(t, body)
	var exErr *core.ExchangeError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, http.StatusServiceUnavailable, exErr.StatusCode)
	assert.Equal(t, core.ErrorTypeServerError, exErr.Type)
	assert.Equal(t, "bitstamp", exErr.Exchange)
	assert.Equal(t, []byte("maintenance"), exErr.Body)
}

func TestPublic_EmbeddedErrorIsNotInspected(t *testing.T) {
	p, _ := newTestPublic(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"ignored for public calls"}`))
	})

	body, err := p.Ticker(context.Background())

	require.NoError(t, err)
	assert.Contains(t, string(body), "ignored")
}

func TestPublic_QuotaExceeded(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	gate := NewGate(2, time.Hour)
	p, err := NewPublic(testConfig(server.URL), WithGate(gate))
	require.NoError(t, err)
	defer p.Close()

	ctx := context.Background()
	_, err = p.Ticker(ctx)
	require.NoError(t, err)
	_, err = p.ConversionRate(ctx)
	require.NoError(t, err)

	_, err = p.Ticker(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrQuotaExceeded)
	qe, ok := core.IsQuotaExceeded(err)
	require.True(t, ok)
	assert.Greater(t, qe.TimeToWait, 59*time.Minute)

	assert.Equal(t, int32(2), hits.Load(), "rejected call must not reach the server")
}

func TestPublic_GateDisabled(t *testing.T) {
	var hits atomic.Int32
	gate := NewGate(1, time.Hour, ratelimit.WithEnabled(false))
	p, _ := newTestPublic(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}, WithGate(gate))

	for i := 0; i < 5; i++ {
		_, err := p.Ticker(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(5), hits.Load())
	assert.Equal(t, 0, gate.Len())
}

func TestPublic_SharedGate(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{}`)) }
	shared := NewGate(3, time.Hour)
	a, _ := newTestPublic(t, handler, WithGate(shared))
	b, _ := newTestPublic(t, handler, WithGate(shared))

	ctx := context.Background()
	_, err := a.Ticker(ctx)
	require.NoError(t, err)
	_, err = b.Ticker(ctx)
	require.NoError(t, err)
	_, err = a.Ticker(ctx)
	require.NoError(t, err)

	_, err = b.Ticker(ctx)
	assert.ErrorIs(t, err, core.ErrQuotaExceeded)
}

func TestPublic_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	p, err := NewPublic(testConfig(url), WithGate(NewGate(10, time.Hour)))
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Ticker(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsNetworkError(err))
}

func TestPublic_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	p, err := NewPublic(testConfig(server.URL), WithGate(NewGate(10, time.Hour)))
	require.NoError(t, err)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = p.Ticker(ctx)
	require.Error(t, err)
	assert.True(t, core.IsTimeoutError(err), "got %v", err)
}

func TestPublic_Closed(t *testing.T) {
	gate := NewGate(10, time.Hour)
	p, _ := newTestPublic(t, func(w http.ResponseWriter, r *http.Request) {}, WithGate(gate))

	require.NoError(t, p.Close())

	_, err := p.Ticker(context.Background())
	assert.ErrorIs(t, err, core.ErrClientClosed)
	assert.Equal(t, 0, gate.Len(), "closed client must not consume quota")
}
