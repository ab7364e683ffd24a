package exchange

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/arbsentry/spread-bot/business/pricing/domain"
	"github.com/arbsentry/spread-bot/internal/apperror"
	"github.com/arbsentry/spread-bot/internal/config"
)

type quoteFetcher interface {
	FetchQuote(ctx context.Context, symbol string) (domain.Quote, error)
}

func testVenueCfg(name, baseURL string) config.VenueConfig {
	return config.VenueConfig{
		Name:        name,
		Kind:        "cex",
		BaseURL:     baseURL,
		MakerFeePct: 0.01,
		TakerFeePct: 0.06,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBybit_ParsesTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v5/market/tickers" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "BTCUSDT" {
			t.Errorf("symbol = %s, want BTCUSDT", got)
		}
		if got := r.URL.Query().Get("category"); got != "linear" {
			t.Errorf("category = %s, want linear", got)
		}
		fmt.Fprint(w, `{"retCode":0,"retMsg":"OK","result":{"list":[{"symbol":"BTCUSDT","lastPrice":"60000.5","bid1Price":"60000.1","ask1Price":"60000.9"}]}}`)
	}))
	defer srv.Close()

	adapter, err := NewBybit("bybit", testVenueCfg("Bybit", srv.URL), testLogger())
	if err != nil {
		t.Fatalf("constructor error: %v", err)
	}

	quote, err := adapter.FetchQuote(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Price.Equal(decimal.RequireFromString("60000.5")) {
		t.Errorf("price = %s, want 60000.5", quote.Price)
	}
	if !quote.Bid.Equal(decimal.RequireFromString("60000.1")) {
		t.Errorf("bid = %s, want 60000.1", quote.Bid)
	}
}

func TestBybit_NonZeroRetCodeMeansNotListed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"retCode":10001,"retMsg":"params error","result":{"list":[]}}`)
	}))
	defer srv.Close()

	adapter, _ := NewBybit("bybit", testVenueCfg("Bybit", srv.URL), testLogger())
	_, err := adapter.FetchQuote(context.Background(), "NOPE")
	if !apperror.IsCode(err, apperror.CodeSymbolNotListed) {
		t.Fatalf("expected SYMBOL_NOT_LISTED, got %v", err)
	}
}

func TestOKX_ParsesTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("instId"); got != "ETH-USDT-SWAP" {
			t.Errorf("instId = %s, want ETH-USDT-SWAP", got)
		}
		fmt.Fprint(w, `{"code":"0","msg":"","data":[{"instId":"ETH-USDT-SWAP","last":"3000","bidPx":"2999.5","askPx":"3000.5"}]}`)
	}))
	defer srv.Close()

	adapter, _ := NewOKX("okx", testVenueCfg("OKX", srv.URL), testLogger())
	quote, err := adapter.FetchQuote(context.Background(), "ETH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Ask.Equal(decimal.RequireFromString("3000.5")) {
		t.Errorf("ask = %s, want 3000.5", quote.Ask)
	}
}

func TestMEXC_SynthesizesBookFromPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"symbol":"SOLUSDT","price":"150"}`)
	}))
	defer srv.Close()

	adapter, _ := NewMEXC("mexc", testVenueCfg("MEXC", srv.URL), testLogger())
	quote, err := adapter.FetchQuote(context.Background(), "SOL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Bid.LessThan(quote.Price) || !quote.Ask.GreaterThan(quote.Price) {
		t.Errorf("synthetic book should straddle price: bid=%s price=%s ask=%s", quote.Bid, quote.Price, quote.Ask)
	}
}

func TestGate_ParsesTickerArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("contract"); got != "BTC_USDT" {
			t.Errorf("contract = %s, want BTC_USDT", got)
		}
		fmt.Fprint(w, `[{"contract":"BTC_USDT","last":"60010","highest_bid":"60005","lowest_ask":"60015"}]`)
	}))
	defer srv.Close()

	adapter, _ := NewGate("gate", testVenueCfg("Gate.io", srv.URL), testLogger())
	quote, err := adapter.FetchQuote(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Bid.Equal(decimal.RequireFromString("60005")) {
		t.Errorf("bid = %s, want 60005", quote.Bid)
	}
}

func TestHyperliquid_AllMidsServedFromOneCall(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != "/info" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{"BTC":"60000","ETH":"3000"}`)
	}))
	defer srv.Close()

	adapter, _ := NewHyperliquid("hyperliquid", testVenueCfg("Hyperliquid", srv.URL), testLogger())

	if _, err := adapter.FetchQuote(context.Background(), "BTC"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := adapter.FetchQuote(context.Background(), "ETH"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("allMids calls = %d, want 1 within TTL", calls.Load())
	}

	_, err := adapter.FetchQuote(context.Background(), "NOPE")
	if !apperror.IsCode(err, apperror.CodeSymbolNotListed) {
		t.Fatalf("expected SYMBOL_NOT_LISTED for unknown symbol, got %v", err)
	}
}

func TestHibachi_PriceFieldPriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"trade price wins",
			`{"tradePrice":"100","markPrice":"101","bidPrice":"99","askPrice":"103","spotPrice":"102"}`,
			"100",
		},
		{
			"mark price when no trade",
			`{"markPrice":"101","bidPrice":"99","askPrice":"103","spotPrice":"102"}`,
			"101",
		},
		{
			"book midpoint when no trade or mark",
			`{"bidPrice":"99","askPrice":"103","spotPrice":"102"}`,
			"101",
		},
		{
			"spot as last resort",
			`{"spotPrice":"102"}`,
			"102",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			adapter, _ := NewHibachi("hibachi", testVenueCfg("Hibachi", srv.URL), testLogger())
			quote, err := adapter.FetchQuote(context.Background(), "BTC")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !quote.Price.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("price = %s, want %s", quote.Price, tt.want)
			}
		})
	}
}

func TestHibachi_NotFoundMeansNotListed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	adapter, _ := NewHibachi("hibachi", testVenueCfg("Hibachi", srv.URL), testLogger())
	_, err := adapter.FetchQuote(context.Background(), "NOPE")
	if !apperror.IsCode(err, apperror.CodeSymbolNotListed) {
		t.Fatalf("expected SYMBOL_NOT_LISTED, got %v", err)
	}
}

func TestAdapters_GarbledBodyIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html>upstream maintenance</html>`)
	}))
	defer srv.Close()

	tests := []struct {
		name  string
		build func() (quoteFetcher, error)
	}{
		{"bybit", func() (quoteFetcher, error) {
			return NewBybit("bybit", testVenueCfg("Bybit", srv.URL), testLogger())
		}},
		{"okx", func() (quoteFetcher, error) {
			return NewOKX("okx", testVenueCfg("OKX", srv.URL), testLogger())
		}},
		{"gate", func() (quoteFetcher, error) {
			return NewGate("gate", testVenueCfg("Gate.io", srv.URL), testLogger())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, err := tt.build()
			if err != nil {
				t.Fatalf("constructor error: %v", err)
			}
			_, err = adapter.FetchQuote(context.Background(), "BTC")
			if !apperror.IsCode(err, apperror.CodeMalformedResponse) {
				t.Fatalf("expected MALFORMED_RESPONSE for a non-JSON body, got %v", err)
			}
		})
	}
}

func TestRestVenue_RetriesOnceAfterThrottle(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"retCode":0,"retMsg":"OK","result":{"list":[{"symbol":"BTCUSDT","lastPrice":"60000","bid1Price":"59999","ask1Price":"60001"}]}}`)
	}))
	defer srv.Close()

	adapter, _ := NewBybit("bybit", testVenueCfg("Bybit", srv.URL), testLogger())
	quote, err := adapter.FetchQuote(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Price.Equal(decimal.RequireFromString("60000")) {
		t.Errorf("price = %s, want 60000", quote.Price)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestRestVenue_RejectsImplausiblePriceJump(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		price := "100"
		if calls.Add(1) > 1 {
			price = "100000000"
		}
		fmt.Fprintf(w, `{"retCode":0,"retMsg":"OK","result":{"list":[{"symbol":"BTCUSDT","lastPrice":"%s","bid1Price":"","ask1Price":""}]}}`, price)
	}))
	defer srv.Close()

	adapter, _ := NewBybit("bybit", testVenueCfg("Bybit", srv.URL), testLogger())

	if _, err := adapter.FetchQuote(context.Background(), "BTC"); err != nil {
		t.Fatalf("first fetch should succeed: %v", err)
	}
	_, err := adapter.FetchQuote(context.Background(), "BTC")
	if !apperror.IsCode(err, apperror.CodePriceOutOfBounds) {
		t.Fatalf("expected PRICE_OUT_OF_BOUNDS, got %v", err)
	}
}

func TestRestVenue_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	adapter, _ := NewBybit("bybit", testVenueCfg("Bybit", srv.URL), testLogger())

	for i := 0; i < 5; i++ {
		if _, err := adapter.FetchQuote(context.Background(), "BTC"); err == nil {
			t.Fatal("expected failure while venue is erroring")
		}
	}

	_, err := adapter.FetchQuote(context.Background(), "BTC")
	if !apperror.IsCode(err, apperror.CodeCircuitOpen) {
		t.Fatalf("expected CIRCUIT_OPEN after threshold, got %v", err)
	}
}
