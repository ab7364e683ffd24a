package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewQuote_RejectsNonPositivePrice(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		price string
	}{
		{"zero", "0"},
		{"negative", "-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuote("bybit", "BTC", decimal.RequireFromString(tt.price), decimal.Zero, decimal.Zero, now)
			if !errors.Is(err, ErrNonPositivePrice) {
				t.Fatalf("expected ErrNonPositivePrice, got %v", err)
			}
		})
	}
}

func TestNewQuote_KeepsRealBook(t *testing.T) {
	now := time.Now()
	q, err := NewQuote("okx", "ETH",
		decimal.RequireFromString("3000"),
		decimal.RequireFromString("2999.5"),
		decimal.RequireFromString("3000.5"),
		now,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.Bid.Equal(decimal.RequireFromString("2999.5")) {
		t.Errorf("bid = %s, want 2999.5", q.Bid)
	}
	if !q.Ask.Equal(decimal.RequireFromString("3000.5")) {
		t.Errorf("ask = %s, want 3000.5", q.Ask)
	}
}

func TestNewQuoteFromMid_SynthesizesBook(t *testing.T) {
	q, err := NewQuoteFromMid("hyperliquid", "BTC", decimal.RequireFromString("60000"), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantBid := decimal.RequireFromString("59994") // 60000 * (1 - 0.0001)
	wantAsk := decimal.RequireFromString("60006") // 60000 * (1 + 0.0001)
	if !q.Bid.Equal(wantBid) {
		t.Errorf("bid = %s, want %s", q.Bid, wantBid)
	}
	if !q.Ask.Equal(wantAsk) {
		t.Errorf("ask = %s, want %s", q.Ask, wantAsk)
	}
	if !q.Bid.LessThan(q.Price) || !q.Ask.GreaterThan(q.Price) {
		t.Errorf("synthetic book should straddle the price: bid=%s price=%s ask=%s", q.Bid, q.Price, q.Ask)
	}
}

func TestExchangeProfile_DealURL(t *testing.T) {
	p := ExchangeProfile{
		ID:              "bybit",
		DealURLTemplate: "https://www.bybit.com/trade/usdt/{SYM}USDT",
	}
	got := p.DealURL("BTC")
	want := "https://www.bybit.com/trade/usdt/BTCUSDT"
	if got != want {
		t.Errorf("DealURL = %q, want %q", got, want)
	}
}
