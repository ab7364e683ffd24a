package exchange

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arbsentry/spread-bot/business/pricing/domain"
)

func TestQuoteCache_ExpiresAfterTTL(t *testing.T) {
	clock := time.Now()
	cache := newQuoteCache(5 * time.Second)
	cache.now = func() time.Time { return clock }

	quote, _ := domain.NewQuoteFromMid("hibachi", "BTC", decimal.RequireFromString("60000"), clock)
	cache.put("BTC", quote)

	if _, ok := cache.get("BTC"); !ok {
		t.Fatal("expected fresh entry to be served")
	}

	clock = clock.Add(4 * time.Second)
	if _, ok := cache.get("BTC"); !ok {
		t.Fatal("entry within TTL should still be served")
	}

	clock = clock.Add(2 * time.Second)
	if _, ok := cache.get("BTC"); ok {
		t.Fatal("entry past TTL should expire")
	}
}

func TestQuoteCache_MissOnUnknownSymbol(t *testing.T) {
	cache := newQuoteCache(time.Minute)
	if _, ok := cache.get("ETH"); ok {
		t.Fatal("expected miss for never-stored symbol")
	}
}
