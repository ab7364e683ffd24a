package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	pricing "github.com/arbsentry/spread-bot/business/pricing/domain"
)

func mkQuote(venue pricing.ExchangeID, price, bid, ask string) pricing.Quote {
	q, err := pricing.NewQuote(venue, "BTC",
		decimal.RequireFromString(price),
		decimal.RequireFromString(bid),
		decimal.RequireFromString(ask),
		time.Now(),
	)
	if err != nil {
		panic(err)
	}
	return q
}

func mkMidQuote(venue pricing.ExchangeID, price string) pricing.Quote {
	q, err := pricing.NewQuoteFromMid(venue, "BTC", decimal.RequireFromString(price), time.Now())
	if err != nil {
		panic(err)
	}
	return q
}

func TestFindOpportunity_PicksCheapestAndDearest(t *testing.T) {
	quotes := map[pricing.ExchangeID]pricing.Quote{
		"bybit": mkMidQuote("bybit", "100"),
		"okx":   mkMidQuote("okx", "102"),
		"gate":  mkMidQuote("gate", "101"),
	}

	opp, ok := FindOpportunity("BTC", quotes, time.Now())
	if !ok {
		t.Fatal("expected an opportunity")
	}
	if opp.BuyVenue != "bybit" {
		t.Errorf("buy venue = %s, want bybit", opp.BuyVenue)
	}
	if opp.SellVenue != "okx" {
		t.Errorf("sell venue = %s, want okx", opp.SellVenue)
	}

	want := decimal.RequireFromString("2")
	if !opp.SpreadPct.Equal(want) {
		t.Errorf("spread = %s%%, want 2%%", opp.SpreadPct)
	}
}

func TestFindOpportunity_NeedsTwoQuotes(t *testing.T) {
	tests := []struct {
		name   string
		quotes map[pricing.ExchangeID]pricing.Quote
	}{
		{"empty", map[pricing.ExchangeID]pricing.Quote{}},
		{"single", map[pricing.ExchangeID]pricing.Quote{"bybit": mkMidQuote("bybit", "100")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := FindOpportunity("BTC", tt.quotes, time.Now()); ok {
				t.Fatal("expected no opportunity")
			}
		})
	}
}

func TestFindOpportunity_TiesResolveDeterministically(t *testing.T) {
	quotes := map[pricing.ExchangeID]pricing.Quote{
		"okx":   mkMidQuote("okx", "100"),
		"bybit": mkMidQuote("bybit", "100"),
		"gate":  mkMidQuote("gate", "105"),
	}

	for i := 0; i < 20; i++ {
		opp, ok := FindOpportunity("BTC", quotes, time.Now())
		if !ok {
			t.Fatal("expected an opportunity")
		}
		if opp.BuyVenue != "bybit" {
			t.Fatalf("buy venue = %s, want bybit (first sorted among tied minima)", opp.BuyVenue)
		}
	}
}

func TestFindOpportunity_FlatPricesGiveZeroSpread(t *testing.T) {
	quotes := map[pricing.ExchangeID]pricing.Quote{
		"bybit": mkMidQuote("bybit", "100"),
		"okx":   mkMidQuote("okx", "100"),
	}

	opp, ok := FindOpportunity("BTC", quotes, time.Now())
	if !ok {
		t.Fatal("expected an opportunity even with flat prices")
	}
	if !opp.SpreadPct.IsZero() {
		t.Errorf("spread = %s%%, want 0%%", opp.SpreadPct)
	}
	if opp.BuyVenue == opp.SellVenue {
		t.Errorf("buy and sell venue must differ, both = %s", opp.BuyVenue)
	}
}
