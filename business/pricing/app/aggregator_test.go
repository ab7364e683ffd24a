package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arbsentry/spread-bot/business/pricing/domain"
	"github.com/arbsentry/spread-bot/internal/apperror"
)

type fakeAdapter struct {
	id    domain.ExchangeID
	quote domain.Quote
	err   error
	delay time.Duration
	panic bool
}

func (f *fakeAdapter) ID() domain.ExchangeID { return f.id }

func (f *fakeAdapter) Profile() domain.ExchangeProfile {
	return domain.ExchangeProfile{ID: f.id, Name: string(f.id)}
}

func (f *fakeAdapter) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	if f.panic {
		panic("adapter blew up")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return domain.Quote{}, apperror.Wrap(ctx.Err(), apperror.CodeFetchTimeout, string(f.id))
		}
	}
	if f.err != nil {
		return domain.Quote{}, f.err
	}
	return f.quote, nil
}

func quoteFor(id domain.ExchangeID, price string) domain.Quote {
	q, _ := domain.NewQuoteFromMid(id, "BTC", decimal.RequireFromString(price), time.Now())
	return q
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAggregator_CollectsAllHealthyVenues(t *testing.T) {
	agg := NewAggregator([]ExchangeAdapter{
		&fakeAdapter{id: "bybit", quote: quoteFor("bybit", "100")},
		&fakeAdapter{id: "okx", quote: quoteFor("okx", "101")},
		&fakeAdapter{id: "gate", quote: quoteFor("gate", "102")},
	}, time.Second, testLogger())

	quotes := agg.Collect(context.Background(), "BTC", []domain.ExchangeID{"bybit", "okx", "gate"})

	if len(quotes) != 3 {
		t.Fatalf("got %d quotes, want 3", len(quotes))
	}
	if !quotes["okx"].Price.Equal(decimal.RequireFromString("101")) {
		t.Errorf("okx price = %s, want 101", quotes["okx"].Price)
	}
}

func TestAggregator_SlowVenueDoesNotBlockOthers(t *testing.T) {
	agg := NewAggregator([]ExchangeAdapter{
		&fakeAdapter{id: "bybit", quote: quoteFor("bybit", "100")},
		&fakeAdapter{id: "okx", quote: quoteFor("okx", "101"), delay: 5 * time.Second},
		&fakeAdapter{id: "mexc", quote: quoteFor("mexc", "99")},
	}, 100*time.Millisecond, testLogger())

	start := time.Now()
	quotes := agg.Collect(context.Background(), "BTC", []domain.ExchangeID{"bybit", "okx", "mexc"})
	elapsed := time.Since(start)

	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2", len(quotes))
	}
	if _, ok := quotes["okx"]; ok {
		t.Error("timed-out venue should not contribute a quote")
	}
	if elapsed > time.Second {
		t.Errorf("collect took %s, expected per-call timeout to cap it", elapsed)
	}
}

func TestAggregator_FailingVenueIsIsolated(t *testing.T) {
	agg := NewAggregator([]ExchangeAdapter{
		&fakeAdapter{id: "bybit", quote: quoteFor("bybit", "100")},
		&fakeAdapter{id: "hibachi", err: apperror.New(apperror.CodeSymbolNotListed)},
	}, time.Second, testLogger())

	quotes := agg.Collect(context.Background(), "FOO", []domain.ExchangeID{"bybit", "hibachi"})

	if len(quotes) != 1 {
		t.Fatalf("got %d quotes, want 1", len(quotes))
	}
	if _, ok := quotes["bybit"]; !ok {
		t.Error("healthy venue should still contribute")
	}
}

func TestAggregator_PanickingVenueIsRecovered(t *testing.T) {
	agg := NewAggregator([]ExchangeAdapter{
		&fakeAdapter{id: "bybit", quote: quoteFor("bybit", "100")},
		&fakeAdapter{id: "okx", panic: true},
	}, time.Second, testLogger())

	quotes := agg.Collect(context.Background(), "BTC", []domain.ExchangeID{"bybit", "okx"})

	if len(quotes) != 1 {
		t.Fatalf("got %d quotes, want 1", len(quotes))
	}
}

func TestAggregator_SkipsUnknownVenues(t *testing.T) {
	agg := NewAggregator([]ExchangeAdapter{
		&fakeAdapter{id: "bybit", quote: quoteFor("bybit", "100")},
	}, time.Second, testLogger())

	quotes := agg.Collect(context.Background(), "BTC", []domain.ExchangeID{"bybit", "nope"})

	if len(quotes) != 1 {
		t.Fatalf("got %d quotes, want 1", len(quotes))
	}
}
