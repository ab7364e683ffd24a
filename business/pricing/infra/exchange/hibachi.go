package exchange

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arbsentry/spread-bot/business/pricing/domain"
	"github.com/arbsentry/spread-bot/internal/apperror"
	"github.com/arbsentry/spread-bot/internal/config"
)

// Hibachi fetches perpetual prices from the Hibachi data API. The venue
// enforces a tight request budget, so the adapter relies on the shared
// rate limiter and quote cache configured for it.
type Hibachi struct {
	*restVenue
}

type hibachiPriceResponse struct {
	TradePrice string `json:"tradePrice"`
	MarkPrice  string `json:"markPrice"`
	SpotPrice  string `json:"spotPrice"`
	BidPrice   string `json:"bidPrice"`
	AskPrice   string `json:"askPrice"`
}

func NewHibachi(id domain.ExchangeID, cfg config.VenueConfig, log *slog.Logger) (*Hibachi, error) {
	base, err := newRESTVenue(id, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Hibachi{restVenue: base}, nil
}

func (h *Hibachi) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	return h.fetch(ctx, symbol, h.request)
}

func (h *Hibachi) request(ctx context.Context, symbol string) (domain.Quote, error) {
	var out hibachiPriceResponse
	resp, err := h.client.NewRequest().
		SetQueryParam("symbol", symbol+"/USDT-P").
		SetResult(&out).
		Get(ctx, "/market/data/prices")
	if err != nil {
		return domain.Quote{}, err
	}
	if err := statusError(resp, h.profile.ID, symbol); err != nil {
		return domain.Quote{}, err
	}

	bid, err := parsePrice(out.BidPrice, h.profile.ID, "bidPrice")
	if err != nil {
		return domain.Quote{}, err
	}
	ask, err := parsePrice(out.AskPrice, h.profile.ID, "askPrice")
	if err != nil {
		return domain.Quote{}, err
	}

	price, err := h.resolvePrice(out, bid, ask, symbol)
	if err != nil {
		return domain.Quote{}, err
	}

	quote, err := domain.NewQuote(h.profile.ID, symbol, price, bid, ask, time.Now())
	if err != nil {
		return domain.Quote{}, apperror.Wrap(err, apperror.CodeInvalidQuote, fmt.Sprintf("hibachi %s", symbol))
	}
	return quote, nil
}

// resolvePrice picks the best available price field. Preference order:
// last trade, mark, book midpoint, spot.
func (h *Hibachi) resolvePrice(out hibachiPriceResponse, bid, ask decimal.Decimal, symbol string) (decimal.Decimal, error) {
	for _, field := range []struct {
		name string
		raw  string
	}{
		{"tradePrice", out.TradePrice},
		{"markPrice", out.MarkPrice},
	} {
		price, err := parsePrice(field.raw, h.profile.ID, field.name)
		if err != nil {
			return decimal.Zero, err
		}
		if price.IsPositive() {
			return price, nil
		}
	}

	if bid.IsPositive() && ask.IsPositive() {
		return bid.Add(ask).Div(decimal.NewFromInt(2)), nil
	}

	spot, err := parsePrice(out.SpotPrice, h.profile.ID, "spotPrice")
	if err != nil {
		return decimal.Zero, err
	}
	if spot.IsPositive() {
		return spot, nil
	}

	return decimal.Zero, apperror.New(apperror.CodeMalformedResponse,
		apperror.WithContext(fmt.Sprintf("hibachi %s: no usable price field", symbol)))
}
