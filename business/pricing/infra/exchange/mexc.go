package exchange

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/arbsentry/spread-bot/business/pricing/domain"
	"github.com/arbsentry/spread-bot/internal/apperror"
	"github.com/arbsentry/spread-bot/internal/config"
)

// MEXC fetches spot ticker prices from the MEXC v3 API. The endpoint
// exposes no order book, so the quote carries a synthetic bid/ask.
type MEXC struct {
	*restVenue
}

type mexcPriceResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

func NewMEXC(id domain.ExchangeID, cfg config.VenueConfig, log *slog.Logger) (*MEXC, error) {
	base, err := newRESTVenue(id, cfg, log)
	if err != nil {
		return nil, err
	}
	return &MEXC{restVenue: base}, nil
}

func (m *MEXC) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	return m.fetch(ctx, symbol, m.request)
}

func (m *MEXC) request(ctx context.Context, symbol string) (domain.Quote, error) {
	var out mexcPriceResponse
	resp, err := m.client.NewRequest().
		SetQueryParam("symbol", symbol+"USDT").
		SetResult(&out).
		Get(ctx, "/api/v3/ticker/price")
	if err != nil {
		return domain.Quote{}, err
	}

	// MEXC answers 400 for unknown symbols.
	if resp.StatusCode == http.StatusBadRequest {
		return domain.Quote{}, apperror.New(apperror.CodeSymbolNotListed,
			apperror.WithContext(fmt.Sprintf("mexc %s", symbol)))
	}
	if err := statusError(resp, m.profile.ID, symbol); err != nil {
		return domain.Quote{}, err
	}
	if out.Price == "" {
		return domain.Quote{}, apperror.New(apperror.CodeMalformedResponse,
			apperror.WithContext(fmt.Sprintf("mexc %s: empty price", symbol)))
	}

	price, err := parsePrice(out.Price, m.profile.ID, "price")
	if err != nil {
		return domain.Quote{}, err
	}

	quote, err := domain.NewQuoteFromMid(m.profile.ID, symbol, price, time.Now())
	if err != nil {
		return domain.Quote{}, apperror.Wrap(err, apperror.CodeInvalidQuote, fmt.Sprintf("mexc %s", symbol))
	}
	return quote, nil
}
