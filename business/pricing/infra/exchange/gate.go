package exchange

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arbsentry/spread-bot/business/pricing/domain"
	"github.com/arbsentry/spread-bot/internal/apperror"
	"github.com/arbsentry/spread-bot/internal/config"
)

// Gate fetches USDT futures tickers from the Gate.io v4 API.
type Gate struct {
	*restVenue
}

type gateTicker struct {
	Contract   string `json:"contract"`
	Last       string `json:"last"`
	HighestBid string `json:"highest_bid"`
	LowestAsk  string `json:"lowest_ask"`
}

func NewGate(id domain.ExchangeID, cfg config.VenueConfig, log *slog.Logger) (*Gate, error) {
	base, err := newRESTVenue(id, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Gate{restVenue: base}, nil
}

func (g *Gate) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	return g.fetch(ctx, symbol, g.request)
}

func (g *Gate) request(ctx context.Context, symbol string) (domain.Quote, error) {
	resp, err := g.client.NewRequest().
		SetQueryParam("contract", symbol+"_USDT").
		Get(ctx, "/api/v4/futures/usdt/tickers")
	if err != nil {
		return domain.Quote{}, err
	}

	// Gate answers 400 CONTRACT_NOT_FOUND for unknown contracts.
	if resp.StatusCode == 400 {
		return domain.Quote{}, apperror.New(apperror.CodeSymbolNotListed,
			apperror.WithContext(fmt.Sprintf("gate %s", symbol)))
	}
	if err := statusError(resp, g.profile.ID, symbol); err != nil {
		return domain.Quote{}, err
	}

	var out []gateTicker
	if err := decodeResult(resp, &out, g.profile.ID, symbol); err != nil {
		return domain.Quote{}, err
	}
	if len(out) == 0 {
		return domain.Quote{}, apperror.New(apperror.CodeSymbolNotListed,
			apperror.WithContext(fmt.Sprintf("gate %s: empty ticker list", symbol)))
	}

	ticker := out[0]
	price, err := parsePrice(ticker.Last, g.profile.ID, "last")
	if err != nil {
		return domain.Quote{}, err
	}
	bid, err := parsePrice(ticker.HighestBid, g.profile.ID, "highest_bid")
	if err != nil {
		return domain.Quote{}, err
	}
	ask, err := parsePrice(ticker.LowestAsk, g.profile.ID, "lowest_ask")
	if err != nil {
		return domain.Quote{}, err
	}

	quote, err := domain.NewQuote(g.profile.ID, symbol, price, bid, ask, time.Now())
	if err != nil {
		return domain.Quote{}, apperror.Wrap(err, apperror.CodeInvalidQuote, fmt.Sprintf("gate %s", symbol))
	}
	return quote, nil
}
