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

// Bybit fetches linear perpetual tickers from the Bybit v5 market API.
type Bybit struct {
	*restVenue
}

type bybitTickerResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		List []struct {
			Symbol    string `json:"symbol"`
			LastPrice string `json:"lastPrice"`
			Bid1Price string `json:"bid1Price"`
			Ask1Price string `json:"ask1Price"`
		} `json:"list"`
	} `json:"result"`
}

func NewBybit(id domain.ExchangeID, cfg config.VenueConfig, log *slog.Logger) (*Bybit, error) {
	base, err := newRESTVenue(id, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Bybit{restVenue: base}, nil
}

func (b *Bybit) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	return b.fetch(ctx, symbol, b.request)
}

func (b *Bybit) request(ctx context.Context, symbol string) (domain.Quote, error) {
	resp, err := b.client.NewRequest().
		SetQueryParam("category", "linear").
		SetQueryParam("symbol", symbol+"USDT").
		Get(ctx, "/v5/market/tickers")
	if err != nil {
		return domain.Quote{}, err
	}
	if err := statusError(resp, b.profile.ID, symbol); err != nil {
		return domain.Quote{}, err
	}

	var out bybitTickerResponse
	if err := decodeResult(resp, &out, b.profile.ID, symbol); err != nil {
		return domain.Quote{}, err
	}

	// Bybit answers 200 with a non-zero retCode for unknown contracts.
	if out.RetCode != 0 || len(out.Result.List) == 0 {
		return domain.Quote{}, apperror.New(apperror.CodeSymbolNotListed,
			apperror.WithContext(fmt.Sprintf("bybit %s: retCode=%d %s", symbol, out.RetCode, out.RetMsg)))
	}

	ticker := out.Result.List[0]
	price, err := parsePrice(ticker.LastPrice, b.profile.ID, "lastPrice")
	if err != nil {
		return domain.Quote{}, err
	}
	bid, err := parsePrice(ticker.Bid1Price, b.profile.ID, "bid1Price")
	if err != nil {
		return domain.Quote{}, err
	}
	ask, err := parsePrice(ticker.Ask1Price, b.profile.ID, "ask1Price")
	if err != nil {
		return domain.Quote{}, err
	}

	quote, err := domain.NewQuote(b.profile.ID, symbol, price, bid, ask, time.Now())
	if err != nil {
		return domain.Quote{}, apperror.Wrap(err, apperror.CodeInvalidQuote, fmt.Sprintf("bybit %s", symbol))
	}
	return quote, nil
}
