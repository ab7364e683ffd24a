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

// OKX fetches USDT-margined swap tickers from the OKX v5 market API.
type OKX struct {
	*restVenue
}

type okxTickerResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		InstID string `json:"instId"`
		Last   string `json:"last"`
		BidPx  string `json:"bidPx"`
		AskPx  string `json:"askPx"`
	} `json:"data"`
}

func NewOKX(id domain.ExchangeID, cfg config.VenueConfig, log *slog.Logger) (*OKX, error) {
	base, err := newRESTVenue(id, cfg, log)
	if err != nil {
		return nil, err
	}
	return &OKX{restVenue: base}, nil
}

func (o *OKX) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	return o.fetch(ctx, symbol, o.request)
}

func (o *OKX) request(ctx context.Context, symbol string) (domain.Quote, error) {
	resp, err := o.client.NewRequest().
		SetQueryParam("instId", symbol+"-USDT-SWAP").
		Get(ctx, "/api/v5/market/ticker")
	if err != nil {
		return domain.Quote{}, err
	}
	if err := statusError(resp, o.profile.ID, symbol); err != nil {
		return domain.Quote{}, err
	}

	var out okxTickerResponse
	if err := decodeResult(resp, &out, o.profile.ID, symbol); err != nil {
		return domain.Quote{}, err
	}

	// OKX reports unknown instruments with code "51001" and an empty data set.
	if out.Code != "0" || len(out.Data) == 0 {
		return domain.Quote{}, apperror.New(apperror.CodeSymbolNotListed,
			apperror.WithContext(fmt.Sprintf("okx %s: code=%s %s", symbol, out.Code, out.Msg)))
	}

	ticker := out.Data[0]
	price, err := parsePrice(ticker.Last, o.profile.ID, "last")
	if err != nil {
		return domain.Quote{}, err
	}
	bid, err := parsePrice(ticker.BidPx, o.profile.ID, "bidPx")
	if err != nil {
		return domain.Quote{}, err
	}
	ask, err := parsePrice(ticker.AskPx, o.profile.ID, "askPx")
	if err != nil {
		return domain.Quote{}, err
	}

	quote, err := domain.NewQuote(o.profile.ID, symbol, price, bid, ask, time.Now())
	if err != nil {
		return domain.Quote{}, apperror.Wrap(err, apperror.CodeInvalidQuote, fmt.Sprintf("okx %s", symbol))
	}
	return quote, nil
}
