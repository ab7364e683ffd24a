package exchange

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/arbsentry/spread-bot/business/pricing/domain"
	"github.com/arbsentry/spread-bot/internal/apperror"
	"github.com/arbsentry/spread-bot/internal/config"
)

// hyperliquidMidsTTL caps how long one allMids snapshot serves quote
// requests. The info endpoint returns every listed symbol in one shot,
// so a scan iteration over the full coin catalog costs a single call.
const hyperliquidMidsTTL = time.Second

// Hyperliquid fetches mid prices from the Hyperliquid info endpoint.
// The API reports only mids, so quotes carry a synthetic bid/ask.
type Hyperliquid struct {
	*restVenue

	midsMu        sync.Mutex
	mids          map[string]string
	midsFetchedAt time.Time
}

func NewHyperliquid(id domain.ExchangeID, cfg config.VenueConfig, log *slog.Logger) (*Hyperliquid, error) {
	base, err := newRESTVenue(id, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Hyperliquid{restVenue: base}, nil
}

func (h *Hyperliquid) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	return h.fetch(ctx, symbol, h.request)
}

func (h *Hyperliquid) request(ctx context.Context, symbol string) (domain.Quote, error) {
	mids, err := h.allMids(ctx)
	if err != nil {
		return domain.Quote{}, err
	}

	raw, ok := mids[symbol]
	if !ok {
		return domain.Quote{}, apperror.New(apperror.CodeSymbolNotListed,
			apperror.WithContext(fmt.Sprintf("hyperliquid %s", symbol)))
	}

	mid, err := parsePrice(raw, h.profile.ID, "mid")
	if err != nil {
		return domain.Quote{}, err
	}

	quote, err := domain.NewQuoteFromMid(h.profile.ID, symbol, mid, time.Now())
	if err != nil {
		return domain.Quote{}, apperror.Wrap(err, apperror.CodeInvalidQuote, fmt.Sprintf("hyperliquid %s", symbol))
	}
	return quote, nil
}

func (h *Hyperliquid) allMids(ctx context.Context) (map[string]string, error) {
	h.midsMu.Lock()
	defer h.midsMu.Unlock()

	if h.mids != nil && time.Since(h.midsFetchedAt) < hyperliquidMidsTTL {
		return h.mids, nil
	}

	var out map[string]string
	resp, err := h.client.NewRequest().
		SetBody(map[string]string{"type": "allMids"}).
		SetResult(&out).
		Post(ctx, "/info")
	if err != nil {
		return nil, err
	}
	if err := statusError(resp, h.profile.ID, "allMids"); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, apperror.New(apperror.CodeMalformedResponse,
			apperror.WithContext("hyperliquid allMids: empty map"))
	}

	h.mids = out
	h.midsFetchedAt = time.Now()
	return out, nil
}
