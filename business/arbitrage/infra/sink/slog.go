package sink

import (
	"context"
	"log/slog"

	"github.com/arbsentry/spread-bot/business/arbitrage/domain"
)

// Slog emits alerts as structured log records. Useful when the process
// runs headless and alerts are scraped from the log stream.
type Slog struct {
	log *slog.Logger
}

func NewSlog(log *slog.Logger) *Slog {
	return &Slog{log: log}
}

func (s *Slog) Deliver(_ context.Context, a domain.Alert) error {
	s.log.Info("arbitrage opportunity",
		"user", a.UserID,
		"coin", a.Coin,
		"spread_pct", a.SpreadPct,
		"long_venue", a.Long.Venue,
		"long_market_entry", a.Long.MarketEntry,
		"short_venue", a.Short.Venue,
		"short_market_entry", a.Short.MarketEntry,
		"market_net_usd", a.Estimate.MarketProfitUSD,
		"limit_net_usd", a.Estimate.LimitProfitUSD,
		"venues", a.QuoteCount,
	)
	return nil
}
