package exchange

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/arbsentry/spread-bot/business/pricing/app"
	"github.com/arbsentry/spread-bot/business/pricing/domain"
	"github.com/arbsentry/spread-bot/internal/config"
)

type adapterFactory func(domain.ExchangeID, config.VenueConfig, *slog.Logger) (app.ExchangeAdapter, error)

var factories = map[domain.ExchangeID]adapterFactory{
	"bybit": func(id domain.ExchangeID, cfg config.VenueConfig, log *slog.Logger) (app.ExchangeAdapter, error) {
		return NewBybit(id, cfg, log)
	},
	"okx": func(id domain.ExchangeID, cfg config.VenueConfig, log *slog.Logger) (app.ExchangeAdapter, error) {
		return NewOKX(id, cfg, log)
	},
	"mexc": func(id domain.ExchangeID, cfg config.VenueConfig, log *slog.Logger) (app.ExchangeAdapter, error) {
		return NewMEXC(id, cfg, log)
	},
	"gate": func(id domain.ExchangeID, cfg config.VenueConfig, log *slog.Logger) (app.ExchangeAdapter, error) {
		return NewGate(id, cfg, log)
	},
	"hyperliquid": func(id domain.ExchangeID, cfg config.VenueConfig, log *slog.Logger) (app.ExchangeAdapter, error) {
		return NewHyperliquid(id, cfg, log)
	},
	"hibachi": func(id domain.ExchangeID, cfg config.VenueConfig, log *slog.Logger) (app.ExchangeAdapter, error) {
		return NewHibachi(id, cfg, log)
	},
}

// BuildAdapters constructs an adapter per enabled venue in the config.
// Venue IDs without a registered adapter are a configuration error.
func BuildAdapters(cfg *config.Config, log *slog.Logger) ([]app.ExchangeAdapter, error) {
	ids := make([]string, 0, len(cfg.Venues))
	for id := range cfg.Venues {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	adapters := make([]app.ExchangeAdapter, 0, len(ids))
	for _, id := range ids {
		venueCfg := cfg.Venues[id]
		if venueCfg.Disabled {
			log.Info("venue disabled, skipping", "venue", id)
			continue
		}

		factory, ok := factories[domain.ExchangeID(id)]
		if !ok {
			return nil, fmt.Errorf("no adapter registered for venue %q", id)
		}

		adapter, err := factory(domain.ExchangeID(id), venueCfg, log)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, adapter)
	}
	return adapters, nil
}
