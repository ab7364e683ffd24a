// Package arbitrage is the bounded context that evaluates spreads and
// notifies users about profitable divergences.
package arbitrage

import (
	"context"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"github.com/arbsentry/spread-bot/business/arbitrage/app"
	arbitragedi "github.com/arbsentry/spread-bot/business/arbitrage/di"
	"github.com/arbsentry/spread-bot/business/arbitrage/domain"
	"github.com/arbsentry/spread-bot/business/arbitrage/infra/sink"
	"github.com/arbsentry/spread-bot/business/arbitrage/infra/store"
	pricingdi "github.com/arbsentry/spread-bot/business/pricing/di"
	"github.com/arbsentry/spread-bot/internal/di"
	"github.com/arbsentry/spread-bot/internal/monolith"
)

// defaultUserID is the profile seeded from config when no user storage
// backend is attached.
const defaultUserID domain.UserID = 1

// Module wires the arbitrage context into the monolith.
type Module struct{}

func (Module) RegisterServices(m monolith.Monolith, c di.Container) error {
	cfg := m.Config()

	di.RegisterToken(c, arbitragedi.ProfileStoreToken, func(di.ServiceRegistry) *store.MemoryProfiles {
		return store.NewMemoryProfiles()
	})

	di.RegisterToken(c, arbitragedi.ScannerToken, func(sr di.ServiceRegistry) *app.Scanner {
		return app.NewScanner(
			cfg.Scan,
			cfg.Coins.Catalog,
			di.GetToken(sr, arbitragedi.ProfileStoreToken),
			di.GetToken(sr, pricingdi.AggregatorToken),
			app.NewProfitCalculator(),
			app.NewThrottle(cfg.Scan.AlertCooldown),
			newAlertSink(cfg.Scan.AlertSink, m.Logger()),
			m.Logger(),
		)
	})
	return nil
}

// newAlertSink picks the delivery backend named by scan.alert_sink.
// Config validation has already rejected unknown names.
func newAlertSink(name string, log *slog.Logger) app.AlertSink {
	if name == "slog" {
		return sink.NewSlog(log)
	}
	return sink.NewConsole(os.Stdout)
}

func (Module) Startup(_ context.Context, m monolith.Monolith) error {
	cfg := m.Config()
	profiles := di.GetToken(m.Services(), arbitragedi.ProfileStoreToken)

	profiles.Upsert(domain.Profile{
		ID:                defaultUserID,
		TrackAllCoins:     true,
		TrackAllExchanges: true,
		MinSpreadPct:      decimal.NewFromFloat(cfg.Profile.MinSpreadPct),
		MinProfitUSD:      decimal.NewFromFloat(cfg.Profile.MinProfitUSD),
		PositionSizeUSD:   decimal.NewFromFloat(cfg.Profile.PositionSizeUSD),
		Leverage:          decimal.NewFromFloat(cfg.Profile.Leverage),
		ScanActive:        true,
	})

	m.Logger().Info("arbitrage module ready",
		"min_spread_pct", cfg.Profile.MinSpreadPct,
		"min_profit_usd", cfg.Profile.MinProfitUSD,
		"alert_cooldown", cfg.Scan.AlertCooldown,
	)
	return nil
}
