// Package pricing is the bounded context that turns venue APIs into quotes.
package pricing

import (
	"context"

	"github.com/arbsentry/spread-bot/business/pricing/app"
	pricingdi "github.com/arbsentry/spread-bot/business/pricing/di"
	"github.com/arbsentry/spread-bot/business/pricing/infra/exchange"
	"github.com/arbsentry/spread-bot/internal/di"
	"github.com/arbsentry/spread-bot/internal/monolith"
)

// Module wires the pricing context into the monolith.
type Module struct{}

func (Module) RegisterServices(m monolith.Monolith, c di.Container) error {
	adapters, err := exchange.BuildAdapters(m.Config(), m.Logger())
	if err != nil {
		return err
	}

	di.RegisterToken(c, pricingdi.AggregatorToken, func(di.ServiceRegistry) *app.Aggregator {
		return app.NewAggregator(adapters, m.Config().Scan.FetchTimeout, m.Logger())
	})
	return nil
}

func (Module) Startup(_ context.Context, m monolith.Monolith) error {
	agg := di.GetToken(m.Services(), pricingdi.AggregatorToken)
	m.Logger().Info("pricing module ready", "venues", len(agg.Adapters()))
	return nil
}
