// Package di exposes the pricing context's service tokens.
package di

import (
	"github.com/arbsentry/spread-bot/business/pricing/app"
	"github.com/arbsentry/spread-bot/internal/di"
)

// AggregatorToken resolves the shared quote aggregator.
var AggregatorToken = di.NewToken[*app.Aggregator]("pricing.aggregator")
