// Package app holds the arbitrage context's application services.
package app

import (
	"github.com/shopspring/decimal"

	"github.com/arbsentry/spread-bot/business/arbitrage/domain"
	pricing "github.com/arbsentry/spread-bot/business/pricing/domain"
)

var (
	defaultPositionSizeUSD = decimal.NewFromInt(100)
	defaultLeverage        = decimal.NewFromInt(1)
)

// ProfitCalculator prices opportunities against a user's position
// settings, falling back to conservative defaults when unset.
type ProfitCalculator struct{}

func NewProfitCalculator() *ProfitCalculator {
	return &ProfitCalculator{}
}

// Estimate computes both execution paths for an opportunity under the
// given profile's position size and leverage.
func (c *ProfitCalculator) Estimate(opp domain.Opportunity, buy, sell pricing.ExchangeProfile, profile domain.Profile) domain.ProfitEstimate {
	size := profile.PositionSizeUSD
	if !size.IsPositive() {
		size = defaultPositionSizeUSD
	}
	leverage := profile.Leverage
	if !leverage.IsPositive() {
		leverage = defaultLeverage
	}
	return domain.EstimateProfit(opp, buy, sell, size, leverage)
}
