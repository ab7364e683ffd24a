// Package domain contains the arbitrage context's core types and math.
package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	pricing "github.com/arbsentry/spread-bot/business/pricing/domain"
)

var hundred = decimal.NewFromInt(100)

// Opportunity is a cross-venue price divergence on one coin: buy where
// it is cheapest, sell where it is dearest.
type Opportunity struct {
	Coin      string
	BuyVenue  pricing.ExchangeID
	SellVenue pricing.ExchangeID
	BuyQuote  pricing.Quote
	SellQuote pricing.Quote
	SpreadPct decimal.Decimal
	Quotes    map[pricing.ExchangeID]pricing.Quote
	FoundAt   time.Time
}

// FindOpportunity picks the cheapest and dearest venues from a quote set
// and computes the spread between them. It reports false when fewer than
// two quotes are available. Ties resolve to the lexicographically first
// venue so repeated evaluations of the same snapshot agree.
func FindOpportunity(coin string, quotes map[pricing.ExchangeID]pricing.Quote, now time.Time) (Opportunity, bool) {
	if len(quotes) < 2 {
		return Opportunity{}, false
	}

	venues := make([]pricing.ExchangeID, 0, len(quotes))
	for venue := range quotes {
		venues = append(venues, venue)
	}
	sort.Slice(venues, func(i, j int) bool { return venues[i] < venues[j] })

	// Min keeps the first venue on ties, max keeps the last, so a flat
	// price set still yields two distinct venues.
	buy, sell := venues[0], venues[0]
	for _, venue := range venues[1:] {
		price := quotes[venue].Price
		if price.LessThan(quotes[buy].Price) {
			buy = venue
		}
		if price.GreaterThanOrEqual(quotes[sell].Price) {
			sell = venue
		}
	}

	minPrice := quotes[buy].Price
	if !minPrice.IsPositive() {
		return Opportunity{}, false
	}
	spreadPct := quotes[sell].Price.Sub(minPrice).Div(minPrice).Mul(hundred)

	return Opportunity{
		Coin:      coin,
		BuyVenue:  buy,
		SellVenue: sell,
		BuyQuote:  quotes[buy],
		SellQuote: quotes[sell],
		SpreadPct: spreadPct,
		Quotes:    quotes,
		FoundAt:   now,
	}, true
}
