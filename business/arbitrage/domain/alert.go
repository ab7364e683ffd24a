package domain

import (
	"time"

	"github.com/shopspring/decimal"

	pricing "github.com/arbsentry/spread-bot/business/pricing/domain"
)

// AlertLeg describes one side of the suggested trade.
type AlertLeg struct {
	Venue       pricing.ExchangeID
	VenueName   string
	DealURL     string
	MarketEntry decimal.Decimal
	LimitEntry  decimal.Decimal
}

// Alert is a fully-priced opportunity ready for delivery to one user.
type Alert struct {
	UserID      UserID
	Coin        string
	SpreadPct   decimal.Decimal
	Long        AlertLeg // buy venue
	Short       AlertLeg // sell venue
	Estimate    ProfitEstimate
	VenuePrices map[pricing.ExchangeID]decimal.Decimal
	QuoteCount  int
	CreatedAt   time.Time
}

// NewAlert assembles an alert from an opportunity and its estimate.
func NewAlert(userID UserID, opp Opportunity, est ProfitEstimate, buy, sell pricing.ExchangeProfile) Alert {
	prices := make(map[pricing.ExchangeID]decimal.Decimal, len(opp.Quotes))
	for venue, quote := range opp.Quotes {
		prices[venue] = quote.Price
	}

	return Alert{
		UserID:    userID,
		Coin:      opp.Coin,
		SpreadPct: opp.SpreadPct,
		Long: AlertLeg{
			Venue:       buy.ID,
			VenueName:   buy.Name,
			DealURL:     buy.DealURL(opp.Coin),
			MarketEntry: est.MarketLongEntry,
			LimitEntry:  est.LimitLongEntry,
		},
		Short: AlertLeg{
			Venue:       sell.ID,
			VenueName:   sell.Name,
			DealURL:     sell.DealURL(opp.Coin),
			MarketEntry: est.MarketShortEntry,
			LimitEntry:  est.LimitShortEntry,
		},
		Estimate:    est,
		VenuePrices: prices,
		QuoteCount:  len(opp.Quotes),
		CreatedAt:   opp.FoundAt,
	}
}
