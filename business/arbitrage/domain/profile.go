package domain

import (
	"github.com/shopspring/decimal"

	pricing "github.com/arbsentry/spread-bot/business/pricing/domain"
)

// UserID identifies a subscriber.
type UserID int64

// Profile holds one user's scan settings. Thresholds are conjunctive:
// an alert fires only when both spread and profit clear their minimums.
type Profile struct {
	ID UserID

	Coins             []string
	TrackAllCoins     bool
	Exchanges         []pricing.ExchangeID
	TrackAllExchanges bool

	MinSpreadPct    decimal.Decimal
	MinProfitUSD    decimal.Decimal
	PositionSizeUSD decimal.Decimal
	Leverage        decimal.Decimal

	ScanActive          bool
	NotificationsPaused bool
}

// WantsAlerts reports whether scanning results should reach the user.
func (p Profile) WantsAlerts() bool {
	return p.ScanActive && !p.NotificationsPaused
}

// CoinsToScan resolves the user's coin selection against the catalog.
func (p Profile) CoinsToScan(catalog []string) []string {
	if p.TrackAllCoins {
		return catalog
	}
	return p.Coins
}

// VenuesToScan resolves the user's venue selection against all enabled venues.
func (p Profile) VenuesToScan(all []pricing.ExchangeID) []pricing.ExchangeID {
	if p.TrackAllExchanges {
		return all
	}
	return p.Exchanges
}
