// Package domain contains the core domain types for the pricing context.
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ExchangeID uniquely identifies a venue (e.g. "bybit", "hyperliquid").
type ExchangeID string

// VenueKind distinguishes centralized from decentralized venues.
type VenueKind string

const (
	KindCEX VenueKind = "CEX"
	KindDEX VenueKind = "DEX"
)

// ExchangeProfile is a venue's static profile. Loaded once at startup,
// immutable for the process lifetime.
type ExchangeProfile struct {
	ID              ExchangeID
	Name            string
	Kind            VenueKind
	MakerFeePct     decimal.Decimal // percent of nominal, per leg
	TakerFeePct     decimal.Decimal // percent of nominal, per leg
	DealURLTemplate string          // {SYM} placeholder
}

// DealURL renders the venue's trade-page URL for a symbol.
func (p ExchangeProfile) DealURL(symbol string) string {
	return strings.ReplaceAll(p.DealURLTemplate, "{SYM}", symbol)
}
