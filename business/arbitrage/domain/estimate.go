package domain

import (
	"github.com/shopspring/decimal"

	pricing "github.com/arbsentry/spread-bot/business/pricing/domain"
)

var two = decimal.NewFromInt(2)

// ProfitEstimate prices an opportunity under two execution styles. The
// market path crosses the spread on both legs and pays taker fees; the
// limit path rests orders on both legs and pays maker fees. Fees cover
// opening and closing both positions, so the per-leg rate is doubled.
// Exit legs are assumed to fill at entry prices; funding is ignored.
type ProfitEstimate struct {
	PositionSizeUSD decimal.Decimal
	Leverage        decimal.Decimal
	NominalUSD      decimal.Decimal

	MarketLongEntry  decimal.Decimal
	MarketShortEntry decimal.Decimal
	MarketProfitUSD  decimal.Decimal
	MarketFeesUSD    decimal.Decimal

	LimitLongEntry  decimal.Decimal
	LimitShortEntry decimal.Decimal
	LimitProfitUSD  decimal.Decimal
	LimitFeesUSD    decimal.Decimal
}

// BestProfitUSD returns the better of the two net outcomes.
func (e ProfitEstimate) BestProfitUSD() decimal.Decimal {
	if e.LimitProfitUSD.GreaterThan(e.MarketProfitUSD) {
		return e.LimitProfitUSD
	}
	return e.MarketProfitUSD
}

// EstimateProfit computes both execution paths for an opportunity given
// the user's position size and leverage. The long leg opens on the buy
// venue, the short leg on the sell venue.
func EstimateProfit(opp Opportunity, buy, sell pricing.ExchangeProfile, positionSizeUSD, leverage decimal.Decimal) ProfitEstimate {
	nominal := positionSizeUSD.Mul(leverage)

	est := ProfitEstimate{
		PositionSizeUSD: positionSizeUSD,
		Leverage:        leverage,
		NominalUSD:      nominal,

		MarketLongEntry:  opp.BuyQuote.Ask,
		MarketShortEntry: opp.SellQuote.Bid,
		LimitLongEntry:   opp.BuyQuote.Bid,
		LimitShortEntry:  opp.SellQuote.Ask,
	}

	est.MarketProfitUSD, est.MarketFeesUSD = legProfit(
		est.MarketLongEntry, est.MarketShortEntry, nominal,
		buy.TakerFeePct, sell.TakerFeePct,
	)
	est.LimitProfitUSD, est.LimitFeesUSD = legProfit(
		est.LimitLongEntry, est.LimitShortEntry, nominal,
		buy.MakerFeePct, sell.MakerFeePct,
	)
	return est
}

func legProfit(longEntry, shortEntry, nominal, feeBuyPct, feeSellPct decimal.Decimal) (net, fees decimal.Decimal) {
	if !longEntry.IsPositive() {
		return decimal.Zero, decimal.Zero
	}

	gross := shortEntry.Sub(longEntry).Div(longEntry).Mul(nominal)
	fees = nominal.Mul(feeBuyPct.Add(feeSellPct)).Div(hundred).Mul(two)
	return gross.Sub(fees), fees
}
