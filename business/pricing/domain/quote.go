package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNonPositivePrice rejects quotes whose price is zero or negative.
// Such a quote is dropped at construction and never reaches evaluation.
var ErrNonPositivePrice = errors.New("quote price must be positive")

// syntheticBookEpsilon is the half-spread applied when a venue exposes no
// order book and bid/ask are synthesized from the last price. This is an
// approximation of market depth, not a real depth signal; replace with an
// order-book fetch per venue to close the gap.
var syntheticBookEpsilon = decimal.NewFromFloat(0.0001)

// Quote is a single exchange's view of one symbol at one instant.
// Quotes are created fresh each scan iteration and never mutated.
type Quote struct {
	Exchange  ExchangeID
	Symbol    string
	Price     decimal.Decimal // last/mark trade price
	Bid       decimal.Decimal // best bid, or synthesized
	Ask       decimal.Decimal // best ask, or synthesized
	FetchedAt time.Time
}

// NewQuote builds a quote from venue-reported book data. A non-positive
// price is a hard invariant violation; bid or ask missing (zero) degrades
// to a synthetic book around the price.
func NewQuote(exchange ExchangeID, symbol string, price, bid, ask decimal.Decimal, fetchedAt time.Time) (Quote, error) {
	if !price.IsPositive() {
		return Quote{}, ErrNonPositivePrice
	}
	if !bid.IsPositive() || !ask.IsPositive() {
		bid, ask = synthesizeBook(price)
	}

	return Quote{
		Exchange:  exchange,
		Symbol:    symbol,
		Price:     price,
		Bid:       bid,
		Ask:       ask,
		FetchedAt: fetchedAt,
	}, nil
}

// NewQuoteFromMid builds a quote for a venue that reports only a single
// mid/last price, synthesizing the bid/ask pair.
func NewQuoteFromMid(exchange ExchangeID, symbol string, mid decimal.Decimal, fetchedAt time.Time) (Quote, error) {
	return NewQuote(exchange, symbol, mid, decimal.Zero, decimal.Zero, fetchedAt)
}

func synthesizeBook(price decimal.Decimal) (bid, ask decimal.Decimal) {
	delta := price.Mul(syntheticBookEpsilon)
	return price.Sub(delta), price.Add(delta)
}
