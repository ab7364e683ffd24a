package app

import (
	"context"

	"github.com/arbsentry/spread-bot/business/pricing/domain"
)

// ExchangeAdapter fetches a quote for one symbol from one venue.
// Implementations live in infra/exchange; FetchQuote must honor the
// context deadline and return an apperror-coded failure on any problem.
type ExchangeAdapter interface {
	ID() domain.ExchangeID
	Profile() domain.ExchangeProfile
	FetchQuote(ctx context.Context, symbol string) (domain.Quote, error)
}
