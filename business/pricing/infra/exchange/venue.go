// Package exchange implements the REST adapters for the supported venues.
package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"github.com/arbsentry/spread-bot/business/pricing/domain"
	"github.com/arbsentry/spread-bot/internal/apperror"
	"github.com/arbsentry/spread-bot/internal/config"
	"github.com/arbsentry/spread-bot/internal/httpclient"
	"github.com/arbsentry/spread-bot/internal/ratelimit"
)

const (
	rateLimitRetryBackoff = time.Second

	breakerOpenTimeout      = 30 * time.Second
	breakerFailureThreshold = 5
)

// maxPriceJumpFactor bounds how far a price may move between two
// consecutive observations before the quote is treated as venue garbage.
var maxPriceJumpFactor = decimal.NewFromInt(1000)

// fetchFunc performs one venue request and parses the quote.
type fetchFunc func(ctx context.Context, symbol string) (domain.Quote, error)

// restVenue carries the plumbing shared by every REST adapter: client,
// rate limiter, circuit breaker, optional quote cache, and the price
// sanity bound against the previous observation.
type restVenue struct {
	profile domain.ExchangeProfile
	client  httpclient.Client
	limiter *ratelimit.Limiter
	breaker *gobreaker.CircuitBreaker[domain.Quote]
	cache   *quoteCache
	log     *slog.Logger

	mu       sync.Mutex
	lastSeen map[string]decimal.Decimal
}

func newRESTVenue(id domain.ExchangeID, cfg config.VenueConfig, log *slog.Logger) (*restVenue, error) {
	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName(string(id)),
		httpclient.WithBaseURL(cfg.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("building %s http client: %w", id, err)
	}

	limiter := ratelimit.Unlimited()
	if cfg.RequestsPerMinute > 0 {
		limiter = ratelimit.New(cfg.RequestsPerMinute)
	}

	var cache *quoteCache
	if cfg.QuoteCacheTTL > 0 {
		cache = newQuoteCache(cfg.QuoteCacheTTL)
	}

	breaker := gobreaker.NewCircuitBreaker[domain.Quote](gobreaker.Settings{
		Name:    string(id),
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// A delisted symbol is an answer, not a venue outage.
			return err == nil || apperror.IsCode(err, apperror.CodeSymbolNotListed)
		},
	})

	kind := domain.KindCEX
	if cfg.Kind == "dex" {
		kind = domain.KindDEX
	}

	return &restVenue{
		profile: domain.ExchangeProfile{
			ID:              id,
			Name:            cfg.Name,
			Kind:            kind,
			MakerFeePct:     cfg.MakerFeePctDecimal(),
			TakerFeePct:     cfg.TakerFeePctDecimal(),
			DealURLTemplate: cfg.DealURLTemplate,
		},
		client:   client,
		limiter:  limiter,
		breaker:  breaker,
		cache:    cache,
		log:      log.With("venue", id),
		lastSeen: make(map[string]decimal.Decimal),
	}, nil
}

func (v *restVenue) ID() domain.ExchangeID           { return v.profile.ID }
func (v *restVenue) Profile() domain.ExchangeProfile { return v.profile }

// fetch runs the venue request through cache, rate limiter, circuit
// breaker, and a single bounded retry on throttling, then validates the
// price against the previous observation.
func (v *restVenue) fetch(ctx context.Context, symbol string, call fetchFunc) (domain.Quote, error) {
	if v.cache != nil {
		if quote, ok := v.cache.get(symbol); ok {
			return quote, nil
		}
	}

	if err := v.limiter.Wait(ctx); err != nil {
		return domain.Quote{}, apperror.Wrap(err, apperror.CodeFetchTimeout,
			fmt.Sprintf("%s rate limit wait", v.profile.ID))
	}

	quote, err := v.breaker.Execute(func() (domain.Quote, error) {
		return call(ctx, symbol)
	})
	if apperror.IsCode(err, apperror.CodeRateLimitExceeded) {
		select {
		case <-time.After(rateLimitRetryBackoff):
		case <-ctx.Done():
			return domain.Quote{}, apperror.Wrap(ctx.Err(), apperror.CodeFetchTimeout, string(v.profile.ID))
		}
		v.log.Debug("retrying after throttle", "symbol", symbol)
		quote, err = v.breaker.Execute(func() (domain.Quote, error) {
			return call(ctx, symbol)
		})
	}
	if err != nil {
		return domain.Quote{}, v.classify(err, symbol)
	}

	if err := v.checkPriceBounds(symbol, quote.Price); err != nil {
		return domain.Quote{}, err
	}

	if v.cache != nil {
		v.cache.put(symbol, quote)
	}
	return quote, nil
}

// checkPriceBounds rejects a quote whose price moved more than three
// orders of magnitude against the last accepted observation.
func (v *restVenue) checkPriceBounds(symbol string, price decimal.Decimal) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	last, seen := v.lastSeen[symbol]
	if seen && last.IsPositive() {
		upper := last.Mul(maxPriceJumpFactor)
		lower := last.Div(maxPriceJumpFactor)
		if price.GreaterThan(upper) || price.LessThan(lower) {
			return apperror.New(apperror.CodePriceOutOfBounds,
				apperror.WithContext(fmt.Sprintf("%s %s: %s vs last %s", v.profile.ID, symbol, price, last)))
		}
	}
	v.lastSeen[symbol] = price
	return nil
}

func (v *restVenue) classify(err error, symbol string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperror.Wrap(err, apperror.CodeCircuitOpen, string(v.profile.ID))
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperror.Wrap(err, apperror.CodeFetchTimeout,
			fmt.Sprintf("%s %s", v.profile.ID, symbol))
	}
	return apperror.Wrap(err, apperror.CodeTransportError,
		fmt.Sprintf("%s %s", v.profile.ID, symbol))
}

// statusError maps venue HTTP status codes onto the fetch error taxonomy.
func statusError(resp *httpclient.Response, venue domain.ExchangeID, symbol string) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperror.New(apperror.CodeSymbolNotListed,
			apperror.WithContext(fmt.Sprintf("%s %s", venue, symbol)))
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperror.New(apperror.CodeRateLimitExceeded,
			apperror.WithContext(string(venue)))
	case resp.IsError():
		return apperror.New(apperror.CodeTransportError,
			apperror.WithContext(fmt.Sprintf("%s %s: status %d", venue, symbol, resp.StatusCode)))
	}
	return nil
}

// decodeResult parses a non-error venue body. A body that cannot be
// decoded is a broken venue schema, not a missing symbol, and must not
// end up classified as SYMBOL_NOT_LISTED by a zero-valued envelope.
func decodeResult(resp *httpclient.Response, out any, venue domain.ExchangeID, symbol string) error {
	if len(resp.Body()) == 0 {
		return apperror.New(apperror.CodeMalformedResponse,
			apperror.WithContext(fmt.Sprintf("%s %s: empty body", venue, symbol)))
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return apperror.New(apperror.CodeMalformedResponse,
			apperror.WithContext(fmt.Sprintf("%s %s: undecodable body", venue, symbol)),
			apperror.WithCause(err))
	}
	return nil
}

// parsePrice converts a venue-reported price string to decimal.
func parsePrice(raw string, venue domain.ExchangeID, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.Wrap(err, apperror.CodeMalformedResponse,
			fmt.Sprintf("%s %s=%q", venue, field, raw))
	}
	return d, nil
}
