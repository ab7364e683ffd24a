// Package app holds the pricing context's application services.
package app

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/arbsentry/spread-bot/business/pricing/domain"
	"github.com/arbsentry/spread-bot/internal/apperror"
)

// Aggregator fans a quote request out to a set of exchange adapters
// concurrently and collects whatever succeeds. A venue failing, timing
// out, or panicking never blocks the others; its quote is simply absent
// from the result.
type Aggregator struct {
	adapters       map[domain.ExchangeID]ExchangeAdapter
	perCallTimeout time.Duration
	log            *slog.Logger
	tracer         trace.Tracer
	fetches        metric.Int64Counter
}

// NewAggregator builds an aggregator over the given adapters.
func NewAggregator(adapters []ExchangeAdapter, perCallTimeout time.Duration, log *slog.Logger) *Aggregator {
	byID := make(map[domain.ExchangeID]ExchangeAdapter, len(adapters))
	for _, a := range adapters {
		byID[a.ID()] = a
	}

	meter := otel.GetMeterProvider().Meter("pricing.aggregator")
	fetches, err := meter.Int64Counter("quote_fetches_total",
		metric.WithDescription("Quote fetch attempts by venue and outcome"))
	if err != nil {
		log.Warn("failed to create quote fetch counter", "error", err)
	}

	return &Aggregator{
		adapters:       byID,
		perCallTimeout: perCallTimeout,
		log:            log,
		tracer:         otel.Tracer("pricing.aggregator"),
		fetches:        fetches,
	}
}

// Adapters lists the registered adapters keyed by venue.
func (a *Aggregator) Adapters() map[domain.ExchangeID]ExchangeAdapter {
	return a.adapters
}

// Collect fetches the symbol's quote from every requested venue in
// parallel and returns the successful ones. Venues not registered with
// the aggregator are skipped. The returned map holds only valid quotes;
// callers decide whether the count is sufficient.
func (a *Aggregator) Collect(ctx context.Context, symbol string, venues []domain.ExchangeID) map[domain.ExchangeID]domain.Quote {
	ctx, span := a.tracer.Start(ctx, "aggregator.collect",
		trace.WithAttributes(
			attribute.String("symbol", symbol),
			attribute.Int("venues", len(venues)),
		))
	defer span.End()

	type result struct {
		quote domain.Quote
		err   error
		venue domain.ExchangeID
	}

	results := make(chan result, len(venues))
	var wg sync.WaitGroup

	for _, venue := range venues {
		adapter, ok := a.adapters[venue]
		if !ok {
			continue
		}

		wg.Add(1)
		go func(venue domain.ExchangeID, adapter ExchangeAdapter) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					a.log.Error("exchange adapter panicked",
						"venue", venue,
						"symbol", symbol,
						"panic", r,
						"stack", string(debug.Stack()),
					)
					results <- result{venue: venue, err: apperror.New(apperror.CodeInternalError)}
				}
			}()

			callCtx, cancel := context.WithTimeout(ctx, a.perCallTimeout)
			defer cancel()

			quote, err := adapter.FetchQuote(callCtx, symbol)
			results <- result{quote: quote, err: err, venue: venue}
		}(venue, adapter)
	}

	wg.Wait()
	close(results)

	quotes := make(map[domain.ExchangeID]domain.Quote)
	for r := range results {
		if r.err != nil {
			a.recordFetch(ctx, r.venue, "error")
			a.logFetchFailure(r.venue, symbol, r.err)
			continue
		}
		a.recordFetch(ctx, r.venue, "ok")
		quotes[r.venue] = r.quote
	}

	span.SetAttributes(attribute.Int("quotes", len(quotes)))
	return quotes
}

func (a *Aggregator) recordFetch(ctx context.Context, venue domain.ExchangeID, outcome string) {
	if a.fetches == nil {
		return
	}
	a.fetches.Add(ctx, 1, metric.WithAttributes(
		attribute.String("venue", string(venue)),
		attribute.String("outcome", outcome),
	))
}

func (a *Aggregator) logFetchFailure(venue domain.ExchangeID, symbol string, err error) {
	// Delisted symbols are routine across a broad catalog; keep them out
	// of the warning stream.
	if apperror.IsCode(err, apperror.CodeSymbolNotListed) {
		a.log.Debug("symbol not listed on venue", "venue", venue, "symbol", symbol)
		return
	}
	a.log.Warn("quote fetch failed",
		"venue", venue,
		"symbol", symbol,
		"code", apperror.GetCode(err),
		"error", err,
	)
}
