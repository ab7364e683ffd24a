package app

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/arbsentry/spread-bot/business/arbitrage/domain"
	pricingapp "github.com/arbsentry/spread-bot/business/pricing/app"
	pricing "github.com/arbsentry/spread-bot/business/pricing/domain"
	"github.com/arbsentry/spread-bot/internal/config"
)

// Scanner drives the continuous scan loop: for every active profile and
// every selected coin it gathers quotes, evaluates the spread, prices
// the opportunity, and pushes alerts through the throttle to the sink.
// One coin failing never stops the iteration; one iteration failing
// backs the loop off and tries again.
type Scanner struct {
	cfg      config.ScanConfig
	catalog  []string
	profiles ProfileStore
	agg      *pricingapp.Aggregator
	calc     *ProfitCalculator
	throttle *Throttle
	sink     AlertSink
	log      *slog.Logger
	tracer   trace.Tracer

	iterations metric.Int64Counter
	alerts     metric.Int64Counter
}

func NewScanner(
	cfg config.ScanConfig,
	catalog []string,
	profiles ProfileStore,
	agg *pricingapp.Aggregator,
	calc *ProfitCalculator,
	throttle *Throttle,
	sink AlertSink,
	log *slog.Logger,
) *Scanner {
	meter := otel.GetMeterProvider().Meter("arbitrage.scanner")
	iterations, err := meter.Int64Counter("scan_iterations_total",
		metric.WithDescription("Completed scan iterations by outcome"))
	if err != nil {
		log.Warn("failed to create iteration counter", "error", err)
	}
	alerts, err := meter.Int64Counter("alerts_sent_total",
		metric.WithDescription("Alerts delivered to users"))
	if err != nil {
		log.Warn("failed to create alert counter", "error", err)
	}

	return &Scanner{
		cfg:        cfg,
		catalog:    catalog,
		profiles:   profiles,
		agg:        agg,
		calc:       calc,
		throttle:   throttle,
		sink:       sink,
		log:        log,
		tracer:     otel.Tracer("arbitrage.scanner"),
		iterations: iterations,
		alerts:     alerts,
	}
}

// Run executes scan iterations until the context is cancelled. A failed
// iteration is logged and retried after the error backoff; a successful
// one is followed by the regular tick pause.
func (s *Scanner) Run(ctx context.Context) error {
	s.log.Info("scan loop started",
		"tick", s.cfg.TickInterval,
		"backoff", s.cfg.ErrorBackoff,
		"coins", len(s.catalog),
	)

	for {
		err := s.runIteration(ctx)
		if ctx.Err() != nil {
			s.log.Info("scan loop stopped")
			return ctx.Err()
		}

		pause := s.cfg.TickInterval
		if err != nil {
			s.log.Error("scan iteration failed", "error", err)
			s.countIteration(ctx, "error")
			pause = s.cfg.ErrorBackoff
		} else {
			s.countIteration(ctx, "ok")
		}

		select {
		case <-time.After(pause):
		case <-ctx.Done():
			s.log.Info("scan loop stopped")
			return ctx.Err()
		}
	}
}

func (s *Scanner) runIteration(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "scanner.iteration")
	defer span.End()

	profiles, err := s.profiles.Snapshot(ctx)
	if err != nil {
		return err
	}

	allVenues := s.enabledVenues()
	for _, profile := range profiles {
		if !profile.WantsAlerts() {
			continue
		}
		s.scanUser(ctx, profile, allVenues)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

func (s *Scanner) scanUser(ctx context.Context, profile domain.Profile, allVenues []pricing.ExchangeID) {
	venues := profile.VenuesToScan(allVenues)
	if len(venues) < 2 {
		s.log.Debug("profile selects fewer than two venues, skipping",
			"user", profile.ID, "venues", len(venues))
		return
	}

	for _, coin := range profile.CoinsToScan(s.catalog) {
		// Settings can change mid-iteration; honor a stop immediately
		// rather than finishing the pass.
		current, ok, err := s.profiles.Get(ctx, profile.ID)
		if err != nil {
			s.log.Warn("profile re-read failed", "user", profile.ID, "error", err)
			return
		}
		if !ok || !current.ScanActive {
			return
		}

		s.scanCoin(ctx, current, coin, venues)
		if ctx.Err() != nil {
			return
		}
	}
}

func (s *Scanner) scanCoin(ctx context.Context, profile domain.Profile, coin string, venues []pricing.ExchangeID) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("coin scan panicked",
				"user", profile.ID,
				"coin", coin,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	quotes := s.agg.Collect(ctx, coin, venues)
	if len(quotes) < 2 {
		return
	}

	opp, ok := domain.FindOpportunity(coin, quotes, time.Now())
	if !ok {
		return
	}

	buyProfile := s.agg.Adapters()[opp.BuyVenue].Profile()
	sellProfile := s.agg.Adapters()[opp.SellVenue].Profile()
	est := s.calc.Estimate(opp, buyProfile, sellProfile, profile)

	// Both thresholds must clear.
	if opp.SpreadPct.LessThan(profile.MinSpreadPct) {
		return
	}
	if est.BestProfitUSD().LessThan(profile.MinProfitUSD) {
		return
	}
	if !profile.WantsAlerts() {
		return
	}
	if !s.throttle.ShouldNotify(profile.ID, coin) {
		return
	}

	alert := domain.NewAlert(profile.ID, opp, est, buyProfile, sellProfile)
	if err := s.sink.Deliver(ctx, alert); err != nil {
		s.log.Warn("alert delivery failed",
			"user", profile.ID, "coin", coin, "error", err)
		return
	}

	s.throttle.MarkNotified(profile.ID, coin)
	s.countAlert(ctx, coin)
	s.log.Info("alert sent",
		"user", profile.ID,
		"coin", coin,
		"spread_pct", opp.SpreadPct,
		"best_profit_usd", est.BestProfitUSD(),
		"buy", opp.BuyVenue,
		"sell", opp.SellVenue,
	)
}

func (s *Scanner) enabledVenues() []pricing.ExchangeID {
	adapters := s.agg.Adapters()
	venues := make([]pricing.ExchangeID, 0, len(adapters))
	for venue := range adapters {
		venues = append(venues, venue)
	}
	sort.Slice(venues, func(i, j int) bool { return venues[i] < venues[j] })
	return venues
}

func (s *Scanner) countIteration(ctx context.Context, outcome string) {
	if s.iterations == nil {
		return
	}
	s.iterations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (s *Scanner) countAlert(ctx context.Context, coin string) {
	if s.alerts == nil {
		return
	}
	s.alerts.Add(ctx, 1, metric.WithAttributes(attribute.String("coin", coin)))
}
