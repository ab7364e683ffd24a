package app

import (
	"context"

	"github.com/arbsentry/spread-bot/business/arbitrage/domain"
)

// ProfileStore provides access to subscriber scan settings. Settings can
// change while an iteration is in flight, so the scanner re-reads them
// between coins.
type ProfileStore interface {
	// Snapshot lists every profile known at the start of an iteration.
	Snapshot(ctx context.Context) ([]domain.Profile, error)
	// Get returns the current state of one profile.
	Get(ctx context.Context, id domain.UserID) (domain.Profile, bool, error)
}

// AlertSink delivers a priced opportunity to the user.
type AlertSink interface {
	Deliver(ctx context.Context, alert domain.Alert) error
}
