package app

import (
	"sync"
	"time"

	"github.com/arbsentry/spread-bot/business/arbitrage/domain"
)

type throttleKey struct {
	user domain.UserID
	coin string
}

// Throttle enforces a minimum gap between alerts per (user, coin). It
// only tracks delivery times; callers mark a pair after a successful
// send so failed deliveries do not consume the cooldown window.
type Throttle struct {
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastSent map[throttleKey]time.Time
}

func NewThrottle(cooldown time.Duration) *Throttle {
	return &Throttle{
		cooldown: cooldown,
		now:      time.Now,
		lastSent: make(map[throttleKey]time.Time),
	}
}

// ShouldNotify reports whether the pair is outside its cooldown window.
// A pair that has never been notified is always allowed.
func (t *Throttle) ShouldNotify(user domain.UserID, coin string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.lastSent[throttleKey{user: user, coin: coin}]
	if !ok {
		return true
	}
	return t.now().Sub(last) >= t.cooldown
}

// MarkNotified records a successful delivery for the pair.
func (t *Throttle) MarkNotified(user domain.UserID, coin string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSent[throttleKey{user: user, coin: coin}] = t.now()
}
