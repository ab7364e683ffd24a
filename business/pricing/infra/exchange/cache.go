package exchange

import (
	"sync"
	"time"

	"github.com/arbsentry/spread-bot/business/pricing/domain"
)

// quoteCache holds recent quotes per symbol so venues with tight request
// budgets are not hit on every scan tick.
type quoteCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	quote    domain.Quote
	storedAt time.Time
}

func newQuoteCache(ttl time.Duration) *quoteCache {
	return &quoteCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *quoteCache) get(symbol string) (domain.Quote, bool) {
	c.mu.RLock()
	entry, ok := c.entries[symbol]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return domain.Quote{}, false
	}
	return entry.quote, true
}

func (c *quoteCache) put(symbol string, quote domain.Quote) {
	c.mu.Lock()
	c.entries[symbol] = cacheEntry{quote: quote, storedAt: c.now()}
	c.mu.Unlock()
}
