package quote

import (
	"sync"
	"time"

	"github.com/bobmcallan/mystock/internal/models"
)

// cacheEntry holds one quote with the instant it was stored. Entries are
// never evicted on expiry; a stale entry stays available as a fallback until
// a fresh fetch overwrites it.
type cacheEntry struct {
	quote    *models.Quote
	storedAt time.Time
}

// cache is a process-wide TTL quote cache keyed by normalized symbol.
type cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newCache(ttl time.Duration) *cache {
	return &cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// get returns the cached quote for symbol and whether it is still within
// TTL. The quote is returned even when stale so callers can degrade to it.
func (c *cache) get(symbol string) (*models.Quote, bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[symbol]
	if !ok {
		return nil, false, false
	}
	fresh := c.now().Sub(entry.storedAt) < c.ttl
	return entry.quote, fresh, true
}

func (c *cache) put(symbol string, quote *models.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[symbol] = cacheEntry{quote: quote, storedAt: c.now()}
}

func (c *cache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
