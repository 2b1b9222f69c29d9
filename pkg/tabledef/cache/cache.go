// Package cache memoizes workbook bundles per (file content, parse
// options) key with TTL, entry-count and byte-budget eviction.
package cache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/tiendc/go-deepcopy"

	"github.com/tabledef/tabledef-go/pkg/tabledef/models"
	"github.com/tabledef/tabledef-go/pkg/tabledef/parser"
)

// Default budgets, sized for the desktop profile; the server profile
// overrides them through configuration.
const (
	DefaultTTL            = 10 * time.Minute
	DefaultMaxEntries     = 16
	DefaultMaxTotalBytes  = 256 << 20
	DefaultMaxBundleBytes = 64 << 20
)

// Config holds the cache budgets.
type Config struct {
	// TTL is the entry lifetime from insertion.
	TTL time.Duration
	// MaxEntries caps the number of live entries.
	MaxEntries int
	// MaxTotalBytes caps the estimated footprint of all entries.
	MaxTotalBytes int64
	// MaxBundleBytes caps one entry; larger bundles are never cached.
	MaxBundleBytes int64
}

// DefaultConfig returns the desktop-profile budgets.
func DefaultConfig() Config {
	return Config{
		TTL:            DefaultTTL,
		MaxEntries:     DefaultMaxEntries,
		MaxTotalBytes:  DefaultMaxTotalBytes,
		MaxBundleBytes: DefaultMaxBundleBytes,
	}
}

func (c Config) normalized() Config {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = DefaultMaxEntries
	}
	if c.MaxTotalBytes <= 0 {
		c.MaxTotalBytes = DefaultMaxTotalBytes
	}
	if c.MaxBundleBytes <= 0 {
		c.MaxBundleBytes = DefaultMaxBundleBytes
	}
	return c
}

// entry is owned exclusively by the cache; bundles are deep-copied on
// both insert and hit so no caller ever aliases cache-owned state.
type entry struct {
	bundle       *models.WorkbookBundle
	size         int64
	expiresAt    time.Time
	lastAccessAt time.Time
}

// Cache is the process-wide bundle cache. Safe for concurrent use.
type Cache struct {
	cfg Config

	mu         sync.Mutex
	lru        *simplelru.LRU[string, *entry]
	totalBytes int64

	// now is swapped in tests to drive TTL expiry.
	now func() time.Time
}

// New builds a cache with the given budgets.
func New(cfg Config) *Cache {
	cfg = cfg.normalized()
	c := &Cache{cfg: cfg, now: time.Now}
	// The eviction callback keeps the byte account in step with the LRU
	// regardless of which path removed the entry.
	lru, err := simplelru.NewLRU(cfg.MaxEntries, func(_ string, e *entry) {
		c.totalBytes -= e.size
	})
	if err != nil {
		// Only reachable with a non-positive size, which normalized()
		// rules out.
		panic(err)
	}
	c.lru = lru
	return c
}

// Key combines a content hash with the canonical form of the parse
// options. Semantically identical requests always collide.
func Key(contentHash string, opts parser.Options) string {
	return contentHash + "#" + parser.CanonicalKey(opts)
}

// Get returns a deep copy of the cached bundle, flagged CacheHit, or
// (nil, false). Expired entries are purged before lookup, and a hit
// refreshes the entry's recency and last-access time.
func (c *Cache) Get(key string) (*models.WorkbookBundle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeExpiredLocked()

	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	e.lastAccessAt = c.now()

	var copied *models.WorkbookBundle
	if err := deepcopy.Copy(&copied, e.bundle); err != nil {
		slog.Warn("bundle cache copy failed", "error", err)
		c.lru.Remove(key)
		return nil, false
	}
	copied.Stats.CacheHit = true
	return copied, true
}

// Put stores a deep copy of the bundle under key. When the estimated
// footprint exceeds the per-bundle or pool-wide cap the bundle is not
// cached at all — the caller still has its result, it is just not
// memoized. Otherwise least-recently-accessed entries are evicted until
// both the entry-count and byte budgets hold. Returns whether the bundle
// was cached.
func (c *Cache) Put(key string, bundle *models.WorkbookBundle) bool {
	if bundle == nil {
		return false
	}

	size := EstimateSize(bundle)
	if size > c.cfg.MaxBundleBytes || size > c.cfg.MaxTotalBytes {
		slog.Debug("bundle too large to cache", "book", bundle.BookName, "estimated_bytes", size)
		return false
	}

	var copied *models.WorkbookBundle
	if err := deepcopy.Copy(&copied, bundle); err != nil {
		slog.Warn("bundle cache copy failed", "error", err)
		return false
	}
	copied.Stats.CacheHit = false

	c.mu.Lock()
	defer c.mu.Unlock()

	// Replacing an existing key must release its bytes first; Add would
	// otherwise double-count.
	c.lru.Remove(key)

	now := c.now()
	c.lru.Add(key, &entry{
		bundle:       copied,
		size:         size,
		expiresAt:    now.Add(c.cfg.TTL),
		lastAccessAt: now,
	})
	c.totalBytes += size

	for c.totalBytes > c.cfg.MaxTotalBytes && c.lru.Len() > 1 {
		c.lru.RemoveOldest()
	}
	return true
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeExpiredLocked()
	return c.lru.Len()
}

// Bytes returns the estimated footprint of all live entries.
func (c *Cache) Bytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeExpiredLocked()
	return c.totalBytes
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

func (c *Cache) purgeExpiredLocked() {
	now := c.now()
	for _, key := range c.lru.Keys() {
		e, ok := c.lru.Peek(key)
		if !ok {
			continue
		}
		if now.After(e.expiresAt) {
			c.lru.Remove(key)
		}
	}
}
