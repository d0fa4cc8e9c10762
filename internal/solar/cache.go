package solar

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"bifacial-sweep/internal/model"
)

// CacheEntry is one cached solar series.
type CacheEntry struct {
	Samples   []model.TimeSample
	ExpiresAt time.Time
}

// SampleCache keeps solar series in memory so repeated sweeps of the same site
// and grid skip the position and clear-sky computation. Cached slices are
// shared and must be treated as read-only.
type SampleCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
}

var globalCache *SampleCache
var cacheOnce sync.Once

// NewSampleCache returns an empty cache with the given TTL.
func NewSampleCache(ttl time.Duration) *SampleCache {
	return &SampleCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
	}
}

// GetCache returns the process-wide cache when ENABLE_SOLAR_CACHE=true,
// nil otherwise. SOLAR_CACHE_TTL overrides the one hour default.
func GetCache() *SampleCache {
	if os.Getenv("ENABLE_SOLAR_CACHE") != "true" {
		return nil
	}

	cacheOnce.Do(func() {
		ttl := 1 * time.Hour
		if ttlStr := os.Getenv("SOLAR_CACHE_TTL"); ttlStr != "" {
			if parsed, err := time.ParseDuration(ttlStr); err == nil {
				ttl = parsed
			}
		}
		globalCache = NewSampleCache(ttl)
		go globalCache.cleanup()
	})

	return globalCache
}

// Get retrieves a series if present and not expired.
func (c *SampleCache) Get(key string) ([]model.TimeSample, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Samples, true
}

// Set stores a series.
func (c *SampleCache) Set(key string, samples []model.TimeSample) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &CacheEntry{
		Samples:   samples,
		ExpiresAt: time.Now().Add(c.ttl),
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *SampleCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries.
func (c *SampleCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

func (c *SampleCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.store {
			if now.After(entry.ExpiresAt) {
				delete(c.store, key)
			}
		}
		c.mu.Unlock()
	}
}

// GenerateCacheKey derives a deterministic key from the site and the grid.
func GenerateCacheKey(loc Location, linkeTurbidity float64, times []time.Time) string {
	var first, last string
	if len(times) > 0 {
		first = times[0].UTC().Format(time.RFC3339Nano)
		last = times[len(times)-1].UTC().Format(time.RFC3339Nano)
	}
	keyStr := fmt.Sprintf("%.6f:%.6f:%.2f:%s:%.3f:%s:%s:%d",
		loc.Latitude,
		loc.Longitude,
		loc.Altitude,
		loc.Timezone,
		linkeTurbidity,
		first,
		last,
		len(times),
	)

	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}

// CachedProvider wraps a ClearSkyProvider with a SampleCache. A nil cache
// disables caching.
type CachedProvider struct {
	Provider *ClearSkyProvider
	Cache    *SampleCache
}

func (p *CachedProvider) Samples(ctx context.Context, times []time.Time) ([]model.TimeSample, error) {
	key := GenerateCacheKey(p.Provider.Location, p.Provider.LinkeTurbidity, times)
	if cached, found := p.Cache.Get(key); found {
		log.Printf("[SolarCache] Cache hit: %d samples (lat=%.3f, lon=%.3f)",
			len(cached), p.Provider.Location.Latitude, p.Provider.Location.Longitude)
		return cached, nil
	}
	samples, err := p.Provider.Samples(ctx, times)
	if err != nil {
		return nil, err
	}
	p.Cache.Set(key, samples)
	return samples, nil
}
