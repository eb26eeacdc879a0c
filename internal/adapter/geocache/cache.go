// Package geocache wraps the geocoding providers with an in-memory LRU
// cache. Only geocode lookups are cached; forecast responses never are.
package geocache

import (
	"context"
	"fmt"
	"sync"

	"github.com/katyare123/weather-dashboard/internal/domain"
	"github.com/katyare123/weather-dashboard/internal/observability"
)

// CachedSearcher decorates a LocationSearcher with an LRU cache keyed on the
// raw query string.
type CachedSearcher struct {
	inner   domain.LocationSearcher
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedSearcher creates a cache decorator around a location searcher.
func NewCachedSearcher(inner domain.LocationSearcher, maxEntries int, metrics *observability.Metrics) *CachedSearcher {
	return &CachedSearcher{inner: inner, cache: newLRUCache(maxEntries), metrics: metrics}
}

func (c *CachedSearcher) SearchLocations(ctx context.Context, query string) ([]domain.SearchResult, error) {
	key := "search:" + query
	if v, ok := c.cache.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("search", "hit").Inc()
		return v.([]domain.SearchResult), nil
	}
	c.metrics.GeocodeCache.WithLabelValues("search", "miss").Inc()

	results, err := c.inner.SearchLocations(ctx, query)
	if err != nil {
		return nil, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if len(results) > 0 {
		c.cache.put(key, results)
	}
	return results, nil
}

// CachedReverseGeocoder decorates a ReverseGeocoder with an LRU cache keyed
// on rounded coordinates.
type CachedReverseGeocoder struct {
	inner   domain.ReverseGeocoder
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedReverseGeocoder creates a cache decorator around a reverse geocoder.
func NewCachedReverseGeocoder(inner domain.ReverseGeocoder, maxEntries int, metrics *observability.Metrics) *CachedReverseGeocoder {
	return &CachedReverseGeocoder{inner: inner, cache: newLRUCache(maxEntries), metrics: metrics}
}

func (c *CachedReverseGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	key := fmt.Sprintf("rev:%.6f,%.6f", lat, lon)
	if v, ok := c.cache.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("reverse", "hit").Inc()
		return v.(string), nil
	}
	c.metrics.GeocodeCache.WithLabelValues("reverse", "miss").Inc()

	name, err := c.inner.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return "", err
	}
	if name != "" {
		c.cache.put(key, name)
	}
	return name, nil
}

// lruCache is a simple thread-safe LRU cache.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value any
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
