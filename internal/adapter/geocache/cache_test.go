package geocache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katyare123/weather-dashboard/internal/domain"
	"github.com/katyare123/weather-dashboard/internal/observability"
)

// --- mocks for decorator tests ---

type countingSearcher struct {
	calls   int
	results []domain.SearchResult
	err     error
}

func (m *countingSearcher) SearchLocations(_ context.Context, _ string) ([]domain.SearchResult, error) {
	m.calls++
	return m.results, m.err
}

type countingReverser struct {
	calls int
	name  string
	err   error
}

func (m *countingReverser) ReverseGeocode(_ context.Context, _, _ float64) (string, error) {
	m.calls++
	return m.name, m.err
}

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

// --- CachedSearcher tests ---

func TestCachedSearcher_CacheHit(t *testing.T) {
	inner := &countingSearcher{results: []domain.SearchResult{{Name: "Berlin", Country: "Germany"}}}
	cached := NewCachedSearcher(inner, 10, testMetrics())

	r1, err := cached.SearchLocations(context.Background(), "Berlin")
	require.NoError(t, err)
	require.Len(t, r1, 1)

	r2, err := cached.SearchLocations(context.Background(), "Berlin")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedSearcher_DifferentQueriesMiss(t *testing.T) {
	inner := &countingSearcher{results: []domain.SearchResult{{Name: "Somewhere"}}}
	cached := NewCachedSearcher(inner, 10, testMetrics())

	_, _ = cached.SearchLocations(context.Background(), "Berlin")
	_, _ = cached.SearchLocations(context.Background(), "Bergen")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedSearcher_EmptyResultsNotCached(t *testing.T) {
	inner := &countingSearcher{}
	cached := NewCachedSearcher(inner, 10, testMetrics())

	_, _ = cached.SearchLocations(context.Background(), "Xyzzyplugh")
	_, _ = cached.SearchLocations(context.Background(), "Xyzzyplugh")

	assert.Equal(t, 2, inner.calls, "empty result should be retried, not cached")
}

func TestCachedSearcher_ErrorsNotCached(t *testing.T) {
	inner := &countingSearcher{err: errors.New("boom")}
	cached := NewCachedSearcher(inner, 10, testMetrics())

	_, err := cached.SearchLocations(context.Background(), "Berlin")
	require.Error(t, err)

	_, err = cached.SearchLocations(context.Background(), "Berlin")
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

// --- CachedReverseGeocoder tests ---

func TestCachedReverseGeocoder_CacheHit(t *testing.T) {
	inner := &countingReverser{name: "Berlin, Germany"}
	cached := NewCachedReverseGeocoder(inner, 10, testMetrics())

	n1, err := cached.ReverseGeocode(context.Background(), 52.52, 13.405)
	require.NoError(t, err)
	assert.Equal(t, "Berlin, Germany", n1)

	n2, err := cached.ReverseGeocode(context.Background(), 52.52, 13.405)
	require.NoError(t, err)
	assert.Equal(t, n1, n2)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedReverseGeocoder_DistinctCoordinatesMiss(t *testing.T) {
	inner := &countingReverser{name: "Somewhere"}
	cached := NewCachedReverseGeocoder(inner, 10, testMetrics())

	_, _ = cached.ReverseGeocode(context.Background(), 52.52, 13.405)
	_, _ = cached.ReverseGeocode(context.Background(), 48.8566, 2.3522)

	assert.Equal(t, 2, inner.calls)
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", "A")
	c.put("b", "B")

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", v)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", "A")
	c.put("b", "B")
	c.put("c", "C") // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	v, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", v)

	v, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", v)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", "A")
	c.put("b", "B")

	// Access "a" to promote it
	c.get("a")

	// Insert "c"; should evict "b" (LRU), not "a"
	c.put("c", "C")

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", "A1")
	c.put("a", "A2")

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", v)
}
