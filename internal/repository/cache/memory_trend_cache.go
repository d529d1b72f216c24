package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/dgraph-io/ristretto"
)

// MemoryTrendCache implements domain.TrendCache in process with ristretto
type MemoryTrendCache struct {
	cache *ristretto.Cache
}

// NewMemoryTrendCache creates a cache holding up to maxEntries series
func NewMemoryTrendCache(maxEntries int64) (*MemoryTrendCache, error) {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10, // keys to track frequency of
		MaxCost:     maxEntries,
		BufferItems: 64, // keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize trend cache: %w", err)
	}
	return &MemoryTrendCache{cache: c}, nil
}

// Get returns a copy of the cached series
func (c *MemoryTrendCache) Get(_ context.Context, key string) (*domain.TrendSeries, bool) {
	value, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	series, ok := value.(domain.TrendSeries)
	if !ok {
		return nil, false
	}
	series.Points = append([]domain.TrendPoint(nil), series.Points...)
	return &series, true
}

// Set stores a copy of the series; ristretto may drop it under pressure
func (c *MemoryTrendCache) Set(_ context.Context, key string, series *domain.TrendSeries, ttl time.Duration) {
	if series == nil {
		return
	}
	stored := *series
	stored.Points = append([]domain.TrendPoint(nil), series.Points...)
	c.cache.SetWithTTL(key, stored, 1, ttl)
}

// Wait blocks until buffered writes are applied
func (c *MemoryTrendCache) Wait() {
	c.cache.Wait()
}

// Close stops the cache's background goroutines
func (c *MemoryTrendCache) Close() {
	c.cache.Close()
}
