// Package store provides the embed result cache backed by an LRU cache and a Bloom filter.
package store

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ResultCache remembers resolved embed URLs and the inputs that were rejected.
// Rejected keys are screened by a Bloom filter so unknown input skips the LRU lookup.
type ResultCache struct {
	resolved               *lru.Cache[string, string]
	rejected               *lru.Cache[string, struct{}]
	bloom                  *bloom.BloomFilter
	mutex                  sync.RWMutex
	maxEntries             int
	bloomFalsePositiveRate float64
}

// NewResultCache creates a cache holding up to maxEntries resolved and maxEntries rejected keys.
func NewResultCache(maxEntries int, bloomFalsePositiveRate float64) *ResultCache {
	if maxEntries <= 0 || maxEntries > int(^uint(0)>>1) {
		panic("maxEntries value out of range")
	}

	resolved, _ := lru.New[string, string](maxEntries)
	rejected, _ := lru.New[string, struct{}](maxEntries)

	return &ResultCache{
		resolved:               resolved,
		rejected:               rejected,
		bloom:                  bloom.NewWithEstimates(uint(maxEntries), bloomFalsePositiveRate),
		maxEntries:             maxEntries,
		bloomFalsePositiveRate: bloomFalsePositiveRate,
	}
}

// Get returns the embed URL stored for key.
func (c *ResultCache) Get(key string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.resolved.Get(key)
}

// Put stores a resolved embed URL, clearing any earlier rejection of the same key.
func (c *ResultCache) Put(key, embedURL string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.rejected.Remove(key)
	c.resolved.Add(key, embedURL)
}

// IsRejected checks if key was previously rejected.
func (c *ResultCache) IsRejected(key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if !c.bloom.TestString(key) {
		return false
	}
	return c.rejected.Contains(key)
}

// Reject remembers that key could not be resolved.
func (c *ResultCache) Reject(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.rejected.Contains(key) {
		return
	}

	c.resolved.Remove(key)
	c.bloom.AddString(key)
	c.rejected.Add(key, struct{}{})
}

// Forget removes key from both sets.
func (c *ResultCache) Forget(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.resolved.Remove(key)
	c.rejected.Remove(key)
	// The Bloom filter keeps the key; the LRU lookup stays authoritative.
}

// Stats returns the number of resolved and rejected keys currently held.
func (c *ResultCache) Stats() (resolved, rejected int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.resolved.Len(), c.rejected.Len()
}

// Clear empties the cache.
func (c *ResultCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.resolved.Purge()
	c.rejected.Purge()
	c.bloom = bloom.NewWithEstimates(uint(c.maxEntries), c.bloomFalsePositiveRate)
}
