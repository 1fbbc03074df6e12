// Package cache provides the run-scoped lookup caches used by the export
// clients: remote media presence, default folder ids, currency and tax
// lookups. A run cache lives for one export run; the in-memory variant is
// per process, the Redis variant shares state across instances.
package cache

import (
	"context"
	"sync"
)

// InMemoryRunCache is a map-backed run cache suitable for single-instance
// deployments and tests.
type InMemoryRunCache struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewInMemoryRunCache creates an empty in-memory run cache.
func NewInMemoryRunCache() *InMemoryRunCache {
	return &InMemoryRunCache{values: make(map[string]string)}
}

// Get returns the cached value and whether it was present.
func (c *InMemoryRunCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.values[key]
	return value, ok, nil
}

// Set stores the value.
func (c *InMemoryRunCache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

// Delete removes the key.
func (c *InMemoryRunCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

// Clear drops every entry. Invoked at the start of each export run so stale
// remote lookups never leak into the next run.
func (c *InMemoryRunCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string]string)
	return nil
}
