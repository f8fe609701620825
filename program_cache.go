package lokalize

import "sync"

// ProgramCache stores compiled filter programs keyed by expression.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MemoryProgramCache is an unbounded in-memory ProgramCache.
type MemoryProgramCache struct {
	mu       sync.RWMutex
	programs map[string]any
}

// NewMemoryProgramCache returns an empty cache.
func NewMemoryProgramCache() *MemoryProgramCache {
	return &MemoryProgramCache{programs: map[string]any{}}
}

// Get implements ProgramCache.
func (c *MemoryProgramCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.programs[key]
	return value, ok
}

// Set implements ProgramCache.
func (c *MemoryProgramCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.programs == nil {
		c.programs = map[string]any{}
	}
	c.programs[key] = value
}

// Len returns the number of cached programs.
func (c *MemoryProgramCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}

// namespacedCache keeps programs of different engines apart when they share
// one cache.
type namespacedCache struct {
	prefix string
	cache  ProgramCache
}

func withNamespace(cache ProgramCache, engine string) ProgramCache {
	if cache == nil {
		return nil
	}
	return namespacedCache{prefix: engine + ":", cache: cache}
}

func (c namespacedCache) Get(key string) (any, bool) {
	return c.cache.Get(c.prefix + key)
}

func (c namespacedCache) Set(key string, value any) {
	c.cache.Set(c.prefix+key, value)
}
