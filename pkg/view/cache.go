package view

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is a process-wide map from a friendly key (typically a page name) to
// a compiled Template. The first caller for a key compiles and stores;
// subsequent callers get the cached handle.
//
// Concurrent first-time loads for the same key are collapsed with
// singleflight, so a compile runs at most once per key no matter how many
// requests race on a cold cache. Entries are never evicted: templates are
// startup artifacts of fixed number, not user data, so the map is bounded by
// the application's page count.
type Cache struct {
	mu        sync.RWMutex
	templates map[string]*Template
	group     singleflight.Group
}

// NewCache creates an empty template cache.
func NewCache() *Cache {
	return &Cache{templates: make(map[string]*Template)}
}

// Load returns the template cached under key, compiling it with compile on
// first use. If compile fails nothing is cached and every waiting caller
// receives the same error.
func (c *Cache) Load(key string, compile func() (*Template, error)) (*Template, error) {
	c.mu.RLock()
	t, ok := c.templates[key]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the group: another flight may have just stored it.
		c.mu.RLock()
		t, ok := c.templates[key]
		c.mu.RUnlock()
		if ok {
			return t, nil
		}

		t, err := compile()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.templates[key] = t
		c.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Template), nil
}

// Get returns the cached template for key without compiling.
func (c *Cache) Get(key string) (*Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.templates[key]
	return t, ok
}
