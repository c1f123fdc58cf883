// Package cache memoizes loaded datasets per source identity so repeated
// view renders never redo I/O or normalization.
package cache

import (
	"fmt"
	"sync"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/singleflight"

	"github.com/niveshke/esg-explorer/internal/model"
)

// Key identifies one (source, locator) load. Distinct keys cache
// independently; identical keys share a single load.
type Key string

// LocatorKey builds a key from a source kind and its locator (a file path,
// a download URL, an upload name).
func LocatorKey(kind, locator string) Key {
	return Key(kind + ":" + locator)
}

// ContentKey builds a key from a source kind and the raw bytes themselves,
// so two uploads with identical content share a cache entry regardless of
// name.
func ContentKey(kind string, data []byte) Key {
	return Key(fmt.Sprintf("%s:%016x", kind, xxh3.Hash(data)))
}

// Cache holds loaded datasets for the lifetime of the process. Entries are
// never invalidated; datasets are read-only and bounded, so the only
// eviction is process restart.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*model.Dataset
	group   singleflight.Group
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[Key]*model.Dataset)}
}

// GetOrLoad returns the dataset for key, invoking loader at most once per
// key even under concurrent callers: simultaneous requests for the same key
// share one in-flight load and all receive its result. A failed load is not
// cached, so a later call may retry.
func (c *Cache) GetOrLoad(key Key, loader func() (*model.Dataset, error)) (*model.Dataset, error) {
	c.mu.RLock()
	ds, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return ds, nil
	}

	v, err, _ := c.group.Do(string(key), func() (any, error) {
		// Re-check under the group: another caller may have completed the
		// load between the fast path and Do.
		c.mu.RLock()
		ds, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return ds, nil
		}

		ds, err := loader()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = ds
		c.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Dataset), nil
}

// Len reports the number of cached datasets.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
