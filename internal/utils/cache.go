package utils

import (
	"os"
	"sync"
	"time"
)

// CacheItem represents a cached item with metadata for invalidation
type CacheItem[T any] struct {
	Value   T
	ModTime time.Time
	Size    int64
}

// FileCache caches values derived from files, invalidated when the file's
// modification time or size changes.
type FileCache[V any] struct {
	items map[string]*CacheItem[V]
	mutex sync.RWMutex
	hits  int
	miss  int
}

// NewFileCache creates a new file-backed cache
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{
		items: make(map[string]*CacheItem[V]),
	}
}

// Get returns the cached value for path if the file is unchanged since it was stored
func (c *FileCache[V]) Get(path string) (V, bool) {
	c.mutex.RLock()
	item, exists := c.items[path]
	c.mutex.RUnlock()

	var zero V
	if !exists {
		c.count(false)
		return zero, false
	}

	stat, err := os.Stat(path)
	if err == nil && stat.ModTime().Equal(item.ModTime) && stat.Size() == item.Size {
		c.count(true)
		return item.Value, true
	}

	c.Invalidate(path)
	c.count(false)
	return zero, false
}

// Set stores value for path along with the file's current metadata
func (c *FileCache[V]) Set(path string, value V) error {
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}
	c.store(path, value, stat)
	return nil
}

func (c *FileCache[V]) store(path string, value V, stat os.FileInfo) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[path] = &CacheItem[V]{
		Value:   value,
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
	}
}

// Load returns the cached value for path or computes, stores and returns it.
// The file is stat'ed before compute runs, so a write racing the read leaves
// an entry that the next Get sees as stale.
func (c *FileCache[V]) Load(path string, compute func(path string) (V, error)) (V, error) {
	if value, ok := c.Get(path); ok {
		return value, nil
	}

	stat, statErr := os.Stat(path)
	value, err := compute(path)
	if err != nil {
		return value, err
	}

	// a file that could not be stat'ed is simply not cached
	if statErr == nil {
		c.store(path, value, stat)
	}
	return value, nil
}

// Invalidate removes the entry for path
func (c *FileCache[V]) Invalidate(path string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, path)
}

// Stats returns cache statistics
func (c *FileCache[V]) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return CacheStats{Size: len(c.items), Hits: c.hits, Misses: c.miss}
}

func (c *FileCache[V]) count(hit bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if hit {
		c.hits++
	} else {
		c.miss++
	}
}

// CacheStats provides cache statistics
type CacheStats struct {
	Size   int
	Hits   int
	Misses int
}
