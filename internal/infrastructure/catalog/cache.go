package catalog

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Wiritpol/Line-Bot-CP/internal/domain"
)

// Cache keeps the last loaded catalog in memory and reloads it only when the
// backing file's mtime changes. The snapshot keeps request handling
// independent of file I/O while still picking up new scrapes.
type Cache struct {
	source domain.CatalogSource
	path   string

	mu      sync.RWMutex
	records []domain.ProductRecord
	modTime time.Time
	loaded  bool
}

// NewCache wraps a catalog source with an mtime-invalidated snapshot of the
// file at path.
func NewCache(source domain.CatalogSource, path string) *Cache {
	return &Cache{source: source, path: path}
}

// Load returns the cached catalog, reloading it when the file changed since
// the last load. The returned slice is the shared immutable snapshot; callers
// must not mutate it.
func (c *Cache) Load(ctx context.Context) ([]domain.ProductRecord, error) {
	modTime := c.statModTime()

	c.mu.RLock()
	if c.loaded && modTime.Equal(c.modTime) {
		records := c.records
		c.mu.RUnlock()
		return records, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another request may have reloaded while we waited for the lock.
	if c.loaded && modTime.Equal(c.modTime) {
		return c.records, nil
	}

	records, err := c.source.Load(ctx)
	if err != nil {
		// Keep serving the previous snapshot rather than failing the message.
		if c.loaded {
			log.Printf("[CATALOG] reload failed, serving stale snapshot: %v", err)
			return c.records, nil
		}
		return nil, err
	}

	c.records = records
	c.modTime = modTime
	c.loaded = true
	return records, nil
}

// Size returns the number of records in the current snapshot.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// statModTime returns the file's mtime, or the zero time when the file is
// missing (a zero mtime still invalidates correctly when the file reappears).
func (c *Cache) statModTime() time.Time {
	info, err := os.Stat(c.path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
