package storage

import (
	"encoding/json"
	"os"

	"github.com/maypok86/otter/v2"
)

// Cache is a keyed in-memory cache with whole-file JSON persistence:
// loaded once at construction, flushed after every mutation.
type Cache[T any] struct {
	outer    *otter.Cache[string, T]
	filePath string
}

func NewCache[T any](capacity int, filePath string) *Cache[T] {
	c := &Cache[T]{
		outer: otter.Must(&otter.Options[string, T]{
			InitialCapacity: capacity,
		}),
		filePath: filePath,
	}

	if c.filePath != "" {
		_ = c.loadFromDisk()
	}
	return c
}

func (c *Cache[T]) Set(key string, val T) {
	c.outer.Set(key, val)
	c.FlushToDisk()
}

func (c *Cache[T]) Get(key string) (T, bool) {
	return c.outer.GetIfPresent(key)
}

func (c *Cache[T]) Delete(key string) {
	c.outer.Invalidate(key)
	c.FlushToDisk()
}

// Items snapshots the current contents.
func (c *Cache[T]) Items() map[string]T {
	items := make(map[string]T)
	for k, v := range c.outer.All() {
		items[k] = v
	}
	return items
}

func (c *Cache[T]) FlushToDisk() {
	if c.filePath == "" {
		return
	}

	data, err := json.MarshalIndent(c.Items(), "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(c.filePath, data, 0600)
}

func (c *Cache[T]) loadFromDisk() error {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		return err
	}

	var items map[string]T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	for k, v := range items {
		c.outer.Set(k, v)
	}
	return nil
}
