package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"olist-insights/pkg/models"

	lru "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"
)

// Cache avoids re-parsing the CSV files on every interaction. Entries are
// keyed by directory path plus the newest file modtime, so invalidation is
// by file identity only: touching a file yields a new key, nothing expires
// by time.
type Cache struct {
	entries *lru.Cache
}

func NewCache(size int) (*Cache, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("dataset cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Load returns the cached Dataset for dir, reading from disk on a miss.
func (c *Cache) Load(dir string) (*models.Dataset, error) {
	key, err := cacheKey(dir)
	if err != nil {
		return nil, err
	}
	if v, ok := c.entries.Get(key); ok {
		return v.(*models.Dataset), nil
	}

	ds, err := Load(dir)
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, ds)
	log.WithFields(log.Fields{"dir": dir, "key": key}).Debug("Dataset cached")
	return ds, nil
}

// Reload drops the current entry for dir and loads fresh.
func (c *Cache) Reload(dir string) (*models.Dataset, error) {
	if key, err := cacheKey(dir); err == nil {
		c.entries.Remove(key)
	}
	return c.Load(dir)
}

func cacheKey(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", dir, err)
	}
	var newest time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}
	return fmt.Sprintf("%s|%d", dir, newest.UnixNano()), nil
}
