// Package flapcache caches fetched dataset payloads and narrative API
// responses. The CLI uses a disk-persisted cache; the server keeps a
// memory-only one.
package flapcache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maypok86/otter/v2"
)

const cacheFileName = "flapwatch-cache.gob"

// Entry is one cached payload with its expiry.
type Entry struct {
	ExpiresAt time.Time
	Data      []byte
}

// Cache is an otter-backed payload cache, optionally persisted to disk.
type Cache struct {
	cache  otter.Cache[string, Entry]
	logger *slog.Logger
	dir    string // empty for memory-only
	ttl    time.Duration
	mu     sync.Mutex
}

// New opens a disk-persisted cache rooted at dir, loading any entries a
// previous run saved.
func New(dir string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	c := newCache(dir, ttl, logger)
	if err := c.loadFromDisk(); err != nil {
		logger.Warn("could not load cache from disk", "error", err)
	}
	logger.Debug("cache ready", "dir", dir, "entries", c.cache.EstimatedSize())
	return c, nil
}

// NewMemory opens a cache that never touches disk.
func NewMemory(ttl time.Duration, logger *slog.Logger) *Cache {
	return newCache("", ttl, logger)
}

func newCache(dir string, ttl time.Duration, logger *slog.Logger) *Cache {
	cache := otter.Must(&otter.Options[string, Entry]{
		MaximumSize:      10_000,
		InitialCapacity:  1_000,
		ExpiryCalculator: otter.ExpiryWriting[string, Entry](ttl),
	})
	return &Cache{cache: *cache, dir: dir, ttl: ttl, logger: logger}
}

// Get returns the cached payload for a key, honoring expiry.
func (c *Cache) Get(key string) ([]byte, bool) {
	entry, found := c.cache.GetIfPresent(hashKey(key))
	if !found {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		c.cache.Invalidate(hashKey(key))
		return nil, false
	}
	return entry.Data, true
}

// Set stores a payload under a key with the cache TTL.
func (c *Cache) Set(key string, data []byte) {
	c.cache.Set(hashKey(key), Entry{Data: data, ExpiresAt: time.Now().Add(c.ttl)})
	c.logger.Debug("cache set", "key", key, "size", len(data))
}

// Close flushes a disk-backed cache; memory caches close without I/O.
func (c *Cache) Close() error {
	if c.dir == "" {
		return nil
	}
	return c.saveToDisk()
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) loadFromDisk() error {
	file, err := os.Open(filepath.Join(c.dir, cacheFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening cache file: %w", err)
	}
	defer file.Close() //nolint:errcheck // read-only handle

	var entries map[string]Entry
	if err := gob.NewDecoder(file).Decode(&entries); err != nil {
		return fmt.Errorf("decoding cache file: %w", err)
	}

	now := time.Now()
	for key, entry := range entries {
		if now.Before(entry.ExpiresAt) {
			c.cache.Set(key, entry)
		}
	}
	return nil
}

func (c *Cache) saveToDisk() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := filepath.Join(c.dir, cacheFileName)
	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	defer os.Remove(tempPath) //nolint:errcheck // best-effort cleanup after rename

	entries := make(map[string]Entry)
	now := time.Now()
	c.cache.All()(func(key string, entry Entry) bool {
		if now.Before(entry.ExpiresAt) {
			entries[key] = entry
		}
		return true
	})

	if err := gob.NewEncoder(file).Encode(entries); err != nil {
		file.Close() //nolint:errcheck,gosec // already failing
		return fmt.Errorf("encoding cache: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing cache file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}
	c.logger.Debug("cache saved", "entries", len(entries), "path", path)
	return nil
}
