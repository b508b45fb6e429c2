package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when a cached entry exists but has
// exceeded its time-to-live. The data is still on disk but is considered
// stale; callers should fetch fresh data and update the cache with
// [Cache.Set].
//
// Use errors.Is to check for this error.
var ErrExpired = errors.New("cache entry expired")

// Cache is a file-based store for JSON-marshalable values.
//
// Each entry is a JSON file in the cache directory, named after the SHA-256
// hash of its key, which keeps filesystem-hostile keys (URLs, queries with
// slashes) safe. Expiry is based on file modification time: a TTL of 0 means
// entries never expire.
//
// A single Cache is not goroutine-safe, but multiple instances (even in
// different processes) can share a directory since writes are whole-file.
//
// Use [Cache.Namespace] to scope keys per consumer, e.g. the scraper's page
// cache and the GitHub API cache sharing one directory:
//
//	pages := cache.Namespace("page:")
//	api := cache.Namespace("api:")
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache creates a Cache rooted at dir with the given TTL.
//
// If dir is empty, the default directory ~/.cache/ghtopdep/ is used. The
// directory is created if it doesn't exist; directory creation is the only
// possible source of failure.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "ghtopdep")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl, prefix: ""}, nil
}

// Dir returns the absolute path to the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the time-to-live for cache entries. 0 means entries never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get retrieves a cached value by key and unmarshals it into v.
//
// Outcomes:
//   - (true, nil): hit; the value was fresh and unmarshaled into v.
//   - (false, nil): miss; no entry exists. v is unchanged.
//   - (false, ErrExpired): entry exists but exceeded its TTL. v is unchanged.
//   - (false, other error): I/O or unmarshal failure.
//
// Get never mutates the cache; reads do not refresh modification times.
func (c *Cache) Get(key string, v any) (bool, error) {
	path := c.keyPath(c.prefix + key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

// Set stores v in the cache under key, overwriting any existing entry and
// resetting its TTL.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(c.prefix+key), data, 0o644)
}

// Namespace returns a view of the cache that prefixes all keys with prefix.
// The returned Cache shares the parent's directory and TTL. Namespaces can
// be chained.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{
		dir:    c.dir,
		ttl:    c.ttl,
		prefix: c.prefix + prefix,
	}
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
