package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ppiankov/credence/internal/model"
)

// Cache stores byte values with a TTL. A zero ttl means the cache default.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced, hashed cache key
func Key(namespace, raw string) string {
	hash := sha256.Sum256([]byte(raw))
	return "credence:v1:" + namespace + ":" + hex.EncodeToString(hash[:])
}

// NewFromConfig returns the configured cache, or nil when caching is disabled.
// An empty Dir keeps the cache in memory only.
func NewFromConfig(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayeredCache(
		NewMemoryCache(cfg.MemoryTTL, 10*time.Minute),
		NewDiskCache(cfg.Dir, cfg.DiskTTL),
	)
}
