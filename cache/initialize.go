package cache

import (
	"time"

	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// Config selects and configures the cache backend: "redis" or the in-process
// "memory" store. Type "none" (or empty) disables caching.
type Config struct {
	Type          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// ResponseCache stores encoded JSON responses keyed by resource.
// A nil *ResponseCache is valid and caches nothing.
type ResponseCache struct {
	backend cache.Cache
}

// InitializeCache connects the configured backend. When caching is disabled
// it returns nil, which every ResponseCache method accepts.
func InitializeCache(cfg Config) (*ResponseCache, error) {
	if cfg.Type == "" || cfg.Type == "none" {
		logger.Info("Response cache disabled")
		return nil, nil
	}

	backend, err := cache.New(cache.Config{
		Type:          cfg.Type,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Response cache initialized", zap.String("type", cfg.Type), zap.String("addr", cfg.RedisAddr))
	return &ResponseCache{backend: backend}, nil
}

// Get returns the cached bytes for key
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.backend.Get(key)
	if err != nil {
		return nil, false
	}
	// values go in as strings; redis may still hold raw bytes from elsewhere
	switch v := raw.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}

// Set stores value under key for ttl. The body is stored as a string because
// the redis backend JSON-encodes values, which would turn []byte into base64.
func (c *ResponseCache) Set(key string, value []byte, ttl time.Duration) {
	if c == nil {
		return
	}
	if err := c.backend.Set(key, string(value), ttl); err != nil {
		logger.Error("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}

// Delete evicts keys
func (c *ResponseCache) Delete(keys ...string) {
	if c == nil {
		return
	}
	for _, key := range keys {
		if err := c.backend.Delete(key); err != nil {
			logger.Error("Failed to evict cached response", zap.String("key", key), zap.Error(err))
		}
	}
}

// Close releases the backend connection
func (c *ResponseCache) Close() {
	if c == nil {
		return
	}
	c.backend.Close()
}
