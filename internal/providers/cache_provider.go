package providers

import (
	"auroscope/internal/structures"
	"time"
	"unsafe"

	"github.com/coocood/freecache"
)

const (
	defaultTTL  = 5 * time.Minute
	guardMargin = time.Minute
)

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	// Acquire marks key as busy until Release or the guard TTL expires. Returns false if it is already busy.
	Acquire(key string) bool
	Release(key string)
}

type CacheProvider struct {
	cache    *freecache.Cache
	ttl      int
	guardTTL int
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Cache disabled")
		return &noopCache{}
	}

	sizeBytes := conf.Cache.Size * 1024 * 1024
	ttl := conf.Cache.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	ttlSeconds := max(int(ttl.Seconds()), 1)
	// a guard must outlive the report it protects
	guardSeconds := int((conf.Reports.ReportTimeout() + guardMargin).Seconds())

	logger.Infof(TypeApp, "Cache initialized: %dMB, TTL=%ds, guard TTL=%ds", conf.Cache.Size, ttlSeconds, guardSeconds)

	return &CacheProvider{
		cache:    freecache.NewCache(sizeBytes),
		ttl:      ttlSeconds,
		guardTTL: guardSeconds,
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// freecache copies keys internally, so the result is never modified.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *CacheProvider) Set(key string, value []byte) {
	_ = c.cache.Set(unsafeStringToBytes(key), value, c.ttl)
}

func (c *CacheProvider) Acquire(key string) bool {
	prev, err := c.cache.GetOrSet(unsafeStringToBytes(key), []byte{1}, c.guardTTL)
	return err == nil && prev == nil
}

func (c *CacheProvider) Release(key string) {
	c.cache.Del(unsafeStringToBytes(key))
}

// noopCache never remembers anything, so every Acquire succeeds.
type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
func (n *noopCache) Acquire(_ string) bool       { return true }
func (n *noopCache) Release(_ string)            {}
