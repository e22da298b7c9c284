package providers

import (
	"auroscope/internal/structures"
	"strings"
)

// MetricsCacheProvider wraps a CacheProviderInterface and counts hits and misses on every Get,
// labelled by the key prefix before the first colon.
type MetricsCacheProvider struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func keyPrefix(key string) string {
	prefix, _, _ := strings.Cut(key, ":")
	return prefix
}

func (c *MetricsCacheProvider) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits(keyPrefix(key))
	} else {
		c.metrics.IncCacheMisses(keyPrefix(key))
	}
	return val, ok
}

func (c *MetricsCacheProvider) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

// Acquire and Release guard in-flight work, they are not lookups and are not counted.
func (c *MetricsCacheProvider) Acquire(key string) bool {
	return c.inner.Acquire(key)
}

func (c *MetricsCacheProvider) Release(key string) {
	c.inner.Release(key)
}

// NewInstrumentedCacheProvider returns the plain noop cache when caching is disabled,
// so no phantom misses are counted.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if _, disabled := inner.(*noopCache); disabled {
		return inner
	}
	return &MetricsCacheProvider{
		inner:   inner,
		metrics: metrics,
	}
}
