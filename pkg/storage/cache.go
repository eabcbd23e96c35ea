package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/openarchive/depot/pkg/observability"
	"github.com/openarchive/depot/pkg/query"
	"github.com/openarchive/depot/pkg/resource"
)

// CachedSource decorates a Source with an in-process LRU (L1) and an
// optional Redis layer (L2). Entries expire by TTL; the underlying source
// remains the authority and is consulted on every miss.
type CachedSource struct {
	inner    Source
	registry *resource.Registry
	ttl      time.Duration
	l1       *lru.Cache[string, l1entry]
	redis    *redis.Client          // nil disables L2
	metrics  *observability.Metrics // nil disables instrumentation
}

type l1entry struct {
	records []query.Record
	record  query.Record
	expires time.Time
}

// NewCachedSource wraps a source with caching. redisClient and metrics may
// be nil.
func NewCachedSource(inner Source, registry *resource.Registry, cfg Config, redisClient *redis.Client, metrics *observability.Metrics) (*CachedSource, error) {
	size := cfg.L1CacheSize
	if size <= 0 {
		size = 1024
	}
	l1, err := lru.New[string, l1entry](size)
	if err != nil {
		return nil, fmt.Errorf("create l1 cache: %w", err)
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedSource{
		inner:    inner,
		registry: registry,
		ttl:      ttl,
		l1:       l1,
		redis:    redisClient,
		metrics:  metrics,
	}, nil
}

func (c *CachedSource) hit(layer, op string) {
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.WithLabelValues(layer, op).Inc()
	}
}

func (c *CachedSource) miss(op string) {
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.WithLabelValues(op).Inc()
	}
}

// List returns records through the cache layers
func (c *CachedSource) List(ctx context.Context, resourceName string) ([]query.Record, error) {
	key := "list:" + resourceName
	if entry, ok := c.l1.Get(key); ok && time.Now().Before(entry.expires) {
		c.hit("l1", "list")
		return entry.records, nil
	}

	if c.redis != nil {
		if doc, err := c.redis.Get(ctx, key).Bytes(); err == nil {
			if records, err := c.decodeList(resourceName, doc); err == nil {
				c.hit("l2", "list")
				c.l1.Add(key, l1entry{records: records, expires: time.Now().Add(c.ttl)})
				return records, nil
			}
		}
	}

	c.miss("list")
	records, err := c.inner.List(ctx, resourceName)
	if err != nil {
		return nil, err
	}
	c.l1.Add(key, l1entry{records: records, expires: time.Now().Add(c.ttl)})
	if c.redis != nil {
		if doc, err := json.Marshal(records); err == nil {
			c.redis.Set(ctx, key, doc, c.ttl)
		}
	}
	return records, nil
}

// Get returns one record through the cache layers
func (c *CachedSource) Get(ctx context.Context, resourceName, key string) (query.Record, bool, error) {
	cacheKey := "get:" + resourceName + ":" + key
	if entry, ok := c.l1.Get(cacheKey); ok && time.Now().Before(entry.expires) {
		c.hit("l1", "get")
		return entry.record, entry.record != nil, nil
	}

	if c.redis != nil {
		if doc, err := c.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			if rec, err := c.decodeOne(resourceName, doc); err == nil {
				c.hit("l2", "get")
				c.l1.Add(cacheKey, l1entry{record: rec, expires: time.Now().Add(c.ttl)})
				return rec, true, nil
			}
		}
	}

	c.miss("get")
	rec, ok, err := c.inner.Get(ctx, resourceName, key)
	if err != nil || !ok {
		return rec, ok, err
	}
	c.l1.Add(cacheKey, l1entry{record: rec, expires: time.Now().Add(c.ttl)})
	if c.redis != nil {
		if doc, err := json.Marshal(rec); err == nil {
			c.redis.Set(ctx, cacheKey, doc, c.ttl)
		}
	}
	return rec, true, nil
}

// Count always consults the underlying source
func (c *CachedSource) Count(ctx context.Context, resourceName string) (int, error) {
	return c.inner.Count(ctx, resourceName)
}

// Invalidate drops all cached entries for a resource
func (c *CachedSource) Invalidate(ctx context.Context, resourceName string) {
	for _, key := range c.l1.Keys() {
		if strings.HasPrefix(key, "list:"+resourceName) || strings.HasPrefix(key, "get:"+resourceName+":") {
			c.l1.Remove(key)
		}
	}
	if c.redis != nil {
		iter := c.redis.Scan(ctx, 0, "get:"+resourceName+":*", 0).Iterator()
		for iter.Next(ctx) {
			c.redis.Del(ctx, iter.Val())
		}
		c.redis.Del(ctx, "list:"+resourceName)
	}
}

// HealthCheck verifies the underlying source and, when configured, Redis
func (c *CachedSource) HealthCheck(ctx context.Context) error {
	if err := c.inner.HealthCheck(ctx); err != nil {
		return err
	}
	if c.redis != nil {
		if err := c.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close closes the underlying source and the Redis connection
func (c *CachedSource) Close() error {
	if c.redis != nil {
		c.redis.Close()
	}
	return c.inner.Close()
}

func (c *CachedSource) decodeList(resourceName string, doc []byte) ([]query.Record, error) {
	t, err := c.registry.Describe(resourceName)
	if err != nil {
		return nil, err
	}
	var raw []map[string]any
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, err
	}
	records := make([]query.Record, 0, len(raw))
	for _, item := range raw {
		records = append(records, NormalizeRecord(c.registry, t, item))
	}
	return records, nil
}

func (c *CachedSource) decodeOne(resourceName string, doc []byte) (query.Record, error) {
	t, err := c.registry.Describe(resourceName)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, err
	}
	return NormalizeRecord(c.registry, t, raw), nil
}

// NewRedisClient builds a Redis client from the storage config
func NewRedisClient(cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	if cfg.RedisDB > 0 {
		opts.DB = cfg.RedisDB
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
