package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leasezero/leasezero-backend/internal/models"
)

const (
	// catalogKey is where the serialized property catalog lives in Redis.
	catalogKey = "leasezero:properties:catalog"
	// CatalogTTL bounds staleness of the cached catalog.
	CatalogTTL = 10 * time.Minute
)

// CatalogCache fronts a PropertyStore with a Redis-cached full catalog for
// the browse view. Cache failures fall through to the backing store.
type CatalogCache struct {
	redis *redis.Client
	store PropertyStore
}

func NewCatalogCache(rdb *redis.Client, store PropertyStore) *CatalogCache {
	return &CatalogCache{redis: rdb, store: store}
}

// List returns the cached catalog when present, otherwise reads the store and
// repopulates the cache.
func (c *CatalogCache) List(ctx context.Context) []models.Property {
	if c.redis != nil {
		val, err := c.redis.Get(ctx, catalogKey).Result()
		if err == nil {
			var props []models.Property
			if jsonErr := json.Unmarshal([]byte(val), &props); jsonErr == nil {
				return props
			}
			// Corrupt cache entry: drop it and fall through to the store.
			c.redis.Del(ctx, catalogKey)
		}
	}

	props := c.store.ListAll()
	c.refresh(ctx, props)
	return props
}

// Invalidate drops the cached catalog; called after any listing mutation.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, catalogKey).Err(); err != nil {
		log.Printf("catalog cache: invalidate failed: %v", err)
	}
}

func (c *CatalogCache) refresh(ctx context.Context, props []models.Property) {
	if c.redis == nil {
		return
	}
	data, err := json.Marshal(props)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, catalogKey, data, CatalogTTL).Err(); err != nil {
		log.Printf("catalog cache: refresh failed: %v", err)
	}
}
