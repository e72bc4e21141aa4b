package compareinstitutions

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"accreditation-workers/internal/engine"

	"github.com/redis/go-redis/v9"
)

// Cache stores valid comparison results in Redis, keyed by the requested batch ids in
// request order. Completed batches never change, so an entry stays correct until it
// expires.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewCache(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

func (c *Cache) Key(batchIDs []string) string {
	return c.prefix + strings.Join(batchIDs, ",")
}

// Get returns the cached result, or false on a miss.
func (c *Cache) Get(ctx context.Context, batchIDs []string) (*engine.ComparisonResult, bool, error) {
	val, err := c.client.Get(ctx, c.Key(batchIDs)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var res engine.ComparisonResult
	if err := json.Unmarshal(val, &res); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return &res, true, nil
}

func (c *Cache) Set(ctx context.Context, batchIDs []string, res *engine.ComparisonResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.Key(batchIDs), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
