package services

import (
  "context"
  "encoding/json"
  "os"
  "time"

  "github.com/redis/go-redis/v9"

  "github.com/courseloom/backend/internal/curriculum"
  "github.com/courseloom/backend/internal/logger"
)

// SearchCache memoizes raw search results per query so repeated resource
// refreshes for similar sessions don't burn API quota. Cache failures are
// treated as misses.
type SearchCache interface {
  Get(ctx context.Context, key string) ([]curriculum.RawResource, bool)
  Set(ctx context.Context, key string, results []curriculum.RawResource)
}

type redisSearchCache struct {
  log *logger.Logger
  rdb *redis.Client
  ttl time.Duration
}

func NewRedisSearchCache(log *logger.Logger) SearchCache {
  addr := os.Getenv("REDIS_ADDR")
  if addr == "" {
    return &noopSearchCache{}
  }
  rdb := redis.NewClient(&redis.Options{
    Addr:     addr,
    Password: os.Getenv("REDIS_PASSWORD"),
  })
  return &redisSearchCache{
    log: log.With("service", "SearchCache"),
    rdb: rdb,
    ttl: 24 * time.Hour,
  }
}

func (c *redisSearchCache) Get(ctx context.Context, key string) ([]curriculum.RawResource, bool) {
  raw, err := c.rdb.Get(ctx, "search:"+key).Bytes()
  if err != nil {
    return nil, false
  }
  var results []curriculum.RawResource
  if err := json.Unmarshal(raw, &results); err != nil {
    return nil, false
  }
  return results, true
}

func (c *redisSearchCache) Set(ctx context.Context, key string, results []curriculum.RawResource) {
  raw, err := json.Marshal(results)
  if err != nil {
    return
  }
  if err := c.rdb.Set(ctx, "search:"+key, raw, c.ttl).Err(); err != nil {
    c.log.Warn("failed to cache search results", "key", key, "error", err)
  }
}

type noopSearchCache struct{}

func (noopSearchCache) Get(ctx context.Context, key string) ([]curriculum.RawResource, bool) {
  return nil, false
}

func (noopSearchCache) Set(ctx context.Context, key string, results []curriculum.RawResource) {}
